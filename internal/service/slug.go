package service

import (
	"fmt"

	"aqarat_backend/internal/model"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// uniqueSlug slugifies title and appends -1, -2, ... until no other property
// (soft-deleted rows included, since the index covers them) uses it.
// excludeID lets an update keep its own slug.
func uniqueSlug(tx *gorm.DB, title string, excludeID uint) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "property"
	}

	candidate := base
	for i := 1; ; i++ {
		var n int64
		q := tx.Unscoped().Model(&model.Property{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&n).Error; err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
