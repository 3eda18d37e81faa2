package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// UserSet is an insertion-ordered set of user ids persisted as a JSON array.
// Duplicates never survive a Scan or a Toggle.
type UserSet []uint

func (s UserSet) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id when present, keeping the order of the remaining ids,
// and appends it otherwise. It reports whether id is a member afterwards.
func (s UserSet) Toggle(id uint) (UserSet, bool) {
	for i, v := range s {
		if v == id {
			out := make(UserSet, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...), false
		}
	}
	out := make(UserSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, id), true
}

func (s UserSet) dedup() UserSet {
	out := make(UserSet, 0, len(s))
	seen := make(map[uint]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s UserSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uint(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *UserSet) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = UserSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("user set: unsupported scan type %T", value)
	}

	var ids []uint
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ids); err != nil {
			return fmt.Errorf("user set: %w", err)
		}
	}
	*s = UserSet(ids).dedup()
	return nil
}

// GormDataType and GormDBDataType keep the column type in line with the
// other JSON columns.
func (UserSet) GormDataType() string {
	return datatypes.JSONSlice[uint]{}.GormDataType()
}

func (UserSet) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.JSONSlice[uint]{}.GormDBDataType(db, field)
}
