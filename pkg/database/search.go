package database

import (
	"fmt"

	"aqarat_backend/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// searchIndexSQL must use the exact expression the listing query ranks on,
// otherwise Postgres will not pick the index.
const searchIndexSQL = `CREATE INDEX IF NOT EXISTS idx_properties_search ON properties
USING GIN (to_tsvector('simple', coalesce(title, '') || ' ' || coalesce(description, '')))`

// EnsureSearchIndexes creates the full-text index on Postgres. Other
// dialects have nothing to create.
func EnsureSearchIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(searchIndexSQL).Error; err != nil {
		return fmt.Errorf("create search index: %w", err)
	}
	return nil
}

const backfillBatch = 200

// BackfillLocationSearch recomputes city_search and district_search for
// rows where either column is empty. Saving runs the model hook, so the
// columns are filled by the same normalization used for queries.
func BackfillLocationSearch(db *gorm.DB) (int, error) {
	var (
		rows    []model.PropertyLocation
		updated int
	)
	res := db.Where("city_search = '' OR city_search IS NULL OR district_search = '' OR district_search IS NULL").
		FindInBatches(&rows, backfillBatch, func(tx *gorm.DB, batch int) error {
			for i := range rows {
				if err := tx.Save(&rows[i]).Error; err != nil {
					return err
				}
			}
			updated += len(rows)
			return nil
		})
	if res.Error != nil {
		return updated, fmt.Errorf("backfill location search: %w", res.Error)
	}
	if updated > 0 {
		log.Info().Int("rows", updated).Msg("backfilled location search columns")
	}
	return updated, nil
}
