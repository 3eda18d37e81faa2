package cron

import (
	"time"

	"aqarat_backend/internal/model"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PruneResetTokens deletes reset tokens older than model.PasswordResetTTL.
func PruneResetTokens(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("created_at < ?", now.Add(-model.PasswordResetTTL)).
		Delete(&model.PasswordResetToken{})
	return res.RowsAffected, res.Error
}

// InitResetTokenCron schedules the hourly pruning job and returns the
// running scheduler so the caller can stop it on shutdown.
func InitResetTokenCron(db *gorm.DB) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		n, err := PruneResetTokens(db, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("pruning password reset tokens")
			return
		}
		if n > 0 {
			log.Info().Int64("deleted", n).Msg("pruned expired password reset tokens")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("could not initialize reset token cron")
		return c
	}

	c.Start()
	return c
}
