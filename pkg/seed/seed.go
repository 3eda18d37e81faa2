package seed

import (
	"errors"
	"fmt"

	"aqarat_backend/internal/model"
	"aqarat_backend/pkg/config"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run creates the settings row, the first slider and the admin account when
// they are missing. It never overwrites existing rows.
func Run(db *gorm.DB, cfg config.SeedConfig) error {
	if err := SeedSettings(db); err != nil {
		return err
	}
	if err := SeedSlider(db); err != nil {
		return err
	}
	return SeedAdmin(db, cfg)
}

func SeedSettings(db *gorm.DB) error {
	settings := model.Settings{
		Location:     "القاهرة، مصر",
		Phone:        "01000000000",
		Email:        "info@aqarat.app",
		OpeningHours: "السبت - الخميس: 9 ص - 6 م",
	}
	if err := db.FirstOrCreate(&settings, model.Settings{}).Error; err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}

func SeedSlider(db *gorm.DB) error {
	slider := model.Slider{
		Title:    "ابحث عن منزل أحلامك",
		Subtitle: "آلاف العقارات للبيع والإيجار في مكان واحد",
	}
	if err := db.FirstOrCreate(&slider, model.Slider{}).Error; err != nil {
		return fmt.Errorf("seed slider: %w", err)
	}
	return nil
}

// SeedAdmin is skipped when no admin email or password is configured.
func SeedAdmin(db *gorm.DB, cfg config.SeedConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Debug().Msg("admin seed skipped: SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}

	var existing model.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	admin := model.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: string(hash),
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("email", admin.Email).Msg("admin user seeded")
	return nil
}
