package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/resource"
	"aqarat_backend/pkg/cache"

	"gorm.io/gorm"
)

type SettingsInput struct {
	Location     string
	Phone        string
	Email        string
	OpeningHours string
	Facebook     string
	Twitter      string
	Instagram    string
	Linkedin     string
	Youtube      string
	Logo         *multipart.FileHeader
}

type SettingsService struct {
	db    *gorm.DB
	cache cache.Store
	media *Media
}

func NewSettingsService(db *gorm.DB, store cache.Store, media *Media) *SettingsService {
	return &SettingsService{db: db, cache: store, media: media}
}

func (s *SettingsService) Get(ctx context.Context) (resource.Settings, error) {
	return cache.RememberForever(ctx, s.cache, cache.KeySettings,
		func(ctx context.Context) (resource.Settings, error) {
			var row model.Settings
			err := s.db.WithContext(ctx).Order("id ASC").First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resource.Settings{}, ErrSettingsMissing
			}
			if err != nil {
				return resource.Settings{}, err
			}
			return resource.NewSettings(&row), nil
		})
}

// Update overwrites the settings row, creating it when missing. A new logo
// replaces the old file once the row is saved.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (resource.Settings, error) {
	var logoURL string
	if in.Logo != nil {
		url, err := s.media.SaveImage(ctx, in.Logo, "settings")
		if err != nil {
			return resource.Settings{}, err
		}
		logoURL = url
	}

	var row model.Settings
	var oldLogo string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").FirstOrInit(&row).Error; err != nil {
			return err
		}
		row.Location = in.Location
		row.Phone = in.Phone
		row.Email = in.Email
		row.OpeningHours = in.OpeningHours
		row.Facebook = in.Facebook
		row.Twitter = in.Twitter
		row.Instagram = in.Instagram
		row.Linkedin = in.Linkedin
		row.Youtube = in.Youtube
		if logoURL != "" {
			oldLogo, row.Logo = row.Logo, logoURL
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		s.media.Discard(ctx, logoURL)
		return resource.Settings{}, fmt.Errorf("update settings: %w", err)
	}

	s.media.Discard(ctx, oldLogo)
	forget(ctx, s.cache, cache.KeySettings)
	return resource.NewSettings(&row), nil
}

// Slider returns one slider, cached by id.
func (s *SettingsService) Slider(ctx context.Context, id uint) (resource.Slider, error) {
	return cache.RememberForever(ctx, s.cache, cache.EntityKey(cache.NSSlider, id),
		func(ctx context.Context) (resource.Slider, error) {
			var row model.Slider
			err := s.db.WithContext(ctx).First(&row, id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resource.Slider{}, ErrSliderNotFound
			}
			if err != nil {
				return resource.Slider{}, err
			}
			return resource.NewSlider(&row), nil
		})
}
