package service

import (
	"context"
	"fmt"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/resource"
	"aqarat_backend/internal/search"
	"aqarat_backend/pkg/cache"

	"gorm.io/gorm"
)

type FavoriteService struct {
	db    *gorm.DB
	cache cache.Store
}

func NewFavoriteService(db *gorm.DB, store cache.Store) *FavoriteService {
	return &FavoriteService{db: db, cache: store}
}

// Toggle adds the property to the user's favorites or removes it, and
// reports whether it is a favorite afterwards.
func (s *FavoriteService) Toggle(ctx context.Context, userID, propertyID uint) (bool, error) {
	var added bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Property{}).Where("id = ?", propertyID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrPropertyNotFound
		}

		res := tx.Exec("DELETE FROM user_favorite_properties WHERE user_id = ? AND property_id = ?", userID, propertyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		added = true
		return tx.Exec("INSERT INTO user_favorite_properties (user_id, property_id) VALUES (?, ?)", userID, propertyID).Error
	})
	if err != nil {
		return false, err
	}

	forget(ctx, s.cache, cache.EntityKey(cache.NSUserFavorites, userID))
	return added, nil
}

// List returns the user's favorite listings, cached per user.
func (s *FavoriteService) List(ctx context.Context, userID uint) ([]resource.Property, error) {
	return cache.RememberForever(ctx, s.cache, cache.EntityKey(cache.NSUserFavorites, userID),
		func(ctx context.Context) ([]resource.Property, error) {
			var props []model.Property
			err := s.db.WithContext(ctx).
				Scopes(search.WithRelations(search.ListingRelations)).
				Joins("JOIN user_favorite_properties ufp ON ufp.property_id = properties.id").
				Where("ufp.user_id = ?", userID).
				Order("properties.id ASC").
				Find(&props).Error
			if err != nil {
				return nil, fmt.Errorf("list favorites: %w", err)
			}
			return resource.NewProperties(props), nil
		})
}
