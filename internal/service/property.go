package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/resource"
	"aqarat_backend/internal/search"
	"aqarat_backend/pkg/cache"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type LocationInput struct {
	City      string
	District  string
	Street    string
	Landmark  *string
	Latitude  *float64
	Longitude *float64
}

type PropertyInput struct {
	Title           string
	Description     string
	Price           float64
	Currency        string
	Discount        *float64
	DiscountedPrice *float64
	Type            model.ListingType
	Purpose         model.Purpose
	PropertyType    model.PropertyKind
	Bedrooms        int
	Bathrooms       int
	LivingRooms     int
	Kitchens        int
	Balconies       int
	AreaTotal       float64
	Floor           *int
	TotalFloors     *int
	Furnishing      model.Furnishing
	Features        []string
	Tags            []string
	Status          model.PropertyStatus
	IsFeatured      bool
	OwnerID         *uint
	AgencyID        *uint
	Location        LocationInput

	Images []*multipart.FileHeader
	Videos []*multipart.FileHeader
}

// PropertyPatch is a partial update: nil fields are left unchanged. Non-empty
// Images or Videos replace the existing set.
type PropertyPatch struct {
	Title           *string
	Description     *string
	Price           *float64
	Currency        *string
	Discount        *float64
	DiscountedPrice *float64
	Type            *model.ListingType
	Purpose         *model.Purpose
	PropertyType    *model.PropertyKind
	Bedrooms        *int
	Bathrooms       *int
	LivingRooms     *int
	Kitchens        *int
	Balconies       *int
	AreaTotal       *float64
	Floor           *int
	TotalFloors     *int
	Furnishing      *model.Furnishing
	Features        *[]string
	Tags            *[]string
	Status          *model.PropertyStatus
	IsFeatured      *bool

	City      *string
	District  *string
	Street    *string
	Landmark  *string
	Latitude  *float64
	Longitude *float64

	Images []*multipart.FileHeader
	Videos []*multipart.FileHeader
}

type PropertyService struct {
	db    *gorm.DB
	cache cache.Store
	media *Media
}

func NewPropertyService(db *gorm.DB, store cache.Store, media *Media) *PropertyService {
	return &PropertyService{db: db, cache: store, media: media}
}

// Index returns one cached page of all listings, newest first.
func (s *PropertyService) Index(ctx context.Context, page int) (resource.PropertyPage, error) {
	page = normalizePage(page)
	return cache.RememberForever(ctx, s.cache, cache.PageKey(cache.NSPropertiesPage, page),
		func(ctx context.Context) (resource.PropertyPage, error) {
			return s.page(ctx, search.Build(search.FilterSpec{Page: page}))
		})
}

// Filter runs an uncached filtered search.
func (s *PropertyService) Filter(ctx context.Context, spec search.FilterSpec) (resource.PropertyPage, error) {
	return s.page(ctx, search.Build(spec))
}

func (s *PropertyService) page(ctx context.Context, plan search.QueryPlan) (resource.PropertyPage, error) {
	dialect := s.db.Dialector.Name()
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Property{}).Scopes(plan.Filter(dialect)).Count(&total).Error; err != nil {
		return resource.PropertyPage{}, fmt.Errorf("count properties: %w", err)
	}

	var rows []model.Property
	if err := db.Model(&model.Property{}).Scopes(plan.Scope(dialect)).Find(&rows).Error; err != nil {
		return resource.PropertyPage{}, fmt.Errorf("list properties: %w", err)
	}

	return resource.PropertyPage{
		Properties: resource.NewProperties(rows),
		Pagination: resource.NewPagination(plan.Page, plan.PageSize, total, len(rows)),
	}, nil
}

// BySlug checks the property exists before consulting the cache, so a
// deleted listing is never served from a stale entry of another request.
func (s *PropertyService) BySlug(ctx context.Context, slug string) (resource.Property, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Property{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return resource.Property{}, err
	}
	if n == 0 {
		return resource.Property{}, ErrPropertyNotFound
	}

	return cache.RememberForever(ctx, s.cache, cache.EntityKey(cache.NSProperty, slug),
		func(ctx context.Context) (resource.Property, error) {
			var p model.Property
			err := s.db.WithContext(ctx).Scopes(search.WithRelations(search.ListingRelations)).
				Where("slug = ?", slug).First(&p).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resource.Property{}, ErrPropertyNotFound
			}
			if err != nil {
				return resource.Property{}, err
			}
			return resource.NewProperty(&p), nil
		})
}

// Create stores a listing with its location and media. page is the listing
// page the admin is looking at; only that page is invalidated.
func (s *PropertyService) Create(ctx context.Context, in PropertyInput, page int) (*model.Property, error) {
	imageURLs, err := s.media.SaveImages(ctx, in.Images, "properties")
	if err != nil {
		return nil, err
	}
	videoURLs, err := s.media.SaveVideos(ctx, in.Videos)
	if err != nil {
		s.media.Discard(ctx, imageURLs...)
		return nil, err
	}

	p := model.Property{
		Title:           in.Title,
		Description:     in.Description,
		Price:           in.Price,
		Currency:        in.Currency,
		Discount:        in.Discount,
		DiscountedPrice: in.DiscountedPrice,
		Type:            in.Type,
		Purpose:         in.Purpose,
		PropertyType:    in.PropertyType,
		Bedrooms:        in.Bedrooms,
		Bathrooms:       in.Bathrooms,
		LivingRooms:     in.LivingRooms,
		Kitchens:        in.Kitchens,
		Balconies:       in.Balconies,
		AreaTotal:       in.AreaTotal,
		Floor:           in.Floor,
		TotalFloors:     in.TotalFloors,
		Furnishing:      in.Furnishing,
		Features:        in.Features,
		Tags:            in.Tags,
		Status:          in.Status,
		IsFeatured:      in.IsFeatured,
		OwnerID:         in.OwnerID,
		AgencyID:        in.AgencyID,
		Location: &model.PropertyLocation{
			City:      in.Location.City,
			District:  in.Location.District,
			Street:    in.Location.Street,
			Landmark:  in.Location.Landmark,
			Latitude:  in.Location.Latitude,
			Longitude: in.Location.Longitude,
		},
		Images: imageRows(imageURLs),
		Videos: videoRows(videoURLs),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, p.Title, 0)
		if err != nil {
			return err
		}
		p.Slug = slug
		return tx.Create(&p).Error
	})
	if err != nil {
		s.media.Discard(ctx, append(imageURLs, videoURLs...)...)
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.forget(ctx, cache.PageKey(cache.NSPropertiesPage, normalizePage(page)))
	return &p, nil
}

// Update applies patch to property id. New media replaces old media; the old
// files are deleted only after the transaction commits.
func (s *PropertyService) Update(ctx context.Context, id uint, patch PropertyPatch, page int) (*model.Property, error) {
	var p model.Property
	err := s.db.WithContext(ctx).Preload("Location").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	oldSlug := p.Slug

	imageURLs, err := s.media.SaveImages(ctx, patch.Images, "properties")
	if err != nil {
		return nil, err
	}
	videoURLs, err := s.media.SaveVideos(ctx, patch.Videos)
	if err != nil {
		s.media.Discard(ctx, imageURLs...)
		return nil, err
	}

	var staleFiles []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		titleChanged := patch.Title != nil && *patch.Title != p.Title
		applyPatch(&p, patch)
		if titleChanged {
			slug, err := uniqueSlug(tx, p.Title, p.ID)
			if err != nil {
				return err
			}
			p.Slug = slug
		}

		if err := tx.Omit("Location", "Images", "Videos", "Owner", "Agency").Save(&p).Error; err != nil {
			return err
		}

		if p.Location != nil {
			applyLocationPatch(p.Location, patch)
			if err := tx.Save(p.Location).Error; err != nil {
				return err
			}
		}

		if len(imageURLs) > 0 {
			old, err := replaceImages(tx, p.ID, imageURLs)
			if err != nil {
				return err
			}
			staleFiles = append(staleFiles, old...)
		}
		if len(videoURLs) > 0 {
			old, err := replaceVideos(tx, p.ID, videoURLs)
			if err != nil {
				return err
			}
			staleFiles = append(staleFiles, old...)
		}
		return nil
	})
	if err != nil {
		s.media.Discard(ctx, append(imageURLs, videoURLs...)...)
		return nil, fmt.Errorf("update property: %w", err)
	}

	s.media.Discard(ctx, staleFiles...)

	keys := []string{
		cache.PageKey(cache.NSPropertiesPage, normalizePage(page)),
		cache.EntityKey(cache.NSProperty, oldSlug),
	}
	if p.Slug != oldSlug {
		keys = append(keys, cache.EntityKey(cache.NSProperty, p.Slug))
	}
	s.forget(ctx, keys...)
	return &p, nil
}

// Delete removes the property and its location, images and videos in one
// transaction, then deletes the stored files. Users who had it favorited get
// their cached favorites list dropped too.
func (s *PropertyService) Delete(ctx context.Context, id uint, page int) error {
	var p model.Property
	err := s.db.WithContext(ctx).Select("id", "slug").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPropertyNotFound
	}
	if err != nil {
		return err
	}

	var (
		files []string
		fans  []uint
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var images, videos []string
		if err := tx.Model(&model.PropertyImage{}).Where("property_id = ?", id).Pluck("image_url", &images).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.PropertyVideo{}).Where("property_id = ?", id).Pluck("video_url", &videos).Error; err != nil {
			return err
		}
		files = append(images, videos...)

		for _, m := range []any{&model.PropertyImage{}, &model.PropertyVideo{}, &model.PropertyLocation{}} {
			if err := tx.Unscoped().Where("property_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		// Reviews keep their text; only the link to the listing goes.
		if err := tx.Model(&model.Review{}).Where("property_id = ?", id).Update("property_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Table("user_favorite_properties").Where("property_id = ?", id).Pluck("user_id", &fans).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_favorite_properties WHERE property_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Property{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	s.media.Discard(ctx, files...)
	keys := []string{
		cache.PageKey(cache.NSPropertiesPage, normalizePage(page)),
		cache.EntityKey(cache.NSProperty, p.Slug),
	}
	for _, uid := range fans {
		keys = append(keys, cache.EntityKey(cache.NSUserFavorites, uid))
	}
	s.forget(ctx, keys...)
	return nil
}

func (s *PropertyService) forget(ctx context.Context, keys ...string) {
	forget(ctx, s.cache, keys...)
}

// forget runs after commit. The write already happened, so a cache failure
// is logged rather than reported to the caller.
func forget(ctx context.Context, store cache.Store, keys ...string) {
	if err := cache.Invalidate(ctx, store, keys...); err != nil {
		log.Error().Err(err).Msg("cache invalidation failed")
	}
}

func forgetRange(ctx context.Context, store cache.Store, ns string, bound int) {
	if err := cache.InvalidateRange(ctx, store, ns, bound); err != nil {
		log.Error().Err(err).Str("namespace", ns).Msg("cache invalidation failed")
	}
}

func normalizePage(page int) int {
	return search.ClampPage(page)
}

func imageRows(urls []string) []model.PropertyImage {
	rows := make([]model.PropertyImage, 0, len(urls))
	for i, u := range urls {
		rows = append(rows, model.PropertyImage{URL: u, IsPrimary: i == 0})
	}
	return rows
}

func videoRows(urls []string) []model.PropertyVideo {
	rows := make([]model.PropertyVideo, 0, len(urls))
	for _, u := range urls {
		rows = append(rows, model.PropertyVideo{URL: u})
	}
	return rows
}

func replaceImages(tx *gorm.DB, propertyID uint, urls []string) ([]string, error) {
	var old []string
	if err := tx.Model(&model.PropertyImage{}).Where("property_id = ?", propertyID).Pluck("image_url", &old).Error; err != nil {
		return nil, err
	}
	if err := tx.Unscoped().Where("property_id = ?", propertyID).Delete(&model.PropertyImage{}).Error; err != nil {
		return nil, err
	}
	rows := imageRows(urls)
	for i := range rows {
		rows[i].PropertyID = propertyID
	}
	return old, tx.Create(&rows).Error
}

func replaceVideos(tx *gorm.DB, propertyID uint, urls []string) ([]string, error) {
	var old []string
	if err := tx.Model(&model.PropertyVideo{}).Where("property_id = ?", propertyID).Pluck("video_url", &old).Error; err != nil {
		return nil, err
	}
	if err := tx.Unscoped().Where("property_id = ?", propertyID).Delete(&model.PropertyVideo{}).Error; err != nil {
		return nil, err
	}
	rows := videoRows(urls)
	for i := range rows {
		rows[i].PropertyID = propertyID
	}
	return old, tx.Create(&rows).Error
}

func applyPatch(p *model.Property, in PropertyPatch) {
	set(&p.Title, in.Title)
	set(&p.Description, in.Description)
	set(&p.Price, in.Price)
	set(&p.Currency, in.Currency)
	set(&p.Type, in.Type)
	set(&p.Purpose, in.Purpose)
	set(&p.PropertyType, in.PropertyType)
	set(&p.Bedrooms, in.Bedrooms)
	set(&p.Bathrooms, in.Bathrooms)
	set(&p.LivingRooms, in.LivingRooms)
	set(&p.Kitchens, in.Kitchens)
	set(&p.Balconies, in.Balconies)
	set(&p.AreaTotal, in.AreaTotal)
	set(&p.Furnishing, in.Furnishing)
	set(&p.Status, in.Status)
	set(&p.IsFeatured, in.IsFeatured)
	if in.Discount != nil {
		p.Discount = in.Discount
	}
	if in.DiscountedPrice != nil {
		p.DiscountedPrice = in.DiscountedPrice
	}
	if in.Floor != nil {
		p.Floor = in.Floor
	}
	if in.TotalFloors != nil {
		p.TotalFloors = in.TotalFloors
	}
	if in.Features != nil {
		p.Features = *in.Features
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
}

func applyLocationPatch(l *model.PropertyLocation, in PropertyPatch) {
	set(&l.City, in.City)
	set(&l.District, in.District)
	set(&l.Street, in.Street)
	if in.Landmark != nil {
		l.Landmark = in.Landmark
	}
	if in.Latitude != nil {
		l.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		l.Longitude = in.Longitude
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
