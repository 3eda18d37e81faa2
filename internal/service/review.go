package service

import (
	"context"
	"errors"
	"fmt"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/resource"
	"aqarat_backend/pkg/cache"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewsPerPage is the size of one page of the review feed.
const ReviewsPerPage = 8

type ReviewInput struct {
	PropertyID *uint
	Rating     int
	Comment    string
}

// LikeResult is the state of a review after a like toggle.
type LikeResult struct {
	IsLiked    bool
	LikesCount int
	Likes      model.UserSet
}

type ReviewService struct {
	db         *gorm.DB
	cache      cache.Store
	pagesBound int
}

func NewReviewService(db *gorm.DB, store cache.Store, pagesBound int) *ReviewService {
	if pagesBound < 1 {
		pagesBound = cache.DefaultReviewPagesBound
	}
	return &ReviewService{db: db, cache: store, pagesBound: pagesBound}
}

// List returns a page of the review feed. The reviews themselves are cached
// per page; the total is always counted live.
func (s *ReviewService) List(ctx context.Context, page int) (resource.ReviewPage, error) {
	page = normalizePage(page)

	reviews, err := cache.RememberForever(ctx, s.cache, cache.PageKey(cache.NSReviews, page),
		func(ctx context.Context) ([]resource.Review, error) {
			var rows []model.Review
			err := s.db.WithContext(ctx).
				Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
				Preload("Property", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
				Order("created_at DESC").Order("id DESC").
				Offset((page - 1) * ReviewsPerPage).Limit(ReviewsPerPage).
				Find(&rows).Error
			if err != nil {
				return nil, fmt.Errorf("list reviews: %w", err)
			}
			return resource.NewReviews(rows), nil
		})
	if err != nil {
		return resource.ReviewPage{}, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Review{}).Count(&total).Error; err != nil {
		return resource.ReviewPage{}, fmt.Errorf("count reviews: %w", err)
	}

	return resource.ReviewPage{
		Reviews:      reviews,
		HasMore:      int64(page*ReviewsPerPage) < total,
		CurrentPage:  page,
		TotalReviews: total,
	}, nil
}

// AdminList is List plus the number of likes across all reviews.
func (s *ReviewService) AdminList(ctx context.Context, page int) (resource.ReviewPage, error) {
	out, err := s.List(ctx, page)
	if err != nil {
		return out, err
	}
	total, err := s.TotalLikes(ctx)
	if err != nil {
		return out, err
	}
	out.TotalLikesCount = &total
	return out, nil
}

func (s *ReviewService) TotalLikes(ctx context.Context) (int64, error) {
	var rows []model.Review
	if err := s.db.WithContext(ctx).Select("id", "likes").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("sum likes: %w", err)
	}
	var total int64
	for i := range rows {
		total += int64(rows[i].LikesCount())
	}
	return total, nil
}

func (s *ReviewService) ByProperty(ctx context.Context, propertyID uint) ([]resource.Review, error) {
	var rows []model.Review
	err := s.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Preload("Property", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list property reviews: %w", err)
	}
	return resource.NewReviews(rows), nil
}

// HasReviewed reports whether userID already reviewed propertyID. A nil
// property means a general site review, of which a user has at most one.
func (s *ReviewService) HasReviewed(ctx context.Context, userID uint, propertyID *uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&model.Review{}).Where("user_id = ?", userID)
	if propertyID == nil {
		q = q.Where("property_id IS NULL")
	} else {
		q = q.Where("property_id = ?", *propertyID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *ReviewService) Create(ctx context.Context, userID uint, in ReviewInput) (*model.Review, error) {
	reviewed, err := s.HasReviewed(ctx, userID, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, ErrDuplicateReview
	}

	r := model.Review{
		UserID:     userID,
		PropertyID: in.PropertyID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		Likes:      model.UserSet{},
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.PropertyID != nil {
			var n int64
			if err := tx.Model(&model.Property{}).Where("id = ?", *in.PropertyID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrPropertyNotFound
			}
		}
		return tx.Create(&r).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &r, nil
}

// ToggleLike flips userID's like on the review and persists the whole set
// in one UPDATE. On Postgres the row is locked for the read-modify-write so
// concurrent toggles serialize.
func (s *ReviewService) ToggleLike(ctx context.Context, reviewID, userID uint) (LikeResult, error) {
	var res LikeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var r model.Review
		err := q.Select("id", "likes").First(&r, reviewID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		if err != nil {
			return err
		}

		res.IsLiked = r.ToggleLike(userID)
		res.LikesCount = r.LikesCount()
		res.Likes = r.Likes
		return tx.Model(&model.Review{}).Where("id = ?", r.ID).Update("likes", r.Likes).Error
	})
	if err != nil {
		return LikeResult{}, err
	}

	s.invalidate(ctx)
	return res, nil
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Delete(&model.Review{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *ReviewService) invalidate(ctx context.Context) {
	forgetRange(ctx, s.cache, cache.NSReviews, s.pagesBound)
}
