package service

import (
	"context"
	"errors"
	"fmt"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/resource"
	"aqarat_backend/pkg/cache"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UsersPerPage is the admin user listing page size.
const UsersPerPage = 10

// ProfileInput replaces the editable profile fields. An empty Phone clears
// the number.
type ProfileInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// AdminUserInput is a partial update; nil fields are unchanged.
type AdminUserInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Role    *model.Role
}

type UserService struct {
	db           *gorm.DB
	cache        cache.Store
	pagesBound   int
	reviewsBound int
}

func NewUserService(db *gorm.DB, store cache.Store, pagesBound, reviewsBound int) *UserService {
	if pagesBound < 1 {
		pagesBound = cache.DefaultAdminUserPagesBound
	}
	if reviewsBound < 1 {
		reviewsBound = cache.DefaultReviewPagesBound
	}
	return &UserService{db: db, cache: store, pagesBound: pagesBound, reviewsBound: reviewsBound}
}

func (s *UserService) Profile(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile writes only the fields that differ from the stored user.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error) {
	u, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureUnique(s.db.WithContext(ctx), id, in.Email, in.Phone); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != u.Name {
		updates["name"] = in.Name
	}
	if in.Email != u.Email {
		updates["email"] = in.Email
	}
	if current := deref(u.Phone); in.Phone != current {
		if in.Phone == "" {
			updates["phone"] = nil
		} else {
			updates["phone"] = in.Phone
		}
	}
	if in.Address != u.Address {
		updates["address"] = in.Address
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}

	s.invalidate(ctx)
	return s.Profile(ctx, id)
}

func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	u, err := s.Profile(ctx, id)
	if err != nil {
		return err
	}
	if !u.HasPassword() || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(current)) != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(u).Update("password", string(hash)).Error
}

// AdminList returns a cached page of users; the admin count is live.
func (s *UserService) AdminList(ctx context.Context, page int) (resource.UsersPage, error) {
	page = normalizePage(page)

	out, err := cache.RememberForever(ctx, s.cache, cache.PageKey(cache.NSAdminUsers, page),
		func(ctx context.Context) (resource.UsersPage, error) {
			db := s.db.WithContext(ctx)
			var total int64
			if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
				return resource.UsersPage{}, err
			}
			var users []model.User
			err := db.Order("id ASC").Offset((page - 1) * UsersPerPage).Limit(UsersPerPage).Find(&users).Error
			if err != nil {
				return resource.UsersPage{}, err
			}
			return resource.NewUsersPage(users, page, UsersPerPage, total, 0), nil
		})
	if err != nil {
		return resource.UsersPage{}, fmt.Errorf("list users: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&out.AdminsTotal).Error; err != nil {
		return resource.UsersPage{}, fmt.Errorf("count admins: %w", err)
	}
	return out, nil
}

func (s *UserService) AdminUpdate(ctx context.Context, id uint, in AdminUserInput) (*model.User, error) {
	u, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureUnique(s.db.WithContext(ctx), id, deref(in.Email), deref(in.Phone)); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Phone != nil {
		if *in.Phone == "" {
			updates["phone"] = nil
		} else {
			updates["phone"] = *in.Phone
		}
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Role != nil {
		updates["role"] = *in.Role
		// A role change must not leave old tokens carrying the old role.
		updates["token_version"] = gorm.Expr("token_version + 1")
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	s.invalidate(ctx)
	return s.Profile(ctx, id)
}

// AdminDelete removes the user with their favorites, login history and
// pending reset token. Their reviews go with them.
func (s *UserService) AdminDelete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		err := tx.Select("id", "email").First(&u, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM user_favorite_properties WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.LoginHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", u.Email).Delete(&model.PasswordResetToken{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.User{}, id).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	// Deleted reviews may sit on any cached review page.
	forgetRange(ctx, s.cache, cache.NSReviews, s.reviewsBound)
	forget(ctx, s.cache, cache.EntityKey(cache.NSUserFavorites, id))
	return nil
}

func (s *UserService) invalidate(ctx context.Context) {
	forgetRange(ctx, s.cache, cache.NSAdminUsers, s.pagesBound)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
