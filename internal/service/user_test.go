package service

import (
	"context"
	"fmt"
	"testing"

	"aqarat_backend/internal/model"
	"aqarat_backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUpdateProfile_OnlyChangedFieldsAndPhoneClearing(t *testing.T) {
	e := newEnv(t)
	svc := NewUserService(e.db, e.cache, 5, 5)
	ctx := context.Background()
	u := e.user(t, "Adel", "adel@example.com", "password1", model.RoleUser)

	got, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Name: "Adel", Email: "adel@example.com", Phone: "01122334455", Address: "Giza"})
	require.NoError(t, err)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "01122334455", *got.Phone)
	assert.Equal(t, "Giza", got.Address)

	got, err = svc.UpdateProfile(ctx, u.ID, ProfileInput{Name: "Adel M", Email: "adel@example.com", Address: "Giza"})
	require.NoError(t, err)
	assert.Nil(t, got.Phone)
	assert.Equal(t, "Adel M", got.Name)
}

func TestUpdateProfile_UniqueConflicts(t *testing.T) {
	e := newEnv(t)
	svc := NewUserService(e.db, e.cache, 5, 5)
	ctx := context.Background()
	u := e.user(t, "Adel", "adel@example.com", "password1", model.RoleUser)
	other := e.user(t, "Rana", "rana@example.com", "password1", model.RoleUser)
	phone := "01000000000"
	require.NoError(t, e.db.Model(other).Update("phone", phone).Error)

	_, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Name: "Adel", Email: "rana@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = svc.UpdateProfile(ctx, u.ID, ProfileInput{Name: "Adel", Email: "adel@example.com", Phone: phone})
	assert.ErrorIs(t, err, ErrPhoneTaken)

	_, err = svc.UpdateProfile(ctx, 999, ProfileInput{Name: "X"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	svc := NewUserService(e.db, e.cache, 5, 5)
	ctx := context.Background()
	u := e.user(t, "Adel", "adel@example.com", "password1", model.RoleUser)

	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "wrong", "password2"), ErrWrongPassword)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "password1", "password2"))

	var got model.User
	require.NoError(t, e.db.First(&got, u.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("password2")))
}

func TestAdminList_CachedPageWithLiveAdminCount(t *testing.T) {
	e := newEnv(t)
	svc := NewUserService(e.db, e.cache, 5, 5)
	ctx := context.Background()

	for i := 0; i < UsersPerPage+2; i++ {
		e.user(t, fmt.Sprintf("u%d", i), fmt.Sprintf("u%d@example.com", i), "password1", model.RoleUser)
	}
	e.user(t, "boss", "boss@example.com", "password1", model.RoleAdmin)

	page, err := svc.AdminList(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page.Users, UsersPerPage)
	assert.Equal(t, int64(UsersPerPage+3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.LastPage)
	assert.Equal(t, int64(1), page.AdminsTotal)
	assert.True(t, e.cached(t, "admin_management_users-1"))

	// Promote someone behind the cache's back: the admin count is still live.
	require.NoError(t, e.db.Model(&model.User{}).Where("email = ?", "u0@example.com").Update("role", model.RoleAdmin).Error)
	page, err = svc.AdminList(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.AdminsTotal)
}

func TestAdminUpdate_RoleChangeRevokesTokens(t *testing.T) {
	e := newEnv(t)
	svc := NewUserService(e.db, e.cache, 5, 5)
	ctx := context.Background()
	u := e.user(t, "Adel", "adel@example.com", "password1", model.RoleUser)

	for p := 1; p <= 5; p++ {
		require.NoError(t, e.cache.Put(ctx, cache.PageKey(cache.NSAdminUsers, p), []byte(`{}`), cache.Forever))
	}

	name := "Adel Admin"
	role := model.RoleAdmin
	got, err := svc.AdminUpdate(ctx, u.ID, AdminUserInput{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Adel Admin", got.Name)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.Equal(t, uint(1), got.TokenVersion)

	for p := 1; p <= 5; p++ {
		assert.False(t, e.cached(t, cache.PageKey(cache.NSAdminUsers, p)))
	}

	_, err = svc.AdminUpdate(ctx, 999, AdminUserInput{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminDelete_RemovesOwnedRows(t *testing.T) {
	e := newEnv(t)
	svc := NewUserService(e.db, e.cache, 5, 5)
	ctx := context.Background()
	u := e.user(t, "Adel", "adel@example.com", "password1", model.RoleUser)
	p := e.property(t, "Sunny Flat")

	require.NoError(t, e.db.Create(&model.Review{UserID: u.ID, Rating: 4, Comment: "lovely place to live"}).Error)
	require.NoError(t, e.db.Create(&model.LoginHistory{UserID: u.ID, Method: model.LoginMethodPassword}).Error)
	require.NoError(t, e.db.Exec("INSERT INTO user_favorite_properties (user_id, property_id) VALUES (?, ?)", u.ID, p.ID).Error)
	require.NoError(t, e.cache.Put(ctx, cache.EntityKey(cache.NSUserFavorites, u.ID), []byte(`[]`), cache.Forever))
	require.NoError(t, e.cache.Put(ctx, cache.PageKey(cache.NSReviews, 2), []byte(`[]`), cache.Forever))

	require.NoError(t, svc.AdminDelete(ctx, u.ID))

	for _, m := range []any{&model.User{}, &model.Review{}, &model.LoginHistory{}} {
		var n int64
		e.db.Unscoped().Model(m).Count(&n)
		assert.Zero(t, n, "%T", m)
	}
	var pivots int64
	e.db.Raw("SELECT COUNT(*) FROM user_favorite_properties").Scan(&pivots)
	assert.Zero(t, pivots)
	assert.False(t, e.cached(t, cache.EntityKey(cache.NSUserFavorites, u.ID)))
	assert.False(t, e.cached(t, "reviews-2"))

	assert.ErrorIs(t, svc.AdminDelete(ctx, u.ID), ErrUserNotFound)
}
