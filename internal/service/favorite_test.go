package service

import (
	"context"
	"testing"

	"aqarat_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteToggleAndList(t *testing.T) {
	e := newEnv(t)
	svc := NewFavoriteService(e.db, e.cache)
	ctx := context.Background()
	u := e.user(t, "Dina", "dina@example.com", "password1", model.RoleUser)
	a := e.property(t, "Flat A")
	b := e.property(t, "Flat B")

	added, err := svc.Toggle(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = svc.Toggle(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, added)

	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Flat A", list[0].Title)
	require.NotNil(t, list[0].Location)
	assert.True(t, e.cached(t, "user_favorites-1"))

	added, err = svc.Toggle(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, e.cached(t, "user_favorites-1"))

	list, err = svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Flat B", list[0].Title)
}

func TestFavoriteToggle_MissingProperty(t *testing.T) {
	e := newEnv(t)
	svc := NewFavoriteService(e.db, e.cache)
	u := e.user(t, "Dina", "dina@example.com", "password1", model.RoleUser)

	_, err := svc.Toggle(context.Background(), u.ID, 404)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestFavoriteList_Empty(t *testing.T) {
	e := newEnv(t)
	list, err := NewFavoriteService(e.db, e.cache).List(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, list)
}
