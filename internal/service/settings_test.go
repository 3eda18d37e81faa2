package service

import (
	"context"
	"testing"

	"aqarat_backend/internal/model"
	"aqarat_backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_GetMissingThenUpdateCreates(t *testing.T) {
	e := newEnv(t)
	svc := NewSettingsService(e.db, e.cache, e.media)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, ErrSettingsMissing)
	assert.False(t, e.cached(t, cache.KeySettings))

	out, err := svc.Update(ctx, SettingsInput{Phone: "0123", Email: "info@aqarat.test", Logo: upload(t, "logo", "logo.png", pngBytes(t))})
	require.NoError(t, err)
	assert.Equal(t, "0123", out.Phone)
	assert.Regexp(t, `^http://cdn\.test/public/settings/_.+\.png$`, out.Logo)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.True(t, e.cached(t, cache.KeySettings))
}

func TestSettings_UpdateReplacesLogoAndInvalidates(t *testing.T) {
	e := newEnv(t)
	svc := NewSettingsService(e.db, e.cache, e.media)
	ctx := context.Background()

	first, err := svc.Update(ctx, SettingsInput{Phone: "1", Logo: upload(t, "logo", "a.png", pngBytes(t))})
	require.NoError(t, err)
	_, err = svc.Get(ctx)
	require.NoError(t, err)

	second, err := svc.Update(ctx, SettingsInput{Phone: "2", Logo: upload(t, "logo", "b.png", pngBytes(t))})
	require.NoError(t, err)
	assert.NotEqual(t, first.Logo, second.Logo)
	assert.Len(t, e.storedFiles(t), 1)
	assert.False(t, e.cached(t, cache.KeySettings))

	// Without a new logo the current one is kept.
	third, err := svc.Update(ctx, SettingsInput{Phone: "3"})
	require.NoError(t, err)
	assert.Equal(t, second.Logo, third.Logo)

	var n int64
	e.db.Model(&model.Settings{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestSlider(t *testing.T) {
	e := newEnv(t)
	svc := NewSettingsService(e.db, e.cache, e.media)
	ctx := context.Background()

	s := model.Slider{Title: "اعثر على منزلك", Image: "hero.webp"}
	require.NoError(t, e.db.Create(&s).Error)

	got, err := svc.Slider(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "اعثر على منزلك", got.Title)
	assert.True(t, e.cached(t, cache.EntityKey(cache.NSSlider, s.ID)))

	_, err = svc.Slider(ctx, 404)
	assert.ErrorIs(t, err, ErrSliderNotFound)
}
