package model

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:model_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(All()...))
	return db
}

func TestPropertyLocation_SearchColumnsFollowSave(t *testing.T) {
	db := newTestDB(t)

	p := Property{Title: "Villa", Slug: "villa", Type: ListingSale, Price: 100}
	require.NoError(t, db.Create(&p).Error)
	assert.Equal(t, DefaultCurrency, p.Currency)
	assert.Equal(t, StatusAvailable, p.Status)

	loc := PropertyLocation{PropertyID: p.ID, City: " القاهرة ", District: "مدينة نصر", Street: "عباس العقاد"}
	require.NoError(t, db.Create(&loc).Error)

	var got PropertyLocation
	require.NoError(t, db.First(&got, loc.ID).Error)
	assert.Equal(t, "القاهره", got.CitySearch)
	assert.Equal(t, "مدينه نصر", got.DistrictSearch)

	got.City = "الإسكندرية"
	require.NoError(t, db.Save(&got).Error)
	require.NoError(t, db.First(&got, loc.ID).Error)
	assert.Equal(t, "الاسكندريه", got.CitySearch)
}

func TestReview_LikesRoundTrip(t *testing.T) {
	db := newTestDB(t)

	r := Review{UserID: 1, Rating: 5, Comment: "excellent place to live"}
	r.ToggleLike(3)
	r.ToggleLike(9)
	require.NoError(t, db.Create(&r).Error)

	var got Review
	require.NoError(t, db.First(&got, r.ID).Error)
	assert.Equal(t, UserSet{3, 9}, got.Likes)
	assert.True(t, got.IsLikedBy(9))
	assert.Equal(t, 2, got.LikesCount())
}
