package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/search"
	"aqarat_backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCreate_DuplicateAndMissingProperty(t *testing.T) {
	e := newEnv(t)
	svc := NewReviewService(e.db, e.cache, 10)
	ctx := context.Background()

	u := e.user(t, "Mona", "mona@example.com", "password1", model.RoleUser)
	p := e.property(t, "Nile Tower")

	_, err := svc.Create(ctx, u.ID, ReviewInput{PropertyID: &p.ID, Rating: 4, Comment: "very good location"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, u.ID, ReviewInput{PropertyID: &p.ID, Rating: 5, Comment: "second attempt here"})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	// A site review is independent of property reviews, but also unique.
	_, err = svc.Create(ctx, u.ID, ReviewInput{Rating: 5, Comment: "great service overall"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, u.ID, ReviewInput{Rating: 3, Comment: "changed my mind here"})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	missing := uint(999)
	_, err = svc.Create(ctx, u.ID, ReviewInput{PropertyID: &missing, Rating: 3, Comment: "no such listing here"})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestReviewCreate_ManyUsersOneProperty(t *testing.T) {
	e := newEnv(t)
	svc := NewReviewService(e.db, e.cache, 10)
	ctx := context.Background()

	p := e.property(t, "Corniche Tower")
	for i, name := range []string{"Hala", "Omar"} {
		u := e.user(t, name, fmt.Sprintf("reviewer%d@example.com", i), "password1", model.RoleUser)
		_, err := svc.Create(ctx, u.ID, ReviewInput{PropertyID: &p.ID, Rating: 4, Comment: "quiet and well kept"})
		require.NoError(t, err)
	}

	third := e.user(t, "Yara", "yara@example.com", "password1", model.RoleUser)
	_, err := svc.Create(ctx, third.ID, ReviewInput{PropertyID: &p.ID, Rating: 5, Comment: "lovely view of the sea"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, third.ID, ReviewInput{PropertyID: &p.ID, Rating: 2, Comment: "trying to review again"})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	var count int64
	require.NoError(t, e.db.Model(&model.Review{}).Where("property_id = ?", p.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestReviewList_PagesAndLiveTotal(t *testing.T) {
	e := newEnv(t)
	svc := NewReviewService(e.db, e.cache, 10)
	ctx := context.Background()

	for i := 0; i < ReviewsPerPage+1; i++ {
		u := e.user(t, fmt.Sprintf("user%d", i), fmt.Sprintf("u%d@example.com", i), "password1", model.RoleUser)
		_, err := svc.Create(ctx, u.ID, ReviewInput{Rating: 5, Comment: "lovely experience"})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Reviews, ReviewsPerPage)
	assert.True(t, first.HasMore)
	assert.Equal(t, int64(ReviewsPerPage+1), first.TotalReviews)
	assert.Nil(t, first.TotalLikesCount)
	assert.True(t, e.cached(t, "reviews-1"))

	second, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Reviews, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, 2, second.CurrentPage)

	far, err := svc.List(ctx, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, far.Reviews)
	assert.False(t, far.HasMore)
	assert.Equal(t, search.MaxPage, far.CurrentPage)
}

func TestReviewWrites_InvalidateWholeRange(t *testing.T) {
	e := newEnv(t)
	svc := NewReviewService(e.db, e.cache, 3)
	ctx := context.Background()

	for p := 1; p <= 3; p++ {
		require.NoError(t, e.cache.Put(ctx, cache.PageKey(cache.NSReviews, p), []byte(`[]`), cache.Forever))
	}

	u := e.user(t, "Omar", "omar@example.com", "password1", model.RoleUser)
	r, err := svc.Create(ctx, u.ID, ReviewInput{Rating: 4, Comment: "nice and clean flat"})
	require.NoError(t, err)
	for p := 1; p <= 3; p++ {
		assert.False(t, e.cached(t, cache.PageKey(cache.NSReviews, p)))
	}

	_, err = svc.List(ctx, 1)
	require.NoError(t, err)
	require.True(t, e.cached(t, "reviews-1"))

	require.NoError(t, svc.Delete(ctx, r.ID))
	assert.False(t, e.cached(t, "reviews-1"))
	assert.ErrorIs(t, svc.Delete(ctx, r.ID), ErrReviewNotFound)
}

func TestToggleLike(t *testing.T) {
	e := newEnv(t)
	svc := NewReviewService(e.db, e.cache, 10)
	ctx := context.Background()

	author := e.user(t, "Author", "author@example.com", "password1", model.RoleUser)
	fan := e.user(t, "Fan", "fan@example.com", "password1", model.RoleUser)
	r, err := svc.Create(ctx, author.ID, ReviewInput{Rating: 5, Comment: "absolutely wonderful"})
	require.NoError(t, err)

	res, err := svc.ToggleLike(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, res.IsLiked)
	assert.Equal(t, 1, res.LikesCount)
	assert.Equal(t, model.UserSet{fan.ID}, res.Likes)

	res, err = svc.ToggleLike(ctx, r.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserSet{fan.ID, author.ID}, res.Likes)

	res, err = svc.ToggleLike(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, res.IsLiked)
	assert.Equal(t, model.UserSet{author.ID}, res.Likes)

	total, err := svc.TotalLikes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	admin, err := svc.AdminList(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, admin.TotalLikesCount)
	assert.Equal(t, int64(1), *admin.TotalLikesCount)

	_, err = svc.ToggleLike(ctx, 404, fan.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewsByPropertyAndAuthorFallback(t *testing.T) {
	e := newEnv(t)
	svc := NewReviewService(e.db, e.cache, 10)
	ctx := context.Background()

	u := e.user(t, "Hana", "hana@example.com", "password1", model.RoleUser)
	p := e.property(t, "Garden House")
	_, err := svc.Create(ctx, u.ID, ReviewInput{PropertyID: &p.ID, Rating: 4, Comment: "quiet neighbourhood"})
	require.NoError(t, err)

	reviews, err := svc.ByProperty(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Hana", reviews[0].UserName)
	require.NotNil(t, reviews[0].PropertyTitle)
	assert.Equal(t, "Garden House", *reviews[0].PropertyTitle)

	require.NoError(t, e.db.Unscoped().Delete(&model.User{}, u.ID).Error)
	reviews, err = svc.ByProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "مستخدم", reviews[0].UserName)
}
