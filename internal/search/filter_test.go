package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestBuild_EmptySpec(t *testing.T) {
	plan := Build(FilterSpec{})

	assert.Empty(t, plan.Search)
	assert.Empty(t, plan.Conditions)
	assert.Empty(t, plan.Location)
	assert.Equal(t, 1, plan.Page)
	assert.Equal(t, PageSize, plan.PageSize)
	assert.Equal(t, []Order{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}}, plan.OrderBy)
	assert.Equal(t, ListingRelations, plan.Relations)
}

func TestBuild_IsFeatured(t *testing.T) {
	assert.False(t, Build(FilterSpec{IsFeatured: "all"}).Has("is_featured"))
	assert.False(t, Build(FilterSpec{IsFeatured: "ALL"}).Has("is_featured"))

	c, ok := Build(FilterSpec{IsFeatured: "true"}).Condition("is_featured")
	assert.True(t, ok)
	assert.Equal(t, true, c.Value)

	c, ok = Build(FilterSpec{IsFeatured: "false"}).Condition("is_featured")
	assert.True(t, ok)
	assert.Equal(t, false, c.Value)
}

func TestBuild_StatusAndTypeAllAreIgnored(t *testing.T) {
	plan := Build(FilterSpec{Status: "all", Type: "all"})
	assert.False(t, plan.Has("status"))
	assert.False(t, plan.Has("type"))

	plan = Build(FilterSpec{Status: "available", Type: "rent"})
	st, _ := plan.Condition("status")
	ty, _ := plan.Condition("type")
	assert.Equal(t, "available", st.Value)
	assert.Equal(t, "rent", ty.Value)
}

func TestBuild_SearchOrdersByRelevanceFirst(t *testing.T) {
	plan := Build(FilterSpec{Search: "  sea view  "})

	assert.Equal(t, "sea view", plan.Search)
	assert.Equal(t, Order{Column: "relevance", Desc: true}, plan.OrderBy[0])

	assert.Empty(t, Build(FilterSpec{Search: "   "}).Search)
}

func TestBuild_RangesAndCounts(t *testing.T) {
	plan := Build(FilterSpec{
		MinPrice:  ptr(100000.0),
		MaxPrice:  ptr(500000.0),
		Bedrooms:  ptr(3),
		Bathrooms: ptr(2),
		Page:      4,
	})

	assert.Equal(t, []Condition{
		{Column: "price", Op: OpGte, Value: 100000.0},
		{Column: "price", Op: OpLte, Value: 500000.0},
		{Column: "bedrooms", Op: OpEq, Value: 3},
		{Column: "bathrooms", Op: OpEq, Value: 2},
	}, plan.Conditions)
	assert.Equal(t, 30, plan.Offset())
}

func TestBuild_LocationIsNormalized(t *testing.T) {
	assert.Equal(t, "القاهره", Build(FilterSpec{Location: " القاهرة "}).Location)
	assert.Equal(t, "new cairo", Build(FilterSpec{Location: "New Cairo"}).Location)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "on", "yes"} {
		assert.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"0", "false", "off", "", "maybe"} {
		assert.False(t, ParseBool(v), v)
	}
}

func TestBuild_ClampsPage(t *testing.T) {
	assert.Equal(t, 1, Build(FilterSpec{Page: -3}).Page)
	assert.Equal(t, MaxPage, Build(FilterSpec{Page: math.MaxInt}).Page)
	assert.Equal(t, (MaxPage-1)*PageSize, Build(FilterSpec{Page: math.MaxInt}).Offset())
}
