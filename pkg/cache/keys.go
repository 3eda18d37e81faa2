package cache

import (
	"context"
	"fmt"
)

// Namespaces shared by readers and writers. A reader and the writer that
// invalidates it must build keys from the same namespace.
const (
	NSPropertiesPage = "properties_page"
	NSProperty       = "property"
	NSReviews        = "reviews"
	NSAdminUsers     = "admin_management_users"
	NSUserFavorites  = "user_favorites"
	NSSlider         = "slider"

	KeySettings = "settings"
)

// Default upper bounds for range invalidation. Pages past the bound are not
// forgotten, so they can stay stale until the next write that reaches them.
const (
	DefaultReviewPagesBound    = 100
	DefaultAdminUserPagesBound = 200
)

// PageKey identifies one cached page of a paginated listing.
func PageKey(ns string, page int) string {
	return fmt.Sprintf("%s-%d", ns, page)
}

// EntityKey identifies one cached entity by slug or id.
func EntityKey(ns string, id any) string {
	return fmt.Sprintf("%s-%v", ns, id)
}

// Invalidate forgets the given keys. Forgetting an absent key is a no-op.
func Invalidate(ctx context.Context, store Store, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := store.Forget(ctx, keys...); err != nil {
		return fmt.Errorf("forget %v: %w", keys, err)
	}
	invalidations.Add(float64(len(keys)))
	return nil
}

// InvalidateRange forgets PageKey(ns, p) for every p in [1, maxPages] in one
// store call.
func InvalidateRange(ctx context.Context, store Store, ns string, maxPages int) error {
	if maxPages <= 0 {
		return nil
	}
	keys := make([]string, 0, maxPages)
	for p := 1; p <= maxPages; p++ {
		keys = append(keys, PageKey(ns, p))
	}
	return Invalidate(ctx, store, keys...)
}
