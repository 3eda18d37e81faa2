package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// RememberForever returns the cached value at key, or computes it with fn,
// stores it without expiry and returns it.
//
// There is no locking: concurrent misses on the same key all run fn and the
// last Put wins. A payload that no longer decodes into T is treated as a miss
// and overwritten.
func RememberForever[T any](ctx context.Context, store Store, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		// A broken cache should not take reads down with it.
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	}
	if ok {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			lookups.WithLabelValues("hit").Inc()
			return out, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}
	lookups.WithLabelValues("miss").Inc()

	val, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(val)
	if err != nil {
		return zero, fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	if err := store.Put(ctx, key, payload, Forever); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache put failed")
	}
	return val, nil
}
