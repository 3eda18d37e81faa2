// Package cache holds the key/value store used for listing pages, entity
// lookups and rate-limit counters, plus the key policy that decides which
// entries are forgotten after a write.
//
// Entries are stored forever unless a TTL is given; there is no eviction
// beyond explicit Forget calls.
package cache

import (
	"context"
	"time"
)

// Forever is the TTL that keeps an entry until it is explicitly forgotten.
const Forever time.Duration = 0

// Store is the minimal surface the rest of the application needs.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the payload for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key. A ttl of Forever never expires.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Forget removes every given key. Missing keys are not an error.
	Forget(ctx context.Context, keys ...string) error
	// Incr increments the counter at key, starting a new window of the
	// given length when the counter does not exist yet.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
