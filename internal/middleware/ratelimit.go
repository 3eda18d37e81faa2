package middleware

import (
	"fmt"
	"sync"
	"time"

	"aqarat_backend/pkg/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ActionLimit allows max requests per window for one action and client IP.
// Counters live in the shared cache store under rate_limit:{action}:{ip}, so
// every instance behind a load balancer sees the same window.
func ActionLimit(store cache.Store, action string, max int, window time.Duration) fiber.Handler {
	seconds := int(window / time.Second)
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("rate_limit:%s:%s", action, c.IP())
		n, err := store.Incr(c.UserContext(), key, window)
		if err != nil {
			// A broken cache must not lock users out.
			log.Warn().Err(err).Str("action", action).Msg("rate limit check failed")
			return c.Next()
		}
		if n > int64(max) {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprint(seconds))
			return deny(c, fiber.StatusTooManyRequests, fmt.Sprintf("حاول مرة أخرى بعد %d ثانية.", seconds))
		}
		return c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is a process-local token bucket per client IP, used as a
// coarse global guard in front of every route.
type IPRateLimiter struct {
	rps      rate.Limit
	burst    int
	ttl      time.Duration
	mu       sync.Mutex
	visitors map[string]*visitor
	lookups  uint64
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      10 * time.Minute,
		visitors: make(map[string]*visitor),
	}
}

func (rl *IPRateLimiter) limiter(ip string) *rate.Limiter {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Evict idle buckets every few thousand lookups.
	rl.lookups++
	if rl.lookups >= 5000 {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[ip]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[ip] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// Handler is a no-op when rps is zero.
func (rl *IPRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.rps == 0 || rl.limiter(c.IP()).Allow() {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, "1")
		return deny(c, fiber.StatusTooManyRequests, "حاول مرة أخرى بعد 1 ثانية.")
	}
}
