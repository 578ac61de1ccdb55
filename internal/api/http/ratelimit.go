package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/spec-kit/shareit/internal/auth"
	"github.com/spec-kit/shareit/internal/config"
	"github.com/spec-kit/shareit/internal/observability"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

const limiterTTL = 5 * time.Minute

// RateLimiter keeps one token bucket per caller. Callers are keyed by the parsed sharer id, or by
// IP when the header is absent or not a valid id. Idle buckets expire.
type RateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewRateLimiter builds a limiter from configuration. It returns nil when limiting is disabled.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	if !cfg.Enabled || cfg.PerMinute <= 0 {
		return nil
	}
	size := cfg.MaxIdentities
	if size <= 0 {
		size = 1000
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.PerMinute / 10
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](size, nil, limiterTTL),
		rate:     rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:    burst,
	}
}

// Allow consumes a token for key.
func (rl *RateLimiter) Allow(key string) bool {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	return limiter.Allow()
}

// Handler returns the fiber middleware.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.Allow(limiterKey(c)) {
			return apperrors.NewTooManyRequests("rate limit exceeded")
		}
		return c.Next()
	}
}

// limiterKey normalizes the id so "7" and "007" share a bucket.
func limiterKey(c *fiber.Ctx) string {
	if id, ok := auth.ParseUserID(c.Get(observability.UserIDHeader)); ok {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return "ip:" + c.IP()
}
