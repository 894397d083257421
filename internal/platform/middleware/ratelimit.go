package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/biomax/biomax/internal/platform/auth"
)

// RateLimitConfig sizes the per-client token buckets.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig matches the service defaults: a sustained 100
// requests per second with bursts up to 200.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 100, BurstSize: 200}
}

// bucket is one client's token balance. Tokens refill continuously at
// the configured rate up to the burst capacity.
type bucket struct {
	mu       sync.Mutex
	balance  float64
	capacity float64
	rate     float64
	refilled time.Time
}

// take refills the balance for the elapsed time, then spends one token.
// It reports whether a token was available and, when it was not, how
// many seconds until one will be.
func (b *bucket) take(now time.Time) (ok bool, wait float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balance = math.Min(b.capacity, b.balance+now.Sub(b.refilled).Seconds()*b.rate)
	b.refilled = now

	if b.balance >= 1 {
		b.balance--
		return true, 0
	}
	if b.rate <= 0 {
		return false, 1
	}
	return false, (1 - b.balance) / b.rate
}

// limiter hands out one bucket per client key.
type limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     RateLimitConfig
}

func (l *limiter) bucketFor(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			balance:  float64(l.cfg.BurstSize),
			capacity: float64(l.cfg.BurstSize),
			rate:     l.cfg.RequestsPerSecond,
			refilled: time.Now(),
		}
		l.buckets[key] = b
	}
	return b
}

// clientKey scopes buckets by authenticated user on top of client IP so
// callers behind one NAT do not share a budget.
func clientKey(c echo.Context) string {
	key := c.RealIP()
	if uid := auth.UserIDFromContext(c.Request().Context()); uid != "" {
		key = uid + ":" + key
	}
	return key
}

// RateLimit rejects requests over the configured rate with 429, a
// Retry-After hint, and X-RateLimit headers.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	l := &limiter{buckets: make(map[string]*bucket), cfg: cfg}
	limitValue := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, wait := l.bucketFor(clientKey(c)).take(time.Now())

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limitValue)
			if !ok {
				h.Set("Retry-After", strconv.Itoa(int(wait)+1))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
