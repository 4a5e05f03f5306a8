package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vunguyen00/Netflix/pkg/config"
)

const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client. Authenticated callers are keyed
// by customer ID, anonymous ones by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing rpm requests per minute
func NewRateLimiter(cfg *config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(cfg.RequestsPerMinute) / 60),
		burst:    cfg.Burst,
	}
}

// Allow reports whether key may make a request now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		rl.cleanup(now)
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// cleanup forgets idle clients; callers hold mu
func (rl *RateLimiter) cleanup(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > limiterIdle {
			delete(rl.visitors, k)
		}
	}
}

// Middleware returns the gin handler
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := CustomerID(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !rl.Allow(key) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   true,
				"message": "Too many requests",
				"code":    http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}

// RateLimit builds a per-client limiter, or a no-op when disabled
func RateLimit(cfg *config.RateLimitConfig) gin.HandlerFunc {
	if cfg == nil || !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return NewRateLimiter(cfg).Middleware()
}
