package server

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roombox/roombox/internal/cache"
)

// rateLimiter counts requests per client in fixed windows. Counters live in
// the shared TTL cache with the window as their TTL, so a client's slate is
// wiped when its window lapses.
type rateLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	seen   *cache.TTLCache[string, *rateCounter]
}

type rateCounter struct {
	count int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		limit = 120
	}
	if window <= 0 {
		window = time.Minute
	}
	return &rateLimiter{
		limit:  limit,
		window: window,
		seen:   cache.NewTTLCache[string, *rateCounter](),
	}
}

func (r *rateLimiter) Allow(key string, now time.Time) bool {
	if key == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	counter, ok := r.seen.Get(key, now)
	if !ok {
		r.seen.Set(key, &rateCounter{count: 1}, r.window, now)
		return true
	}
	if counter.count >= r.limit {
		return false
	}
	counter.count++
	return true
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP(), s.clk.Now()) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
