package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key. Each bucket refills at
// limit tokens per window and holds at most limit tokens.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*visitor
	limit   int
	every   rate.Limit
	idle    time.Duration
	now     func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &RateLimiter{
		clients: make(map[string]*visitor),
		limit:   limit,
		every:   rate.Every(window / time.Duration(limit)),
		idle:    2 * window,
		now:     time.Now,
	}
}

// Allow consumes a token for key
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.clients[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.clients[key] = v
	}
	v.lastSeen = now
	allowed := v.limiter.AllowN(now, 1)
	return allowed, int(v.limiter.TokensAt(now))
}

// Sweep forgets clients idle for more than two windows
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.idle)
	for key, v := range rl.clients {
		if v.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// RunSweeper sweeps every interval until stop is closed
func (rl *RateLimiter) RunSweeper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.Sweep()
		case <-stop:
			return
		}
	}
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	limit := strconv.Itoa(limiter.limit)
	return func(c *gin.Context) {
		allowed, remaining := limiter.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests. Please try again later.", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
