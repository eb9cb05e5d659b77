package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	clock := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return clock }

	ok, remaining := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, remaining = rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	// other clients have their own bucket
	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok)

	// one token refills every half minute
	clock = clock.Add(30 * time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiter_Sweep(t *testing.T) {
	clock := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return clock }

	rl.Allow("a")
	clock = clock.Add(90 * time.Second)
	rl.Allow("b")
	clock = clock.Add(60 * time.Second)
	rl.Sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "a")
	assert.Contains(t, rl.clients, "b")
}

func TestRateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RateLimit(NewRateLimiter(1, time.Hour)))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"RATE_LIMITED"`)
}
