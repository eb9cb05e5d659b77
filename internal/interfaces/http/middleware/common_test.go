package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(origins ...string) *gin.Engine {
		router := gin.New()
		router.Use(CORS(CORSConfigFrom(config.HTTPConfig{
			CORSAllowOrigins: origins,
			CORSAllowMethods: []string{"GET", "POST"},
			CORSAllowHeaders: []string{"Authorization", "Content-Type"},
		})))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("listed origin gets credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://kitchen.example")
		w := httptest.NewRecorder()
		newRouter("https://kitchen.example").ServeHTTP(w, req)

		assert.Equal(t, "https://kitchen.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)
	})

	t.Run("wildcard never allows credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://any.example")
		w := httptest.NewRecorder()
		newRouter("*").ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		newRouter("https://kitchen.example").ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight returns no content", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "https://kitchen.example")
		w := httptest.NewRecorder()
		newRouter("https://kitchen.example").ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})
}

func TestCORSConfigFrom(t *testing.T) {
	cfg := CORSConfigFrom(config.HTTPConfig{CORSAllowOrigins: []string{"*"}})
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"propagated when present", "abc-123", true},
		{"replaced when too long", strings.Repeat("x", 200), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			id := w.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, w.Body.String())
			if tt.keep {
				assert.Equal(t, tt.incoming, id)
			} else {
				assert.NotEqual(t, tt.incoming, id)
				assert.Len(t, id, 36)
			}
		})
	}
}

func TestSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Secure())
	router.GET("/api/v1/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}
