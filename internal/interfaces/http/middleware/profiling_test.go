package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResourceFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/purchase-orders/:id/receive", "purchase-orders"},
		{"/api/v1/inventory", "inventory"},
		{"/api/v2/menu/available", "menu"},
		{"/api/v1/:collection", ""},
		{"/health", "health"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, resourceFromRoute(tt.route))
		})
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("v12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("menu"))
}

func TestProfiling_RunsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Profiling())
	called := false
	router.GET("/api/v1/menu", func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
