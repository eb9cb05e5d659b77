package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *telemetry.Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := telemetry.NewMetrics()

	router := gin.New()
	router.Use(Metrics(m, "/metrics"))
	router.GET("/api/v1/inventory/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/v1/inventory/a", "/api/v1/inventory/b", "/nowhere", "/metrics"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, `hotel_http_requests_total{method="GET",route="/api/v1/inventory/:id",status="200"} 2`)
	assert.Contains(t, body, `hotel_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.NotContains(t, body, `route="/metrics"`)
	assert.Contains(t, body, "hotel_http_requests_in_flight 0")
}
