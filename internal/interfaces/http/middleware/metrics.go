package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/infrastructure/telemetry"
)

// Metrics records request count, latency and in-flight requests per route.
// Requests to skipped paths (the scrape endpoint itself) are not counted.
func Metrics(m *telemetry.Metrics, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		done := m.RequestStarted(c.Request.Method, c.FullPath())
		c.Next()
		done(c.Writer.Status())
	}
}
