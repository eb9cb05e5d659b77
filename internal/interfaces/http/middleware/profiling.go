package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling labels attached to every request's CPU samples
const (
	ProfilingLabelMethod   = "method"
	ProfilingLabelRoute    = "route"
	ProfilingLabelResource = "resource"
)

// Profiling tags the request goroutine with Pyroscope labels so profiles can
// be filtered by route. Unmatched routes are not labelled.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}

		labels := []string{
			ProfilingLabelMethod, c.Request.Method,
			ProfilingLabelRoute, route,
		}
		if resource := resourceFromRoute(route); resource != "" {
			labels = append(labels, ProfilingLabelResource, resource)
		}

		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(labels...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first static segment after the version,
// e.g. "/api/v1/purchase-orders/:id/receive" -> "purchase-orders"
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			return ""
		}
		return part
	}
	return ""
}

// isVersionSegment checks if a path segment is an API version (v1, v2, etc.)
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
