package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns OpenTelemetry tracing middleware. Spans are named
// "METHOD route" and carry the request id. Requests to skipped paths are not
// traced.
func Tracing(serviceName string, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			_, skipped := skip[r.URL.Path]
			return !skipped
		}),
	)
}

// SpanEnricher adds operator and request attributes to the request span and
// marks 5xx responses as errors. It must run after Tracing and the JWT
// middleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if username := c.GetString(JWTUsernameKey); username != "" {
				span.SetAttributes(attribute.String(telemetry.AttrOperator, username))
			}
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
