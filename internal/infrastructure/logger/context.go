package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	operatorKey  contextKey = "operator"
)

// WithContext stores the logger in ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return withTrace(ctx, logger)
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in ctx and returns an enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithOperator stores the signed-in operator in ctx and returns an enriched logger
func WithOperator(ctx context.Context, logger *zap.Logger, username, role string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, operatorKey, username)
	enriched := logger.With(zap.String("operator", username), zap.String("role", role))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID returns the request ID stored in ctx
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetOperator returns the operator username stored in ctx
func GetOperator(ctx context.Context) string {
	if username, ok := ctx.Value(operatorKey).(string); ok {
		return username
	}
	return ""
}

func withTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
