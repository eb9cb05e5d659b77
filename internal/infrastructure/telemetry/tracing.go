package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for spans created by this module
const TracerName = "hotel-backend"

// Attribute keys shared by service spans
const (
	AttrOperator      = "hotel.operator"
	AttrItemID        = "hotel.item.id"
	AttrItemName      = "hotel.item.name"
	AttrOrderID       = "hotel.order.id"
	AttrOrderNumber   = "hotel.order.number"
	AttrOrderStatus   = "hotel.order.status"
	AttrSupplierID    = "hotel.supplier.id"
	AttrQuantity      = "hotel.quantity"
	AttrDiscrepancies = "hotel.receipt.discrepancies"
)

// SpanOption configures StartSpan
type SpanOption func(*spanConfig)

type spanConfig struct {
	attributes []attribute.KeyValue
	kind       trace.SpanKind
}

// WithAttribute adds an attribute to the new span
func WithAttribute(key string, value any) SpanOption {
	return func(c *spanConfig) {
		c.attributes = append(c.attributes, toAttribute(key, value))
	}
}

// WithSpanKind sets the span kind
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(c *spanConfig) {
		c.kind = kind
	}
}

// StartSpan starts an internal span on the global tracer provider. The
// caller must end it.
func StartSpan(ctx context.Context, spanName string, opts ...SpanOption) (context.Context, trace.Span) {
	cfg := &spanConfig{kind: trace.SpanKindInternal}
	for _, opt := range opts {
		opt(cfg)
	}
	return otel.Tracer(TracerName).Start(ctx, spanName,
		trace.WithSpanKind(cfg.kind),
		trace.WithAttributes(cfg.attributes...),
	)
}

// StartServiceSpan starts a span named "<service>.<method>"
func StartServiceSpan(ctx context.Context, service, method string, opts ...SpanOption) (context.Context, trace.Span) {
	return StartSpan(ctx, service+"."+method, opts...)
}

// SetAttributes sets alternating key/value pairs on span. A trailing key
// without a value is ignored.
func SetAttributes(span trace.Span, keyValues ...any) {
	if !span.IsRecording() {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	span.SetAttributes(attrs...)
}

// RecordError marks span as failed. A nil err is a no-op.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// EndSpan records err, if any, and ends span. Intended for
// `defer func() { telemetry.EndSpan(span, err) }()`.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		RecordError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// TraceID returns the trace ID in ctx, or "" when there is none
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case time.Duration:
		return attribute.String(key, v.String())
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
