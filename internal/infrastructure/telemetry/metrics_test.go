package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var metricsNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func baseEvent(eventType string) shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent(eventType, "test", uuid.New(), shared.System, metricsNow)
}

func TestMetricsRecorder_CountsDomainEvents(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()
	rec := m.EventRecorder()
	assert.Nil(t, rec.EventTypes())

	events := []shared.DomainEvent{
		&inventory.StockReceivedEvent{BaseDomainEvent: baseEvent(inventory.EventTypeStockReceived), Quantity: decimal.NewFromInt(12)},
		&inventory.StockConsumedEvent{BaseDomainEvent: baseEvent(inventory.EventTypeStockConsumed), Quantity: decimal.RequireFromString("2.5")},
		&inventory.StockConsumedEvent{BaseDomainEvent: baseEvent(inventory.EventTypeStockConsumed), Quantity: decimal.RequireFromString("0.5")},
		&inventory.StockBelowThresholdEvent{BaseDomainEvent: baseEvent(inventory.EventTypeStockBelowThreshold)},
		&procurement.OrderStatusChangedEvent{
			BaseDomainEvent: baseEvent(procurement.EventTypeOrderStatusChanged),
			From:            procurement.StatusPending,
			To:              procurement.StatusApproved,
		},
		&procurement.OrderReceivedEvent{
			BaseDomainEvent: baseEvent(procurement.EventTypeOrderReceived),
			OnTime:          true,
			Accurate:        false,
			Lines: []procurement.ReceivedLineInfo{
				{Discrepancy: decimal.NewFromInt(-2)},
				{Discrepancy: decimal.Zero},
			},
		},
		&procurement.OrderEmailedEvent{BaseDomainEvent: baseEvent(procurement.EventTypeOrderEmailed)},
	}
	for _, e := range events {
		require.NoError(t, rec.Handle(ctx, e))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.stockMovements.WithLabelValues("in")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.stockMovements.WithLabelValues("out")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.stockQuantity.WithLabelValues("in")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.stockQuantity.WithLabelValues("out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lowStockAlerts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderTransitions.WithLabelValues("pending", "approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("true", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveryDiscrepancy))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersEmailed))
}

func TestMetrics_RequestStartedAndHandler(t *testing.T) {
	m := NewMetrics()

	done := m.RequestStarted(http.MethodGet, "/api/v1/inventory")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
	done(http.StatusOK)
	m.RequestStarted(http.MethodGet, "")(http.StatusNotFound)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/inventory", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "hotel_http_requests_total"))
	assert.True(t, strings.Contains(body, "hotel_http_request_duration_seconds_bucket"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
