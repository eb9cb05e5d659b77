package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "hotel"

// HTTPDurationBuckets are the request latency buckets in seconds
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics holds the Prometheus collectors exposed on the metrics endpoint.
// Every instance owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge
	stockMovements      *prometheus.CounterVec
	stockQuantity       *prometheus.CounterVec
	lowStockAlerts      prometheus.Counter
	orderTransitions    *prometheus.CounterVec
	deliveries          *prometheus.CounterVec
	deliveryDiscrepancy prometheus.Counter
	ordersEmailed       prometheus.Counter
}

// NewMetrics registers the HTTP and inventory collectors plus the Go and
// process collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   HTTPDurationBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		stockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "inventory",
			Name:      "stock_movements_total",
			Help:      "Stock movements by direction.",
		}, []string{"direction"}),
		stockQuantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "inventory",
			Name:      "stock_quantity_total",
			Help:      "Quantity moved, summed across units, by direction.",
		}, []string{"direction"}),
		lowStockAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "inventory",
			Name:      "low_stock_alerts_total",
			Help:      "Times an item dropped to its restock threshold.",
		}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "procurement",
			Name:      "order_transitions_total",
			Help:      "Purchase order status transitions.",
		}, []string{"from", "to"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "procurement",
			Name:      "deliveries_total",
			Help:      "Received deliveries by punctuality and accuracy.",
		}, []string{"on_time", "accurate"}),
		deliveryDiscrepancy: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "procurement",
			Name:      "delivery_discrepancy_lines_total",
			Help:      "Received lines whose quantity differed from the order.",
		}),
		ordersEmailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "procurement",
			Name:      "orders_emailed_total",
			Help:      "Purchase orders emailed to suppliers.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.stockMovements,
		m.stockQuantity,
		m.lowStockAlerts,
		m.orderTransitions,
		m.deliveries,
		m.deliveryDiscrepancy,
		m.ordersEmailed,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RequestStarted tracks an in-flight request and returns the func that
// records its outcome
func (m *Metrics) RequestStarted(method, route string) func(status int) {
	start := time.Now()
	m.httpInFlight.Inc()
	return func(status int) {
		m.httpInFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// EventRecorder returns the event handler that feeds the domain counters
func (m *Metrics) EventRecorder() *MetricsRecorder {
	return &MetricsRecorder{metrics: m}
}

// MetricsRecorder counts inventory and procurement events
type MetricsRecorder struct {
	metrics *Metrics
}

// EventTypes subscribes to every event; unknown types are ignored
func (r *MetricsRecorder) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (r *MetricsRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	m := r.metrics
	switch e := event.(type) {
	case *inventory.StockReceivedEvent:
		m.stockMovements.WithLabelValues("in").Inc()
		m.stockQuantity.WithLabelValues("in").Add(e.Quantity.InexactFloat64())
	case *inventory.StockConsumedEvent:
		m.stockMovements.WithLabelValues("out").Inc()
		m.stockQuantity.WithLabelValues("out").Add(e.Quantity.InexactFloat64())
	case *inventory.StockBelowThresholdEvent:
		m.lowStockAlerts.Inc()
	case *procurement.OrderStatusChangedEvent:
		m.orderTransitions.WithLabelValues(string(e.From), string(e.To)).Inc()
	case *procurement.OrderReceivedEvent:
		m.deliveries.WithLabelValues(strconv.FormatBool(e.OnTime), strconv.FormatBool(e.Accurate)).Inc()
		for _, l := range e.Lines {
			if !l.Discrepancy.IsZero() {
				m.deliveryDiscrepancy.Inc()
			}
		}
	case *procurement.OrderEmailedEvent:
		m.ordersEmailed.Inc()
	}
	return nil
}

var _ shared.EventHandler = (*MetricsRecorder)(nil)
