package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQuery = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracing adds otelgorm spans to the document table and flags slow
// statements on them
type DBTracing struct {
	dbSystem  string
	slowQuery time.Duration
	logger    *zap.Logger
}

// NewDBTracing creates the plugin for a database driver (postgres, mysql, sqlite)
func NewDBTracing(dbSystem string, slowQuery time.Duration, logger *zap.Logger) *DBTracing {
	if slowQuery <= 0 {
		slowQuery = defaultSlowQuery
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracing{dbSystem: dbSystem, slowQuery: slowQuery, logger: logger}
}

// DBHook returns a gorm hook for store.WithDatabaseHook, or nil when database
// tracing is off
func DBHook(cfg config.TelemetryConfig, dbSystem string, logger *zap.Logger) func(*gorm.DB) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}
	return NewDBTracing(dbSystem, 0, logger).Register
}

// Register installs otelgorm and the timing callbacks. Query variables never
// reach the spans.
func (p *DBTracing) Register(db *gorm.DB) error {
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(p.dbSystem),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("hotel_timing:before_create", markStart) },
		func() error { return cb.Create().After("gorm:create").Register("hotel_timing:after_create", p.annotate) },
		func() error { return cb.Query().Before("gorm:query").Register("hotel_timing:before_query", markStart) },
		func() error { return cb.Query().After("gorm:query").Register("hotel_timing:after_query", p.annotate) },
		func() error { return cb.Update().Before("gorm:update").Register("hotel_timing:before_update", markStart) },
		func() error { return cb.Update().After("gorm:update").Register("hotel_timing:after_update", p.annotate) },
		func() error { return cb.Delete().Before("gorm:delete").Register("hotel_timing:before_delete", markStart) },
		func() error { return cb.Delete().After("gorm:delete").Register("hotel_timing:after_delete", p.annotate) },
		func() error { return cb.Row().Before("gorm:row").Register("hotel_timing:before_row", markStart) },
		func() error { return cb.Row().After("gorm:row").Register("hotel_timing:after_row", p.annotate) },
		func() error { return cb.Raw().Before("gorm:raw").Register("hotel_timing:before_raw", markStart) },
		func() error { return cb.Raw().After("gorm:raw").Register("hotel_timing:after_raw", p.annotate) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.dbSystem),
		zap.Duration("slow_query_threshold", p.slowQuery))
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracing) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.slowQuery {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.slowQuery.Milliseconds()),
		))
	}
}
