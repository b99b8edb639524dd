package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	DBName          string
	LogFullSQL      bool // include bound variables in db.statement
	SlowQueryThresh time.Duration
}

type queryStartKey struct{}

// RegisterGormTracing installs the otelgorm plugin on db, plus callbacks that
// flag slow statements on the active span
func RegisterGormTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if cfg.SlowQueryThresh > 0 {
		if err := registerSlowQueryCallbacks(db, cfg.SlowQueryThresh); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

// The after callbacks run ahead of otelgorm's so the span is still open.
func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		markSlowQuery(tx, threshold)
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("crm:slow_before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Before("otel:after_create").Register("crm:slow_after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("crm:slow_before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Before("otel:after_query").Register("crm:slow_after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("crm:slow_before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Before("otel:after_update").Register("crm:slow_after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("crm:slow_before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Before("otel:after_delete").Register("crm:slow_after_delete", after); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("crm:slow_before_row", before); err != nil {
		return err
	}
	return cb.Row().After("gorm:row").Before("otel:after_row").Register("crm:slow_after_row", after)
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if tx.Error != nil && errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetAttributes(attribute.Bool("db.record_not_found", true))
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
