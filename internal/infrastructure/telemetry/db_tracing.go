// Package telemetry wires OpenTelemetry tracing, metrics, logs, and
// continuous profiling into the service.
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls the otelgorm integration.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // include bind variables in spans; keep off outside dev
	SlowQueryThresh  time.Duration // queries above this get a slow_query_warning event
	DBSystem         string
	WithoutVariables bool
}

// DefaultDBTracingConfig is off by default with a 200ms slow threshold
// and bind variables redacted.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin attaches otelgorm spans to every query plus custom
// callbacks for slow-query detection and error marking.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

type callbackRegistrar func(name string, fn func(*gorm.DB)) error

// beforeRegistrars binds the Before hook of every GORM operation so the
// timing callback can be installed in one pass.
func beforeRegistrars(db *gorm.DB) map[string]callbackRegistrar {
	return map[string]callbackRegistrar{
		"create": db.Callback().Create().Before("gorm:create").Register,
		"query":  db.Callback().Query().Before("gorm:query").Register,
		"update": db.Callback().Update().Before("gorm:update").Register,
		"delete": db.Callback().Delete().Before("gorm:delete").Register,
		"row":    db.Callback().Row().Before("gorm:row").Register,
		"raw":    db.Callback().Raw().Before("gorm:raw").Register,
	}
}

func afterRegistrars(db *gorm.DB) map[string]callbackRegistrar {
	return map[string]callbackRegistrar{
		"create": db.Callback().Create().After("gorm:create").Register,
		"query":  db.Callback().Query().After("gorm:query").Register,
		"update": db.Callback().Update().After("gorm:update").Register,
		"delete": db.Callback().Delete().After("gorm:delete").Register,
		"row":    db.Callback().Row().After("gorm:row").Register,
		"raw":    db.Callback().Raw().After("gorm:raw").Register,
	}
}

func registerAll(registrars map[string]callbackRegistrar, namePrefix string, fn func(*gorm.DB)) error {
	for op, register := range registrars {
		if err := register(namePrefix+op, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOtelGorm installs the otelgorm plugin and the timing callbacks
// on db. A disabled config is a no-op.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := registerAll(beforeRegistrars(db), "otel_timing:before_", markQueryStart); err != nil {
		return err
	}
	if err := registerAll(afterRegistrars(db), "otel_slow_query:", p.annotateSpan); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	annotateQuerySpan(db, p.config.SlowQueryThresh)
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// annotateQuerySpan enriches the active otelgorm span after an operation:
// rows affected, table name, error status, and a slow-query event when
// the elapsed time passes the threshold.
func annotateQuerySpan(db *gorm.DB, slowThresh time.Duration) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// a miss is not a failure
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > slowThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", slowThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps the context with "now" so the after-callback
// can measure elapsed time.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// DBTracingCallback is the standalone callback pair for databases that
// are traced by other means and only need timing annotations.
type DBTracingCallback struct {
	slowQueryThresh time.Duration
}

func NewDBTracingCallback(slowQueryThresh time.Duration) *DBTracingCallback {
	return &DBTracingCallback{slowQueryThresh: slowQueryThresh}
}

// BeforeCallback records the query start time in the statement context.
func (c *DBTracingCallback) BeforeCallback(db *gorm.DB) {
	markQueryStart(db)
}

// AfterCallback annotates the active span with the query outcome.
func (c *DBTracingCallback) AfterCallback(db *gorm.DB) {
	annotateQuerySpan(db, c.slowQueryThresh)
}

// RegisterCallbacks installs both callbacks on every GORM operation.
func (c *DBTracingCallback) RegisterCallbacks(db *gorm.DB) error {
	if err := registerAll(beforeRegistrars(db), "otel_timing:before_", c.BeforeCallback); err != nil {
		return err
	}
	return registerAll(afterRegistrars(db), "otel_timing:after_", c.AfterCallback)
}
