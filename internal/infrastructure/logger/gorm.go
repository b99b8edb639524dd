package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold is used when no WithSlowThreshold option is given
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// QueryLogger routes gorm's statement log into zap. Each statement line
// carries the request and trace ids found on the query's context.
type QueryLogger struct {
	log         *zap.Logger
	level       gormlogger.LogLevel
	slow        time.Duration
	logNotFound bool
}

// QueryLoggerOption configures a QueryLogger
type QueryLoggerOption func(*QueryLogger)

// WithSlowThreshold sets the duration above which a statement is reported
// as slow. Zero disables slow query warnings.
func WithSlowThreshold(threshold time.Duration) QueryLoggerOption {
	return func(l *QueryLogger) {
		l.slow = threshold
	}
}

// WithNotFoundLogged reports gorm.ErrRecordNotFound as a failed query.
// Lookups of unknown ids are routine here, so they are skipped by default.
func WithNotFoundLogged() QueryLoggerOption {
	return func(l *QueryLogger) {
		l.logNotFound = true
	}
}

// NewQueryLogger creates a gorm logger writing to the "sql" child of base
func NewQueryLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...QueryLoggerOption) *QueryLogger {
	l := &QueryLogger{
		log:   base.Named("sql"),
		level: level,
		slow:  DefaultSlowQueryThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode returns a copy at the given level
func (l *QueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *QueryLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *QueryLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *QueryLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *QueryLogger) printf(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < min {
		return
	}
	l.log.Log(lvl, fmt.Sprintf(msg, data...), contextFields(ctx)...)
}

// Trace logs one executed statement. Failures are errors, statements over
// the slow threshold are warnings and everything else is debug output,
// each gated by the configured gorm level.
func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil:
		if l.level < gormlogger.Error || (!l.logNotFound && errors.Is(err, gormlogger.ErrRecordNotFound)) {
			return
		}
		l.log.Error("query failed", append(statementFields(ctx, elapsed, fc), zap.Error(err))...)

	case l.slow > 0 && elapsed > l.slow:
		if l.level < gormlogger.Warn {
			return
		}
		l.log.Warn("slow query", append(statementFields(ctx, elapsed, fc), zap.Duration("threshold", l.slow))...)

	case l.level >= gormlogger.Info:
		l.log.Debug("query", statementFields(ctx, elapsed, fc)...)
	}
}

func statementFields(ctx context.Context, elapsed time.Duration, fc func() (string, int64)) []zap.Field {
	sql, rows := fc()
	return append([]zap.Field{
		zap.String("operation", sqlOperation(sql)),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}, contextFields(ctx)...)
}

func contextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetTraceID(ctx); id != "" {
		fields = append(fields, zap.String("trace_id", id))
	}
	return fields
}

// sqlOperation returns the statement's leading keyword in lower case
// ("select", "insert", ...)
func sqlOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// GormLevel picks the gorm level for an application log level. Statement
// lines are only produced when the application logs at debug.
func GormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error", "fatal":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
