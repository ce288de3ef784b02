package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"userhub/internal/errors"
	"userhub/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	redactedValue      = "[redacted]"
)

// queryLogger sends GORM output for the account table to slog.
//
// Bound values are masked before GORM renders a statement: account rows hold
// password hashes and email addresses, none of which may reach the logs.
type queryLogger struct {
	logger *slog.Logger
	level  logger.LogLevel
}

var (
	_ logger.Interface  = (*queryLogger)(nil)
	_ gorm.ParamsFilter = (*queryLogger)(nil)
)

func newQueryLogger(base *slog.Logger, debug bool) *queryLogger {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	return &queryLogger{
		logger: base.With(
			slog.String("store", "postgres"),
			slog.String("table", model.AccountModel{}.TableName()),
		),
		level: level,
	}
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

// ParamsFilter replaces every bound value with a fixed marker.
func (l *queryLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	masked := make([]any, len(params))
	for i := range masked {
		masked[i] = redactedValue
	}

	return sql, masked
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, args...)
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, args...)
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, args...)
}

func (l *queryLogger) printf(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, args ...any) {
	if l.level < threshold {
		return
	}
	l.logger.LogAttrs(ctx, level, fmt.Sprintf(msg, args...))
}

// Trace classifies each statement. A missing account and a unique-index
// collision are outcomes the repository turns into domain results, so neither
// is reported as a failure.
func (l *queryLogger) Trace(ctx context.Context, begin time.Time, sqlAndRows func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return
	case err != nil && isUniqueConstraintViolation(err):
		if l.level >= logger.Warn {
			l.logger.LogAttrs(ctx, slog.LevelWarn, "Account uniqueness violation", queryAttrs(sqlAndRows, elapsed)...)
		}
	case err != nil:
		if l.level >= logger.Error {
			attrs := append(queryAttrs(sqlAndRows, elapsed), slog.String("error", err.Error()))
			l.logger.LogAttrs(ctx, slog.LevelError, "Account query failed", attrs...)
		}
	case elapsed > slowQueryThreshold:
		if l.level >= logger.Warn {
			attrs := append(queryAttrs(sqlAndRows, elapsed), slog.Duration("threshold", slowQueryThreshold))
			l.logger.LogAttrs(ctx, slog.LevelWarn, "Slow account query", attrs...)
		}
	case l.level >= logger.Info:
		l.logger.LogAttrs(ctx, slog.LevelDebug, "Account query", queryAttrs(sqlAndRows, elapsed)...)
	}
}

func queryAttrs(sqlAndRows func() (string, int64), elapsed time.Duration) []slog.Attr {
	sql, rows := sqlAndRows()

	return []slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
}
