// Package observability carries per-run logging context so that every log
// line of a check run can be correlated with its report.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docsflow/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RunID     string
	Validator string
	Reason    string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithValidator adds the active validator to the context.
func WithValidator(ctx context.Context, validator string) context.Context {
	lc := extractLogContext(ctx)
	lc.Validator = validator
	return context.WithValue(ctx, logContextKey, lc)
}

// WithReason records why the run was started (startup, change, sweep).
func WithReason(ctx context.Context, reason string) context.Context {
	lc := extractLogContext(ctx)
	lc.Reason = reason
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// getLogAttrs returns slog attributes from the context's LogContext.
func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	var attrs []slog.Attr
	if lc.RunID != "" {
		attrs = append(attrs, logfields.RunID(lc.RunID))
	}
	if lc.Validator != "" {
		attrs = append(attrs, logfields.Validator(lc.Validator))
	}
	if lc.Reason != "" {
		attrs = append(attrs, logfields.Event(lc.Reason))
	}
	return attrs
}

// RunID returns the run ID stored in ctx, or "".
func RunID(ctx context.Context) string {
	return extractLogContext(ctx).RunID
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelDebug, msg, attrs)
}

func logContext(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	all := append(getLogAttrs(ctx), attrs...)
	if ctx == nil {
		ctx = context.Background()
	}
	slog.LogAttrs(ctx, level, msg, all...)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}
