package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextValues(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithValidator(ctx, "lint")
	ctx = WithReason(ctx, "change")

	lc := GetContext(ctx)
	assert.Equal(t, LogContext{RunID: "run-1", Validator: "lint", Reason: "change"}, lc)
	assert.Equal(t, "run-1", RunID(ctx))
	assert.Empty(t, RunID(context.Background()))
}

func TestContextValuesAreScoped(t *testing.T) {
	parent := WithRunID(context.Background(), "run-1")
	child := WithValidator(parent, "config")

	assert.Empty(t, GetContext(parent).Validator)
	assert.Equal(t, "config", GetContext(child).Validator)
	assert.Equal(t, "run-1", GetContext(child).RunID)
}

func TestLogFunctionsIncludeContext(t *testing.T) {
	buf := captureLogs(t)
	ctx := WithValidator(WithRunID(context.Background(), "run-42"), "lint")

	InfoContext(ctx, "info message", slog.Int("files", 3))
	WarnContext(ctx, "warn message")
	ErrorContext(ctx, "error message")
	DebugContext(ctx, "debug message")

	out := buf.String()
	assert.Contains(t, out, "run_id=run-42")
	assert.Contains(t, out, "validator=lint")
	assert.Contains(t, out, "files=3")
	for _, msg := range []string{"info message", "warn message", "error message", "debug message"} {
		assert.Contains(t, out, msg)
	}
}

func TestLogWithoutContext(t *testing.T) {
	buf := captureLogs(t)
	InfoContext(context.Background(), "plain")
	assert.Contains(t, buf.String(), "plain")
	assert.NotContains(t, buf.String(), "run_id")
}
