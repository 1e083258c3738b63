// Package logfields holds the canonical slog attribute keys used across docsflow.
package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyValidator  = "validator"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyRule       = "rule"
	KeyKind       = "kind"
	KeyCount      = "count"
	KeyFindings   = "findings"
	KeyPassed     = "passed"
	KeyDurationMS = "duration_ms"
	KeyEvent      = "event"
	KeyJob        = "job"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Validator(v string) slog.Attr    { return slog.String(KeyValidator, v) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Rule(id string) slog.Attr        { return slog.String(KeyRule, id) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Findings(n int) slog.Attr        { return slog.Int(KeyFindings, n) }
func Passed(ok bool) slog.Attr        { return slog.Bool(KeyPassed, ok) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Job(name string) slog.Attr       { return slog.String(KeyJob, name) }
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
