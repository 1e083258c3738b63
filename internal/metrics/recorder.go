package metrics

import (
	"time"

	"git.home.luguber.info/inful/docsflow/internal/findings"
)

// Recorder defines observability hooks for validation runs. Implementations
// may forward to Prometheus; NoopRecorder discards everything.
type Recorder interface {
	ObserveValidation(validator string, files int, d time.Duration)
	AddFindings(validator string, severity findings.Severity, n int)
	SetLastRunPassed(passed bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveValidation(string, int, time.Duration) {}
func (NoopRecorder) AddFindings(string, findings.Severity, int)   {}
func (NoopRecorder) SetLastRunPassed(bool)                        {}

// RecordReport records one validator's report: files checked, duration and
// finding counts per severity.
func RecordReport(rec Recorder, validator findings.Validator, report *findings.Report, d time.Duration) {
	if rec == nil {
		return
	}
	rec.ObserveValidation(string(validator), report.FilesTotal(), d)
	for sev, n := range report.Counts() {
		rec.AddFindings(string(validator), sev, n)
	}
}
