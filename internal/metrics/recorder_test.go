package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/docsflow/internal/findings"
)

type testRecorder struct {
	files    map[string]int
	findings map[string]map[findings.Severity]int
	passed   *bool
}

func newTestRecorder() *testRecorder {
	return &testRecorder{files: map[string]int{}, findings: map[string]map[findings.Severity]int{}}
}

func (t *testRecorder) ObserveValidation(validator string, files int, _ time.Duration) {
	t.files[validator] += files
}

func (t *testRecorder) AddFindings(validator string, severity findings.Severity, n int) {
	m, ok := t.findings[validator]
	if !ok {
		m = map[findings.Severity]int{}
		t.findings[validator] = m
	}
	m[severity] += n
}

func (t *testRecorder) SetLastRunPassed(passed bool) { t.passed = &passed }

func TestRecordReport(t *testing.T) {
	b := findings.NewBuilder(findings.ValidatorLint, 2)
	b.Set(0, []findings.Finding{
		{FilePath: "a.md", Severity: findings.SeverityError, RuleID: "heading-order"},
		{FilePath: "a.md", Severity: findings.SeverityError, RuleID: "trailing-newline"},
	})
	b.Set(1, []findings.Finding{{FilePath: "b.md", Severity: findings.SeverityInfo, RuleID: "bare-path"}})

	rec := newTestRecorder()
	RecordReport(rec, findings.ValidatorLint, b.Build(), time.Millisecond)

	assert.Equal(t, 2, rec.files["lint"])
	assert.Equal(t, 2, rec.findings["lint"][findings.SeverityError])
	assert.Equal(t, 1, rec.findings["lint"][findings.SeverityInfo])
	assert.Equal(t, 0, rec.findings["lint"][findings.SeverityWarning])

	RecordReport(nil, findings.ValidatorLint, b.Build(), time.Millisecond)
	var noop Recorder = NoopRecorder{}
	RecordReport(noop, findings.ValidatorLint, nil, 0)
}
