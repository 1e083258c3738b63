package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

const namespace = "docsflow"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	filesValidated *prom.CounterVec
	findings       *prom.CounterVec
	duration       *prom.HistogramVec
	lastRunPassed  prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.filesValidated = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_validated_total",
			Help:      "Files checked, by validator",
		}, []string{"validator"})
		pr.findings = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Findings reported, by validator and severity",
		}, []string{"validator", "severity"})
		pr.duration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Duration of a validator pass over all of its inputs",
			Buckets:   prom.DefBuckets,
		}, []string{"validator"})
		pr.lastRunPassed = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_passed",
			Help:      "1 when the most recent run passed, 0 otherwise",
		})
		reg.MustRegister(pr.filesValidated, pr.findings, pr.duration, pr.lastRunPassed)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveValidation(validator string, files int, d time.Duration) {
	if p == nil || p.filesValidated == nil {
		return
	}
	p.filesValidated.WithLabelValues(validator).Add(float64(files))
	p.duration.WithLabelValues(validator).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddFindings(validator string, severity findings.Severity, n int) {
	if p == nil || p.findings == nil {
		return
	}
	p.findings.WithLabelValues(validator, severity.String()).Add(float64(n))
}

func (p *PrometheusRecorder) SetLastRunPassed(passed bool) {
	if p == nil || p.lastRunPassed == nil {
		return
	}
	v := 0.0
	if passed {
		v = 1
	}
	p.lastRunPassed.Set(v)
}

// WriteTextfile writes every metric in reg to path in the text exposition
// format, replacing the file atomically.
func WriteTextfile(path string, reg *prom.Registry) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write metrics textfile").
			WithContext("path", path).
			Build()
	}
	return nil
}
