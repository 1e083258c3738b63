// Package metrics records run metrics for docsflow.
//
// Components receive a Recorder and never check for nil: NoopRecorder is the
// default and does nothing. When the CLI is asked for a metrics textfile it
// injects a PrometheusRecorder backed by its own registry and writes the
// registry in the node-exporter textfile format once the run finishes:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	metrics.RecordReport(rec, "lint", report, elapsed)
//	err := metrics.WriteTextfile(path, reg)
package metrics
