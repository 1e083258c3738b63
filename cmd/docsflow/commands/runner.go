package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsflow/internal/config"
	"git.home.luguber.info/inful/docsflow/internal/configcheck"
	"git.home.luguber.info/inful/docsflow/internal/discovery"
	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/git"
	"git.home.luguber.info/inful/docsflow/internal/lint"
	"git.home.luguber.info/inful/docsflow/internal/logfields"
	"git.home.luguber.info/inful/docsflow/internal/metrics"
	"git.home.luguber.info/inful/docsflow/internal/observability"
)

// Plan selects what a run checks.
type Plan struct {
	// LintRoots are searched for Markdown documents; nil skips linting.
	LintRoots []string
	// ValidateRoots are searched for YAML files; nil skips validation.
	ValidateRoots []string
	// DocsDir is the directory navigation entries are relative to.
	DocsDir string
	// Changed limits the run to files changed in the git work tree.
	Changed bool
}

// Runner discovers files, runs the validators and renders the merged report.
type Runner struct {
	Config *config.Config
	Out    io.Writer
}

// Run performs one check run and writes the report. The returned error is an
// *ExitError when the checks failed.
func (r *Runner) Run(ctx context.Context, plan Plan) error {
	if observability.RunID(ctx) == "" {
		ctx = observability.WithRunID(ctx, uuid.NewString())
	}
	report, err := r.Check(ctx, plan)
	if err != nil {
		return err
	}
	if err := r.Render(ctx, report, plan); err != nil {
		return err
	}
	return exitFor(report, r.Config.Output.FailOnWarning)
}

// Check runs the validators selected by plan and returns the merged report.
func (r *Runner) Check(ctx context.Context, plan Plan) (*findings.Report, error) {
	cfg := r.Config
	walker, err := discovery.NewWalker(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	var changed []string
	if plan.Changed {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if changed, err = git.ChangedFiles(wd); err != nil {
			return nil, err
		}
	}
	selectFiles := func(paths []string) []string {
		if !plan.Changed {
			return paths
		}
		return git.FilterChanged(paths, changed)
	}

	var reg *prom.Registry
	var rec metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Output.MetricsFile != "" {
		reg = prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
	}

	var lintReport, configReport *findings.Report

	if plan.LintRoots != nil {
		docs, err := walker.Find(discovery.Markdown, plan.LintRoots)
		if err != nil {
			return nil, err
		}
		files, err := discovery.ReadFiles(selectFiles(docs))
		if err != nil {
			return nil, err
		}
		inputs := make([]lint.Input, 0, len(files))
		for _, f := range files {
			inputs = append(inputs, lint.Input{Path: f.Path, Text: f.Text})
		}

		known, err := linkTargets(walker, plan.LintRoots, docs)
		if err != nil {
			return nil, err
		}
		opts := lint.Options{
			RequiredSections:   cfg.Lint.RequiredSections,
			LinkDenyList:       cfg.Lint.LinkDenyList,
			KnownDocumentPaths: known,
			Concurrency:        cfg.Concurrency,
		}
		opts.Rules = enabledRules(opts, cfg.Lint.DisabledRules)

		lintCtx := observability.WithValidator(ctx, string(findings.ValidatorLint))
		start := time.Now()
		if lintReport, err = lint.Lint(lintCtx, inputs, opts); err != nil {
			return nil, err
		}
		elapsed := time.Since(start)
		metrics.RecordReport(rec, findings.ValidatorLint, lintReport, elapsed)
		observability.DebugContext(lintCtx, "Linted documents",
			logfields.Count(len(inputs)),
			logfields.Findings(lintReport.Len()),
			logfields.Duration(elapsed))
	}

	if plan.ValidateRoots != nil {
		paths, err := walker.Find(discovery.YAML, plan.ValidateRoots)
		if err != nil {
			return nil, err
		}
		paths = slices.DeleteFunc(paths, isDriverConfig)
		files, err := discovery.ReadFiles(selectFiles(paths))
		if err != nil {
			return nil, err
		}
		inputs := make([]configcheck.Input, 0, len(files))
		for _, f := range files {
			inputs = append(inputs, configcheck.Input{Path: f.Path, Text: f.Text})
		}

		mapping, err := cfg.KindMapping()
		if err != nil {
			return nil, err
		}
		opts := configcheck.Options{
			KindMapping: mapping,
			Concurrency: cfg.Concurrency,
		}
		if cfg.NavCheckEnabled() && plan.DocsDir != "" {
			if opts.KnownDocumentPaths, err = knownDocuments(walker, plan.DocsDir); err != nil {
				return nil, err
			}
		}

		validateCtx := observability.WithValidator(ctx, string(findings.ValidatorConfig))
		start := time.Now()
		if configReport, err = configcheck.Validate(validateCtx, inputs, opts); err != nil {
			return nil, err
		}
		elapsed := time.Since(start)
		metrics.RecordReport(rec, findings.ValidatorConfig, configReport, elapsed)
		observability.DebugContext(validateCtx, "Validated configuration",
			logfields.Count(len(inputs)),
			logfields.Findings(configReport.Len()),
			logfields.Duration(elapsed))
	}

	report := findings.Merge(lintReport, configReport)
	passed := report.Passed(cfg.Output.FailOnWarning)
	rec.SetLastRunPassed(passed)
	if reg != nil {
		if err := metrics.WriteTextfile(cfg.Output.MetricsFile, reg); err != nil {
			return nil, err
		}
	}
	observability.DebugContext(ctx, "Run complete",
		logfields.Count(report.FilesTotal()),
		logfields.Findings(report.Len()),
		logfields.Passed(passed))
	return report, nil
}

// Render writes the report in the configured format.
func (r *Runner) Render(ctx context.Context, report *findings.Report, plan Plan) error {
	cfg := r.Config
	minSeverity, err := findings.ParseSeverity(cfg.Output.MinSeverity)
	if err != nil {
		return err
	}
	formatter, err := findings.NewFormatter(cfg.Output.Format, useColor(cfg.Output.Color))
	if err != nil {
		return err
	}

	roots := append(slices.Clone(plan.LintRoots), plan.ValidateRoots...)
	slices.Sort(roots)
	summary := findings.Summary{
		RunID:         observability.RunID(ctx),
		Roots:         slices.Compact(roots),
		FailOnWarning: cfg.Output.FailOnWarning,
	}
	return formatter.Format(r.Out, report.Filter(minSeverity), summary)
}

// enabledRules returns the default rules minus the disabled ones.
func enabledRules(opts lint.Options, disabled []string) []lint.Rule {
	return slices.DeleteFunc(lint.DefaultRules(opts), func(rule lint.Rule) bool {
		return slices.Contains(disabled, rule.ID())
	})
}

// linkTargets lists the documents relative links may point at: everything
// discovered under the lint roots, before any changed-files filter, plus the
// siblings of roots that name a single file.
func linkTargets(walker *discovery.Walker, roots, docs []string) ([]string, error) {
	known := make([]string, 0, len(docs))
	for _, d := range docs {
		known = append(known, filepath.ToSlash(d))
	}
	var dirs []string
	for _, root := range roots {
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			dirs = append(dirs, filepath.Dir(root))
		}
	}
	if len(dirs) == 0 {
		return known, nil
	}
	siblings, err := walker.Find(discovery.Markdown, dirs)
	if err != nil {
		return nil, err
	}
	for _, d := range siblings {
		known = append(known, filepath.ToSlash(d))
	}
	return known, nil
}

// knownDocuments lists the Markdown documents below docsDir, relative to it.
// A missing directory yields nil, which skips the navigation check.
func knownDocuments(walker *discovery.Walker, docsDir string) ([]string, error) {
	if info, err := os.Stat(docsDir); err != nil || !info.IsDir() {
		return nil, nil
	}
	docs, err := walker.Find(discovery.Markdown, []string{docsDir})
	if err != nil {
		return nil, err
	}
	known := discovery.RelativeTo(docsDir, docs)
	if known == nil {
		known = []string{}
	}
	return known, nil
}

// isDriverConfig reports whether path is docsflow's own configuration file.
func isDriverConfig(path string) bool {
	base := filepath.Base(path)
	return base == config.DefaultPath || base == "docsflow.yml"
}
