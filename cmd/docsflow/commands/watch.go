package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsflow/internal/config"
	"git.home.luguber.info/inful/docsflow/internal/logfields"
	"git.home.luguber.info/inful/docsflow/internal/observability"
	"git.home.luguber.info/inful/docsflow/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	OutputFlags `embed:""`

	Debounce time.Duration `help:"Quiet period after a change before re-running (overrides watch.debounce)"`
	Interval time.Duration `help:"Periodic sweep interval catching missed changes; 0 disables (overrides watch.interval)"`
}

// Run executes the watch command until interrupted. Failing checks are
// reported and watching continues.
func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, &w.OutputFlags)
	if err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}
	if w.Interval > 0 {
		cfg.Watch.Interval = w.Interval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	plan := checkPlan(cfg.Lint.Paths, cfg.Validate.Paths, w.Changed)
	watcher, err := watch.New(watch.Options{
		Roots:    watchRoots(plan, root.Config),
		Debounce: cfg.Watch.Debounce,
		Interval: cfg.Watch.Interval,
	}, func(ctx context.Context, reason string) error {
		return runWatched(ctx, root, &w.OutputFlags, cfg, reason)
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// runWatched performs one run. The configuration file is reloaded on every
// run so edits to it apply without a restart; a broken file keeps the last
// good configuration.
func runWatched(ctx context.Context, root *CLI, flags *OutputFlags, last *config.Config, reason string) error {
	cfg, err := loadConfig(root, flags)
	if err != nil {
		slog.Warn("Configuration reload failed; keeping previous settings", logfields.Error(err))
		cfg = last
	}
	if cfg.Watch.Debounce != last.Watch.Debounce || cfg.Watch.Interval != last.Watch.Interval {
		slog.Info("Watch timing changes apply after restart")
	}

	ctx = observability.WithReason(observability.WithRunID(ctx, uuid.NewString()), reason)
	observability.InfoContext(ctx, "Running checks")
	runner := &Runner{Config: cfg, Out: os.Stdout}
	err = runner.Run(ctx, checkPlan(cfg.Lint.Paths, cfg.Validate.Paths, flags.Changed))
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		observability.InfoContext(ctx, "Checks failed", logfields.Passed(false))
		return nil
	}
	return err
}

// watchRoots is every root of the plan plus the configuration file.
func watchRoots(plan Plan, configPath string) []string {
	roots := append(slices.Clone(plan.LintRoots), plan.ValidateRoots...)
	if _, err := os.Stat(configPath); err == nil {
		roots = append(roots, configPath)
	}
	slices.Sort(roots)
	return slices.Compact(roots)
}
