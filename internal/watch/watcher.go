// Package watch re-runs the checks when documentation or configuration files
// change. Filesystem events are debounced; an optional periodic sweep catches
// changes the event stream missed.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docsflow/internal/logfields"
)

// Reasons passed to RunFunc.
const (
	ReasonStartup = "startup"
	ReasonChange  = "change"
	ReasonSweep   = "sweep"
)

const defaultDebounce = 500 * time.Millisecond

// RunFunc performs one check run. An error is logged and watching continues.
type RunFunc func(ctx context.Context, reason string) error

// Options configures a Watcher.
type Options struct {
	// Roots are the directories (or files) whose changes trigger a run.
	Roots []string
	// Debounce is the quiet period after the last event before a run starts.
	Debounce time.Duration
	// Interval enables a periodic sweep that runs when file contents changed
	// since the last run (0 disables it).
	Interval time.Duration
}

// Watcher serialises runs triggered by file events and the periodic sweep.
// Requests arriving during a run are coalesced into a single follow-up run.
type Watcher struct {
	opts Options
	run  RunFunc

	requests chan string

	mu         sync.Mutex
	timer      *time.Timer
	lastDigest string
}

// New creates a Watcher.
func New(opts Options, run RunFunc) (*Watcher, error) {
	if run == nil {
		return nil, fmt.Errorf("watch: run function is required")
	}
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("watch: at least one root is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	return &Watcher{
		opts:     opts,
		run:      run,
		requests: make(chan string, 1),
	}, nil
}

// Run performs an initial run and then watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() {
		if closeErr := fsw.Close(); closeErr != nil {
			slog.Warn("Error closing file watcher", logfields.Error(closeErr))
		}
	}()

	for _, root := range w.opts.Roots {
		if err := addDirsRecursive(fsw, root); err != nil {
			return err
		}
	}

	if w.opts.Interval > 0 {
		sched, err := w.startSweep()
		if err != nil {
			return err
		}
		defer func() {
			if shutdownErr := sched.Shutdown(); shutdownErr != nil {
				slog.Warn("Error stopping sweep scheduler", logfields.Error(shutdownErr))
			}
		}()
	}

	slog.Info("Watching for changes",
		slog.Any("roots", w.opts.Roots),
		logfields.Duration(w.opts.Debounce))
	w.execute(ctx, ReasonStartup)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			slog.Info("Stopped watching")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case reason := <-w.requests:
			w.execute(ctx, reason)
		}
	}
}

func (w *Watcher) startSweep() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(w.sweep),
		gocron.WithName("periodic-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to create periodic sweep job: %w", err)
	}
	sched.Start()
	slog.Info("Periodic sweep scheduled", logfields.Job("periodic-sweep"), logfields.Duration(w.opts.Interval))
	return sched, nil
}

// execute performs a run and records the content digest it saw.
func (w *Watcher) execute(ctx context.Context, reason string) {
	digest, err := Digest(w.opts.Roots)
	if err != nil {
		slog.Warn("Failed to compute content digest", logfields.Error(err))
	}
	w.mu.Lock()
	w.lastDigest = digest
	w.mu.Unlock()

	start := time.Now()
	slog.Debug("Running checks", logfields.Event(reason))
	if err := w.run(ctx, reason); err != nil {
		slog.Error("Check run failed", logfields.Event(reason), logfields.Error(err))
		return
	}
	slog.Debug("Check run finished", logfields.Event(reason), logfields.Duration(time.Since(start)))
}

// sweep requests a run when the watched contents differ from the last run.
func (w *Watcher) sweep() {
	digest, err := Digest(w.opts.Roots)
	if err != nil {
		slog.Warn("Sweep failed to compute content digest", logfields.Error(err))
		return
	}
	w.mu.Lock()
	changed := digest != w.lastDigest
	w.mu.Unlock()
	if changed {
		slog.Debug("Sweep detected changes")
		w.request(ReasonSweep)
	}
}

// handleEvent filters an event and schedules a debounced run.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fsw, ev.Name)
			w.trigger()
			return
		}
	}
	if !isWatchedFile(ev.Name) {
		return
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

// trigger (re)starts the debounce timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		w.request(ReasonChange)
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// request queues a run unless one is already pending.
func (w *Watcher) request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}

func addDirsRecursive(fsw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fsw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func skipDir(name string) bool {
	if name == ".github" {
		return false
	}
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// isWatchedFile reports whether a change to path can affect a run.
func isWatchedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".yml", ".yaml":
		return true
	}
	return filepath.Base(path) == ".env"
}

// shouldIgnoreEvent returns true for editor temp and swap files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"))
}
