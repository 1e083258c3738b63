package commands

import (
	"context"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docsflow/internal/discovery"
	"git.home.luguber.info/inful/docsflow/internal/logfields"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	OutputFlags `embed:""`

	Paths []string `arg:"" optional:"" help:"Files or directories to lint. Defaults to lint.paths, then docs/, documentation/ or ."`
}

// Run executes the lint command.
func (l *LintCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, &l.OutputFlags)
	if err != nil {
		return err
	}

	roots := lintRoots(l.Paths, cfg.Lint.Paths)
	runner := &Runner{Config: cfg, Out: os.Stdout}
	return runner.Run(context.Background(), Plan{LintRoots: roots, Changed: l.Changed})
}

// lintRoots picks the Markdown roots: arguments, then configuration, then the
// detected documentation directory.
func lintRoots(args, configured []string) []string {
	if len(args) > 0 {
		return args
	}
	if len(configured) > 0 {
		return configured
	}
	dir, found := discovery.DetectDocsDir()
	if found {
		slog.Debug("Detected documentation directory", logfields.Path(dir))
	} else {
		slog.Debug("No documentation directory detected (checked: docs/, documentation/); using current directory")
	}
	return []string{dir}
}
