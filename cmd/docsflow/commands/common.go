package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsflow/internal/config"
	"git.home.luguber.info/inful/docsflow/internal/findings"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsflow.yaml" env:"DOCSFLOW_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging" env:"DOCSFLOW_VERBOSE"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Lint     LintCmd     `cmd:"" help:"Lint Markdown documents"`
	Validate ValidateCmd `cmd:"" help:"Validate YAML configuration files"`
	Check    CheckCmd    `cmd:"" help:"Lint documents and validate configuration in one run"`
	Watch    WatchCmd    `cmd:"" help:"Re-run checks whenever documents or configuration change"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Rules    RulesCmd    `cmd:"" help:"List the lint and validation rules"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// OutputFlags are shared by every command that produces a report. Unset flags
// leave the configuration file's values in place.
type OutputFlags struct {
	Format          string `short:"f" help:"Output format (text or json)" env:"DOCSFLOW_FORMAT"`
	FailOnWarning   bool   `help:"Treat warnings as failures" env:"DOCSFLOW_FAIL_ON_WARNING"`
	Changed         bool   `help:"Only check files changed in the git work tree"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this file after each run" env:"DOCSFLOW_METRICS_TEXTFILE" type:"path"`
	NoColor         bool   `name:"no-color" help:"Disable coloured output"`
	MinSeverity     string `name:"min-severity" help:"Hide findings below this severity (info, warning, error)"`
}

// ExitError carries the exit status of a completed run. It is not a failure
// of the tool itself and is not printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("checks failed (exit status %d)", e.Code)
}

// exitFor maps a report to the process exit status: 2 when errors were found,
// 1 when warnings were found under fail-on-warning, 0 otherwise.
func exitFor(report *findings.Report, failOnWarning bool) error {
	switch {
	case report.HasErrors():
		return &ExitError{Code: 2}
	case failOnWarning && report.HasWarnings():
		return &ExitError{Code: 1}
	default:
		return nil
	}
}

// loadConfig loads the configuration named by --config and applies the
// command-line overrides. The default file is optional; an explicit one is not.
func loadConfig(root *CLI, flags *OutputFlags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(root.Config, root.Config != config.DefaultPath)
	if err != nil {
		return nil, err
	}
	if flags == nil {
		return cfg, nil
	}

	if flags.Format != "" {
		cfg.Output.Format = flags.Format
	}
	if flags.FailOnWarning {
		cfg.Output.FailOnWarning = true
	}
	if flags.MetricsTextfile != "" {
		cfg.Output.MetricsFile = flags.MetricsTextfile
	}
	if flags.NoColor {
		cfg.Output.Color = "never"
	}
	if flags.MinSeverity != "" {
		cfg.Output.MinSeverity = flags.MinSeverity
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// useColor resolves the color mode against the terminal.
func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isColorSupported()
	}
}

// isColorSupported checks if the terminal supports color output.
func isColorSupported() bool {
	if fileInfo, err := os.Stdout.Stat(); err != nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		return false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}
