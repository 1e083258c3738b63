package commands

import (
	"context"
	"os"
)

// CheckCmd implements the 'check' command: lint and validate in one run with
// a single merged report.
type CheckCmd struct {
	OutputFlags `embed:""`
}

// Run executes the check command.
func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, &c.OutputFlags)
	if err != nil {
		return err
	}

	runner := &Runner{Config: cfg, Out: os.Stdout}
	return runner.Run(context.Background(), checkPlan(cfg.Lint.Paths, cfg.Validate.Paths, c.Changed))
}

// checkPlan lints the configured (or detected) documentation roots and uses
// the first of them as the navigation base.
func checkPlan(lintPaths, validatePaths []string, changed bool) Plan {
	roots := lintRoots(nil, lintPaths)
	return Plan{
		LintRoots:     roots,
		ValidateRoots: nonNil(validatePaths),
		DocsDir:       roots[0],
		Changed:       changed,
	}
}
