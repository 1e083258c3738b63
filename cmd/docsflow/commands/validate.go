package commands

import (
	"context"
	"os"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	OutputFlags `embed:""`

	Paths   []string `arg:"" optional:"" help:"Files or directories to validate. Defaults to validate.paths."`
	DocsDir string   `name:"docs-dir" help:"Directory mkdocs navigation entries are relative to" default:"docs"`
}

// Run executes the validate command.
func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, &v.OutputFlags)
	if err != nil {
		return err
	}

	roots := v.Paths
	if len(roots) == 0 {
		roots = cfg.Validate.Paths
	}
	runner := &Runner{Config: cfg, Out: os.Stdout}
	return runner.Run(context.Background(), Plan{
		ValidateRoots: nonNil(roots),
		DocsDir:       v.DocsDir,
		Changed:       v.Changed,
	})
}

// nonNil keeps an empty root list distinct from "skip this validator".
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
