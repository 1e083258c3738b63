package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/docsflow/internal/configcheck"
	"git.home.luguber.info/inful/docsflow/internal/lint"
)

// RulesCmd implements the 'rules' command.
type RulesCmd struct{}

// Run executes the rules command.
func (r *RulesCmd) Run(_ *Global, _ *CLI) error {
	return writeRules(os.Stdout)
}

func writeRules(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Lint rules (Markdown):")
	for _, rule := range lint.DefaultRules(lint.Options{}) {
		fmt.Fprintf(tw, "  %s\t%s\n", rule.ID(), rule.Description())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Validation rules (YAML):")
	for _, rule := range configcheck.Rules() {
		fmt.Fprintf(tw, "  %s\t%s\n", rule.ID, rule.Description)
	}
	return tw.Flush()
}
