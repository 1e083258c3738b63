package findings

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Summary carries run details printed alongside a report.
type Summary struct {
	// RunID identifies the run in JSON output; a random UUID is used when empty.
	RunID string
	// Roots lists the directories or files that were checked.
	Roots []string
	// FailOnWarning is the policy the run was judged under.
	FailOnWarning bool
}

// Formatter writes a report for humans or machines.
type Formatter interface {
	Format(w io.Writer, report *Report, summary Summary) error
}

// NewFormatter creates the formatter for a format name ("text" or "json").
func NewFormatter(format string, useColor bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextFormatter(useColor), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}

// TextFormatter formats reports as human-readable text grouped by file.
type TextFormatter struct {
	errorColor   *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	fileColor    *color.Color
}

// NewTextFormatter creates a text formatter. Colours are used only when
// useColor is set.
func NewTextFormatter(useColor bool) *TextFormatter {
	f := &TextFormatter{
		errorColor:   color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow, color.Bold),
		infoColor:    color.New(color.FgCyan),
		fileColor:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{f.errorColor, f.warningColor, f.infoColor, f.fileColor} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Format outputs the report as text.
func (f *TextFormatter) Format(w io.Writer, report *Report, summary Summary) error {
	if len(summary.Roots) > 0 {
		if _, err := fmt.Fprintf(w, "Checking: %s\n", strings.Join(summary.Roots, ", ")); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
			return err
		}
	}

	order, grouped := report.ByFile()
	for _, file := range order {
		if _, err := fmt.Fprintln(w, f.fileColor.Sprint(file)); err != nil {
			return err
		}
		for _, finding := range grouped[file] {
			if err := f.formatFinding(w, finding); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return f.printSummary(w, report, summary)
}

func (f *TextFormatter) formatFinding(w io.Writer, finding Finding) error {
	line := "-"
	if finding.HasLine() {
		line = fmt.Sprintf("%d", finding.Line)
	}
	_, err := fmt.Fprintf(w, "  %5s  %s  %s  %s\n",
		line, f.severity(finding.Severity), finding.RuleID, finding.Message)
	return err
}

func (f *TextFormatter) severity(s Severity) string {
	label := fmt.Sprintf("%-7s", s)
	switch s {
	case SeverityError:
		return f.errorColor.Sprint(label)
	case SeverityWarning:
		return f.warningColor.Sprint(label)
	default:
		return f.infoColor.Sprint(label)
	}
}

func (f *TextFormatter) printSummary(w io.Writer, report *Report, summary Summary) error {
	lines := []string{
		strings.Repeat("━", 60),
		"Results:",
		fmt.Sprintf("  %d file%s checked", report.FilesTotal(), pluralize(report.FilesTotal())),
	}
	if n := report.Count(SeverityError); n > 0 {
		lines = append(lines, fmt.Sprintf("  %d error%s (fails the run)", n, pluralize(n)))
	}
	if n := report.Count(SeverityWarning); n > 0 {
		policy := "should fix"
		if summary.FailOnWarning {
			policy = "fails the run"
		}
		lines = append(lines, fmt.Sprintf("  %d warning%s (%s)", n, pluralize(n), policy))
	}
	if n := report.Count(SeverityInfo); n > 0 {
		lines = append(lines, fmt.Sprintf("  %d info", n))
	}
	lines = append(lines, "", f.finalMessage(report, summary))

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) finalMessage(report *Report, summary Summary) string {
	switch {
	case report.HasErrors():
		return f.errorColor.Sprint("✗ Checks failed with errors.")
	case report.HasWarnings() && summary.FailOnWarning:
		return f.warningColor.Sprint("✗ Checks failed: warnings are not allowed.")
	case report.HasWarnings():
		return f.warningColor.Sprint("⚠ Checks passed with warnings.")
	case report.Len() > 0:
		return "ℹ All findings are informational."
	default:
		return "✓ All checks passed."
	}
}

// JSONFormatter formats reports as a single JSON document.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput is the JSON document written by JSONFormatter.
type JSONOutput struct {
	RunID         string        `json:"run_id"`
	Roots         []string      `json:"roots,omitempty"`
	Passed        bool          `json:"passed"`
	FailOnWarning bool          `json:"fail_on_warning"`
	FilesTotal    int           `json:"files_total"`
	ErrorCount    int           `json:"error_count"`
	WarningCount  int           `json:"warning_count"`
	InfoCount     int           `json:"info_count"`
	Findings      []JSONFinding `json:"findings"`
}

// JSONFinding is one finding in JSON output.
type JSONFinding struct {
	FilePath  string    `json:"file_path"`
	Line      int       `json:"line,omitempty"`
	Severity  Severity  `json:"severity"`
	Rule      string    `json:"rule"`
	Message   string    `json:"message"`
	Validator Validator `json:"validator"`
}

// Format outputs the report as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, report *Report, summary Summary) error {
	runID := summary.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	output := JSONOutput{
		RunID:         runID,
		Roots:         summary.Roots,
		Passed:        report.Passed(summary.FailOnWarning),
		FailOnWarning: summary.FailOnWarning,
		FilesTotal:    report.FilesTotal(),
		ErrorCount:    report.Count(SeverityError),
		WarningCount:  report.Count(SeverityWarning),
		InfoCount:     report.Count(SeverityInfo),
		Findings:      []JSONFinding{},
	}
	for _, finding := range report.Findings() {
		output.Findings = append(output.Findings, JSONFinding{
			FilePath:  finding.FilePath,
			Line:      finding.Line,
			Severity:  finding.Severity,
			Rule:      finding.RuleID,
			Message:   finding.Message,
			Validator: finding.Validator,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
