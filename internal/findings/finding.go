// Package findings holds the result model shared by the document linter and the
// config validator: a Finding per rule violation and a Report aggregating them.
package findings

import (
	"fmt"
	"strings"
)

// Severity indicates the importance level of a finding.
type Severity int

const (
	// SeverityInfo marks observations that never affect the outcome.
	SeverityInfo Severity = iota
	// SeverityWarning marks issues that should be fixed; they fail a run only
	// when the caller asks for it.
	SeverityWarning
	// SeverityError marks issues that always fail a run.
	SeverityError
)

// String returns the upper-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a severity name (case-insensitive) into a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "INFO":
		return SeverityInfo, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "ERROR":
		return SeverityError, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q", name)
	}
}

// MarshalText encodes the severity as its name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Validator names the component that produced a finding.
type Validator string

const (
	ValidatorLint   Validator = "lint"
	ValidatorConfig Validator = "config"
)

// Finding is a single rule violation. It is a value type; copies handed out by a
// Report cannot change the Report.
type Finding struct {
	FilePath string   // source identifier supplied by the caller
	Line     int      // 1-based line number, 0 when the finding is document-wide
	Severity Severity // INFO, WARNING or ERROR
	RuleID   string   // stable rule identifier, e.g. "heading-order"
	Message  string   // full description, never truncated

	Validator Validator // which validator produced it
	Index     int       // position of the source in the validator's input
	RuleOrder int       // position of the rule in evaluation order
	seq       int       // emission order within (Index, RuleOrder)
}

// HasLine reports whether the finding points at a specific line.
func (f Finding) HasLine() bool {
	return f.Line > 0
}

// Location renders "path:line" or just "path" for document-wide findings.
func (f Finding) Location() string {
	if f.HasLine() {
		return fmt.Sprintf("%s:%d", f.FilePath, f.Line)
	}
	return f.FilePath
}

// String renders the finding on one line.
func (f Finding) String() string {
	return fmt.Sprintf("%s: %s [%s] %s", f.Location(), f.Severity, f.RuleID, f.Message)
}
