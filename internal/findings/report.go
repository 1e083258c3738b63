package findings

import (
	"cmp"
	"slices"
)

// Report is the ordered, read-only outcome of one validation run.
//
// Findings are ordered by validator, input index, rule order and emission order,
// so a run that evaluated files concurrently renders the same as a sequential one.
type Report struct {
	findings   []Finding
	filesTotal int
}

// Findings returns a copy of the ordered findings.
func (r *Report) Findings() []Finding {
	if r == nil {
		return nil
	}
	return slices.Clone(r.findings)
}

// Len returns the number of findings.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.findings)
}

// FilesTotal returns the number of inputs the report covers.
func (r *Report) FilesTotal() int {
	if r == nil {
		return 0
	}
	return r.filesTotal
}

// Passed reports whether the run succeeded. Errors always fail; warnings fail
// only when failOnWarning is set.
func (r *Report) Passed(failOnWarning bool) bool {
	if r.HasErrors() {
		return false
	}
	if failOnWarning && r.HasWarnings() {
		return false
	}
	return true
}

// HasErrors returns true if any error-level finding exists.
func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// HasWarnings returns true if any warning-level finding exists.
func (r *Report) HasWarnings() bool {
	return r.Count(SeverityWarning) > 0
}

// Count returns the number of findings with the given severity.
func (r *Report) Count(sev Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, f := range r.findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// Counts returns the number of findings per severity.
func (r *Report) Counts() map[Severity]int {
	return map[Severity]int{
		SeverityInfo:    r.Count(SeverityInfo),
		SeverityWarning: r.Count(SeverityWarning),
		SeverityError:   r.Count(SeverityError),
	}
}

// ByFile groups findings by file path. The returned order slice lists paths in
// the order they first appear in the report.
func (r *Report) ByFile() (order []string, grouped map[string][]Finding) {
	grouped = make(map[string][]Finding)
	if r == nil {
		return nil, grouped
	}
	for _, f := range r.findings {
		if _, seen := grouped[f.FilePath]; !seen {
			order = append(order, f.FilePath)
		}
		grouped[f.FilePath] = append(grouped[f.FilePath], f)
	}
	return order, grouped
}

// Filter returns a new report holding only findings at or above minSeverity.
func (r *Report) Filter(minSeverity Severity) *Report {
	out := &Report{filesTotal: r.FilesTotal()}
	if r == nil {
		return out
	}
	for _, f := range r.findings {
		if f.Severity >= minSeverity {
			out.findings = append(out.findings, f)
		}
	}
	return out
}

// Merge combines reports into a new one. Inputs are left untouched; nil reports
// are skipped. Validators keep their relative order (lint before config).
func Merge(reports ...*Report) *Report {
	out := &Report{}
	for _, r := range reports {
		if r == nil {
			continue
		}
		out.filesTotal += r.filesTotal
		out.findings = append(out.findings, r.findings...)
	}
	sortFindings(out.findings)
	return out
}

func validatorRank(v Validator) int {
	switch v {
	case ValidatorLint:
		return 0
	case ValidatorConfig:
		return 1
	default:
		return 2
	}
}

func sortFindings(fs []Finding) {
	slices.SortStableFunc(fs, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(validatorRank(a.Validator), validatorRank(b.Validator)),
			cmp.Compare(a.Index, b.Index),
			cmp.Compare(a.RuleOrder, b.RuleOrder),
			cmp.Compare(a.seq, b.seq),
		)
	})
}
