package lint

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

// RuleFailureID identifies findings produced when a rule could not handle a
// document. They are informational and never fail a run.
const RuleFailureID = "rule-failure"

// Options configures a lint run.
type Options struct {
	// RequiredSections lists section titles every document must contain.
	RequiredSections []string

	// LinkDenyList overrides DefaultLinkDenyList when non-nil.
	LinkDenyList []string

	// KnownDocumentPaths lists Markdown documents that relative links may
	// target, in the same form as Input.Path. Lint adds the linted inputs.
	// Nil disables the broken-link check.
	KnownDocumentPaths []string

	// Rules overrides DefaultRules when non-nil. Order is evaluation order.
	Rules []Rule

	// Concurrency bounds how many documents are linted at once
	// (0 means GOMAXPROCS).
	Concurrency int
}

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules(opts Options) []Rule {
	deny := opts.LinkDenyList
	if deny == nil {
		deny = DefaultLinkDenyList
	}
	return []Rule{
		&HeadingOrderRule{},
		&RequiredSectionsRule{Titles: opts.RequiredSections},
		&CodeBlockLanguageRule{},
		NewLinkTextRule(deny),
		&BarePathRule{},
		&UnclosedCodeBlockRule{},
		&TrailingNewlineRule{},
		&ListMarkerRule{},
		&FrontmatterRule{},
		&FrontmatterFingerprintRule{},
		&ImageAltTextRule{},
		NewBrokenLinkRule(opts.KnownDocumentPaths),
	}
}

// Lint applies the rules to every document and returns the ordered report:
// document input order first, then rule order.
//
// Documents are linted concurrently; the report is identical to a sequential
// run. The only errors are contract violations (nil context, empty path) and
// context cancellation; problems in the documents are findings.
func Lint(ctx context.Context, docs []Input, opts Options) (*findings.Report, error) {
	if ctx == nil {
		return nil, errors.ContractError("lint called with nil context").Build()
	}
	for i, d := range docs {
		if d.Path == "" {
			return nil, errors.ContractError("document has an empty path").
				WithContext("index", i).
				Build()
		}
	}

	rules := opts.Rules
	if rules == nil {
		if opts.KnownDocumentPaths != nil {
			known := make([]string, 0, len(opts.KnownDocumentPaths)+len(docs))
			known = append(known, opts.KnownDocumentPaths...)
			for _, d := range docs {
				known = append(known, d.Path)
			}
			opts.KnownDocumentPaths = known
		}
		rules = DefaultRules(opts)
	}

	builder := findings.NewBuilder(findings.ValidatorLint, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency(opts.Concurrency))
	for i, in := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			builder.Set(i, LintDocument(NewDocument(in.Path, in.Text), rules))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return builder.Build(), nil
}

// LintDocument applies rules to one document in order. RuleOrder on the
// returned findings is the rule's index in rules.
func LintDocument(doc *Document, rules []Rule) []findings.Finding {
	var out []findings.Finding
	for order, rule := range rules {
		for _, f := range checkRule(rule, doc) {
			f.RuleOrder = order
			if f.FilePath == "" {
				f.FilePath = doc.Path
			}
			out = append(out, f)
		}
	}
	return out
}

// checkRule runs a rule, turning a panic into an informational finding so one
// unexpected construct cannot abort the run.
func checkRule(rule Rule, doc *Document) (out []findings.Finding) {
	defer func() {
		if r := recover(); r != nil {
			out = []findings.Finding{{
				FilePath: doc.Path,
				Severity: findings.SeverityInfo,
				RuleID:   RuleFailureID,
				Message:  fmt.Sprintf("rule %s could not process this document: %v", rule.ID(), r),
			}}
		}
	}()
	return rule.Check(doc)
}

func concurrency(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
