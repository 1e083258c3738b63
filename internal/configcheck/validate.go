// Package configcheck validates YAML configuration files: syntax first, then a
// per-kind schema of required and typed keys, then cross-field references.
package configcheck

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
	"git.home.luguber.info/inful/docsflow/internal/frontmatter"
)

// Rule identifiers reported by the validator.
const (
	RuleSyntax         = "yaml-syntax"
	RuleEmpty          = "yaml-empty"
	RuleMultiDocument  = "yaml-multi-document"
	RuleMissingKey     = "yaml-missing-key"
	RuleType           = "yaml-type"
	RuleEmptyValue     = "yaml-empty-value"
	RuleThemeName      = "yaml-theme-name"
	RuleServiceSource  = "yaml-service-source"
	RuleComposeVersion = "yaml-compose-version"
	RuleNavReference   = "yaml-nav-reference"
)

// Check stages, used as the rule order of findings.
const (
	stageSyntax = iota
	stageSchema
	stageCrossField
)

// Input is one configuration file: an identifier and its raw text.
type Input struct {
	Path string
	Text string
}

// Options configures a validation run.
type Options struct {
	// KnownDocumentPaths lists document paths (relative to the site's docs
	// directory) that navigation entries may reference. Nil disables the check.
	KnownDocumentPaths []string

	// KindMapping resolves paths to kinds; nil means DefaultKindMapping.
	KindMapping *KindMapping

	// Concurrency bounds how many files are validated at once
	// (0 means GOMAXPROCS).
	Concurrency int
}

// Validate checks every configuration file and returns the ordered report:
// input order first, then check stage, then emission order.
//
// A file that fails to parse yields exactly one finding and never affects the
// others. The only errors are contract violations and context cancellation.
func Validate(ctx context.Context, cfgs []Input, opts Options) (*findings.Report, error) {
	if ctx == nil {
		return nil, errors.ContractError("validate called with nil context").Build()
	}
	for i, c := range cfgs {
		if c.Path == "" {
			return nil, errors.ContractError("configuration file has an empty path").
				WithContext("index", i).
				Build()
		}
	}

	mapping := opts.KindMapping
	if mapping == nil {
		mapping = DefaultKindMapping()
	}
	var known map[string]bool
	if opts.KnownDocumentPaths != nil {
		known = make(map[string]bool, len(opts.KnownDocumentPaths))
		for _, p := range opts.KnownDocumentPaths {
			known[normalizeDocPath(p)] = true
		}
	}

	builder := findings.NewBuilder(findings.ValidatorConfig, len(cfgs))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, in := range cfgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			builder.Set(i, ValidateFile(in, mapping.Resolve(in.Path), known))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return builder.Build(), nil
}

// ValidateFile checks one file against the schema of kind. known holds the
// normalized document paths navigation may reference; nil skips that check.
func ValidateFile(in Input, kind Kind, known map[string]bool) []findings.Finding {
	c := &fileCheck{path: in.Path}

	root, ok := c.parse(in.Text)
	if !ok || kind == KindGeneric {
		return c.out
	}

	if typeOf(root) != typeMapping {
		c.stage = stageSchema
		c.add(findings.SeverityError, RuleType, root.Line,
			fmt.Sprintf("top-level value has type %s, expected mapping", typeOf(root)))
		return c.out
	}

	switch kind {
	case KindMkdocsSite:
		checkMkdocs(c, root, known)
	case KindPipeline:
		checkPipeline(c, root)
	case KindCompose:
		checkCompose(c, root)
	}
	return c.out
}

// fileCheck accumulates the findings of one file.
type fileCheck struct {
	path  string
	stage int
	out   []findings.Finding
}

func (c *fileCheck) add(sev findings.Severity, rule string, line int, msg string) {
	c.out = append(c.out, findings.Finding{
		FilePath:  c.path,
		Line:      line,
		Severity:  sev,
		RuleID:    rule,
		Message:   msg,
		RuleOrder: c.stage,
	})
}

// parse decodes the first YAML document. It reports syntax problems and empty
// files, and returns false when no schema checks should follow.
func (c *fileCheck) parse(text string) (*yaml.Node, bool) {
	c.stage = stageSyntax

	dec := yaml.NewDecoder(strings.NewReader(text))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			c.add(findings.SeverityWarning, RuleEmpty, 0, "file contains no YAML document")
			return nil, false
		}
		line, _ := frontmatter.ErrorLine(err)
		c.add(findings.SeverityError, RuleSyntax, line,
			fmt.Sprintf("invalid YAML syntax: %s", strings.TrimPrefix(err.Error(), "yaml: ")))
		return nil, false
	}

	if len(doc.Content) == 0 || typeOf(&doc) == typeNull {
		c.add(findings.SeverityWarning, RuleEmpty, 0, "file contains no YAML document")
		return nil, false
	}

	var next yaml.Node
	if err := dec.Decode(&next); !stderrors.Is(err, io.EOF) {
		line := next.Line
		if err != nil {
			line, _ = frontmatter.ErrorLine(err)
		}
		c.add(findings.SeverityInfo, RuleMultiDocument, line,
			"file contains more than one YAML document; only the first is validated")
	}

	return doc.Content[0], true
}

// field describes one key of a schema.
type field struct {
	key      string
	types    []string
	required bool
}

// checkFields reports missing required keys and wrongly typed keys of m.
// prefix qualifies key names in messages ("jobs.build."); line locates
// missing-key findings.
func (c *fileCheck) checkFields(m *yaml.Node, prefix string, line int, fields []field) {
	for _, f := range fields {
		v, ok := lookup(m, f.key)
		if !ok {
			if f.required {
				c.add(findings.SeverityError, RuleMissingKey, line,
					fmt.Sprintf("missing required key '%s%s'", prefix, f.key))
			}
			continue
		}
		c.checkType(v, prefix+f.key, f.types...)
	}
}

// checkType reports v when its type is not one of want.
func (c *fileCheck) checkType(v *yaml.Node, key string, want ...string) bool {
	got := typeOf(v)
	for _, w := range want {
		if got == w {
			return true
		}
	}
	c.add(findings.SeverityError, RuleType, v.Line,
		fmt.Sprintf("key '%s' has type %s, expected %s", key, got, strings.Join(want, " or ")))
	return false
}
