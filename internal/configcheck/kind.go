package configcheck

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

// Kind identifies the schema a configuration file is checked against.
type Kind int

const (
	// KindGeneric files are checked for syntax only.
	KindGeneric Kind = iota
	KindMkdocsSite
	KindPipeline
	KindCompose
)

var kindNames = map[Kind]string{
	KindGeneric:    "generic",
	KindMkdocsSite: "mkdocs-site",
	KindPipeline:   "pipeline",
	KindCompose:    "compose",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind name as used in docsflow.yaml.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == normalized {
			return k, nil
		}
	}
	return KindGeneric, fmt.Errorf("unknown config kind %q", name)
}

// KindPattern maps a glob over slash-separated paths to a Kind.
type KindPattern struct {
	Pattern string `yaml:"pattern"`
	Kind    string `yaml:"kind"`
}

type compiledPattern struct {
	pattern string
	kind    Kind
	glob    glob.Glob
}

// KindMapping resolves a file path to a Kind. Patterns are tried in order and the
// first match wins; paths no pattern matches are KindGeneric.
//
// A pattern matches when it matches the whole path or any trailing run of its
// segments, so "mkdocs.yml" matches "site/mkdocs.yml" and ".github/workflows/*.yml"
// matches "repo/.github/workflows/ci.yml".
type KindMapping struct {
	patterns []compiledPattern
}

// NewKindMapping compiles patterns into a mapping.
func NewKindMapping(patterns []KindPattern) (*KindMapping, error) {
	m := &KindMapping{patterns: make([]compiledPattern, 0, len(patterns))}
	for i, p := range patterns {
		kind, err := ParseKind(p.Kind)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid kind mapping").
				WithContext("index", i).
				WithContext("pattern", p.Pattern).
				Build()
		}
		g, err := glob.Compile(p.Pattern, '/')
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid kind mapping pattern").
				WithContext("index", i).
				WithContext("pattern", p.Pattern).
				Build()
		}
		m.patterns = append(m.patterns, compiledPattern{pattern: p.Pattern, kind: kind, glob: g})
	}
	return m, nil
}

// DefaultKindPatterns returns the built-in path patterns.
func DefaultKindPatterns() []KindPattern {
	return []KindPattern{
		{Pattern: "mkdocs.{yml,yaml}", Kind: KindMkdocsSite.String()},
		{Pattern: ".github/workflows/*.{yml,yaml}", Kind: KindPipeline.String()},
		{Pattern: "Jenkinsfile.yml", Kind: KindPipeline.String()},
		{Pattern: ".gitlab-ci.yml", Kind: KindPipeline.String()},
		{Pattern: "docker-compose.{yml,yaml}", Kind: KindCompose.String()},
		{Pattern: "compose.{yml,yaml}", Kind: KindCompose.String()},
	}
}

// DefaultKindMapping returns the mapping for DefaultKindPatterns.
func DefaultKindMapping() *KindMapping {
	m, err := NewKindMapping(DefaultKindPatterns())
	if err != nil {
		panic(err)
	}
	return m
}

// Resolve returns the kind for a file path.
func (m *KindMapping) Resolve(filePath string) Kind {
	if m == nil {
		return KindGeneric
	}
	candidates := pathSuffixes(filePath)
	for _, p := range m.patterns {
		for _, c := range candidates {
			if p.glob.Match(c) {
				return p.kind
			}
		}
	}
	return KindGeneric
}

// pathSuffixes returns the cleaned path followed by each shorter run of
// trailing segments, down to the base name.
func pathSuffixes(p string) []string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "./")
	out := []string{p}
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && i+1 < len(p) {
			out = append(out, p[i+1:])
		}
	}
	return out
}
