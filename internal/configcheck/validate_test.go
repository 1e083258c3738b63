package configcheck

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsflow/internal/findings"
	foundationerrors "git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

func validate(t *testing.T, path, text string, opts Options) []findings.Finding {
	t.Helper()
	report, err := Validate(context.Background(), []Input{{Path: path, Text: text}}, opts)
	require.NoError(t, err)
	return report.Findings()
}

func ruleIDs(fs []findings.Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.RuleID)
	}
	return out
}

func TestValidate_MissingNav(t *testing.T) {
	got := validate(t, "mkdocs.yml", "name: docs\n", Options{})

	var nav *findings.Finding
	for i := range got {
		if got[i].Message == "missing required key 'nav'" {
			nav = &got[i]
		}
	}
	require.NotNil(t, nav, "%v", got)
	assert.Equal(t, RuleMissingKey, nav.RuleID)
	assert.Equal(t, findings.SeverityError, nav.Severity)
	assert.Equal(t, findings.ValidatorConfig, nav.Validator)
}

func TestValidate_ValidMkdocs(t *testing.T) {
	text := `site_name: Docs
docs_dir: docs
theme:
  name: material
nav:
  - Home: index.md
  - Guides:
      - guides/install.md
      - Usage: guides/usage.md#basics
  - External: https://example.com/page.md
plugins:
  - search
`
	got := validate(t, "mkdocs.yml", text, Options{
		KnownDocumentPaths: []string{"index.md", "./guides/install.md", "guides/usage.md"},
	})
	assert.Empty(t, got)
}

func TestValidate_WrongType(t *testing.T) {
	got := validate(t, "mkdocs.yaml", "site_name: Docs\nnav:\n  home: index.md\n", Options{})
	require.Len(t, got, 1)
	assert.Equal(t, RuleType, got[0].RuleID)
	assert.Equal(t, "key 'nav' has type mapping, expected sequence", got[0].Message)
	assert.Equal(t, 3, got[0].Line)
}

func TestValidate_EmptySiteNameAndThemeWithoutName(t *testing.T) {
	got := validate(t, "mkdocs.yml", "site_name: \"\"\nnav: []\ntheme:\n  palette: dark\n", Options{})
	assert.Equal(t, []string{RuleEmptyValue, RuleThemeName}, ruleIDs(got))
	assert.Equal(t, findings.SeverityWarning, got[1].Severity)
}

func TestValidate_ThemeTypes(t *testing.T) {
	assert.Empty(t, validate(t, "mkdocs.yml", "site_name: Docs\nnav: []\ntheme: readthedocs\n", Options{}))

	got := validate(t, "mkdocs.yml", "site_name: Docs\nnav: []\ntheme: 3\n", Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "key 'theme' has type number, expected string or mapping", got[0].Message)
}

func TestValidate_NavReferences(t *testing.T) {
	text := "site_name: Docs\nnav:\n  - index.md\n  - Missing: gone.md\n"

	got := validate(t, "mkdocs.yml", text, Options{KnownDocumentPaths: []string{"index.md"}})
	require.Len(t, got, 1)
	assert.Equal(t, RuleNavReference, got[0].RuleID)
	assert.Equal(t, findings.SeverityWarning, got[0].Severity)
	assert.Equal(t, 4, got[0].Line)
	assert.Contains(t, got[0].Message, "gone.md")

	assert.Empty(t, validate(t, "mkdocs.yml", text, Options{}), "nil known paths disables the check")
	assert.Len(t, validate(t, "mkdocs.yml", text, Options{KnownDocumentPaths: []string{}}), 2)
}

func TestValidate_SyntaxError(t *testing.T) {
	got := validate(t, "mkdocs.yml", "site_name: Docs\nnav: [index.md\n", Options{})
	require.Len(t, got, 1)
	assert.Equal(t, RuleSyntax, got[0].RuleID)
	assert.Equal(t, findings.SeverityError, got[0].Severity)
	assert.Positive(t, got[0].Line)
}

func TestValidate_EmptyFile(t *testing.T) {
	for _, text := range []string{"", "\n\n", "---\n", "# just a comment\n"} {
		got := validate(t, "mkdocs.yml", text, Options{})
		require.Len(t, got, 1, "%q", text)
		assert.Equal(t, RuleEmpty, got[0].RuleID)
		assert.Equal(t, findings.SeverityWarning, got[0].Severity)
	}
}

func TestValidate_MultiDocument(t *testing.T) {
	got := validate(t, "settings.yml", "a: 1\n---\nb: 2\n", Options{})
	require.Len(t, got, 1)
	assert.Equal(t, RuleMultiDocument, got[0].RuleID)
	assert.Equal(t, findings.SeverityInfo, got[0].Severity)
}

func TestValidate_TopLevelNotMapping(t *testing.T) {
	got := validate(t, "docker-compose.yml", "- web\n- db\n", Options{})
	require.Len(t, got, 1)
	assert.Equal(t, RuleType, got[0].RuleID)
	assert.Equal(t, "top-level value has type sequence, expected mapping", got[0].Message)

	assert.Empty(t, validate(t, "list.yml", "- a\n- b\n", Options{}), "generic files are checked for syntax only")
}

func TestValidate_Pipeline(t *testing.T) {
	text := `name: ci
on: [push]
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - run: make
  test:
    runs-on: ubuntu-latest
  lint: make lint
`
	got := validate(t, ".github/workflows/ci.yml", text, Options{})
	require.Len(t, got, 2)
	assert.Equal(t, "missing required key 'jobs.test.steps'", got[0].Message)
	assert.Equal(t, 8, got[0].Line)
	assert.Equal(t, "key 'jobs.lint' has type string, expected mapping", got[1].Message)

	got = validate(t, "ci/.gitlab-ci.yml", "name: ci\n", Options{})
	assert.Equal(t, []string{"missing required key 'on'", "missing required key 'jobs'"},
		[]string{got[0].Message, got[1].Message})
}

func TestValidate_Compose(t *testing.T) {
	text := "services:\n  web:\n    image: nginx\n  worker:\n    command: run\n  api:\n    build: .\n"
	got := validate(t, "compose.yaml", text, Options{})
	assert.Equal(t, []string{RuleComposeVersion, RuleServiceSource}, ruleIDs(got))
	assert.Equal(t, findings.SeverityInfo, got[0].Severity)
	assert.Equal(t, "service 'worker' must set 'image' or 'build'", got[1].Message)
	assert.Equal(t, 4, got[1].Line)

	got = validate(t, "docker-compose.yml", "version: \"3.8\"\n", Options{})
	assert.Equal(t, []string{RuleMissingKey}, ruleIDs(got))
}

func TestValidate_MergeKeys(t *testing.T) {
	compose := `version: "3.9"
x-base: &base
  image: nginx:1.27
services:
  web:
    <<: *base
    ports: ["80:80"]
`
	assert.Empty(t, validate(t, "docker-compose.yml", compose, Options{}))

	pipeline := `name: ci
on: push
x-runner: &runner
  runs-on: ubuntu-latest
x-steps: &steps
  steps: build
  runs-on: [self-hosted]
jobs:
  build:
    <<: [*runner, *steps]
  test:
    <<: *steps
    steps:
      - run: make test
`
	got := validate(t, ".github/workflows/ci.yml", pipeline, Options{})
	require.Len(t, got, 1, "%v", got)
	assert.Equal(t, "key 'jobs.build.steps' has type string, expected sequence", got[0].Message)

	mkdocs := `defaults: &site
  site_name: Docs
  nav:
    - index.md
<<: *site
site_name: Handbook
`
	assert.Empty(t, validate(t, "mkdocs.yml", mkdocs, Options{}))
}

func TestLookup_MergePrecedence(t *testing.T) {
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`a: &a {name: first, only_a: 1}
b: &b {name: second, only_b: 2}
m:
  <<: [*a, *b]
  only_b: explicit
`), &doc))
	m, ok := lookup(doc.Content[0], "m")
	require.True(t, ok)

	name, ok := lookup(m, "name")
	require.True(t, ok)
	assert.Equal(t, "first", name.Value)

	onlyB, ok := lookup(m, "only_b")
	require.True(t, ok)
	assert.Equal(t, "explicit", onlyB.Value)

	_, ok = lookup(m, "<<")
	assert.False(t, ok)

	quoted := `svc:
  "<<": {image: x}
`
	var quotedDoc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(quoted), &quotedDoc))
	svc, _ := lookup(quotedDoc.Content[0], "svc")
	_, ok = lookup(svc, "image")
	assert.False(t, ok, "a quoted << is an ordinary key")
}

func TestValidate_ParseIsolation(t *testing.T) {
	cfgs := []Input{
		{Path: "broken.yml", Text: "a: [1, 2\nb: {\n"},
		{Path: "mkdocs.yml", Text: "site_name: Docs\n"},
	}
	report, err := Validate(context.Background(), cfgs, Options{})
	require.NoError(t, err)

	order, byFile := report.ByFile()
	assert.Equal(t, []string{"broken.yml", "mkdocs.yml"}, order)
	require.Len(t, byFile["broken.yml"], 1)
	assert.Equal(t, RuleSyntax, byFile["broken.yml"][0].RuleID)
	assert.Equal(t, []string{RuleMissingKey}, ruleIDs(byFile["mkdocs.yml"]))
	assert.Equal(t, 2, report.FilesTotal())
}

func TestValidate_DeterministicAcrossConcurrency(t *testing.T) {
	samples := []string{"name: docs\n", "a: [\n", "", "services:\n  x: {}\n"}
	names := []string{"mkdocs.yml", "broken.yml", "empty.yml", "compose.yml"}
	var cfgs []Input
	for i := range 32 {
		cfgs = append(cfgs, Input{
			Path: fmt.Sprintf("site-%02d/%s", i, names[i%len(names)]),
			Text: samples[i%len(samples)],
		})
	}

	sequential, err := Validate(context.Background(), cfgs, Options{Concurrency: 1})
	require.NoError(t, err)
	parallel, err := Validate(context.Background(), cfgs, Options{Concurrency: 8})
	require.NoError(t, err)
	require.Equal(t, sequential.Findings(), parallel.Findings())
}

func TestValidate_ContractViolations(t *testing.T) {
	var nilCtx context.Context
	_, err := Validate(nilCtx, nil, Options{})
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryValidation))

	_, err = Validate(context.Background(), []Input{{Path: ""}}, Options{})
	require.Error(t, err)
}
