package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsflow/internal/configcheck"
	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.False(t, cfg.Output.FailOnWarning)
	assert.Equal(t, []string{"."}, cfg.Validate.Paths)
	assert.Empty(t, cfg.Lint.Paths)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.True(t, cfg.NavCheckEnabled())
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `version: "1"
lint:
  paths: [docs, guides]
  required_sections: [Overview]
  disabled_rules: [bare-path]
validate:
  paths: [.]
  kinds:
    - pattern: "site/*.yml"
      kind: mkdocs-site
  check_nav: false
output:
  format: json
  fail_on_warning: true
watch:
  debounce: 2s
  interval: 1m
concurrency: 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"docs", "guides"}, cfg.Lint.Paths)
	assert.Equal(t, []string{"Overview"}, cfg.Lint.RequiredSections)
	assert.Equal(t, []string{"bare-path"}, cfg.Lint.DisabledRules)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.FailOnWarning)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, time.Minute, cfg.Watch.Interval)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.False(t, cfg.NavCheckEnabled())

	mapping, err := cfg.KindMapping()
	require.NoError(t, err)
	assert.Equal(t, configcheck.KindMkdocsSite, mapping.Resolve("site/config.yml"))
	assert.Equal(t, configcheck.KindCompose, mapping.Resolve("docker-compose.yml"))
}

func TestKindMapping_WithoutDefaults(t *testing.T) {
	off := false
	cfg := Default()
	cfg.Validate.DefaultKinds = &off

	mapping, err := cfg.KindMapping()
	require.NoError(t, err)
	assert.Equal(t, configcheck.KindGeneric, mapping.Resolve("mkdocs.yml"))
}

func TestValidateConfig_ValidateSection(t *testing.T) {
	cfg := Default()
	cfg.Validate = ValidateSection{
		Paths: []string{"config"},
		Kinds: []configcheck.KindPattern{{Pattern: "ci/*.yml", Kind: "pipeline"}},
	}
	require.NoError(t, ValidateConfig(cfg))

	cfg.Validate.Kinds = []configcheck.KindPattern{{Pattern: "ci/*.yml", Kind: "helm"}}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCSFLOW_TEST_FORMAT", "json")
	cfg, err := Load(writeConfig(t, "version: \"1\"\noutput:\n  format: ${DOCSFLOW_TEST_FORMAT}\n"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category errors.ErrorCategory
	}{
		{"unknown key", "version: \"1\"\nlinter: {}\n", errors.CategoryConfig},
		{"bad version", "version: \"9\"\n", errors.CategoryConfig},
		{"bad format", "output:\n  format: xml\n", errors.CategoryConfig},
		{"bad color", "output:\n  color: sometimes\n", errors.CategoryConfig},
		{"bad severity", "output:\n  min_severity: fatal\n", errors.CategoryConfig},
		{"unknown rule", "lint:\n  disabled_rules: [no-such-rule]\n", errors.CategoryConfig},
		{"bad kind", "validate:\n  kinds:\n    - pattern: \"*.yml\"\n      kind: helm\n", errors.CategoryConfig},
		{"bad exclude", "exclude: [\"[oops\"]\n", errors.CategoryConfig},
		{"bad yaml", "lint: [\n", errors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tt.category), "got %v", err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(missing, true)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestParse_EmptyDocumentUsesDefaults(t *testing.T) {
	for _, data := range []string{"", "\n"} {
		cfg, err := Parse([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsflow.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err, "the example configuration must load")
	assert.Equal(t, []string{"docs"}, cfg.Lint.Paths)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	require.NoError(t, Init(path, true))
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("DOCSFLOW_TEST_FROM_DOTENV=yes\n"), 0o600))
	t.Setenv("DOCSFLOW_TEST_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("DOCSFLOW_TEST_FROM_DOTENV"))

	require.NoError(t, LoadEnvFiles())
	assert.Equal(t, "yes", os.Getenv("DOCSFLOW_TEST_FROM_DOTENV"))
}

func TestParse_NormalizesOutputSettings(t *testing.T) {
	cfg, err := Parse([]byte("output:\n  format: JSON\n  color: \" Never \"\n"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "never", cfg.Output.Color)
}
