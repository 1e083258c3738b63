// Package config loads docsflow.yaml, the project-level settings for the
// documentation linter and the configuration validator.
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsflow/internal/configcheck"
	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

// CurrentVersion is the configuration format version written by Init.
const CurrentVersion = "1"

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docsflow.yaml"

// Config represents a docsflow.yaml file.
type Config struct {
	Version     string          `yaml:"version"`
	Lint        LintConfig      `yaml:"lint"`
	Validate    ValidateSection `yaml:"validate"`
	Output      OutputConfig    `yaml:"output"`
	Watch       WatchConfig     `yaml:"watch"`
	Exclude     []string        `yaml:"exclude,omitempty"`     // Glob patterns of paths never checked
	Concurrency int             `yaml:"concurrency,omitempty"` // Files checked in parallel (0 = GOMAXPROCS)
}

// LintConfig configures the Markdown linter.
type LintConfig struct {
	Paths            []string `yaml:"paths"`                       // Roots searched for Markdown files
	RequiredSections []string `yaml:"required_sections,omitempty"` // Section titles every document needs
	LinkDenyList     []string `yaml:"link_deny_list,omitempty"`    // Replaces the built-in low-information link texts
	DisabledRules    []string `yaml:"disabled_rules,omitempty"`    // Rule IDs to skip
}

// ValidateSection configures the YAML configuration validator.
type ValidateSection struct {
	Paths []string                  `yaml:"paths"`           // Roots searched for YAML files
	Kinds []configcheck.KindPattern `yaml:"kinds,omitempty"` // Extra path patterns, tried before the built-in ones
	// DefaultKinds appends the built-in patterns after Kinds (nil means true).
	DefaultKinds *bool `yaml:"default_kinds,omitempty"`
	// CheckNav cross-checks mkdocs navigation against discovered documents (nil means true).
	CheckNav *bool `yaml:"check_nav,omitempty"`
}

// OutputConfig configures reporting.
type OutputConfig struct {
	Format        string `yaml:"format"`                     // text|json
	Color         string `yaml:"color"`                      // auto|always|never
	FailOnWarning bool   `yaml:"fail_on_warning"`            // Warnings fail the run
	MinSeverity   string `yaml:"min_severity,omitempty"`     // Hide findings below this severity
	MetricsFile   string `yaml:"metrics_textfile,omitempty"` // Prometheus textfile written after each run
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`           // Quiet period before a re-run
	Interval time.Duration `yaml:"interval,omitempty"` // Periodic full re-run (0 disables)
}

// Load reads, defaults and validates a configuration file. Environment
// variables referenced as ${VAR} are expanded first; .env files in the
// working directory are loaded beforehand without overriding the environment.
func Load(configPath string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration file").
			WithContext("path", configPath).
			Build()
	}
	return cfg, nil
}

// LoadOrDefault loads configPath, falling back to Default when the file does
// not exist and required is false.
func LoadOrDefault(configPath string, required bool) (*Config, error) {
	cfg, err := Load(configPath)
	if err != nil && !required && errors.HasCategory(err, errors.CategoryNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes configuration bytes, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
