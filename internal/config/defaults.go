package config

import (
	"time"

	"git.home.luguber.info/inful/docsflow/internal/configcheck"
)

const (
	defaultDebounce = 500 * time.Millisecond
	defaultFormat   = "text"
	defaultColor    = "auto"
)

// Default returns the configuration used when no docsflow.yaml exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills unset fields. Explicit values, including empty lists
// written as [], are kept.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Lint.Paths == nil {
		cfg.Lint.Paths = []string{}
	}
	if cfg.Validate.Paths == nil {
		cfg.Validate.Paths = []string{"."}
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = defaultFormat
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = defaultColor
	}
	if cfg.Output.MinSeverity == "" {
		cfg.Output.MinSeverity = "info"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = defaultDebounce
	}
	if cfg.Concurrency < 0 {
		cfg.Concurrency = 0
	}
}

// KindMapping compiles the configured kind patterns, followed by the built-in
// ones unless default_kinds is false.
func (c *Config) KindMapping() (*configcheck.KindMapping, error) {
	patterns := append([]configcheck.KindPattern{}, c.Validate.Kinds...)
	if c.Validate.DefaultKinds == nil || *c.Validate.DefaultKinds {
		patterns = append(patterns, configcheck.DefaultKindPatterns()...)
	}
	return configcheck.NewKindMapping(patterns)
}

// NavCheckEnabled reports whether mkdocs navigation is cross-checked.
func (c *Config) NavCheckEnabled() bool {
	return c.Validate.CheckNav == nil || *c.Validate.CheckNav
}
