package config

import (
	"fmt"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/docsflow/internal/configcheck"
	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
	"git.home.luguber.info/inful/docsflow/internal/foundation/normalization"
	"git.home.luguber.info/inful/docsflow/internal/lint"
)

// ValidateConfig validates a defaulted configuration. The first problem found
// is returned as a config-category ClassifiedError.
func ValidateConfig(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateOutput,
		validateRules,
		validatePatterns,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return errors.ConfigError(fmt.Sprintf("unsupported configuration version %q (expected %q)", cfg.Version, CurrentVersion)).
			WithContext("field", "version").
			Build()
	}
	return nil
}

var (
	formatNormalizer = normalization.NewEnumNormalizer("output format", map[string]string{
		"text": "text",
		"json": "json",
	})
	colorNormalizer = normalization.NewEnumNormalizer("color mode", map[string]string{
		"auto":   "auto",
		"always": "always",
		"never":  "never",
	})
)

// validateOutput checks the output settings and rewrites them in canonical
// lower-case form.
func validateOutput(cfg *Config) error {
	format, err := formatNormalizer.Normalize(cfg.Output.Format)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid output format").
			WithContext("field", "output.format").
			Build()
	}
	cfg.Output.Format = format

	color, err := colorNormalizer.Normalize(cfg.Output.Color)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid color mode").
			WithContext("field", "output.color").
			Build()
	}
	cfg.Output.Color = color

	if _, err := findings.ParseSeverity(cfg.Output.MinSeverity); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid minimum severity").
			WithContext("field", "output.min_severity").
			Build()
	}
	return nil
}

func validateRules(cfg *Config) error {
	known := make(map[string]bool)
	for _, r := range lint.DefaultRules(lint.Options{}) {
		known[r.ID()] = true
	}
	for _, id := range cfg.Lint.DisabledRules {
		if !known[id] {
			return errors.ConfigError(fmt.Sprintf("unknown lint rule %q in disabled_rules", id)).
				WithContext("field", "lint.disabled_rules").
				Build()
		}
	}
	return nil
}

func validatePatterns(cfg *Config) error {
	for _, p := range cfg.Exclude {
		if _, err := glob.Compile(p, '/'); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("invalid exclude pattern %q", p)).
				WithContext("field", "exclude").
				Build()
		}
	}
	for i, k := range cfg.Validate.Kinds {
		if _, err := configcheck.ParseKind(k.Kind); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid kind mapping").
				WithContext("field", fmt.Sprintf("validate.kinds[%d]", i)).
				Build()
		}
	}
	if _, err := cfg.KindMapping(); err != nil {
		return err
	}
	return nil
}
