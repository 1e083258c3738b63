package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsflow/internal/configcheck"
	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() *Config {
	checkNav := true
	return &Config{
		Version: CurrentVersion,
		Lint: LintConfig{
			Paths:            []string{"docs"},
			RequiredSections: []string{},
			DisabledRules:    []string{},
		},
		Validate: ValidateSection{
			Paths: []string{"."},
			Kinds: []configcheck.KindPattern{
				{Pattern: "site/*.yml", Kind: configcheck.KindMkdocsSite.String()},
			},
			CheckNav: &checkNav,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Watch: WatchConfig{
			Debounce: defaultDebounce,
		},
		Exclude: []string{"**/node_modules/**", "site/**"},
	}
}

// Init writes an example configuration file. An existing file is only
// replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot inspect configuration path").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(exampleDocument(Example()))
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example configuration").Build()
	}
	header := "# docsflow configuration\n# See `docsflow rules` for the lint rule identifiers.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

type exampleWatch struct {
	Debounce string `yaml:"debounce"`
}

// exampleConfig mirrors Config with durations rendered as strings, which is
// the form Parse accepts.
type exampleConfig struct {
	Version  string          `yaml:"version"`
	Lint     LintConfig      `yaml:"lint"`
	Validate ValidateSection `yaml:"validate"`
	Output   OutputConfig    `yaml:"output"`
	Watch    exampleWatch    `yaml:"watch"`
	Exclude  []string        `yaml:"exclude,omitempty"`
}

func exampleDocument(cfg *Config) exampleConfig {
	return exampleConfig{
		Version:  cfg.Version,
		Lint:     cfg.Lint,
		Validate: cfg.Validate,
		Output:   cfg.Output,
		Watch:    exampleWatch{Debounce: cfg.Watch.Debounce.String()},
		Exclude:  cfg.Exclude,
	}
}
