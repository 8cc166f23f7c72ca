// Package config loads the .modelcard.toml project file read by the CLI.
// Command-line flags override file values; the file overrides defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"
)

// FileName is the project configuration file looked up in the working
// directory.
const FileName = ".modelcard.toml"

// Config holds CLI defaults.
type Config struct {
	// OutputDir is where scaffolded assets and exported cards are written.
	OutputDir   string  `toml:"output_dir"`
	Format      string  `toml:"format"`
	Theme       string  `toml:"theme"`
	Variant     string  `toml:"variant"`
	TemplateDir string  `toml:"template_dir"`
	StorePath   string  `toml:"store_path"`
	LogLevel    string  `toml:"log_level"`
	Extract     Extract `toml:"extract"`
}

// Extract configures the extractors run by "modelcard scaffold".
type Extract struct {
	ModelPath   string   `toml:"model_path"`
	EvalMetrics string   `toml:"eval_metrics"`
	Include     []string `toml:"include"`
	Exclude     []string `toml:"exclude"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir: "model_card_assets",
		Format:    "html",
		StorePath: filepath.Join(".modelcard", "cards.db"),
		LogLevel:  "warn",
	}
}

// Load reads path over the defaults. An empty path looks for FileName in the
// working directory and silently uses defaults when it does not exist; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if err := LoadFile(cfg, path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes path into cfg and validates the result. Keys the file sets
// replace the values already in cfg; unknown keys are an error.
func LoadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Save writes cfg to path as TOML.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# modelcard project configuration")
	fmt.Fprintln(file, "")
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return nil
}

// FieldError names an invalid configuration value.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid value in a Config.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return "config: " + strings.Join(msgs, "; ")
}

var formats = map[string]bool{"html": true, "markdown": true, "md": true}

// Validate reports every invalid value.
func (c *Config) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, FieldError{Field: "output_dir", Message: "must not be empty"})
	}
	if !formats[strings.ToLower(c.Format)] {
		errs = append(errs, FieldError{Field: "format", Message: fmt.Sprintf("unknown format %q, must be one of: html, markdown, md", c.Format)})
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		errs = append(errs, FieldError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
