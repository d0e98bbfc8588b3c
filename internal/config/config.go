// Package config loads chunkcache settings from a YAML file, with sane
// defaults when no file exists. Settings cover where documents live, how
// chapters are discovered, and how baking behaves.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked for in the book directory.
const DefaultFileName = "chunkcache.yaml"

// EnvBaseDir overrides the configured book directory when set.
const EnvBaseDir = "CHUNKCACHE_BOOK_DIR"

// Config holds all chunkcache configuration.
type Config struct {
	// Book settings
	Book BookConfig `yaml:"book"`

	// Bake settings
	Bake BakeConfig `yaml:"bake"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BookConfig describes how documents are laid out and located.
type BookConfig struct {
	BaseDir   string `yaml:"base_dir"`   // where chapters live
	SharedDir string `yaml:"shared_dir"` // sibling dir for cross-chapter docs
}

// BakeConfig controls document execution.
type BakeConfig struct {
	Timeout string `yaml:"timeout"` // per-document execution budget
}

// LoggingConfig controls the zap logger built by the CLI.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Book: BookConfig{
			BaseDir:   ".",
			SharedDir: "shared",
		},
		Bake: BakeConfig{
			Timeout: "5m",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, layering it over the defaults. A
// missing file is not an error; the defaults are returned. The environment
// override for the book directory is applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if dir := os.Getenv(EnvBaseDir); dir != "" {
		cfg.Book.BaseDir = dir
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BakeTimeout parses the configured bake timeout.
func (c *Config) BakeTimeout() time.Duration {
	d, err := time.ParseDuration(c.Bake.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

func (c *Config) validate() error {
	if c.Book.BaseDir == "" {
		return fmt.Errorf("book.base_dir must not be empty")
	}
	if c.Book.SharedDir == "" {
		return fmt.Errorf("book.shared_dir must not be empty")
	}
	if _, err := time.ParseDuration(c.Bake.Timeout); err != nil {
		return fmt.Errorf("bake.timeout: %w", err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
