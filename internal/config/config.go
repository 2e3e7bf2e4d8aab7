// Package config loads the optional cguard YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corpeningc/cguard/internal/hooks"
)

// FileName is looked up in the repository root when no path is given.
const FileName = ".cguard.yaml"

const (
	DefaultConcurrency = hooks.DefaultConcurrency
	DefaultFileTimeout = hooks.DefaultFileTimeout
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

type Config struct {
	Concurrency int           `yaml:"concurrency"`
	FileTimeout time.Duration `yaml:"file_timeout"`
	Log         LogConfig     `yaml:"log"`
	Hooks       HooksConfig   `yaml:"hooks"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

type HooksConfig struct {
	// Disabled lists hook names that should not run.
	Disabled []string `yaml:"disabled"`
}

func Default() Config {
	return Config{
		Concurrency: DefaultConcurrency,
		FileTimeout: DefaultFileTimeout,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads FileName from dir, or returns the defaults when dir
// has no config file.
func LoadDefault(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// HookEnabled reports whether name is not listed as disabled.
func (c Config) HookEnabled(name string) bool {
	for _, disabled := range c.Hooks.Disabled {
		if disabled == name {
			return false
		}
	}
	return true
}

func validate(cfg Config) error {
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if cfg.FileTimeout < 0 {
		return fmt.Errorf("file_timeout must not be negative, got %s", cfg.FileTimeout)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}

	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("log.format must be %q or %q, got %q", "text", "json", cfg.Log.Format)
	}

	return nil
}
