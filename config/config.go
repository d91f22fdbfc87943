// Package config loads claude-export settings from a YAML file. Every field
// has a default, and command-line flags override what the file sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Redact selects the redaction rule sets.
type Redact struct {
	Secrets   bool     `yaml:"secrets"`
	PII       bool     `yaml:"pii"`
	Allowlist []string `yaml:"allowlist,omitempty"`
}

// Viewer configures the static HTML viewer.
type Viewer struct {
	Template string `yaml:"template,omitempty"`
	Version  string `yaml:"version,omitempty"`
}

// Watch configures the live sync driver.
type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Config holds all configuration options.
type Config struct {
	ProjectsDir  string `yaml:"projects_dir,omitempty"`
	DialogFolder string `yaml:"dialog_folder"`
	Timezone     string `yaml:"timezone,omitempty"`
	Redact       Redact `yaml:"redact"`
	Viewer       Viewer `yaml:"viewer"`
	Watch        Watch  `yaml:"watch"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DialogFolder: "dialog",
		Redact:       Redact{Secrets: true, PII: true},
		Viewer:       Viewer{Version: "dev"},
		Watch:        Watch{Debounce: 2 * time.Second},
	}
}

// Path returns the config file path.
func Path() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "claude-export", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "claude-export", "config.yaml")
}

// Load reads the config file at path, or at Path() when path is empty, over
// the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.DialogFolder == "" {
		cfg.DialogFolder = "dialog"
	}
	return cfg, nil
}

// Location resolves Timezone. An empty value means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
