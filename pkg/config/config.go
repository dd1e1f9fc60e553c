// Package config provides user configuration for devbox.
// Configuration is stored at $XDG_CONFIG_HOME/devbox/config.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

// Version is the current config schema version.
const Version = "1"

// DefaultHistoryLimit is the number of runs kept when history_limit is unset.
const DefaultHistoryLimit = 50

// ErrNotFound is returned when the config file doesn't exist.
var ErrNotFound = errors.New("config file not found: run 'devbox init' to create one")

// Config represents the devbox configuration.
type Config struct {
	Version      string   `yaml:"version"`
	Catalog      string   `yaml:"catalog,omitempty"`       // Manifest path, empty for the built-in catalog
	AutoApprove  bool     `yaml:"auto_approve"`            // Same as --yes
	RCFile       string   `yaml:"rc_file,omitempty"`       // Default: ~/.zshrc or ~/.bashrc from $SHELL
	History      bool     `yaml:"history"`                 // Record completed runs
	HistoryLimit int      `yaml:"history_limit,omitempty"` // Runs kept, oldest evicted first
	Disabled     []string `yaml:"disabled,omitempty"`      // Catalog items never installed
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version:      Version,
		History:      true,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// Load loads the config from Path(). Returns ErrNotFound if it doesn't exist.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile loads the config from path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Version == "" {
		cfg.Version = Version
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	cfg.Catalog = system.ExpandHome(cfg.Catalog)
	cfg.RCFile = system.ExpandHome(cfg.RCFile)

	return cfg, nil
}

// LoadOrDefault loads the config if it exists, or returns defaults.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to Path() atomically.
func (c *Config) Save() error {
	return c.SaveFile(Path())
}

// SaveFile writes the config to path atomically.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Shell returns the shell whose rc file receives shell integration, and the
// path of that rc file.
func (c *Config) Shell() (string, string) {
	if c.RCFile != "" {
		return shellFor(c.RCFile), c.RCFile
	}
	shell := "bash"
	if filepath.Base(os.Getenv("SHELL")) == "zsh" {
		shell = "zsh"
	}
	return shell, system.ExpandHome("~/." + shell + "rc")
}

func shellFor(rcPath string) string {
	if strings.Contains(filepath.Base(rcPath), "zsh") {
		return "zsh"
	}
	return "bash"
}

// IsDisabled reports whether the item is disabled.
func (c *Config) IsDisabled(name string) bool {
	for _, d := range c.Disabled {
		if d == name {
			return true
		}
	}
	return false
}
