package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

const (
	// DirName is the name of the devbox directory under the XDG base dirs.
	DirName = "devbox"
	// FileName is the name of the main config file.
	FileName = "config.yaml"

	// EnvConfigDir overrides the config directory.
	EnvConfigDir = "DEVBOX_CONFIG_DIR"
	// EnvStateDir overrides the state directory holding history and logs.
	EnvStateDir = "DEVBOX_STATE_DIR"
)

// Dir returns the config directory, $XDG_CONFIG_HOME/devbox by default.
func Dir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return system.ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, DirName)
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), FileName)
}

// StateDir returns the state directory, $XDG_STATE_HOME/devbox by default.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return system.ExpandHome(dir)
	}
	return filepath.Join(xdg.StateHome, DirName)
}
