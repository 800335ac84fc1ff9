// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles the cmdl configuration file: where the data file
// lives, how items are highlighted, which shell runs commands and which
// remote hosts commands may be sent to.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cmdl/internal/source"

	"gopkg.in/yaml.v3"
)

// SSHHost is a remote host that registered commands can be executed on.
type SSHHost struct {
	// Name is the unique identifier for this host configuration
	Name string `yaml:"name"`

	// Hostname is the server address (IP or domain)
	Hostname string `yaml:"hostname"`

	// User is the SSH username for authentication
	User string `yaml:"user"`

	// Port is the SSH port number (optional, defaults to standard SSH port)
	Port int `yaml:"port,omitempty"`

	// KeyPath is the path to the SSH private key file
	KeyPath string `yaml:"key_path,omitempty"`

	// Password is an optional authentication method (plaintext, discouraged)
	Password string `yaml:"password,omitempty"`

	// Disabled hosts are never used for execution
	Disabled bool `yaml:"disabled,omitempty"`
}

// Config represents the top-level application configuration.
type Config struct {
	// DataDir overrides the directory holding cmdl.json
	DataDir string `yaml:"data_dir,omitempty"`

	// Shell runs registered commands with "-c"
	Shell string `yaml:"shell,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level,omitempty"`

	// Highlights name the highlight group per column; "" disables one
	Highlights source.HighlightParams `yaml:"highlights"`

	// DefaultHost, when set, executes commands on that remote host
	DefaultHost string `yaml:"default_host,omitempty"`

	// Hosts is a list of remote SSH host configurations
	Hosts []SSHHost `yaml:"hosts,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Highlights: source.DefaultParams().Highlights,
	}
}

// DefaultConfigPath returns $CMDL_CONFIG or the config.yaml under the user
// config directory.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv("CMDL_CONFIG"); p != "" {
		return p, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "cmdl", "config.yaml"), nil
}

// LoadConfig reads the config file at the default path.
func LoadConfig() (Config, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the config file at configPath. A missing file yields
// Default(); keys absent from the file keep their default values.
func LoadFrom(configPath string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to the default path.
func SaveConfig(cfg Config) error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath, creating its directory.
func SaveTo(configPath string, cfg Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil { // rwxr-x---
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	if err := os.WriteFile(configPath, data, 0640); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}
	return nil
}

// Params returns the source parameters described by the config.
func (c Config) Params() source.Params {
	return source.Params{Highlights: c.Highlights}
}

// ShellPath returns the configured shell, then $SHELL, then "sh".
func (c Config) ShellPath() string {
	if c.Shell != "" {
		return c.Shell
	}
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "sh"
}

// DataDirectory implements host.DirectoryResolver. It returns data_dir when
// configured, else $XDG_DATA_HOME/cmdl, else ~/.local/share/cmdl.
func (c Config) DataDirectory(context.Context) (string, error) {
	if c.DataDir != "" {
		return ResolvePath(c.DataDir)
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cmdl"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "cmdl"), nil
}

// ResolvePath expands a leading "~/" to the user's home directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
