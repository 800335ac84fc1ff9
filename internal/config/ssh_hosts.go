// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kevinburke/ssh_config"
)

// DefaultSSHConfigPath returns ~/.ssh/config.
func DefaultSSHConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh", "config"), nil
}

// FindHost returns the host called name. Hosts listed in the config file win;
// otherwise name is looked up as an alias in ~/.ssh/config.
func (c Config) FindHost(name string) (SSHHost, error) {
	for _, h := range c.Hosts {
		if h.Name != name {
			continue
		}
		if h.Disabled {
			return SSHHost{}, fmt.Errorf("host '%s' is disabled", name)
		}
		return h, nil
	}

	sshConfigPath, err := DefaultSSHConfigPath()
	if err != nil {
		return SSHHost{}, err
	}
	f, err := os.Open(sshConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return SSHHost{}, fmt.Errorf("host '%s' not found in configuration", name)
		}
		return SSHHost{}, fmt.Errorf("failed to open ssh config file %s: %w", sshConfigPath, err)
	}
	defer f.Close()

	return LookupSSHAlias(f, name)
}

// LookupSSHAlias builds an SSHHost from the ssh_config entry for alias.
// HostName defaults to the alias itself; a User is required.
func LookupSSHAlias(r io.Reader, alias string) (SSHHost, error) {
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return SSHHost{}, fmt.Errorf("failed to parse ssh config: %w", err)
	}

	known := false
	for _, h := range cfg.Hosts {
		for _, p := range h.Patterns {
			if p.String() == alias {
				known = true
			}
		}
	}
	if !known {
		return SSHHost{}, fmt.Errorf("host '%s' not found in configuration or ssh config", alias)
	}

	hostname, _ := cfg.Get(alias, "HostName")
	user, _ := cfg.Get(alias, "User")
	portStr, _ := cfg.Get(alias, "Port")
	keyPath, _ := cfg.Get(alias, "IdentityFile")

	if hostname == "" {
		hostname = alias
	}
	if user == "" {
		return SSHHost{}, fmt.Errorf("ssh config entry '%s' has no User", alias)
	}

	port := 0
	if portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return SSHHost{}, fmt.Errorf("ssh config entry '%s' has invalid Port %q", alias, portStr)
		}
		if p != 22 {
			port = p
		}
	}

	return SSHHost{
		Name:     alias,
		Hostname: hostname,
		User:     user,
		Port:     port,
		KeyPath:  keyPath,
	}, nil
}
