// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"os"

	"cmdl/internal/config"

	"github.com/spf13/cobra"
)

// hostsCmd is the parent command for SSH host subcommands
var hostsCmd = &cobra.Command{
	Use:     "hosts",
	Aliases: []string{"ssh"},
	Short:   "Manage SSH hosts commands can run on",
	Long: `Add, list, remove, enable or disable the SSH hosts registered commands can be
executed on, or import one from ~/.ssh/config.`,
}

var hostsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured SSH hosts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if len(cfg.Hosts) == 0 {
			fmt.Fprintln(out, "No SSH hosts configured.")
			return
		}

		statusColor.Fprintln(out, "Configured SSH Hosts:")
		for i, h := range cfg.Hosts {
			details := fmt.Sprintf("%s@%s", h.User, h.Hostname)
			if h.Port != 0 && h.Port != 22 {
				details += fmt.Sprintf(":%d", h.Port)
			}
			name := identifierColor.Sprint(h.Name)
			if h.Name == cfg.DefaultHost {
				name += successColor.Sprint(" (default)")
			}
			fmt.Fprintf(out, "%d: %s (%s)\n", i+1, name, details)
			if h.KeyPath != "" {
				fmt.Fprintf(out, "   Key Path:    %s\n", h.KeyPath)
			}
			if h.Password != "" {
				fmt.Fprintf(out, "   Password:    %s\n", errorColor.Sprint("[set, stored insecurely]"))
			}
			if h.Disabled {
				fmt.Fprintf(out, "   Status:      %s\n", errorColor.Sprint("Disabled"))
			}
		}
	},
}

var hostsAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add an SSH host",
	Example: "  cmdl config hosts add build --hostname build.example.com --user deploy --key ~/.ssh/id_ed25519",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h := config.SSHHost{Name: args[0]}
		h.Hostname, _ = cmd.Flags().GetString("hostname")
		h.User, _ = cmd.Flags().GetString("user")
		h.Port, _ = cmd.Flags().GetInt("port")
		h.KeyPath, _ = cmd.Flags().GetString("key")
		h.Password, _ = cmd.Flags().GetString("password")
		if h.Port == 22 {
			h.Port = 0
		}
		return addHost(cmd, h)
	},
}

var hostsImportCmd = &cobra.Command{
	Use:   "import <alias>",
	Short: "Add an SSH host from an ~/.ssh/config entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sshConfigPath, err := config.DefaultSSHConfigPath()
		if err != nil {
			return err
		}
		f, err := os.Open(sshConfigPath)
		if err != nil {
			return fmt.Errorf("failed to open ssh config file %s: %w", sshConfigPath, err)
		}
		defer f.Close()

		h, err := config.LookupSSHAlias(f, args[0])
		if err != nil {
			return err
		}
		return addHost(cmd, h)
	},
}

var hostsRemoveCmd = &cobra.Command{
	Use:               "remove <name>",
	Aliases:           []string{"rm"},
	Short:             "Remove an SSH host",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: hostCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := hostIndex(args[0])
		if idx < 0 {
			return fmt.Errorf("host '%s' not found in configuration", args[0])
		}
		cfg.Hosts = append(cfg.Hosts[:idx], cfg.Hosts[idx+1:]...)
		if cfg.DefaultHost == args[0] {
			cfg.DefaultHost = ""
		}
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "Removed host %s.\n", args[0])
		return nil
	},
}

var hostsToggleCmd = &cobra.Command{
	Use:               "toggle <name>",
	Short:             "Enable or disable an SSH host",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: hostCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := hostIndex(args[0])
		if idx < 0 {
			return fmt.Errorf("host '%s' not found in configuration", args[0])
		}
		cfg.Hosts[idx].Disabled = !cfg.Hosts[idx].Disabled
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		state := "enabled"
		if cfg.Hosts[idx].Disabled {
			state = "disabled"
		}
		successColor.Fprintf(cmd.OutOrStdout(), "Host %s %s.\n", args[0], state)
		return nil
	},
}

func hostIndex(name string) int {
	for i, h := range cfg.Hosts {
		if h.Name == name {
			return i
		}
	}
	return -1
}

func addHost(cmd *cobra.Command, h config.SSHHost) error {
	if h.Name == "" || h.Name == "local" {
		return fmt.Errorf("invalid host name '%s'", h.Name)
	}
	if h.Hostname == "" || h.User == "" {
		return fmt.Errorf("host '%s' needs a hostname and a user", h.Name)
	}
	if hostIndex(h.Name) >= 0 {
		return fmt.Errorf("SSH host with name '%s' already exists", h.Name)
	}
	cfg.Hosts = append(cfg.Hosts, h)
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	successColor.Fprintf(cmd.OutOrStdout(), "Added host %s (%s@%s).\n", h.Name, h.User, h.Hostname)
	return nil
}

func init() {
	hostsAddCmd.Flags().String("hostname", "", "server address")
	hostsAddCmd.Flags().String("user", "", "SSH user")
	hostsAddCmd.Flags().Int("port", 0, "SSH port (default 22)")
	hostsAddCmd.Flags().String("key", "", "path to the private key")
	hostsAddCmd.Flags().String("password", "", "password (stored in plain text)")

	hostsCmd.AddCommand(hostsListCmd)
	hostsCmd.AddCommand(hostsAddCmd)
	hostsCmd.AddCommand(hostsImportCmd)
	hostsCmd.AddCommand(hostsRemoveCmd)
	hostsCmd.AddCommand(hostsToggleCmd)
}
