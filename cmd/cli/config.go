// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"strings"

	"cmdl/internal/config"
	"cmdl/internal/host"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd is the parent command for all configuration-related subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cmdl configuration",
	Long: `Provides subcommands to inspect and change the cmdl configuration file:
the data directory, the shell commands run in, item highlights and SSH hosts.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		dataPath, err := host.ResolveDataPath(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		shown := cfg
		shown.Hosts = append([]config.SSHHost(nil), cfg.Hosts...)
		for i := range shown.Hosts {
			if shown.Hosts[i].Password != "" {
				shown.Hosts[i].Password = "********"
			}
		}
		data, err := yaml.Marshal(shown)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", dimColor.Sprint("# config file:"), configPath)
		fmt.Fprintf(out, "%s %s\n", dimColor.Sprint("# data file:  "), dataPath)
		fmt.Fprintf(out, "%s %s\n", dimColor.Sprint("# shell:      "), cfg.ShellPath())
		fmt.Fprint(out, string(data))
		return nil
	},
}

var configSetDataDirCmd = &cobra.Command{
	Use:   "set-data-dir <path>",
	Short: "Set the directory holding cmdl.json",
	Long: `Sets the directory where the data file is kept. Use an absolute path or a
path starting with '~/'. An empty string restores the default
($XDG_DATA_HOME/cmdl, else ~/.local/share/cmdl).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if dir != "" && !strings.HasPrefix(dir, "/") && !strings.HasPrefix(dir, "~/") {
			return fmt.Errorf("path must be absolute or start with '~/'")
		}
		return updateConfig(cmd, func(c *config.Config) string {
			c.DataDir = dir
			if dir == "" {
				return "Data directory reset to default."
			}
			return fmt.Sprintf("Data directory set to: %s", dir)
		})
	},
}

var configSetShellCmd = &cobra.Command{
	Use:   "set-shell <shell>",
	Short: "Set the shell used to run commands",
	Long:  `Sets the shell that runs local commands with "-c". An empty string falls back to $SHELL, then sh.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(cmd, func(c *config.Config) string {
			c.Shell = args[0]
			return fmt.Sprintf("Shell set to: %s", c.ShellPath())
		})
	},
}

var configSetHighlightCmd = &cobra.Command{
	Use:       "set-highlight <command|placeholder> <group>",
	Short:     "Set the highlight group of a column",
	Long:      `Sets the highlight group used for the command column or the placeholder row. An empty group disables that highlight.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"command", "placeholder"},
	RunE: func(cmd *cobra.Command, args []string) error {
		column, group := args[0], args[1]
		return updateConfig(cmd, func(c *config.Config) string {
			switch column {
			case "command":
				c.Highlights.Command = group
			case "placeholder":
				c.Highlights.Placeholder = group
			default:
				return ""
			}
			return fmt.Sprintf("Highlight for %s set to: %q", column, group)
		})
	},
}

var configSetDefaultHostCmd = &cobra.Command{
	Use:               "set-default-host <name>",
	Short:             "Run commands on this SSH host unless told otherwise",
	Long:              `Sets the host commands are executed on. An empty string or 'local' runs them locally.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: hostCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if name == "local" {
			name = ""
		}
		if name != "" {
			if _, err := cfg.FindHost(name); err != nil {
				return err
			}
		}
		return updateConfig(cmd, func(c *config.Config) string {
			c.DefaultHost = name
			if name == "" {
				return "Commands will run locally."
			}
			return fmt.Sprintf("Default host set to: %s", name)
		})
	},
}

// updateConfig applies change to the loaded config and saves it. change
// returns the success message, or "" when the arguments were invalid.
func updateConfig(cmd *cobra.Command, change func(c *config.Config) string) error {
	msg := change(&cfg)
	if msg == "" {
		return fmt.Errorf("invalid arguments: %s", strings.Join(cmd.Flags().Args(), " "))
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	successColor.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetDataDirCmd)
	configCmd.AddCommand(configSetShellCmd)
	configCmd.AddCommand(configSetHighlightCmd)
	configCmd.AddCommand(configSetDefaultHostCmd)
	configCmd.AddCommand(hostsCmd)
}
