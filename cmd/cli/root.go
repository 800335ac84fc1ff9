// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package cli implements the cmdl command line. Every entry command goes
// through the same source and kind the TUI uses.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"cmdl/internal/config"
	"cmdl/internal/host"
	"cmdl/internal/kind"
	"cmdl/internal/logger"
	"cmdl/internal/source"
	"cmdl/internal/ssh"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg        config.Config
	sshManager *ssh.Manager

	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "cmdl",
	Short: "Register and run command lines",
	Long: `cmdl keeps a list of labelled command lines in a JSON file and runs them
on request, locally or on a configured SSH host.

Run without arguments to open the interactive picker.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		logger.InitLogger(false, cfg.LogLevel)
		sshManager = ssh.NewManager()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if sshManager != nil {
			sshManager.CloseAll()
		}
		return nil
	},
}

// RunCLI executes the root command and exits non-zero on failure.
func RunCLI() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// newKind wires a kind to the loaded config, the given executor and the
// given prompter.
func newKind(e host.Executor, p host.Prompter) *kind.Kind {
	return kind.New(host.Compose(cfg, e, p))
}

func gatherItems(ctx context.Context) ([]source.Item, error) {
	return source.New(cfg, cfg.Params()).Gather(ctx)
}

// reportFlags tells the user what an entry action did.
func reportFlags(w io.Writer, action string, flags kind.ActionFlags) {
	switch flags {
	case kind.RefreshItems:
		successColor.Fprintf(w, "%s: done\n", action)
	case kind.Persist:
		fmt.Fprintf(w, "%s: nothing changed\n", action)
	}
}
