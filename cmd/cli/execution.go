// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cmdl/internal/runner"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// noExecutor backs commands that never execute anything.
type noExecutor struct{}

func (noExecutor) Execute(context.Context, string) error {
	return errors.New("execution is not available for this command")
}

func runnerFor(hostName string) (*runner.Runner, error) {
	return runner.New(cfg, sshManager, hostName)
}

// newRunner builds the runner for hostName and, for remote hosts, connects
// up front behind a spinner so the first command does not stall silently.
func newRunner(cmd *cobra.Command, hostName string) (*runner.Runner, error) {
	r, err := runnerFor(hostName)
	if err != nil {
		return nil, err
	}
	r.Stdin = cmd.InOrStdin()
	r.Stdout = cmd.OutOrStdout()
	r.Stderr = cmd.ErrOrStderr()

	if r.Target.IsRemote() {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Color("cyan")
		s.Suffix = fmt.Sprintf(" Connecting to %s...", identifierColor.Sprint(r.Target.Name()))
		s.Start()
		err := r.Connect()
		s.Stop()
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

var execCmd = &cobra.Command{
	Use:               "exec <label>...",
	Aliases:           []string{"run"},
	Short:             "Execute the commands with the given labels",
	Long:              `Executes every command registered under each label, in argument order. Stops at the first failure.`,
	Example:           "  cmdl exec build\n  cmdl exec build test --on buildbox",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: labelCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := gatherItems(cmd.Context())
		if err != nil {
			return err
		}
		matched, err := itemsByLabel(items, args)
		if err != nil {
			return err
		}

		hostName, _ := cmd.Flags().GetString("on")
		r, err := newRunner(cmd, hostName)
		if err != nil {
			return err
		}

		prompter := newTerminalPrompter(cmd)
		_, err = newKind(r, prompter).Do(cmd.Context(), "execute", matched)
		return err
	},
}

func init() {
	execCmd.Flags().String("on", "", "run on this SSH host instead of the configured default ('local' forces local)")
	_ = execCmd.RegisterFlagCompletionFunc("on", hostCompletionFunc)
}
