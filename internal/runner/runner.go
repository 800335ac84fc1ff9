// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package runner executes registered command lines, either through the local
// shell or on a remote host over SSH.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"cmdl/internal/config"
	"cmdl/internal/logger"
	"cmdl/internal/ssh"
)

// Target is where commands run. A nil Host means the local machine.
type Target struct {
	Host *config.SSHHost
}

// IsRemote reports whether commands are sent over SSH.
func (t Target) IsRemote() bool {
	return t.Host != nil
}

// Name returns "local" or the remote host name.
func (t Target) Name() string {
	if t.Host == nil {
		return "local"
	}
	return t.Host.Name
}

// Runner implements host.Executor. Commands inherit the runner's stdio.
type Runner struct {
	Shell  string
	Target Target

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	manager *ssh.Manager
}

// New builds a Runner from cfg. hostName selects a remote host; when empty the
// config's default host is used, and when that is empty too commands run
// locally. manager may be nil for local runners.
func New(cfg config.Config, manager *ssh.Manager, hostName string) (*Runner, error) {
	r := &Runner{
		Shell:   cfg.ShellPath(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		manager: manager,
	}

	if hostName == "" {
		hostName = cfg.DefaultHost
	}
	if hostName == "" || hostName == "local" {
		return r, nil
	}

	h, err := cfg.FindHost(hostName)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, fmt.Errorf("ssh manager not initialized for host %s", hostName)
	}
	r.Target = Target{Host: &h}
	return r, nil
}

// Connect establishes the SSH connection ahead of the first command. It is a
// no-op for local runners.
func (r *Runner) Connect() error {
	if !r.Target.IsRemote() {
		return nil
	}
	_, err := r.manager.GetClient(*r.Target.Host)
	if err != nil {
		return fmt.Errorf("failed to get ssh client for %s: %w", r.Target.Name(), err)
	}
	return nil
}

// Execute runs command to completion with the runner's stdio.
func (r *Runner) Execute(ctx context.Context, command string) error {
	return r.Command(ctx, command).Run()
}

// Command prepares command without running it. The returned value can have
// its stdio replaced before Run, which lets the TUI hand over the terminal.
func (r *Runner) Command(ctx context.Context, command string) *Command {
	return &Command{
		ctx:    ctx,
		runner: r,
		line:   command,
		stdin:  r.Stdin,
		stdout: r.Stdout,
		stderr: r.Stderr,
	}
}

// Command is a single prepared execution.
type Command struct {
	ctx    context.Context
	runner *Runner
	line   string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *Command) SetStdin(r io.Reader)  { c.stdin = r }
func (c *Command) SetStdout(w io.Writer) { c.stdout = w }
func (c *Command) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the command and waits for it.
func (c *Command) Run() error {
	logger.Info("executing command", "target", c.runner.Target.Name(), "command", c.line)
	if c.runner.Target.IsRemote() {
		return c.runRemote()
	}
	return c.runLocal()
}

func (c *Command) runLocal() error {
	cmd := exec.CommandContext(c.ctx, c.runner.Shell, "-c", c.line)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	desc := fmt.Sprintf("local command %q", c.line)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", desc, err)
	}
	if err := cmd.Wait(); err != nil {
		if ctxErr := c.ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s interrupted: %w", desc, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return fmt.Errorf("%s exited with status %d: %w", desc, exitErr.ExitCode(), err)
		}
		return fmt.Errorf("%s failed: %w", desc, err)
	}
	return nil
}
