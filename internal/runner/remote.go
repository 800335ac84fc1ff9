// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package runner

import (
	"errors"
	"fmt"
	"os"

	"cmdl/internal/logger"
	"cmdl/internal/util"

	"github.com/mattn/go-isatty"
	gossh "golang.org/x/crypto/ssh"
)

// RemoteLine wraps command for the remote login shell. Going through "sh -c"
// gives the same POSIX semantics whatever the user's remote shell is.
func RemoteLine(command string) string {
	return "sh -c " + util.QuoteArgForShell(command)
}

func (c *Command) runRemote() error {
	target := c.runner.Target
	desc := fmt.Sprintf("command %q on %s", c.line, target.Name())

	client, err := c.runner.manager.GetClient(*target.Host)
	if err != nil {
		return fmt.Errorf("failed to get ssh client for %s: %w", desc, err)
	}

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create ssh session for %s: %w", desc, err)
	}
	defer session.Close()

	session.Stdin = c.stdin
	session.Stdout = c.stdout
	session.Stderr = c.stderr

	// Interactive commands need a pty; only ask for one when we are attached
	// to a terminal ourselves.
	if f, ok := c.stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		modes := gossh.TerminalModes{
			gossh.ECHO:          1,
			gossh.TTY_OP_ISPEED: 14400,
			gossh.TTY_OP_OSPEED: 14400,
		}
		if err := session.RequestPty("xterm-256color", 40, 80, modes); err != nil {
			logger.Warn("pty request failed, continuing without", "host", target.Name(), "error", err)
		}
	}

	if err := session.Start(RemoteLine(c.line)); err != nil {
		return fmt.Errorf("failed to start remote %s: %w", desc, err)
	}

	done := make(chan error, 1)
	go func() { done <- session.Wait() }()

	select {
	case <-c.ctx.Done():
		_ = session.Signal(gossh.SIGINT)
		_ = session.Close()
		<-done
		return fmt.Errorf("%s interrupted: %w", desc, c.ctx.Err())
	case err := <-done:
		if err == nil {
			return nil
		}
		var exitErr *gossh.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with status %d: %w", desc, exitErr.ExitStatus(), err)
		}
		return fmt.Errorf("%s failed: %w", desc, err)
	}
}
