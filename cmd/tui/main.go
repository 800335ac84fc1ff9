// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package tui

import (
	"context"
	"fmt"
	"os"

	"cmdl/internal/config"
	"cmdl/internal/logger"
	"cmdl/internal/runner"
	"cmdl/internal/ssh"
	"cmdl/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// RunTUI initializes and runs the Bubble Tea picker.
func RunTUI() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.InitLogger(true, cfg.LogLevel)

	sshManager := ssh.NewManager()
	defer sshManager.CloseAll()

	r, err := runner.New(cfg, sshManager, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing command runner: %v\n", err)
		os.Exit(1)
	}

	factory := func(ctx context.Context, line string) tea.ExecCommand {
		return r.Command(ctx, line)
	}
	m := ui.InitialModel(context.Background(), cfg, cfg.Params(), factory)
	p := tea.NewProgram(&m)
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}
