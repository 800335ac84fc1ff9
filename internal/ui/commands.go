// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"context"

	"cmdl/internal/kind"
	"cmdl/internal/logger"
	"cmdl/internal/source"

	tea "github.com/charmbracelet/bubbletea"
)

// --- Bubble Tea Commands ---

func loadItemsCmd(ctx context.Context, src *source.Source) tea.Cmd {
	return func() tea.Msg {
		items, err := src.Gather(ctx)
		if err != nil {
			logger.Error("failed to gather items", "error", err)
		}
		return itemsLoadedMsg{items: items, err: err}
	}
}

// runActionCmd runs a kind action off the UI loop. The action may call back
// into the bridge, which is why it must not run inside Update.
func runActionCmd(ctx context.Context, k *kind.Kind, name string, items []source.Item) tea.Cmd {
	return func() tea.Msg {
		flags, err := k.Do(ctx, name, items)
		if err != nil {
			logger.Error("action failed", "action", name, "error", err)
		}
		return actionFinishedMsg{action: name, count: len(items), flags: flags, err: err}
	}
}

func execCmd(req execRequestMsg) tea.Cmd {
	return tea.Exec(req.command, func(err error) tea.Msg {
		return execFinishedMsg{err: err, reply: req.reply}
	})
}
