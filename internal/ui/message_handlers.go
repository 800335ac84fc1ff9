// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"fmt"

	"cmdl/internal/kind"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Message Handlers ---

func handleWindowSizeMsg(m *model, msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height
	if !m.ready {
		m.viewport = viewport.New(m.width, 1)
		m.ready = true
	} else {
		m.viewport.Width = m.width
	}
	return nil
}

func handleItemsLoadedMsg(m *model, msg itemsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.lastError = fmt.Errorf("failed to load commands: %w", msg.err)
	}
	m.items = msg.items
	m.selected = make(map[int]struct{})
	m.applyFilter()
	if m.currentState == stateLoading {
		m.currentState = stateList
	}
	return nil
}

// handleActionFinishedMsg applies the flags returned by an action. With no
// flag the picker closes, as it would after picking an item.
func handleActionFinishedMsg(m *model, msg actionFinishedMsg) tea.Cmd {
	m.currentState = stateList
	m.runningAction = ""
	if msg.err != nil {
		m.lastError = msg.err
		return nil
	}

	switch msg.flags {
	case kind.RefreshItems:
		m.status = fmt.Sprintf("%s: done", msg.action)
		return loadItemsCmd(m.ctx, m.source)
	case kind.Persist:
		return nil
	default:
		return m.quit()
	}
}

func handleInputRequestMsg(m *model, msg inputRequestMsg) tea.Cmd {
	m.inputReq = &msg
	m.input = newPromptInput(msg.prompt, msg.text, m.width)
	m.currentState = statePrompt
	return tea.Batch(textinput.Blink, m.bridge.waitForRequest())
}

func handleConfirmRequestMsg(m *model, msg confirmRequestMsg) tea.Cmd {
	m.confirmReq = &msg
	m.currentState = stateConfirm
	return m.bridge.waitForRequest()
}

func handleExecRequestMsg(m *model, msg execRequestMsg) tea.Cmd {
	m.status = fmt.Sprintf("running: %s", msg.line)
	return tea.Batch(execCmd(msg), m.bridge.waitForRequest())
}

func handleExecFinishedMsg(m *model, msg execFinishedMsg) tea.Cmd {
	msg.reply <- msg.err
	if msg.err == nil {
		m.status = ""
	}
	return nil
}
