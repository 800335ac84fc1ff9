// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui is the interactive picker for registered commands. It lists the
// cmdl source items and runs kind actions on the selection, answering their
// prompts in place.
package ui

import (
	"context"

	"cmdl/internal/host"
	"cmdl/internal/kind"
	"cmdl/internal/source"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type model struct {
	ctx    context.Context
	cancel context.CancelFunc

	source *source.Source
	kind   *kind.Kind
	bridge *Bridge
	keymap KeyMap

	currentState state
	items        []source.Item
	visible      []int // indexes into items that pass the filter
	cursor       int   // index into visible
	selected     map[int]struct{}

	filter     textinput.Model
	input      textinput.Model
	inputReq   *inputRequestMsg
	confirmReq *confirmRequestMsg

	runningAction string
	status        string
	lastError     error

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// InitialModel builds the picker. resolver locates the data file and factory
// prepares commands for execution.
func InitialModel(ctx context.Context, resolver host.DirectoryResolver, params source.Params, factory CommandFactory) model {
	ctx, cancel := context.WithCancel(ctx)
	bridge := NewBridge(factory)
	return model{
		ctx:          ctx,
		cancel:       cancel,
		source:       source.New(resolver, params),
		kind:         kind.New(host.Compose(resolver, bridge, bridge)),
		bridge:       bridge,
		keymap:       DefaultKeyMap,
		currentState: stateLoading,
		selected:     make(map[int]struct{}),
		filter:       newFilterInput(),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(loadItemsCmd(m.ctx, m.source), m.bridge.waitForRequest())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmds = append(cmds, handleWindowSizeMsg(m, msg))

	case tea.KeyMsg:
		switch m.currentState {
		case stateLoading, stateRunning:
			if msg.Type == tea.KeyCtrlC {
				cmds = append(cmds, m.quit())
			}
		case stateList:
			cmds = append(cmds, m.handleListKeys(msg)...)
		case stateFilter:
			cmds = append(cmds, m.handleFilterKeys(msg)...)
		case statePrompt:
			cmds = append(cmds, m.handlePromptKeys(msg)...)
		case stateConfirm:
			cmds = append(cmds, m.handleConfirmKeys(msg)...)
		}

	case itemsLoadedMsg:
		cmds = append(cmds, handleItemsLoadedMsg(m, msg))
	case actionFinishedMsg:
		cmds = append(cmds, handleActionFinishedMsg(m, msg))
	case inputRequestMsg:
		cmds = append(cmds, handleInputRequestMsg(m, msg))
	case confirmRequestMsg:
		cmds = append(cmds, handleConfirmRequestMsg(m, msg))
	case execRequestMsg:
		cmds = append(cmds, handleExecRequestMsg(m, msg))
	case execFinishedMsg:
		cmds = append(cmds, handleExecFinishedMsg(m, msg))

	default:
		if m.currentState == statePrompt {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.syncViewport()
	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.render()
}

// quit cancels the model context, which releases any action still waiting
// on a prompt, and exits.
func (m *model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

// targets returns the items an action applies to: the selection in list
// order, or the item under the cursor when nothing is selected.
func (m *model) targets() []source.Item {
	var items []source.Item
	if len(m.selected) > 0 {
		for i, item := range m.items {
			if _, ok := m.selected[i]; ok {
				items = append(items, item)
			}
		}
		return items
	}
	if m.cursor >= 0 && m.cursor < len(m.visible) {
		items = append(items, m.items[m.visible[m.cursor]])
	}
	return items
}
