// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"strings"

	"cmdl/internal/host"
	"cmdl/internal/kind"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Key Handlers ---

func (m *model) handleListKeys(msg tea.KeyMsg) []tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return []tea.Cmd{m.quit()}
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.PgUp):
		m.cursor = max(m.cursor-m.viewport.Height, 0)
	case key.Matches(msg, m.keymap.PgDown):
		m.cursor = max(min(m.cursor+m.viewport.Height, len(m.visible)-1), 0)
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = max(len(m.visible)-1, 0)
	case key.Matches(msg, m.keymap.Select):
		if m.cursor < len(m.visible) {
			idx := m.visible[m.cursor]
			if _, ok := m.selected[idx]; ok {
				delete(m.selected, idx)
			} else if !m.items[idx].Action.IsPlaceholder {
				m.selected[idx] = struct{}{}
			}
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		}
	case key.Matches(msg, m.keymap.Enter):
		return m.startAction(kind.DefaultAction)
	case key.Matches(msg, m.keymap.Add):
		return m.startAction("add")
	case key.Matches(msg, m.keymap.Edit):
		return m.startAction("edit")
	case key.Matches(msg, m.keymap.Delete):
		return m.startAction("delete")
	case key.Matches(msg, m.keymap.Refresh):
		m.status = ""
		m.lastError = nil
		return []tea.Cmd{loadItemsCmd(m.ctx, m.source)}
	case key.Matches(msg, m.keymap.Filter):
		m.currentState = stateFilter
		return []tea.Cmd{m.filter.Focus()}
	case key.Matches(msg, m.keymap.Esc):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		} else {
			m.selected = make(map[int]struct{})
		}
	}
	return nil
}

func (m *model) handleFilterKeys(msg tea.KeyMsg) []tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []tea.Cmd{m.quit()}
	case tea.KeyEsc:
		m.filter.SetValue("")
		m.filter.Blur()
		m.applyFilter()
		m.currentState = stateList
		return nil
	case tea.KeyEnter:
		m.filter.Blur()
		m.currentState = stateList
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return []tea.Cmd{cmd}
}

func (m *model) handlePromptKeys(msg tea.KeyMsg) []tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.answerInput(inputReply{canceled: true})
		return []tea.Cmd{m.quit()}
	case tea.KeyEsc:
		m.answerInput(inputReply{canceled: true})
		return nil
	case tea.KeyEnter:
		m.answerInput(inputReply{value: m.input.Value()})
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return []tea.Cmd{cmd}
}

func (m *model) handleConfirmKeys(msg tea.KeyMsg) []tea.Cmd {
	req := m.confirmReq
	switch msg.Type {
	case tea.KeyCtrlC:
		m.answerConfirm(0)
		return []tea.Cmd{m.quit()}
	case tea.KeyEsc:
		m.answerConfirm(0)
		return nil
	case tea.KeyEnter:
		m.answerConfirm(req.def)
		return nil
	}

	if n := host.ChoiceForKey(req.choices, msg.String()); n > 0 {
		m.answerConfirm(n)
	}
	return nil
}

// --- Helpers ---

func (m *model) startAction(name string) []tea.Cmd {
	items := m.targets()
	if name != "add" && len(items) == 0 {
		return nil
	}
	m.currentState = stateRunning
	m.runningAction = name
	m.status = ""
	m.lastError = nil
	return []tea.Cmd{runActionCmd(m.ctx, m.kind, name, items)}
}

func (m *model) answerInput(r inputReply) {
	if m.inputReq != nil {
		m.inputReq.reply <- r
	}
	m.inputReq = nil
	m.input.Blur()
	m.currentState = stateRunning
}

func (m *model) answerConfirm(n int) {
	if m.confirmReq != nil {
		m.confirmReq.reply <- n
	}
	m.confirmReq = nil
	m.currentState = stateRunning
}

// applyFilter recomputes the visible rows from the filter text. Matching is
// a case-insensitive substring test on the item text.
func (m *model) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, item := range m.items {
		if needle == "" || strings.Contains(strings.ToLower(item.Text()), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}
