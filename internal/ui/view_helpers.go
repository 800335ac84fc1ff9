// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"fmt"
	"sort"
	"strings"

	"cmdl/internal/source"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// --- View Rendering ---

func (m *model) render() string {
	header := titleStyle.Render("cmdl")
	if n := len(m.visible); m.currentState != stateLoading {
		header += statusStyle.Render(fmt.Sprintf("  %d/%d", n, len(m.items)))
	}

	var body string
	switch m.currentState {
	case stateLoading:
		body = statusStyle.Render("Loading commands...")
	default:
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// syncViewport refreshes the list content and keeps the cursor row on
// screen.
func (m *model) syncViewport() {
	if !m.ready {
		return
	}
	height := m.height - headerHeight - footerHeight
	if m.currentState == statePrompt || m.currentState == stateConfirm {
		height -= 3 // bordered prompt box
	}
	m.viewport.Height = max(height, 1)
	m.viewport.SetContent(m.renderList())

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *model) renderList() string {
	width := labelWidth(m.items)
	var b strings.Builder
	for row, idx := range m.visible {
		cursor := "  "
		if row == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		mark := "  "
		if _, ok := m.selected[idx]; ok {
			mark = selectedStyle.Render("* ")
		}
		b.WriteString(cursor + mark + renderItem(m.items[idx], width))
		if row < len(m.visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *model) renderFooter() string {
	var b strings.Builder

	switch m.currentState {
	case statePrompt:
		b.WriteString(promptBoxStyle.Render(m.input.View()) + "\n")
	case stateConfirm:
		req := m.confirmReq
		b.WriteString(promptBoxStyle.Render(req.message+" "+renderChoices(req.choices, req.def)) + "\n")
	}

	switch {
	case m.lastError != nil:
		b.WriteString(errorStyle.Render("Error: " + m.lastError.Error()))
	case m.currentState == stateRunning && m.status == "":
		b.WriteString(statusStyle.Render(fmt.Sprintf("Running %s...", m.runningAction)))
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
	case m.currentState == stateFilter || m.filter.Value() != "":
		b.WriteString(m.filter.View())
	}
	b.WriteString("\n")

	bindings := []key.Binding{
		m.keymap.Enter, m.keymap.Select, m.keymap.Add, m.keymap.Edit,
		m.keymap.Delete, m.keymap.Refresh, m.keymap.Filter, m.keymap.Quit,
	}
	help := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		help = append(help, footerKeyStyle.Render(kb.Help().Key)+" "+footerStyle.Render(kb.Help().Desc))
	}
	prefix := ""
	if len(m.selected) > 0 {
		prefix = fmt.Sprintf("(%d selected) ", len(m.selected))
	}
	b.WriteString(lipgloss.NewStyle().Width(m.width).Render(prefix + strings.Join(help, footerSeparatorStyle.Render(" | "))))
	return b.String()
}

// labelWidth is the display width of the widest label.
func labelWidth(items []source.Item) int {
	w := 0
	for _, item := range items {
		if item.Action.IsPlaceholder {
			continue
		}
		w = max(w, runewidth.StringWidth(item.Action.Label))
	}
	return w
}

// renderItem styles the byte ranges named by the item's highlights. The
// label is padded to width so that commands line up.
func renderItem(item source.Item, width int) string {
	text := item.Text()
	highlights := append([]source.ItemHighlight(nil), item.Highlights...)
	sort.SliceStable(highlights, func(i, j int) bool { return highlights[i].Col < highlights[j].Col })

	var b strings.Builder
	pos := 0
	for _, hl := range highlights {
		start := min(max(hl.Col-1, pos), len(text))
		end := min(start+hl.Width, len(text))
		b.WriteString(alignLabel(text[pos:start], width))
		b.WriteString(styleForGroup(hl.HlGroup).Render(text[start:end]))
		pos = end
	}
	b.WriteString(alignLabel(text[pos:], width))
	return b.String()
}

// alignLabel replaces the tab after the label with padding.
func alignLabel(s string, width int) string {
	i := strings.IndexByte(s, '\t')
	if i < 0 {
		return s
	}
	return runewidth.FillRight(s[:i], width) + "  " + s[i+1:]
}
