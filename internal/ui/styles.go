// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	defaultChoiceStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	promptBoxStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	footerKeyStyle = lipgloss.NewStyle().
			Inherit(footerStyle).
			Foreground(lipgloss.Color("39"))

	footerSeparatorStyle = lipgloss.NewStyle().
				Inherit(footerStyle).
				Foreground(lipgloss.Color("240"))
)

// highlightGroups maps the common editor highlight group names that items
// refer to onto terminal styles.
var highlightGroups = map[string]lipgloss.Style{
	"Comment":    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
	"String":     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	"Identifier": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	"Function":   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	"Statement":  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	"Keyword":    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	"Special":    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	"Constant":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	"Type":       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	"Title":      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
}

// styleForGroup returns the style for a highlight group. Unknown groups are
// rendered faint.
func styleForGroup(group string) lipgloss.Style {
	if s, ok := highlightGroups[group]; ok {
		return s
	}
	return lipgloss.NewStyle().Faint(true)
}
