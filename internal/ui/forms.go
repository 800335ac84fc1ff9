// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"strings"

	"cmdl/internal/host"

	"github.com/charmbracelet/bubbles/textinput"
)

// renderChoices shows "[Y]es / [N]o" with the default emphasized.
func renderChoices(choices []host.Choice, def int) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		text := c.Accelerated()
		if i+1 == def {
			text = defaultChoiceStyle.Render(text)
		}
		parts[i] = text
	}
	return strings.Join(parts, " / ")
}

func newPromptInput(prompt, text string, width int) textinput.Model {
	t := textinput.New()
	t.Prompt = prompt
	t.SetValue(text)
	t.CursorEnd()
	if width > len(prompt)+2 {
		t.Width = width - len(prompt) - 2
	}
	t.Focus()
	return t
}

func newFilterInput() textinput.Model {
	t := textinput.New()
	t.Prompt = "/"
	t.Placeholder = "filter"
	t.CharLimit = 100
	return t
}
