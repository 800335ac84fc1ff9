// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cmdl/internal/host"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// terminalPrompter answers kind prompts on the terminal. On a TTY it shows an
// editable text input; otherwise it reads plain lines, where an empty line
// keeps the pre-filled text.
type terminalPrompter struct {
	in          io.Reader
	out         io.Writer
	reader      *bufio.Reader
	interactive bool
}

func newTerminalPrompter(cmd *cobra.Command) *terminalPrompter {
	in := cmd.InOrStdin()
	p := &terminalPrompter{in: in, out: cmd.OutOrStdout(), reader: bufio.NewReader(in)}
	if f, ok := in.(*os.File); ok {
		p.interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

func (p *terminalPrompter) Input(ctx context.Context, prompt, text string) (string, error) {
	if p.interactive {
		return p.runInput(ctx, prompt, text)
	}

	if text != "" {
		fmt.Fprintf(p.out, "%s%s ", prompt, dimColor.Sprintf("[%s]", text))
	} else {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if line == "" {
		return text, nil
	}
	return line, nil
}

func (p *terminalPrompter) Confirm(ctx context.Context, message, choices string, def int) (int, error) {
	parsed := host.ParseChoices(choices)
	labels := make([]string, len(parsed))
	for i, c := range parsed {
		labels[i] = c.Accelerated()
	}
	fmt.Fprintf(p.out, "%s %s: ", message, strings.Join(labels, " / "))

	if p.interactive {
		return p.runConfirm(ctx, parsed, def)
	}

	line, err := p.readLine(ctx)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return def, nil
	}
	return host.ChoiceForKey(parsed, line), nil
}

// readLine reads one line. End of input counts as canceling.
func (p *terminalPrompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", host.ErrCanceled
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", host.ErrCanceled
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// --- TTY prompts ---

type inputModel struct {
	input    textinput.Model
	canceled bool
	done     bool
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.canceled {
		return m.input.Prompt + m.input.Value() + "\n"
	}
	return m.input.View()
}

func (p *terminalPrompter) runInput(ctx context.Context, prompt, text string) (string, error) {
	t := textinput.New()
	t.Prompt = prompt
	t.SetValue(text)
	t.CursorEnd()
	t.Focus()

	final, err := tea.NewProgram(inputModel{input: t},
		tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return "", host.ErrCanceled
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(inputModel)
	if m.canceled {
		return "", host.ErrCanceled
	}
	return m.input.Value(), nil
}

type confirmModel struct {
	choices []host.Choice
	def     int
	answer  int
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.answer = m.def
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlC:
		m.answer = 0
		return m, tea.Quit
	}
	if n := host.ChoiceForKey(m.choices, key.String()); n > 0 {
		m.answer = n
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string { return "" }

func (p *terminalPrompter) runConfirm(ctx context.Context, choices []host.Choice, def int) (int, error) {
	final, err := tea.NewProgram(confirmModel{choices: choices, def: def},
		tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	fmt.Fprintln(p.out)
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return 0, host.ErrCanceled
		}
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return final.(confirmModel).answer, nil
}

// flagPrompter answers prompts from command line flags and falls back to
// next for anything the flags leave open.
type flagPrompter struct {
	answers map[string]string // by prompt text
	confirm int
	next    host.Prompter
}

func (f *flagPrompter) Input(ctx context.Context, prompt, text string) (string, error) {
	if v, ok := f.answers[prompt]; ok {
		return v, nil
	}
	return f.next.Input(ctx, prompt, text)
}

func (f *flagPrompter) Confirm(ctx context.Context, message, choices string, def int) (int, error) {
	if f.confirm != 0 {
		return f.confirm, nil
	}
	return f.next.Confirm(ctx, message, choices, def)
}
