// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"context"

	"cmdl/internal/host"

	tea "github.com/charmbracelet/bubbletea"
)

// CommandFactory prepares a command line for tea.Exec.
type CommandFactory func(ctx context.Context, line string) tea.ExecCommand

// Bridge lets kind actions, which run in a command goroutine, talk to the
// Bubble Tea loop. Each call posts a request and blocks on its reply channel.
// It implements host.Executor and host.Prompter.
type Bridge struct {
	requests chan tea.Msg
	factory  CommandFactory
}

// NewBridge returns a Bridge that runs commands built by factory.
func NewBridge(factory CommandFactory) *Bridge {
	return &Bridge{
		requests: make(chan tea.Msg),
		factory:  factory,
	}
}

type inputReply struct {
	value    string
	canceled bool
}

type inputRequestMsg struct {
	prompt string
	text   string
	reply  chan inputReply
}

type confirmRequestMsg struct {
	message string
	choices []host.Choice
	def     int
	reply   chan int
}

type execRequestMsg struct {
	command tea.ExecCommand
	line    string
	reply   chan error
}

// Input implements host.Prompter.
func (b *Bridge) Input(ctx context.Context, prompt, text string) (string, error) {
	req := inputRequestMsg{prompt: prompt, text: text, reply: make(chan inputReply, 1)}
	if err := b.post(ctx, req); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", host.ErrCanceled
	case r := <-req.reply:
		if r.canceled {
			return "", host.ErrCanceled
		}
		return r.value, nil
	}
}

// Confirm implements host.Prompter.
func (b *Bridge) Confirm(ctx context.Context, message, choices string, def int) (int, error) {
	req := confirmRequestMsg{
		message: message,
		choices: host.ParseChoices(choices),
		def:     def,
		reply:   make(chan int, 1),
	}
	if err := b.post(ctx, req); err != nil {
		return 0, err
	}
	select {
	case <-ctx.Done():
		return 0, host.ErrCanceled
	case n := <-req.reply:
		return n, nil
	}
}

// Execute implements host.Executor. The terminal is handed to the command
// for as long as it runs.
func (b *Bridge) Execute(ctx context.Context, line string) error {
	req := execRequestMsg{command: b.factory(ctx, line), line: line, reply: make(chan error, 1)}
	if err := b.post(ctx, req); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-req.reply:
		return err
	}
}

func (b *Bridge) post(ctx context.Context, msg tea.Msg) error {
	select {
	case <-ctx.Done():
		return host.ErrCanceled
	case b.requests <- msg:
		return nil
	}
}

// waitForRequest delivers the next bridge request to Update.
func (b *Bridge) waitForRequest() tea.Cmd {
	return func() tea.Msg {
		return <-b.requests
	}
}
