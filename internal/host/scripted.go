// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package host

import (
	"context"
	"sync"
)

// Prompt records one Input call seen by a Scripted host.
type Prompt struct {
	Prompt string
	Text   string
}

// Scripted is a Host that answers prompts from queues and records what it was
// asked to execute. It backs non-interactive CLI flags, the HTTP API and tests.
//
// An exhausted Inputs queue answers "" and an exhausted Confirms queue answers
// 0, both of which read as cancellation.
type Scripted struct {
	Directory string
	Inputs    []string
	Confirms  []int
	// Run, when set, is called for every executed command after it is
	// recorded.
	Run func(ctx context.Context, command string) error

	mu       sync.Mutex
	executed []string
	prompts  []Prompt
	messages []string
}

func (s *Scripted) DataDirectory(context.Context) (string, error) {
	return s.Directory, nil
}

func (s *Scripted) Execute(ctx context.Context, command string) error {
	s.mu.Lock()
	s.executed = append(s.executed, command)
	run := s.Run
	s.mu.Unlock()

	if run != nil {
		return run(ctx, command)
	}
	return nil
}

func (s *Scripted) Input(ctx context.Context, prompt, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, Prompt{Prompt: prompt, Text: text})
	if len(s.Inputs) == 0 {
		return "", nil
	}
	answer := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	return answer, nil
}

func (s *Scripted) Confirm(ctx context.Context, message, _ string, _ int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, message)
	if len(s.Confirms) == 0 {
		return 0, nil
	}
	answer := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return answer, nil
}

// Executed returns the commands passed to Execute, in order.
func (s *Scripted) Executed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.executed...)
}

// Prompts returns every Input call seen so far.
func (s *Scripted) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Prompt(nil), s.prompts...)
}

// Confirmations returns the messages passed to Confirm.
func (s *Scripted) Confirmations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}
