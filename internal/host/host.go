// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package host defines the capabilities cmdl needs from whatever is driving
// it: a directory for the data file, a way to run a command and a way to ask
// the user for input. The TUI, the CLI and the HTTP API each provide one.
package host

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// DataFileName is the name of the data file inside the data directory.
const DataFileName = "cmdl.json"

// ErrCanceled is returned by a Prompter when the user backs out of a prompt.
// Callers treat it like an empty answer.
var ErrCanceled = errors.New("prompt canceled")

// DirectoryResolver returns the base directory for the data file.
type DirectoryResolver interface {
	DataDirectory(ctx context.Context) (string, error)
}

// Executor runs a registered command line.
type Executor interface {
	Execute(ctx context.Context, command string) error
}

// Prompter asks the user for text or a choice. Both calls block until the
// user answers.
type Prompter interface {
	// Input shows prompt with text pre-filled and returns what the user
	// entered. An empty string means the user gave nothing.
	Input(ctx context.Context, prompt, text string) (string, error)
	// Confirm shows message with choices separated by "\n" (an "&" marks the
	// accelerator) and returns the 1-based index of the chosen option, or 0
	// when nothing was chosen. def is the 1-based default choice.
	Confirm(ctx context.Context, message, choices string, def int) (int, error)
}

// Host bundles every capability.
type Host interface {
	DirectoryResolver
	Executor
	Prompter
}

// ResolveDataPath asks r for the data directory and appends DataFileName.
func ResolveDataPath(ctx context.Context, r DirectoryResolver) (string, error) {
	dir, err := r.DataDirectory(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return filepath.Join(dir, DataFileName), nil
}

// Compose builds a Host from separate capabilities.
func Compose(r DirectoryResolver, e Executor, p Prompter) Host {
	return composite{DirectoryResolver: r, Executor: e, Prompter: p}
}

type composite struct {
	DirectoryResolver
	Executor
	Prompter
}

// StaticDirectory is a DirectoryResolver that always returns the same path.
type StaticDirectory string

func (d StaticDirectory) DataDirectory(context.Context) (string, error) {
	return string(d), nil
}
