// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"cmdl/internal/kind"
	"cmdl/internal/source"
)

// Messages that drive the picker, besides the bridge requests in bridge.go.

type itemsLoadedMsg struct {
	items []source.Item
	err   error
}

type actionFinishedMsg struct {
	action string
	count  int
	flags  kind.ActionFlags
	err    error
}

type execFinishedMsg struct {
	err   error
	reply chan error
}
