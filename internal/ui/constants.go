// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

// state represents the different modes of the picker.
type state int

const (
	stateLoading state = iota
	stateList
	stateFilter
	stateRunning
	statePrompt
	stateConfirm
)

const (
	headerHeight = 1
	footerHeight = 2
)
