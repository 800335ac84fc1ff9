// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package util holds small helpers shared by the command line and runner.
package util

import "strings"

// QuoteArgForShell single-quotes arg for a POSIX shell. An embedded single
// quote closes the quoting, is emitted backslash-escaped and then reopens it.
// A leading "~/" is left outside the quotes so the shell still expands it.
func QuoteArgForShell(arg string) string {
	if strings.HasPrefix(arg, "~/") {
		return `~/'` + strings.ReplaceAll(arg[2:], "'", `'\''`) + `'`
	}
	return `'` + strings.ReplaceAll(arg, "'", `'\''`) + `'`
}

// JoinShellArgs turns an argv back into a single command line. Words made only
// of safe characters are kept bare so that "ls -la" stays readable.
func JoinShellArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if isSafeWord(a) {
			quoted[i] = a
		} else {
			quoted[i] = QuoteArgForShell(a)
		}
	}
	return strings.Join(quoted, " ")
}

func isSafeWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./=:,+@%", r):
		default:
			return false
		}
	}
	return true
}
