// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package host

import (
	"strings"
	"unicode"
)

// Choice is one option of a Confirm call. "&Yes" has label "Yes" and
// accelerator 'y'.
type Choice struct {
	Label string
	Key   rune
}

// ParseChoices splits the choices argument of Confirm. Options without an
// "&" use their first letter as accelerator.
func ParseChoices(choices string) []Choice {
	var parsed []Choice
	for _, raw := range strings.Split(choices, "\n") {
		if raw == "" {
			continue
		}
		c := Choice{Label: strings.Replace(raw, "&", "", 1)}
		if i := strings.IndexRune(raw, '&'); i >= 0 && i+1 < len(raw) {
			c.Key = unicode.ToLower([]rune(raw[i+1:])[0])
		} else if c.Label != "" {
			c.Key = unicode.ToLower([]rune(c.Label)[0])
		}
		parsed = append(parsed, c)
	}
	return parsed
}

// ChoiceForKey returns the 1-based index of the choice whose accelerator is
// the single character key, or 0.
func ChoiceForKey(choices []Choice, key string) int {
	runes := []rune(strings.TrimSpace(key))
	if len(runes) == 0 {
		return 0
	}
	r := unicode.ToLower(runes[0])
	if len(runes) > 1 {
		// a typed word must spell a label
		for i, c := range choices {
			if strings.EqualFold(c.Label, string(runes)) {
				return i + 1
			}
		}
		return 0
	}
	for i, c := range choices {
		if c.Key == r {
			return i + 1
		}
	}
	return 0
}

// Accelerated returns the label with its accelerator in brackets, as in
// "[Y]es".
func (c Choice) Accelerated() string {
	if c.Key == 0 {
		return c.Label
	}
	j := strings.IndexFunc(c.Label, func(r rune) bool { return unicode.ToLower(r) == c.Key })
	if j < 0 {
		return c.Label
	}
	n := len(string([]rune(c.Label[j:])[0]))
	return c.Label[:j] + "[" + c.Label[j:j+n] + "]" + c.Label[j+n:]
}
