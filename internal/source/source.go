// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package source lists registered commands as picker items. Each item carries
// the action data the cmdl kind needs to act on it later.
package source

import (
	"context"

	"cmdl/internal/host"
	"cmdl/internal/store"
)

// Kind is the name of the kind that handles items from this source.
const Kind = "cmdl"

// PlaceholderText is shown as the only item when no command is registered.
const PlaceholderText = "(No commands registered)"

// Highlight names attached to rendered items.
const (
	CommandHighlight     = "cmdl-source-command"
	PlaceholderHighlight = "cmdl-source-placeholder"
)

// ActionData is attached to every item and handed back to kind actions.
type ActionData struct {
	store.Entry
	// DataPath is the absolute path of the file the entry was loaded from.
	DataPath string `json:"dataPath"`
	// IsPlaceholder marks the empty-state item. It is never real data.
	IsPlaceholder bool `json:"isPlaceholder,omitempty"`
}

// ItemHighlight colors Width bytes of an item's text starting at the 1-based
// byte column Col.
type ItemHighlight struct {
	Name    string `json:"name"`
	HlGroup string `json:"hl_group"`
	Col     int    `json:"col"`
	Width   int    `json:"width"`
}

// Item is one picker row.
type Item struct {
	Word       string          `json:"word"`
	Display    string          `json:"display,omitempty"`
	Highlights []ItemHighlight `json:"highlights"`
	Action     ActionData      `json:"action"`
}

// Text returns what the picker shows for the item.
func (i Item) Text() string {
	if i.Display != "" {
		return i.Display
	}
	return i.Word
}

// HighlightParams name the highlight group for each column. An empty group
// disables that highlight.
type HighlightParams struct {
	Command     string `yaml:"command" json:"command"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
}

// Params configure rendering.
type Params struct {
	Highlights HighlightParams `yaml:"highlights" json:"highlights"`
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		Highlights: HighlightParams{
			Command:     "Comment",
			Placeholder: "Comment",
		},
	}
}

// Source gathers items from the data file resolved through its host.
type Source struct {
	resolver host.DirectoryResolver
	params   Params
}

// New returns a Source that resolves the data path through r.
func New(r host.DirectoryResolver, params Params) *Source {
	return &Source{resolver: r, params: params}
}

// Params returns the parameters the source renders with.
func (s *Source) Params() Params {
	return s.params
}

// Gather resolves the data path, loads the entries and renders them.
func (s *Source) Gather(ctx context.Context) ([]Item, error) {
	dataPath, err := host.ResolveDataPath(ctx, s.resolver)
	if err != nil {
		return nil, err
	}
	return Render(store.Load(dataPath), dataPath, s.params), nil
}

// Render turns entries into items. The display text is label, a tab, then
// command; the command highlight is positioned in bytes because pickers
// address highlight columns by byte offset. With no entries a single
// placeholder item is returned.
func Render(entries []store.Entry, dataPath string, params Params) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		// label bytes + 1 tab byte + 1-based column
		commandCol := len(e.Label) + 2

		highlights := []ItemHighlight{}
		if params.Highlights.Command != "" {
			highlights = append(highlights, ItemHighlight{
				Name:    CommandHighlight,
				HlGroup: params.Highlights.Command,
				Col:     commandCol,
				Width:   len(e.Command),
			})
		}

		items = append(items, Item{
			Word:       e.Label,
			Display:    e.Label + "\t" + e.Command,
			Highlights: highlights,
			Action:     ActionData{Entry: e, DataPath: dataPath},
		})
	}

	if len(items) == 0 {
		highlights := []ItemHighlight{}
		if params.Highlights.Placeholder != "" {
			highlights = append(highlights, ItemHighlight{
				Name:    PlaceholderHighlight,
				HlGroup: params.Highlights.Placeholder,
				Col:     1,
				Width:   len(PlaceholderText),
			})
		}
		items = append(items, Item{
			Word:       PlaceholderText,
			Highlights: highlights,
			Action:     ActionData{DataPath: dataPath, IsPlaceholder: true},
		})
	}

	return items
}
