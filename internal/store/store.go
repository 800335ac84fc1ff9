// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package store reads and writes the cmdl data file: a JSON array of
// label/command pairs. Loading never fails; anything unreadable is an empty
// store.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cmdl/internal/logger"

	"github.com/tidwall/gjson"
)

// Entry is one registered command. The (Label, Command) pair is its identity;
// two entries with equal fields are indistinguishable.
type Entry struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}

// Load returns the entries stored at path. A missing, unreadable or malformed
// file yields an empty slice, and array elements that lack a string label or
// a string command are skipped.
func Load(path string) []Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("data file not readable, treating as empty", "path", path, "error", err)
		return []Entry{}
	}
	entries := Parse(data)
	logger.Debug("loaded entries", "path", path, "count", len(entries))
	return entries
}

// Parse decodes the data file contents. Each array element is validated on its
// own so one bad element does not discard its siblings.
func Parse(data []byte) []Entry {
	entries := []Entry{}
	if !gjson.ValidBytes(data) {
		return entries
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return entries
	}
	root.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		label, command := lastMember(v, "label"), lastMember(v, "command")
		if label.Type != gjson.String || command.Type != gjson.String {
			return true
		}
		entries = append(entries, Entry{Label: label.String(), Command: command.String()})
		return true
	})
	return entries
}

// lastMember returns the value of the last occurrence of key in obj. Get
// would return the first one, but a repeated key is meant to override.
func lastMember(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
		}
		return true
	})
	return found
}

// Marshal encodes entries the way Save writes them: 2-space indent, no HTML
// escaping, trailing newline. A nil slice encodes as an empty array.
func Marshal(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode entries: %w", err)
	}
	return buf.Bytes(), nil
}

// Save overwrites path with entries, creating parent directories first.
// The write is not atomic.
func Save(path string, entries []Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	data, err := Marshal(entries)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", path, err)
	}
	logger.Debug("saved entries", "path", path, "count", len(entries))
	return nil
}

// Replace swaps the first entry equal to old with updated, in place.
// It reports whether a match was found.
func Replace(entries []Entry, old, updated Entry) bool {
	for i := range entries {
		if entries[i] == old {
			entries[i] = updated
			return true
		}
	}
	return false
}

// Remove returns the entries that are not in drop, preserving order.
func Remove(entries []Entry, drop map[Entry]struct{}) []Entry {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := drop[e]; ok {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
