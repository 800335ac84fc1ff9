// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package kind implements the actions available on cmdl items: execute, add,
// edit and delete. Every action that changes data reads the data file fresh,
// mutates it in memory and writes it back.
package kind

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cmdl/internal/host"
	"cmdl/internal/logger"
	"cmdl/internal/source"
	"cmdl/internal/store"
)

// ActionFlags tell the picker what to do after an action returns.
type ActionFlags int

const (
	// None leaves the picker to its default behavior.
	None ActionFlags = iota
	// Persist keeps the picker open and unchanged.
	Persist
	// RefreshItems asks the picker to gather items again.
	RefreshItems
)

func (f ActionFlags) String() string {
	switch f {
	case None:
		return "none"
	case Persist:
		return "persist"
	case RefreshItems:
		return "refreshItems"
	default:
		return fmt.Sprintf("ActionFlags(%d)", int(f))
	}
}

// Prompts shown by add and edit.
const (
	LabelPrompt   = "Label: "
	CommandPrompt = "Command: "
)

// DefaultAction is run when the user picks an item without naming an action.
const DefaultAction = "execute"

// ErrUnknownAction is returned by Do for names not in Actions.
var ErrUnknownAction = errors.New("unknown action")

// Action is a named operation on the selected items.
type Action struct {
	Description string
	Callback    func(ctx context.Context, items []source.Item) (ActionFlags, error)
}

// Kind holds the actions for cmdl items.
type Kind struct {
	host    host.Host
	actions map[string]Action
}

// New returns a Kind that prompts, executes and resolves paths through h.
func New(h host.Host) *Kind {
	k := &Kind{host: h}
	k.actions = map[string]Action{
		"execute": {Description: "Execute the registered command.", Callback: k.Execute},
		"add":     {Description: "Add a new command entry.", Callback: k.Add},
		"edit":    {Description: "Edit the selected command entry.", Callback: k.Edit},
		"delete":  {Description: "Delete the selected command entries.", Callback: k.Delete},
	}
	return k
}

// Actions returns the available actions by name.
func (k *Kind) Actions() map[string]Action {
	return k.actions
}

// ActionNames returns the action names in sorted order.
func (k *Kind) ActionNames() []string {
	names := make([]string, 0, len(k.actions))
	for name := range k.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Do runs the named action on items.
func (k *Kind) Do(ctx context.Context, name string, items []source.Item) (ActionFlags, error) {
	action, ok := k.actions[name]
	if !ok {
		return None, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	logger.Debug("running action", "action", name, "items", len(items))
	return action.Callback(ctx, items)
}

// Execute runs the command of every selected item in selection order,
// skipping the placeholder.
func (k *Kind) Execute(ctx context.Context, items []source.Item) (ActionFlags, error) {
	for _, item := range items {
		if item.Action.IsPlaceholder {
			continue
		}
		if err := k.host.Execute(ctx, item.Action.Command); err != nil {
			return None, fmt.Errorf("failed to execute %q: %w", item.Action.Label, err)
		}
	}
	return None, nil
}

// Add prompts for a label and a command and appends the new entry. It does
// not need a selection.
func (k *Kind) Add(ctx context.Context, _ []source.Item) (ActionFlags, error) {
	label, ok, err := k.input(ctx, LabelPrompt, "")
	if err != nil || !ok {
		return Persist, err
	}
	command, ok, err := k.input(ctx, CommandPrompt, "")
	if err != nil || !ok {
		return Persist, err
	}

	dataPath, err := host.ResolveDataPath(ctx, k.host)
	if err != nil {
		return Persist, err
	}
	entries := store.Load(dataPath)
	entries = append(entries, store.Entry{Label: label, Command: command})
	if err := store.Save(dataPath, entries); err != nil {
		return Persist, err
	}

	logger.Info("added entry", "label", label, "path", dataPath)
	return RefreshItems, nil
}

// Edit changes the label and command of the first selected item. The entry is
// matched by its original label and command; if the file no longer holds that
// pair the edit is dropped.
func (k *Kind) Edit(ctx context.Context, items []source.Item) (ActionFlags, error) {
	if len(items) == 0 {
		return None, nil
	}
	action := items[0].Action
	if action.IsPlaceholder {
		return Persist, nil
	}

	label, ok, err := k.input(ctx, LabelPrompt, action.Label)
	if err != nil || !ok {
		return Persist, err
	}
	command, ok, err := k.input(ctx, CommandPrompt, action.Command)
	if err != nil || !ok {
		return Persist, err
	}

	entries := store.Load(action.DataPath)
	updated := store.Entry{Label: label, Command: command}
	if store.Replace(entries, action.Entry, updated) {
		if err := store.Save(action.DataPath, entries); err != nil {
			return Persist, err
		}
		logger.Info("edited entry", "label", action.Label, "new_label", label, "path", action.DataPath)
	} else {
		logger.Debug("edit target no longer present", "label", action.Label, "path", action.DataPath)
	}

	return RefreshItems, nil
}

// Delete removes the selected entries after confirmation. Entries are grouped
// by data file so each file is read and written once.
func (k *Kind) Delete(ctx context.Context, items []source.Item) (ActionFlags, error) {
	var targets []source.ActionData
	for _, item := range items {
		if !item.Action.IsPlaceholder {
			targets = append(targets, item.Action)
		}
	}
	if len(targets) == 0 {
		return Persist, nil
	}

	choice, err := k.host.Confirm(ctx, fmt.Sprintf("Delete %d entry(ies)?", len(targets)), "&Yes\n&No", 2)
	if errors.Is(err, host.ErrCanceled) {
		return Persist, nil
	}
	if err != nil {
		return Persist, err
	}
	if choice != 1 {
		return Persist, nil
	}

	byPath := make(map[string]map[store.Entry]struct{})
	var paths []string
	for _, a := range targets {
		keys, ok := byPath[a.DataPath]
		if !ok {
			keys = make(map[store.Entry]struct{})
			byPath[a.DataPath] = keys
			paths = append(paths, a.DataPath)
		}
		keys[a.Entry] = struct{}{}
	}

	for _, dataPath := range paths {
		entries := store.Load(dataPath)
		kept := store.Remove(entries, byPath[dataPath])
		if err := store.Save(dataPath, kept); err != nil {
			return Persist, err
		}
		logger.Info("deleted entries", "path", dataPath, "removed", len(entries)-len(kept))
	}

	return RefreshItems, nil
}

// input prompts once. ok is false when the user gave an empty answer or
// canceled.
func (k *Kind) input(ctx context.Context, prompt, text string) (string, bool, error) {
	answer, err := k.host.Input(ctx, prompt, text)
	if errors.Is(err, host.ErrCanceled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return answer, answer != "", nil
}
