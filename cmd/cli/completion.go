// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"strings"

	"cmdl/internal/config"
	"cmdl/internal/source"

	"github.com/spf13/cobra"
)

// labelCompletionFunc completes registered labels. Completion runs before
// PersistentPreRunE, so it loads the config itself.
func labelCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c, err := config.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	items, err := source.New(c, c.Params()).Gather(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeLabels(items, args, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeLabels offers each label once, skipping labels already given.
func completeLabels(items []source.Item, args []string, toComplete string) []string {
	used := make(map[string]bool, len(args))
	for _, a := range args {
		used[a] = true
	}

	var suggestions []string
	seen := make(map[string]bool)
	for _, item := range items {
		label := item.Action.Label
		if item.Action.IsPlaceholder || used[label] || seen[label] {
			continue
		}
		if strings.HasPrefix(label, toComplete) {
			seen[label] = true
			suggestions = append(suggestions, label+"\t"+item.Action.Command)
		}
	}
	return suggestions
}

// hostCompletionFunc completes "local" and the enabled configured hosts.
func hostCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c, err := config.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeHosts(c, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeHosts(c config.Config, toComplete string) []string {
	var suggestions []string
	if strings.HasPrefix("local", toComplete) {
		suggestions = append(suggestions, "local")
	}
	for _, h := range c.Hosts {
		if !h.Disabled && strings.HasPrefix(h.Name, toComplete) {
			suggestions = append(suggestions, h.Name)
		}
	}
	return suggestions
}
