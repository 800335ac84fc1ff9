// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"cmdl/internal/host"
	"cmdl/internal/kind"
	"cmdl/internal/source"
	"cmdl/internal/util"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// highlightColors maps editor highlight groups onto terminal colors.
var highlightColors = map[string]*color.Color{
	"Comment":    color.New(color.FgHiBlack, color.Italic),
	"String":     color.New(color.FgGreen),
	"Identifier": color.New(color.FgCyan),
	"Function":   color.New(color.FgBlue),
	"Statement":  color.New(color.FgYellow),
	"Keyword":    color.New(color.FgMagenta),
	"Special":    color.New(color.FgHiYellow),
	"Constant":   color.New(color.FgRed),
	"Type":       color.New(color.FgHiCyan),
	"Title":      color.New(color.FgHiMagenta, color.Bold),
}

func colorForGroup(group string) *color.Color {
	if c, ok := highlightColors[group]; ok {
		return c
	}
	return dimColor
}

// formatItem colors the byte ranges named by the item's highlights and pads
// the label to width.
func formatItem(item source.Item, width int) string {
	text := item.Text()
	highlights := append([]source.ItemHighlight(nil), item.Highlights...)
	sort.SliceStable(highlights, func(i, j int) bool { return highlights[i].Col < highlights[j].Col })

	var b strings.Builder
	pos := 0
	for _, hl := range highlights {
		start := min(max(hl.Col-1, pos), len(text))
		end := min(start+hl.Width, len(text))
		b.WriteString(padLabel(text[pos:start], width))
		b.WriteString(colorForGroup(hl.HlGroup).Sprint(text[start:end]))
		pos = end
	}
	b.WriteString(padLabel(text[pos:], width))
	return b.String()
}

func padLabel(s string, width int) string {
	i := strings.IndexByte(s, '\t')
	if i < 0 {
		return s
	}
	return runewidth.FillRight(s[:i], width) + "  " + s[i+1:]
}

func printItems(w io.Writer, items []source.Item) {
	width := 0
	for _, item := range items {
		if !item.Action.IsPlaceholder {
			width = max(width, runewidth.StringWidth(item.Action.Label))
		}
	}
	for _, item := range items {
		fmt.Fprintln(w, formatItem(item, width))
	}
}

// itemsByLabel returns, for each label in order, every item carrying it.
func itemsByLabel(items []source.Item, labels []string) ([]source.Item, error) {
	var matched []source.Item
	for _, label := range labels {
		found := false
		for _, item := range items {
			if !item.Action.IsPlaceholder && item.Action.Label == label {
				matched = append(matched, item)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("no command registered with label '%s'", label)
		}
	}
	return matched, nil
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered commands",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := gatherItems(cmd.Context())
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		printItems(cmd.OutOrStdout(), items)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add [-- command...]",
	Short: "Register a new command",
	Long: `Registers a new labelled command. Values not given as flags are asked for.
Words after "--" are joined into the command line.`,
	Example: "  cmdl add\n  cmdl add --label build --command 'make -j8'\n  cmdl add --label logs -- journalctl -f -u nginx",
	RunE: func(cmd *cobra.Command, args []string) error {
		answers := map[string]string{}
		if cmd.Flags().Changed("label") {
			answers[kind.LabelPrompt], _ = cmd.Flags().GetString("label")
		}
		if cmd.Flags().Changed("command") {
			answers[kind.CommandPrompt], _ = cmd.Flags().GetString("command")
		} else if len(args) > 0 {
			answers[kind.CommandPrompt] = util.JoinShellArgs(args)
		}

		prompter := &flagPrompter{answers: answers, next: newTerminalPrompter(cmd)}
		flags, err := newKind(noExecutor{}, prompter).Do(cmd.Context(), "add", nil)
		if err != nil {
			return err
		}
		reportFlags(cmd.OutOrStdout(), "add", flags)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:               "edit <label>",
	Short:             "Edit the first command with the given label",
	Example:           "  cmdl edit build\n  cmdl edit build --command 'make -j16'",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: labelCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := gatherItems(cmd.Context())
		if err != nil {
			return err
		}
		matched, err := itemsByLabel(items, args)
		if err != nil {
			return err
		}

		answers := map[string]string{}
		if cmd.Flags().Changed("label") {
			answers[kind.LabelPrompt], _ = cmd.Flags().GetString("label")
		}
		if cmd.Flags().Changed("command") {
			answers[kind.CommandPrompt], _ = cmd.Flags().GetString("command")
		}

		prompter := &flagPrompter{answers: answers, next: newTerminalPrompter(cmd)}
		flags, err := newKind(noExecutor{}, prompter).Do(cmd.Context(), "edit", matched[:1])
		if err != nil {
			return err
		}
		reportFlags(cmd.OutOrStdout(), "edit", flags)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:               "delete <label>...",
	Aliases:           []string{"rm"},
	Short:             "Delete every command with the given labels",
	Example:           "  cmdl delete build\n  cmdl rm build logs --yes",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: labelCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := gatherItems(cmd.Context())
		if err != nil {
			return err
		}
		matched, err := itemsByLabel(items, args)
		if err != nil {
			return err
		}

		prompter := &flagPrompter{next: newTerminalPrompter(cmd)}
		if yes, _ := cmd.Flags().GetBool("yes"); yes {
			prompter.confirm = 1
		}
		flags, err := newKind(noExecutor{}, prompter).Do(cmd.Context(), "delete", matched)
		if err != nil {
			return err
		}
		reportFlags(cmd.OutOrStdout(), "delete", flags)
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the data file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataPath, err := host.ResolveDataPath(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dataPath)
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "print items with their action data as JSON")

	addCmd.Flags().StringP("label", "l", "", "label of the new command")
	addCmd.Flags().StringP("command", "c", "", "command line to register")

	editCmd.Flags().StringP("label", "l", "", "new label")
	editCmd.Flags().StringP("command", "c", "", "new command line")

	deleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
