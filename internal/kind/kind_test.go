package kind

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cmdl/internal/host"
	"cmdl/internal/source"
	"cmdl/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, dir string, entries ...store.Entry) string {
	t.Helper()
	path := filepath.Join(dir, host.DataFileName)
	require.NoError(t, store.Save(path, entries))
	return path
}

func items(path string, entries ...store.Entry) []source.Item {
	return source.Render(entries, path, source.DefaultParams())
}

func placeholder(path string) source.Item {
	return source.Render(nil, path, source.DefaultParams())[0]
}

func TestExecuteRunsInSelectionOrderSkippingPlaceholder(t *testing.T) {
	h := &host.Scripted{}
	k := New(h)

	sel := append(items("/p", store.Entry{Label: "b", Command: "two"}, store.Entry{Label: "a", Command: "one"}), placeholder("/p"))
	flags, err := k.Execute(context.Background(), sel)

	require.NoError(t, err)
	assert.Equal(t, None, flags)
	assert.Equal(t, []string{"two", "one"}, h.Executed())
}

func TestExecuteStopsOnError(t *testing.T) {
	h := &host.Scripted{Run: func(_ context.Context, c string) error {
		if c == "bad" {
			return errors.New("exit status 1")
		}
		return nil
	}}
	sel := items("/p", store.Entry{Label: "x", Command: "bad"}, store.Entry{Label: "y", Command: "good"})

	_, err := New(h).Execute(context.Background(), sel)
	assert.ErrorContains(t, err, "exit status 1")
	assert.Equal(t, []string{"bad"}, h.Executed())
}

func TestAddAppends(t *testing.T) {
	dir := t.TempDir()
	path := seed(t, dir, store.Entry{Label: "a", Command: ":echo 1"})
	h := &host.Scripted{Directory: dir, Inputs: []string{"b", ":echo 2"}}

	flags, err := New(h).Add(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, RefreshItems, flags)
	assert.Equal(t, []store.Entry{{Label: "a", Command: ":echo 1"}, {Label: "b", Command: ":echo 2"}}, store.Load(path))
	assert.Equal(t, []host.Prompt{{Prompt: "Label: "}, {Prompt: "Command: "}}, h.Prompts())
}

func TestAddCreatesMissingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet")
	h := &host.Scripted{Directory: dir, Inputs: []string{"l", "c"}}

	flags, err := New(h).Add(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, RefreshItems, flags)
	assert.Equal(t, []store.Entry{{Label: "l", Command: "c"}}, store.Load(filepath.Join(dir, host.DataFileName)))
}

func TestAddCancellation(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
	}{
		{"empty label", []string{""}},
		{"empty command", []string{"label", ""}},
		{"no answers", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			h := &host.Scripted{Directory: dir, Inputs: tt.inputs}

			flags, err := New(h).Add(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, Persist, flags)
			_, statErr := os.Stat(filepath.Join(dir, host.DataFileName))
			assert.True(t, os.IsNotExist(statErr), "data file must not be written")
		})
	}
}

type cancelingPrompter struct{ host.Scripted }

func (c *cancelingPrompter) Input(context.Context, string, string) (string, error) {
	return "", host.ErrCanceled
}

func (c *cancelingPrompter) Confirm(context.Context, string, string, int) (int, error) {
	return 0, host.ErrCanceled
}

func TestCanceledPromptsPersist(t *testing.T) {
	dir := t.TempDir()
	path := seed(t, dir, store.Entry{Label: "a", Command: "1"})
	h := &cancelingPrompter{Scripted: host.Scripted{Directory: dir}}
	k := New(h)

	flags, err := k.Add(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Persist, flags)

	flags, err = k.Edit(context.Background(), items(path, store.Entry{Label: "a", Command: "1"}))
	require.NoError(t, err)
	assert.Equal(t, Persist, flags)

	flags, err = k.Delete(context.Background(), items(path, store.Entry{Label: "a", Command: "1"}))
	require.NoError(t, err)
	assert.Equal(t, Persist, flags)

	assert.Equal(t, []store.Entry{{Label: "a", Command: "1"}}, store.Load(path))
}

func TestPromptErrorPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := &host.Scripted{Directory: t.TempDir(), Inputs: []string{"x", "y"}}

	_, err := New(h).Add(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEditReplacesInPlace(t *testing.T) {
	dir := t.TempDir()
	orig := store.Entry{Label: "a", Command: ":echo 1"}
	path := seed(t, dir, store.Entry{Label: "z", Command: "0"}, orig, store.Entry{Label: "y", Command: "2"})
	h := &host.Scripted{Inputs: []string{"a2", ":echo 1"}}

	flags, err := New(h).Edit(context.Background(), items(path, orig))
	require.NoError(t, err)
	assert.Equal(t, RefreshItems, flags)
	assert.Equal(t, []store.Entry{{Label: "z", Command: "0"}, {Label: "a2", Command: ":echo 1"}, {Label: "y", Command: "2"}}, store.Load(path))
	assert.Equal(t, []host.Prompt{{Prompt: "Label: ", Text: "a"}, {Prompt: "Command: ", Text: ":echo 1"}}, h.Prompts())
}

func TestEditOnlyFirstSelected(t *testing.T) {
	dir := t.TempDir()
	first := store.Entry{Label: "a", Command: "1"}
	second := store.Entry{Label: "b", Command: "2"}
	path := seed(t, dir, first, second)
	h := &host.Scripted{Inputs: []string{"c", "3"}}

	_, err := New(h).Edit(context.Background(), items(path, first, second))
	require.NoError(t, err)
	assert.Equal(t, []store.Entry{{Label: "c", Command: "3"}, second}, store.Load(path))
}

func TestEditStaleTargetIsDropped(t *testing.T) {
	dir := t.TempDir()
	path := seed(t, dir, store.Entry{Label: "a", Command: ":echo 1"})
	sel := items(path, store.Entry{Label: "a", Command: ":echo 1"})

	// Another writer changes the file after the listing.
	require.NoError(t, store.Save(path, []store.Entry{{Label: "a", Command: ":echo changed"}}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	h := &host.Scripted{Inputs: []string{"a2", ":echo 1"}}
	flags, err := New(h).Edit(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, RefreshItems, flags)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEditNoSelectionOrPlaceholder(t *testing.T) {
	h := &host.Scripted{Inputs: []string{"x", "y"}}
	k := New(h)

	flags, err := k.Edit(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, None, flags)

	flags, err = k.Edit(context.Background(), []source.Item{placeholder("/p")})
	require.NoError(t, err)
	assert.Equal(t, Persist, flags)
	assert.Empty(t, h.Prompts())
}

func TestEditEmptyAnswersAbort(t *testing.T) {
	for _, inputs := range [][]string{{""}, {"new", ""}} {
		dir := t.TempDir()
		orig := store.Entry{Label: "a", Command: "1"}
		path := seed(t, dir, orig)
		h := &host.Scripted{Inputs: inputs}

		flags, err := New(h).Edit(context.Background(), items(path, orig))
		require.NoError(t, err)
		assert.Equal(t, Persist, flags)
		assert.Equal(t, []store.Entry{orig}, store.Load(path))
	}
}

func TestDeleteAcrossDataPaths(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	a1 := store.Entry{Label: "a1", Command: "1"}
	a2 := store.Entry{Label: "a2", Command: "2"}
	b1 := store.Entry{Label: "b1", Command: "1"}
	b2 := store.Entry{Label: "b2", Command: "2"}
	pathA := seed(t, dirA, a1, a2)
	pathB := seed(t, dirB, b1, b2)

	sel := append(items(pathA, a1), items(pathB, b2)...)
	h := &host.Scripted{Confirms: []int{1}}

	flags, err := New(h).Delete(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, RefreshItems, flags)
	assert.Equal(t, []store.Entry{a2}, store.Load(pathA))
	assert.Equal(t, []store.Entry{b1}, store.Load(pathB))
	assert.Equal(t, []string{"Delete 2 entry(ies)?"}, h.Confirmations())
}

func TestDeleteRemovesDuplicates(t *testing.T) {
	dir := t.TempDir()
	dup := store.Entry{Label: "d", Command: "x"}
	other := store.Entry{Label: "d", Command: "y"}
	path := seed(t, dir, dup, other, dup)

	h := &host.Scripted{Confirms: []int{1}}
	_, err := New(h).Delete(context.Background(), items(path, dup))
	require.NoError(t, err)
	assert.Equal(t, []store.Entry{other}, store.Load(path))
}

func TestDeleteDeclined(t *testing.T) {
	for _, answer := range []int{2, 0, 3} {
		dir := t.TempDir()
		e := store.Entry{Label: "a", Command: "1"}
		path := seed(t, dir, e)
		h := &host.Scripted{Confirms: []int{answer}}

		flags, err := New(h).Delete(context.Background(), items(path, e))
		require.NoError(t, err)
		assert.Equal(t, Persist, flags)
		assert.Equal(t, []store.Entry{e}, store.Load(path))
	}
}

func TestDeleteOnlyPlaceholder(t *testing.T) {
	h := &host.Scripted{Confirms: []int{1}}

	flags, err := New(h).Delete(context.Background(), []source.Item{placeholder("/p")})
	require.NoError(t, err)
	assert.Equal(t, Persist, flags)
	assert.Empty(t, h.Confirmations())
}

func TestDeleteCountsOnlyRealItems(t *testing.T) {
	dir := t.TempDir()
	e := store.Entry{Label: "a", Command: "1"}
	path := seed(t, dir, e)
	h := &host.Scripted{Confirms: []int{2}}

	_, err := New(h).Delete(context.Background(), append(items(path, e), placeholder(path)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Delete 1 entry(ies)?"}, h.Confirmations())
}

func TestDoDispatch(t *testing.T) {
	h := &host.Scripted{}
	k := New(h)

	assert.Equal(t, []string{"add", "delete", "edit", "execute"}, k.ActionNames())

	flags, err := k.Do(context.Background(), DefaultAction, items("/p", store.Entry{Label: "a", Command: "run"}))
	require.NoError(t, err)
	assert.Equal(t, None, flags)
	assert.Equal(t, []string{"run"}, h.Executed())

	_, err = k.Do(context.Background(), "rename", nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestActionFlagsString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "persist", Persist.String())
	assert.Equal(t, "refreshItems", RefreshItems.String())
	assert.Equal(t, "ActionFlags(9)", ActionFlags(9).String())
}
