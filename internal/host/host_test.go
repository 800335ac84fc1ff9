package host

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingResolver struct{}

func (failingResolver) DataDirectory(context.Context) (string, error) {
	return "", errors.New("no directory")
}

func TestResolveDataPath(t *testing.T) {
	got, err := ResolveDataPath(context.Background(), StaticDirectory("/tmp/data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/data", "cmdl.json"), got)

	_, err = ResolveDataPath(context.Background(), failingResolver{})
	assert.ErrorContains(t, err, "no directory")
}

func TestScriptedAnswersInOrder(t *testing.T) {
	ctx := context.Background()
	s := &Scripted{Inputs: []string{"first", "second"}, Confirms: []int{2}}

	a, err := s.Input(ctx, "Label: ", "")
	require.NoError(t, err)
	b, err := s.Input(ctx, "Command: ", "pre")
	require.NoError(t, err)
	c, err := s.Input(ctx, "Extra: ", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", ""}, []string{a, b, c})
	assert.Equal(t, []Prompt{{"Label: ", ""}, {"Command: ", "pre"}, {"Extra: ", ""}}, s.Prompts())

	n, err := s.Confirm(ctx, "Sure?", "&Yes\n&No", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = s.Confirm(ctx, "Again?", "&Yes\n&No", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{"Sure?", "Again?"}, s.Confirmations())
}

func TestScriptedExecuteRecordsAndRuns(t *testing.T) {
	var ran []string
	s := &Scripted{Run: func(_ context.Context, c string) error {
		ran = append(ran, c)
		if c == "boom" {
			return errors.New("boom failed")
		}
		return nil
	}}

	require.NoError(t, s.Execute(context.Background(), "ok"))
	assert.Error(t, s.Execute(context.Background(), "boom"))
	assert.Equal(t, []string{"ok", "boom"}, s.Executed())
	assert.Equal(t, []string{"ok", "boom"}, ran)
}

func TestScriptedHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scripted{Inputs: []string{"x"}}
	_, err := s.Input(ctx, "Label: ", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompose(t *testing.T) {
	s := &Scripted{Inputs: []string{"x"}}
	h := Compose(StaticDirectory("/d"), s, s)

	dir, err := h.DataDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/d", dir)

	got, err := h.Input(context.Background(), "p", "")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestParseChoices(t *testing.T) {
	choices := ParseChoices("&Yes\n&No")
	require.Len(t, choices, 2)
	assert.Equal(t, Choice{Label: "Yes", Key: 'y'}, choices[0])
	assert.Equal(t, Choice{Label: "No", Key: 'n'}, choices[1])
	assert.Equal(t, "[Y]es", choices[0].Accelerated())

	plain := ParseChoices("Save\nDis&card\n")
	require.Len(t, plain, 2)
	assert.Equal(t, 's', plain[0].Key)
	assert.Equal(t, Choice{Label: "Discard", Key: 'c'}, plain[1])
	assert.Equal(t, "Dis[c]ard", plain[1].Accelerated())
}

func TestChoiceForKey(t *testing.T) {
	choices := ParseChoices("&Yes\n&No")
	tests := []struct {
		key  string
		want int
	}{
		{"y", 1},
		{"Y", 1},
		{"n", 2},
		{" yes ", 1},
		{"NO", 2},
		{"x", 0},
		{"ctrl+x", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ChoiceForKey(choices, tt.key))
		})
	}
}
