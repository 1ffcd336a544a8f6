package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/command"
	"github.com/twop/shelv/internal/textstructure"
)

func TestRegistryResolvesSelectionCommand(t *testing.T) {
	reg := command.NewRegistry()

	entry, ok := reg.Lookup("MarkdownBold")
	require.True(t, ok)
	assert.NotNil(t, entry.Selection)
	assert.Nil(t, entry.Cursor)
	assert.Nil(t, entry.Action)
}

func TestRegistryResolvesCursorCommand(t *testing.T) {
	reg := command.NewRegistry()

	entry, ok := reg.Lookup("TabInList")
	require.True(t, ok)
	assert.NotNil(t, entry.Cursor)
	assert.Nil(t, entry.Selection)
}

func TestRegistryResolvesParameterizedAction(t *testing.T) {
	reg := command.NewRegistry()

	entry, ok := reg.Lookup("SwitchToNote 3")
	require.True(t, ok)
	require.NotNil(t, entry.Action)
	assert.Equal(t, "SwitchToNote", entry.Action.Name)
	assert.Equal(t, 3, entry.Action.Arg)
}

func TestRegistryLookupMissReturnsFalse(t *testing.T) {
	reg := command.NewRegistry()

	_, ok := reg.Lookup("NoSuchCommand")
	assert.False(t, ok)
}

func TestRegistryLookupRejectsNonIntegerArgument(t *testing.T) {
	reg := command.NewRegistry()

	_, ok := reg.Lookup("SwitchToNote abc")
	assert.False(t, ok)
}

func TestRegistryRegisterOverridesBuiltin(t *testing.T) {
	reg := command.NewRegistry()

	custom := command.Entry{Action: &command.Action{Name: "CustomHide"}}
	reg.Register("HideApp", custom)

	entry, ok := reg.Lookup("HideApp")
	require.True(t, ok)
	require.NotNil(t, entry.Action)
	assert.Equal(t, "CustomHide", entry.Action.Name)
}

func TestRegistryPasteClipboardDeclinesWithoutSources(t *testing.T) {
	reg := command.NewRegistry()

	entry, ok := reg.Lookup("PasteClipboard")
	require.True(t, ok)
	require.NotNil(t, entry.Selection)

	ts := textstructure.New("")
	_, ok = entry.Selection(ts, "", bytespan.UnorderedPoint(0))
	assert.False(t, ok)
}

func TestRegistryPasteClipboardUsesProvidedSource(t *testing.T) {
	sources := command.Sources{
		"clipboard": func() (string, bool) { return "pasted", true },
	}
	reg := command.NewRegistryWithSources(sources)

	entry, ok := reg.Lookup("PasteClipboard")
	require.True(t, ok)
	require.NotNil(t, entry.Selection)

	text := "before  after"
	ts := textstructure.New(text)
	sel := bytespan.Unordered{}.WithOrdered(bytespan.New(7, 7))

	changes, ok := entry.Selection(ts, text, sel)
	require.True(t, ok)

	out, _, err := change.Apply(text, nil, changes)
	require.NoError(t, err)
	assert.Equal(t, "before pasted after", out)
}
