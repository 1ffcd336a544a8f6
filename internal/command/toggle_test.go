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

// runSelectionCommand extracts caret/selection from annotated, runs cmd,
// and returns the resulting annotated text.
func runSelectionCommand(t *testing.T, annotated string, cmd command.SelectionCommand) string {
	t.Helper()

	plain, caret, ok := change.TryExtractCursor(annotated)
	require.True(t, ok, "fixture must contain a caret literal")

	ts := textstructure.New(plain)
	sel := bytespan.Unordered{Anchor: caret.Start, Head: caret.End}

	changes, ok := cmd(ts, plain, sel)
	require.True(t, ok, "command declined to apply")

	out, newCaret, err := change.Apply(plain, &sel, changes)
	require.NoError(t, err)

	return change.EncodeCursor(out, *newCaret)
}

func TestToggleBoldWrapsSelection(t *testing.T) {
	in := "ab" + change.CursorEdge + "cd" + change.CursorEdge + "ef"
	want := "ab**" + change.CursorEdge + "cd" + change.CursorEdge + "**ef"
	assert.Equal(t, want, runSelectionCommand(t, in, command.ToggleBold))
}

func TestToggleBoldUnwrapsSelectsWholeInner(t *testing.T) {
	in := "x **" + change.CursorEdge + "bo" + change.CursorEdge + "ld** y"
	want := "x " + change.CursorEdge + "bold" + change.CursorEdge + " y"
	assert.Equal(t, want, runSelectionCommand(t, in, command.ToggleBold))
}

func TestToggleCodeBlockUnwrapsToInnerContent(t *testing.T) {
	in := "before \n```\nse" + change.CursorEdge + "lec" + change.CursorEdge + "tion\n```\n after"
	want := "before \n" + change.CursorEdge + "selection\n" + change.CursorEdge + "\n after"
	assert.Equal(t, want, runSelectionCommand(t, in, command.ToggleCodeBlock))
}

func TestToggleHeadingRetargetsDifferentLevel(t *testing.T) {
	in := "## **bold" + change.Cursor + "** heading"
	want := "### **bold" + change.Cursor + "** heading"
	assert.Equal(t, want, runCommand(t, in, command.ToggleHeading(3)))
}

func TestToggleHeadingRemovesSameLevel(t *testing.T) {
	in := "### head" + change.Cursor + "ing"
	want := "head" + change.Cursor + "ing"
	assert.Equal(t, want, runCommand(t, in, command.ToggleHeading(3)))
}

func TestToggleHeadingPrependsInParagraph(t *testing.T) {
	in := "para" + change.Cursor + "graph"
	want := "# " + "para" + change.Cursor + "graph"
	assert.Equal(t, want, runCommand(t, in, command.ToggleHeading(1)))
}
