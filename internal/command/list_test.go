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

// runCommand extracts the caret from annotated, runs cmd at that caret, and
// returns the resulting annotated text.
func runCommand(t *testing.T, annotated string, cmd command.Command) string {
	t.Helper()

	plain, caret, ok := change.TryExtractCursor(annotated)
	require.True(t, ok, "fixture must contain a caret literal")

	ts := textstructure.New(plain)

	changes, ok := cmd(ts, plain, caret.Start)
	require.True(t, ok, "command declined to apply")

	prior := bytespan.Unordered{Anchor: caret.Start, Head: caret.End}

	out, newCaret, err := change.Apply(plain, &prior, changes)
	require.NoError(t, err)

	return change.EncodeCursor(out, *newCaret)
}

func TestEnterInListSplitsNonEmptyItem(t *testing.T) {
	assert.Equal(t, "- a\n- "+change.Cursor+"b", runCommand(t, "- a"+change.Cursor+"b", command.EnterInList))
}

func TestEnterInListRemovesEmptyItem(t *testing.T) {
	assert.Equal(t, change.Cursor+"\n- a", runCommand(t, "- "+change.Cursor+"\n- a", command.EnterInList))
}

func TestEnterInListRemovesEmptyNestedOrderedItemAndRenumbers(t *testing.T) {
	in := "1. a\n\t1. " + change.Cursor + "\n\t2. c"
	assert.Equal(t, "1. a\n"+change.Cursor+"\n\t1. c", runCommand(t, in, command.EnterInList))
}

func TestTabInListIndentsAndCascadesToDescendants(t *testing.T) {
	in := "- a\n- b" + change.Cursor + "\n\t- c\n\t\t 1. d"
	want := "- a\n\t* b" + change.Cursor + "\n\t\t* c\n\t\t\t 1. d"
	assert.Equal(t, want, runCommand(t, in, command.TabInList))
}

func TestShiftTabInListDedents(t *testing.T) {
	in := "- a\n\t* b" + change.Cursor
	assert.Equal(t, "- a\n- b"+change.Cursor, runCommand(t, in, command.ShiftTabInList))
}

func TestShiftTabInListDeclinesForOrderedLists(t *testing.T) {
	plain, caret, ok := change.TryExtractCursor("1. a" + change.Cursor)
	require.True(t, ok)

	ts := textstructure.New(plain)

	_, ok = command.ShiftTabInList(ts, plain, caret.Start)
	assert.False(t, ok)
}

func TestSpaceAfterBracketsOnBareLine(t *testing.T) {
	assert.Equal(t, "- [ ]"+change.Cursor+"abc", runCommand(t, "[]"+change.Cursor+"abc", command.SpaceAfterBrackets))
}

func TestSpaceAfterBracketsInsideExistingListItem(t *testing.T) {
	assert.Equal(t, "- [ ]"+change.Cursor, runCommand(t, "- []"+change.Cursor, command.SpaceAfterBrackets))
}

func TestSpaceAfterBracketsDeclinesInsideCodeBlock(t *testing.T) {
	plain, caret, ok := change.TryExtractCursor("```\n[]" + change.Cursor + "\n```")
	require.True(t, ok)

	ts := textstructure.New(plain)

	_, ok = command.SpaceAfterBrackets(ts, plain, caret.Start)
	assert.False(t, ok)
}
