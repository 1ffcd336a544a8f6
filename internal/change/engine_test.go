package change_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/shelverrs"
)

func TestCursorExtractionFromString(t *testing.T) {
	plain, caret, ok := change.TryExtractCursor("- a" + change.Cursor + "b")
	require.True(t, ok)
	assert.Equal(t, "- ab", plain)
	assert.Equal(t, bytespan.New(3, 3), caret)

	plain, caret, ok = change.TryExtractCursor("- " + change.CursorEdge + "a" + change.CursorEdge + "b")
	require.True(t, ok)
	assert.Equal(t, "- ab", plain)
	assert.Equal(t, bytespan.New(2, 3), caret)

	unterminated := "- a" + change.CursorEdge + "b"
	plain, _, ok = change.TryExtractCursor(unterminated)
	assert.False(t, ok)
	assert.Equal(t, unterminated, plain)
}

func TestEncodeCursorRoundTrips(t *testing.T) {
	point := change.EncodeCursor("helloworld", bytespan.UnorderedPoint(5))
	assert.Equal(t, "hello"+change.Cursor+"world", point)

	selection := change.EncodeCursor("abcd", bytespan.Unordered{Anchor: 1, Head: 3})
	assert.Equal(t, "a"+change.CursorEdge+"bc"+change.CursorEdge+"d", selection)
}

func TestSeveralTextChangesInOrder(t *testing.T) {
	text := "a b"
	aPos, bPos := 0, 2

	changes := []change.Change{
		{Range: bytespan.New(aPos, aPos+1), Replacement: "hello"},
		{Range: bytespan.New(bPos, bPos+1), Replacement: "world"},
		{Range: bytespan.New(bPos+1, bPos+1), Replacement: "!"},
	}

	prior := bytespan.UnorderedPoint(0)

	out, _, err := change.Apply(text, &prior, changes)
	require.NoError(t, err)
	assert.Equal(t, "hello world!", out)
}

func TestSeveralTextChangesOutOfOrder(t *testing.T) {
	text := "a b"
	aPos, bPos := 0, 2

	changes := []change.Change{
		{Range: bytespan.New(bPos+1, bPos+1), Replacement: "!"},
		{Range: bytespan.New(bPos, bPos+1), Replacement: "world"},
		{Range: bytespan.New(aPos, aPos+1), Replacement: "hello"},
	}

	prior := bytespan.UnorderedPoint(0)

	out, _, err := change.Apply(text, &prior, changes)
	require.NoError(t, err)
	assert.Equal(t, "hello world!", out)
}

func TestOverlappingTextChangesAreNotAllowed(t *testing.T) {
	text := "a b"
	aPos, bPos := 0, 2

	changes := []change.Change{
		{Range: bytespan.New(aPos, bPos+1), Replacement: "hello"},
		{Range: bytespan.New(bPos, bPos+1), Replacement: "world"},
	}

	prior := bytespan.UnorderedPoint(0)

	_, _, err := change.Apply(text, &prior, changes)
	require.Error(t, err)

	var overlapErr *shelverrs.OverlappingChangesError
	require.ErrorAs(t, err, &overlapErr)
}

func TestCursorAdjacentCursorInsideReplacement(t *testing.T) {
	plain, caret, ok := change.TryExtractCursor("ab" + change.Cursor + "cd")
	require.True(t, ok)

	start, end := 1, 3 // "b" then "d" in "abcd"

	changes := []change.Change{
		{Range: bytespan.New(start, end), Replacement: "oops"},
		{Range: bytespan.New(0, 1), Replacement: ""},
	}

	prior := bytespan.Unordered{Anchor: caret.Start, Head: caret.End}

	out, newCaret, err := change.Apply(plain, &prior, changes)
	require.NoError(t, err)
	assert.Equal(t, "{|}oops{|}d", change.EncodeCursor(out, *newCaret))
}

func TestCursorAdjacentSelectionContainsReplacement(t *testing.T) {
	plain, caret, ok := change.TryExtractCursor("a" + change.CursorEdge + "bcde" + change.CursorEdge + "f")
	require.True(t, ok)

	changes := []change.Change{
		{Range: bytespan.New(2, 5), Replacement: "oops"}, // "c".."f" -> "cde"
		{Range: bytespan.New(0, 1), Replacement: ""},
	}

	prior := bytespan.Unordered{Anchor: caret.Start, Head: caret.End}

	out, newCaret, err := change.Apply(plain, &prior, changes)
	require.NoError(t, err)
	assert.Equal(t, "{|}boops{|}f", change.EncodeCursor(out, *newCaret))
}

func TestCursorAdjacentSelectionStartInsideReplacement(t *testing.T) {
	plain, caret, ok := change.TryExtractCursor("ab" + change.CursorEdge + "cd" + change.CursorEdge + "e")
	require.True(t, ok)

	changes := []change.Change{
		{Range: bytespan.New(1, 3), Replacement: "oops"}, // "b".."d" -> "bc"
		{Range: bytespan.New(len(plain), len(plain)), Replacement: "!"},
	}

	prior := bytespan.Unordered{Anchor: caret.Start, Head: caret.End}

	out, newCaret, err := change.Apply(plain, &prior, changes)
	require.NoError(t, err)
	assert.Equal(t, "a{|}oopsd{|}e!", change.EncodeCursor(out, *newCaret))
}

func TestCursorAdjacentSelectionEndInsideReplacement(t *testing.T) {
	plain, caret, ok := change.TryExtractCursor("ab" + change.CursorEdge + "cd" + change.CursorEdge + "efj")
	require.True(t, ok)

	changes := []change.Change{
		{Range: bytespan.New(3, 6), Replacement: "oops"}, // "d".."j" -> "def"
		{Range: bytespan.New(0, 1), Replacement: "!!"},
	}

	prior := bytespan.Unordered{Anchor: caret.Start, Head: caret.End}

	out, newCaret, err := change.Apply(plain, &prior, changes)
	require.NoError(t, err)
	assert.Equal(t, "!!b{|}coops{|}j", change.EncodeCursor(out, *newCaret))
}
