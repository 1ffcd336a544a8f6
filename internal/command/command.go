// Package command implements the pure editor command catalog of spec.md
// §4.4: functions of (structure, text, cursor) that return a batch of text
// changes, or decline so the caller's default key handling takes over.
package command

import (
	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/textstructure"
)

// Command is a pure function (structure, text, cursor) -> text changes.
// ok == false means the command does not apply at this cursor; the caller
// should fall through to default behavior.
type Command func(ts *textstructure.TextStructure, text string, cursor int) (changes []change.Change, ok bool)

// SelectionCommand is a Command whose behavior depends on a selection
// rather than a single caret (the markdown style/code-block toggles of
// spec.md §4.4, which wrap or unwrap "the selection").
type SelectionCommand func(ts *textstructure.TextStructure, text string, selection bytespan.Unordered) (changes []change.Change, ok bool)

// insertAt returns a single zero-width insertion change at offset.
func insertAt(offset int, s string) change.Change {
	return change.Change{Range: bytespan.Point(offset), Replacement: s}
}

// replace returns a single replacement change over span.
func replace(span bytespan.Span, s string) change.Change {
	return change.Change{Range: span, Replacement: s}
}
