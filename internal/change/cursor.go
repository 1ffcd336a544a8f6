// Package change implements the TextChange engine of spec.md §4.3:
// composing declarative, possibly order-independent buffer edits, checking
// them for overlap, applying them, and re-deriving the caret by a
// principled rule.
package change

import "github.com/twop/shelv/internal/bytespan"

// Caret marker literals for replacement text and test fixtures (spec.md
// §6). CursorEdge brackets a selection; Cursor alone marks a point caret.
const (
	CursorEdge = "{|}"
	Cursor     = "{||}"
)

// Change is a declarative replacement: swap Range for Replacement.
// Replacement may embed at most one caret marker; marker bytes are
// stripped before insertion and contribute zero to the inserted length.
type Change struct {
	Range       bytespan.Span
	Replacement string
}

// TryExtractCursor strips an embedded caret marker from s, returning the
// plain text and the span the marker described. ok is false when s has no
// marker, or an unterminated CursorEdge, in which case s is returned
// unmodified.
func TryExtractCursor(s string) (plain string, caret bytespan.Span, ok bool) {
	if start := indexOfSub(s, Cursor); start >= 0 {
		return s[:start] + s[start+len(Cursor):], bytespan.Point(start), true
	}

	first := indexOfSub(s, CursorEdge)
	if first < 0 {
		return s, bytespan.Span{}, false
	}

	withoutFirst := s[:first] + s[first+len(CursorEdge):]
	second := indexOfSub(withoutFirst, CursorEdge)
	if second < 0 {
		return s, bytespan.Span{}, false
	}

	plain = withoutFirst[:second] + withoutFirst[second+len(CursorEdge):]

	return plain, bytespan.New(first, second), true
}

// EncodeCursor inserts the caret literal for caret into text; the inverse
// of TryExtractCursor.
func EncodeCursor(text string, caret bytespan.Unordered) string {
	ordered := caret.Ordered()
	if ordered.Empty() {
		return text[:ordered.Start] + Cursor + text[ordered.Start:]
	}

	return text[:ordered.Start] + CursorEdge + text[ordered.Start:ordered.End] + CursorEdge + text[ordered.End:]
}

func indexOfSub(s, sub string) int {
	n := len(sub)
	for i := 0; i+n <= len(s); i++ {
		if s[i:i+n] == sub {
			return i
		}
	}

	return -1
}
