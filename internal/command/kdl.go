package command

import (
	"strings"

	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/textstructure"
)

// settingsLang is the fenced-block language tag the settings grammar of
// spec.md §4.6 is authored under.
const settingsLang = "settings"

// settingsBlockAt reports the enclosing CodeBlock and its inner content
// span if cursor sits inside a "settings"-language fenced block.
func settingsBlockAt(ts *textstructure.TextStructure, cursor int) (bytespan.Span, bool) {
	idx, desc, ok := ts.FindSpanAt(textstructure.CodeBlock, cursor)
	if !ok {
		return bytespan.Span{}, false
	}

	meta, _ := ts.Metadata[idx].(textstructure.CodeBlockMeta)
	if meta.Lang != settingsLang {
		return bytespan.Span{}, false
	}

	inner, ok := ts.GetSpanInnerContent(idx)
	if !ok {
		return bytespan.Span{}, false
	}

	return inner, true
}

// kdlDepthAt counts the net brace nesting between a settings block's inner
// content start and offset, giving the indent depth a new line at offset
// should carry. It does not special-case braces inside string literals;
// the settings grammar's argument strings rarely contain braces and a
// miscount there only affects auto-indent, never the parsed result.
func kdlDepthAt(text string, innerStart, offset int) int {
	depth := 0

	for i := innerStart; i < offset; i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}

	return depth
}

// IndentKdlChildren implements the "Indent KDL children" command: pressing
// enter inside a settings block's "{ ... }" scope inserts a newline
// indented one tab per enclosing brace, expanding a same-line "{}" into a
// properly indented empty block.
func IndentKdlChildren(ts *textstructure.TextStructure, text string, cursor int) ([]change.Change, bool) {
	inner, ok := settingsBlockAt(ts, cursor)
	if !ok {
		return nil, false
	}

	depth := kdlDepthAt(text, inner.Start, cursor)
	tabs := strings.Repeat("\t", depth)

	if cursor > inner.Start && cursor < inner.End && text[cursor-1] == '{' && text[cursor] == '}' {
		outerTabs := strings.Repeat("\t", depth-1)
		inserted := "\n" + tabs + change.Cursor + "\n" + outerTabs
		return []change.Change{insertAt(cursor, inserted)}, true
	}

	return []change.Change{insertAt(cursor, "\n"+tabs+change.Cursor)}, true
}

// AutoCloseBraceInKdl implements "Bracket auto-close in KDL": typing "{"
// inside a settings block inserts a matching "}" with the caret left
// between them, or wraps the current selection in "{...}" if non-empty.
func AutoCloseBraceInKdl(ts *textstructure.TextStructure, text string, sel bytespan.Unordered) ([]change.Change, bool) {
	ordered := sel.Ordered()

	if _, ok := settingsBlockAt(ts, ordered.Start); !ok {
		return nil, false
	}

	if ordered.Start == ordered.End {
		return []change.Change{replace(bytespan.Point(ordered.Start), "{"+change.Cursor+"}")}, true
	}

	content := text[ordered.Start:ordered.End]
	replacement := "{" + change.CursorEdge + content + change.CursorEdge + "}"

	return []change.Change{replace(ordered, replacement)}, true
}
