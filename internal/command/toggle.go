package command

import (
	"regexp"
	"strings"

	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/textstructure"
)

// headingPrefixRe recognizes the "#".."######" + whitespace prefix of a
// heading line, matching internal/textstructure/parser.go's headingRe.
var headingPrefixRe = regexp.MustCompile(`^(#{1,6})[ \t]+`)

// toggleStyle implements the shared Bold/Italic/Strike toggle rule of
// spec.md §4.4: remove the enclosing span's delimiters if the selection
// sits inside one, otherwise wrap the selection and select the wrapped
// content (delimiters excluded) in the result.
func toggleStyle(
	ts *textstructure.TextStructure,
	text string,
	sel bytespan.Unordered,
	kind textstructure.SpanKind,
	delim string,
) ([]change.Change, bool) {
	ordered := sel.Ordered()

	if idx, desc, ok := ts.FindSpanAt(kind, ordered.Start); ok && desc.Span.ContainsInclusive(ordered.End) {
		inner, ok := ts.GetSpanInnerContent(idx)
		if !ok {
			return nil, false
		}

		content := text[inner.Start:inner.End]

		return []change.Change{replace(desc.Span, change.CursorEdge+content+change.CursorEdge)}, true
	}

	content := text[ordered.Start:ordered.End]
	replacement := delim + change.CursorEdge + content + change.CursorEdge + delim

	return []change.Change{replace(ordered, replacement)}, true
}

// ToggleBold toggles a "**bold**" span around the selection.
func ToggleBold(ts *textstructure.TextStructure, text string, sel bytespan.Unordered) ([]change.Change, bool) {
	return toggleStyle(ts, text, sel, textstructure.Bold, "**")
}

// ToggleItalic toggles a "*emphasis*" span around the selection.
func ToggleItalic(ts *textstructure.TextStructure, text string, sel bytespan.Unordered) ([]change.Change, bool) {
	return toggleStyle(ts, text, sel, textstructure.Emphasis, "*")
}

// ToggleStrike toggles a "~~strike~~" span around the selection.
func ToggleStrike(ts *textstructure.TextStructure, text string, sel bytespan.Unordered) ([]change.Change, bool) {
	return toggleStyle(ts, text, sel, textstructure.Strike, "~~")
}

// ToggleCodeBlock implements spec.md §4.4's "Code block" toggle: unwrap to
// inner content if the selection is already inside a CodeBlock, otherwise
// fence the selection, padding with a blank line on each side and placing
// the caret on the language line.
func ToggleCodeBlock(ts *textstructure.TextStructure, text string, sel bytespan.Unordered) ([]change.Change, bool) {
	ordered := sel.Ordered()

	if idx, desc, ok := ts.FindSpanAt(textstructure.CodeBlock, ordered.Start); ok && desc.Span.ContainsInclusive(ordered.End) {
		inner, ok := ts.GetSpanInnerContent(idx)
		if !ok {
			return nil, false
		}

		content := text[inner.Start:inner.End]

		return []change.Change{replace(desc.Span, change.CursorEdge+content+change.CursorEdge)}, true
	}

	content := text[ordered.Start:ordered.End]
	replacement := blankLineBefore(text, ordered.Start) + "```" + change.Cursor + "\n" +
		content + "\n```" + blankLineAfter(text, ordered.End)

	return []change.Change{replace(ordered, replacement)}, true
}

// blankLineBefore returns the newlines to insert before pos so a fenced
// block opened there is preceded by a blank line, without duplicating one
// that's already present.
func blankLineBefore(text string, pos int) string {
	if pos == 0 {
		return ""
	}

	if pos >= 2 && text[pos-2:pos] == "\n\n" {
		return ""
	}

	if text[pos-1] == '\n' {
		return "\n"
	}

	return "\n\n"
}

// blankLineAfter is blankLineBefore's mirror for the trailing side.
func blankLineAfter(text string, pos int) string {
	if pos == len(text) {
		return ""
	}

	if pos+2 <= len(text) && text[pos:pos+2] == "\n\n" {
		return ""
	}

	if text[pos] == '\n' {
		return "\n"
	}

	return "\n\n"
}

// ToggleHeading returns a Command implementing spec.md §4.4's "Heading
// H1..H3 (toggle)": remove/retarget/prepend the "#" prefix depending on
// what currently surrounds the cursor.
func ToggleHeading(level int) Command {
	return func(ts *textstructure.TextStructure, text string, cursor int) ([]change.Change, bool) {
		if _, desc, ok := ts.FindSpanAt(textstructure.Heading, cursor); ok {
			m := headingPrefixRe.FindStringIndex(text[desc.Span.Start:desc.Span.End])
			if m == nil {
				return nil, false
			}

			prefixEnd := desc.Span.Start + m[1]

			if desc.HeadingLevel == level {
				return []change.Change{replace(bytespan.New(desc.Span.Start, prefixEnd), "")}, true
			}

			return []change.Change{
				replace(bytespan.New(desc.Span.Start, prefixEnd), strings.Repeat("#", level)+" "),
			}, true
		}

		if _, desc, ok := ts.FindSpanAt(textstructure.Paragraph, cursor); ok {
			return []change.Change{insertAt(desc.Span.Start, strings.Repeat("#", level)+" ")}, true
		}

		if len(text) == 0 {
			return []change.Change{insertAt(0, strings.Repeat("#", level)+" ")}, true
		}

		return nil, false
	}
}
