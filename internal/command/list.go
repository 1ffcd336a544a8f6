package command

import (
	"strconv"
	"strings"

	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/textstructure"
)

// EnterInList implements spec.md §4.4's "Enter in list item": splitting a
// nonempty item at the cursor, or un-marking an empty one, with ordered
// siblings renumbered either way.
func EnterInList(ts *textstructure.TextStructure, text string, cursor int) ([]change.Change, bool) {
	itemIdx, itemDesc, ok := ts.FindSpanAt(textstructure.ListItem, cursor)
	if !ok {
		return nil, false
	}

	if cursor == itemDesc.Span.Start {
		return nil, false
	}

	lineStart, lineEnd := lineBounds(text, itemDesc.Span.Start)
	if cursor > lineEnd {
		return nil, false
	}

	info, ok := parseListLine(text, lineStart, lineEnd)
	if !ok {
		return nil, false
	}

	listIdx := itemDesc.Parent

	if strings.TrimSpace(text[info.markerEnd:lineEnd]) == "" {
		changes := []change.Change{
			replace(bytespan.New(lineStart, info.markerEnd), change.Cursor),
		}

		if info.ordered {
			changes = append(changes, renumberFollowing(ts, text, listIdx, itemIdx, -1)...)
		}

		return changes, true
	}

	depthTabs := strings.Repeat("\t", info.depth)

	var marker string
	if info.ordered {
		marker = depthTabs + strconv.Itoa(info.ordinal+1) + ". "
	} else {
		marker = depthTabs + string(info.bulletChar) + " "
	}

	changes := []change.Change{
		insertAt(cursor, "\n"+marker+change.Cursor),
	}

	if info.ordered {
		changes = append(changes, renumberFollowing(ts, text, listIdx, itemIdx, 1)...)
	}

	return changes, true
}

// renumberFollowing shifts the ordinal of every ordered sibling of listIdx
// that comes after afterItemIdx by delta, leaving unordered siblings alone.
func renumberFollowing(
	ts *textstructure.TextStructure,
	text string,
	listIdx, afterItemIdx textstructure.SpanIndex,
	delta int,
) []change.Change {
	var changes []change.Change

	for _, entry := range ts.IterateImmediateChildrenOf(listIdx) {
		if entry.Index <= afterItemIdx {
			continue
		}

		lineStart, lineEnd := lineBounds(text, entry.Desc.Span.Start)

		info, ok := parseListLine(text, lineStart, lineEnd)
		if !ok || !info.ordered {
			continue
		}

		changes = append(changes, replace(bytespan.New(info.ordinalStart, info.ordinalEnd), strconv.Itoa(info.ordinal+delta)))
	}

	return changes
}

// TabInList implements spec.md §4.4's "Tab in list item": demote the item
// one level, rotating its unordered marker or resetting its ordinal to 1,
// and recursively demote every descendant item the same way.
func TabInList(ts *textstructure.TextStructure, text string, cursor int) ([]change.Change, bool) {
	itemIdx, itemDesc, ok := ts.FindSpanAt(textstructure.ListItem, cursor)
	if !ok {
		return nil, false
	}

	if strings.Contains(text[itemDesc.Span.Start:cursor], "\n") {
		return nil, false
	}

	lineStart, lineEnd := lineBounds(text, itemDesc.Span.Start)

	info, ok := parseListLine(text, lineStart, lineEnd)
	if !ok {
		return nil, false
	}

	var changes []change.Change

	if info.ordered {
		listIdx := itemDesc.Parent
		changes = append(changes,
			insertAt(lineStart, "\t"),
			replace(bytespan.New(info.ordinalStart, info.ordinalEnd), "1"),
		)
		changes = append(changes, renumberFollowing(ts, text, listIdx, itemIdx, -1)...)
	} else {
		changes = append(changes,
			insertAt(lineStart, "\t"),
			replace(bytespan.New(info.bulletPos, info.bulletPos+1), string(nextBullet(info.bulletChar))),
		)
	}

	changes = append(changes, indentDescendants(ts, text, itemIdx)...)

	return changes, true
}

// indentDescendants prepends one tab to every list-item descendant of
// itemIdx, rotating each descendant's own unordered bullet the same way
// (ordered descendants keep their ordinal; only their depth shifts).
func indentDescendants(ts *textstructure.TextStructure, text string, itemIdx textstructure.SpanIndex) []change.Change {
	var changes []change.Change

	for _, entry := range ts.IterateChildrenRecursivelyOf(itemIdx) {
		if entry.Desc.Kind != textstructure.ListItem {
			continue
		}

		lineStart, lineEnd := lineBounds(text, entry.Desc.Span.Start)

		info, ok := parseListLine(text, lineStart, lineEnd)
		if !ok {
			continue
		}

		changes = append(changes, insertAt(lineStart, "\t"))

		if !info.ordered {
			changes = append(changes, replace(bytespan.New(info.bulletPos, info.bulletPos+1), string(nextBullet(info.bulletChar))))
		}
	}

	return changes
}

// ShiftTabInList implements spec.md §4.4's "Shift+Tab in list item": dedent
// by one level. Only defined for unordered lists at depth > 0.
func ShiftTabInList(ts *textstructure.TextStructure, text string, cursor int) ([]change.Change, bool) {
	_, itemDesc, ok := ts.FindSpanAt(textstructure.ListItem, cursor)
	if !ok {
		return nil, false
	}

	if strings.Contains(text[itemDesc.Span.Start:cursor], "\n") {
		return nil, false
	}

	lineStart, lineEnd := lineBounds(text, itemDesc.Span.Start)

	info, ok := parseListLine(text, lineStart, lineEnd)
	if !ok || info.ordered || info.depth == 0 {
		return nil, false
	}

	newBullet := prevBullet(info.bulletChar)

	return []change.Change{
		replace(bytespan.New(lineStart, lineStart+1), ""),
		replace(bytespan.New(info.bulletPos, info.bulletPos+1), string(newBullet)),
	}, true
}

// SpaceAfterBrackets implements spec.md §4.4's checkbox expansion: typing a
// space right after "[]" at the start of a bare line or an existing list
// item's content expands it to a task checkbox, never inside a code block.
func SpaceAfterBrackets(ts *textstructure.TextStructure, text string, cursor int) ([]change.Change, bool) {
	if _, _, ok := ts.FindSpanAt(textstructure.CodeBlock, cursor); ok {
		return nil, false
	}

	if cursor < 2 || text[cursor-2:cursor] != "[]" {
		return nil, false
	}

	bracketStart := cursor - 2
	lineStart, _ := lineBounds(text, cursor)

	prefix := ""

	if bracketStart == lineStart {
		prefix = "- "
	} else {
		_, itemDesc, ok := ts.FindSpanAt(textstructure.ListItem, cursor)
		if !ok {
			return nil, false
		}

		itemLineStart, itemLineEnd := lineBounds(text, itemDesc.Span.Start)

		info, ok := parseListLine(text, itemLineStart, itemLineEnd)
		if !ok || info.markerEnd != bracketStart {
			return nil, false
		}
	}

	return []change.Change{
		replace(bytespan.New(bracketStart, cursor), prefix+"[ ]"+change.Cursor),
	}, true
}
