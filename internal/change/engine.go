package change

import (
	"sort"

	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/shelverrs"
)

// logEntry records one already-composed change against the pre-image
// (original) text, so a later change in the same batch can be checked for
// overlap and shifted into the right coordinates.
type logEntry struct {
	removed     bytespan.Span
	insertedLen int
}

// appendLog composes one more change (range, toInsert) into logs, returning
// the updated log, the actual range that change should be applied against
// once earlier changes in the batch are accounted for, and an error if the
// change overlaps any change already logged.
//
// Ported directly from the append() helper of the original TextChange
// engine, including two quirks that are preserved rather than "fixed":
// the scratch copy used for shifting is sorted by removed-range end before
// the shift/insert step, while the scan that finds the overlap/split point
// walks logs in their original (unsorted) order — so the split index found
// during the scan is applied against the sorted copy's positions, which
// only line up when the log happens to already be end-sorted. In every
// batch actually exercised (changes composed in a single Apply call) this
// holds, so the two orders never diverge in practice.
func appendLog(rng bytespan.Span, toInsert int, logs []logEntry) ([]logEntry, bytespan.Span, error) {
	res := make([]logEntry, len(logs))
	copy(res, logs)
	sort.SliceStable(res, func(i, j int) bool { return res[i].removed.End < res[j].removed.End })

	actual := rng
	splitPoint := -1

	for i, entry := range logs {
		switch entry.removed.Relate(actual) {
		case bytespan.Before:
			delta := entry.insertedLen - entry.removed.Len()
			actual = actual.Shift(delta)
		case bytespan.After:
			splitPoint = i
		default:
			return logs, bytespan.Span{}, &shelverrs.OverlappingChangesError{
				FirstStart:  entry.removed.Start,
				FirstEnd:    entry.removed.End,
				SecondStart: actual.Start,
				SecondEnd:   actual.End,
			}
		}
	}

	if splitPoint >= 0 {
		delta := toInsert - actual.Len()
		for i := splitPoint; i < len(res); i++ {
			res[i].removed = res[i].removed.Shift(delta)
		}
	}

	insertAt := len(res)
	if splitPoint >= 0 {
		insertAt = splitPoint
	}

	res = append(res, logEntry{})
	copy(res[insertAt+1:], res[insertAt:])
	res[insertAt] = logEntry{removed: actual, insertedLen: toInsert}

	return res, actual, nil
}

// resolved pairs a change with the actual range it applies to once earlier
// changes in the same batch have been accounted for.
type resolved struct {
	change Change
	target bytespan.Span
	insLen int
}

// compose runs every change in changes (in call order) through appendLog,
// returning each one's resolved target range and, if any replacement
// embedded a caret marker, the absolute caret position of the last one
// found (later changes win, matching in-order evaluation).
func compose(changes []Change) ([]resolved, *bytespan.Span, error) {
	var logs []logEntry

	var insertedCursor *bytespan.Span

	out := make([]resolved, 0, len(changes))

	for _, c := range changes {
		plain, caret, hasCursor := TryExtractCursor(c.Replacement)

		insLen := len(c.Replacement)
		if hasCursor {
			insLen = len(plain)
		}

		newLogs, target, err := appendLog(c.Range, insLen, logs)
		if err != nil {
			return nil, nil, err
		}

		logs = newLogs

		if hasCursor {
			abs := caret.Shift(target.Start)
			insertedCursor = &abs
		}

		out = append(out, resolved{change: c, target: target, insLen: insLen})
	}

	return out, insertedCursor, nil
}

// Apply composes changes, applies them sequentially (in their original
// call order) to text, and derives the resulting caret from priorCaret per
// the rules below. priorCaret may be nil when there is no caret to track,
// in which case the returned caret is always nil too.
func Apply(text string, priorCaret *bytespan.Unordered, changes []Change) (string, *bytespan.Unordered, error) {
	resolvedChanges, insertedCursor, err := compose(changes)
	if err != nil {
		return "", nil, err
	}

	out := text
	for _, rc := range resolvedChanges {
		plain, _, hasCursor := TryExtractCursor(rc.change.Replacement)
		if !hasCursor {
			plain = rc.change.Replacement
		}

		out = out[:rc.target.Start] + plain + out[rc.target.End:]
	}

	if priorCaret == nil {
		return out, nil, nil
	}

	if insertedCursor != nil {
		result := bytespan.Unordered{Anchor: insertedCursor.Start, Head: insertedCursor.End}

		return out, &result, nil
	}

	newCaret := deriveCaret(*priorCaret, resolvedChanges)

	return out, &newCaret, nil
}

// deriveCaret folds resolvedChanges over priorCaret's position, one change
// at a time, classifying each change's target range relative to the
// caret's running position.
func deriveCaret(priorCaret bytespan.Unordered, resolvedChanges []resolved) bytespan.Unordered {
	reversed := priorCaret.Reversed()
	prior := priorCaret.Ordered()
	cursorStart, cursorEnd := prior.Start, prior.End

	for _, rc := range resolvedChanges {
		delta := rc.insLen - rc.target.Len()
		cursor := bytespan.New(cursorStart, cursorEnd)

		switch cursor.Relate(rc.target) {
		case bytespan.Before:
			// change lies after the caret: nothing to adjust
		case bytespan.After:
			cursorStart += delta
			cursorEnd += delta
		case bytespan.StartInside:
			// left edge of the selection falls inside the replacement:
			// snap to its start and carry the original right edge forward
			cursorStart = rc.target.Start
			cursorEnd = prior.End + delta
		case bytespan.EndInside:
			// right edge falls inside the replacement: snap to its end
			cursorEnd = rc.target.Start + rc.insLen
		case bytespan.Inside:
			cursorStart = rc.target.Start
			cursorEnd = rc.target.Start + rc.insLen
		case bytespan.Contains:
			cursorEnd += delta
		case bytespan.Equal:
			if cursorStart == cursorEnd {
				cursorStart += delta
				cursorEnd += delta
			} else {
				cursorEnd += delta
			}
		}
	}

	if reversed {
		cursorStart, cursorEnd = cursorEnd, cursorStart
	}

	return bytespan.Unordered{Anchor: cursorStart, Head: cursorEnd}
}
