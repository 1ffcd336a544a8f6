package textstructure

import (
	"sort"

	"github.com/twop/shelv/internal/bytespan"
)

var styledKinds = map[SpanKind]StyleKind{
	Bold:       StyleBold,
	Emphasis:   StyleEmphasis,
	Strike:     StyleStrike,
	Text:       StyleText,
	TaskMarker: StyleTaskMarker,
	InlineCode: StyleInlineCode,
	CodeBlock:  StyleCodeBlock,
	Heading:    StyleHeading,
}

// buildAnnotationPoints rebuilds ts.AnnotationPoints from ts.Spans and
// ts.RawLinks per spec.md §4.1: a Start/End pair per styled span, an extra
// Strike pair over a checked TaskMarker's enclosing ListItem content, and a
// Link pair per raw link, stably sorted by offset.
func (ts *TextStructure) buildAnnotationPoints() {
	var points []AnnotationPoint

	for i, s := range ts.Spans {
		style, ok := styledKinds[s.Kind]
		if !ok {
			continue
		}
		points = append(points,
			AnnotationPoint{Offset: s.Span.Start, Boundary: Start, Style: style, HeadingLevel: s.HeadingLevel},
			AnnotationPoint{Offset: s.Span.End, Boundary: End, Style: style, HeadingLevel: s.HeadingLevel},
		)

		if s.Kind == TaskMarker {
			if meta, ok := ts.Metadata[SpanIndex(i)].(TaskMarkerMeta); ok && meta.Checked {
				if content, ok := ts.strikeRangeForTaskMarker(SpanIndex(i)); ok {
					points = append(points,
						AnnotationPoint{Offset: content.Start, Boundary: Start, Style: StyleStrike},
						AnnotationPoint{Offset: content.End, Boundary: End, Style: StyleStrike},
					)
				}
			}
		}
	}

	for _, rl := range ts.RawLinks {
		points = append(points,
			AnnotationPoint{Offset: rl.Span.Start, Boundary: Start, Style: StyleLink},
			AnnotationPoint{Offset: rl.Span.End, Boundary: End, Style: StyleLink},
		)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Offset < points[j].Offset
	})

	ts.AnnotationPoints = points
}

// strikeRangeForTaskMarker returns the enclosing ListItem's inner content
// range for a checked TaskMarker, used to render strike-through over the
// whole completed item (spec.md §4.1).
func (ts *TextStructure) strikeRangeForTaskMarker(marker SpanIndex) (bytespan.Span, bool) {
	itemIdx := ts.Spans[marker].Parent
	item, found := ts.Span(itemIdx)
	if !found || item.Kind != ListItem {
		return bytespan.Span{}, false
	}

	return ts.GetSpanInnerContent(itemIdx)
}
