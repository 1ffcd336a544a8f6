package textstructure

import "github.com/twop/shelv/internal/bytespan"

// FindSpanAt returns the innermost span of the requested kind whose byte
// range contains cursor, scanning in reverse document order so the most
// deeply nested match (which always appears after its ancestors in the
// flat DFS vector) wins.
func (ts *TextStructure) FindSpanAt(kind SpanKind, cursor int) (SpanIndex, SpanDesc, bool) {
	for i := len(ts.Spans) - 1; i >= 0; i-- {
		s := ts.Spans[i]
		if s.Kind == kind && s.Span.ContainsInclusive(cursor) {
			return SpanIndex(i), s, true
		}
	}

	return 0, SpanDesc{}, false
}

// FindAnySpanAt returns the innermost span of any kind (excluding Root)
// whose byte range contains cursor.
func (ts *TextStructure) FindAnySpanAt(cursor int) (SpanIndex, SpanDesc, bool) {
	for i := len(ts.Spans) - 1; i >= 1; i-- {
		s := ts.Spans[i]
		if s.Span.ContainsInclusive(cursor) {
			return SpanIndex(i), s, true
		}
	}

	return 0, SpanDesc{}, false
}

// FindSurroundingSpanWithMeta is FindSpanAt plus the span's metadata, if any.
func (ts *TextStructure) FindSurroundingSpanWithMeta(
	kind SpanKind,
	cursor int,
) (SpanIndex, SpanDesc, any, bool) {
	idx, desc, ok := ts.FindSpanAt(kind, cursor)
	if !ok {
		return 0, SpanDesc{}, nil, false
	}

	return idx, desc, ts.Metadata[idx], true
}

// ParentEntry is one step of IterateParentsOf: the ancestor's index and
// descriptor.
type ParentEntry struct {
	Index SpanIndex
	Desc  SpanDesc
}

// IterateParentsOf walks Parent pointers from index up to (and including)
// Root, yielding (index, desc) pairs from the immediate parent outward.
func (ts *TextStructure) IterateParentsOf(index SpanIndex) []ParentEntry {
	var out []ParentEntry
	cur := index
	for cur != RootIndex {
		desc, ok := ts.Span(cur)
		if !ok {
			break
		}
		parent := desc.Parent
		parentDesc, ok := ts.Span(parent)
		if !ok {
			break
		}
		out = append(out, ParentEntry{Index: parent, Desc: parentDesc})
		cur = parent
	}

	return out
}

// IterateImmediateChildrenOf returns the direct children of index, relying
// on the DFS-order invariant that children occupy a contiguous range
// starting at index+1.
func (ts *TextStructure) IterateImmediateChildrenOf(index SpanIndex) []ParentEntry {
	var out []ParentEntry
	for i := int(index) + 1; i < len(ts.Spans); i++ {
		d := ts.Spans[i]
		if d.Parent == index {
			out = append(out, ParentEntry{Index: SpanIndex(i), Desc: d})

			continue
		}
		if !ts.isDescendantOf(SpanIndex(i), index) {
			break
		}
	}

	return out
}

// IterateChildrenRecursivelyOf returns every descendant of index (not just
// immediate children), stopping once the contiguous DFS run belonging to
// index's subtree ends.
func (ts *TextStructure) IterateChildrenRecursivelyOf(index SpanIndex) []ParentEntry {
	var out []ParentEntry
	for i := int(index) + 1; i < len(ts.Spans); i++ {
		if !ts.isDescendantOf(SpanIndex(i), index) {
			break
		}
		out = append(out, ParentEntry{Index: SpanIndex(i), Desc: ts.Spans[i]})
	}

	return out
}

func (ts *TextStructure) isDescendantOf(index, ancestor SpanIndex) bool {
	cur := index
	for cur != RootIndex {
		d, ok := ts.Span(cur)
		if !ok {
			return false
		}
		if d.Parent == ancestor {
			return true
		}
		cur = d.Parent
	}

	return false
}

// GetSpanInnerContent returns the content sub-range of a span, excluding
// markdown markers, per spec.md §4.1's per-kind rules.
func (ts *TextStructure) GetSpanInnerContent(index SpanIndex) (bytespan.Span, bool) {
	d, ok := ts.Span(index)
	if !ok {
		return bytespan.Span{}, false
	}

	switch d.Kind {
	case Bold, Strike:
		return trimmed(d.Span, 2, 2), true
	case Emphasis, InlineCode:
		return trimmed(d.Span, 1, 1), true
	case Text, TaskMarker, MdLink, Image, Html:
		return d.Span, true
	case Paragraph, Heading, ListItem, CodeBlock, List:
		children := ts.IterateImmediateChildrenOf(index)
		if len(children) == 0 {
			return bytespan.Point(d.Span.Start), true
		}
		start := children[0].Desc.Span.Start
		end := children[0].Desc.Span.End
		for _, c := range children[1:] {
			if c.Desc.Span.Start < start {
				start = c.Desc.Span.Start
			}
			if c.Desc.Span.End > end {
				end = c.Desc.Span.End
			}
		}

		return bytespan.New(start, end), true
	default:
		return d.Span, true
	}
}

func trimmed(s bytespan.Span, left, right int) bytespan.Span {
	start := s.Start + left
	end := s.End - right
	if start > end {
		start = end
	}

	return bytespan.Span{Start: start, End: end}
}

// CodeBlockResult is one match yielded by FilterMapCodeBlocks.
type CodeBlockResult[T any] struct {
	Index  SpanIndex
	Desc   SpanDesc
	Meta   CodeBlockMeta
	Result T
}

// FilterMapCodeBlocks visits every CodeBlock span, invoking f on its
// language tag, and collects the spans for which f returned ok == true.
func FilterMapCodeBlocks[T any](ts *TextStructure, f func(lang string) (T, bool)) []CodeBlockResult[T] {
	var out []CodeBlockResult[T]
	for i, s := range ts.Spans {
		if s.Kind != CodeBlock {
			continue
		}
		meta, _ := ts.Metadata[SpanIndex(i)].(CodeBlockMeta)
		if r, ok := f(meta.Lang); ok {
			out = append(out, CodeBlockResult[T]{Index: SpanIndex(i), Desc: s, Meta: meta, Result: r})
		}
	}

	return out
}

// InteractivePartKind distinguishes the two kinds of cursor-interactive
// text FindInteractiveTextPart can return.
type InteractivePartKind uint8

const (
	InteractiveNone InteractivePartKind = iota
	InteractiveTaskMarker
	InteractiveLink
)

// InteractivePart is the result of FindInteractiveTextPart.
type InteractivePart struct {
	Kind    InteractivePartKind
	Span    bytespan.Span
	Checked bool
	URL     string
}

// FindInteractiveTextPart returns the TaskMarker or link (markdown or raw)
// intersecting byteCursor, if any (spec.md §4.1).
func (ts *TextStructure) FindInteractiveTextPart(byteCursor int) InteractivePart {
	if idx, desc, ok := ts.FindSpanAt(TaskMarker, byteCursor); ok {
		meta, _ := ts.Metadata[idx].(TaskMarkerMeta)

		return InteractivePart{Kind: InteractiveTaskMarker, Span: desc.Span, Checked: meta.Checked}
	}

	if idx, desc, ok := ts.FindSpanAt(MdLink, byteCursor); ok {
		meta, _ := ts.Metadata[idx].(LinkMeta)

		return InteractivePart{Kind: InteractiveLink, Span: desc.Span, URL: meta.URL}
	}

	for _, rl := range ts.RawLinks {
		if rl.Span.ContainsInclusive(byteCursor) {
			return InteractivePart{Kind: InteractiveLink, Span: rl.Span, URL: rl.URL}
		}
	}

	return InteractivePart{Kind: InteractiveNone}
}
