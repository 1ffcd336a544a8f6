// Package textstructure turns a markdown buffer into the queryable span
// tree described in spec.md §3-§4.1: a flat, depth-first-ordered vector of
// spans addressed by index, a sparse per-span metadata side table, the
// raw-link index produced by the auto-linker, and the annotation points
// that drive styled-run assembly in internal/layout.
package textstructure

import "github.com/twop/shelv/internal/bytespan"

// SpanIndex is a zero-based position into TextStructure.Spans. Index 0 is
// always the synthetic Root.
type SpanIndex int

// RootIndex is the reserved index of the synthetic document root.
const RootIndex SpanIndex = 0

// SpanKind tags the structural role of a span. Only these kinds are
// recognized; tables, blockquotes, footnotes, HTML blocks and math are
// elided by design (spec.md §1 Non-goals).
type SpanKind uint8

const (
	// Root is the synthetic whole-document container at SpanIndex 0.
	Root SpanKind = iota
	Paragraph
	// Heading carries its level (1..6) in SpanDesc.HeadingLevel.
	Heading
	List
	ListItem
	Bold
	Emphasis
	Strike
	InlineCode
	CodeBlock
	Text
	TaskMarker
	MdLink
	Image
	Html
)

// String names the kind for debugging and test failure messages.
func (k SpanKind) String() string {
	switch k {
	case Root:
		return "Root"
	case Paragraph:
		return "Paragraph"
	case Heading:
		return "Heading"
	case List:
		return "List"
	case ListItem:
		return "ListItem"
	case Bold:
		return "Bold"
	case Emphasis:
		return "Emphasis"
	case Strike:
		return "Strike"
	case InlineCode:
		return "InlineCode"
	case CodeBlock:
		return "CodeBlock"
	case Text:
		return "Text"
	case TaskMarker:
		return "TaskMarker"
	case MdLink:
		return "MdLink"
	case Image:
		return "Image"
	case Html:
		return "Html"
	default:
		return "Unknown"
	}
}

// SpanDesc is the per-span descriptor stored in the flat span vector.
// HeadingLevel is the Go encoding of spec.md's "Heading(level 1..6)"
// variant payload; it is meaningful only when Kind == Heading.
type SpanDesc struct {
	Kind         SpanKind
	Span         bytespan.Span
	Parent       SpanIndex
	HeadingLevel int
}

// CodeBlockMeta is the sparse metadata attached to CodeBlock spans.
type CodeBlockMeta struct {
	Lang string
}

// TaskMarkerMeta is the sparse metadata attached to TaskMarker spans.
type TaskMarkerMeta struct {
	Checked bool
}

// ListMeta is the sparse metadata attached to List spans. StartingIndex
// is non-nil for ordered lists (the first ordinal); nil means bulleted.
type ListMeta struct {
	StartingIndex *uint64
}

// LinkMeta is the sparse metadata attached to MdLink and Image spans.
type LinkMeta struct {
	URL string
}

// RawLink is a plain-text URL discovered by the auto-linker, independent
// of any MdLink span.
type RawLink struct {
	URL  string
	Span bytespan.Span
}

// Boundary marks whether an AnnotationPoint opens or closes a styled run.
type Boundary uint8

const (
	// Start opens a styled run.
	Start Boundary = iota
	// End closes a styled run.
	End
)

// StyleKind enumerates the style dimensions LayoutBuilder walks.
type StyleKind uint8

const (
	StyleBold StyleKind = iota
	StyleEmphasis
	StyleStrike
	StyleText
	StyleTaskMarker
	StyleInlineCode
	StyleCodeBlock
	StyleHeading
	StyleLink
)

// AnnotationPoint is a (offset, Start|End, style) boundary event. The
// sequence is stably sorted by Offset after construction (spec.md §4.1).
type AnnotationPoint struct {
	Offset       int
	Boundary     Boundary
	Style        StyleKind
	HeadingLevel int // meaningful only when Style == StyleHeading
}

// TextStructure is the full parse record of a note's buffer (spec.md §3).
// It holds only offsets and a small number of owned strings in metadata;
// it never aliases the buffer it was built from.
type TextStructure struct {
	Spans            []SpanDesc
	Metadata         map[SpanIndex]any
	RawLinks         []RawLink
	AnnotationPoints []AnnotationPoint
	Generation       uint64

	// text is kept only for the duration of a single build/query cycle so
	// queries can slice out content; it is replaced wholesale on Recycle,
	// never mutated, and is not considered part of the exported surface.
	text string
}

// New builds a TextStructure for the given initial text.
func New(text string) *TextStructure {
	ts := &TextStructure{}
	ts.Recycle(text)

	return ts
}

// Text returns the buffer this structure was last built from.
func (ts *TextStructure) Text() string {
	return ts.text
}

// Span returns the SpanDesc at i, and false if i is out of range.
func (ts *TextStructure) Span(i SpanIndex) (SpanDesc, bool) {
	if i < 0 || int(i) >= len(ts.Spans) {
		return SpanDesc{}, false
	}

	return ts.Spans[i], true
}
