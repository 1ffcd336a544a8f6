// Package bytespan implements half-open byte ranges over UTF-8 buffers and
// the relation algebra the text engine uses to reason about overlap.
package bytespan

// Relation classifies how span A relates to span B.
type Relation uint8

const (
	// Before means A ends at or before B starts.
	Before Relation = iota
	// After means A starts at or after B ends.
	After
	// Equal means A and B cover exactly the same range.
	Equal
	// Inside means A is a proper sub-range of B.
	Inside
	// Contains means B is a proper sub-range of A.
	Contains
	// StartInside means A's start lies within B but A's end does not.
	StartInside
	// EndInside means A's end lies within B but A's start does not.
	EndInside
)

// Span is a normalized half-open byte range [Start, End) with Start <= End.
type Span struct {
	Start int
	End   int
}

// New returns a normalized span; start/end are swapped if given reversed.
func New(a, b int) Span {
	if a <= b {
		return Span{Start: a, End: b}
	}

	return Span{Start: b, End: a}
}

// Point returns a zero-width span at offset.
func Point(offset int) Span {
	return Span{Start: offset, End: offset}
}

// Len returns End - Start.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span has zero width.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Contains reports whether offset lies within [Start, End).
// A zero-width span never contains any offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// ContainsInclusive reports whether offset lies within [Start, End],
// useful for cursor-at-boundary checks (a caret can sit at End).
func (s Span) ContainsInclusive(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

// Shift returns a copy of s with both bounds shifted by delta.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// Relate computes the relation of s (A) to other (B).
//
//nolint:cyclop // relation table is inherently a flat case analysis
func (s Span) Relate(other Span) Relation {
	switch {
	case s == other:
		return Equal
	case s.End <= other.Start:
		return Before
	case s.Start >= other.End:
		return After
	case s.Start >= other.Start && s.End <= other.End:
		return Inside
	case s.Start <= other.Start && s.End >= other.End:
		return Contains
	case s.Start < other.Start && s.End > other.Start && s.End < other.End:
		return EndInside
	case s.Start > other.Start && s.Start < other.End && s.End >= other.End:
		return StartInside
	default:
		return Before
	}
}

// Overlaps reports whether the relation implies the two ranges share bytes,
// per spec.md's change-engine overlap rule: StartInside, EndInside, Inside,
// Equal, Contains are all considered overlapping.
func (r Relation) Overlaps() bool {
	switch r {
	case StartInside, EndInside, Inside, Equal, Contains:
		return true
	default:
		return false
	}
}

// Unordered remembers caret direction: Anchor is where the selection/caret
// started, Head is where it currently points. A point caret has
// Anchor == Head.
type Unordered struct {
	Anchor int
	Head   int
}

// UnorderedPoint returns a zero-width unordered span at offset.
func UnorderedPoint(offset int) Unordered {
	return Unordered{Anchor: offset, Head: offset}
}

// Ordered normalizes to a Span, discarding direction.
func (u Unordered) Ordered() Span {
	return New(u.Anchor, u.Head)
}

// Reversed reports whether Head precedes Anchor (caret moving backward).
func (u Unordered) Reversed() bool {
	return u.Head < u.Anchor
}

// Empty reports whether Anchor == Head.
func (u Unordered) Empty() bool {
	return u.Anchor == u.Head
}

// WithOrdered rebuilds an Unordered span from a normalized Span, preserving
// this span's prior direction (start > end when previously Reversed()).
func (u Unordered) WithOrdered(s Span) Unordered {
	if u.Reversed() {
		return Unordered{Anchor: s.End, Head: s.Start}
	}

	return Unordered{Anchor: s.Start, Head: s.End}
}
