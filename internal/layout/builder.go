package layout

import (
	"github.com/twop/shelv/internal/textstructure"
	"github.com/twop/shelv/internal/theme"
)

// Run is one styled, contiguous slice of the rendered buffer. Highlighted
// is non-nil only for runs that are the body of a fenced code block; a
// renderer should prefer it over Style when present (spec.md §4.2).
type Run struct {
	Text        string
	Style       Style
	Highlighted []ColoredSlice
}

const numStyleKinds = int(textstructure.StyleLink) + 1

// Build walks ts.AnnotationPoints with a running counter per style kind and
// emits the sequence of styled runs covering text end-to-end, per
// spec.md §4.2. hl may be nil, in which case code-block bodies fall back to
// a single-color DefaultHighlighter.
func Build(text string, ts *textstructure.TextStructure, th *theme.Theme, hl Highlighter) []Run {
	if th == nil {
		th = theme.Current()
	}
	if hl == nil {
		hl = NewDefaultHighlighter(string(th.Code))
	}

	var (
		runs         []Run
		counters     [numStyleKinds]int
		headingStack []int
		prev         int
	)

	headingLevel := func() int {
		if len(headingStack) == 0 {
			return 0
		}

		return headingStack[len(headingStack)-1]
	}

	emit := func(start, end int) {
		if end <= start {
			return
		}
		slice := text[start:end]

		if counters[textstructure.StyleCodeBlock] > 0 && counters[textstructure.StyleText] > 0 {
			lang := ""
			if _, _, meta, ok := ts.FindSurroundingSpanWithMeta(textstructure.CodeBlock, start); ok {
				if cb, ok := meta.(textstructure.CodeBlockMeta); ok {
					lang = cb.Lang
				}
			}
			runs = append(runs, Run{
				Text:        slice,
				Style:       resolveStyle(th, counters, headingLevel()),
				Highlighted: hl.Highlight(slice, lang),
			})

			return
		}

		runs = append(runs, Run{Text: slice, Style: resolveStyle(th, counters, headingLevel())})
	}

	for _, pt := range ts.AnnotationPoints {
		emit(prev, pt.Offset)
		prev = pt.Offset

		switch pt.Boundary {
		case textstructure.Start:
			counters[pt.Style]++
			if pt.Style == textstructure.StyleHeading {
				headingStack = append(headingStack, pt.HeadingLevel)
			}
		case textstructure.End:
			counters[pt.Style]--
			if pt.Style == textstructure.StyleHeading && len(headingStack) > 0 {
				headingStack = headingStack[:len(headingStack)-1]
			}
		}
	}
	emit(prev, len(text))

	return runs
}

// resolveStyle derives a single Style from the active counters and theme,
// per spec.md §4.2: heading level dominates font size/color; bold/inline
// code choose the base color family; emphasis, link-underline, strike and
// task-marker highlight are then layered on as independent attributes.
func resolveStyle(th *theme.Theme, counters [numStyleKinds]int, headingLevel int) Style {
	st := Style{Color: th.Text}

	switch {
	case counters[textstructure.StyleHeading] > 0:
		st.HeadingLevel = headingLevel
		st.Color = th.HeadingColor(headingLevel)
		st.Bold = true
	case counters[textstructure.StyleInlineCode] > 0:
		st.Color = th.Code
		st.Background = th.CodeBg
		st.InlineCode = true
	case counters[textstructure.StyleBold] > 0:
		st.Color = th.Bold
		st.Bold = true
	case counters[textstructure.StyleEmphasis] > 0:
		st.Color = th.Emphasis
	}

	if counters[textstructure.StyleEmphasis] > 0 {
		st.Italic = true
	}
	if counters[textstructure.StyleLink] > 0 {
		st.Underline = true
		if st.HeadingLevel == 0 {
			st.Color = th.Link
		}
	}
	if counters[textstructure.StyleStrike] > 0 {
		st.Strikethrough = true
		if st.HeadingLevel == 0 {
			st.Color = th.Strike
		}
	}
	if counters[textstructure.StyleTaskMarker] > 0 {
		st.Background = th.TaskMark
	}

	return st
}
