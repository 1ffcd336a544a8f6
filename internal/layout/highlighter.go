package layout

import "github.com/lucasb-eyer/go-colorful"

// ColoredSlice is one piece of a highlighted code-block body: a substring
// and the color it should render in.
type ColoredSlice struct {
	Text  string
	Color colorful.Color
}

// Highlighter is the pluggable contract LayoutBuilder invokes over the body
// of a fenced code block (spec.md §4.2). An implementation that returns the
// whole slice in a single default color is always acceptable.
type Highlighter interface {
	Highlight(text, lang string) []ColoredSlice
}

// DefaultHighlighter returns the whole input as one slice in a single
// color, ignoring lang entirely. It is the highlighter LayoutBuilder falls
// back to when none is supplied.
type DefaultHighlighter struct {
	Color colorful.Color
}

// Highlight implements Highlighter.
func (h DefaultHighlighter) Highlight(text, _ string) []ColoredSlice {
	if text == "" {
		return nil
	}

	return []ColoredSlice{{Text: text, Color: h.Color}}
}

// NewDefaultHighlighter builds a DefaultHighlighter from a lipgloss-style
// hex color, falling back to a neutral gray if the color string doesn't
// parse.
func NewDefaultHighlighter(hex string) DefaultHighlighter {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 0.7, G: 0.7, B: 0.7}
	}

	return DefaultHighlighter{Color: c}
}
