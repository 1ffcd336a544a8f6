package layout

import "github.com/charmbracelet/lipgloss"

// Style is the resolved visual treatment for one run of text: the product
// of whichever annotation counters were positive when the run was emitted.
type Style struct {
	Color         lipgloss.Color
	Background    lipgloss.Color
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	InlineCode    bool
	HeadingLevel  int // 0 when the run is not inside a Heading
}

// ToLipgloss renders the style as a lipgloss.Style, following the same
// builder-chain idiom the host application's own styles package uses.
func (s Style) ToLipgloss() lipgloss.Style {
	out := lipgloss.NewStyle().Foreground(s.Color)
	if s.Background != "" {
		out = out.Background(s.Background)
	}
	if s.Bold {
		out = out.Bold(true)
	}
	if s.Italic {
		out = out.Italic(true)
	}
	if s.Strikethrough {
		out = out.Strikethrough(true)
	}
	if s.Underline {
		out = out.Underline(true)
	}

	return out
}
