// Package theme provides the color palette internal/layout resolves
// styled runs against.
package theme

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a complete color palette for rendering a note's styled layout.
type Theme struct {
	Text     lipgloss.Color // default run color
	Muted    lipgloss.Color // de-emphasized chrome (help text, borders)
	Bold     lipgloss.Color
	Emphasis lipgloss.Color
	Strike   lipgloss.Color
	Link     lipgloss.Color
	Code     lipgloss.Color // inline code / code-block fallback foreground
	CodeBg   lipgloss.Color
	TaskMark lipgloss.Color // checked task-marker highlight background
	Headings [6]lipgloss.Color
}

var defaultTheme = &Theme{
	Text:     lipgloss.Color("252"),
	Muted:    lipgloss.Color("240"),
	Bold:     lipgloss.Color("229"),
	Emphasis: lipgloss.Color("222"),
	Strike:   lipgloss.Color("240"),
	Link:     lipgloss.Color("75"),
	Code:     lipgloss.Color("215"),
	CodeBg:   lipgloss.Color("236"),
	TaskMark: lipgloss.Color("42"),
	Headings: [6]lipgloss.Color{
		lipgloss.Color("141"), // H1
		lipgloss.Color("135"),
		lipgloss.Color("99"),
		lipgloss.Color("98"),
		lipgloss.Color("97"),
		lipgloss.Color("96"), // H6
	},
}

var darkTheme = &Theme{
	Text:     lipgloss.Color("255"),
	Muted:    lipgloss.Color("243"),
	Bold:     lipgloss.Color("231"),
	Emphasis: lipgloss.Color("226"),
	Strike:   lipgloss.Color("243"),
	Link:     lipgloss.Color("81"),
	Code:     lipgloss.Color("214"),
	CodeBg:   lipgloss.Color("238"),
	TaskMark: lipgloss.Color("46"),
	Headings: [6]lipgloss.Color{
		lipgloss.Color("213"),
		lipgloss.Color("212"),
		lipgloss.Color("141"),
		lipgloss.Color("140"),
		lipgloss.Color("139"),
		lipgloss.Color("138"),
	},
}

var lightTheme = &Theme{
	Text:     lipgloss.Color("235"),
	Muted:    lipgloss.Color("246"),
	Bold:     lipgloss.Color("16"),
	Emphasis: lipgloss.Color("94"),
	Strike:   lipgloss.Color("246"),
	Link:     lipgloss.Color("25"),
	Code:     lipgloss.Color("130"),
	CodeBg:   lipgloss.Color("253"),
	TaskMark: lipgloss.Color("28"),
	Headings: [6]lipgloss.Color{
		lipgloss.Color("55"),
		lipgloss.Color("61"),
		lipgloss.Color("62"),
		lipgloss.Color("63"),
		lipgloss.Color("68"),
		lipgloss.Color("73"),
	},
}

var solarizedTheme = &Theme{
	Text:     lipgloss.Color("230"),
	Muted:    lipgloss.Color("240"),
	Bold:     lipgloss.Color("230"),
	Emphasis: lipgloss.Color("136"),
	Strike:   lipgloss.Color("240"),
	Link:     lipgloss.Color("33"),
	Code:     lipgloss.Color("64"),
	CodeBg:   lipgloss.Color("235"),
	TaskMark: lipgloss.Color("64"),
	Headings: [6]lipgloss.Color{
		lipgloss.Color("33"),
		lipgloss.Color("37"),
		lipgloss.Color("61"),
		lipgloss.Color("64"),
		lipgloss.Color("125"),
		lipgloss.Color("136"),
	},
}

var monokaiTheme = &Theme{
	Text:     lipgloss.Color("231"),
	Muted:    lipgloss.Color("243"),
	Bold:     lipgloss.Color("231"),
	Emphasis: lipgloss.Color("208"),
	Strike:   lipgloss.Color("243"),
	Link:     lipgloss.Color("81"),
	Code:     lipgloss.Color("148"),
	CodeBg:   lipgloss.Color("237"),
	TaskMark: lipgloss.Color("148"),
	Headings: [6]lipgloss.Color{
		lipgloss.Color("141"),
		lipgloss.Color("197"),
		lipgloss.Color("208"),
		lipgloss.Color("81"),
		lipgloss.Color("148"),
		lipgloss.Color("227"),
	},
}

// themes is the registry of all available themes
var themes = map[string]*Theme{
	"default":   defaultTheme,
	"dark":      darkTheme,
	"light":     lightTheme,
	"solarized": solarizedTheme,
	"monokai":   monokaiTheme,
}

// current holds the currently active theme
var current *Theme

// Get returns the theme with the given name.
// Returns an error if the theme does not exist.
func Get(name string) (*Theme, error) {
	theme, ok := themes[name]
	if !ok {
		return nil, fmt.Errorf("theme not found: %s", name)
	}

	return theme, nil
}

// Load loads the theme with the given name as the current theme.
// Returns an error if the theme does not exist.
func Load(name string) error {
	theme, err := Get(name)
	if err != nil {
		return err
	}
	current = theme

	return nil
}

// Current returns the currently active theme.
// If no theme has been loaded, returns the default theme.
func Current() *Theme {
	if current == nil {
		return defaultTheme
	}

	return current
}

// Available returns a sorted list of all available theme names.
func Available() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// HeadingColor returns the color for a 1..6 heading level, clamping
// out-of-range levels to the nearest end of the scale.
func (t *Theme) HeadingColor(level int) lipgloss.Color {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}

	return t.Headings[level-1]
}
