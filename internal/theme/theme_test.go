package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// TestGet verifies the Get function retrieves themes correctly.
func TestGet(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantTheme *Theme
		wantError bool
	}{
		{name: "get default theme", themeName: "default", wantTheme: defaultTheme},
		{name: "get dark theme", themeName: "dark", wantTheme: darkTheme},
		{name: "get light theme", themeName: "light", wantTheme: lightTheme},
		{name: "get solarized theme", themeName: "solarized", wantTheme: solarizedTheme},
		{name: "get monokai theme", themeName: "monokai", wantTheme: monokaiTheme},
		{name: "get nonexistent theme", themeName: "nonexistent", wantTheme: nil, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(tt.themeName)
			if (err != nil) != tt.wantError {
				t.Errorf("Get(%q) error = %v, wantError %v", tt.themeName, err, tt.wantError)

				return
			}
			if got != tt.wantTheme {
				t.Errorf("Get(%q) = %v, want %v", tt.themeName, got, tt.wantTheme)
			}
		})
	}
}

// TestLoad verifies the Load function sets the current theme correctly.
func TestLoad(t *testing.T) {
	current = nil

	tests := []struct {
		name      string
		themeName string
		wantError bool
	}{
		{name: "load default theme", themeName: "default"},
		{name: "load dark theme", themeName: "dark"},
		{name: "load nonexistent theme", themeName: "nonexistent", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Load(tt.themeName)
			if (err != nil) != tt.wantError {
				t.Errorf("Load(%q) error = %v, wantError %v", tt.themeName, err, tt.wantError)

				return
			}
			if tt.wantError {
				return
			}

			expectedTheme, _ := Get(tt.themeName)
			if current != expectedTheme {
				t.Errorf("After Load(%q), current = %v, want %v", tt.themeName, current, expectedTheme)
			}
		})
	}

	current = nil
}

// TestCurrent verifies the Current function returns the correct theme.
func TestCurrent(t *testing.T) {
	current = nil

	t.Run("returns default theme when none loaded", func(t *testing.T) {
		if got := Current(); got != defaultTheme {
			t.Errorf("Current() = %v, want %v", got, defaultTheme)
		}
	})

	t.Run("returns dark theme after loading", func(t *testing.T) {
		if err := Load("dark"); err != nil {
			t.Fatalf("Load(\"dark\") failed: %v", err)
		}

		if got := Current(); got != darkTheme {
			t.Errorf("After Load(\"dark\"), Current() = %v, want %v", got, darkTheme)
		}
	})

	current = nil
}

// TestAvailable verifies the Available function returns all theme names sorted.
func TestAvailable(t *testing.T) {
	got := Available()
	expected := []string{"dark", "default", "light", "monokai", "solarized"}

	if len(got) != len(expected) {
		t.Errorf("Available() returned %d themes, want %d", len(got), len(expected))
	}
	for i, name := range expected {
		if i >= len(got) {
			t.Errorf("Available() missing theme at index %d: %s", i, name)

			continue
		}
		if got[i] != name {
			t.Errorf("Available()[%d] = %q, want %q", i, got[i], name)
		}
	}
}

// TestDefaultThemeColors verifies the default theme has expected color values.
func TestDefaultThemeColors(t *testing.T) {
	tests := []struct {
		name  string
		got   lipgloss.Color
		want  lipgloss.Color
		field string
	}{
		{name: "Text color", got: defaultTheme.Text, want: lipgloss.Color("252"), field: "Text"},
		{name: "Bold color", got: defaultTheme.Bold, want: lipgloss.Color("229"), field: "Bold"},
		{name: "Emphasis color", got: defaultTheme.Emphasis, want: lipgloss.Color("222"), field: "Emphasis"},
		{name: "Strike color", got: defaultTheme.Strike, want: lipgloss.Color("240"), field: "Strike"},
		{name: "Link color", got: defaultTheme.Link, want: lipgloss.Color("75"), field: "Link"},
		{name: "Code color", got: defaultTheme.Code, want: lipgloss.Color("215"), field: "Code"},
		{name: "Muted color", got: defaultTheme.Muted, want: lipgloss.Color("240"), field: "Muted"},
		{name: "TaskMark color", got: defaultTheme.TaskMark, want: lipgloss.Color("42"), field: "TaskMark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("defaultTheme.%s = %q, want %q", tt.field, tt.got, tt.want)
			}
		})
	}
}

func TestHeadingColorClamp(t *testing.T) {
	th := defaultTheme
	if th.HeadingColor(0) != th.HeadingColor(1) {
		t.Errorf("HeadingColor(0) should clamp to level 1")
	}
	if th.HeadingColor(9) != th.HeadingColor(6) {
		t.Errorf("HeadingColor(9) should clamp to level 6")
	}
}
