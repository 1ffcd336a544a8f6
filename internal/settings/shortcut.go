package settings

import (
	"fmt"
	"strings"
)

// Shortcut is a normalized keyboard shortcut: an unordered set of
// modifiers plus exactly one non-modifier key, parsed from a settings
// string like "Cmd A" or "Ctrl Shift K".
type Shortcut struct {
	Modifiers []string
	Key       string
}

func (s Shortcut) String() string {
	parts := append(append([]string(nil), s.Modifiers...), s.Key)

	return strings.Join(parts, " ")
}

var modifierNames = map[string]string{
	"cmd":   "Cmd",
	"ctrl":  "Ctrl",
	"alt":   "Alt",
	"shift": "Shift",
	"meta":  "Meta",
}

// parseShortcut splits attr into modifiers and exactly one key, per the
// ported Rust `parse_keyboard_shortcut`.
func parseShortcut(attr string) (Shortcut, error) {
	parts := strings.Fields(attr)

	var modifiers []string

	var keys []string

	for _, p := range parts {
		if name, ok := modifierNames[strings.ToLower(p)]; ok {
			modifiers = append(modifiers, name)

			continue
		}

		keys = append(keys, p)
	}

	if len(keys) != 1 {
		return Shortcut{}, fmt.Errorf("shortcut %q must have exactly one non-modifier key", attr)
	}

	return Shortcut{Modifiers: modifiers, Key: keys[0]}, nil
}
