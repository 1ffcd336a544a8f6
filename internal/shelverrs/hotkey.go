package shelverrs

import "fmt"

// OSHotkeyRefusedError indicates the operating system declined to register
// a global hotkey binding requested by a settings `global` block. The
// shortcut remains unbound; the offending block is annotated.
type OSHotkeyRefusedError struct {
	Binding string
	Reason  string
}

func (e *OSHotkeyRefusedError) Error() string {
	return fmt.Sprintf("global hotkey %q refused: %s", e.Binding, e.Reason)
}
