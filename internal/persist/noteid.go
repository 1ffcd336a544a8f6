// Package persist implements spec.md §6's on-disk layout: one folder
// holding `note-<n>.md` files (1-based) plus a `settings.md` for the
// settings note, and a `state.json` sidecar recording the session's
// cursor-of-record (version, last-saved time, selected note). It owns
// the only mapping from an appio.NoteID (an opaque in-process identity)
// to the wire format's small sequential slot numbers; internal/app and
// internal/appio never see a slot number.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
)

// WireNoteID is spec.md §6's on-disk NoteId: either the bare string
// "Settings" or an object `{"Note": N}`.
type WireNoteID struct {
	Settings bool
	Slot     int
}

// SettingsWireID is the well-known settings-note identity.
var SettingsWireID = WireNoteID{Settings: true}

// NoteWireID builds the wire id for the given 1-based slot.
func NoteWireID(slot int) WireNoteID {
	return WireNoteID{Slot: slot}
}

func (w WireNoteID) MarshalJSON() ([]byte, error) {
	if w.Settings {
		return json.Marshal("Settings")
	}

	return json.Marshal(struct {
		Note int `json:"Note"`
	}{Note: w.Slot})
}

func (w *WireNoteID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString != "Settings" {
			return fmt.Errorf("persist: unrecognized NoteId string %q", asString)
		}

		*w = WireNoteID{Settings: true}

		return nil
	}

	var asObject struct {
		Note int `json:"Note"`
	}

	if err := json.Unmarshal(data, &asObject); err != nil {
		return errors.New("persist: NoteId is neither \"Settings\" nor {\"Note\": N}")
	}

	*w = WireNoteID{Slot: asObject.Note}

	return nil
}
