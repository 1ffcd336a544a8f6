// Package app implements spec.md §3/§5's AppState and reducer: the
// single-threaded cooperative core that owns every note's text, the
// selected note's live TextStructure, and the script/settings evaluators,
// advancing only in response to messages drained from a bounded queue.
package app

import (
	"github.com/twop/shelv/internal/appio"
	"github.com/twop/shelv/internal/bytespan"
)

// NoteID re-exports appio's identity type so callers only need to import
// one package for the common case.
type NoteID = appio.NoteID

// Note is spec.md §3's `{ text, cursor }`: the buffer is authoritative,
// the caret is optional (absent after a file reload).
type Note struct {
	Text   string
	Cursor *bytespan.Unordered
	// Generation increases on every change applied to this note,
	// independent of whether it is currently selected; it is the
	// version component of an inline-LLM RequestAddr (spec.md §5).
	Generation uint64
}

// NoteSet supplements spec.md §3's unordered `notes` map with the
// stable creation-order the note picker (SwitchToNote N) relies on.
type NoteSet struct {
	order []NoteID
	notes map[NoteID]*Note
}

// NewNoteSet builds an empty set.
func NewNoteSet() NoteSet {
	return NoteSet{notes: map[NoteID]*Note{}}
}

// Add inserts note at the end of the creation order. Re-adding an
// existing id replaces its Note without changing its position.
func (s *NoteSet) Add(id NoteID, note *Note) {
	if _, exists := s.notes[id]; !exists {
		s.order = append(s.order, id)
	}

	s.notes[id] = note
}

// Remove drops id from the set.
func (s *NoteSet) Remove(id NoteID) {
	if _, ok := s.notes[id]; !ok {
		return
	}

	delete(s.notes, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}
}

// Get returns the note for id, if present.
func (s *NoteSet) Get(id NoteID) (*Note, bool) {
	n, ok := s.notes[id]

	return n, ok
}

// Ordered returns every NoteID in creation order.
func (s *NoteSet) Ordered() []NoteID {
	out := make([]NoteID, len(s.order))
	copy(out, s.order)

	return out
}

// Len reports how many notes are in the set.
func (s *NoteSet) Len() int {
	return len(s.order)
}

// At returns the NoteID at the given 0-based position in creation order,
// used to resolve the 1-based `SwitchToNote N` command.
func (s *NoteSet) At(index int) (NoteID, bool) {
	if index < 0 || index >= len(s.order) {
		return NoteID{}, false
	}

	return s.order[index], true
}
