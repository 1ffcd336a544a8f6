package persist

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/twop/shelv/internal/appio"
	"github.com/twop/shelv/internal/shelverrs"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	stateFileName    = "state.json"
	settingsFileName = "settings.md"
)

// State is the parsed form of the state.json sidecar.
type State struct {
	Version   int
	LastSaved time.Time
	Selected  WireNoteID
}

type stateOnWire struct {
	Version   int        `json:"version"`
	LastSaved int64      `json:"last_saved"`
	Selected  WireNoteID `json:"selected"`
}

// Store owns one note folder: the note/settings files it contains and
// the state.json sidecar, plus the in-memory slot assignment that maps
// each appio.NoteID to its 1-based `note-<n>.md` slot.
type Store struct {
	Fs   afero.Fs
	Root string

	mu     sync.Mutex
	slots  map[appio.NoteID]int
	bySlot map[int]appio.NoteID
	next   int
}

// NewStore builds a Store rooted at root over fs. fs is afero.NewOsFs()
// in production and afero.NewMemMapFs() in tests.
func NewStore(fs afero.Fs, root string) *Store {
	return &Store{
		Fs:     fs,
		Root:   root,
		slots:  map[appio.NoteID]int{},
		bySlot: map[int]appio.NoteID{},
		next:   1,
	}
}

// Bootstrap creates the root folder if it is missing (spec.md §6: "a
// missing folder triggers bootstrap").
func (s *Store) Bootstrap() error {
	exists, err := afero.DirExists(s.Fs, s.Root)
	if err != nil {
		return &shelverrs.FileIOError{Path: s.Root, Op: "stat", Err: err}
	}

	if exists {
		return nil
	}

	if err := s.Fs.MkdirAll(s.Root, dirPerm); err != nil {
		return &shelverrs.FileIOError{Path: s.Root, Op: "mkdir", Err: err}
	}

	return nil
}

// EnsureSlot returns id's assigned slot, allocating the next free one on
// first use. The settings note never has a slot.
func (s *Store) EnsureSlot(id appio.NoteID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot, ok := s.slots[id]; ok {
		return slot
	}

	slot := s.next
	s.next++
	s.slots[id] = slot
	s.bySlot[slot] = id

	return slot
}

// SlotFor reports id's assigned slot, if any.
func (s *Store) SlotFor(id appio.NoteID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]

	return slot, ok
}

// NoteForSlot reverses EnsureSlot.
func (s *Store) NoteForSlot(slot int) (appio.NoteID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.bySlot[slot]

	return id, ok
}

// PathFor returns the on-disk path for id, assigning a slot if id is an
// ordinary note that has never been persisted before.
func (s *Store) PathFor(id appio.NoteID) string {
	if id.IsSettings() {
		return filepath.Join(s.Root, settingsFileName)
	}

	slot := s.EnsureSlot(id)

	return s.notePathForSlot(slot)
}

func (s *Store) notePathForSlot(slot int) string {
	return filepath.Join(s.Root, "note-"+strconv.Itoa(slot)+".md")
}

func (s *Store) statePath() string {
	return filepath.Join(s.Root, stateFileName)
}

// LoadNote reads id's file, bootstrapping it if it does not yet exist
// (spec.md §6: "a missing file is filled with an empty note"): an empty
// file is written, then state.json is rewritten with LastSaved set to now.
func (s *Store) LoadNote(id appio.NoteID) (text string, modTime time.Time, err error) {
	path := s.PathFor(id)

	exists, err := afero.Exists(s.Fs, path)
	if err != nil {
		return "", time.Time{}, &shelverrs.FileIOError{Path: path, Op: "stat", Err: err}
	}

	if !exists {
		if werr := s.WriteNote(id, ""); werr != nil {
			return "", time.Time{}, werr
		}

		st, serr := s.LoadState()
		if serr != nil {
			return "", time.Time{}, serr
		}

		st.LastSaved = time.Now()
		if serr := s.SaveState(st); serr != nil {
			return "", time.Time{}, serr
		}
	}

	data, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		return "", time.Time{}, &shelverrs.FileIOError{Path: path, Op: "read", Err: err}
	}

	info, err := s.Fs.Stat(path)
	if err != nil {
		return "", time.Time{}, &shelverrs.FileIOError{Path: path, Op: "stat", Err: err}
	}

	return string(data), info.ModTime(), nil
}

// WriteNote writes text to id's file, creating the root folder first if
// needed.
func (s *Store) WriteNote(id appio.NoteID, text string) error {
	if err := s.Bootstrap(); err != nil {
		return err
	}

	path := s.PathFor(id)
	if err := afero.WriteFile(s.Fs, path, []byte(text), filePerm); err != nil {
		return &shelverrs.FileIOError{Path: path, Op: "write", Err: err}
	}

	return nil
}

// ModTime stats id's file without reading its content, used to decide
// whether a reload is warranted before paying for the read.
func (s *Store) ModTime(id appio.NoteID) (time.Time, error) {
	path := s.PathFor(id)

	info, err := s.Fs.Stat(path)
	if err != nil {
		return time.Time{}, &shelverrs.FileIOError{Path: path, Op: "stat", Err: err}
	}

	return info.ModTime(), nil
}

// LoadState reads state.json, returning zero-value defaults (version 1,
// selected the settings note) if it does not exist yet.
func (s *Store) LoadState() (State, error) {
	path := s.statePath()

	exists, err := afero.Exists(s.Fs, path)
	if err != nil {
		return State{}, &shelverrs.FileIOError{Path: path, Op: "stat", Err: err}
	}

	if !exists {
		return State{Version: 1, Selected: SettingsWireID}, nil
	}

	data, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		return State{}, &shelverrs.FileIOError{Path: path, Op: "read", Err: err}
	}

	var onWire stateOnWire
	if err := json.Unmarshal(data, &onWire); err != nil {
		return State{}, &shelverrs.FileIOError{Path: path, Op: "read", Err: err}
	}

	return State{
		Version:   onWire.Version,
		LastSaved: time.UnixMilli(onWire.LastSaved),
		Selected:  onWire.Selected,
	}, nil
}

// SaveState writes st to state.json, bootstrapping the root folder
// first if needed.
func (s *Store) SaveState(st State) error {
	if err := s.Bootstrap(); err != nil {
		return err
	}

	onWire := stateOnWire{
		Version:   st.Version,
		LastSaved: st.LastSaved.UnixMilli(),
		Selected:  st.Selected,
	}

	data, err := json.MarshalIndent(onWire, "", "  ")
	if err != nil {
		return err
	}

	path := s.statePath()
	if err := afero.WriteFile(s.Fs, path, data, filePerm); err != nil {
		return &shelverrs.FileIOError{Path: path, Op: "write", Err: err}
	}

	return nil
}

// WireIDFor converts an in-memory NoteID to its wire form, given its
// already-assigned slot (the settings note needs none).
func (s *Store) WireIDFor(id appio.NoteID) WireNoteID {
	if id.IsSettings() {
		return SettingsWireID
	}

	return NoteWireID(s.EnsureSlot(id))
}
