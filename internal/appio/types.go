// Package appio defines the boundary between the pure reducer in
// internal/app and everything spec.md §1/§6 treats as an external
// collaborator: LLM network calls, disk reads, and the interactivity
// probe a headless test harness needs to suppress OS-hotkey noise.
// Nothing in this package touches AppState directly; it only describes
// the shape of requests going out and results coming back.
package appio

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/twop/shelv/internal/bytespan"
)

// NoteID identifies a note within AppState. Ordinary notes get a random
// NewNoteID; SettingsNoteID is the single well-known settings note.
// internal/persist owns the separate mapping from NoteID to the
// persisted `note-<n>.md` slot spec.md §6 specifies on disk — NoteID
// itself is an in-memory handle, not the wire format.
type NoteID struct {
	id       uuid.UUID
	settings bool
}

// NewNoteID allocates a fresh identity for a newly created note.
func NewNoteID() NoteID {
	return NoteID{id: uuid.New()}
}

// SettingsNoteID is the one note whose fenced `settings` blocks are
// evaluated by internal/settings rather than internal/script.
var SettingsNoteID = NoteID{settings: true}

// IsSettings reports whether id is the settings note.
func (id NoteID) IsSettings() bool {
	return id.settings
}

func (id NoteID) String() string {
	if id.settings {
		return "Settings"
	}

	return id.id.String()
}

// RequestAddr is the cancellation tag of spec.md §5 attached to an
// in-flight inline-LLM request. The reducer compares only Note and
// Generation (which increases on every applied change), so a chunk is
// dropped once the note has been edited since the request was issued.
// Span records the caret/selection the request was issued from but is
// not compared: moving the caret or selection without editing does not
// invalidate the request.
type RequestAddr struct {
	Note       NoteID
	Span       bytespan.Span
	Generation uint64
}

// LLMRequest is what AskLLM/AskLLMInline send to the model.
type LLMRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
}

// LLMChunkMsg carries one streamed chunk back to the reducer. Addr lets
// the reducer discard it if the request it was issued for is no longer
// current (§5: "streamed chunks are discarded unless the current address
// still matches").
type LLMChunkMsg struct {
	ID    uuid.UUID
	Addr  RequestAddr
	Chunk string
	// Next, when non-nil, continues the stream: the reducer must
	// include it among the Cmds it returns in response to this message
	// or the remaining chunks are never delivered.
	Next tea.Cmd
}

// LLMDoneMsg signals a request's stream has ended successfully.
type LLMDoneMsg struct {
	ID   uuid.UUID
	Addr RequestAddr
}

// LLMErrorMsg carries a stream failure. Per spec.md §7 (LLMStreamError)
// this is delivered through the same chunk-insertion path as normal
// content, never a panic or a dropped request.
type LLMErrorMsg struct {
	ID   uuid.UUID
	Addr RequestAddr
	Err  error
}

// NoteReloadedMsg reports a foreign on-disk change to a note (§6: a file
// whose mtime exceeds last_saved+10ms). The note's cursor is cleared by
// the reducer on receipt, per spec.
type NoteReloadedMsg struct {
	Note    NoteID
	Text    string
	ModTime time.Time
}

// NoteReloadFailedMsg reports spec.md §7's FileIOError: the in-memory
// copy remains authoritative and the next edit will overwrite the file.
type NoteReloadFailedMsg struct {
	Note NoteID
	Err  error
}

// Logger is the Printf-shaped sink internal/app logs through (SPEC_FULL §1: no global logger, no singletons). NoopLogger
// discards everything.
type Logger interface {
	Printf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// NoopLogger is the default Logger, used whenever a caller doesn't wire
// one in (headless tests, the most common case here).
var NoopLogger Logger = noopLogger{}
