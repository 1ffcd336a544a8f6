package appio

import (
	"time"

	"github.com/google/uuid"
	tea "github.com/charmbracelet/bubbletea"
)

// Cmd re-exports tea.Cmd so callers outside this package (tests, mainly)
// don't need their own import of bubbletea just to name an AppIO method's
// return type.
type Cmd = tea.Cmd

// AppIO is every external collaborator spec.md §1/§6 carves out of the
// core: the LLM network client, reading a note's file back off disk, and
// the interactivity probe used to decide whether an OSHotkeyRefusedError
// is worth logging. Every method returns a tea.Cmd so the reducer never
// blocks (§5): the actual network/disk work happens when the returned
// Cmd is invoked by the host runtime, off the UI thread.
type AppIO interface {
	// AskLLM dispatches a block-reconciliation render (spec.md §4.5's
	// ai/llm lane). Chunks stream back as LLMChunkMsg/LLMDoneMsg/
	// LLMErrorMsg tagged with id and addr.
	AskLLM(id uuid.UUID, addr RequestAddr, req LLMRequest) tea.Cmd

	// AskLLMInline dispatches the interactive inline-prompt lane
	// (SUPPLEMENTED FEATURES: inline_llm_prompt.rs). Identical wire
	// shape to AskLLM; kept as a separate method because the two lanes
	// have different cancellation lifetimes in the reducer.
	AskLLMInline(id uuid.UUID, addr RequestAddr, req LLMRequest) tea.Cmd

	// TryReadNoteIfNewer stats path; if its mtime exceeds
	// lastSaved+10ms it reads the file and returns a NoteReloadedMsg,
	// otherwise it returns nil (no message, nothing changed).
	TryReadNoteIfNewer(note NoteID, path string, lastSaved time.Time) tea.Cmd

	// IsInteractive reports whether the host is attached to a real
	// terminal/GUI session.
	IsInteractive() bool
}
