package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
)

// Msg is the reducer's message type, modeled directly on tea.Model's
// Update(tea.Msg) shape (SPEC_FULL §2): any value, matched by the
// concrete types below plus appio's IO-result messages.
type Msg = tea.Msg

// Cmd is a unit of deferred work the host runtime invokes off the UI
// thread; its result re-enters Update as a Msg.
type Cmd = tea.Cmd

// ApplyChangesMsg is how a command's output (or a direct edit) reaches
// the reducer: replace Note's buffer per the TextChange engine (§4.3),
// then re-derive structure and re-reconcile scripts/settings for it.
type ApplyChangesMsg struct {
	Note    NoteID
	Changes []change.Change
}

// RunCommandMsg resolves Name against the current command registry (the
// settings-bound or built-in catalog, §4.4/§4.6) and applies whatever it
// yields. Selection is consulted for SelectionCommand entries; if nil,
// Cursor is used as a zero-width selection.
type RunCommandMsg struct {
	Note      NoteID
	Name      string
	Cursor    int
	Selection *bytespan.Unordered
}

// SelectNoteMsg switches which note holds the live TextStructure.
type SelectNoteMsg struct {
	Note NoteID
}

// NewNoteMsg creates an empty note and selects it.
type NewNoteMsg struct{}

// CloseNoteMsg removes a note. Closing the selected note selects the
// first remaining note in creation order, or the settings note if none
// remain.
type CloseNoteMsg struct {
	Note NoteID
}

// ForceReconcileMsg re-runs script reconciliation on Note even if every
// hash already matches (SUPPLEMENTED FEATURES: run_llm.rs's explicit
// "run this ai block again" command).
type ForceReconcileMsg struct {
	Note NoteID
}

// ShowInlinePromptMsg starts an inline-LLM request against Selection in
// Note (spec.md §5, SUPPLEMENTED FEATURES' inline_llm_prompt.rs): the
// request is tagged with the note's current Generation, and every
// streamed chunk is discarded once that tag no longer matches.
type ShowInlinePromptMsg struct {
	Note      NoteID
	Selection bytespan.Unordered
}

// HideInlinePromptMsg drops the active inline-LLM request, if any
// (closing the prompt discards state per spec.md §5; late chunks become
// no-ops because Addr no longer matches).
type HideInlinePromptMsg struct{}
