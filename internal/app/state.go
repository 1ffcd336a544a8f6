package app

import (
	"github.com/google/uuid"

	"github.com/twop/shelv/internal/appio"
	"github.com/twop/shelv/internal/command"
	"github.com/twop/shelv/internal/script"
	"github.com/twop/shelv/internal/settings"
	"github.com/twop/shelv/internal/textstructure"
)

// DeferredKind names a post-render action queued by the reducer for
// effects that must observe post-frame widget state (spec.md §5's
// DeferToPostRender).
type DeferredKind uint8

const (
	// DeferFocusNote asks the view layer to focus the editor for Note
	// once the current frame has rendered.
	DeferFocusNote DeferredKind = iota
	// DeferScrollToCursor asks the view layer to scroll the selected
	// note's viewport to keep the caret visible.
	DeferScrollToCursor
)

// DeferredAction is one entry of AppState's deferred-action LIFO.
type DeferredAction struct {
	Kind DeferredKind
	Note NoteID
}

// inlineRequest tracks the single in-flight inline-LLM prompt (spec.md
// §5, supplemented by SUPPLEMENTED FEATURES' inline_llm_prompt.rs): its
// Addr is the cancellation tag, ID correlates streamed chunks back to it.
// Addr.Generation advances as the request's own chunks land, so a chunk
// is accepted exactly when the note's current Generation is still the
// one this request last left it at; any other edit landing in between
// makes every later chunk a no-op.
type inlineRequest struct {
	ID             uuid.UUID
	Addr           appio.RequestAddr
	InsertionPoint int
	started        bool
}

// AppState is spec.md §3's ephemeral reducer state.
type AppState struct {
	Notes    NoteSet
	Selected NoteID

	// Structure is non-nil only for the selected note, per spec.md §3
	// ("only the selected note keeps a live TextStructure").
	Structure *textstructure.TextStructure

	// Scripts holds one persistent js-lane interpreter per note that
	// has ever been reconciled, so exported state survives across
	// reconciliation passes within that note (spec.md §4.5).
	Scripts map[NoteID]*script.Interpreter

	// SettingsEval owns the command registry and installed global
	// hotkeys derived from the settings note (spec.md §4.6).
	SettingsEval *settings.Evaluator

	// LLMDefaults holds every `ai { ... }` block from the settings note's
	// most recent evaluation, in document order; the last one supplies
	// the model and system prompt of LLM requests.
	LLMDefaults []settings.LLMDefaults

	// Deferred is the LIFO of post-render actions, drained after each
	// frame (spec.md §3/§5).
	Deferred []DeferredAction

	// inline is the currently active inline-LLM request, or nil.
	inline *inlineRequest

	// pendingBlockRequests tracks in-flight block-reconciliation LLM
	// requests (spec.md §4.5's ai/llm lane) by correlation id, so a
	// stray chunk for an id no longer tracked (e.g. the note was
	// closed) is safely ignored.
	pendingBlockRequests map[uuid.UUID]blockRequest

	logger appio.Logger
}

type blockRequest struct {
	Note           NoteID
	InsertionPoint int
}

// NewAppState builds an AppState with one note (SettingsNoteID) and its
// evaluator reset to built-ins, ready to accept messages.
func NewAppState(hotkeys settings.GlobalHotkeyInstaller, logger appio.Logger) AppState {
	return NewAppStateWithSources(hotkeys, logger, nil)
}

// NewAppStateWithSources builds an AppState the same way NewAppState does,
// additionally threading sources (e.g. a real "clipboard" reader) through
// to the command registry so host-backed commands survive every
// settings-note re-evaluation.
func NewAppStateWithSources(hotkeys settings.GlobalHotkeyInstaller, logger appio.Logger, sources command.Sources) AppState {
	if logger == nil {
		logger = appio.NoopLogger
	}

	notes := NewNoteSet()
	notes.Add(appio.SettingsNoteID, &Note{Text: ""})

	return AppState{
		Notes:                notes,
		Selected:             appio.SettingsNoteID,
		Scripts:              map[NoteID]*script.Interpreter{},
		SettingsEval:         settings.NewEvaluatorWithSources(hotkeys, sources),
		pendingBlockRequests: map[uuid.UUID]blockRequest{},
		logger:               logger,
	}
}

// scriptFor returns the persistent interpreter for id, creating one on
// first use.
func (s *AppState) scriptFor(id NoteID) *script.Interpreter {
	ip, ok := s.Scripts[id]
	if !ok {
		ip = script.NewInterpreter()
		s.Scripts[id] = ip
	}

	return ip
}

// pushDeferred appends to the LIFO.
func (s *AppState) pushDeferred(a DeferredAction) {
	s.Deferred = append(s.Deferred, a)
}

// DrainDeferred pops every queued action in LIFO order (most recently
// pushed first) and clears the queue.
func (s *AppState) DrainDeferred() []DeferredAction {
	out := make([]DeferredAction, len(s.Deferred))
	for i, a := range s.Deferred {
		out[len(s.Deferred)-1-i] = a
	}

	s.Deferred = nil

	return out
}

// registry exposes the settings evaluator's command registry, the
// catalog named commands (keymap entries and `bind` shortcuts alike)
// resolve against.
func (s *AppState) registry() *command.Registry {
	return s.SettingsEval.Registry()
}
