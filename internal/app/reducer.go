package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/twop/shelv/internal/appio"
	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/command"
	"github.com/twop/shelv/internal/script"
	"github.com/twop/shelv/internal/settings"
	"github.com/twop/shelv/internal/textstructure"
)

// Update is the reducer's single entry point: given the current state,
// the external-collaborator boundary, and one drained message, it
// returns the next state and a Cmd for the host runtime to carry out
// (spec.md §5: the reducer itself never blocks).
func Update(state AppState, io appio.AppIO, msg Msg) (AppState, Cmd) {
	switch m := msg.(type) {
	case ApplyChangesMsg:
		return applyChanges(state, io, m.Note, m.Changes)

	case RunCommandMsg:
		return runCommand(state, io, m)

	case SelectNoteMsg:
		return selectNote(state, m.Note), nil

	case NewNoteMsg:
		return newNote(state), nil

	case CloseNoteMsg:
		return closeNote(state, m.Note), nil

	case ForceReconcileMsg:
		return reconcileIfSelected(state, io, m.Note, true)

	case ShowInlinePromptMsg:
		return startInlinePrompt(state, io, m)

	case HideInlinePromptMsg:
		state.inline = nil

		return state, nil

	case appio.LLMChunkMsg:
		return handleLLMChunk(state, m)

	case appio.LLMDoneMsg:
		if state.inline != nil && state.inline.ID == m.ID {
			state.inline = nil

			return state, nil
		}

		delete(state.pendingBlockRequests, m.ID)

		return state, nil

	case appio.LLMErrorMsg:
		return handleLLMError(state, m)

	case appio.NoteReloadedMsg:
		return handleNoteReloaded(state, m), nil

	case appio.NoteReloadFailedMsg:
		state.logger.Printf("note %s: reload failed: %v", m.Note, m.Err)

		return state, nil

	default:
		return state, nil
	}
}

// applyChanges runs changes through the TextChange engine, rebuilds
// structure for the selected note, and re-reconciles scripts/settings.
func applyChanges(state AppState, io appio.AppIO, id NoteID, changes []change.Change) (AppState, Cmd) {
	note, ok := state.Notes.Get(id)
	if !ok {
		return state, nil
	}

	newText, newCaret, err := change.Apply(note.Text, note.Cursor, changes)
	if err != nil {
		// spec.md §7: OverlappingChanges discards the batch atomically;
		// the buffer is untouched and the failure is only logged.
		state.logger.Printf("note %s: discarded overlapping changes: %v", id, err)

		return state, nil
	}

	note.Text = newText
	note.Cursor = newCaret
	note.Generation++

	if id == state.Selected {
		if state.Structure == nil {
			state.Structure = textstructure.New(newText)
		} else {
			state.Structure.Recycle(newText)
		}
	}

	return reconcileIfSelected(state, io, id, false)
}

// reconcileIfSelected re-runs the note's evaluator (script or settings)
// against its current text. Only the selected note has a live
// TextStructure to reconcile against (spec.md §3), so this is a no-op
// for a background note.
func reconcileIfSelected(state AppState, io appio.AppIO, id NoteID, forced bool) (AppState, Cmd) {
	if id != state.Selected || state.Structure == nil {
		return state, nil
	}

	note, ok := state.Notes.Get(id)
	if !ok {
		return state, nil
	}

	if id.IsSettings() {
		return applySettingsNote(state, note.Text), nil
	}

	interp := state.scriptFor(id)

	result, changed := script.Reconcile(state.Structure, note.Text, interp.Eval, forced)
	if !changed {
		return state, nil
	}

	var cmds []Cmd

	for _, req := range result.LLMRequests {
		reqID := uuid.New()
		state.pendingBlockRequests[reqID] = blockRequest{Note: id, InsertionPoint: req.InsertionPoint}

		addr := appio.RequestAddr{Note: id, Span: req.OutputSpan, Generation: note.Generation}
		cmds = append(cmds, io.AskLLM(reqID, addr, appio.LLMRequest{
			Model:        defaultModel(state),
			SystemPrompt: defaultSystemPrompt(state),
			Prompt:       req.Body,
		}))
	}

	if len(result.Changes) > 0 {
		next, cmd := applyChanges(state, io, id, result.Changes)
		state = next
		cmds = append(cmds, cmd)
	}

	return state, batch(cmds)
}

func defaultModel(state AppState) string {
	if len(state.LLMDefaults) == 0 {
		return ""
	}

	return state.LLMDefaults[len(state.LLMDefaults)-1].Model
}

func defaultSystemPrompt(state AppState) string {
	if len(state.LLMDefaults) == 0 {
		return ""
	}

	return state.LLMDefaults[len(state.LLMDefaults)-1].SystemPrompt
}

// startInlinePrompt issues an inline-LLM request against the text under
// m.Selection and tags state.inline with the note's current Generation,
// the cancellation address spec.md §5 specifies. Replaces any previously
// active inline request.
func startInlinePrompt(state AppState, io appio.AppIO, m ShowInlinePromptMsg) (AppState, Cmd) {
	note, ok := state.Notes.Get(m.Note)
	if !ok {
		return state, nil
	}

	span := m.Selection.Ordered()
	reqID := uuid.New()

	state.inline = &inlineRequest{
		ID:             reqID,
		Addr:           appio.RequestAddr{Note: m.Note, Span: span, Generation: note.Generation},
		InsertionPoint: span.Start,
	}

	cmd := io.AskLLMInline(reqID, state.inline.Addr, appio.LLMRequest{
		Model:        defaultModel(state),
		SystemPrompt: defaultSystemPrompt(state),
		Prompt:       "Fix grammar, stylistic and spelling errors in:\n\n" + note.Text[span.Start:span.End],
	})

	return state, cmd
}

// batch folds zero or more Cmds (some possibly nil) into one, the way
// tea.Batch does, without importing bubbletea's own batching msg type
// into this file's public surface.
func batch(cmds []Cmd) Cmd {
	var live []Cmd

	for _, c := range cmds {
		if c != nil {
			live = append(live, c)
		}
	}

	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	default:
		return tea.Batch(live...)
	}
}

// applySettingsNote collects every fenced settings-language block in
// document order and re-evaluates the settings evaluator against all of
// them as one unit (spec.md §4.6: reset to built-ins, then apply).
func applySettingsNote(state AppState, text string) AppState {
	type hit struct{ text string }

	results := textstructure.FilterMapCodeBlocks(state.Structure, func(lang string) (hit, bool) {
		if lang != "settings" {
			return hit{}, false
		}

		return hit{}, true
	})

	blocks := make([]settings.SettingsBlock, 0, len(results))

	for i, r := range results {
		inner, ok := state.Structure.GetSpanInnerContent(r.Index)
		if !ok {
			continue
		}

		blocks = append(blocks, settings.SettingsBlock{Index: i, Text: text[inner.Start:inner.End]})
	}

	hasExport := func(name string) bool {
		for _, ip := range state.Scripts {
			if _, ok := ip.Export(name); ok {
				return true
			}
		}

		return false
	}

	errs := state.SettingsEval.ApplyAll(blocks, hasExport)
	for _, e := range errs {
		state.logger.Printf("settings: %v", e)
	}

	state.LLMDefaults = state.SettingsEval.LLM()

	return state
}

// runCommand resolves Name against the live registry and either applies
// the resulting text changes or dispatches an app-level Action.
func runCommand(state AppState, io appio.AppIO, m RunCommandMsg) (AppState, Cmd) {
	entry, ok := state.registry().Lookup(m.Name)
	if !ok {
		return state, nil
	}

	note, ok := state.Notes.Get(m.Note)
	if !ok {
		return state, nil
	}

	switch {
	case entry.Action != nil:
		return runAction(state, *entry.Action), nil

	case entry.Selection != nil:
		sel := bytespan.UnorderedPoint(m.Cursor)
		if m.Selection != nil {
			sel = *m.Selection
		}

		changes, ok := entry.Selection(state.Structure, note.Text, sel)
		if !ok {
			return state, nil
		}

		return applyChanges(state, io, m.Note, changes)

	case entry.Cursor != nil:
		changes, ok := entry.Cursor(state.Structure, note.Text, m.Cursor)
		if !ok {
			return state, nil
		}

		return applyChanges(state, io, m.Note, changes)

	default:
		return state, nil
	}
}

func runAction(state AppState, action command.Action) AppState {
	switch action.Name {
	case "NewNote":
		return newNote(state)
	case "CloseNote":
		return closeNote(state, state.Selected)
	case "SwitchToNote":
		if id, ok := state.Notes.At(action.Arg - 1); ok {
			return selectNote(state, id)
		}

		return state
	default:
		// HideApp/ShowHideApp are window-visibility effects with no
		// AppState-visible change; the view layer handles them by
		// observing the action name directly.
		return state
	}
}

func selectNote(state AppState, id NoteID) AppState {
	note, ok := state.Notes.Get(id)
	if !ok {
		return state
	}

	state.Selected = id
	state.Structure = textstructure.New(note.Text)
	state.pushDeferred(DeferredAction{Kind: DeferFocusNote, Note: id})

	return state
}

func newNote(state AppState) AppState {
	id := appio.NewNoteID()
	state.Notes.Add(id, &Note{})

	return selectNote(state, id)
}

func closeNote(state AppState, id NoteID) AppState {
	if id.IsSettings() {
		return state // the settings note is never closable
	}

	state.Notes.Remove(id)
	delete(state.Scripts, id)

	if state.Selected != id {
		return state
	}

	for _, other := range state.Notes.Ordered() {
		if !other.IsSettings() {
			return selectNote(state, other)
		}
	}

	return selectNote(state, appio.SettingsNoteID)
}

func handleLLMChunk(state AppState, m appio.LLMChunkMsg) (AppState, Cmd) {
	if state.inline != nil && state.inline.ID == m.ID {
		return handleInlineChunk(state, m), m.Next
	}

	req, ok := state.pendingBlockRequests[m.ID]
	if !ok {
		return state, m.Next // stray/cancelled request: keep draining, do nothing
	}

	note, ok := state.Notes.Get(req.Note)
	if !ok {
		return state, m.Next
	}

	escaped := script.EscapeStreamChunk(m.Chunk)
	at := req.InsertionPoint

	note.Text = note.Text[:at] + escaped + note.Text[at:]
	note.Generation++
	state.pendingBlockRequests[m.ID] = blockRequest{Note: req.Note, InsertionPoint: at + len(escaped)}

	if req.Note == state.Selected && state.Structure != nil {
		state.Structure.Recycle(note.Text)
	}

	return state, m.Next
}

// handleInlineChunk applies one streamed chunk of the active inline-LLM
// request in place of its original selection, discarding it the moment
// the note has changed since the request's address was last updated
// (spec.md §5's cancellation-by-address rule). The first chunk replaces
// the original selection span; later chunks are appended after it.
func handleInlineChunk(state AppState, m appio.LLMChunkMsg) AppState {
	req := state.inline

	note, ok := state.Notes.Get(req.Addr.Note)
	if !ok {
		state.inline = nil

		return state
	}

	if note.Generation != req.Addr.Generation {
		state.inline = nil

		return state
	}

	escaped := script.EscapeStreamChunk(m.Chunk)
	at := req.InsertionPoint

	if req.started {
		note.Text = note.Text[:at] + escaped + note.Text[at:]
	} else {
		note.Text = note.Text[:req.Addr.Span.Start] + escaped + note.Text[req.Addr.Span.End:]
		req.started = true
	}

	req.InsertionPoint = at + len(escaped)
	note.Generation++
	req.Addr.Generation = note.Generation
	state.inline = req

	if req.Addr.Note == state.Selected && state.Structure != nil {
		state.Structure.Recycle(note.Text)
	}

	return state
}

func handleLLMError(state AppState, m appio.LLMErrorMsg) (AppState, Cmd) {
	if state.inline != nil && state.inline.ID == m.ID {
		return handleInlineError(state, m), nil
	}

	req, ok := state.pendingBlockRequests[m.ID]
	if !ok {
		return state, nil
	}

	delete(state.pendingBlockRequests, m.ID)

	note, ok := state.Notes.Get(req.Note)
	if !ok {
		return state, nil
	}

	// spec.md §7 LLMStreamError: the error text is inserted through the
	// same chunk path as normal content, no retry.
	msg := fmt.Sprintf("error: %v", m.Err)
	at := req.InsertionPoint
	note.Text = note.Text[:at] + msg + note.Text[at:]
	note.Generation++

	if req.Note == state.Selected && state.Structure != nil {
		state.Structure.Recycle(note.Text)
	}

	return state, nil
}

// handleInlineError inserts the failed inline request's error text the
// same way handleLLMError does for block requests, then clears the
// request (spec.md §7 LLMStreamError: no retry).
func handleInlineError(state AppState, m appio.LLMErrorMsg) AppState {
	req := state.inline
	state.inline = nil

	note, ok := state.Notes.Get(req.Addr.Note)
	if !ok {
		return state
	}

	if note.Generation != req.Addr.Generation {
		return state
	}

	msg := fmt.Sprintf("error: %v", m.Err)
	at := req.InsertionPoint

	if req.started {
		note.Text = note.Text[:at] + msg + note.Text[at:]
	} else {
		note.Text = note.Text[:req.Addr.Span.Start] + msg + note.Text[req.Addr.Span.End:]
	}

	note.Generation++

	if req.Addr.Note == state.Selected && state.Structure != nil {
		state.Structure.Recycle(note.Text)
	}

	return state
}

func handleNoteReloaded(state AppState, m appio.NoteReloadedMsg) AppState {
	note, ok := state.Notes.Get(m.Note)
	if !ok {
		return state
	}

	note.Text = m.Text
	note.Cursor = nil // §6: a foreign reload clears the caret
	note.Generation++

	if m.Note == state.Selected {
		if state.Structure == nil {
			state.Structure = textstructure.New(note.Text)
		} else {
			state.Structure.Recycle(note.Text)
		}
	}

	return state
}
