package settings

import (
	"fmt"

	"github.com/twop/shelv/internal/command"
	"github.com/twop/shelv/internal/shelverrs"
)

// GlobalHotkeyInstaller is the OS-level collaborator that actually
// registers/unregisters global hotkeys, kept as an interface so this
// package stays testable without a real window-manager binding.
type GlobalHotkeyInstaller interface {
	Install(Shortcut) error
	Uninstall(Shortcut) error
}

// InstalledBinding is one local binding after resolution against the
// command registry, ready for the editor's keymap to consult.
type InstalledBinding struct {
	Shortcut    Shortcut
	Alias       string
	Description string
	Entry       command.Entry
	InsertText  *InsertTextCommand
}

// InstalledGlobal is one global binding after its hotkey has been
// installed with the OS.
type InstalledGlobal struct {
	Shortcut Shortcut
	Command  string
}

// Evaluator holds the currently-active settings: the local keymap, the
// installed global hotkeys, and the most recent LLM defaults. Apply
// implements spec.md §4.6's reset-then-reinstall semantics: every call
// starts from the built-in command catalog and an empty keymap, so a
// settings note always reflects exactly what is currently written in it.
type Evaluator struct {
	hotkeys GlobalHotkeyInstaller
	sources command.Sources

	registry *command.Registry
	bindings []InstalledBinding
	globals  []InstalledGlobal
	llm      []LLMDefaults
}

func NewEvaluator(hotkeys GlobalHotkeyInstaller) *Evaluator {
	return NewEvaluatorWithSources(hotkeys, nil)
}

// NewEvaluatorWithSources builds an Evaluator the same way NewEvaluator
// does, additionally threading sources through every reset so host-backed
// commands like "PasteClipboard" survive settings-note re-evaluation
// instead of only existing until the first Apply wipes the registry.
func NewEvaluatorWithSources(hotkeys GlobalHotkeyInstaller, sources command.Sources) *Evaluator {
	return &Evaluator{
		hotkeys:  hotkeys,
		sources:  sources,
		registry: command.NewRegistryWithSources(sources),
	}
}

func (e *Evaluator) Bindings() []InstalledBinding { return e.bindings }
func (e *Evaluator) Globals() []InstalledGlobal   { return e.globals }
func (e *Evaluator) LLM() []LLMDefaults           { return e.llm }

// Registry exposes the command catalog currently in effect, so callers
// can resolve keymap entries the same way settings `bind` nodes do.
func (e *Evaluator) Registry() *command.Registry { return e.registry }

// Apply resets the evaluator to built-ins, parses src as one settings
// block, and reinstalls everything it successfully parsed. hasExport is
// consulted to validate `InsertText { text { call "name" } }` bindings
// against the script engine's currently exported names (spec.md §4.5/§4.6);
// pass a func that always returns true to skip that check.
//
// Apply never aborts partway: a malformed node is reported as one error
// and every other node in the block is still attempted.
func (e *Evaluator) Apply(blockIndex int, hasExport func(name string) bool, src string) []*shelverrs.ParseSettingsError {
	e.reset()

	return e.applyOne(blockIndex, hasExport, src)
}

// SettingsBlock is one fenced settings-language block found in document
// order within a note, identified by its position among such blocks
// (not its span index) for error attribution.
type SettingsBlock struct {
	Index int
	Text  string
}

// ApplyAll resets the evaluator once, then applies every block in blocks
// in order, letting bindings/globals/LLM-defaults accumulate across
// blocks the way spec.md §4.6 describes for "the settings note" as a
// whole rather than any single fenced block.
func (e *Evaluator) ApplyAll(blocks []SettingsBlock, hasExport func(name string) bool) []*shelverrs.ParseSettingsError {
	e.reset()

	var errs []*shelverrs.ParseSettingsError

	for _, b := range blocks {
		errs = append(errs, e.applyOne(b.Index, hasExport, b.Text)...)
	}

	return errs
}

func (e *Evaluator) applyOne(blockIndex int, hasExport func(name string) bool, src string) []*shelverrs.ParseSettingsError {
	settings, err := ParseBlock(blockIndex, src)

	var errs []*shelverrs.ParseSettingsError

	if err != nil {
		errs = append(errs, collectParseErrors(err)...)
	}

	for _, b := range settings.Bindings {
		installed, rerr := e.resolveLocalBinding(b, hasExport)
		if rerr != nil {
			errs = append(errs, &shelverrs.ParseSettingsError{BlockIndex: blockIndex, Offset: b.Offset, Err: rerr})

			continue
		}

		e.bindings = append(e.bindings, installed)
	}

	for _, g := range settings.GlobalBindings {
		if err := e.hotkeys.Install(g.Shortcut); err != nil {
			errs = append(errs, &shelverrs.ParseSettingsError{BlockIndex: blockIndex, Offset: g.Offset, Err: err})

			continue
		}

		e.globals = append(e.globals, InstalledGlobal{Shortcut: g.Shortcut, Command: g.Command})
	}

	e.llm = append(e.llm, settings.LLM...)

	return errs
}

// reset uninstalls every previously-installed global hotkey and rebuilds
// the command registry and keymap fresh.
func (e *Evaluator) reset() {
	for _, g := range e.globals {
		_ = e.hotkeys.Uninstall(g.Shortcut)
	}

	e.registry = command.NewRegistryWithSources(e.sources)
	e.bindings = nil
	e.globals = nil
	e.llm = nil
}

func (e *Evaluator) resolveLocalBinding(b LocalBinding, hasExport func(name string) bool) (InstalledBinding, error) {
	switch b.Command.Kind {
	case CommandInsertText:
		it := b.Command.InsertText
		if it.UseCall && !hasExport(it.Call) {
			return InstalledBinding{}, fmt.Errorf("InsertText calls unknown script export %q", it.Call)
		}

		itCopy := it

		return InstalledBinding{Shortcut: b.Shortcut, Alias: b.Alias, Description: b.Description, InsertText: &itCopy}, nil
	default:
		name := b.Command.Name
		if b.Command.HasArg {
			name = fmt.Sprintf("%s %d", name, b.Command.Arg)
		}

		entry, ok := e.registry.Lookup(name)
		if !ok {
			return InstalledBinding{}, fmt.Errorf("unknown command %q", name)
		}

		return InstalledBinding{Shortcut: b.Shortcut, Alias: b.Alias, Description: b.Description, Entry: entry}, nil
	}
}

// collectParseErrors unwraps the *multierror.Error ParseBlock returns
// back into its individual *shelverrs.ParseSettingsError values, or wraps
// a bare error (e.g. a lexer/node-parse failure) as a single one.
func collectParseErrors(err error) []*shelverrs.ParseSettingsError {
	if me, ok := err.(interface{ WrappedErrors() []error }); ok {
		var out []*shelverrs.ParseSettingsError

		for _, sub := range me.WrappedErrors() {
			if pe, ok := sub.(*shelverrs.ParseSettingsError); ok {
				out = append(out, pe)
			}
		}

		return out
	}

	if pe, ok := err.(*shelverrs.ParseSettingsError); ok {
		return []*shelverrs.ParseSettingsError{pe}
	}

	return nil
}
