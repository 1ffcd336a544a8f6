package command

import (
	"strconv"
	"strings"
)

// Action names an app-level effect a named command resolves to when it
// isn't a pure text command — window/note management the command layer
// itself has no access to (spec.md §4.6's bind targets, supplementing the
// GUI-only slash palette this module has no interactive surface for).
type Action struct {
	Name string
	Arg  int
}

// Entry is what a Registry name resolves to: exactly one of a selection
// command, a cursor command, or an app-level action.
type Entry struct {
	Selection SelectionCommand
	Cursor    Command
	Action    *Action
}

// Registry maps the named built-in commands referenced from settings-grammar
// bindings (spec.md §4.6: `bind "<shortcut>" { <Command> }`) to their
// implementation.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a Registry pre-populated with every built-in command
// this module implements.
func NewRegistry() *Registry {
	return NewRegistryWithSources(nil)
}

// NewRegistryWithSources builds a Registry the same way NewRegistry does,
// additionally registering "PasteClipboard" against the given Sources (so
// a host that has a real clipboard reader, e.g. github.com/atotto/clipboard,
// can make it available to settings-grammar bindings). A nil/empty sources
// still registers the command; it simply always declines.
func NewRegistryWithSources(sources Sources) *Registry {
	r := &Registry{entries: map[string]Entry{}}

	r.entries["PasteClipboard"] = Entry{Selection: PasteFrom("clipboard", sources)}

	r.entries["MarkdownBold"] = Entry{Selection: ToggleBold}
	r.entries["MarkdownItalic"] = Entry{Selection: ToggleItalic}
	r.entries["MarkdownStrike"] = Entry{Selection: ToggleStrike}
	r.entries["MarkdownCodeBlock"] = Entry{Selection: ToggleCodeBlock}

	r.entries["MarkdownH1"] = Entry{Cursor: ToggleHeading(1)}
	r.entries["MarkdownH2"] = Entry{Cursor: ToggleHeading(2)}
	r.entries["MarkdownH3"] = Entry{Cursor: ToggleHeading(3)}

	r.entries["EnterInList"] = Entry{Cursor: EnterInList}
	r.entries["TabInList"] = Entry{Cursor: TabInList}
	r.entries["ShiftTabInList"] = Entry{Cursor: ShiftTabInList}
	r.entries["SpaceAfterBrackets"] = Entry{Cursor: SpaceAfterBrackets}
	r.entries["IndentKdlChildren"] = Entry{Cursor: IndentKdlChildren}
	r.entries["AutoCloseBraceInKdl"] = Entry{Selection: AutoCloseBraceInKdl}

	r.entries["HideApp"] = Entry{Action: &Action{Name: "HideApp"}}
	r.entries["ShowHideApp"] = Entry{Action: &Action{Name: "ShowHideApp"}}
	r.entries["NewNote"] = Entry{Action: &Action{Name: "NewNote"}}
	r.entries["CloseNote"] = Entry{Action: &Action{Name: "CloseNote"}}

	return r
}

// Register adds or overwrites a named entry, letting callers extend the
// built-in catalog (e.g. with app-specific actions) without modifying this
// package.
func (r *Registry) Register(name string, entry Entry) {
	r.entries[name] = entry
}

// Lookup resolves name, parsing a trailing integer argument for
// parameterized commands like "SwitchToNote 3".
func (r *Registry) Lookup(name string) (Entry, bool) {
	if e, ok := r.entries[name]; ok {
		return e, true
	}

	base, arg, ok := splitTrailingInt(name)
	if !ok {
		return Entry{}, false
	}

	switch base {
	case "SwitchToNote":
		return Entry{Action: &Action{Name: base, Arg: arg}}, true
	default:
		return Entry{}, false
	}
}

// splitTrailingInt splits "Name N" into ("Name", N, true), or reports false
// if name has no trailing integer argument.
func splitTrailingInt(name string) (base string, n int, ok bool) {
	sp := strings.LastIndexByte(name, ' ')
	if sp < 0 {
		return "", 0, false
	}

	n, err := strconv.Atoi(name[sp+1:])
	if err != nil {
		return "", 0, false
	}

	return name[:sp], n, true
}
