package command

import (
	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/textstructure"
)

// Sources supplies named external text for the CopyFrom instruction, e.g.
// "clipboard" backed by github.com/atotto/clipboard. A source that
// declines (ok == false) fails the instruction tree it appears in.
type Sources map[string]func() (string, bool)

// buildState is the mutable context threaded through an instruction tree
// evaluation: the growing replacement text and the span it will replace.
type buildState struct {
	ts          *textstructure.TextStructure
	text        string
	replaceArea bytespan.Span
	out         string
	sources     Sources
}

// Instruction is one node of the declarative composition tree of spec.md
// §9: Insert/PlaceCursor/CopyFrom/SetReplaceArea/Seq/Condition/MatchFirst,
// supplied so settings-grammar bindings can compose text edits without
// embedding code.
type Instruction interface {
	apply(st *buildState) bool
}

// Insert appends literal text to the instruction tree's output. The text
// may itself embed a caret marker (spec.md §4.3).
type Insert string

func (ins Insert) apply(st *buildState) bool {
	st.out += string(ins)

	return true
}

// PlaceCursor appends the zero-width caret marker at the current position
// in the output, so the resulting change relocates the caret there.
type PlaceCursor struct{}

func (PlaceCursor) apply(st *buildState) bool {
	st.out += change.Cursor

	return true
}

// CopyFrom appends the named external source's text (e.g. "clipboard").
// The instruction declines if the source is unknown or itself declines.
type CopyFrom string

func (c CopyFrom) apply(st *buildState) bool {
	provider, ok := st.sources[string(c)]
	if !ok {
		return false
	}

	text, ok := provider()
	if !ok {
		return false
	}

	st.out += text

	return true
}

// SetReplaceArea retargets the span the tree's final change will replace.
type SetReplaceArea struct {
	Span bytespan.Span
}

func (s SetReplaceArea) apply(st *buildState) bool {
	st.replaceArea = s.Span

	return true
}

// Seq runs every child in order, stopping (and declining) at the first
// that declines.
type Seq []Instruction

func (seq Seq) apply(st *buildState) bool {
	for _, instr := range seq {
		if !instr.apply(st) {
			return false
		}
	}

	return true
}

// Condition runs Then when If holds, Else otherwise; a nil branch is a
// no-op rather than a decline.
type Condition struct {
	If   func(ts *textstructure.TextStructure, text string) bool
	Then Instruction
	Else Instruction
}

func (c Condition) apply(st *buildState) bool {
	branch := c.Else
	if c.If(st.ts, st.text) {
		branch = c.Then
	}

	if branch == nil {
		return true
	}

	return branch.apply(st)
}

// MatchFirst tries each child against an independent snapshot of the
// output built so far, committing the first that succeeds. It declines
// only if every child does.
type MatchFirst []Instruction

func (m MatchFirst) apply(st *buildState) bool {
	for _, instr := range m {
		snapshot := *st
		if instr.apply(st) {
			return true
		}

		*st = snapshot
	}

	return false
}

// Run evaluates root against (ts, text), replacing initialArea with
// whatever the tree builds, and returns the resulting single change. ok is
// false if any instruction along the taken path declined.
func Run(
	ts *textstructure.TextStructure,
	text string,
	initialArea bytespan.Span,
	sources Sources,
	root Instruction,
) ([]change.Change, bool) {
	st := &buildState{ts: ts, text: text, replaceArea: initialArea, sources: sources}

	if !root.apply(st) {
		return nil, false
	}

	return []change.Change{replace(st.replaceArea, st.out)}, true
}

// PasteFrom builds a SelectionCommand that replaces the selection with
// the named source's text (e.g. name "clipboard" backed by
// github.com/atotto/clipboard, supplied by the host). The command
// declines, leaving the selection untouched, if sources has nothing
// registered under name or the source itself declines.
func PasteFrom(name string, sources Sources) SelectionCommand {
	return func(ts *textstructure.TextStructure, text string, selection bytespan.Unordered) ([]change.Change, bool) {
		return Run(ts, text, selection.Ordered(), sources, CopyFrom(name))
	}
}
