package settings

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/twop/shelv/internal/shelverrs"
)

// CommandKind distinguishes a named built-in reference from an inline
// InsertText command.
type CommandKind uint8

const (
	CommandNamed CommandKind = iota
	CommandInsertText
)

// ParsedCommand is a `bind`'s `<Command>` body: either a reference into
// the built-in catalog (spec.md §9's Registry) or an InsertText literal.
type ParsedCommand struct {
	Kind       CommandKind
	Name       string // CommandNamed
	HasArg     bool
	Arg        int
	InsertText InsertTextCommand // CommandInsertText
}

// InsertTextCommand is `InsertText { target "selection"; text "..." | { call "name" } }`.
type InsertTextCommand struct {
	Target string
	UseCall bool
	Inline  string // set when !UseCall
	Call    string // set when UseCall
}

// LocalBinding is one parsed `bind` node.
type LocalBinding struct {
	Offset      int
	Shortcut    Shortcut
	Command     ParsedCommand
	Alias       string
	Description string
}

// GlobalBinding is one parsed `global` node.
type GlobalBinding struct {
	Offset   int
	Shortcut Shortcut
	Command  string // currently only "ShowHideApp"
}

// LLMDefaults is one parsed `ai` node.
type LLMDefaults struct {
	Offset       int
	Model        string
	SystemPrompt string
}

// Settings is everything parsed out of one settings-language fenced
// block.
type Settings struct {
	Bindings       []LocalBinding
	GlobalBindings []GlobalBinding
	LLM            []LLMDefaults
}

// ParseBlock parses one settings block's source, returning as much of
// Settings as parsed successfully and one *shelverrs.ParseSettingsError
// per malformed node (aggregated with multierror so one bad `bind` never
// hides the rest, per spec.md §4.6/§7). blockIndex identifies the fenced
// block for error attribution.
func ParseBlock(blockIndex int, src string) (Settings, error) {
	nodes, err := parseDocument(src)
	if err != nil {
		return Settings{}, &shelverrs.ParseSettingsError{BlockIndex: blockIndex, Err: err}
	}

	var (
		out  Settings
		errs *multierror.Error
	)

	for _, n := range nodes {
		switch n.name {
		case "bind":
			b, err := parseLocalBinding(n)
			if err != nil {
				errs = multierror.Append(errs, &shelverrs.ParseSettingsError{BlockIndex: blockIndex, Offset: n.offset, Err: err})

				continue
			}

			out.Bindings = append(out.Bindings, b)
		case "global":
			g, err := parseGlobalBinding(n)
			if err != nil {
				errs = multierror.Append(errs, &shelverrs.ParseSettingsError{BlockIndex: blockIndex, Offset: n.offset, Err: err})

				continue
			}

			out.GlobalBindings = append(out.GlobalBindings, g)
		case "ai":
			l, err := parseLLMDefaults(n)
			if err != nil {
				errs = multierror.Append(errs, &shelverrs.ParseSettingsError{BlockIndex: blockIndex, Offset: n.offset, Err: err})

				continue
			}

			out.LLM = append(out.LLM, l)
		default:
			errs = multierror.Append(errs, &shelverrs.ParseSettingsError{
				BlockIndex: blockIndex,
				Offset:     n.offset,
				Err:        fmt.Errorf("unrecognized top-level node %q", n.name),
			})
		}
	}

	if errs != nil {
		return out, errs.ErrorOrNil()
	}

	return out, nil
}

func parseLocalBinding(n kdlNode) (LocalBinding, error) {
	shortcut, err := requireSingleShortcutArg(n)
	if err != nil {
		return LocalBinding{}, err
	}

	var alias, description string

	if v, ok := n.prop("alias"); ok {
		alias, _ = v.asString()
	}

	if v, ok := n.prop("description"); ok {
		description, _ = v.asString()
	}

	if len(n.children) != 1 {
		return LocalBinding{}, fmt.Errorf("bind %q needs exactly one command, e.g. `{ HideApp; }`", shortcut)
	}

	cmd, err := parseCommand(n.children[0])
	if err != nil {
		return LocalBinding{}, err
	}

	return LocalBinding{Offset: n.offset, Shortcut: shortcut, Command: cmd, Alias: alias, Description: description}, nil
}

func parseGlobalBinding(n kdlNode) (GlobalBinding, error) {
	shortcut, err := requireSingleShortcutArg(n)
	if err != nil {
		return GlobalBinding{}, err
	}

	if len(n.children) != 1 {
		return GlobalBinding{}, fmt.Errorf("global %q needs exactly one command, e.g. `{ ShowHideApp; }`", shortcut)
	}

	child := n.children[0]
	if child.name != "ShowHideApp" && child.name != "ToggleAppVisibility" {
		return GlobalBinding{}, fmt.Errorf("unknown global command %q", child.name)
	}

	return GlobalBinding{Offset: n.offset, Shortcut: shortcut, Command: "ShowHideApp"}, nil
}

func requireSingleShortcutArg(n kdlNode) (Shortcut, error) {
	if len(n.args) != 1 {
		return Shortcut{}, fmt.Errorf("%s expects exactly one shortcut string argument", n.name)
	}

	s, ok := n.args[0].asString()
	if !ok {
		return Shortcut{}, fmt.Errorf("%s's argument must be a string", n.name)
	}

	return parseShortcut(s)
}

func parseCommand(n kdlNode) (ParsedCommand, error) {
	if n.name == "InsertText" {
		it, err := parseInsertText(n)
		if err != nil {
			return ParsedCommand{}, err
		}

		return ParsedCommand{Kind: CommandInsertText, InsertText: it}, nil
	}

	switch len(n.args) {
	case 0:
		return ParsedCommand{Kind: CommandNamed, Name: n.name}, nil
	case 1:
		if n.args[0].isString {
			return ParsedCommand{}, fmt.Errorf("command %q does not take a string argument", n.name)
		}

		return ParsedCommand{Kind: CommandNamed, Name: n.name, HasArg: true, Arg: int(n.args[0].num)}, nil
	default:
		return ParsedCommand{}, fmt.Errorf("command %q takes at most one argument", n.name)
	}
}

func parseInsertText(n kdlNode) (InsertTextCommand, error) {
	if len(n.args) != 0 {
		return InsertTextCommand{}, fmt.Errorf("InsertText takes no direct arguments, only target/text children")
	}

	target := "selection"

	if targetNode, ok := n.child("target"); ok {
		if len(targetNode.args) != 1 {
			return InsertTextCommand{}, fmt.Errorf("target expects exactly one string argument")
		}

		s, ok := targetNode.args[0].asString()
		if !ok || s != "selection" {
			return InsertTextCommand{}, fmt.Errorf(`target only supports "selection"`)
		}

		target = s
	}

	textNode, ok := n.child("text")
	if !ok {
		return InsertTextCommand{}, fmt.Errorf("InsertText needs a 'text' child, inline string or { call \"name\" }")
	}

	if len(textNode.args) == 1 {
		s, ok := textNode.args[0].asString()
		if !ok {
			return InsertTextCommand{}, fmt.Errorf("text's inline argument must be a string")
		}

		return InsertTextCommand{Target: target, Inline: s}, nil
	}

	if len(textNode.args) != 0 {
		return InsertTextCommand{}, fmt.Errorf("text takes either one inline string or a { call \"name\" } child")
	}

	callNode, ok := textNode.child("call")
	if !ok {
		return InsertTextCommand{}, fmt.Errorf("text needs either an inline string or a 'call' child")
	}

	if len(callNode.args) != 1 {
		return InsertTextCommand{}, fmt.Errorf("call expects exactly one string argument")
	}

	name, ok := callNode.args[0].asString()
	if !ok {
		return InsertTextCommand{}, fmt.Errorf("call's argument must be a string")
	}

	return InsertTextCommand{Target: target, UseCall: true, Call: name}, nil
}

func parseLLMDefaults(n kdlNode) (LLMDefaults, error) {
	modelNode, ok := n.child("model")
	if !ok || len(modelNode.args) != 1 {
		return LLMDefaults{}, fmt.Errorf("ai needs a 'model \"name\"' child")
	}

	model, ok := modelNode.args[0].asString()
	if !ok {
		return LLMDefaults{}, fmt.Errorf("model's argument must be a string")
	}

	var systemPrompt string

	if promptNode, ok := n.child("systemPrompt"); ok && len(promptNode.args) == 1 {
		systemPrompt, _ = promptNode.args[0].asString()
	}

	return LLMDefaults{Offset: n.offset, Model: model, SystemPrompt: systemPrompt}, nil
}
