package script

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Interpreter is the single per-note-evaluation `js`-lane interpreter of
// spec.md §4.5: state set by one source block (its exports) is visible to
// every later source block in the same reconciliation pass.
type Interpreter struct {
	mu       sync.Mutex
	vars     map[string]any
	exports  map[string]any
	programs map[string]*vm.Program
}

// NewInterpreter builds an interpreter with an empty persistent
// environment and registers the `export` builtin that js blocks call to
// publish a value for a settings `InsertText { call "<exportedName>" }`
// binding or a sibling js block to consume.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		vars:     map[string]any{},
		exports:  map[string]any{},
		programs: map[string]*vm.Program{},
	}
	ip.vars["export"] = func(name string, value any) any {
		ip.exports[name] = value
		ip.vars[name] = value

		return value
	}

	return ip
}

// Eval compiles (or reuses a cached compilation of) body as an expression
// against the interpreter's persistent environment, runs it, and renders
// the result as the output block's body text.
func (ip *Interpreter) Eval(body string) (string, error) {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	prog, ok := ip.programs[body]
	if !ok {
		var err error

		prog, err = expr.Compile(body, expr.AllowUndefinedVariables())
		if err != nil {
			return "", fmt.Errorf("compile js block: %w", err)
		}

		ip.programs[body] = prog
	}

	result, err := expr.Run(prog, ip.vars)
	if err != nil {
		return "", fmt.Errorf("run js block: %w", err)
	}

	return renderValue(result), nil
}

// Export looks up a name published by a prior `export(name, value)` call.
func (ip *Interpreter) Export(name string) (any, bool) {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	v, ok := ip.exports[name]

	return v, ok
}

// ExportCount reports how many exports are published under name: 1 after
// an `export(name, value)` call, 0 otherwise (exporting the same name
// again replaces the earlier value).
func (ip *Interpreter) ExportCount(name string) int {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	if _, ok := ip.exports[name]; ok {
		return 1
	}

	return 0
}

func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strconv.Quote(t)
	default:
		return fmt.Sprint(t)
	}
}
