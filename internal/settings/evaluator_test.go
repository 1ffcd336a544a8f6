package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHotkeys struct {
	installed []Shortcut
}

func (f *fakeHotkeys) Install(s Shortcut) error {
	f.installed = append(f.installed, s)

	return nil
}

func (f *fakeHotkeys) Uninstall(s Shortcut) error {
	for i, existing := range f.installed {
		if existing == s {
			f.installed = append(f.installed[:i], f.installed[i+1:]...)

			return nil
		}
	}

	return nil
}

func alwaysExported(string) bool { return true }
func neverExported(string) bool  { return false }

func TestEvaluatorApplyInstallsPredefinedBinding(t *testing.T) {
	hk := &fakeHotkeys{}
	e := NewEvaluator(hk)

	errs := e.Apply(0, alwaysExported, `bind "Cmd A" { HideApp; }`)
	assert.Empty(t, errs)
	require.Len(t, e.Bindings(), 1)
	assert.Equal(t, "HideApp", e.Bindings()[0].Entry.Action.Name)
}

func TestEvaluatorApplyInstallsGlobalHotkey(t *testing.T) {
	hk := &fakeHotkeys{}
	e := NewEvaluator(hk)

	errs := e.Apply(0, alwaysExported, `global "Ctrl Shift Space" { ShowHideApp; }`)
	assert.Empty(t, errs)
	require.Len(t, hk.installed, 1)
	assert.Equal(t, Shortcut{Modifiers: []string{"Ctrl", "Shift"}, Key: "Space"}, hk.installed[0])
}

func TestEvaluatorApplyResetsPreviousGlobalsBeforeReinstalling(t *testing.T) {
	hk := &fakeHotkeys{}
	e := NewEvaluator(hk)

	e.Apply(0, alwaysExported, `global "Cmd 1" { ShowHideApp; }`)
	require.Len(t, hk.installed, 1)

	e.Apply(0, alwaysExported, `global "Cmd 2" { ShowHideApp; }`)
	require.Len(t, hk.installed, 1)
	assert.Equal(t, "2", hk.installed[0].Key)
}

func TestEvaluatorApplyRejectsInsertTextCallToUnknownExport(t *testing.T) {
	hk := &fakeHotkeys{}
	e := NewEvaluator(hk)

	errs := e.Apply(3, neverExported, `bind "Cmd K" { InsertText { text { call "missing" } } }`)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].BlockIndex)
	assert.Empty(t, e.Bindings())
}

func TestEvaluatorApplyAcceptsInsertTextCallToKnownExport(t *testing.T) {
	hk := &fakeHotkeys{}
	e := NewEvaluator(hk)

	errs := e.Apply(0, alwaysExported, `bind "Cmd K" { InsertText { text { call "greeting" } } }`)
	assert.Empty(t, errs)
	require.Len(t, e.Bindings(), 1)
	require.NotNil(t, e.Bindings()[0].InsertText)
	assert.Equal(t, "greeting", e.Bindings()[0].InsertText.Call)
}

func TestEvaluatorApplyRejectsUnknownCommandName(t *testing.T) {
	hk := &fakeHotkeys{}
	e := NewEvaluator(hk)

	errs := e.Apply(0, alwaysExported, `bind "Cmd Q" { NotARealCommand; }`)
	require.Len(t, errs, 1)
	assert.Empty(t, e.Bindings())
}

func TestEvaluatorApplyReplacesLLMDefaultsEachCall(t *testing.T) {
	hk := &fakeHotkeys{}
	e := NewEvaluator(hk)

	e.Apply(0, alwaysExported, `ai { model "gpt-4" }`)
	require.Len(t, e.LLM(), 1)

	e.Apply(0, alwaysExported, `bind "Cmd A" { HideApp; }`)
	assert.Empty(t, e.LLM())
}
