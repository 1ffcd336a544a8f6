package persist_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twop/shelv/internal/appio"
	"github.com/twop/shelv/internal/persist"
)

func newStore(t *testing.T) *persist.Store {
	t.Helper()

	return persist.NewStore(afero.NewMemMapFs(), "/notes")
}

func TestWireNoteIDRoundTripsSettings(t *testing.T) {
	data, err := persist.SettingsWireID.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"Settings"`, string(data))

	var w persist.WireNoteID
	require.NoError(t, w.UnmarshalJSON(data))
	assert.Equal(t, persist.SettingsWireID, w)
}

func TestWireNoteIDRoundTripsNoteSlot(t *testing.T) {
	original := persist.NoteWireID(3)

	data, err := original.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"Note":3}`, string(data))

	var w persist.WireNoteID
	require.NoError(t, w.UnmarshalJSON(data))
	assert.Equal(t, original, w)
}

func TestStoreEnsureSlotIsStableAndSequential(t *testing.T) {
	s := newStore(t)
	a := appio.NewNoteID()
	b := appio.NewNoteID()

	assert.Equal(t, 1, s.EnsureSlot(a))
	assert.Equal(t, 2, s.EnsureSlot(b))
	assert.Equal(t, 1, s.EnsureSlot(a)) // stable on re-query

	back, ok := s.NoteForSlot(1)
	assert.True(t, ok)
	assert.Equal(t, a, back)
}

func TestStoreLoadNoteBootstrapsMissingFile(t *testing.T) {
	s := newStore(t)
	id := appio.NewNoteID()

	text, modTime, err := s.LoadNote(id)
	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.False(t, modTime.IsZero())

	exists, err := afero.Exists(s.Fs, "/notes/note-1.md")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreSettingsNoteUsesSettingsPath(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.WriteNote(appio.SettingsNoteID, "bind"))

	exists, err := afero.Exists(s.Fs, "/notes/settings.md")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreLoadStateDefaultsWhenMissing(t *testing.T) {
	s := newStore(t)

	st, err := s.LoadState()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Version)
	assert.Equal(t, persist.SettingsWireID, st.Selected)
}

func TestStoreSaveThenLoadStateRoundTrips(t *testing.T) {
	s := newStore(t)
	id := appio.NewNoteID()
	s.EnsureSlot(id)

	saved := persist.State{
		Version:   1,
		LastSaved: time.UnixMilli(1_700_000_000_000),
		Selected:  persist.NoteWireID(1),
	}
	require.NoError(t, s.SaveState(saved))

	loaded, err := s.LoadState()
	require.NoError(t, err)
	assert.Equal(t, saved.Version, loaded.Version)
	assert.Equal(t, saved.Selected, loaded.Selected)
	assert.True(t, saved.LastSaved.Equal(loaded.LastSaved))
}

func TestStoreWriteThenModTimeAdvancesOnRewrite(t *testing.T) {
	s := newStore(t)
	id := appio.NewNoteID()

	require.NoError(t, s.WriteNote(id, "v1"))
	first, err := s.ModTime(id)
	require.NoError(t, err)

	require.NoError(t, s.WriteNote(id, "v2"))
	second, err := s.ModTime(id)
	require.NoError(t, err)

	assert.False(t, second.Before(first))
}
