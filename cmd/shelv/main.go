// Command shelv wires the editor's pure reducer to its real
// collaborators: the on-disk note folder, the OpenAI streaming client,
// and a directory watcher for foreign edits. There is no interactive
// CLI surface (spec.md scopes that out); this binary's job is to load
// whatever is on disk, keep it reconciled as events arrive, and save
// state back on exit.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/twop/shelv/internal/app"
	"github.com/twop/shelv/internal/appio"
	"github.com/twop/shelv/internal/command"
	"github.com/twop/shelv/internal/config"
	"github.com/twop/shelv/internal/llmclient"
	"github.com/twop/shelv/internal/persist"
	"github.com/twop/shelv/internal/settings"
	"github.com/twop/shelv/internal/shelverrs"
	"github.com/twop/shelv/internal/theme"
)

// noopHotkeys satisfies settings.GlobalHotkeyInstaller without touching
// the OS: this entrypoint has no window to bind a global hotkey to, so
// every bind request is reported back through shelverrs.OSHotkeyRefusedError
// the same way a sandboxed/headless session would see it.
type noopHotkeys struct{}

func (noopHotkeys) Install(s settings.Shortcut) error {
	return &shelverrs.OSHotkeyRefusedError{Binding: s.String(), Reason: "global hotkeys are unavailable in headless mode"}
}

func (noopHotkeys) Uninstall(settings.Shortcut) error {
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shelv:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := theme.Load(cfg.Theme); err != nil {
		log.Printf("shelv: theme %q unavailable, using default: %v", cfg.Theme, err)
	}

	logger := log.New(os.Stderr, "shelv: ", log.LstdFlags)

	store := persist.NewStore(afero.NewOsFs(), cfg.RootPath())
	if err := store.Bootstrap(); err != nil {
		return fmt.Errorf("bootstrap note folder: %w", err)
	}

	llm := llmclient.New(os.Getenv("OPENAI_API_KEY"))
	io := appio.NewDefaultIO(llm, store.Fs)

	sources := command.Sources{
		"clipboard": func() (string, bool) {
			text, err := clipboard.ReadAll()

			return text, err == nil
		},
	}
	state := app.NewAppStateWithSources(noopHotkeys{}, logger, sources)

	if err := loadNotes(store, &state); err != nil {
		return fmt.Errorf("load notes: %w", err)
	}

	savedState, err := store.LoadState()
	if err != nil {
		return fmt.Errorf("load state.json: %w", err)
	}

	selected := resolveSelected(store, savedState)
	state, _ = app.Update(state, io, app.SelectNoteMsg{Note: selected})

	for _, id := range state.Notes.Ordered() {
		state, _ = app.Update(state, io, app.ForceReconcileMsg{Note: id})
	}

	watcher, err := persist.NewWatcher(cfg.RootPath())
	if err != nil {
		return fmt.Errorf("watch note folder: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	msgCh := make(chan tea.Msg, 32)
	dispatch := func(cmd tea.Cmd) {
		if cmd == nil {
			return
		}

		go func() {
			if msg := cmd(); msg != nil {
				msgCh <- msg
			}
		}()
	}

	saveTicker := time.NewTicker(2 * time.Second)
	defer saveTicker.Stop()

	for {
		select {
		case sig := <-sigCh:
			logger.Printf("received %v, saving state and exiting", sig)

			return saveState(store, state)

		case path := <-watcher.Events():
			id, ok := noteForPath(store, state, path)
			if !ok {
				continue
			}

			if _, ok := state.Notes.Get(id); !ok {
				continue
			}

			lastSaved, err := store.ModTime(id)
			if err != nil {
				continue
			}

			dispatch(io.TryReadNoteIfNewer(id, path, lastSaved))

		case err := <-watcher.Errors():
			logger.Printf("watcher error: %v", err)

		case <-saveTicker.C:
			if err := saveState(store, state); err != nil {
				logger.Printf("save state: %v", err)
			}

		case msg := <-msgCh:
			var cmd tea.Cmd
			state, cmd = app.Update(state, io, msg)
			dispatch(cmd)

			if reloaded, ok := msg.(appio.NoteReloadedMsg); ok {
				note, ok := state.Notes.Get(reloaded.Note)
				if ok {
					_ = store.WriteNote(reloaded.Note, note.Text)
				}
			}
		}
	}
}

// loadNotes populates state from every note-<n>.md already on disk, in
// slot order, plus the settings note.
func loadNotes(store *persist.Store, state *app.AppState) error {
	entries, err := afero.ReadDir(store.Fs, store.Root)
	if err != nil {
		return err
	}

	var slots []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "note-") || !strings.HasSuffix(name, ".md") {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "note-"), ".md"))
		if err != nil {
			continue
		}

		slots = append(slots, n)
	}

	sort.Ints(slots)

	for _, slot := range slots {
		id := appio.NewNoteID()
		if got := store.EnsureSlot(id); got != slot {
			// a gap in slot numbers on disk; keep the sequential
			// assignment anyway rather than guessing at the gap.
			continue
		}

		text, _, err := store.LoadNote(id)
		if err != nil {
			return err
		}

		state.Notes.Add(id, &app.Note{Text: text})
	}

	settingsText, _, err := store.LoadNote(appio.SettingsNoteID)
	if err != nil {
		return err
	}

	state.Notes.Add(appio.SettingsNoteID, &app.Note{Text: settingsText})

	return nil
}

// resolveSelected maps state.json's saved selection back to an in-memory
// NoteID, falling back to the settings note if the slot is unknown (e.g.
// the folder was pruned by hand since the last run).
func resolveSelected(store *persist.Store, saved persist.State) appio.NoteID {
	if saved.Selected.Settings {
		return appio.SettingsNoteID
	}

	if id, ok := store.NoteForSlot(saved.Selected.Slot); ok {
		return id
	}

	return appio.SettingsNoteID
}

// noteForPath resolves a watcher-reported path back to the NoteID it
// belongs to, by comparing against every note currently held in state.
func noteForPath(store *persist.Store, state app.AppState, path string) (appio.NoteID, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return appio.NoteID{}, false
	}

	for _, id := range state.Notes.Ordered() {
		candidate, err := filepath.Abs(store.PathFor(id))
		if err != nil {
			continue
		}

		if candidate == absPath {
			return id, true
		}
	}

	return appio.NoteID{}, false
}

// saveState persists the session's selected note alongside the current
// time as last_saved.
func saveState(store *persist.Store, state app.AppState) error {
	return store.SaveState(persist.State{
		Version:   1,
		LastSaved: time.Now(),
		Selected:  store.WireIDFor(state.Selected),
	})
}
