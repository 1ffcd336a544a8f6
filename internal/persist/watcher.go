package persist

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces the multiple rapid writes an editor or an
// LLM-streaming insert can produce into a single reload check.
const defaultDebounce = 150 * time.Millisecond

// Watcher monitors a note folder for changes to any file within it,
// debouncing rapid successive writes, and reports which path changed so
// the caller can resolve it back to a NoteID via Store and decide
// whether a reload is warranted (spec.md §6's foreign-update rule).
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string

	events   chan string
	errors   chan error
	done     chan struct{}
	debounce time.Duration

	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a Watcher for root, which must already exist.
func NewWatcher(root string) (*Watcher, error) {
	return NewWatcherWithDebounce(root, defaultDebounce)
}

// NewWatcherWithDebounce creates a Watcher with a custom debounce.
func NewWatcherWithDebounce(root string, debounce time.Duration) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsWatcher.Add(absRoot); err != nil {
		_ = fsWatcher.Close()

		return nil, err
	}

	w := &Watcher{
		watcher:  fsWatcher,
		root:     absRoot,
		events:   make(chan string, 8),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
		debounce: debounce,
	}

	go w.loop()

	return w, nil
}

// Events reports a debounced path for every file under root that
// changed. The channel is buffered; a slow consumer may coalesce
// multiple distinct paths into fewer deliveries, never more.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors reports errors from the underlying fsnotify watcher.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()

		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)

	return w.watcher.Close()
}

func (w *Watcher) loop() {
	pending := map[string]*time.Timer{}
	fired := make(chan string, 8)

	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			path := event.Name
			if t, exists := pending[path]; exists {
				if !t.Stop() {
					select {
					case <-t.C:
					default:
					}
				}

				t.Reset(w.debounce)

				continue
			}

			pending[path] = time.AfterFunc(w.debounce, func() {
				select {
				case fired <- path:
				case <-w.done:
				}
			})

		case path := <-fired:
			delete(pending, path)
			w.sendEvent(path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.sendError(err)
		}
	}
}

func (w *Watcher) sendEvent(path string) {
	select {
	case w.events <- path:
	default:
		// consumer is behind; drop rather than block the loop
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
