package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/watzon/blogwebhook/internal/posts"
)

// EventType represents the type of file change event.
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
	EventRenamed
)

// FileEvent represents a file change event.
type FileEvent struct {
	Type EventType
	Path string
	Name string
}

// String returns a human-readable string for the event type.
func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Watcher watches directory trees for changes and delivers debounced events.
// Handlers run on a single goroutine, one event at a time.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	handlers  map[string][]WatchHandler
	mu        sync.RWMutex
	wg        sync.WaitGroup
	events    chan FileEvent
	done      chan struct{}
	stopOnce  sync.Once
	pendingMu sync.Mutex
	pending   map[string]*pendingEvent
}

type pendingEvent struct {
	timer *time.Timer
	event FileEvent
}

// WatchHandler is called when a file change is detected.
type WatchHandler func(event FileEvent)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration for file events.
// Multiple events for the same file within this duration will be coalesced.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a new file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsWatcher,
		debounce: 100 * time.Millisecond,
		handlers: make(map[string][]WatchHandler),
		events:   make(chan FileEvent, 100),
		done:     make(chan struct{}),
		pending:  make(map[string]*pendingEvent),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// WatchDir watches a directory and every directory below it. Directories
// created later are added as they appear.
func (w *Watcher) WatchDir(dir string, handler WatchHandler) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	w.handlers[dir] = append(w.handlers[dir], handler)
	w.mu.Unlock()

	return w.addTree(dir, false)
}

// addTree watches root and its subdirectories. With announce set, files
// already present are reported as created, since they arrived before their
// directory was watched and produced no events of their own.
func (w *Watcher) addTree(root string, announce bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		if announce && d.Type().IsRegular() {
			w.schedule(path, EventCreated)
		}
		return nil
	})
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(2)

	go func() {
		defer w.wg.Done()
		w.processLoop(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.dispatchLoop(ctx)
	}()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.wg.Wait()

		w.pendingMu.Lock()
		for name, p := range w.pending {
			p.timer.Stop()
			delete(w.pending, name)
		}
		w.pendingMu.Unlock()

		err = w.watcher.Close()
	})
	return err
}

// processLoop reads fsnotify events and converts them to FileEvents.
func (w *Watcher) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

// handleFSEvent converts an fsnotify event to a FileEvent and debounces it.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	var eventType EventType
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = EventCreated
	case event.Op&fsnotify.Write != 0:
		eventType = EventModified
	case event.Op&fsnotify.Remove != 0:
		eventType = EventDeleted
	case event.Op&fsnotify.Rename != 0:
		eventType = EventRenamed
	default:
		return
	}

	if eventType == EventCreated {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name, true); err != nil {
				log.Warn().Err(err).Str("path", event.Name).Msg("Failed to watch new directory")
			}
			return
		}
	}

	w.schedule(event.Name, eventType)
}

// schedule debounces an event for path.
func (w *Watcher) schedule(path string, eventType EventType) {
	fileEvent := FileEvent{
		Type: eventType,
		Path: path,
		Name: filepath.Base(path),
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if p, exists := w.pending[path]; exists {
		p.timer.Stop()
		// A create followed by writes stays a create.
		if p.event.Type == EventCreated && eventType == EventModified {
			fileEvent.Type = EventCreated
		}
	}

	w.pending[path] = &pendingEvent{
		event: fileEvent,
		timer: time.AfterFunc(w.debounce, func() {
			w.pendingMu.Lock()
			delete(w.pending, path)
			w.pendingMu.Unlock()

			select {
			case w.events <- fileEvent:
			default:
				log.Warn().Str("path", path).Msg("Event channel full, dropping event")
			}
		}),
	}
}

// dispatchLoop dispatches file events to registered handlers.
func (w *Watcher) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event := <-w.events:
			w.dispatchEvent(event)
		}
	}
}

// dispatchEvent finds matching handlers and calls them.
func (w *Watcher) dispatchEvent(event FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for dir, handlers := range w.handlers {
		if inDir(event.Path, dir) {
			for _, handler := range handlers {
				handler(event)
			}
		}
	}
}

// inDir reports whether path is dir or lies below it.
func inDir(path, dir string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

// PostWatcher watches a content directory and reports changes to files
// matching a post pattern.
type PostWatcher struct {
	watcher  *Watcher
	matcher  *posts.Matcher
	onChange func(path string, eventType EventType)
}

// NewPostWatcher creates a watcher for post files under dir.
func NewPostWatcher(dir, pattern string, debounce time.Duration, onChange func(path string, eventType EventType)) (*PostWatcher, error) {
	dir = filepath.Clean(dir)

	matcher, err := posts.NewMatcher(dir, pattern)
	if err != nil {
		return nil, err
	}

	w, err := NewWatcher(WithDebounce(debounce))
	if err != nil {
		return nil, err
	}

	pw := &PostWatcher{
		watcher:  w,
		matcher:  matcher,
		onChange: onChange,
	}

	if err := w.WatchDir(dir, func(event FileEvent) {
		if !pw.matcher.Match(event.Path) {
			return
		}
		log.Debug().
			Str("event", event.Type.String()).
			Str("path", event.Path).
			Msg("Post file changed")
		if pw.onChange != nil {
			pw.onChange(event.Path, event.Type)
		}
	}); err != nil {
		_ = w.Stop()
		return nil, err
	}

	return pw, nil
}

// Start begins watching for post changes.
func (pw *PostWatcher) Start(ctx context.Context) {
	pw.watcher.Start(ctx)
}

// Stop stops the post watcher.
func (pw *PostWatcher) Stop() error {
	return pw.watcher.Stop()
}
