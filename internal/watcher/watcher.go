// Package watcher reports debounced changes to a fixed set of files, such as
// a configuration file and the graph files it names.
package watcher

import (
	"context"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/imyousuf/graphselect/internal/logging"
)

// EventOp represents the type of file system operation.
type EventOp int

const (
	Create EventOp = iota
	Write
	Remove
	Rename
)

// String returns the string representation of EventOp.
func (op EventOp) String() string {
	switch op {
	case Create:
		return "Create"
	case Write:
		return "Write"
	case Remove:
		return "Remove"
	case Rename:
		return "Rename"
	default:
		return "Unknown"
	}
}

// Event represents a change to one watched file.
type Event struct {
	Path string
	Op   EventOp
	Time time.Time
}

const defaultDebounce = 100 * time.Millisecond

// WatcherConfig holds configuration for the file watcher.
type WatcherConfig struct {
	// Files are the paths to report on. They need not exist yet.
	Files []string
	// Debounce collapses bursts of events per file; zero means 100ms.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches the parent directories of its files, so editors that save
// by rename are still seen, and emits debounced events for the files only.
type Watcher struct {
	cfg    WatcherConfig
	files  map[string]bool
	dirs   []string
	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a new file watcher with the given configuration.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	w := &Watcher{cfg: cfg, files: make(map[string]bool, len(cfg.Files))}
	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(w.dirs, dir) {
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Files returns the absolute paths being watched.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Start begins watching and returns a channel of debounced events. The
// channel closes when ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	out := make(chan Event, 100)
	go w.eventLoop(ctx, fsw, out)
	return out, nil
}

// Close shuts down the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// eventLoop runs the debounce on one goroutine: each path keeps its latest
// event and a deadline, and a single timer fires for the earliest deadline.
func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Event) {
	defer close(out)

	pending := make(map[string]Event)
	due := make(map[string]time.Time)
	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	rearm := func() {
		var next time.Time
		for _, d := range due {
			if next.IsZero() || d.Before(next) {
				next = d
			}
		}
		if !next.IsZero() {
			timer.Reset(time.Until(next))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case fsEvent, ok := <-fsw.Events:
			if !ok {
				return
			}
			path := filepath.Clean(fsEvent.Name)
			if !w.files[path] {
				continue
			}
			op, valid := convertOp(fsEvent.Op)
			if !valid {
				continue
			}
			now := time.Now()
			first := len(due) == 0
			pending[path] = Event{Path: path, Op: op, Time: now}
			due[path] = now.Add(w.cfg.Debounce)
			if first {
				timer.Reset(w.cfg.Debounce)
			}

		case <-timer.C:
			now := time.Now()
			for _, path := range slices.Sorted(maps.Keys(due)) {
				if due[path].After(now) {
					continue
				}
				ev := pending[path]
				delete(pending, path)
				delete(due, path)
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
			rearm()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.cfg.Logger.Warn("watch error", "error", err)
		}
	}
}

func convertOp(op fsnotify.Op) (EventOp, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return Create, true
	case op.Has(fsnotify.Write):
		return Write, true
	case op.Has(fsnotify.Remove):
		return Remove, true
	case op.Has(fsnotify.Rename):
		return Rename, true
	default:
		return 0, false
	}
}
