// Package watcher turns filesystem notifications for a workspace into
// ordered index events.
//
// It is used by `lonelog watch`.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/workspace"
)

// DefaultDebounce is used when Config.DebounceDelay is zero.
const DefaultDebounce = 100 * time.Millisecond

// Handler applies index events. *index.Index implements it.
type Handler interface {
	HandleEvent(ctx context.Context, ev index.Event) error
}

// Config holds configuration options for the Watcher.
type Config struct {
	Source        *workspace.FileSource
	Handler       Handler
	DebounceDelay time.Duration
	Logger        *zerolog.Logger

	// OnEvent is called after each event is applied.
	OnEvent func(ev index.Event, err error)
}

// pendingChange is a debounced change waiting to be delivered.
type pendingChange struct {
	kind    index.EventKind
	oldPath string
	at      time.Time
	seq     uint64
}

// Watcher monitors a workspace and forwards debounced changes to a Handler.
type Watcher struct {
	src      *workspace.FileSource
	handler  Handler
	debounce time.Duration
	log      zerolog.Logger
	onEvent  func(ev index.Event, err error)

	fsWatcher *fsnotify.Watcher

	mu          sync.Mutex
	pending     map[string]pendingChange
	seq         uint64
	renamedFrom string
	renamedAt   time.Time
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("workspace source is required")
	}
	if cfg.Handler == nil {
		return nil, fmt.Errorf("event handler is required")
	}

	debounce := cfg.DebounceDelay
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &Watcher{
		src:      cfg.Source,
		handler:  cfg.Handler,
		debounce: debounce,
		log:      log.With().Str("component", "watcher").Logger(),
		onEvent:  cfg.OnEvent,
		pending:  make(map[string]pendingChange),
	}, nil
}

// Start watches the workspace until ctx is cancelled. Events are applied by
// a single goroutine in the order their debounce windows close.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.src.Root()); err != nil {
		return fmt.Errorf("failed to watch workspace: %w", err)
	}
	w.log.Debug().Str("root", w.src.Root()).Msg("watching")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.processDebounced(ctx)
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// handleFSEvent filters one notification and records it.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addDirectory(event.Name)
			return
		}
	}

	rel, err := w.src.Rel(event.Name)
	if err != nil || !w.src.Accepts(rel) || w.src.SkipsPath(rel) {
		return
	}
	w.log.Debug().Str("op", event.Op.String()).Str("path", rel).Msg("fs event")
	w.observe(event.Op, rel, time.Now())
}

// addDirectory watches a newly created directory and schedules the
// documents already inside it, which may predate the watch.
func (w *Watcher) addDirectory(dir string) {
	if rel, err := w.src.Rel(dir); err != nil || w.src.Skips(filepath.Base(rel)) {
		return
	}
	if err := w.addWatchRecursive(dir); err != nil {
		w.log.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
	}
	now := time.Now()
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if rel, err := w.src.Rel(path); err == nil && w.src.Accepts(rel) && !w.src.SkipsPath(rel) {
			w.observe(fsnotify.Create, rel, now)
		}
		return nil
	})
}

// observe folds one operation on rel into the pending set.
func (w *Watcher) observe(op fsnotify.Op, rel string, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, hasPrev := w.pending[rel]
	switch {
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.schedule(rel, pendingChange{kind: index.Deleted}, now)
		if op&fsnotify.Rename != 0 {
			w.renamedFrom, w.renamedAt = rel, now
		}

	case op&fsnotify.Create != 0:
		if from := w.renamedFrom; from != "" && from != rel && now.Sub(w.renamedAt) <= w.debounce {
			if p, ok := w.pending[from]; ok && p.kind == index.Deleted {
				delete(w.pending, from)
				w.renamedFrom = ""
				w.schedule(rel, pendingChange{kind: index.Renamed, oldPath: from}, now)
				return
			}
		}
		switch {
		case hasPrev && prev.kind == index.Renamed:
			w.schedule(rel, prev, now)
		case hasPrev && prev.kind == index.Deleted:
			// Replaced in place, e.g. by an atomic save.
			w.schedule(rel, pendingChange{kind: index.Modified}, now)
		default:
			w.schedule(rel, pendingChange{kind: index.Created}, now)
		}

	case op&fsnotify.Write != 0:
		if hasPrev && prev.kind != index.Deleted {
			w.schedule(rel, prev, now)
			return
		}
		w.schedule(rel, pendingChange{kind: index.Modified}, now)
	}
}

// schedule stores change for rel, restarting its debounce window. Callers
// hold w.mu.
func (w *Watcher) schedule(rel string, change pendingChange, now time.Time) {
	w.seq++
	change.at = now
	change.seq = w.seq
	w.pending[rel] = change
}

// processDebounced flushes ready changes until ctx is cancelled.
func (w *Watcher) processDebounced(ctx context.Context) {
	tick := w.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

// ready removes and returns every change whose debounce window closed by
// now, ordered by when it was last touched.
func (w *Watcher) ready(now time.Time) []index.Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	type due struct {
		ev  index.Event
		seq uint64
	}
	var out []due
	for path, p := range w.pending {
		if now.Sub(p.at) < w.debounce {
			continue
		}
		out = append(out, due{ev: index.Event{Kind: p.kind, Path: path, OldPath: p.oldPath}, seq: p.seq})
		delete(w.pending, path)
		if path == w.renamedFrom {
			w.renamedFrom = ""
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })

	events := make([]index.Event, len(out))
	for i, d := range out {
		events[i] = d.ev
	}
	return events
}

// flush delivers every ready change to the handler in order.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	for _, ev := range w.ready(now) {
		err := w.handler.HandleEvent(ctx, ev)
		if err != nil {
			w.log.Warn().Err(err).Stringer("kind", ev.Kind).Str("path", ev.Path).Msg("event failed")
		} else {
			w.log.Debug().Stringer("kind", ev.Kind).Str("path", ev.Path).Msg("applied")
		}
		if w.onEvent != nil {
			w.onEvent(ev, err)
		}
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.src.Skips(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.log.Warn().Err(err).Str("dir", path).Msg("failed to watch")
		}
		return nil
	})
}
