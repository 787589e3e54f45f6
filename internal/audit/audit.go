// Package audit provides an append-only log of index activity.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileName is the log file inside the workspace cache directory.
const FileName = "audit.log"

// Entry is one line of the audit log.
type Entry struct {
	Timestamp time.Time              `json:"ts"`
	Operation string                 `json:"op"` // reindex, created, modified, deleted, renamed
	Path      string                 `json:"path,omitempty"`
	OldPath   string                 `json:"old_path,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger appends entries to .lonelog/audit.log. A disabled Logger is a
// no-op.
type Logger struct {
	path    string
	enabled bool
	now     func() time.Time
	mu      sync.Mutex
}

// New returns a logger for the cache directory cacheDir.
func New(cacheDir string, enabled bool) *Logger {
	return &Logger{
		path:    filepath.Join(cacheDir, FileName),
		enabled: enabled,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether entries are written.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Log appends entry as one JSON line.
func (l *Logger) Log(entry Entry) error {
	if !l.Enabled() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// LogReindex records a reindex run. failed lists documents that could not
// be parsed.
func (l *Logger) LogReindex(full bool, indexed, campaigns int, failed []string) error {
	extra := map[string]interface{}{
		"full":      full,
		"indexed":   indexed,
		"campaigns": campaigns,
	}
	if len(failed) > 0 {
		extra["failed"] = failed
	}
	return l.Log(Entry{Operation: "reindex", Extra: extra})
}

// LogChange records one watcher update. op is the event kind.
func (l *Logger) LogChange(op, path, oldPath string) error {
	return l.Log(Entry{Operation: op, Path: path, OldPath: oldPath})
}

// Read returns the logged entries in order. A missing log yields none.
func Read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []Entry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return entries, fmt.Errorf("corrupt audit log %s: %w", path, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
