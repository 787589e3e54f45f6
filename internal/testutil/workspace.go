// Package testutil provides reusable helpers for lonelog integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestWorkspace is a temporary directory of play logs.
type TestWorkspace struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestWorkspace creates a workspace builder. Call Build to write it.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// WithConfig sets the lonelog.yaml content.
func (w *TestWorkspace) WithConfig(yaml string) *TestWorkspace {
	w.files["lonelog.yaml"] = yaml
	return w
}

// Build creates the workspace directory and its files.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()
	w.Path = w.t.TempDir()
	for path, content := range w.files {
		w.WriteFile(path, content)
	}
	return w
}

// WriteFile writes (or overwrites) a file, creating parent directories.
func (w *TestWorkspace) WriteFile(relPath, content string) {
	w.t.Helper()
	full := filepath.Join(w.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		w.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}

// Touch sets the modification time of relPath. Cache staleness is checked
// at second granularity, so tests that edit a file right after indexing it
// move its mtime forward.
func (w *TestWorkspace) Touch(relPath string, mtime time.Time) {
	w.t.Helper()
	if err := os.Chtimes(filepath.Join(w.Path, relPath), mtime, mtime); err != nil {
		w.t.Fatalf("failed to touch %s: %v", relPath, err)
	}
}

// RemoveFile deletes a file from the workspace.
func (w *TestWorkspace) RemoveFile(relPath string) {
	w.t.Helper()
	if err := os.Remove(filepath.Join(w.Path, relPath)); err != nil {
		w.t.Fatalf("failed to remove %s: %v", relPath, err)
	}
}

// ReadFile returns the content of a workspace file.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	content, err := os.ReadFile(filepath.Join(w.Path, relPath))
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// ConfigPath is the global config file used by RunCLI.
func (w *TestWorkspace) ConfigPath() string {
	return filepath.Join(w.Path, ".lonelog-test", "config.toml")
}

// FileExists reports whether relPath exists.
func (w *TestWorkspace) FileExists(relPath string) bool {
	w.t.Helper()
	_, err := os.Stat(filepath.Join(w.Path, relPath))
	return err == nil
}

// IronRoadLog is a small campaign covering every tag kind.
func IronRoadLog() string {
	return "---\n" +
		"title: The Iron Road\n" +
		"ruleset: Ironsworn\n" +
		"---\n" +
		"\n" +
		"## Session 1\n" +
		"*Date: 2026-10-04 | Duration: 2h*\n" +
		"\n" +
		"### S1 *The gate*\n" +
		"```\n" +
		"> Approach the door\n" +
		"d: 2d6 => 7, weak hit\n" +
		"=> The door creaks open\n" +
		"[N:Guard|hostile] waits at [L:Ashfall Gate|ruined]\n" +
		"[Thread:Find the Heir|Open]\n" +
		"[Clock:Alarm 2/6]\n" +
		"[Timer:Dawn 3]\n" +
		"[PC:Kira|HP:5|Edge=2]\n" +
		"tbl: d100 => A broken bridge\n" +
		"(reflection: the guard felt too easy)\n" +
		"```\n" +
		"\n" +
		"## Session 2\n" +
		"\n" +
		"### S1 *The keep*\n" +
		"```\n" +
		"[#N:Guard] returns\n" +
		"[Clock:Alarm 4/6]\n" +
		"[Thread:Find the Heir|Closed]\n" +
		"```\n"
}

// StarforgedLog is a second, smaller campaign.
func StarforgedLog() string {
	return "---\n" +
		"title: Starforged Drift\n" +
		"---\n" +
		"\n" +
		"## Session 1\n" +
		"\n" +
		"### S1 *Docking*\n" +
		"```\n" +
		"[N:Captain Vos|smuggler]\n" +
		"[Track:Vow of Return 3/10]\n" +
		"```\n"
}
