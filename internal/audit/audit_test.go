package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoggerAppendsEntries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".lonelog")
	l := New(dir, true)
	fixed := time.Date(2026, 10, 4, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	if err := l.LogReindex(true, 3, 2, []string{"logs/broken.md"}); err != nil {
		t.Fatalf("LogReindex: %v", err)
	}
	if err := l.LogChange("renamed", "logs/new.md", "logs/old.md"); err != nil {
		t.Fatalf("LogChange: %v", err)
	}

	got, err := Read(l.Path())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Entry{
		{
			Timestamp: fixed,
			Operation: "reindex",
			Extra: map[string]interface{}{
				"full":      true,
				"indexed":   float64(3),
				"campaigns": float64(2),
				"failed":    []interface{}{"logs/broken.md"},
			},
		},
		{Timestamp: fixed, Operation: "renamed", Path: "logs/new.md", OldPath: "logs/old.md"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestDisabledLoggerWritesNothing(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, false)
	if err := l.LogChange("modified", "a.md", ""); err != nil {
		t.Fatalf("LogChange: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Errorf("disabled logger created %s", FileName)
	}

	var nilLogger *Logger
	if nilLogger.Enabled() {
		t.Error("nil logger reports enabled")
	}
}

func TestReadMissingLog(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), FileName))
	if err != nil || entries != nil {
		t.Errorf("Read(missing) = %v, %v; want nil, nil", entries, err)
	}
}
