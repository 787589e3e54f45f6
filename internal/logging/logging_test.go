package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelWarn, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesJSONToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: LevelInfo})

	log.Debug().Msg("hidden")
	log.Info().Str("path", "harbor.md").Msg("indexed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["message"] != "indexed" || entry["path"] != "harbor.md" || entry["app"] != "lonelog" {
		t.Errorf("entry = %v", entry)
	}
}

func TestDefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{})
	log.Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at the default level: %q", buf.String())
	}
	log.Warn().Msg("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("warn should be written: %q", buf.String())
	}
}
