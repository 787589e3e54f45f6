package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadWorkspaceConfig(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := LoadWorkspaceConfig(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if !cfg.IsIndexingEnabled() || !cfg.IsParseOnSaveEnabled() || cfg.Debug {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
		if cfg.Debounce() != 100*time.Millisecond {
			t.Errorf("Debounce = %v", cfg.Debounce())
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		root := t.TempDir()
		content := "enable_indexing: false\nparse_on_save: false\ndebug: true\nignore: [drafts]\nextensions: [.md, .txt]\ndebounce_ms: 250\n"
		if err := os.WriteFile(filepath.Join(root, WorkspaceFile), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadWorkspaceConfig(root)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.IsIndexingEnabled() || cfg.IsParseOnSaveEnabled() || !cfg.Debug {
			t.Errorf("flags not loaded: %+v", cfg)
		}
		if diff := cmp.Diff([]string{".md", ".txt"}, cfg.GetExtensions()); diff != "" {
			t.Errorf("extensions mismatch (-want +got):\n%s", diff)
		}
		if cfg.Debounce() != 250*time.Millisecond || cfg.Ignore[0] != "drafts" {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("omitted keys keep defaults", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, WorkspaceFile), []byte("debug: true\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadWorkspaceConfig(root)
		if err != nil {
			t.Fatal(err)
		}
		if !cfg.IsIndexingEnabled() || !cfg.IsParseOnSaveEnabled() {
			t.Errorf("omitted booleans should default to true: %+v", cfg)
		}
		if diff := cmp.Diff([]string{".md"}, cfg.GetExtensions()); diff != "" {
			t.Errorf("extensions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		for name, content := range map[string]string{
			"negative debounce": "debounce_ms: -5\n",
			"ignore path":       "ignore: [a/b]\n",
			"malformed yaml":    "ignore: [unterminated\n",
		} {
			root := t.TempDir()
			if err := os.WriteFile(filepath.Join(root, WorkspaceFile), []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadWorkspaceConfig(root); err == nil {
				t.Errorf("%s: expected error", name)
			}
		}
	})
}

func TestCreateDefaultWorkspaceConfig(t *testing.T) {
	root := t.TempDir()

	created, err := CreateDefaultWorkspaceConfig(root)
	if err != nil || !created {
		t.Fatalf("CreateDefaultWorkspaceConfig = %v, %v", created, err)
	}
	cfg, err := LoadWorkspaceConfig(root)
	if err != nil {
		t.Fatalf("template should load: %v", err)
	}
	want := DefaultWorkspaceConfig()
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("template differs from defaults (-want +got):\n%s", diff)
	}

	created, err = CreateDefaultWorkspaceConfig(root)
	if err != nil || created {
		t.Errorf("second call = %v, %v; want false", created, err)
	}
}

func TestSaveWorkspaceConfig(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultWorkspaceConfig()
	cfg.ParseOnSave = boolPtr(false)
	cfg.Ignore = []string{"templates"}

	if err := SaveWorkspaceConfig(root, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadWorkspaceConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
