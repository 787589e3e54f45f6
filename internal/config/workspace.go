package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// WorkspaceFile is the name of the per-workspace settings file.
const WorkspaceFile = "lonelog.yaml"

// DefaultDebounceMS is the watcher debounce used when none is configured.
const DefaultDebounceMS = 100

// WorkspaceConfig represents workspace-level settings from lonelog.yaml.
type WorkspaceConfig struct {
	// EnableIndexing turns campaign indexing on (default: true).
	EnableIndexing *bool `yaml:"enable_indexing,omitempty"`

	// ParseOnSave re-parses a document when it is modified (default: true).
	ParseOnSave *bool `yaml:"parse_on_save,omitempty"`

	// Debug enables debug logging for this workspace.
	Debug bool `yaml:"debug,omitempty"`

	// Ignore lists extra directory names to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Extensions lists document extensions to index (default: [".md"]).
	Extensions []string `yaml:"extensions,omitempty"`

	// DebounceMS is the watcher debounce window in milliseconds.
	DebounceMS int `yaml:"debounce_ms,omitempty"`

	// AuditLog appends index activity to .lonelog/audit.log (default: false).
	AuditLog bool `yaml:"audit_log,omitempty"`
}

func boolPtr(b bool) *bool {
	return &b
}

// DefaultWorkspaceConfig returns the settings used when lonelog.yaml is absent.
func DefaultWorkspaceConfig() *WorkspaceConfig {
	return &WorkspaceConfig{
		EnableIndexing: boolPtr(true),
		ParseOnSave:    boolPtr(true),
		Extensions:     []string{".md"},
		DebounceMS:     DefaultDebounceMS,
	}
}

// IsIndexingEnabled returns whether indexing is enabled (default: true).
func (wc *WorkspaceConfig) IsIndexingEnabled() bool {
	return wc.EnableIndexing == nil || *wc.EnableIndexing
}

// IsParseOnSaveEnabled returns whether modified documents are re-parsed
// (default: true).
func (wc *WorkspaceConfig) IsParseOnSaveEnabled() bool {
	return wc.ParseOnSave == nil || *wc.ParseOnSave
}

// GetExtensions returns the configured extensions or the default.
func (wc *WorkspaceConfig) GetExtensions() []string {
	if len(wc.Extensions) == 0 {
		return []string{".md"}
	}
	return wc.Extensions
}

// Debounce returns the watcher debounce window.
func (wc *WorkspaceConfig) Debounce() time.Duration {
	if wc.DebounceMS <= 0 {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(wc.DebounceMS) * time.Millisecond
}

// Validate rejects settings that cannot be applied.
func (wc *WorkspaceConfig) Validate() error {
	if wc.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", wc.DebounceMS)
	}
	for _, dir := range wc.Ignore {
		if strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("ignore entries are directory names, got %q", dir)
		}
	}
	return nil
}

// LoadWorkspaceConfig loads lonelog.yaml from root, returning defaults when
// the file does not exist.
func LoadWorkspaceConfig(root string) (*WorkspaceConfig, error) {
	configPath := filepath.Join(root, WorkspaceFile)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultWorkspaceConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace config %s: %w", configPath, err)
	}

	var config WorkspaceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse workspace config %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workspace config %s: %w", configPath, err)
	}
	return &config, nil
}

const defaultWorkspaceTemplate = `# lonelog workspace settings

# Index campaign logs in this directory (default: true)
enable_indexing: true

# Re-parse a log every time it is saved (default: true)
parse_on_save: true

# Write debug diagnostics to stderr
debug: false

# Extra directory names to skip while scanning
# ignore:
#   - drafts
#   - templates

# Document extensions to index
extensions:
  - .md

# Watcher debounce window in milliseconds
debounce_ms: 100

# Record reindex runs and watcher updates in .lonelog/audit.log
audit_log: false
`

// CreateDefaultWorkspaceConfig writes a commented lonelog.yaml into root.
// It reports false without touching anything when the file already exists.
func CreateDefaultWorkspaceConfig(root string) (bool, error) {
	configPath := filepath.Join(root, WorkspaceFile)
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}
	if err := atomic.WriteFile(configPath, strings.NewReader(defaultWorkspaceTemplate)); err != nil {
		return false, fmt.Errorf("failed to write workspace config: %w", err)
	}
	return true, nil
}

// SaveWorkspaceConfig writes cfg to root/lonelog.yaml atomically.
func SaveWorkspaceConfig(root string, cfg *WorkspaceConfig) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal workspace config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal workspace config: %w", err)
	}
	if err := atomic.WriteFile(filepath.Join(root, WorkspaceFile), &buf); err != nil {
		return fmt.Errorf("failed to write workspace config: %w", err)
	}
	return nil
}
