// Package config handles global lonelog configuration and per-workspace
// settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Clock display styles.
const (
	ClockStyleBar      = "bar"
	ClockStyleSegments = "segments"
	ClockStyleCircle   = "circle"
)

// Config represents the global lonelog configuration.
type Config struct {
	// DefaultWorkspace is the name of the default workspace (from Workspaces).
	DefaultWorkspace string `toml:"default_workspace"`

	// Workspaces maps workspace names to directories.
	Workspaces map[string]string `toml:"workspaces"`

	// Editor is the editor to use for opening logs (defaults to $EDITOR).
	Editor string `toml:"editor"`

	// LogLevel is the minimum diagnostic level: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`

	// ClockStyle selects how clocks and tracks are drawn: bar, segments or circle.
	ClockStyle string `toml:"clock_style"`
}

// GetClockStyle returns the configured clock style, defaulting to bar.
func (u UIConfig) GetClockStyle() string {
	switch s := strings.ToLower(strings.TrimSpace(u.ClockStyle)); s {
	case ClockStyleSegments, ClockStyleCircle:
		return s
	default:
		return ClockStyleBar
	}
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if s := strings.ToLower(strings.TrimSpace(c.UI.ClockStyle)); s != "" &&
		s != ClockStyleBar && s != ClockStyleSegments && s != ClockStyleCircle {
		return fmt.Errorf("ui.clock_style must be bar, segments or circle, got %q", c.UI.ClockStyle)
	}
	if c.DefaultWorkspace != "" {
		if _, ok := c.Workspaces[c.DefaultWorkspace]; !ok {
			return fmt.Errorf("default_workspace %q is not listed in [workspaces]", c.DefaultWorkspace)
		}
	}
	return nil
}

// GetWorkspacePath returns the path for a named workspace.
// If name is empty, returns the default workspace path.
func (c *Config) GetWorkspacePath(name string) (string, error) {
	if name == "" {
		name = c.DefaultWorkspace
	}
	if name == "" {
		return "", fmt.Errorf("no default workspace configured")
	}
	if path, ok := c.Workspaces[name]; ok {
		return expandHome(path), nil
	}
	return "", fmt.Errorf("workspace '%s' not found in config", name)
}

// ListWorkspaces returns configured workspace names, sorted.
func (c *Config) ListWorkspaces() []string {
	names := make([]string, 0, len(c.Workspaces))
	for name := range c.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetEditor returns the editor to use, falling back to $EDITOR.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	return os.Getenv("EDITOR")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
