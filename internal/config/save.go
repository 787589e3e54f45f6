package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"
)

type persistedConfig struct {
	DefaultWorkspace *string              `toml:"default_workspace,omitempty"`
	Workspaces       map[string]string    `toml:"workspaces,omitempty"`
	Editor           *string              `toml:"editor,omitempty"`
	LogLevel         *string              `toml:"log_level,omitempty"`
	UI               *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent     *string `toml:"accent,omitempty"`
	CodeTheme  *string `toml:"code_theme,omitempty"`
	ClockStyle *string `toml:"clock_style,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the global config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DefaultWorkspace: nonEmptyPtr(cfg.DefaultWorkspace),
		Editor:           nonEmptyPtr(cfg.Editor),
		LogLevel:         nonEmptyPtr(cfg.LogLevel),
	}
	if len(cfg.Workspaces) > 0 {
		out.Workspaces = cfg.Workspaces
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	clockStyle := nonEmptyPtr(cfg.UI.ClockStyle)
	if accent != nil || codeTheme != nil || clockStyle != nil {
		out.UI = &persistedUISettings{
			Accent:     accent,
			CodeTheme:  codeTheme,
			ClockStyle: clockStyle,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

// AddWorkspace registers a named workspace, making it the default when
// none is set.
func (c *Config) AddWorkspace(name, path string) {
	if c.Workspaces == nil {
		c.Workspaces = make(map[string]string)
	}
	c.Workspaces[name] = path
	if c.DefaultWorkspace == "" {
		c.DefaultWorkspace = name
	}
}
