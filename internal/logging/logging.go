// Package logging builds the zerolog logger shared by the CLI, the index
// and the watcher.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Level is a logging level name.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Options configures New.
type Options struct {
	// Level is the minimum level. Defaults to LevelWarn.
	Level Level

	// JSON forces JSON lines even on a terminal.
	JSON bool
}

// ParseLevel validates a level name. Empty means LevelWarn.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LevelWarn, nil
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "warning":
		return LevelWarn, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// New creates a logger writing to w. Terminals get a human-readable console
// writer; anything else gets JSON lines.
func New(w io.Writer, opts Options) zerolog.Logger {
	out := w
	if !opts.JSON && isTerminal(w) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).
		Level(opts.Level.zerolog()).
		With().
		Timestamp().
		Str("app", "lonelog").
		Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
