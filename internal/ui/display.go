package ui

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

const (
	// DefaultTermWidth is used when stdout is not a terminal.
	DefaultTermWidth = 120

	// MinTermWidth keeps tables readable in very narrow panes.
	MinTermWidth = 40
)

// DisplayContext describes where output is going.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext inspects stdout. $COLUMNS overrides the detected width,
// which helps when output is piped but should still wrap.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	d := &DisplayContext{TermWidth: DefaultTermWidth, IsTTY: term.IsTerminal(fd)}
	if d.IsTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.TermWidth = w
		}
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		d.TermWidth = cols
	}
	if d.TermWidth < MinTermWidth {
		d.TermWidth = MinTermWidth
	}
	return d
}

// FixedDisplay is a terminal display of the given width.
func FixedDisplay(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}

// AvailableWidth is the width left after a left margin.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	return d.TermWidth - leftMargin
}
