package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fields is a block of "label  value" lines with labels padded to a common
// width. Labels are rendered muted.
type Fields struct {
	indent string
	labels []string
	values []string
}

// NewFields returns an empty block indented by indent spaces.
func NewFields(indent int) *Fields {
	return &Fields{indent: strings.Repeat(" ", indent)}
}

// Add appends a line. Empty values are shown as "-".
func (f *Fields) Add(label, value string) *Fields {
	if value == "" {
		value = Muted.Render("-")
	}
	f.labels = append(f.labels, label)
	f.values = append(f.values, value)
	return f
}

// String renders the block with a trailing newline per line.
func (f *Fields) String() string {
	width := 0
	for _, l := range f.labels {
		if w := lipgloss.Width(l); w > width {
			width = w
		}
	}
	var sb strings.Builder
	for i, l := range f.labels {
		sb.WriteString(f.indent)
		sb.WriteString(Muted.Render(l + strings.Repeat(" ", width-lipgloss.Width(l))))
		sb.WriteString("  ")
		sb.WriteString(f.values[i])
		sb.WriteString("\n")
	}
	return sb.String()
}
