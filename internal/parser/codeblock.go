package parser

import "strings"

// FenceMarker is the only line that opens or closes a notation block.
const FenceMarker = "```"

// FenceState tracks whether we're inside a fenced notation block.
type FenceState struct {
	InFence bool

	// StartLine is the 1-indexed line of the opening marker.
	StartLine int

	// Lines buffers the block content with absolute line numbers.
	Lines []NumberedLine
}

// NumberedLine is a raw line and its 1-indexed position in the document.
type NumberedLine struct {
	Line int
	Text string
}

// IsFenceMarker reports whether the trimmed line is exactly three backticks.
// Info strings (```lonelog) and longer fences are ordinary lines.
func IsFenceMarker(line string) bool {
	return strings.TrimSpace(line) == FenceMarker
}

// Feed advances the state with one line. When a block closes, the buffered
// lines are returned and the buffer is reset. Lines outside a block are
// ignored.
func (fs *FenceState) Feed(text string, line int) (closed []NumberedLine, ok bool) {
	if IsFenceMarker(text) {
		if !fs.InFence {
			fs.InFence = true
			fs.StartLine = line
			fs.Lines = nil
			return nil, false
		}
		closed = fs.Lines
		fs.InFence = false
		fs.Lines = nil
		return closed, true
	}

	if fs.InFence {
		fs.Lines = append(fs.Lines, NumberedLine{Line: line, Text: text})
	}
	return nil, false
}

// Reset discards an unterminated block.
func (fs *FenceState) Reset() {
	fs.InFence = false
	fs.StartLine = 0
	fs.Lines = nil
}
