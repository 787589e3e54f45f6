package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading represents a parsed heading.
type Heading struct {
	Level int
	Text  string // raw source text after the # markers
	Line  int    // 1-indexed
	ATX   bool   // written with leading # markers
}

// ExtractHeadings extracts headings from markdown content using goldmark.
// Headings inside fenced code are not headings and are not returned.
func ExtractHeadings(content string, startLine int) []Heading {
	var headings []Heading

	md := goldmark.New()
	source := []byte(content)
	doc := md.Parser().Parse(text.NewReader(source))

	lineStarts := computeLineStarts(content)
	lines := strings.Split(content, "\n")

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}

		idx := offsetToLine(lineStarts, heading.Lines().At(0).Start)
		raw := ""
		if idx < len(lines) {
			raw = strings.TrimSpace(strings.TrimSuffix(lines[idx], "\r"))
		}

		atx := strings.HasPrefix(raw, "#")
		headingText := strings.TrimSpace(strings.TrimLeft(raw, "#"))
		if !atx {
			seg := heading.Lines().At(0)
			headingText = strings.TrimSpace(string(seg.Value(source)))
		}
		if headingText == "" {
			return ast.WalkContinue, nil
		}

		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  headingText,
			Line:  startLine + idx,
			ATX:   atx,
		})
		return ast.WalkContinue, nil
	})

	return headings
}

// ExtractTitle returns the text of the first "# " heading, or "".
func ExtractTitle(body string) string {
	for _, h := range ExtractHeadings(body, 1) {
		if h.Level == 1 && h.ATX {
			return h.Text
		}
	}
	return ""
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
