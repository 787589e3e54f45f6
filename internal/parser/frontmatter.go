// Package parser turns Lonelog play-log documents into model.Campaign values.
package parser

import (
	"strings"

	"github.com/aidanlsb/lonelog/internal/model"
)

// Frontmatter represents the leading metadata block of a document.
type Frontmatter struct {
	// Fields are the key: value pairs, with matching quotes stripped.
	Fields map[string]string

	// Raw is the raw block content between the delimiters.
	Raw string

	// EndLine is the line of the closing delimiter (1-indexed).
	EndLine int
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// ParseFrontmatter extracts the metadata block from content.
// Returns nil if there is no closed block. Lines that are not key: value
// pairs are ignored, so this never fails.
func ParseFrontmatter(content string) *Frontmatter {
	lines := splitLines(content)

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return nil
	}

	fm := &Frontmatter{
		Fields:  make(map[string]string),
		Raw:     strings.Join(lines[1:endLine], "\n"),
		EndLine: endLine + 1,
	}

	for _, line := range lines[1:endLine] {
		key, value, ok := parseFrontmatterLine(line)
		if !ok {
			continue
		}
		fm.Fields[key] = value
	}

	return fm
}

// SplitFrontmatter returns the metadata, the body, and the 1-indexed line
// where the body starts. Without a block the metadata is empty and the body
// is the full text.
func SplitFrontmatter(content string) (map[string]string, string, int) {
	fm := ParseFrontmatter(content)
	if fm == nil {
		return map[string]string{}, content, 1
	}

	lines := splitLines(content)
	body := ""
	if fm.EndLine < len(lines) {
		body = strings.Join(lines[fm.EndLine:], "\n")
	}
	return fm.Fields, body, fm.EndLine + 1
}

// ResolveTitle picks the title field, then the first H1 of the body, then
// model.DefaultTitle.
func ResolveTitle(fields map[string]string, body string) string {
	if title := fields["title"]; title != "" {
		return title
	}
	if title := ExtractTitle(body); title != "" {
		return title
	}
	return model.DefaultTitle
}

func parseFrontmatterLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}

	idx := strings.Index(trimmed, ":")
	if idx <= 0 {
		return "", "", false
	}

	key := strings.TrimSpace(trimmed[:idx])
	if key == "" {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(trimmed[idx+1:])), true
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// splitLines splits on \n and drops a trailing \r from each line.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
