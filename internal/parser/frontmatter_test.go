package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantFields  map[string]string
		wantNil     bool
		wantEndLine int
	}{
		{
			name: "basic frontmatter",
			content: `---
title: "Ironsworn: Starforged"
ruleset: 'Ironsworn'
genre: space opera
---

# Heading`,
			wantFields: map[string]string{
				"title":   "Ironsworn: Starforged",
				"ruleset": "Ironsworn",
				"genre":   "space opera",
			},
			// Closing --- is line 5.
			wantEndLine: 5,
		},
		{
			name:    "no frontmatter",
			content: "# Just a heading\n\nSome content",
			wantNil: true,
		},
		{
			name:    "unclosed frontmatter",
			content: "---\ntitle: Lost\n\nbody",
			wantNil: true,
		},
		{
			name:        "empty frontmatter still counts",
			content:     "---\n---\nbody",
			wantFields:  map[string]string{},
			wantEndLine: 2,
		},
		{
			name:        "comments and junk lines are skipped",
			content:     "---\n# comment\njunk line\n: no key\nlast_update: 2024-02-01\n---\n",
			wantFields:  map[string]string{"last_update": "2024-02-01"},
			wantEndLine: 6,
		},
		{
			name:        "CRLF line endings",
			content:     "---\r\ncampaign: Harbor\r\n---\r\nbody",
			wantFields:  map[string]string{"campaign": "Harbor"},
			wantEndLine: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := ParseFrontmatter(tt.content)
			if tt.wantNil {
				if fm != nil {
					t.Fatalf("expected nil frontmatter, got %+v", fm)
				}
				return
			}
			if fm == nil {
				t.Fatal("expected frontmatter, got nil")
			}
			if diff := cmp.Diff(tt.wantFields, fm.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
			if fm.EndLine != tt.wantEndLine {
				t.Errorf("EndLine = %d, want %d", fm.EndLine, tt.wantEndLine)
			}
		})
	}
}

func TestSplitFrontmatter(t *testing.T) {
	fields, body, start := SplitFrontmatter("---\ntitle: A\n---\nline one\nline two")
	if fields["title"] != "A" {
		t.Errorf("title = %q", fields["title"])
	}
	if body != "line one\nline two" {
		t.Errorf("body = %q", body)
	}
	if start != 4 {
		t.Errorf("body start = %d, want 4", start)
	}

	fields, body, start = SplitFrontmatter("no block")
	if len(fields) != 0 || body != "no block" || start != 1 {
		t.Errorf("without block got %v %q %d", fields, body, start)
	}
}

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		body   string
		want   string
	}{
		{"field wins", map[string]string{"title": "From Field"}, "# From Heading", "From Field"},
		{"first h1", map[string]string{}, "intro\n\n# First\n\n# Second", "First"},
		{"h2 is not a title", map[string]string{}, "## Session 1", "Untitled Campaign"},
		{"h1 inside code fence ignored", map[string]string{}, "```\n# not a title\n```\n# Real", "Real"},
		{"fallback", map[string]string{}, "plain text", "Untitled Campaign"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTitle(tt.fields, tt.body); got != tt.want {
				t.Errorf("ResolveTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractHeadings(t *testing.T) {
	headings := ExtractHeadings("# Campaign\n\n## Session 1\n\n### S1 *Dock*\n", 10)
	if len(headings) != 3 {
		t.Fatalf("got %d headings, want 3", len(headings))
	}
	if headings[1].Text != "Session 1" || headings[1].Level != 2 || headings[1].Line != 12 {
		t.Errorf("unexpected session heading: %+v", headings[1])
	}
	if headings[2].Text != "S1 *Dock*" {
		t.Errorf("scene heading text = %q, want raw text", headings[2].Text)
	}
}

func TestExtractHeadingsSetext(t *testing.T) {
	headings := ExtractHeadings("intro\n\nThe Iron Road\n=============\n\nbody\n", 1)
	if len(headings) != 1 {
		t.Fatalf("got %d headings, want 1", len(headings))
	}
	want := Heading{Level: 1, Text: "The Iron Road", Line: 3, ATX: false}
	if headings[0] != want {
		t.Errorf("setext heading = %+v, want %+v", headings[0], want)
	}
	if got := ExtractTitle("The Iron Road\n=============\n"); got != "" {
		t.Errorf("ExtractTitle(setext) = %q, want only ATX titles", got)
	}
}
