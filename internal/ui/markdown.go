package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin of rendered documents and code blocks.
const MarkdownRenderMargin = 2

const defaultCodeTheme = "monokai"

var codeThemes = []string{
	"monokai", "dracula", "github", "github-dark", "nord", "solarized-dark",
	"solarized-light", "gruvbox", "onedark", "catppuccin-mocha", "vim",
}

var markdownCodeTheme = defaultCodeTheme

// ConfigureMarkdownCodeTheme applies the [ui] code_theme setting. Unknown
// themes fall back to monokai.
func ConfigureMarkdownCodeTheme(theme string) {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if !slices.Contains(codeThemes, theme) {
		theme = defaultCodeTheme
	}
	markdownCodeTheme = theme
}

// RenderMarkdown renders content for the terminal, wrapped at width. Play
// log excerpts and the notation reference both go through here.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(logMarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// logMarkdownStyle builds the glamour style from the active accent and code theme.
func logMarkdownStyle() ansi.StyleConfig {
	p := markdownPalette{muted: ptr("8"), accent: ptr(defaultAccent)}
	if color, ok := AccentColor(); ok {
		p.accent = ptr(color)
	}

	s := ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         ptr[uint](MarkdownRenderMargin),
		},
		Paragraph: ansi.StyleBlock{},
		List:      ansi.StyleList{LevelIndent: 2},
		Table: ansi.StyleTable{
			CenterSeparator: ptr("┼"),
			ColumnSeparator: ptr("│"),
			RowSeparator:    ptr("─"),
		},
		DefinitionDescription: ansi.StylePrimitive{BlockPrefix: "\n- "},
	}
	p.headings(&s)
	p.inline(&s)
	p.blocks(&s)
	return s
}

type markdownPalette struct {
	muted  *string
	accent *string
}

// headings prefixes each level with its hashes. Session and scene headers
// (levels 1 and 2) are underlined.
func (p markdownPalette) headings(s *ansi.StyleConfig) {
	s.Heading = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
		BlockSuffix: "\n",
		Color:       p.accent,
		Bold:        ptr(true),
	}}
	levels := []*ansi.StyleBlock{&s.H1, &s.H2, &s.H3, &s.H4, &s.H5, &s.H6}
	for i, h := range levels {
		h.Prefix = strings.Repeat("#", i+1) + " "
		if i < 2 {
			h.Underline = ptr(true)
		}
	}
	s.H6.Bold = ptr(false)
}

func (p markdownPalette) inline(s *ansi.StyleConfig) {
	s.Emph = ansi.StylePrimitive{Italic: ptr(true)}
	s.Strong = ansi.StylePrimitive{Bold: ptr(true)}
	s.Strikethrough = ansi.StylePrimitive{CrossedOut: ptr(true)}
	s.Link = ansi.StylePrimitive{Color: p.muted, Underline: ptr(true)}
	s.LinkText = ansi.StylePrimitive{Color: p.muted, Bold: ptr(true)}
	s.Image = ansi.StylePrimitive{Underline: ptr(true)}
	s.ImageText = ansi.StylePrimitive{Color: p.muted, Format: "Image: {{.text}} ->"}
	s.Code = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
		Prefix: "`",
		Suffix: "`",
		Color:  p.accent,
	}}
}

func (p markdownPalette) blocks(s *ansi.StyleConfig) {
	s.BlockQuote = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{Color: p.muted},
		Indent:         ptr[uint](1),
		IndentToken:    ptr("│ "),
	}
	s.HorizontalRule = ansi.StylePrimitive{Color: p.muted, Format: "\n--------\n"}
	s.Item = ansi.StylePrimitive{BlockPrefix: "• "}
	s.Enumeration = ansi.StylePrimitive{BlockPrefix: ". "}
	s.Task = ansi.StyleTask{Ticked: "[x] ", Unticked: "[ ] "}
	s.CodeBlock = ansi.StyleCodeBlock{
		StyleBlock: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: p.muted},
			Margin:         ptr[uint](MarkdownRenderMargin),
		},
		Theme: markdownCodeTheme,
	}
}

func ptr[T any](v T) *T { return &v }
