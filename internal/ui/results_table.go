package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	tableMargin = 2
	columnGap   = 2
)

// ColumnDef describes one listing column. Columns with a zero Share keep
// MinWidth; the rest split the remaining terminal width by Share.
type ColumnDef struct {
	Name     string
	Share    float64
	MinWidth int
	MaxWidth int
	Right    bool
	Style    lipgloss.Style
}

var (
	// ColNum holds the 1-based row number.
	ColNum = ColumnDef{Name: "num", MinWidth: 4, Right: true, Style: Muted}

	// ColName is the entity or campaign name.
	ColName = ColumnDef{Name: "name", Share: 0.25, MinWidth: 14, MaxWidth: 40, Style: Bold}

	// ColKind is the element kind (npc, clock, thread...).
	ColKind = ColumnDef{Name: "kind", MinWidth: 9, Style: Muted}

	// ColDetail holds tags, progress or a status.
	ColDetail = ColumnDef{Name: "detail", Share: 0.35, MinWidth: 16, MaxWidth: 80}

	// ColCampaign is the owning campaign.
	ColCampaign = ColumnDef{Name: "campaign", Share: 0.20, MinWidth: 12, MaxWidth: 30, Style: Muted}

	// ColLocation is a file:line or last-seen reference.
	ColLocation = ColumnDef{Name: "location", Share: 0.20, MinWidth: 12, MaxWidth: 36, Style: Muted}

	// ColContent is free text from notes and table results.
	ColContent = ColumnDef{Name: "content", Share: 0.55, MinWidth: 30, MaxWidth: 100}
)

// Layouts shared by the listing commands. Each starts with ColNum, which
// the table fills in itself.
var (
	EntityLayout   = []ColumnDef{ColNum, ColName, ColKind, ColDetail, ColCampaign, ColLocation}
	NoteLayout     = []ColumnDef{ColNum, ColKind, ColContent, ColCampaign, ColLocation}
	CampaignLayout = []ColumnDef{ColNum, ColName, ColDetail, ColLocation}
)

// ResultsTable renders numbered listing rows sized to the terminal.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    [][]string
}

func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{display: display, columns: columns}
}

// AddRow appends the cells following the number column.
func (t *ResultsTable) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len is the number of rows added so far.
func (t *ResultsTable) Len() int { return len(t.rows) }

// Widths returns the rendered width of each column.
func (t *ResultsTable) Widths() []int {
	return columnWidths(t.display.TermWidth, t.columns)
}

func columnWidths(termWidth int, columns []ColumnDef) []int {
	widths := make([]int, len(columns))
	free := termWidth - tableMargin - columnGap*(len(columns)-1)
	var shares float64
	for i, c := range columns {
		if c.Share == 0 {
			widths[i] = c.MinWidth
			free -= c.MinWidth
			continue
		}
		shares += c.Share
	}
	free = max(free, 0)

	for i, c := range columns {
		if c.Share == 0 {
			continue
		}
		w := max(int(float64(free)*c.Share/shares), c.MinWidth)
		if c.MaxWidth > 0 {
			w = min(w, c.MaxWidth)
		}
		widths[i] = w
	}
	return widths
}

// Render returns the table without a trailing newline, or "" when empty.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}
	widths := t.Widths()
	numWidth := max(len(strconv.Itoa(len(t.rows))), 2)

	data := make([][]string, len(t.rows))
	for i, cells := range t.rows {
		row := make([]string, len(t.columns))
		row[0] = padLeft(strconv.Itoa(i+1), numWidth)
		copy(row[1:], cells)
		data[i] = row
	}

	return table.New().
		Border(lipgloss.Border{Top: "─", Bottom: "─", Middle: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(true).
		BorderStyle(Muted).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}
			c := t.columns[col]
			s := c.Style.Width(widths[col])
			if c.Right {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			if col < len(t.columns)-1 {
				s = s.PaddingRight(columnGap)
			}
			return s
		}).
		Rows(data...).
		Render()
}

func padLeft(s string, width int) string {
	for len(s) < width {
		s = " " + s
	}
	return s
}
