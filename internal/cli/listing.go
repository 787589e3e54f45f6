package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/ui"
)

// campaignFile resolves a --campaign value to the campaign's path. An empty
// ref means no filter.
func (s *workspaceIndex) campaignFile(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	c, err := s.findCampaign(ref)
	if err != nil {
		return "", err
	}
	return c.File, nil
}

// campaignName returns the display name of the campaign at file.
func (s *workspaceIndex) campaignName(file string) string {
	c, err := s.ix.Campaign(file)
	if err != nil {
		return file
	}
	return c.Name()
}

// inCampaign keeps items whose owning file is file. An empty file keeps all.
func inCampaign[T any](items []T, file string, fileOf func(T) string) []T {
	if file == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if fileOf(item) == file {
			out = append(out, item)
		}
	}
	return out
}

// lastSeenLabel labels the latest location, falling back to first.
func lastSeenLabel(first model.Location, mentions []model.Location) string {
	if len(mentions) > 0 {
		return mentions[len(mentions)-1].Label()
	}
	if first.File != "" {
		return first.Label()
	}
	return "N/A"
}

// printTable renders rows under layout. Each row holds the cells after the
// number column.
func printTable(layout []ui.ColumnDef, rows [][]string) {
	table := ui.NewResultsTable(ui.NewDisplayContext(), layout)
	for _, cells := range rows {
		table.AddRow(cells...)
	}
	fmt.Println(table.Render())
}

// printEmpty prints a muted "No <what> found." line.
func printEmpty(what string) {
	fmt.Println(ui.Muted.Render("No " + what + " found."))
}

// printCount prints a muted result count with the elapsed time.
func printCount(n int, singular, plural string, start time.Time) {
	fmt.Println(ui.Muted.Render(fmt.Sprintf("%s in %dms", ui.Count(n, singular, plural), time.Since(start).Milliseconds())))
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ui.Muted.Render("-")
	}
	return strings.Join(tags, ", ")
}
