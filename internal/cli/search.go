package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/progress"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entities by name, tag or state",
	Long: `Finds NPCs, locations, threads and trackers whose name contains the query,
ignoring case. NPCs and locations also match on tags; threads also match on
their state.

Examples:
  lonelog search guard
  lonelog search hostile
  lonelog search open --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		query := strings.Join(args, " ")

		wi, err := openIndex(cmd.Context(), indexOptions{})
		if err != nil {
			return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
		}
		defer wi.Close()

		results := wi.ix.Search(query)

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"query":   query,
				"results": results,
			}, wi.warnings(), &Meta{Count: results.Total, QueryTimeMs: elapsedMs(start)})
			return nil
		}

		wi.printScanWarnings()
		if results.Total == 0 {
			fmt.Printf("No results found for: %s\n", query)
			return nil
		}

		var rows [][]string
		for _, n := range results.NPCs {
			rows = append(rows, []string{n.Name, index.TypeNPC, joinTags(n.Tags), wi.campaignName(n.FirstMention.File), seenCell(n.FirstMention, n.Mentions)})
		}
		for _, l := range results.Locations {
			rows = append(rows, []string{l.Name, index.TypeLocation, joinTags(l.Tags), wi.campaignName(l.FirstMention.File), seenCell(l.FirstMention, l.Mentions)})
		}
		for _, t := range results.Threads {
			rows = append(rows, []string{t.Name, index.TypeThread, t.State, wi.campaignName(t.FirstMention.File), seenCell(t.FirstMention, t.Mentions)})
		}
		for _, t := range results.Trackers {
			rows = append(rows, []string{t.Name, kindLabel(t.Kind), progress.Format(t), wi.campaignName(trackerFile(t)), seenCell(model.Location{}, t.Locations)})
		}

		fmt.Printf("Found %d results for: %s\n\n", results.Total, ui.Bold.Render(query))
		printTable(ui.EntityLayout, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
