package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var (
	elementsTypes    []string
	elementsCampaign string
	elementsSort     string
	elementsDesc     bool
)

var elementsCmd = &cobra.Command{
	Use:   "elements [query]",
	Short: "List every entity of every campaign in one table",
	Long: `Lists NPCs, locations, threads, clocks, tracks, timers, events and player
characters as one normalized listing.

The query matches name, type, campaign or tags, ignoring case. --campaign
takes a campaign title as shown in the listing.

Sort keys: name (default), type, mentions, last_seen.

Examples:
  lonelog elements
  lonelog elements guard
  lonelog elements --type npc --type location
  lonelog elements --campaign "Iron Vow" --sort mentions --desc`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		filter := index.ElementFilter{
			Campaign: elementsCampaign,
			Query:    strings.Join(args, " "),
			Desc:     elementsDesc,
		}
		for _, t := range elementsTypes {
			typ, err := index.ParseType(t)
			if err != nil {
				return handleError(ErrInvalidInput, err, "Valid types: "+strings.Join(index.AllTypes, ", "))
			}
			filter.Types = append(filter.Types, typ)
		}
		sortKey, err := index.ParseSortKey(elementsSort)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Sort by name, type, mentions or last_seen")
		}
		filter.Sort = sortKey

		wi, err := openIndex(cmd.Context(), indexOptions{})
		if err != nil {
			return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
		}
		defer wi.Close()

		items := wi.ix.Elements(filter)

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"elements": model.NumberedList(items),
			}, wi.warnings(), &Meta{Count: len(items), QueryTimeMs: elapsedMs(start)})
			return nil
		}

		wi.printScanWarnings()
		if len(items) == 0 {
			printEmpty("elements")
			return nil
		}
		rows := make([][]string, 0, len(items))
		for _, s := range items {
			detail := s.Progress
			if detail == "" {
				detail = joinTags(s.Tags)
			}
			rows = append(rows, []string{s.Name, s.Type, detail, s.Campaign, linkLocation(s.NavigateTo, s.LastSeen)})
		}
		printTable(ui.EntityLayout, rows)
		printCount(len(items), "element", "elements", start)
		return nil
	},
}

func init() {
	elementsCmd.Flags().StringArrayVarP(&elementsTypes, "type", "t", nil, "Only list these types (repeatable): npc, location, thread, clock, track, timer, event, pc")
	elementsCmd.Flags().StringVarP(&elementsCampaign, "campaign", "c", "", "Only list elements of this campaign title")
	elementsCmd.Flags().StringVarP(&elementsSort, "sort", "s", "name", "Sort key: name, type, mentions or last_seen")
	elementsCmd.Flags().BoolVar(&elementsDesc, "desc", false, "Sort in descending order")
	rootCmd.AddCommand(elementsCmd)
}
