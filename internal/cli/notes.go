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
	notesCategory string
	tablesKind    string
)

var notesCmd = &cobra.Command{
	Use:   "notes [query]",
	Short: "Browse out-of-character meta notes",
	Long: `Lists meta notes written as (note: ...), (reflection: ...), (house rule: ...),
(reminder: ...) and (question: ...), in document order.

The query matches the note text, ignoring case.

Examples:
  lonelog notes
  lonelog notes --category reflection
  lonelog notes --category "house rule" tide`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		category, err := index.ParseMetaCategory(notesCategory)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use note, reflection, house_rule, reminder, question or other")
		}

		wi, err := openIndex(cmd.Context(), indexOptions{})
		if err != nil {
			return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
		}
		defer wi.Close()

		notes := wi.ix.MetaNotes(category, strings.Join(args, " "))

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"notes": model.NumberedList(notes),
			}, wi.warnings(), &Meta{Count: len(notes), QueryTimeMs: elapsedMs(start)})
			return nil
		}

		wi.printScanWarnings()
		if len(notes) == 0 {
			printEmpty("meta notes")
			return nil
		}
		rows := make([][]string, 0, len(notes))
		for _, n := range notes {
			rows = append(rows, []string{string(n.Note.Category), n.Note.Content, n.Campaign, linkLocation(n.Location, n.Location.Label())})
		}
		printTable(ui.NoteLayout, rows)
		printCount(len(notes), "note", "notes", start)
		return nil
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables [query]",
	Short: "Browse random table lookups and generator results",
	Long: `Lists table lookups (tbl: roll => result) and generator lines
(gen: system => result), in document order.

The query matches the roll or generator name together with the result.

Examples:
  lonelog tables
  lonelog tables --kind generator
  lonelog tables d66`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		kind, err := index.ParseRandomEventKind(tablesKind)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use --kind table or generator")
		}

		wi, err := openIndex(cmd.Context(), indexOptions{})
		if err != nil {
			return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
		}
		defer wi.Close()

		events := wi.ix.RandomEvents(kind, strings.Join(args, " "))

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"events": model.NumberedList(events),
			}, wi.warnings(), &Meta{Count: len(events), QueryTimeMs: elapsedMs(start)})
			return nil
		}

		wi.printScanWarnings()
		if len(events) == 0 {
			printEmpty("table or generator results")
			return nil
		}
		rows := make([][]string, 0, len(events))
		for _, e := range events {
			content := e.Source() + " " + ui.Muted.Render("=>") + " " + e.Element.Result
			rows = append(rows, []string{string(e.Kind), content, e.Campaign, linkLocation(e.Location, e.Location.Label())})
		}
		printTable(ui.NoteLayout, rows)
		printCount(len(events), "result", "results", start)
		return nil
	},
}

func init() {
	notesCmd.Flags().StringVar(&notesCategory, "category", "", "Only list one category: note, reflection, house_rule, reminder, question, other")
	tablesCmd.Flags().StringVarP(&tablesKind, "kind", "k", "", "Only list table or generator results")
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(tablesCmd)
}
