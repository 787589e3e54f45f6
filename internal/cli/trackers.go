package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/progress"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var (
	trackersKind    string
	trackersHistory bool
)

// trackerEntry is the JSON shape of one tracker.
type trackerEntry struct {
	*model.Tracker
	Progress string                  `json:"progress"`
	Status   progress.Status         `json:"status"`
	Valid    bool                    `json:"valid"`
	History  []progress.HistoryEntry `json:"history,omitempty"`
}

// parseTrackerKind maps "clocks", "Timer", ... to a tracker kind.
func parseTrackerKind(s string) (string, error) {
	norm := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	switch norm {
	case "":
		return "", nil
	case model.KindClock, model.KindTrack, model.KindTimer, model.KindEvent:
		return norm, nil
	}
	return "", fmt.Errorf("unknown tracker kind %q (want clock, track, timer or event)", s)
}

var trackersCmd = &cobra.Command{
	Use:   "trackers",
	Short: "List clocks, tracks, timers and events",
	Long: `Lists progress trackers with their latest values.

Clocks, tracks and events show "X/Y (Z%)" and a gauge drawn in the
configured ui.clock_style (bar, segments or circle). Timers show their
remaining value. Each tracker keeps the last value written for it.

Examples:
  lonelog trackers
  lonelog trackers --kind clock
  lonelog trackers --kind timer --campaign harbor
  lonelog trackers --history --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		kind, err := parseTrackerKind(trackersKind)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use --kind clock, track, timer or event")
		}

		wi, file, err := entityQuery(cmd)
		if wi == nil {
			return err
		}
		defer wi.Close()

		var trackers []*model.Tracker
		for _, t := range inCampaign(wi.ix.Trackers(), file, trackerFile) {
			if kind == "" || t.Kind == kind {
				trackers = append(trackers, t)
			}
		}

		if isJSONOutput() {
			entries := make([]trackerEntry, 0, len(trackers))
			for _, t := range trackers {
				e := trackerEntry{
					Tracker:  t,
					Progress: progress.Format(t),
					Status:   progress.StatusOf(t),
					Valid:    progress.Validate(t),
				}
				if trackersHistory {
					e.History = progress.History(t)
				}
				entries = append(entries, e)
			}
			outputSuccessWithWarnings(map[string]interface{}{"trackers": entries}, wi.warnings(), &Meta{Count: len(entries), QueryTimeMs: elapsedMs(start)})
			return nil
		}

		wi.printScanWarnings()
		if len(trackers) == 0 {
			printEmpty("trackers")
			return nil
		}

		style := getConfig().UI.GetClockStyle()
		rows := make([][]string, 0, len(trackers))
		for _, t := range trackers {
			rows = append(rows, []string{t.Name, kindLabel(t.Kind), ui.Gauge(t, style), wi.campaignName(trackerFile(t)), seenCell(model.Location{}, t.Locations)})
		}
		printTable(ui.EntityLayout, rows)

		if trackersHistory {
			for _, t := range trackers {
				fmt.Println()
				fmt.Println(ui.Header(kindLabel(t.Kind) + ": " + t.Name))
				for _, h := range progress.History(t) {
					fmt.Printf("  %s  %s\n", ui.Location(h.Location.File, h.Location.Line), ui.Muted.Render(h.Location.Label()))
				}
			}
		}
		printCount(len(trackers), "tracker", "trackers", start)
		return nil
	},
}

func trackerFile(t *model.Tracker) string {
	if len(t.Locations) == 0 {
		return ""
	}
	return t.Locations[0].File
}

// kindLabel capitalizes a tracker kind for display.
func kindLabel(kind string) string {
	if kind == "" {
		return ""
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

func init() {
	trackersCmd.Flags().StringVarP(&trackersKind, "kind", "k", "", "Only list one kind: clock, track, timer or event")
	trackersCmd.Flags().BoolVar(&trackersHistory, "history", false, "Show every line that mentioned each tracker")
	trackersCmd.Flags().StringVarP(&entityCampaign, "campaign", "c", "", "Limit to one campaign (path, slug or title)")
	rootCmd.AddCommand(trackersCmd)
}
