package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/slugs"
	"github.com/aidanlsb/lonelog/internal/store"
	"github.com/aidanlsb/lonelog/internal/ui"
)

// campaignEntry is the JSON shape of one campaign in listings.
type campaignEntry struct {
	File  string               `json:"file"`
	Slug  string               `json:"slug"`
	Title string               `json:"title"`
	Stats *index.CampaignStats `json:"stats"`
}

func newCampaignEntry(c *model.Campaign) campaignEntry {
	return campaignEntry{
		File:  c.File,
		Slug:  slugs.CampaignSlug(c.File),
		Title: c.Name(),
		Stats: index.StatsOf(c),
	}
}

// statsLine summarizes a campaign in one line.
func statsLine(s *index.CampaignStats) string {
	return fmt.Sprintf("%d %s, %d %s, %d open %s",
		s.Sessions, ui.Plural(s.Sessions, "session", "sessions"),
		s.Scenes, ui.Plural(s.Scenes, "scene", "scenes"),
		s.ActiveThreads, ui.Plural(s.ActiveThreads, "thread", "threads"))
}

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List indexed campaigns",
	Long: `Lists every document recognized as a campaign: a markdown file whose
frontmatter mentions title, ruleset, genre or campaign.

Campaigns can be addressed by path, by slug (shown here) or by title.

Examples:
  lonelog campaigns
  lonelog campaigns --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		wi, err := openIndex(cmd.Context(), indexOptions{})
		if err != nil {
			return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
		}
		defer wi.Close()

		campaigns := wi.ix.Campaigns()

		if isJSONOutput() {
			entries := make([]campaignEntry, 0, len(campaigns))
			for _, c := range campaigns {
				entries = append(entries, newCampaignEntry(c))
			}
			outputSuccessWithWarnings(map[string]interface{}{"campaigns": entries}, wi.warnings(), &Meta{Count: len(entries), QueryTimeMs: elapsedMs(start)})
			return nil
		}

		wi.printScanWarnings()
		if len(campaigns) == 0 {
			printEmpty("campaigns")
			fmt.Println(ui.Hint("Campaign documents need frontmatter with a title, ruleset, genre or campaign key."))
			return nil
		}
		rows := make([][]string, 0, len(campaigns))
		for _, c := range campaigns {
			rows = append(rows, []string{c.Name(), statsLine(index.StatsOf(c)), ui.FilePath(c.File)})
		}
		printTable(ui.CampaignLayout, rows)
		printCount(len(campaigns), "campaign", "campaigns", start)
		return nil
	},
}

// workspaceStats is the JSON shape of `lonelog stats` without an argument.
type workspaceStats struct {
	Campaigns []campaignEntry     `json:"campaigns"`
	Totals    index.CampaignStats `json:"totals"`
	Cache     *store.Stats        `json:"cache,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats [campaign]",
	Short: "Show campaign statistics",
	Long: `Shows session, scene, thread, NPC, location and tracker counts.

With a campaign argument (path, slug or title) only that campaign is shown.
Without one, every campaign is listed with workspace totals and cache
statistics.

Examples:
  lonelog stats
  lonelog stats iron-vow
  lonelog stats --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		wi, err := openIndex(cmd.Context(), indexOptions{})
		if err != nil {
			return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
		}
		defer wi.Close()

		if len(args) == 1 {
			c, err := wi.findCampaign(args[0])
			if err != nil {
				return wi.campaignNotFound(args[0], err)
			}
			entry := newCampaignEntry(c)
			if isJSONOutput() {
				outputSuccessWithWarnings(entry, wi.warnings(), &Meta{QueryTimeMs: elapsedMs(start)})
				return nil
			}
			wi.printScanWarnings()
			fmt.Println(ui.Header(entry.Title) + " " + ui.Muted.Render(c.File))
			printStats(entry.Stats)
			return nil
		}

		result := workspaceStats{Campaigns: []campaignEntry{}}
		for _, c := range wi.ix.Campaigns() {
			entry := newCampaignEntry(c)
			result.Campaigns = append(result.Campaigns, entry)
			addStats(&result.Totals, entry.Stats)
		}
		if wi.store != nil {
			cacheStats, err := wi.store.Stats()
			if err != nil {
				return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
			}
			result.Cache = cacheStats
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(result, wi.warnings(), &Meta{Count: len(result.Campaigns), QueryTimeMs: elapsedMs(start)})
			return nil
		}

		wi.printScanWarnings()
		fmt.Println(ui.Header("Workspace Statistics") + " " + ui.Muted.Render(ui.Count(len(result.Campaigns), "campaign", "campaigns")))
		printStats(&result.Totals)
		if result.Cache != nil {
			fmt.Println()
			fmt.Println(ui.Header("Index Cache"))
			fmt.Printf("%s  %s\n", ui.Muted.Render("Campaigns: "), ui.Accent.Render(fmt.Sprintf("%d", result.Cache.CampaignCount)))
			fmt.Printf("%s  %s\n", ui.Muted.Render("Entities:  "), ui.Accent.Render(fmt.Sprintf("%d", result.Cache.EntityCount)))
		}
		return nil
	},
}

func addStats(total, s *index.CampaignStats) {
	total.Sessions += s.Sessions
	total.Scenes += s.Scenes
	total.ActiveThreads += s.ActiveThreads
	total.ClosedThreads += s.ClosedThreads
	total.NPCs += s.NPCs
	total.Locations += s.Locations
	total.Trackers += s.Trackers
	if s.LastUpdated > total.LastUpdated {
		total.LastUpdated = s.LastUpdated
	}
}

func printStats(s *index.CampaignStats) {
	n := func(v int) string { return ui.Accent.Render(strconv.Itoa(v)) }
	f := ui.NewFields(0).
		Add("Sessions", n(s.Sessions)).
		Add("Scenes", n(s.Scenes)).
		Add("Open threads", n(s.ActiveThreads)).
		Add("Closed threads", n(s.ClosedThreads)).
		Add("NPCs", n(s.NPCs)).
		Add("Locations", n(s.Locations)).
		Add("Trackers", n(s.Trackers))
	if s.LastUpdated != "" {
		f.Add("Last updated", s.LastUpdated)
	}
	fmt.Print(f.String())
}

func init() {
	rootCmd.AddCommand(campaignsCmd)
	rootCmd.AddCommand(statsCmd)
}
