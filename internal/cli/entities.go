package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var (
	entityCampaign string
	threadsActive  bool
)

// entityQuery opens the index and resolves --campaign. It returns a nil
// index when the error was already reported.
func entityQuery(cmd *cobra.Command) (*workspaceIndex, string, error) {
	wi, err := openIndex(cmd.Context(), indexOptions{})
	if err != nil {
		return nil, "", handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
	}
	file, err := wi.campaignFile(entityCampaign)
	if err != nil {
		defer wi.Close()
		return nil, "", wi.campaignNotFound(entityCampaign, err)
	}
	return wi, file, nil
}

var npcsCmd = &cobra.Command{
	Use:   "npcs",
	Short: "List NPCs across campaigns",
	Long: `Lists every NPC declared with [N:Name|tags] or referenced with [#N:Name].

NPCs with the same name in different campaigns are listed separately.

Examples:
  lonelog npcs
  lonelog npcs --campaign "Iron Vow"
  lonelog npcs --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		wi, file, err := entityQuery(cmd)
		if wi == nil {
			return err
		}
		defer wi.Close()

		npcs := inCampaign(wi.ix.NPCs(), file, func(n *model.NPC) string { return n.FirstMention.File })

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"npcs": npcs}, wi.warnings(), &Meta{Count: len(npcs), QueryTimeMs: elapsedMs(start)})
			return nil
		}
		wi.printScanWarnings()
		if len(npcs) == 0 {
			printEmpty("NPCs")
			return nil
		}
		rows := make([][]string, 0, len(npcs))
		for _, n := range npcs {
			rows = append(rows, []string{n.Name, index.TypeNPC, joinTags(n.Tags), wi.campaignName(n.FirstMention.File), seenCell(n.FirstMention, n.Mentions)})
		}
		printTable(ui.EntityLayout, rows)
		printCount(len(npcs), "NPC", "NPCs", start)
		return nil
	},
}

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List locations across campaigns",
	Long: `Lists every location declared with [L:Name|tags] or referenced with [#L:Name].

Examples:
  lonelog locations
  lonelog locations --campaign harbor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		wi, file, err := entityQuery(cmd)
		if wi == nil {
			return err
		}
		defer wi.Close()

		locs := inCampaign(wi.ix.Locations(), file, func(l *model.LocationTag) string { return l.FirstMention.File })

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"locations": locs}, wi.warnings(), &Meta{Count: len(locs), QueryTimeMs: elapsedMs(start)})
			return nil
		}
		wi.printScanWarnings()
		if len(locs) == 0 {
			printEmpty("locations")
			return nil
		}
		rows := make([][]string, 0, len(locs))
		for _, l := range locs {
			rows = append(rows, []string{l.Name, index.TypeLocation, joinTags(l.Tags), wi.campaignName(l.FirstMention.File), seenCell(l.FirstMention, l.Mentions)})
		}
		printTable(ui.EntityLayout, rows)
		printCount(len(locs), "location", "locations", start)
		return nil
	},
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List narrative threads",
	Long: `Lists threads declared with [Thread:Name|State].

A thread is active when its state is "open", ignoring case. Closed and
abandoned threads are listed unless --active is given.

Examples:
  lonelog threads
  lonelog threads --active
  lonelog threads --campaign "Iron Vow" --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		wi, file, err := entityQuery(cmd)
		if wi == nil {
			return err
		}
		defer wi.Close()

		all := wi.ix.Threads()
		if threadsActive {
			all = wi.ix.ActiveThreads()
		}
		threads := inCampaign(all, file, func(t *model.Thread) string { return t.FirstMention.File })

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"threads": threads}, wi.warnings(), &Meta{Count: len(threads), QueryTimeMs: elapsedMs(start)})
			return nil
		}
		wi.printScanWarnings()
		if len(threads) == 0 {
			printEmpty("threads")
			return nil
		}
		rows := make([][]string, 0, len(threads))
		for _, t := range threads {
			state := t.State
			if index.IsOpen(t) {
				state = ui.Accent.Render(state)
			} else {
				state = ui.Muted.Render(state)
			}
			rows = append(rows, []string{t.Name, index.TypeThread, state, wi.campaignName(t.FirstMention.File), seenCell(t.FirstMention, t.Mentions)})
		}
		printTable(ui.EntityLayout, rows)
		printCount(len(threads), "thread", "threads", start)
		return nil
	},
}

var pcsCmd = &cobra.Command{
	Use:   "pcs",
	Short: "List player characters and their stats",
	Long: `Lists player characters declared with [PC:Name|key:value|key=value].

Stats keep the latest value written for each key.

Examples:
  lonelog pcs
  lonelog pcs --campaign harbor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		wi, file, err := entityQuery(cmd)
		if wi == nil {
			return err
		}
		defer wi.Close()

		pcs := inCampaign(wi.ix.PlayerCharacters(), file, func(pc *model.PlayerCharacter) string {
			if len(pc.Locations) == 0 {
				return ""
			}
			return pc.Locations[0].File
		})

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"pcs": pcs}, wi.warnings(), &Meta{Count: len(pcs), QueryTimeMs: elapsedMs(start)})
			return nil
		}
		wi.printScanWarnings()
		if len(pcs) == 0 {
			printEmpty("player characters")
			return nil
		}
		rows := make([][]string, 0, len(pcs))
		for _, pc := range pcs {
			stats := make([]string, 0, len(pc.Stats))
			for _, k := range pc.StatKeys() {
				stats = append(stats, k+": "+pc.Stats[k])
			}
			var campaign string
			if len(pc.Locations) > 0 {
				campaign = wi.campaignName(pc.Locations[0].File)
			}
			rows = append(rows, []string{pc.Name, index.TypePC, joinTags(stats), campaign, seenCell(model.Location{}, pc.Locations)})
		}
		printTable(ui.EntityLayout, rows)
		printCount(len(pcs), "character", "characters", start)
		return nil
	},
}

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "List [#N:...] and [#L:...] references",
	Long: `Lists bare references to NPCs and locations.

A reference to an entity that is never declared still creates a stub NPC or
location, so it shows up in 'lonelog npcs' and 'lonelog locations'.

Examples:
  lonelog refs
  lonelog refs --campaign harbor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		wi, file, err := entityQuery(cmd)
		if wi == nil {
			return err
		}
		defer wi.Close()

		refs := inCampaign(wi.ix.References(), file, func(r *model.Reference) string { return r.FirstMention.File })

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"references": refs}, wi.warnings(), &Meta{Count: len(refs), QueryTimeMs: elapsedMs(start)})
			return nil
		}
		wi.printScanWarnings()
		if len(refs) == 0 {
			printEmpty("references")
			return nil
		}
		rows := make([][]string, 0, len(refs))
		for _, r := range refs {
			kind := index.TypeNPC
			if r.Kind == model.KindLocation {
				kind = index.TypeLocation
			}
			rows = append(rows, []string{r.Name, kind, ui.Muted.Render(ui.Plural(len(r.Mentions), "1 mention", strconv.Itoa(len(r.Mentions))+" mentions")), wi.campaignName(r.FirstMention.File), linkLocation(r.FirstMention, r.FirstMention.String())})
		}
		printTable(ui.EntityLayout, rows)
		printCount(len(refs), "reference", "references", start)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{npcsCmd, locationsCmd, threadsCmd, pcsCmd, refsCmd} {
		cmd.Flags().StringVarP(&entityCampaign, "campaign", "c", "", "Limit to one campaign (path, slug or title)")
		rootCmd.AddCommand(cmd)
	}
	threadsCmd.Flags().BoolVar(&threadsActive, "active", false, "Only list open threads")
}
