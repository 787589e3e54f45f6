package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/progress"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var showPlain bool

var showCmd = &cobra.Command{
	Use:   "show <campaign>",
	Short: "Show a campaign summary",
	Long: `Renders a summary of one campaign: frontmatter, sessions and scenes,
threads, NPCs, locations, trackers and player characters.

The campaign can be a path, a slug or a title. With --json the full parsed
campaign is returned.

Examples:
  lonelog show iron-vow
  lonelog show "Logs/Iron Vow.md" --plain
  lonelog show "Iron Vow" --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wi, err := openIndex(cmd.Context(), indexOptions{})
		if err != nil {
			return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
		}
		defer wi.Close()

		c, err := wi.findCampaign(args[0])
		if err != nil {
			return wi.campaignNotFound(args[0], err)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"campaign": c,
				"stats":    index.StatsOf(c),
			}, wi.warnings(), nil)
			return nil
		}

		wi.printScanWarnings()
		md := campaignMarkdown(c)
		display := ui.NewDisplayContext()
		if showPlain || !display.IsTTY {
			fmt.Print(md)
			return nil
		}
		rendered, err := ui.RenderMarkdown(md, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			fmt.Print(md)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

// campaignMarkdown builds the markdown summary shown by `lonelog show`.
func campaignMarkdown(c *model.Campaign) string {
	var b strings.Builder
	stats := index.StatsOf(c)

	fmt.Fprintf(&b, "# %s\n\n", c.Name())
	fmt.Fprintf(&b, "`%s`\n\n", c.File)

	if len(c.FrontMatter) > 0 {
		keys := make([]string, 0, len(c.FrontMatter))
		for k := range c.FrontMatter {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s**: %s\n", k, c.FrontMatter[k])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Overview\n\n")
	b.WriteString("| Sessions | Scenes | Open threads | Closed threads | NPCs | Locations | Trackers |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d | %d |\n\n",
		stats.Sessions, stats.Scenes, stats.ActiveThreads, stats.ClosedThreads, stats.NPCs, stats.Locations, stats.Trackers)

	if len(c.Sessions) > 0 {
		b.WriteString("## Sessions\n\n")
		for i := range c.Sessions {
			sess := &c.Sessions[i]
			heading := sess.Label()
			if sess.Date != "" {
				heading += " (" + sess.Date + ")"
			}
			fmt.Fprintf(&b, "### %s\n\n", heading)
			if sess.Recap != "" {
				fmt.Fprintf(&b, "*Recap:* %s\n\n", sess.Recap)
			}
			if sess.Goals != "" {
				fmt.Fprintf(&b, "*Goals:* %s\n\n", sess.Goals)
			}
			for _, scene := range sess.Scenes {
				line := "- **" + scene.Number + "**"
				if scene.Context != "" {
					line += " " + scene.Context
				}
				line += fmt.Sprintf(" (%d %s, line %d)", len(scene.Elements), ui.Plural(len(scene.Elements), "entry", "entries"), scene.StartLine)
				b.WriteString(line + "\n")
			}
			b.WriteString("\n")
		}
	}

	if len(c.Threads) > 0 {
		b.WriteString("## Threads\n\n")
		for _, t := range model.SortedValues(c.Threads) {
			fmt.Fprintf(&b, "- **%s**: %s\n", t.Name, t.State)
		}
		b.WriteString("\n")
	}

	writeNamed := func(title string, names []string) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		for _, n := range names {
			b.WriteString("- " + n + "\n")
		}
		b.WriteString("\n")
	}

	var npcs []string
	for _, n := range model.SortedValues(c.NPCs) {
		npcs = append(npcs, taggedName(n.Name, n.Tags)+" _"+n.FirstMention.Label()+"_")
	}
	writeNamed("NPCs", npcs)

	var locs []string
	for _, l := range model.SortedValues(c.Locations) {
		locs = append(locs, taggedName(l.Name, l.Tags)+" _"+l.FirstMention.Label()+"_")
	}
	writeNamed("Locations", locs)

	var trackers []string
	for _, t := range c.Trackers() {
		entry := fmt.Sprintf("**%s** (%s): %s", t.Name, t.Kind, progress.Format(t))
		if !progress.Validate(t) {
			entry += " (invalid)"
		} else if s := progress.StatusOf(t); s != progress.StatusInProgress && s != progress.StatusRunning {
			entry += " _" + ui.Humanize(string(s)) + "_"
		}
		trackers = append(trackers, entry)
	}
	writeNamed("Trackers", trackers)

	var pcs []string
	for _, pc := range model.SortedValues(c.PlayerCharacters) {
		stats := make([]string, 0, len(pc.Stats))
		for _, k := range pc.StatKeys() {
			stats = append(stats, k+": "+pc.Stats[k])
		}
		pcs = append(pcs, taggedName(pc.Name, stats))
	}
	writeNamed("Player Characters", pcs)

	return b.String()
}

func taggedName(name string, tags []string) string {
	if len(tags) == 0 {
		return "**" + name + "**"
	}
	return "**" + name + "** (" + strings.Join(tags, ", ") + ")"
}

func init() {
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Print the markdown without rendering it")
	rootCmd.AddCommand(showCmd)
}
