package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/slugs"
	"github.com/aidanlsb/lonelog/internal/ui"
	"github.com/aidanlsb/lonelog/internal/workspace"
)

var openLine int

// openResult is the JSON shape of `lonelog open`.
type openResult struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Entity string `json:"entity,omitempty"`
	Editor string `json:"editor"`
	Opened bool   `json:"opened"`
}

var openCmd = &cobra.Command{
	Use:   "open <campaign> [entity]",
	Short: "Open a campaign log in your editor",
	Long: `Opens a campaign document in the configured editor ($EDITOR or the
editor setting in config.toml).

When an entity name is given (an NPC, location, thread, tracker or PC), the
editor jumps to the line where it was first mentioned. --line overrides the
position.

Examples:
  lonelog open ironsworn
  lonelog open ironsworn "Old Maren"
  lonelog open logs/starforged.md --line 120`,
	Args: cobra.RangeArgs(1, 2),
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

		result := openResult{File: c.File, Line: openLine}
		if len(args) == 2 {
			s, ok := findEntity(c, args[1])
			if !ok {
				return handleErrorMsg(ErrEntityNotFound,
					fmt.Sprintf("no entity named '%s' in %s", args[1], c.Name()),
					"Run 'lonelog elements --campaign \""+c.Name()+"\"' to list its entities")
			}
			result.Entity = s.Name
			if result.Line <= 0 {
				result.Line = s.NavigateTo.Line
			}
		}

		editor := getConfig().GetEditor()
		if editor == "" {
			return handleErrorMsg(ErrEditorNotFound, "no editor configured", "Set $EDITOR or editor in config.toml")
		}
		result.Editor = editor

		abs, err := wi.src.Abs(c.File)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if err := workspace.OpenInEditor(editor, abs, result.Line); err != nil {
			return handleError(ErrEditorNotFound, err, "Check that the editor is on your PATH")
		}
		result.Opened = true

		if isJSONOutput() {
			outputSuccess(result, nil)
			return nil
		}
		target := filepath.ToSlash(c.File)
		if result.Line > 0 {
			target = ui.Location(c.File, result.Line)
		}
		fmt.Println(ui.Successf("Opened %s in %s", target, editor))
		return nil
	},
}

// findEntity matches name against the campaign's entities by slug.
func findEntity(c *model.Campaign, name string) (model.Summary, bool) {
	want := slugs.EntitySlug(name)
	if want == "" {
		return model.Summary{}, false
	}
	for _, s := range index.Summaries(c) {
		if slugs.EntitySlug(s.Name) == want {
			return s, true
		}
	}
	return model.Summary{}, false
}

func init() {
	openCmd.Flags().IntVarP(&openLine, "line", "l", 0, "Line number to open at")
	rootCmd.AddCommand(openCmd)
}
