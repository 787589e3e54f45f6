package cli

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/docs"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var notationPlain bool

var notationCmd = &cobra.Command{
	Use:   "notation",
	Short: "Show the Lonelog notation quick reference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := notationText()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"file":    docs.NotationFile,
				"content": content,
			}, nil)
			return nil
		}

		display := ui.NewDisplayContext()
		if notationPlain || !display.IsTTY {
			fmt.Print(content)
			return nil
		}
		rendered, err := ui.RenderMarkdown(content, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			fmt.Print(content)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func notationText() (string, error) {
	data, err := fs.ReadFile(docs.FS, docs.NotationFile)
	if err != nil {
		return "", fmt.Errorf("read bundled notation reference: %w", err)
	}
	return string(data), nil
}

func init() {
	notationCmd.Flags().BoolVar(&notationPlain, "plain", false, "Print raw markdown without rendering")
	rootCmd.AddCommand(notationCmd)
}
