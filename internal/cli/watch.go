package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/ui"
	"github.com/aidanlsb/lonelog/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace and keep the index current",
	Long: `Watches the workspace for file changes and updates the index as documents
are saved, renamed or deleted.

The watcher:
- Monitors documents with the configured extensions (default .md)
- Debounces rapid changes per file (debounce_ms in lonelog.yaml, default 100)
- Ignores .lonelog/, .git/, .trash/ and node_modules/
- Skips modified documents when parse_on_save is false

Examples:
  # Watch the default workspace
  lonelog watch

  # Watch with debug logging
  lonelog watch --debug

  # Watch a specific workspace
  lonelog watch --workspace-path ~/rpg/logs`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	wcfg := getWorkspaceConfig()
	if !wcfg.IsIndexingEnabled() {
		return handleErrorMsg(ErrIndexDisabled, "indexing is disabled for this workspace", "Set enable_indexing: true in lonelog.yaml")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	wi, err := openIndex(ctx, indexOptions{})
	if err != nil {
		return handleError(ErrIndexError, err, "Run 'lonelog reindex --full' to rebuild the index")
	}
	defer wi.Close()
	wi.printScanWarnings()
	al := auditLog()

	w, err := watcher.New(watcher.Config{
		Source:        wi.src,
		Handler:       wi.ix,
		DebounceDelay: wcfg.Debounce(),
		Logger:        &logger,
		OnEvent: func(ev index.Event, err error) {
			if err != nil {
				fmt.Fprintln(os.Stderr, ui.Errorf("%s %s: %v", ev.Kind, ev.Path, err))
				return
			}
			if err := al.LogChange(ev.Kind.String(), ev.Path, ev.OldPath); err != nil {
				logger.Warn().Err(err).Msg("audit log")
			}
			if jsonOutput {
				outputSuccess(map[string]interface{}{
					"event":    ev.Kind.String(),
					"path":     ev.Path,
					"old_path": ev.OldPath,
					"indexed":  wi.ix.Has(ev.Path),
				}, nil)
				return
			}
			switch {
			case ev.Kind == index.Deleted:
				fmt.Println(ui.Muted.Render("removed " + ev.Path))
			case wi.ix.Has(ev.Path):
				fmt.Println(ui.Successf("%s %s", ev.Kind, ev.Path))
			default:
				logger.Debug().Str("path", ev.Path).Msg("not a campaign")
			}
		},
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if !jsonOutput {
		fmt.Printf("Watching workspace: %s %s\n", ui.FilePath(wi.src.Root()), ui.Muted.Render(ui.Count(wi.ix.Len(), "campaign", "campaigns")))
		fmt.Println(ui.Hint("Press Ctrl+C to stop"))
	}

	err = w.Start(ctx)
	if errors.Is(err, context.Canceled) {
		if !jsonOutput {
			fmt.Println("\nShutting down watcher...")
		}
		return nil
	}
	return err
}
