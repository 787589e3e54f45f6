package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/store"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var reindexFull bool

// reindexResult is the JSON shape of `lonelog reindex`.
type reindexResult struct {
	Full      bool              `json:"full"`
	Listed    int               `json:"listed"`
	Indexed   int               `json:"indexed"`
	Skipped   int               `json:"skipped"`
	Campaigns int               `json:"campaigns"`
	Failed    []index.FileError `json:"failed,omitempty"`
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Reindex all campaign documents",
	Long: `Parses the campaign documents in the workspace and updates the index cache
in .lonelog/.

By default only documents modified since they were cached are parsed again;
cached campaigns whose files are gone are dropped. Use --full to clear the
cache and parse everything.

Examples:
  # Incremental reindex (default)
  lonelog reindex

  # Full reindex (rebuild everything)
  lonelog reindex --full`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath := getWorkspacePath()
		if !useCache() {
			return handleErrorMsg(ErrIndexDisabled, "the index cache is disabled", "Remove --no-cache or set enable_indexing: true in lonelog.yaml")
		}

		lock, err := store.AcquireLock(workspacePath)
		if err != nil {
			if errors.Is(err, store.ErrLocked) {
				return handleError(ErrIndexLocked, err, "Another lonelog process is reindexing; try again shortly")
			}
			return handleError(ErrIndexError, err, "")
		}
		defer lock.Release()

		if !jsonOutput {
			if reindexFull {
				fmt.Printf("Full reindexing workspace: %s\n", ui.FilePath(workspacePath))
			} else {
				fmt.Printf("Reindexing workspace: %s\n", ui.FilePath(workspacePath))
			}
		}

		var spinner *ui.Spinner
		if !jsonOutput {
			spinner = ui.NewSpinner("Indexing files")
			spinner.Start()
		}

		wi, err := openIndex(cmd.Context(), indexOptions{full: reindexFull})
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			return handleError(ErrIndexError, err, "Delete .lonelog/ and run 'lonelog reindex --full'")
		}
		defer wi.Close()

		full := reindexFull || wi.cacheRebuilt
		res := wi.scan
		result := reindexResult{
			Full:      full,
			Listed:    res.Listed,
			Indexed:   res.Indexed,
			Skipped:   res.Skipped,
			Campaigns: wi.ix.Len(),
			Failed:    res.Failed,
		}

		failed := make([]string, 0, len(res.Failed))
		for _, f := range res.Failed {
			failed = append(failed, f.Path)
		}
		if err := auditLog().LogReindex(full, res.Indexed, result.Campaigns, failed); err != nil {
			logger.Warn().Err(err).Msg("audit log")
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(result, wi.warnings(), &Meta{Count: result.Indexed, QueryTimeMs: res.Duration.Milliseconds()})
			return nil
		}

		if wi.cacheRebuilt {
			fmt.Println(ui.Info("Index cache was outdated - performed a full reindex."))
		}
		for _, f := range res.Failed {
			fmt.Println(ui.Errorf("%s: %s", f.Path, f.Err))
		}
		summary := fmt.Sprintf("Indexed %d %s", res.Indexed, ui.Plural(res.Indexed, "file", "files"))
		if res.Skipped > 0 {
			summary += fmt.Sprintf(" (%d up-to-date or not campaigns)", res.Skipped)
		}
		fmt.Println(ui.Check(summary))
		fmt.Println(ui.Muted.Render(fmt.Sprintf("%s in %dms", ui.Count(result.Campaigns, "campaign", "campaigns"), res.Duration.Milliseconds())))
		return nil
	},
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexFull, "full", false, "Clear the cache and parse every document")
	rootCmd.AddCommand(reindexCmd)
}
