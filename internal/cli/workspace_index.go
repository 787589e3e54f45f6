package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aidanlsb/lonelog/internal/audit"
	"github.com/aidanlsb/lonelog/internal/index"
	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/slugs"
	"github.com/aidanlsb/lonelog/internal/store"
	"github.com/aidanlsb/lonelog/internal/ui"
	"github.com/aidanlsb/lonelog/internal/workspace"
)

// workspaceIndex is an index over the resolved workspace, warmed from the cache
// when one is in use.
type workspaceIndex struct {
	src   *workspace.FileSource
	ix    *index.Index
	store *store.Store

	// scan is the result of the refresh run by openIndex.
	scan index.ScanResult

	// cacheRebuilt is set when an incompatible cache was discarded.
	cacheRebuilt bool
}

type indexOptions struct {
	// skipRefresh leaves the index as loaded from the cache.
	skipRefresh bool

	// full ignores cached entries and re-parses every document.
	full bool
}

// openIndex builds the index for the current workspace. Unless --no-cache
// is set or indexing is disabled, cached campaigns are loaded first and only
// documents modified since they were cached are parsed again.
func openIndex(ctx context.Context, opts indexOptions) (*workspaceIndex, error) {
	wcfg := getWorkspaceConfig()

	src, err := workspace.New(getWorkspacePath(), workspace.Options{
		Extensions: wcfg.GetExtensions(),
		Ignore:     wcfg.Ignore,
	})
	if err != nil {
		return nil, err
	}

	s := &workspaceIndex{src: src}
	ixOpts := index.Options{Logger: &logger, ParseOnSave: wcfg.IsParseOnSaveEnabled()}

	if useCache() {
		st, rebuilt, err := store.Open(src.Root())
		if err != nil {
			return nil, fmt.Errorf("failed to open index cache: %w", err)
		}
		s.store = st
		s.cacheRebuilt = rebuilt
		ixOpts.Sink = st
	}
	s.ix = index.New(src, ixOpts)

	if s.store != nil && opts.full {
		if err := s.store.ClearAll(); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to clear index cache: %w", err)
		}
	}
	if s.store != nil && !opts.full {
		entries, err := s.store.All()
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to read index cache: %w", err)
		}
		for _, e := range entries {
			s.ix.Load(e.Campaign)
		}
		logger.Debug().Int("campaigns", len(entries)).Msg("loaded from cache")
	}

	if opts.skipRefresh {
		return s, nil
	}
	if s.store == nil || opts.full {
		s.scan, _ = s.ix.IndexAll(ctx)
	} else {
		s.scan, _ = s.ix.IndexStale(ctx, s.isStale)
	}
	return s, nil
}

// useCache reports whether the SQLite cache backs the index.
func useCache() bool {
	return !noCache && getWorkspaceConfig().IsIndexingEnabled()
}

// isStale reports whether path changed since it was cached. Errors count as
// stale so the document is parsed again.
func (s *workspaceIndex) isStale(path string) bool {
	mtime, err := s.src.Mtime(path)
	if err != nil {
		return true
	}
	stale, err := s.store.IsStale(path, mtime)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("cache lookup failed")
		return true
	}
	return stale
}

// Close releases the cache.
func (s *workspaceIndex) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// warnings converts scan failures into response warnings.
func (s *workspaceIndex) warnings() []Warning {
	var out []Warning
	if s.cacheRebuilt {
		out = append(out, Warning{Code: WarnCacheRebuilt, Message: "index cache was outdated and has been rebuilt"})
	}
	for _, f := range s.scan.Failed {
		out = append(out, Warning{Code: WarnParseFailed, Message: f.Err, Path: f.Path})
	}
	return out
}

// findCampaign resolves a campaign reference: a path, a slug or a title.
func (s *workspaceIndex) findCampaign(ref string) (*model.Campaign, error) {
	if s.store != nil {
		if path, err := s.store.PathBySlug(slugs.CampaignSlug(ref)); err == nil {
			if c, err := s.ix.Campaign(path); err == nil {
				return c, nil
			}
		}
	}
	c, err := s.ix.Find(ref)
	if errors.Is(err, index.ErrNotFound) && s.src.Accepts(ref) {
		// A document that exists but lacks campaign frontmatter gets a
		// clearer error than "not found".
		if text, readErr := s.src.ReadText(context.Background(), ref); readErr == nil && !index.Classify(text) {
			return nil, fmt.Errorf("%s: %w", ref, index.ErrNotCampaign)
		}
	}
	return c, err
}

// campaignNotFound reports a failed lookup with the known campaigns as a hint.
func (s *workspaceIndex) campaignNotFound(ref string, err error) error {
	if errors.Is(err, index.ErrNotCampaign) {
		return handleErrorMsg(ErrCampaignNotFound,
			fmt.Sprintf("'%s' is not a campaign document", ref),
			"Add a title:, ruleset:, genre: or campaign: field to its frontmatter")
	}
	if !errors.Is(err, index.ErrNotFound) {
		return handleError(ErrInternal, err, "")
	}
	suggestion := "Run 'lonelog campaigns' to list indexed campaigns"
	if jsonOutput {
		outputError(ErrCampaignNotFound, fmt.Sprintf("campaign '%s' not found", ref), map[string]interface{}{
			"known": s.ix.Paths(),
		}, suggestion)
		return nil
	}
	return fmt.Errorf("campaign '%s' not found\n\n%s", ref, suggestion)
}

// printScanWarnings writes scan failures to stderr in text mode.
func (s *workspaceIndex) printScanWarnings() {
	if jsonOutput {
		return
	}
	for _, w := range s.warnings() {
		msg := w.Message
		if w.Path != "" {
			msg = w.Path + ": " + msg
		}
		fmt.Fprintln(os.Stderr, ui.Warning(msg))
	}
}

// auditLog returns the workspace audit logger, a no-op unless audit_log is
// set in lonelog.yaml.
func auditLog() *audit.Logger {
	return audit.New(filepath.Join(getWorkspacePath(), store.DirName), getWorkspaceConfig().AuditLog)
}
