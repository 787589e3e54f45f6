// Package index keeps one parsed campaign per document and answers
// aggregate queries across all of them.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/parser"
)

var (
	// ErrNotFound indicates no campaign is indexed under the requested path.
	ErrNotFound = errors.New("campaign not indexed")
	// ErrNotCampaign indicates a document lacks campaign frontmatter.
	ErrNotCampaign = errors.New("not a campaign document")
	// ErrScanInProgress indicates a full scan was requested while one runs.
	ErrScanInProgress = errors.New("scan already in progress")
)

// Source reads documents. Paths are opaque to the index.
type Source interface {
	ReadText(ctx context.Context, path string) (string, error)
	List(ctx context.Context) ([]string, error)
}

// Mtimer is implemented by sources that know file modification times.
type Mtimer interface {
	Mtime(path string) (int64, error)
}

// Sink receives every replace and remove. The SQLite cache implements it.
type Sink interface {
	Put(c *model.Campaign, mtime int64) error
	Delete(path string) error
}

// Options configures an Index.
type Options struct {
	// Sink, when set, persists every change.
	Sink Sink

	// Logger receives indexing diagnostics. Defaults to zerolog.Nop().
	Logger *zerolog.Logger

	// ParseOnSave controls whether Modified events trigger a re-parse.
	ParseOnSave bool
}

// DefaultOptions returns options with parse-on-save enabled.
func DefaultOptions() Options {
	return Options{ParseOnSave: true}
}

// Index owns the campaign map. It is safe for concurrent use.
type Index struct {
	src         Source
	sink        Sink
	log         zerolog.Logger
	parseOnSave bool

	mu        sync.RWMutex
	campaigns map[string]*model.Campaign

	scanning atomic.Bool
}

// New creates an empty index over src.
func New(src Source, opts Options) *Index {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Index{
		src:         src,
		sink:        opts.Sink,
		log:         log.With().Str("component", "index").Logger(),
		parseOnSave: opts.ParseOnSave,
		campaigns:   make(map[string]*model.Campaign),
	}
}

// campaignKeys are the frontmatter keys that mark a campaign document.
var campaignKeys = []string{"title:", "ruleset:", "genre:", "campaign:"}

// Classify reports whether text is a campaign document: it must have a
// frontmatter block whose raw text mentions one of the campaign keys.
// The test is a lowercase substring match, so a key inside a value counts.
func Classify(text string) bool {
	fm := parser.ParseFrontmatter(text)
	if fm == nil {
		return false
	}
	raw := strings.ToLower(fm.Raw)
	for _, key := range campaignKeys {
		if strings.Contains(raw, key) {
			return true
		}
	}
	return false
}

// IsCampaignFile reads path and classifies it. Read failures are logged and
// reported as false.
func (ix *Index) IsCampaignFile(ctx context.Context, path string) bool {
	text, err := ix.src.ReadText(ctx, path)
	if err != nil {
		ix.log.Warn().Err(err).Str("path", path).Msg("read failed")
		return false
	}
	return Classify(text)
}

// IndexOne reads, parses and publishes path. On any failure the previous
// entry is left untouched.
func (ix *Index) IndexOne(ctx context.Context, path string) error {
	text, err := ix.src.ReadText(ctx, path)
	if err != nil {
		ix.log.Warn().Err(err).Str("path", path).Msg("read failed")
		return fmt.Errorf("read %s: %w", path, err)
	}
	return ix.indexText(path, text)
}

func (ix *Index) indexText(path, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse %s: panic: %v", path, r)
			ix.log.Error().Err(err).Str("path", path).Msg("parse failed")
		}
	}()

	c := parser.ParseCampaign(text, path)
	ix.publish(c)

	if ix.sink != nil {
		if err := ix.sink.Put(c, ix.mtime(path)); err != nil {
			ix.log.Warn().Err(err).Str("path", path).Msg("cache write failed")
		}
	}

	ix.log.Debug().
		Str("path", path).
		Int("sessions", len(c.Sessions)).
		Int("npcs", len(c.NPCs)).
		Msg("indexed")
	return nil
}

func (ix *Index) mtime(path string) int64 {
	m, ok := ix.src.(Mtimer)
	if !ok {
		return 0
	}
	mtime, err := m.Mtime(path)
	if err != nil {
		return 0
	}
	return mtime
}

// publish replaces the entry for c.File with a fully built campaign.
func (ix *Index) publish(c *model.Campaign) {
	ix.mu.Lock()
	ix.campaigns[c.File] = c
	ix.mu.Unlock()
}

// Load publishes an already parsed campaign, e.g. one read from the cache.
// The sink is not written.
func (ix *Index) Load(c *model.Campaign) {
	ix.publish(c)
}

// Remove drops path from the index. Removing an unknown path is a no-op.
func (ix *Index) Remove(path string) {
	ix.mu.Lock()
	_, existed := ix.campaigns[path]
	delete(ix.campaigns, path)
	ix.mu.Unlock()

	if !existed {
		return
	}
	if ix.sink != nil {
		if err := ix.sink.Delete(path); err != nil {
			ix.log.Warn().Err(err).Str("path", path).Msg("cache delete failed")
		}
	}
	ix.log.Debug().Str("path", path).Msg("removed")
}

// FileError records one document that failed during a scan.
type FileError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// ScanResult summarizes a full scan.
type ScanResult struct {
	Listed   int           `json:"listed"`
	Indexed  int           `json:"indexed"`
	Skipped  int           `json:"skipped"`
	Failed   []FileError   `json:"failed,omitempty"`
	Duration time.Duration `json:"duration"`
}

// IndexAll lists the source and indexes every campaign document. Per-file
// failures are recorded and do not abort the scan. It returns false without
// doing anything when another scan is already running.
func (ix *Index) IndexAll(ctx context.Context) (ScanResult, bool) {
	return ix.scan(ctx, nil)
}

// ShouldParse decides per path whether a scan parses it. Returning false
// keeps whatever is already published, e.g. a fresh cache entry.
type ShouldParse func(path string) bool

// IndexStale runs a scan like IndexAll but skips paths for which fresh
// reports false. Campaigns whose files were not listed are removed.
func (ix *Index) IndexStale(ctx context.Context, fresh ShouldParse) (ScanResult, bool) {
	return ix.scan(ctx, fresh)
}

func (ix *Index) scan(ctx context.Context, shouldParse ShouldParse) (ScanResult, bool) {
	if !ix.scanning.CompareAndSwap(false, true) {
		ix.log.Debug().Err(ErrScanInProgress).Msg("scan dropped")
		return ScanResult{}, false
	}
	defer ix.scanning.Store(false)

	start := time.Now()
	var result ScanResult

	paths, err := ix.src.List(ctx)
	if err != nil {
		ix.log.Error().Err(err).Msg("list failed")
		result.Failed = append(result.Failed, FileError{Err: err.Error()})
		result.Duration = time.Since(start)
		return result, true
	}
	result.Listed = len(paths)

	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		seen[path] = struct{}{}

		if shouldParse != nil && !shouldParse(path) && ix.Has(path) {
			result.Skipped++
			continue
		}

		text, err := ix.src.ReadText(ctx, path)
		if err != nil {
			ix.log.Warn().Err(err).Str("path", path).Msg("read failed")
			result.Failed = append(result.Failed, FileError{Path: path, Err: err.Error()})
			continue
		}
		if !Classify(text) {
			ix.Remove(path)
			result.Skipped++
			continue
		}
		if err := ix.indexText(path, text); err != nil {
			result.Failed = append(result.Failed, FileError{Path: path, Err: err.Error()})
			continue
		}
		result.Indexed++
	}

	if ctx.Err() == nil {
		for _, path := range ix.Paths() {
			if _, ok := seen[path]; !ok {
				ix.Remove(path)
			}
		}
	}

	result.Duration = time.Since(start)
	ix.log.Info().
		Int("listed", result.Listed).
		Int("indexed", result.Indexed).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Failed)).
		Dur("duration", result.Duration).
		Msg("scan complete")
	return result, true
}

// Scanning reports whether a full scan is running.
func (ix *Index) Scanning() bool {
	return ix.scanning.Load()
}

// Has reports whether path is indexed.
func (ix *Index) Has(path string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.campaigns[path]
	return ok
}

// Len returns the number of indexed campaigns.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.campaigns)
}
