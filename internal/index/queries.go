package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/slugs"
)

// snapshot returns the published campaigns ordered by path. Campaigns are
// never mutated after publish, so callers may read them without the lock.
func (ix *Index) snapshot() []*model.Campaign {
	ix.mu.RLock()
	out := make([]*model.Campaign, 0, len(ix.campaigns))
	for _, c := range ix.campaigns {
		out = append(out, c)
	}
	ix.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// Campaign returns the campaign indexed under path.
func (ix *Index) Campaign(path string) (*model.Campaign, error) {
	ix.mu.RLock()
	c, ok := ix.campaigns[path]
	ix.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return c, nil
}

// Campaigns returns every indexed campaign ordered by path.
func (ix *Index) Campaigns() []*model.Campaign {
	return ix.snapshot()
}

// Paths returns every indexed path in order.
func (ix *Index) Paths() []string {
	campaigns := ix.snapshot()
	paths := make([]string, len(campaigns))
	for i, c := range campaigns {
		paths[i] = c.File
	}
	return paths
}

// Find resolves a user-supplied campaign reference: an exact path, a path
// slug, a file-name slug, or a case-insensitive title.
func (ix *Index) Find(ref string) (*model.Campaign, error) {
	if c, err := ix.Campaign(ref); err == nil {
		return c, nil
	}
	campaigns := ix.snapshot()
	for _, c := range campaigns {
		if slugs.Matches(ref, c.File) {
			return c, nil
		}
	}
	for _, c := range campaigns {
		if strings.EqualFold(c.Name(), ref) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
}

// collect gathers one entity table from every campaign, ordered by identity
// and then by path.
func collect[V any](ix *Index, table func(c *model.Campaign) map[string]V) []V {
	type keyed struct {
		id, file string
		v        V
	}
	var all []keyed
	for _, c := range ix.snapshot() {
		for id, v := range table(c) {
			all = append(all, keyed{id: id, file: c.File, v: v})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].id != all[j].id {
			return all[i].id < all[j].id
		}
		return all[i].file < all[j].file
	})
	out := make([]V, len(all))
	for i, k := range all {
		out[i] = k.v
	}
	return out
}

// NPCs returns the NPCs of every campaign.
func (ix *Index) NPCs() []*model.NPC {
	return collect(ix, func(c *model.Campaign) map[string]*model.NPC { return c.NPCs })
}

// Locations returns the locations of every campaign.
func (ix *Index) Locations() []*model.LocationTag {
	return collect(ix, func(c *model.Campaign) map[string]*model.LocationTag { return c.Locations })
}

// Threads returns the threads of every campaign.
func (ix *Index) Threads() []*model.Thread {
	return collect(ix, func(c *model.Campaign) map[string]*model.Thread { return c.Threads })
}

// ActiveThreads returns threads whose state is "open", ignoring case.
func (ix *Index) ActiveThreads() []*model.Thread {
	var out []*model.Thread
	for _, t := range ix.Threads() {
		if IsOpen(t) {
			out = append(out, t)
		}
	}
	return out
}

// IsOpen reports whether a thread counts as active.
func IsOpen(t *model.Thread) bool {
	return strings.EqualFold(t.State, "open")
}

// IsClosed reports whether a thread counts as closed.
func IsClosed(t *model.Thread) bool {
	return strings.EqualFold(t.State, "closed")
}

// PlayerCharacters returns the PCs of every campaign.
func (ix *Index) PlayerCharacters() []*model.PlayerCharacter {
	return collect(ix, func(c *model.Campaign) map[string]*model.PlayerCharacter { return c.PlayerCharacters })
}

// References returns every bare reference.
func (ix *Index) References() []*model.Reference {
	return collect(ix, func(c *model.Campaign) map[string]*model.Reference { return c.References })
}

// Trackers returns clocks, then tracks, timers and events, each group
// ordered by identity and path.
func (ix *Index) Trackers() []*model.Tracker {
	var out []*model.Tracker
	out = append(out, collect(ix, func(c *model.Campaign) map[string]*model.Tracker { return c.Clocks })...)
	out = append(out, collect(ix, func(c *model.Campaign) map[string]*model.Tracker { return c.Tracks })...)
	out = append(out, collect(ix, func(c *model.Campaign) map[string]*model.Tracker { return c.Timers })...)
	out = append(out, collect(ix, func(c *model.Campaign) map[string]*model.Tracker { return c.Events })...)
	return out
}

// SearchResults groups entity matches by kind.
type SearchResults struct {
	NPCs      []*model.NPC         `json:"npcs"`
	Locations []*model.LocationTag `json:"locations"`
	Threads   []*model.Thread      `json:"threads"`
	Trackers  []*model.Tracker     `json:"trackers"`
	Total     int                  `json:"total"`
}

// Search finds entities whose name contains query, ignoring case. NPCs and
// locations also match on tags; threads also match on state.
func (ix *Index) Search(query string) SearchResults {
	q := strings.ToLower(query)
	res := SearchResults{
		NPCs:      []*model.NPC{},
		Locations: []*model.LocationTag{},
		Threads:   []*model.Thread{},
		Trackers:  []*model.Tracker{},
	}

	for _, n := range ix.NPCs() {
		if containsFold(n.Name, q) || anyContainsFold(n.Tags, q) {
			res.NPCs = append(res.NPCs, n)
		}
	}
	for _, l := range ix.Locations() {
		if containsFold(l.Name, q) || anyContainsFold(l.Tags, q) {
			res.Locations = append(res.Locations, l)
		}
	}
	for _, t := range ix.Threads() {
		if containsFold(t.Name, q) || containsFold(t.State, q) {
			res.Threads = append(res.Threads, t)
		}
	}
	for _, tr := range ix.Trackers() {
		if containsFold(tr.Name, q) {
			res.Trackers = append(res.Trackers, tr)
		}
	}

	res.Total = len(res.NPCs) + len(res.Locations) + len(res.Threads) + len(res.Trackers)
	return res
}

// CampaignStats summarizes one campaign.
type CampaignStats struct {
	Title         string `json:"title"`
	Sessions      int    `json:"sessions"`
	Scenes        int    `json:"scenes"`
	ActiveThreads int    `json:"active_threads"`
	ClosedThreads int    `json:"closed_threads"`
	NPCs          int    `json:"npcs"`
	Locations     int    `json:"locations"`
	Trackers      int    `json:"trackers"`
	LastUpdated   string `json:"last_updated,omitempty"`
}

// Stats summarizes the campaign at path. ok is false when it is not indexed.
func (ix *Index) Stats(path string) (*CampaignStats, bool) {
	c, err := ix.Campaign(path)
	if err != nil {
		return nil, false
	}
	return StatsOf(c), true
}

// StatsOf summarizes a campaign.
func StatsOf(c *model.Campaign) *CampaignStats {
	s := &CampaignStats{
		Title:       c.Name(),
		Sessions:    len(c.Sessions),
		Scenes:      c.SceneCount(),
		NPCs:        len(c.NPCs),
		Locations:   len(c.Locations),
		Trackers:    c.TrackerCount(),
		LastUpdated: c.FrontMatter["last_update"],
	}
	for _, t := range c.Threads {
		switch {
		case IsOpen(t):
			s.ActiveThreads++
		case IsClosed(t):
			s.ClosedThreads++
		}
	}
	return s
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func anyContainsFold(values []string, lowerQuery string) bool {
	for _, v := range values {
		if containsFold(v, lowerQuery) {
			return true
		}
	}
	return false
}
