package index

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/progress"
)

// Summary type labels.
const (
	TypeNPC      = "NPC"
	TypeLocation = "Location"
	TypeThread   = "Thread"
	TypeClock    = "Clock"
	TypeTrack    = "Track"
	TypeTimer    = "Timer"
	TypeEvent    = "Event"
	TypePC       = "PC"
)

// AllTypes lists every summary type label.
var AllTypes = []string{TypeNPC, TypeLocation, TypeThread, TypeClock, TypeTrack, TypeTimer, TypeEvent, TypePC}

// ParseType maps a user-supplied label ("npc", "pcs", "Clock") to its
// summary type.
func ParseType(s string) (string, error) {
	norm := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for _, t := range AllTypes {
		if strings.ToLower(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown element type %q", s)
}

// SortKey selects the Elements ordering.
type SortKey string

const (
	SortName     SortKey = "name"
	SortType     SortKey = "type"
	SortMentions SortKey = "mentions"
	SortLastSeen SortKey = "last_seen"
)

// ParseSortKey validates a sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ReplaceAll(strings.ToLower(s), "-", "_")); k {
	case SortName, SortType, SortMentions, SortLastSeen:
		return k, nil
	case "lastseen":
		return SortLastSeen, nil
	case "":
		return SortName, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ElementFilter narrows the unified element listing.
type ElementFilter struct {
	// Types limits results to these summary types. Empty means all.
	Types []string

	// Campaign limits results to one campaign name.
	Campaign string

	// Query matches name, type, campaign or tags, ignoring case.
	Query string

	Sort SortKey
	Desc bool
}

// Elements lists every entity of every campaign as a Summary.
func (ix *Index) Elements(f ElementFilter) []model.Summary {
	var all []model.Summary
	for _, c := range ix.snapshot() {
		all = append(all, Summaries(c)...)
	}

	q := strings.ToLower(f.Query)
	out := all[:0]
	for _, s := range all {
		if len(f.Types) > 0 && !slices.Contains(f.Types, s.Type) {
			continue
		}
		if f.Campaign != "" && s.Campaign != f.Campaign {
			continue
		}
		if q != "" && !summaryMatches(s, q) {
			continue
		}
		out = append(out, s)
	}

	less := summaryLess(f.Sort)
	sort.SliceStable(out, func(i, j int) bool {
		if f.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func summaryMatches(s model.Summary, lowerQuery string) bool {
	return containsFold(s.Name, lowerQuery) ||
		containsFold(s.Type, lowerQuery) ||
		containsFold(s.Campaign, lowerQuery) ||
		anyContainsFold(s.Tags, lowerQuery)
}

func summaryLess(key SortKey) func(a, b model.Summary) bool {
	switch key {
	case SortType:
		return func(a, b model.Summary) bool { return a.Type < b.Type }
	case SortMentions:
		return func(a, b model.Summary) bool { return a.Mentions < b.Mentions }
	case SortLastSeen:
		return func(a, b model.Summary) bool { return a.LastSeen < b.LastSeen }
	default:
		return func(a, b model.Summary) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
}

// Summaries normalizes every entity of one campaign, in a fixed kind order
// and by identity within a kind.
func Summaries(c *model.Campaign) []model.Summary {
	name := c.Name()
	var out []model.Summary

	for _, n := range model.SortedValues(c.NPCs) {
		out = append(out, model.Summary{
			ID: n.ID, Name: n.Name, Type: TypeNPC, Campaign: name,
			Tags:       n.Tags,
			Mentions:   len(n.Mentions),
			LastSeen:   lastSeen(n.Mentions, &n.FirstMention),
			NavigateTo: n.FirstMention,
		})
	}
	for _, l := range model.SortedValues(c.Locations) {
		out = append(out, model.Summary{
			ID: l.ID, Name: l.Name, Type: TypeLocation, Campaign: name,
			Tags:       l.Tags,
			Mentions:   len(l.Mentions),
			LastSeen:   lastSeen(l.Mentions, &l.FirstMention),
			NavigateTo: l.FirstMention,
		})
	}
	for _, t := range model.SortedValues(c.Threads) {
		out = append(out, model.Summary{
			ID: t.ID, Name: t.Name, Type: TypeThread, Campaign: name,
			Tags:       []string{},
			Mentions:   len(t.Mentions),
			LastSeen:   lastSeen(t.Mentions, &t.FirstMention),
			Progress:   t.State,
			NavigateTo: t.FirstMention,
		})
	}

	trackerTypes := []struct {
		label string
		table map[string]*model.Tracker
	}{
		{TypeClock, c.Clocks},
		{TypeTrack, c.Tracks},
		{TypeTimer, c.Timers},
		{TypeEvent, c.Events},
	}
	for _, tt := range trackerTypes {
		for _, tr := range model.SortedValues(tt.table) {
			out = append(out, model.Summary{
				ID: tr.ID, Name: tr.Name, Type: tt.label, Campaign: name,
				Tags:       []string{},
				Mentions:   len(tr.Locations),
				LastSeen:   lastSeen(tr.Locations, nil),
				Progress:   progress.Format(tr),
				NavigateTo: navigateTo(c, tr.Locations),
			})
		}
	}

	for _, pc := range model.SortedValues(c.PlayerCharacters) {
		tags := make([]string, 0, len(pc.Stats))
		for _, k := range pc.StatKeys() {
			tags = append(tags, k+": "+pc.Stats[k])
		}
		out = append(out, model.Summary{
			ID: pc.ID, Name: pc.Name, Type: TypePC, Campaign: name,
			Tags:       tags,
			Mentions:   len(pc.Locations),
			LastSeen:   lastSeen(pc.Locations, nil),
			NavigateTo: navigateTo(c, pc.Locations),
		})
	}

	return out
}

// lastSeen labels the latest mention, falling back to first or "N/A".
func lastSeen(mentions []model.Location, first *model.Location) string {
	if len(mentions) > 0 {
		return mentions[len(mentions)-1].Label()
	}
	if first != nil {
		return first.Label()
	}
	return "N/A"
}

func navigateTo(c *model.Campaign, locs []model.Location) model.Location {
	if len(locs) > 0 {
		return locs[0]
	}
	return model.Location{File: c.File}
}

// MetaNotes lists meta notes of every campaign in document order. category
// filters by model.MetaCategory when non-empty; query matches content.
func (ix *Index) MetaNotes(category model.MetaCategory, query string) []model.MetaNoteEntry {
	q := strings.ToLower(query)
	var out []model.MetaNoteEntry
	for _, c := range ix.snapshot() {
		c.WalkElements(func(sess *model.Session, scene *model.Scene, el *model.Element) {
			if el.Kind != model.ElementMetaNote {
				return
			}
			if category != "" && el.Category != category {
				return
			}
			if q != "" && !containsFold(el.Content, q) {
				return
			}
			out = append(out, model.MetaNoteEntry{
				Note:     *el,
				Campaign: c.Name(),
				Location: c.ElementLocation(sess, scene, el),
			})
		})
	}
	return out
}

// RandomEvents lists table lookups and generator lines. kind filters to one
// of them when non-empty; query matches "roll result" for tables and
// "system result" for generators.
func (ix *Index) RandomEvents(kind model.RandomEventKind, query string) []model.RandomEvent {
	q := strings.ToLower(query)
	var out []model.RandomEvent
	for _, c := range ix.snapshot() {
		c.WalkElements(func(sess *model.Session, scene *model.Scene, el *model.Element) {
			var k model.RandomEventKind
			switch el.Kind {
			case model.ElementTableLookup:
				k = model.RandomTable
			case model.ElementGenerator:
				k = model.RandomGenerator
			default:
				return
			}
			if kind != "" && k != kind {
				return
			}
			ev := model.RandomEvent{
				Kind:     k,
				Element:  *el,
				Campaign: c.Name(),
				Location: c.ElementLocation(sess, scene, el),
			}
			if q != "" && !containsFold(ev.Source()+" "+el.Result, q) {
				return
			}
			out = append(out, ev)
		})
	}
	return out
}

// ParseRandomEventKind validates a table/generator filter.
func ParseRandomEventKind(s string) (model.RandomEventKind, error) {
	switch strings.TrimSuffix(strings.ToLower(s), "s") {
	case "":
		return "", nil
	case "table", "tbl":
		return model.RandomTable, nil
	case "generator", "gen":
		return model.RandomGenerator, nil
	}
	return "", fmt.Errorf("unknown random event kind %q", s)
}

// ParseMetaCategory validates a meta note category filter.
func ParseMetaCategory(s string) (model.MetaCategory, error) {
	if s == "" {
		return "", nil
	}
	norm := model.MetaCategory(strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(s, "-", " "))), "_"))
	if norm == model.MetaOther || slices.Contains(model.KnownMetaCategories, norm) {
		return norm, nil
	}
	return "", fmt.Errorf("unknown meta note category %q", s)
}
