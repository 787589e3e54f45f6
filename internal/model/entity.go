package model

import (
	"sort"
	"strings"
)

// Entity kinds. They prefix every identity string.
const (
	KindNPC      = "npc"
	KindLocation = "location"
	KindThread   = "thread"
	KindPC       = "pc"
	KindClock    = "clock"
	KindTrack    = "track"
	KindTimer    = "timer"
	KindEvent    = "event"
)

// Identity returns the normalized "<kind>:<lowercased name>" key for an entity.
func Identity(kind, name string) string {
	return kind + ":" + strings.ToLower(name)
}

// NPC is a non-player character declared with [N:Name|tags] or referenced
// with [#N:Name].
type NPC struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Tags         []string   `json:"tags"`
	FirstMention Location   `json:"first_mention"`
	Mentions     []Location `json:"mentions"`
}

// LocationTag is a place declared with [L:Name|tags] or referenced with [#L:Name].
type LocationTag struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Tags         []string   `json:"tags"`
	FirstMention Location   `json:"first_mention"`
	Mentions     []Location `json:"mentions"`
}

// Thread is a narrative thread declared with [Thread:Name|State].
// State is typically Open, Closed or Abandoned but any text is kept.
type Thread struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	State        string     `json:"state"`
	FirstMention Location   `json:"first_mention"`
	Mentions     []Location `json:"mentions"`
}

// PlayerCharacter is declared with [PC:Name|key:value|key=value].
type PlayerCharacter struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Stats     map[string]string `json:"stats"`
	Locations []Location        `json:"locations"`
}

// StatKeys returns the stat keys in sorted order.
func (pc *PlayerCharacter) StatKeys() []string {
	keys := make([]string, 0, len(pc.Stats))
	for k := range pc.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tracker is a numeric progress indicator: a clock, track, event or timer.
// Clocks, tracks and events use Current/Total; timers use Value.
type Tracker struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Name      string     `json:"name"`
	Current   int        `json:"current"`
	Total     int        `json:"total"`
	Value     int        `json:"value"`
	Locations []Location `json:"locations"`
}

// IsTimer reports whether the tracker counts down a single value.
func (t *Tracker) IsTimer() bool {
	return t.Kind == KindTimer
}

// Reference is a bare pointer ([#N:Name] or [#L:Name]) to an NPC or location
// that may or may not be declared elsewhere in the same document.
type Reference struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Kind         string     `json:"kind"` // KindNPC or KindLocation
	FirstMention Location   `json:"first_mention"`
	Mentions     []Location `json:"mentions"`
}

// SortedValues returns the map's values ordered by key.
func SortedValues[V any](m map[string]V) []V {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
