package progress

import (
	"strconv"

	"github.com/aidanlsb/lonelog/internal/model"
)

// HistoryEntry is one mention of a tracker and the value retained for it.
type HistoryEntry struct {
	Location model.Location `json:"location"`
	Value    int            `json:"value"`
}

// MergeClocks folds clock mentions into one entry per identity.
func MergeClocks(clocks []*model.Tracker) map[string]*model.Tracker { return merge(clocks) }

// MergeTracks folds track mentions into one entry per identity.
func MergeTracks(tracks []*model.Tracker) map[string]*model.Tracker { return merge(tracks) }

// MergeEvents folds event mentions into one entry per identity.
func MergeEvents(events []*model.Tracker) map[string]*model.Tracker { return merge(events) }

// MergeTimers folds timer mentions into one entry per identity.
func MergeTimers(timers []*model.Tracker) map[string]*model.Tracker { return merge(timers) }

// merge applies last-write-wins to the numeric state and appends locations.
// The name of the first mention is kept. Inputs are not modified.
func merge(mentions []*model.Tracker) map[string]*model.Tracker {
	merged := make(map[string]*model.Tracker, len(mentions))
	for _, m := range mentions {
		existing, ok := merged[m.ID]
		if !ok {
			cp := *m
			cp.Locations = append([]model.Location(nil), m.Locations...)
			merged[m.ID] = &cp
			continue
		}
		existing.Current = m.Current
		existing.Total = m.Total
		existing.Value = m.Value
		existing.Locations = append(existing.Locations, m.Locations...)
	}
	return merged
}

// History lists every location that mentioned a tracker. Only the latest
// value survives a merge, so each entry carries that retained value.
func History(t *model.Tracker) []HistoryEntry {
	value := t.Current
	if t.IsTimer() {
		value = t.Value
	}
	out := make([]HistoryEntry, 0, len(t.Locations))
	for _, loc := range t.Locations {
		out = append(out, HistoryEntry{Location: loc, Value: value})
	}
	return out
}

// Format renders a ranged tracker as "X/Y (Z%)" and a timer as its value.
func Format(t *model.Tracker) string {
	if t.IsTimer() {
		return strconv.Itoa(t.Value)
	}
	return FormatRange(t.Current, t.Total)
}

// FormatRange renders "X/Y (Z%)".
func FormatRange(current, total int) string {
	return strconv.Itoa(current) + "/" + strconv.Itoa(total) + " (" + strconv.Itoa(Percent(current, total)) + "%)"
}
