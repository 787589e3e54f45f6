package progress

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/lonelog/internal/model"
)

func mention(kind, name string, current, total, line int) *model.Tracker {
	return &model.Tracker{
		ID:        model.Identity(kind, name),
		Kind:      kind,
		Name:      name,
		Current:   current,
		Total:     total,
		Locations: []model.Location{{File: "log.md", Line: line}},
	}
}

func TestMergeClocksLastWriteWins(t *testing.T) {
	first := mention(model.KindClock, "Alarm", 2, 6, 10)
	second := mention(model.KindClock, "alarm", 4, 8, 20)

	merged := MergeClocks([]*model.Tracker{first, second})
	if len(merged) != 1 {
		t.Fatalf("expected 1 clock, got %d", len(merged))
	}

	got := merged["clock:alarm"]
	want := &model.Tracker{
		ID:      "clock:alarm",
		Kind:    model.KindClock,
		Name:    "Alarm",
		Current: 4,
		Total:   8,
		Locations: []model.Location{
			{File: "log.md", Line: 10},
			{File: "log.md", Line: 20},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged clock mismatch (-want +got):\n%s", diff)
	}

	if len(first.Locations) != 1 {
		t.Errorf("input mention was mutated: %d locations", len(first.Locations))
	}
}

func TestMergeTimers(t *testing.T) {
	fuse := func(v, line int) *model.Tracker {
		return &model.Tracker{
			ID:        "timer:fuse",
			Kind:      model.KindTimer,
			Name:      "Fuse",
			Value:     v,
			Locations: []model.Location{{File: "log.md", Line: line}},
		}
	}

	merged := MergeTimers([]*model.Tracker{fuse(5, 3), fuse(0, 9)})
	got := merged["timer:fuse"]
	if got.Value != 0 {
		t.Errorf("value = %d, want 0", got.Value)
	}
	if !IsTimerUrgent(got.Value) || !IsTimerExpired(got.Value) {
		t.Error("merged timer should be urgent and expired")
	}
	if len(got.Locations) != 2 {
		t.Errorf("locations = %d, want 2", len(got.Locations))
	}
}

func TestMergeMonotonicLocations(t *testing.T) {
	a := []*model.Tracker{
		mention(model.KindTrack, "Journey", 1, 10, 1),
		mention(model.KindTrack, "Journey", 2, 10, 2),
	}
	b := []*model.Tracker{
		mention(model.KindTrack, "Journey", 3, 10, 3),
	}

	merged := MergeTracks(append(append([]*model.Tracker{}, a...), b...))
	if got := len(merged["track:journey"].Locations); got != len(a)+len(b) {
		t.Errorf("locations = %d, want %d", got, len(a)+len(b))
	}
}

func TestHistoryAndFormat(t *testing.T) {
	merged := MergeEvents([]*model.Tracker{
		mention(model.KindEvent, "Storm", 1, 4, 5),
		mention(model.KindEvent, "Storm", 3, 4, 15),
	})
	ev := merged["event:storm"]

	history := History(ev)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	for _, h := range history {
		if h.Value != 3 {
			t.Errorf("history value = %d, want retained value 3", h.Value)
		}
	}

	if got := Format(ev); got != "3/4 (75%)" {
		t.Errorf("Format = %q", got)
	}
	if got := Format(&model.Tracker{Kind: model.KindTimer, Value: 4}); got != "4" {
		t.Errorf("timer Format = %q", got)
	}
}
