package index

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/lonelog/internal/model"
)

func indexedFixture(t *testing.T) *Index {
	t.Helper()
	ix, _ := newTestIndex(t, map[string]string{
		"harbor.md": harborLog,
		"forest.md": forestLog,
	})
	if _, ran := ix.IndexAll(context.Background()); !ran {
		t.Fatal("scan did not run")
	}
	return ix
}

func TestEntityListings(t *testing.T) {
	ix := indexedFixture(t)

	var npcs []string
	for _, n := range ix.NPCs() {
		npcs = append(npcs, n.ID+"@"+n.FirstMention.File)
	}
	want := []string{"npc:guard@forest.md", "npc:guard@harbor.md", "npc:mira@harbor.md"}
	if diff := cmp.Diff(want, npcs); diff != "" {
		t.Errorf("NPCs mismatch (-want +got):\n%s", diff)
	}

	if got := len(ix.Locations()); got != 1 {
		t.Errorf("locations = %d, want 1", got)
	}
	if got := len(ix.Threads()); got != 3 {
		t.Errorf("threads = %d, want 3", got)
	}
	if got := len(ix.ActiveThreads()); got != 2 {
		t.Errorf("active threads = %d, want 2", got)
	}

	trackers := ix.Trackers()
	if len(trackers) != 2 || trackers[0].Kind != model.KindClock || trackers[1].Kind != model.KindTimer {
		t.Errorf("trackers = %+v", trackers)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	ix := indexedFixture(t)

	lower := ix.Search("guard")
	upper := ix.Search("GUARD")
	if diff := cmp.Diff(lower, upper); diff != "" {
		t.Errorf("search results differ by case (-lower +upper):\n%s", diff)
	}
	if lower.Total != 2 || len(lower.NPCs) != 2 {
		t.Errorf("Search(guard) = %+v", lower)
	}

	tests := []struct {
		query string
		total int
	}{
		{"hostile", 1},
		{"open", 2},
		{"closed", 1},
		{"alarm", 1},
		{"wet", 1},
		{"nothing matches", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := ix.Search(tt.query).Total; got != tt.total {
				t.Errorf("Search(%q).Total = %d, want %d", tt.query, got, tt.total)
			}
		})
	}
}

func TestStats(t *testing.T) {
	ix := indexedFixture(t)

	got, ok := ix.Stats("forest.md")
	if !ok {
		t.Fatal("forest.md should have stats")
	}
	want := &CampaignStats{
		Title:         model.DefaultTitle,
		Sessions:      1,
		Scenes:        1,
		ActiveThreads: 1,
		ClosedThreads: 1,
		NPCs:          1,
		Locations:     0,
		Trackers:      1,
		LastUpdated:   "2024-03-04",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	if _, ok := ix.Stats("missing.md"); ok {
		t.Error("unknown path should report ok=false")
	}
}

func TestElements(t *testing.T) {
	ix := indexedFixture(t)

	t.Run("trackers sorted by name", func(t *testing.T) {
		got := ix.Elements(ElementFilter{Types: []string{TypeClock, TypeTimer}})
		if len(got) != 2 {
			t.Fatalf("got %d elements", len(got))
		}
		if got[0].Name != "Alarm" || got[0].Progress != "2/6 (33%)" {
			t.Errorf("first = %+v", got[0])
		}
		if got[1].Name != "Dawn" || got[1].Progress != "2" {
			t.Errorf("second = %+v", got[1])
		}
	})

	t.Run("campaign filter", func(t *testing.T) {
		got := ix.Elements(ElementFilter{Campaign: "Harbor"})
		if len(got) != 5 {
			t.Errorf("Harbor elements = %d, want 5", len(got))
		}
	})

	t.Run("query matches tags", func(t *testing.T) {
		got := ix.Elements(ElementFilter{Query: "WET"})
		if len(got) != 1 || got[0].Type != TypeLocation {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("descending name", func(t *testing.T) {
		got := ix.Elements(ElementFilter{Types: []string{TypeNPC}, Desc: true})
		if len(got) != 3 || got[0].Name != "Mira" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("last seen label", func(t *testing.T) {
		got := ix.Elements(ElementFilter{Types: []string{TypeThread}, Campaign: "Harbor"})
		if len(got) != 1 || got[0].LastSeen != "Session 1, Scene S1" || got[0].Progress != "Open" {
			t.Errorf("got %+v", got)
		}
	})
}

func TestMetaNotes(t *testing.T) {
	ix := indexedFixture(t)

	all := ix.MetaNotes("", "")
	if len(all) != 2 {
		t.Fatalf("meta notes = %d, want 2", len(all))
	}
	if all[0].Note.Category != model.MetaReflection || all[1].Campaign != "Harbor" {
		t.Errorf("unexpected order: %+v", all)
	}

	if got := ix.MetaNotes(model.MetaNote, ""); len(got) != 1 {
		t.Errorf("category filter = %d, want 1", len(got))
	}
	if got := ix.MetaNotes("", "TIDE"); len(got) != 1 || got[0].Location.Line == 0 {
		t.Errorf("content search = %+v", got)
	}
}

func TestRandomEvents(t *testing.T) {
	ix := indexedFixture(t)

	if got := ix.RandomEvents("", ""); len(got) != 2 {
		t.Fatalf("random events = %d, want 2", len(got))
	}

	gens := ix.RandomEvents(model.RandomGenerator, "")
	if len(gens) != 1 || gens[0].Source() != "Name Generator" || gens[0].Element.Result != "Old Pete" {
		t.Errorf("generators = %+v", gens)
	}

	if got := ix.RandomEvents("", "d66"); len(got) != 1 || got[0].Kind != model.RandomTable {
		t.Errorf("roll search = %+v", got)
	}
}

func TestReferencesAndFind(t *testing.T) {
	ix, _ := newTestIndex(t, map[string]string{
		"Logs/Iron Vow.md": "---\ntitle: Iron Vow\n---\n## Session 1\n### S1\n```\n> ask [#N:Kate] about [#L:Mill]\n```\n",
	})
	ix.IndexAll(context.Background())

	refs := ix.References()
	if len(refs) != 2 || refs[0].ID != "location:mill" || refs[1].ID != "npc:kate" {
		t.Errorf("references = %+v", refs)
	}
	if len(ix.NPCs()) != 1 {
		t.Error("reference should synthesize an NPC stub")
	}

	for _, ref := range []string{"Logs/Iron Vow.md", "iron-vow", "logs/iron-vow", "iron vow"} {
		c, err := ix.Find(ref)
		if err != nil {
			t.Errorf("Find(%q): %v", ref, err)
			continue
		}
		if c.File != "Logs/Iron Vow.md" {
			t.Errorf("Find(%q) = %s", ref, c.File)
		}
	}

	if _, err := ix.Find("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(nope) err = %v, want ErrNotFound", err)
	}
}

func TestParseFilters(t *testing.T) {
	if typ, err := ParseType("pcs"); err != nil || typ != TypePC {
		t.Errorf("ParseType(pcs) = %q, %v", typ, err)
	}
	if _, err := ParseType("dragon"); err == nil {
		t.Error("unknown type should fail")
	}
	if k, err := ParseSortKey("last-seen"); err != nil || k != SortLastSeen {
		t.Errorf("ParseSortKey = %q, %v", k, err)
	}
	if c, err := ParseMetaCategory("House Rule"); err != nil || c != model.MetaHouseRule {
		t.Errorf("ParseMetaCategory = %q, %v", c, err)
	}
	if k, err := ParseRandomEventKind("tables"); err != nil || k != model.RandomTable {
		t.Errorf("ParseRandomEventKind = %q, %v", k, err)
	}
}
