package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/lonelog/internal/model"
)

// memSource is an in-memory Source.
type memSource struct {
	mu    sync.Mutex
	files map[string]string
	fail  map[string]error

	// listGate, when set, blocks List until closed; listStarted is closed
	// when List is entered.
	listGate    chan struct{}
	listStarted chan struct{}
}

func newMemSource(files map[string]string) *memSource {
	return &memSource{files: files, fail: map[string]error{}}
}

func (m *memSource) ReadText(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[path]; err != nil {
		return "", err
	}
	text, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("%s: file does not exist", path)
	}
	return text, nil
}

func (m *memSource) List(_ context.Context) ([]string, error) {
	if m.listStarted != nil {
		close(m.listStarted)
	}
	if m.listGate != nil {
		<-m.listGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *memSource) set(path, text string) {
	m.mu.Lock()
	m.files[path] = text
	m.mu.Unlock()
}

func (m *memSource) remove(path string) {
	m.mu.Lock()
	delete(m.files, path)
	m.mu.Unlock()
}

// recordingSink records Put and Delete calls.
type recordingSink struct {
	puts    []string
	deletes []string
}

func (r *recordingSink) Put(c *model.Campaign, _ int64) error {
	r.puts = append(r.puts, c.File)
	return nil
}

func (r *recordingSink) Delete(path string) error {
	r.deletes = append(r.deletes, path)
	return nil
}

const harborLog = "---\ntitle: Harbor\n---\n" +
	"## Session 1\n*Date: 2024-01-01*\n" +
	"### S1 *Docks*\n```\n" +
	"> Meet [N:Guard|hostile] at [L:Pier|wet]\n" +
	"=> [Thread:Smuggler|Open] [Clock:Alarm 2/6]\n" +
	"(note: remember the tide)\n" +
	"tbl: d66=34 => a gull [N:Mira]\n" +
	"gen: Name Generator => Old Pete\n" +
	"```\n"

const forestLog = "---\nruleset: Mythic\nlast_update: 2024-03-04\n---\n" +
	"## Session 2\n### S1\n```\n" +
	"> [N:Guard|tired] sleeps\n" +
	"=> [Thread:Lost Cub|Closed] [Thread:Smuggler|open] [Timer:Dawn 2]\n" +
	"(reflection: felt tense)\n" +
	"```\n"

const notesDoc = "---\ntags: [misc]\n---\n## Session 1\n### S1\n```\n> [N:Nobody]\n```\n"

func newTestIndex(t *testing.T, files map[string]string) (*Index, *memSource) {
	t.Helper()
	src := newMemSource(files)
	return New(src, DefaultOptions()), src
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"title key", "---\ntitle: X\n---\n", true},
		{"ruleset key uppercase", "---\nRuleset: Ironsworn\n---\n", true},
		{"campaign key", "---\ncampaign: A\n---\n", true},
		{"genre key", "---\ngenre: noir\n---\n", true},
		{"key inside value still counts", "---\nnotes: \"genre: none\"\n---\n", true},
		{"other keys only", "---\ntags: [x]\nauthor: me\n---\n", false},
		{"no frontmatter", "title: X\n", false},
		{"unclosed frontmatter", "---\ntitle: X\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndexAll(t *testing.T) {
	ix, _ := newTestIndex(t, map[string]string{
		"harbor.md": harborLog,
		"forest.md": forestLog,
		"notes.md":  notesDoc,
	})

	res, ran := ix.IndexAll(context.Background())
	if !ran {
		t.Fatal("IndexAll should run")
	}
	if res.Listed != 3 || res.Indexed != 2 || res.Skipped != 1 || len(res.Failed) != 0 {
		t.Errorf("scan result = %+v", res)
	}
	if diff := cmp.Diff([]string{"forest.md", "harbor.md"}, ix.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if ix.IsCampaignFile(context.Background(), "notes.md") {
		t.Error("notes.md should not be a campaign")
	}
}

func TestIndexAllIsolatesFailures(t *testing.T) {
	ix, src := newTestIndex(t, map[string]string{
		"harbor.md": harborLog,
		"broken.md": harborLog,
	})
	src.fail["broken.md"] = errors.New("permission denied")

	res, _ := ix.IndexAll(context.Background())
	if res.Indexed != 1 || len(res.Failed) != 1 || res.Failed[0].Path != "broken.md" {
		t.Errorf("scan result = %+v", res)
	}
	if !ix.Has("harbor.md") {
		t.Error("healthy document should be indexed")
	}
}

func TestIndexAllDropsConcurrentScan(t *testing.T) {
	src := newMemSource(map[string]string{"harbor.md": harborLog})
	src.listGate = make(chan struct{})
	src.listStarted = make(chan struct{})
	ix := New(src, DefaultOptions())

	done := make(chan bool)
	go func() {
		_, ran := ix.IndexAll(context.Background())
		done <- ran
	}()

	<-src.listStarted
	if !ix.Scanning() {
		t.Error("Scanning should report the running scan")
	}
	if _, ran := ix.IndexAll(context.Background()); ran {
		t.Error("second scan should be dropped")
	}

	close(src.listGate)
	if ran := <-done; !ran {
		t.Error("first scan should have run")
	}
	if ix.Scanning() {
		t.Error("guard should be released")
	}
	if !ix.Has("harbor.md") {
		t.Error("first scan should have indexed harbor.md")
	}
}

func TestIndexAllHonorsCancellation(t *testing.T) {
	ix, _ := newTestIndex(t, map[string]string{"harbor.md": harborLog})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, ran := ix.IndexAll(ctx)
	if !ran || res.Indexed != 0 {
		t.Errorf("cancelled scan = %+v, ran %v", res, ran)
	}
}

func TestIndexOneKeepsPreviousEntryOnFailure(t *testing.T) {
	ix, src := newTestIndex(t, map[string]string{"harbor.md": harborLog})
	ctx := context.Background()

	if err := ix.IndexOne(ctx, "harbor.md"); err != nil {
		t.Fatalf("IndexOne: %v", err)
	}
	before, _ := ix.Campaign("harbor.md")

	src.fail["harbor.md"] = errors.New("disk on fire")
	if err := ix.IndexOne(ctx, "harbor.md"); err == nil {
		t.Fatal("expected read error")
	}

	after, err := ix.Campaign("harbor.md")
	if err != nil {
		t.Fatalf("entry vanished: %v", err)
	}
	if before != after {
		t.Error("failed IndexOne replaced the previous entry")
	}
}

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	src := newMemSource(map[string]string{"harbor.md": harborLog})
	ix := New(src, Options{Sink: sink, ParseOnSave: true})

	if err := ix.HandleEvent(ctx, Event{Kind: Created, Path: "harbor.md"}); err != nil {
		t.Fatal(err)
	}
	if !ix.Has("harbor.md") {
		t.Fatal("created campaign should be indexed")
	}

	src.set("harbor.md", harborLog+"\n```\n```\n")
	if err := ix.HandleEvent(ctx, Event{Kind: Modified, Path: "harbor.md"}); err != nil {
		t.Fatal(err)
	}

	src.set("moved.md", harborLog)
	src.remove("harbor.md")
	if err := ix.HandleEvent(ctx, Event{Kind: Renamed, Path: "moved.md", OldPath: "harbor.md"}); err != nil {
		t.Fatal(err)
	}
	if ix.Has("harbor.md") || !ix.Has("moved.md") {
		t.Errorf("rename not applied: paths = %v", ix.Paths())
	}

	src.set("moved.md", notesDoc)
	if err := ix.HandleEvent(ctx, Event{Kind: Modified, Path: "moved.md"}); err != nil {
		t.Fatal(err)
	}
	if ix.Has("moved.md") {
		t.Error("document that lost its campaign frontmatter should be removed")
	}

	src.set("moved.md", harborLog)
	_ = ix.HandleEvent(ctx, Event{Kind: Created, Path: "moved.md"})
	if err := ix.HandleEvent(ctx, Event{Kind: Deleted, Path: "moved.md"}); err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 0 {
		t.Errorf("index should be empty, has %d", ix.Len())
	}

	wantPuts := []string{"harbor.md", "harbor.md", "moved.md", "moved.md"}
	if diff := cmp.Diff(wantPuts, sink.puts); diff != "" {
		t.Errorf("sink puts mismatch (-want +got):\n%s", diff)
	}
	wantDeletes := []string{"harbor.md", "moved.md", "moved.md"}
	if diff := cmp.Diff(wantDeletes, sink.deletes); diff != "" {
		t.Errorf("sink deletes mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleEventParseOnSaveDisabled(t *testing.T) {
	ctx := context.Background()
	src := newMemSource(map[string]string{"harbor.md": harborLog})
	ix := New(src, Options{})

	if err := ix.HandleEvent(ctx, Event{Kind: Modified, Path: "harbor.md"}); err != nil {
		t.Fatal(err)
	}
	if ix.Has("harbor.md") {
		t.Error("modified event should be ignored when parse on save is off")
	}
	if err := ix.HandleEvent(ctx, Event{Kind: Created, Path: "harbor.md"}); err != nil {
		t.Fatal(err)
	}
	if !ix.Has("harbor.md") {
		t.Error("created event should still index")
	}
}

func TestIndexStaleSkipsFreshAndDropsVanished(t *testing.T) {
	ctx := context.Background()
	ix, _ := newTestIndex(t, map[string]string{"harbor.md": harborLog})

	cached := model.NewCampaign("harbor.md")
	cached.Title = "From Cache"
	ix.Load(cached)
	ix.Load(model.NewCampaign("gone.md"))

	res, _ := ix.IndexStale(ctx, func(string) bool { return false })
	if res.Skipped != 1 || res.Indexed != 0 {
		t.Errorf("scan result = %+v", res)
	}
	c, _ := ix.Campaign("harbor.md")
	if c.Title != "From Cache" {
		t.Error("fresh cached campaign should not be re-parsed")
	}
	if ix.Has("gone.md") {
		t.Error("campaign whose file vanished should be removed")
	}

	ix.IndexStale(ctx, func(string) bool { return true })
	c, _ = ix.Campaign("harbor.md")
	if c.Title != "Harbor" {
		t.Errorf("stale campaign should be re-parsed, title = %q", c.Title)
	}
}
