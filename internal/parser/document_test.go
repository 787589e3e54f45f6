package parser

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/lonelog/internal/model"
)

const gateScene = `---
title: Gate Test
ruleset: Ironsworn
---

# Ignored Heading

## Session 1
*Date: 2024-01-01 | Duration: 2h*

### S1 *The gate*

` + "```" + `
> I approach the gate
d: 2d6 => 7, weak hit
=> The guard notices me
[N:Guard|hostile]
[Clock:Alarm 2/6]
` + "```" + `
`

func TestParseCampaignGateScene(t *testing.T) {
	c := ParseCampaign(gateScene, "gate.md")

	if c.Title != "Gate Test" {
		t.Errorf("title = %q", c.Title)
	}
	if len(c.Sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(c.Sessions))
	}
	sess := c.Sessions[0]
	if sess.Number != 1 || sess.Date != "2024-01-01" || sess.Duration != "2h" {
		t.Errorf("session = %+v", sess)
	}
	if sess.StartLine != 8 {
		t.Errorf("session start = %d, want 8", sess.StartLine)
	}
	if len(sess.Scenes) != 1 {
		t.Fatalf("scenes = %d, want 1", len(sess.Scenes))
	}
	scene := sess.Scenes[0]
	if scene.Number != "S1" || scene.Context != "The gate" {
		t.Errorf("scene = %q / %q", scene.Number, scene.Context)
	}

	var kinds []model.ElementKind
	for _, el := range scene.Elements {
		kinds = append(kinds, el.Kind)
	}
	wantKinds := []model.ElementKind{
		model.ElementAction,
		model.ElementMechanicsRoll,
		model.ElementConsequence,
		model.ElementText,
		model.ElementText,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("element kinds mismatch (-want +got):\n%s", diff)
	}

	roll := scene.Elements[1]
	if roll.Roll != "2d6" || roll.Outcome != "7, weak hit" || roll.Success != nil {
		t.Errorf("roll = %+v", roll)
	}
	if roll.Line != 15 {
		t.Errorf("roll line = %d, want 15", roll.Line)
	}

	guard := c.NPCs["npc:guard"]
	if guard == nil {
		t.Fatal("npc:guard missing")
	}
	if diff := cmp.Diff([]string{"hostile"}, guard.Tags); diff != "" {
		t.Errorf("guard tags mismatch (-want +got):\n%s", diff)
	}
	if len(guard.Mentions) != 1 {
		t.Errorf("guard mentions = %d, want 1", len(guard.Mentions))
	}
	wantLoc := model.Location{File: "gate.md", Line: 17, Session: "Session 1", Scene: "S1"}
	if diff := cmp.Diff(wantLoc, guard.FirstMention); diff != "" {
		t.Errorf("first mention mismatch (-want +got):\n%s", diff)
	}

	alarm := c.Clocks["clock:alarm"]
	if alarm == nil || alarm.Current != 2 || alarm.Total != 6 {
		t.Errorf("clock:alarm = %+v", alarm)
	}
}

func TestParseCampaignThreadStateChanges(t *testing.T) {
	content := "## Session 1\n### S1\n```\n[Thread:Rescue|Open]\n```\n" +
		"## Session 2\n### S1\n```\n=> Done [Thread:Rescue|Closed]\n```\n"
	c := ParseCampaign(content, "t.md")

	th := c.Threads["thread:rescue"]
	if th == nil {
		t.Fatal("thread missing")
	}
	if th.State != "Closed" || len(th.Mentions) != 2 {
		t.Errorf("thread = %+v", th)
	}
	if th.FirstMention.Session != "Session 1" {
		t.Errorf("first mention session = %q", th.FirstMention.Session)
	}
}

func TestParseCampaignTimerCountdown(t *testing.T) {
	content := "## Session 1\n### S1\n```\n[Timer:Fuse 5]\n> wait\n=> boom [Timer:Fuse 0]\n```\n"
	c := ParseCampaign(content, "t.md")

	fuse := c.Timers["timer:fuse"]
	if fuse == nil {
		t.Fatal("timer missing")
	}
	if fuse.Value != 0 || len(fuse.Locations) != 2 {
		t.Errorf("timer = %+v", fuse)
	}
}

func TestParseCampaignThreadWithoutState(t *testing.T) {
	content := "## Session 1\n### S1\n```\n[Thread:Rescue]\n```\n"
	c := ParseCampaign(content, "t.md")
	if len(c.Threads) != 0 {
		t.Errorf("threads = %d, want 0", len(c.Threads))
	}
}

func TestParseCampaignStructure(t *testing.T) {
	content := "# My Log\n\n```\n> before any session\n```\n" +
		"## Session 3\n*Recap: last time | Goals: escape | Mood: grim | Empty: *\n" +
		"### T1-S2 Flashback\nprose [N:Ignored]\n```\n> [N:Ada]\n```\n" +
		"### S2a\n```\n(note: rolled with advantage [N:Hidden])\n? Is [#N:Ada] here?\n-> Yes (d6=5)\n```\n" +
		"### S3\n```\n> never closed [N:Lost]\n" +
		"## session 4\n### S1\n### S1\n"
	c := ParseCampaign(content, "s.md")

	if c.Title != "My Log" {
		t.Errorf("title = %q", c.Title)
	}
	if len(c.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(c.Sessions))
	}

	s3 := c.Sessions[0]
	if s3.Number != 3 || s3.Recap != "last time" || s3.Goals != "escape" {
		t.Errorf("session 3 = %+v", s3)
	}
	wantMeta := map[string]string{"Recap": "last time", "Goals": "escape", "Mood": "grim"}
	if diff := cmp.Diff(wantMeta, s3.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if len(s3.Scenes) != 3 {
		t.Fatalf("session 3 scenes = %d, want 3", len(s3.Scenes))
	}
	if s3.Scenes[0].Number != "T1-S2" || s3.Scenes[0].Context != "Flashback" {
		t.Errorf("scene 0 = %q / %q", s3.Scenes[0].Number, s3.Scenes[0].Context)
	}
	if got := len(s3.Scenes[2].Elements); got != 0 {
		t.Errorf("unterminated block produced %d elements", got)
	}
	if s3.EndLine != s3.Scenes[2].EndLine {
		t.Errorf("last scene should end with its session: %d vs %d", s3.Scenes[2].EndLine, s3.EndLine)
	}

	s4 := c.Sessions[1]
	if s4.Number != 4 || len(s4.Scenes) != 2 {
		t.Errorf("session 4 = number %d, %d scenes", s4.Number, len(s4.Scenes))
	}

	var ids []string
	for id := range c.NPCs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if diff := cmp.Diff([]string{"npc:ada"}, ids); diff != "" {
		t.Errorf("npc ids mismatch (-want +got):\n%s", diff)
	}
	if got := len(c.NPCs["npc:ada"].Mentions); got != 2 {
		t.Errorf("ada mentions = %d, want declaration plus reference", got)
	}
	if _, ok := c.References["npc:ada"]; !ok {
		t.Error("reference to Ada missing")
	}

	note := s3.Scenes[1].Elements[0]
	if note.Kind != model.ElementMetaNote || note.Category != model.MetaNote {
		t.Errorf("meta note = %+v", note)
	}
}

func TestParseCampaignIdempotent(t *testing.T) {
	a := ParseCampaign(gateScene, "gate.md")
	b := ParseCampaign(gateScene, "gate.md")
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("parse is not deterministic (-first +second):\n%s", diff)
	}
}

func TestParseCampaignEmpty(t *testing.T) {
	c := ParseCampaign("", "empty.md")
	if c.Title != model.DefaultTitle {
		t.Errorf("title = %q", c.Title)
	}
	if len(c.Sessions) != 0 || len(c.NPCs) != 0 {
		t.Error("empty document should have no sessions or entities")
	}
}

func TestParseSessionMetadata(t *testing.T) {
	tests := []struct {
		name string
		line string
		want map[string]string
	}{
		{
			name: "date and duration",
			line: "*Date: 2024-01-01 | Duration: 2h*",
			want: map[string]string{"Date": "2024-01-01", "Duration": "2h"},
		},
		{
			name: "value keeps later colons",
			line: "*Time: 10:30 | Recap: Met Ada: the smith*",
			want: map[string]string{"Time": "10:30", "Recap": "Met Ada: the smith"},
		},
		{
			name: "empty key or value dropped",
			line: "*: orphan | Goals: | Mood: grim | no separator*",
			want: map[string]string{"Mood": "grim"},
		},
		{
			name: "not emphasized",
			line: "Date: 2024-01-01",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseSessionMetadata(tt.line)); diff != "" {
				t.Errorf("ParseSessionMetadata() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
