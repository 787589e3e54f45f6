package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/lonelog/internal/model"
)

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want model.Element
	}{
		{
			name: "action",
			line: "> I sneak past the guard",
			want: model.Element{Kind: model.ElementAction, Content: "I sneak past the guard"},
		},
		{
			name: "oracle question",
			line: "? Is the door locked?",
			want: model.Element{Kind: model.ElementOracleQuestion, Question: "Is the door locked?"},
		},
		{
			name: "oracle result with roll",
			line: "-> Yes, but (d6=2) it creaks",
			want: model.Element{Kind: model.ElementOracleResult, Answer: "Yes, but it creaks", Roll: "d6=2"},
		},
		{
			name: "oracle result without roll",
			line: "-> No",
			want: model.Element{Kind: model.ElementOracleResult, Answer: "No"},
		},
		{
			name: "consequence",
			line: "=> The alarm sounds",
			want: model.Element{Kind: model.ElementConsequence, Description: "The alarm sounds"},
		},
		{
			name: "table lookup",
			line: "tbl: d100=42 => [N:Merchant|greedy]",
			want: model.Element{Kind: model.ElementTableLookup, Roll: "d100=42", Result: "[N:Merchant|greedy]"},
		},
		{
			name: "generator without result",
			line: "gen: Mythic Event Focus",
			want: model.Element{Kind: model.ElementGenerator, System: "Mythic Event Focus"},
		},
		{
			name: "house rule meta note",
			line: "(House Rule: advantage on stealth)",
			want: model.Element{Kind: model.ElementMetaNote, Category: model.MetaHouseRule, Content: "advantage on stealth"},
		},
		{
			name: "reflection meta note",
			line: "(reflection:   this went well)",
			want: model.Element{Kind: model.ElementMetaNote, Category: model.MetaReflection, Content: "this went well"},
		},
		{
			name: "unknown parenthesized category is text",
			line: "(aside: not a category)",
			want: model.Element{Kind: model.ElementText, Content: "(aside: not a category)"},
		},
		{
			name: "bare tag is text",
			line: "  [Clock:Alarm 2/6]  ",
			want: model.Element{Kind: model.ElementText, Content: "[Clock:Alarm 2/6]"},
		},
		{
			name: "quote without space is text",
			line: ">no space",
			want: model.Element{Kind: model.ElementText, Content: ">no space"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TokenizeLine(tt.line)
			if !ok {
				t.Fatal("expected an element")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("element mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeLineBlank(t *testing.T) {
	if _, ok := TokenizeLine("   \t"); ok {
		t.Error("blank line should produce no element")
	}
}

func TestMechanicsRoll(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		line        string
		wantRoll    string
		wantOutcome string
		wantSuccess *bool
	}{
		{"d: 2d6=7 => 7, weak hit", "2d6=7", "7, weak hit", nil},
		{"d: Action 5 vs 3,8 => Strong hit", "Action 5 vs 3,8", "Strong hit", &yes},
		{"d: d20=18 => Success", "d20=18", "Success", &yes},
		{"d: d20=3 => fail", "d20=3", "fail", &no},
		{"d: 1d6 => Miss", "1d6", "Miss", &no},
		{"d: d6=4 => S", "d6=4", "S", &yes},
		{"d: d6=1 => 1 F", "d6=1", "1 F", &no},
		{"d: d6=4 => hit", "d6=4", "hit", &yes},
		{"d: 3d6", "3d6", "", nil},
		{"d: d100 => 55", "d100", "55", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, _ := TokenizeLine(tt.line)
			if got.Kind != model.ElementMechanicsRoll {
				t.Fatalf("kind = %q, want mechanics_roll", got.Kind)
			}
			if got.Roll != tt.wantRoll || got.Outcome != tt.wantOutcome {
				t.Errorf("roll/outcome = %q/%q, want %q/%q", got.Roll, got.Outcome, tt.wantRoll, tt.wantOutcome)
			}
			if diff := cmp.Diff(tt.wantSuccess, got.Success); diff != "" {
				t.Errorf("success mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeBlock(t *testing.T) {
	lines := []NumberedLine{
		{Line: 7, Text: "> Open the hatch"},
		{Line: 8, Text: ""},
		{Line: 9, Text: "=> It sticks"},
	}
	elements := TokenizeBlock(lines)
	if len(elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(elements))
	}
	if elements[0].Line != 7 || elements[1].Line != 9 {
		t.Errorf("lines = %d, %d; want 7, 9", elements[0].Line, elements[1].Line)
	}
}

func TestParseMetaCategory(t *testing.T) {
	tests := map[string]model.MetaCategory{
		"note":       model.MetaNote,
		"House Rule": model.MetaHouseRule,
		"REMINDER":   model.MetaReminder,
		"question":   model.MetaQuestion,
		"whatever":   model.MetaOther,
	}
	for label, want := range tests {
		if got := ParseMetaCategory(label); got != want {
			t.Errorf("ParseMetaCategory(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestFenceState(t *testing.T) {
	var fs FenceState
	lines := []string{"before", "```", "> inside", "```lonelog", "```", "after", "```", "dangling"}

	var blocks [][]NumberedLine
	for i, l := range lines {
		if block, ok := fs.Feed(l, i+1); ok {
			blocks = append(blocks, block)
		}
	}

	if len(blocks) != 1 {
		t.Fatalf("got %d closed blocks, want 1", len(blocks))
	}
	want := []NumberedLine{{Line: 3, Text: "> inside"}, {Line: 4, Text: "```lonelog"}}
	if diff := cmp.Diff(want, blocks[0]); diff != "" {
		t.Errorf("block mismatch (-want +got):\n%s", diff)
	}
	if !fs.InFence {
		t.Error("trailing fence should leave the state open")
	}
	fs.Reset()
	if fs.InFence || fs.Lines != nil {
		t.Error("Reset should discard the open block")
	}
}
