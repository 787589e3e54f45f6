package cli

import (
	"testing"

	"github.com/aidanlsb/lonelog/internal/model"
)

func TestEditorURL(t *testing.T) {
	const abs = "/home/kira/rpg/logs/iron-road.md"
	tests := []struct {
		name   string
		editor string
		line   int
		want   string
	}{
		{name: "cursor via open", editor: "open -a Cursor", line: 10, want: "cursor://file/home/kira/rpg/logs/iron-road.md:10:1"},
		{name: "vscode", editor: "code --wait", line: 5, want: "vscode://file/home/kira/rpg/logs/iron-road.md:5:1"},
		{name: "sublime", editor: "subl", line: 15, want: "subl://open?url=file:///home/kira/rpg/logs/iron-road.md&line=15"},
		{name: "zed", editor: "zed", line: 3, want: "zed://file/home/kira/rpg/logs/iron-road.md:3"},
		{name: "goland", editor: "goland", line: 25, want: "idea://open?file=/home/kira/rpg/logs/iron-road.md&line=25"},
		{name: "line clamps to 1", editor: "code", line: 0, want: "vscode://file/home/kira/rpg/logs/iron-road.md:1:1"},
		{name: "terminal editor", editor: "nvim", line: 8, want: "file:///home/kira/rpg/logs/iron-road.md"},
		{name: "no editor", editor: "", line: 8, want: "file:///home/kira/rpg/logs/iron-road.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editorURL(tt.editor, abs, tt.line); got != tt.want {
				t.Errorf("editorURL(%q) = %q, want %q", tt.editor, got, tt.want)
			}
		})
	}
}

func TestLinkLocation(t *testing.T) {
	prevLinks, prevRoot := linksEnabled, resolvedWorkspacePath
	t.Cleanup(func() {
		linksEnabled, resolvedWorkspacePath = prevLinks, prevRoot
	})
	resolvedWorkspacePath = "/rpg"
	loc := model.Location{File: "logs/a.md", Line: 12}

	off := false
	linksEnabled = &off
	if got := linkLocation(loc, "Session 2"); got != "Session 2" {
		t.Errorf("disabled links changed label: %q", got)
	}

	on := true
	linksEnabled = &on
	want := "\x1b]8;;file:///rpg/logs/a.md\x07Session 2\x1b]8;;\x07"
	prevCfg := cfg
	t.Cleanup(func() { cfg = prevCfg })
	t.Setenv("EDITOR", "")
	cfg = nil
	if got := linkLocation(loc, "Session 2"); got != want {
		t.Errorf("linkLocation() = %q, want %q", got, want)
	}
	if got := linkLocation(model.Location{}, "N/A"); got != "N/A" {
		t.Errorf("empty location linked: %q", got)
	}
}
