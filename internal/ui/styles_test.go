package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeAccentColor(t *testing.T) {
	type result struct {
		Color string
		OK    bool
	}
	tests := map[string]result{
		"":          {},
		"off":       {},
		"Default":   {},
		"0":         {Color: "0", OK: true},
		" 212 ":     {Color: "212", OK: true},
		"256":       {},
		"-3":        {},
		"#A78BFA":   {Color: "#a78bfa", OK: true},
		"#f0a":      {Color: "#ff00aa", OK: true},
		"#12345":    {},
		"#ggg":      {},
		"purple":    {},
		"#a78bfa00": {},
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			color, ok := normalizeAccentColor(input)
			if diff := cmp.Diff(want, result{Color: color, OK: ok}); diff != "" {
				t.Errorf("normalizeAccentColor(%q) mismatch (-want +got):\n%s", input, diff)
			}
		})
	}
}

func TestConfigureTheme(t *testing.T) {
	origAccent, origBold, origColor := Accent, AccentBold, accentColor
	t.Cleanup(func() {
		Accent, AccentBold, accentColor = origAccent, origBold, origColor
	})

	ConfigureTheme("#abc")
	if got, ok := AccentColor(); !ok || got != "#aabbcc" {
		t.Fatalf("AccentColor() = %q, %v; want #aabbcc, true", got, ok)
	}
	if fg := Accent.GetForeground(); fg != AccentBold.GetForeground() {
		t.Errorf("Accent and AccentBold foregrounds differ: %v vs %v", fg, AccentBold.GetForeground())
	}
	if !AccentBold.GetBold() {
		t.Errorf("AccentBold should be bold")
	}

	ConfigureTheme("bogus")
	if got, ok := AccentColor(); ok {
		t.Fatalf("AccentColor() = %q after invalid accent; want unset", got)
	}
	if !AccentBold.GetBold() {
		t.Errorf("AccentBold should stay bold after reset")
	}
}
