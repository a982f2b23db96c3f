package config

import (
	"testing"

	"github.com/1broseidon/stackwm/internal/layout"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	mode, err := cfg.Mode()
	if err != nil {
		t.Fatalf("default mode: %v", err)
	}
	if mode != layout.Tile {
		t.Fatalf("default mode = %v, want tile", mode)
	}
}

func TestParseOverridesAndDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
desktops: 6
default_mode: bstack
attach_aside: false
rules:
  - class: MPlayer
    desktop: 3
    follow: true
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Desktops != 6 {
		t.Fatalf("desktops = %d", cfg.Desktops)
	}
	if cfg.DefaultMode != "bstack" {
		t.Fatalf("default_mode = %q", cfg.DefaultMode)
	}
	if cfg.GetAttachAside() {
		t.Fatal("attach_aside should be false")
	}
	// untouched fields come from the defaults
	if cfg.GetFollowMouse() != true {
		t.Fatal("follow_mouse should default to true")
	}
	if cfg.BorderWidth != 2 {
		t.Fatalf("border_width = %d", cfg.BorderWidth)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Desktop != 3 || !cfg.Rules[0].Follow {
		t.Fatalf("rules = %+v", cfg.Rules)
	}
	if len(cfg.Keys) == 0 {
		t.Fatal("keys should default to the built-in map")
	}
}

func TestRuleWithoutDesktopStaysPut(t *testing.T) {
	cfg, err := Parse([]byte("rules:\n  - class: Gimp\n    floating: true\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cfg.Rules) != 1 {
		t.Fatalf("rules = %+v", cfg.Rules)
	}
	if cfg.Rules[0].Desktop != -1 {
		t.Fatalf("desktop = %d, want -1 (stay on the current desktop)", cfg.Rules[0].Desktop)
	}
	if !cfg.Rules[0].Floating {
		t.Fatal("floating should be true")
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for name, doc := range map[string]string{
		"bad mode":     "default_mode: spiral",
		"bad color":    `focus_color: "red"`,
		"bad fraction": "master_fraction: 1.5",
		"bad desktop":  "default_desktop: 9",
		"empty rule":   "rules:\n  - class: \"\"",
		"rule desktop": "rules:\n  - class: a\n    desktop: 99",
	} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
