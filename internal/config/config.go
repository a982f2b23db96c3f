package config

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/layout"
)

// Rule defines behavior for windows whose class or instance name
// contains Class as a substring.
type Rule struct {
	Class    string `yaml:"class"`
	Desktop  int    `yaml:"desktop"`  // -1 = stay on the current desktop
	Follow   bool   `yaml:"follow"`   // switch to the target desktop
	Floating bool   `yaml:"floating"` // spawn floating
}

// UnmarshalYAML defaults Desktop to -1, so a rule that only floats or
// follows does not relocate matching windows to desktop 0.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	type plain Rule
	p := plain{Desktop: -1}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = Rule(p)
	return nil
}

// Config is the effective stackwm configuration.
type Config struct {
	Desktops       int     `yaml:"desktops"`
	DefaultDesktop int     `yaml:"default_desktop"`
	DefaultMonitor int     `yaml:"default_monitor"`
	DefaultMode    string  `yaml:"default_mode"`
	MasterFraction float64 `yaml:"master_fraction"`
	BorderWidth    int     `yaml:"border_width"`
	FocusColor     string  `yaml:"focus_color"`
	UnfocusColor   string  `yaml:"unfocus_color"`
	MinWindowSize  int     `yaml:"min_window_size"`

	PanelHeight int   `yaml:"panel_height"`
	TopPanel    *bool `yaml:"top_panel,omitempty"`
	ShowPanel   *bool `yaml:"show_panel,omitempty"`

	AttachAside  *bool `yaml:"attach_aside,omitempty"`   // new clients go to the end of the list
	FollowMouse  *bool `yaml:"follow_mouse,omitempty"`   // focus follows pointer
	ClickToFocus *bool `yaml:"click_to_focus,omitempty"` // button 1 focuses
	FollowWindow bool  `yaml:"follow_window"`            // jump with a moved client

	// MonocleUnmapInactive hides non-focused monocle windows instead of
	// relying on stacking order.
	MonocleUnmapInactive bool `yaml:"monocle_unmap_inactive"`
	// UrgentScanAllDesktops widens focus-urgent from the selected
	// desktop of each monitor to every desktop.
	UrgentScanAllDesktops bool `yaml:"urgent_scan_all_desktops"`

	// APIListen enables the HTTP/WebSocket control API when non-empty,
	// e.g. "127.0.0.1:7512".
	APIListen string `yaml:"api_listen"`
	LogLevel  string `yaml:"log_level"`

	Rules   []Rule            `yaml:"rules,omitempty"`
	Keys    map[string]string `yaml:"keys,omitempty"`
	Buttons map[string]string `yaml:"buttons,omitempty"`
}

// GetTopPanel returns the effective value, defaulting to true.
func (c *Config) GetTopPanel() bool { return boolOr(c.TopPanel, true) }

// GetShowPanel returns the effective value, defaulting to true.
func (c *Config) GetShowPanel() bool { return boolOr(c.ShowPanel, true) }

// GetAttachAside returns the effective value, defaulting to true.
func (c *Config) GetAttachAside() bool { return boolOr(c.AttachAside, true) }

// GetFollowMouse returns the effective value, defaulting to true.
func (c *Config) GetFollowMouse() bool { return boolOr(c.FollowMouse, true) }

// GetClickToFocus returns the effective value, defaulting to true.
func (c *Config) GetClickToFocus() bool { return boolOr(c.ClickToFocus, true) }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Mode returns the parsed default layout mode. Validate guarantees it
// parses, so callers after Validate may ignore the error.
func (c *Config) Mode() (layout.Mode, error) {
	return layout.ParseMode(c.DefaultMode)
}

// Default returns the built-in configuration, matching the original
// monsterwm config.h values where one exists.
func Default() *Config {
	return &Config{
		Desktops:       4,
		DefaultDesktop: 0,
		DefaultMonitor: 0,
		DefaultMode:    "tile",
		MasterFraction: 0.52,
		BorderWidth:    2,
		FocusColor:     "#ff950e",
		UnfocusColor:   "#444444",
		MinWindowSize:  50,
		PanelHeight:    18,
		LogLevel:       "info",
		Keys:           DefaultKeys(),
		Buttons:        DefaultButtons(),
	}
}

// DefaultKeys is the built-in key map. Sequences follow the
// xgbutil/keybind grammar (e.g. "mod4-shift-q").
func DefaultKeys() map[string]string {
	return map[string]string{
		"mod4-j":       "focus-next",
		"mod4-k":       "focus-prev",
		"mod4-shift-j": "move-down",
		"mod4-shift-k": "move-up",
		"mod4-Return":  "swap-master",
		"mod4-u":       "focus-urgent",

		"mod4-h": "resize-master -10",
		"mod4-l": "resize-master 10",
		"mod4-o": "resize-stack -10",
		"mod4-p": "resize-stack 10",

		"mod4-t": "switch-mode tile",
		"mod4-m": "switch-mode monocle",
		"mod4-b": "switch-mode bstack",
		"mod4-g": "switch-mode grid",

		"mod4-Tab":         "last-desktop",
		"mod4-Right":       "rotate-desktop 1",
		"mod4-Left":        "rotate-desktop -1",
		"mod4-shift-Right": "rotate-filled 1",
		"mod4-shift-Left":  "rotate-filled -1",
		"mod4-comma":       "rotate-monitor -1",
		"mod4-period":      "rotate-monitor 1",

		"mod4-1":       "change-desktop 0",
		"mod4-2":       "change-desktop 1",
		"mod4-3":       "change-desktop 2",
		"mod4-4":       "change-desktop 3",
		"mod4-shift-1": "send-to-desktop 0",
		"mod4-shift-2": "send-to-desktop 1",
		"mod4-shift-3": "send-to-desktop 2",
		"mod4-shift-4": "send-to-desktop 3",

		"mod4-s":            "toggle-panel",
		"mod4-shift-c":      "kill-client",
		"mod4-shift-q":      "quit 0",
		"mod4-shift-Return": "spawn xterm",
	}
}

// DefaultButtons is the built-in pointer map.
func DefaultButtons() map[string]string {
	return map[string]string{
		"mod4-1": "mouse-move",
		"mod4-3": "mouse-resize",
	}
}

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ApplyDefaults fills zero-valued fields from Default.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Desktops == 0 {
		c.Desktops = def.Desktops
	}
	if c.DefaultMode == "" {
		c.DefaultMode = def.DefaultMode
	}
	if c.MasterFraction == 0 {
		c.MasterFraction = def.MasterFraction
	}
	if c.BorderWidth == 0 {
		c.BorderWidth = def.BorderWidth
	}
	if c.FocusColor == "" {
		c.FocusColor = def.FocusColor
	}
	if c.UnfocusColor == "" {
		c.UnfocusColor = def.UnfocusColor
	}
	if c.MinWindowSize == 0 {
		c.MinWindowSize = def.MinWindowSize
	}
	if c.PanelHeight == 0 {
		c.PanelHeight = def.PanelHeight
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Keys == nil {
		c.Keys = DefaultKeys()
	}
	if c.Buttons == nil {
		c.Buttons = DefaultButtons()
	}
}

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	if c.Desktops < 1 {
		return fmt.Errorf("desktops must be at least 1, got %d", c.Desktops)
	}
	if c.DefaultDesktop < 0 || c.DefaultDesktop >= c.Desktops {
		return fmt.Errorf("default_desktop %d out of range [0,%d)", c.DefaultDesktop, c.Desktops)
	}
	if c.DefaultMonitor < 0 {
		return fmt.Errorf("default_monitor must not be negative, got %d", c.DefaultMonitor)
	}
	if _, err := layout.ParseMode(c.DefaultMode); err != nil {
		return fmt.Errorf("default_mode: %w", err)
	}
	if c.MasterFraction <= 0 || c.MasterFraction >= 1 {
		return fmt.Errorf("master_fraction must be in (0,1), got %v", c.MasterFraction)
	}
	if c.BorderWidth < 0 {
		return fmt.Errorf("border_width must not be negative, got %d", c.BorderWidth)
	}
	if !colorRe.MatchString(c.FocusColor) {
		return fmt.Errorf("focus_color %q is not a #rrggbb color", c.FocusColor)
	}
	if !colorRe.MatchString(c.UnfocusColor) {
		return fmt.Errorf("unfocus_color %q is not a #rrggbb color", c.UnfocusColor)
	}
	if c.PanelHeight < 0 {
		return fmt.Errorf("panel_height must not be negative, got %d", c.PanelHeight)
	}
	for i, r := range c.Rules {
		if strings.TrimSpace(r.Class) == "" {
			return fmt.Errorf("rules[%d]: class must not be empty", i)
		}
		if r.Desktop < -1 || r.Desktop >= c.Desktops {
			return fmt.Errorf("rules[%d]: desktop %d out of range", i, r.Desktop)
		}
	}
	return nil
}
