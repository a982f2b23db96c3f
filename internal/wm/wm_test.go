package wm

import (
	"strconv"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/layout"
)

// fakeSinks records every outbound call so tests can assert on the
// side effects the core emits.
type fakeSinks struct {
	rects   map[Window]layout.Rect
	borders map[Window]int
	colors  map[Window]BorderColor
	hints   map[Window]bool

	mapLog  []string // "map:<win>" / "unmap:<win>" in call order
	raised  []Window
	focused Window
	active  Window
	cleared int

	deleted []Window
	killed  []Window
	spawned [][]string
	status  []string
}

func newFakeSinks() *fakeSinks {
	return &fakeSinks{
		rects:   map[Window]layout.Rect{},
		borders: map[Window]int{},
		colors:  map[Window]BorderColor{},
		hints:   map[Window]bool{},
	}
}

func (f *fakeSinks) MoveResize(w Window, x, y, width, height int) {
	f.rects[w] = layout.Rect{X: x, Y: y, Width: width, Height: height}
}
func (f *fakeSinks) SetBorderWidth(w Window, px int)        { f.borders[w] = px }
func (f *fakeSinks) SetBorderColor(w Window, c BorderColor) { f.colors[w] = c }
func (f *fakeSinks) Raise(w Window)                         { f.raised = append(f.raised, w) }
func (f *fakeSinks) Map(w Window)                           { f.mapLog = append(f.mapLog, "map:"+itoa(w)) }
func (f *fakeSinks) Unmap(w Window)                         { f.mapLog = append(f.mapLog, "unmap:"+itoa(w)) }
func (f *fakeSinks) SetFullscreenHint(w Window, on bool)    { f.hints[w] = on }

func (f *fakeSinks) SetInputFocus(w Window)   { f.focused = w }
func (f *fakeSinks) SetActiveWindow(w Window) { f.active = w }
func (f *fakeSinks) ClearActiveWindow()       { f.cleared++ }

func (f *fakeSinks) Delete(w Window) { f.deleted = append(f.deleted, w) }
func (f *fakeSinks) Kill(w Window)   { f.killed = append(f.killed, w) }

func (f *fakeSinks) Spawn(argv []string) { f.spawned = append(f.spawned, argv) }

func (f *fakeSinks) Publish(line string) { f.status = append(f.status, line) }

func (f *fakeSinks) lastStatus() string {
	if len(f.status) == 0 {
		return ""
	}
	return f.status[len(f.status)-1]
}

func itoa(w Window) string { return strconv.FormatUint(uint64(w), 10) }

func boolPtr(b bool) *bool { return &b }

// testConfig is the baseline for manager tests: two desktops, no panel,
// 2px borders, master fraction 0.5 on a round screen size.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Desktops = 2
	cfg.MasterFraction = 0.5
	cfg.ShowPanel = boolPtr(false)
	cfg.FollowMouse = boolPtr(false)
	return cfg
}

func newTestManager(cfg *config.Config, screens ...Screen) (*Manager, *fakeSinks) {
	if len(screens) == 0 {
		screens = []Screen{{X: 0, Y: 0, W: 1000, H: 800}}
	}
	f := newFakeSinks()
	sinks := Sinks{Geometry: f, Focus: f, Closer: f, Spawner: f, Status: f}
	return New(cfg, screens, sinks, nil), f
}

func mapWin(m *Manager, w Window) *Client {
	m.Dispatch(MapRequest{Win: w})
	c, _, _ := m.FindByWindow(w)
	return c
}
