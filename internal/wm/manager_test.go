package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/layout"
)

func TestManageFocusesNewClient(t *testing.T) {
	m, f := newTestManager(testConfig())

	a := mapWin(m, 1)
	b := mapWin(m, 2)

	mon := m.ActiveMonitor()
	require.Equal(t, []*Client{a, b}, mon.Clients, "attach aside appends at the tail")
	assert.Equal(t, b, mon.Current)
	assert.Equal(t, a, mon.PrevFocus)
	assert.Equal(t, Window(2), f.focused)
	assert.Equal(t, Window(2), f.active)
}

func TestManageIgnoresDuplicateWindow(t *testing.T) {
	m, _ := newTestManager(testConfig())

	mapWin(m, 1)
	mapWin(m, 1)

	assert.Len(t, m.ActiveMonitor().Clients, 1)
}

func TestRemoveFallsBackToPrevFocusThenHeadThenNone(t *testing.T) {
	m, f := newTestManager(testConfig())

	a := mapWin(m, 1)
	b := mapWin(m, 2)
	c := mapWin(m, 3)
	mon := m.ActiveMonitor()
	require.Equal(t, c, mon.Current)
	require.Equal(t, b, mon.PrevFocus)

	m.Dispatch(DestroyNotify{Win: 3})
	assert.Equal(t, b, mon.Current, "focus falls back to previous-focus")
	assert.Equal(t, a, mon.PrevFocus)

	m.Dispatch(DestroyNotify{Win: 2})
	assert.Equal(t, a, mon.Current, "then to the list head")
	assert.Nil(t, mon.PrevFocus)

	m.Dispatch(DestroyNotify{Win: 1})
	assert.Nil(t, mon.Current)
	assert.Nil(t, mon.PrevFocus)
	assert.Positive(t, f.cleared, "active-window property is cleared on the last removal")
}

func TestRemoveUnmanagedWindowIsNoOp(t *testing.T) {
	m, _ := newTestManager(testConfig())
	mapWin(m, 1)

	m.Dispatch(DestroyNotify{Win: 99})
	m.Dispatch(UnmapNotify{Win: 99})

	assert.Len(t, m.ActiveMonitor().Clients, 1)
}

func TestFindByWindowAfterDesktopMove(t *testing.T) {
	m, _ := newTestManager(testConfig())
	mapWin(m, 1)
	b := mapWin(m, 2)

	m.SendToDesktop(1)

	c, mon, d := m.FindByWindow(2)
	require.NotNil(t, c)
	assert.Equal(t, b, c)
	assert.Equal(t, 0, mon.ID)
	assert.Equal(t, 1, d)
}

func TestTileGeometryThroughManager(t *testing.T) {
	m, f := newTestManager(testConfig())
	mapWin(m, 1)
	mapWin(m, 2)

	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 498, Height: 796}, f.rects[1])
	assert.Equal(t, layout.Rect{X: 500, Y: 0, Width: 496, Height: 796}, f.rects[2])
}

func TestSingleClientArrangedMonocle(t *testing.T) {
	m, f := newTestManager(testConfig())
	mapWin(m, 1)

	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 1000, Height: 800}, f.rects[1])
	assert.Equal(t, 0, f.borders[1], "single client carries no border")
}

func TestPanelSpaceReservedAndReclaimed(t *testing.T) {
	cfg := testConfig()
	cfg.ShowPanel = boolPtr(true)
	m, f := newTestManager(cfg)
	mapWin(m, 1)

	assert.Equal(t, layout.Rect{X: 0, Y: 18, Width: 1000, Height: 782}, f.rects[1],
		"top panel shifts and shrinks the usable area")

	m.TogglePanel()
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 1000, Height: 800}, f.rects[1])
}

func TestFullscreenCoversWholeMonitor(t *testing.T) {
	cfg := testConfig()
	cfg.ShowPanel = boolPtr(true)
	m, f := newTestManager(cfg)
	c := mapWin(m, 1)
	mapWin(m, 2)

	m.Dispatch(FullscreenRequest{Win: 1, Action: StateAdd})

	assert.True(t, c.Fullscreen)
	assert.True(t, f.hints[1])
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 1000, Height: 800}, f.rects[1],
		"fullscreen ignores the panel")
	assert.Equal(t, 0, f.borders[1])

	m.Dispatch(FullscreenRequest{Win: 1, Action: StateToggle})
	assert.False(t, c.Fullscreen)
	assert.False(t, f.hints[1])
}

func TestConfigureRequestOnFullscreenClientIsOverridden(t *testing.T) {
	m, f := newTestManager(testConfig())
	mapWin(m, 1)
	mapWin(m, 2)
	m.Dispatch(FullscreenRequest{Win: 1, Action: StateAdd})

	m.Dispatch(ConfigureRequest{Win: 1, X: 10, Y: 10, Width: 100, Height: 100})

	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 1000, Height: 800}, f.rects[1])
}

func TestConfigureRequestHonorsValueMask(t *testing.T) {
	m, f := newTestManager(testConfig())
	c := mapWin(m, 1)
	mapWin(m, 2)
	c.Floating = true

	m.Dispatch(ConfigureRequest{Win: 1, X: 400, Y: 300, Width: 200, Height: 150,
		MaskX: true, MaskY: true, MaskWidth: true, MaskHeight: true})
	require.Equal(t, layout.Rect{X: 400, Y: 300, Width: 200, Height: 150}, f.rects[1])

	m.Dispatch(ConfigureRequest{Win: 1, Width: 640, Height: 480,
		MaskWidth: true, MaskHeight: true})
	assert.Equal(t, layout.Rect{X: 400, Y: 300, Width: 640, Height: 480}, f.rects[1],
		"a size-only request keeps the window where it was")
}

func TestAppRulesPlaceAndFloat(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = []config.Rule{{Class: "Gimp", Desktop: 1, Floating: true}}
	m, _ := newTestManager(cfg)

	m.Dispatch(MapRequest{Win: 7, Class: "Gimp"})

	c, mon, d := m.FindByWindow(7)
	require.NotNil(t, c)
	assert.Equal(t, 1, d, "rule sends the client to its desktop")
	assert.True(t, c.Floating)
	assert.Equal(t, 0, mon.CurDesktop, "without follow the view stays put")
}

func TestAppRuleFollowSwitchesDesktop(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = []config.Rule{{Class: "mpv", Desktop: 1, Follow: true}}
	m, _ := newTestManager(cfg)

	m.Dispatch(MapRequest{Win: 7, Class: "mpv"})

	mon := m.ActiveMonitor()
	assert.Equal(t, 1, mon.CurDesktop)
	require.NotNil(t, mon.Current)
	assert.Equal(t, Window(7), mon.Current.Win)
}

func TestTransientMapsFloating(t *testing.T) {
	m, _ := newTestManager(testConfig())
	m.Dispatch(MapRequest{Win: 5, Transient: true})

	c, _, _ := m.FindByWindow(5)
	require.NotNil(t, c)
	assert.True(t, c.Floating)
	assert.True(t, c.fft())
}

func TestUrgencyHintIgnoredOnFocusedClient(t *testing.T) {
	m, _ := newTestManager(testConfig())
	a := mapWin(m, 1)
	b := mapWin(m, 2) // focused

	m.Dispatch(UrgencyChange{Win: 1, Urgent: true})
	m.Dispatch(UrgencyChange{Win: 2, Urgent: true})

	assert.True(t, a.Urgent)
	assert.False(t, b.Urgent, "the focused client never turns urgent")
}

func TestFocusUrgentOnSelectedDesktop(t *testing.T) {
	m, _ := newTestManager(testConfig())
	a := mapWin(m, 1)
	mapWin(m, 2)
	m.Dispatch(UrgencyChange{Win: 1, Urgent: true})

	m.FocusUrgent()

	mon := m.ActiveMonitor()
	assert.Equal(t, a, mon.Current)
	assert.False(t, a.Urgent, "focusing clears the hint")
}

func TestFocusUrgentAcrossDesktopsWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.UrgentScanAllDesktops = true
	m, _ := newTestManager(cfg)
	mapWin(m, 1)
	m.SendToDesktop(1) // park it on another desktop
	m.Dispatch(UrgencyChange{Win: 1, Urgent: true})

	m.FocusUrgent()

	mon := m.ActiveMonitor()
	assert.Equal(t, 1, mon.CurDesktop)
	require.NotNil(t, mon.Current)
	assert.Equal(t, Window(1), mon.Current.Win)
}

func TestEnterNotifyFollowsMouse(t *testing.T) {
	cfg := testConfig()
	cfg.FollowMouse = boolPtr(true)
	m, _ := newTestManager(cfg)
	a := mapWin(m, 1)
	mapWin(m, 2)

	m.Dispatch(EnterNotify{Win: 1})

	assert.Equal(t, a, m.ActiveMonitor().Current)
}

func TestClickToFocus(t *testing.T) {
	m, _ := newTestManager(testConfig())
	a := mapWin(m, 1)
	mapWin(m, 2)

	m.Dispatch(ButtonPress{Win: 1})

	assert.Equal(t, a, m.ActiveMonitor().Current)
}

func TestActivateRequestOnlyOnSelectedDesktop(t *testing.T) {
	m, _ := newTestManager(testConfig())
	mapWin(m, 1)
	m.SendToDesktop(1)
	b := mapWin(m, 2)

	m.Dispatch(ActivateRequest{Win: 1})

	assert.Equal(t, b, m.ActiveMonitor().Current, "hidden windows cannot steal focus")
}

func TestBorderColorsTrackFocus(t *testing.T) {
	m, f := newTestManager(testConfig())
	mapWin(m, 1)
	mapWin(m, 2)

	assert.Equal(t, BorderFocused, f.colors[2])
	assert.Equal(t, BorderUnfocused, f.colors[1])

	m.NextWin()
	assert.Equal(t, BorderFocused, f.colors[1])
	assert.Equal(t, BorderUnfocused, f.colors[2])
}

func TestMonocleTiledClientsHaveNoBorder(t *testing.T) {
	m, f := newTestManager(testConfig())
	mapWin(m, 1)
	mapWin(m, 2)

	m.SwitchMode(layout.Monocle)

	assert.Equal(t, 0, f.borders[1])
	assert.Equal(t, 0, f.borders[2])
}
