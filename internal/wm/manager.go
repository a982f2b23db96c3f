package wm

import (
	"log/slog"
	"strings"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/layout"
)

// Manager is the single-owner window manager state: every monitor,
// desktop and client, plus the active-monitor selection. It mutates
// state synchronously per event and emits side effects only through
// the configured Sinks. It is not safe for concurrent use; one
// goroutine (the event loop) must own it.
type Manager struct {
	cfg   *config.Config
	sinks Sinks
	log   *slog.Logger

	monitors    []*Monitor
	active      int
	prevMonitor int

	quitting bool
	exitCode int
}

// New creates a manager with one Monitor per screen. Every desktop
// starts empty with the configured default mode; the configured default
// monitor and desktop are selected.
func New(cfg *config.Config, screens []Screen, sinks Sinks, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	mode, _ := cfg.Mode()
	initial := DesktopState{Mode: mode, ShowPanel: cfg.GetShowPanel()}

	m := &Manager{cfg: cfg, sinks: sinks, log: logger}
	for i, scr := range screens {
		m.monitors = append(m.monitors, NewMonitor(i, scr, cfg.Desktops, initial, cfg.DefaultDesktop))
	}
	if cfg.DefaultMonitor >= 0 && cfg.DefaultMonitor < len(m.monitors) {
		m.active = cfg.DefaultMonitor
	}
	m.prevMonitor = m.active
	return m
}

// Monitors exposes the monitor set, selected desktops live.
func (m *Manager) Monitors() []*Monitor { return m.monitors }

// ActiveMonitor returns the monitor receiving commands.
func (m *Manager) ActiveMonitor() *Monitor { return m.monitors[m.active] }

// ActiveMonitorIndex returns the active monitor's index.
func (m *Manager) ActiveMonitorIndex() int { return m.active }

// ExitRequested reports whether a quit command was executed, and the
// requested exit code.
func (m *Manager) ExitRequested() (int, bool) { return m.exitCode, m.quitting }

// FindByWindow resolves a window handle to its client by scanning every
// desktop of every monitor. Returns the owning monitor and desktop
// index, or nil when the window is not managed.
func (m *Manager) FindByWindow(w Window) (*Client, *Monitor, int) {
	for _, mon := range m.monitors {
		for d := 0; d < mon.DesktopCount(); d++ {
			desk, _ := mon.Desktop(d)
			for _, c := range desk.Clients {
				if c.Win == w {
					return c, mon, d
				}
			}
		}
	}
	return nil, nil, 0
}

// manage adopts a new window: applies app rules, inserts the client
// into its target desktop and focuses it when appropriate.
func (m *Manager) manage(ev MapRequest) {
	if c, _, _ := m.FindByWindow(ev.Win); c != nil {
		return
	}
	mon := m.ActiveMonitor()

	follow, floating := false, false
	cd := mon.CurDesktop
	newDesk := cd
	for _, r := range m.cfg.Rules {
		if strings.Contains(ev.Class, r.Class) || strings.Contains(ev.Instance, r.Class) {
			follow = r.Follow
			floating = r.Floating
			if r.Desktop >= 0 {
				newDesk = r.Desktop
			}
			break
		}
	}

	c := &Client{Win: ev.Win, Transient: ev.Transient}
	c.SetName(ev.Name)
	c.Floating = floating || c.Transient

	if cd != newDesk {
		mon.SelectDesktop(newDesk)
	}
	mon.AddClient(c, m.cfg.GetAttachAside())
	mon.PrevFocus = mon.Current
	mon.Current = c
	if ev.Fullscreen {
		if cd == newDesk {
			m.setFullscreen(c, true)
		} else {
			// hidden desktop: record the state, defer the side effects
			c.Fullscreen = true
			m.sinks.Geometry.SetFullscreenHint(c.Win, true)
		}
	}
	if cd != newDesk {
		mon.SelectDesktop(cd)
	}

	if cd == newDesk {
		m.retile()
		m.sinks.Geometry.Map(c.Win)
		m.updateCurrent(c)
	} else if follow {
		m.ChangeDesktop(newDesk)
		m.updateCurrent(c)
	}
	m.publishStatus()
}

// removeClient splices the client out of whatever desktop holds it and
// repairs that desktop's focus pair: previous-focus first, then the
// list head, then none. The scan selects each desktop in turn exactly
// so the repair happens on the live working set.
func (m *Manager) removeClient(c *Client) {
	if c == nil {
		return
	}
	mon := m.monitorOf(c)
	cd := mon.CurDesktop
	found := -1
	for d := 0; d < mon.DesktopCount() && found < 0; d++ {
		mon.SelectDesktop(d)
		if mon.RemoveClient(c) {
			found = d
		}
	}
	if found < 0 {
		mon.SelectDesktop(cd)
		m.log.Debug("remove for unmanaged client", "win", c.Win)
		return
	}
	if c == mon.PrevFocus {
		mon.PrevFocus = mon.prevClient(mon.Current)
	}
	if cd == found {
		if c == mon.Current || len(mon.Clients) < 2 {
			m.updateCurrentOn(mon, mon.PrevFocus)
		} else {
			m.retileMonitor(mon)
		}
	} else {
		// hidden desktop: repair the focus pair without side effects
		if c == mon.Current {
			mon.Current = mon.PrevFocus
			if mon.Current == nil {
				mon.Current = mon.head()
			}
			mon.PrevFocus = mon.prevClient(mon.Current)
		}
		mon.SelectDesktop(cd)
	}
	m.publishStatus()
}

// removeByWindow handles destroy/unmap notifications. Events for
// unmanaged windows are safe no-ops.
func (m *Manager) removeByWindow(w Window) {
	c, _, _ := m.FindByWindow(w)
	if c == nil {
		m.log.Debug("notification for unmanaged window", "win", w)
		return
	}
	m.removeClient(c)
}

func (m *Manager) monitorOf(c *Client) *Monitor {
	if c.Monitor >= 0 && c.Monitor < len(m.monitors) {
		return m.monitors[c.Monitor]
	}
	return m.ActiveMonitor()
}

// moveResize emits a geometry and remembers it on the client.
func (m *Manager) moveResize(c *Client, r layout.Rect) {
	c.rect = r
	m.sinks.Geometry.MoveResize(c.Win, r.X, r.Y, r.Width, r.Height)
}

// setFullscreen flips the client's fullscreen state. Entering
// fullscreen resizes to the whole monitor, panel space included;
// tiling skips the client until the state is unset.
func (m *Manager) setFullscreen(c *Client, on bool) {
	if on != c.Fullscreen {
		m.sinks.Geometry.SetFullscreenHint(c.Win, on)
	}
	c.Fullscreen = on
	mon := m.monitorOf(c)
	if on {
		m.moveResize(c, mon.FullRect())
	}
	m.sinks.Geometry.SetBorderWidth(c.Win, m.borderWidthFor(mon, c))
	m.updateCurrentOn(mon, c)
}

// retile arranges the active monitor's selected desktop.
func (m *Manager) retile() {
	m.retileMonitor(m.ActiveMonitor())
}

// retileMonitor recomputes and emits geometry for every tileable client
// on the monitor's selected desktop. A desktop with a single client is
// always arranged monocle so it covers the whole usable area.
func (m *Manager) retileMonitor(mon *Monitor) {
	if len(mon.Clients) == 0 {
		return
	}
	mode := mon.Mode
	if len(mon.Clients) < 2 {
		mode = layout.Monocle
	}
	items := make([]layout.Item, len(mon.Clients))
	for i, c := range mon.Clients {
		items[i] = layout.Item{Fullscreen: c.Fullscreen, Floating: c.Floating, Transient: c.Transient}
	}
	placements := layout.Arrange(items, layout.Params{
		Mode:           mode,
		Usable:         mon.UsableRect(m.cfg.PanelHeight, m.cfg.GetTopPanel()),
		MasterFraction: m.cfg.MasterFraction,
		MasterSize:     mon.MasterSize,
		Growth:         mon.Growth,
		BorderWidth:    m.cfg.BorderWidth,
	})
	for _, pl := range placements {
		m.moveResize(mon.Clients[pl.Index], pl.Rect)
	}
	if mode == layout.Monocle && m.cfg.MonocleUnmapInactive {
		for _, c := range mon.Clients {
			if c.fft() || c == mon.Current {
				continue
			}
			m.sinks.Geometry.Unmap(c.Win)
		}
		if cur := mon.Current; cur != nil && !cur.fft() {
			m.sinks.Geometry.Map(cur.Win)
		}
	}
}

// AdoptWindow registers a pre-existing top-level window at startup as a
// client of the active monitor's selected desktop.
func (m *Manager) AdoptWindow(ev MapRequest) {
	m.manage(ev)
}
