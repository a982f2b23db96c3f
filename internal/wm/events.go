package wm

// Net WM state actions carried by FullscreenRequest, matching the EWMH
// _NET_WM_STATE client message data.
const (
	StateRemove = 0
	StateAdd    = 1
	StateToggle = 2
)

// Event is one backend occurrence the core reacts to. The concrete
// types below are the only implementations; Dispatch switches over
// them exhaustively.
type Event interface{ event() }

// MapRequest asks the manager to adopt a new top-level window.
type MapRequest struct {
	Win        Window
	Class      string
	Instance   string
	Name       string
	Transient  bool
	Fullscreen bool
}

// DestroyNotify reports that a window is gone.
type DestroyNotify struct{ Win Window }

// UnmapNotify reports a client-initiated unmap of a managed window.
type UnmapNotify struct{ Win Window }

// ConfigureRequest is a client asking for its own geometry. Mask flags
// say which fields carry a value.
type ConfigureRequest struct {
	Win           Window
	X, Y          int
	Width, Height int
	MaskX         bool
	MaskY         bool
	MaskWidth     bool
	MaskHeight    bool
}

// FullscreenRequest is a _NET_WM_STATE fullscreen client message.
type FullscreenRequest struct {
	Win    Window
	Action int
}

// ActivateRequest is a _NET_ACTIVE_WINDOW client message.
type ActivateRequest struct{ Win Window }

// UrgencyChange reports a WM_HINTS urgency flip.
type UrgencyChange struct {
	Win    Window
	Urgent bool
}

// NameChange reports a window title update.
type NameChange struct {
	Win  Window
	Name string
}

// EnterNotify reports the pointer entering a managed window.
type EnterNotify struct{ Win Window }

// PointerMove reports root-coordinate pointer motion, used to follow
// the pointer across monitors.
type PointerMove struct{ X, Y int }

// ButtonPress reports a grabbed pointer button on a managed window.
type ButtonPress struct{ Win Window }

func (MapRequest) event()        {}
func (DestroyNotify) event()     {}
func (UnmapNotify) event()       {}
func (ConfigureRequest) event()  {}
func (FullscreenRequest) event() {}
func (ActivateRequest) event()   {}
func (UrgencyChange) event()     {}
func (NameChange) event()        {}
func (EnterNotify) event()       {}
func (PointerMove) event()       {}
func (ButtonPress) event()       {}

// Dispatch routes one event to its handler. Events referencing windows
// the manager does not know are safe no-ops.
func (m *Manager) Dispatch(ev Event) {
	switch e := ev.(type) {
	case MapRequest:
		m.manage(e)
	case DestroyNotify:
		m.removeByWindow(e.Win)
	case UnmapNotify:
		m.removeByWindow(e.Win)
	case ConfigureRequest:
		m.configureRequest(e)
	case FullscreenRequest:
		m.fullscreenRequest(e)
	case ActivateRequest:
		m.activateRequest(e)
	case UrgencyChange:
		m.urgencyChange(e)
	case NameChange:
		m.nameChange(e)
	case EnterNotify:
		m.enterNotify(e)
	case PointerMove:
		m.ChangeMonitor(m.MonitorAt(e.X, e.Y))
	case ButtonPress:
		m.buttonPress(e)
	}
}

// configureRequest grants the requested fields, keeping the client's
// current geometry where the value mask is unset, then retiles so tiled
// clients snap back. A fullscreen client is instead restored to the
// full monitor rectangle.
func (m *Manager) configureRequest(ev ConfigureRequest) {
	c, mon, _ := m.FindByWindow(ev.Win)
	if c == nil {
		m.sinks.Geometry.MoveResize(ev.Win, ev.X, ev.Y, ev.Width, ev.Height)
		return
	}
	if c.Fullscreen {
		m.moveResize(c, mon.FullRect())
		return
	}
	r := c.rect
	if ev.MaskX {
		r.X = ev.X
	}
	if ev.MaskY {
		r.Y = ev.Y
	}
	if ev.MaskWidth {
		r.Width = ev.Width
	}
	if ev.MaskHeight {
		r.Height = ev.Height
	}
	m.moveResize(c, r)
	m.retileMonitor(mon)
}

func (m *Manager) fullscreenRequest(ev FullscreenRequest) {
	c, _, _ := m.FindByWindow(ev.Win)
	if c == nil {
		return
	}
	on := ev.Action == StateAdd || (ev.Action == StateToggle && !c.Fullscreen)
	m.setFullscreen(c, on)
}

// activateRequest focuses the window only when it lives on the active
// monitor's selected desktop; anything else is ignored.
func (m *Manager) activateRequest(ev ActivateRequest) {
	mon := m.ActiveMonitor()
	for _, c := range mon.Clients {
		if c.Win == ev.Win {
			m.updateCurrent(c)
			return
		}
	}
}

// urgencyChange records the hint. The focused client never turns
// urgent; the hint is considered already seen.
func (m *Manager) urgencyChange(ev UrgencyChange) {
	c, mon, d := m.FindByWindow(ev.Win)
	if c == nil {
		return
	}
	c.Urgent = ev.Urgent && !(mon.ID == m.active && d == mon.CurDesktop && c == mon.Current)
	m.publishStatus()
}

func (m *Manager) nameChange(ev NameChange) {
	c, _, _ := m.FindByWindow(ev.Win)
	if c == nil {
		return
	}
	c.SetName(ev.Name)
}

// enterNotify implements focus-follows-mouse, switching monitors when
// the pointer crossed into another one.
func (m *Manager) enterNotify(ev EnterNotify) {
	if !m.cfg.GetFollowMouse() {
		return
	}
	c, mon, d := m.FindByWindow(ev.Win)
	if c == nil || d != mon.CurDesktop {
		return
	}
	if mon.ID != m.active {
		m.ChangeMonitor(mon.ID)
	}
	if c != mon.Current {
		m.updateCurrent(c)
	}
}

// buttonPress implements click-to-focus on a managed window.
func (m *Manager) buttonPress(ev ButtonPress) {
	if !m.cfg.GetClickToFocus() {
		return
	}
	c, mon, d := m.FindByWindow(ev.Win)
	if c == nil || d != mon.CurDesktop {
		return
	}
	if mon.ID != m.active {
		m.ChangeMonitor(mon.ID)
	}
	if c != mon.Current {
		m.updateCurrent(c)
	}
}
