package wm

import "github.com/1broseidon/stackwm/internal/layout"

// Screen is a display region as reported by the backend.
type Screen struct {
	X, Y, W, H int
}

// Monitor owns a fixed set of desktops on one display region. The
// Mode..ShowPanel fields are the live working set of the selected
// desktop; every mutation of layout parameters, the client list or the
// focus pair happens on the live fields and is written back to the
// desktops array by SaveDesktop before another desktop is selected.
type Monitor struct {
	ID         int
	X, Y, W, H int

	// live working set of the selected desktop
	Mode       layout.Mode
	MasterSize int
	Growth     int
	Clients    []*Client
	Current    *Client
	PrevFocus  *Client
	ShowPanel  bool

	CurDesktop  int
	PrevDesktop int

	desktops []DesktopState
}

// NewMonitor creates a monitor with count desktops, saves every desktop
// once with the given initial state and selects desktop def.
func NewMonitor(id int, scr Screen, count int, initial DesktopState, def int) *Monitor {
	m := &Monitor{
		ID: id,
		X:  scr.X, Y: scr.Y, W: scr.W, H: scr.H,
		desktops: make([]DesktopState, count),
	}
	for i := range m.desktops {
		m.desktops[i] = initial
	}
	m.Mode = initial.Mode
	m.MasterSize = initial.MasterSize
	m.Growth = initial.Growth
	m.ShowPanel = initial.ShowPanel
	if def >= 0 && def < count {
		m.CurDesktop = def
	}
	m.SelectDesktop(m.CurDesktop)
	return m
}

// DesktopCount returns the number of desktops on this monitor.
func (m *Monitor) DesktopCount() int { return len(m.desktops) }

// SaveDesktop writes the live working set back into desktop i. Out of
// range indexes are silently ignored.
func (m *Monitor) SaveDesktop(i int) {
	if i < 0 || i >= len(m.desktops) {
		return
	}
	m.desktops[i] = DesktopState{
		Mode:       m.Mode,
		MasterSize: m.MasterSize,
		Growth:     m.Growth,
		Clients:    m.Clients,
		Current:    m.Current,
		PrevFocus:  m.PrevFocus,
		ShowPanel:  m.ShowPanel,
	}
}

// SelectDesktop saves the selected desktop and loads desktop i into the
// live working set. Out of range indexes are silently ignored.
func (m *Monitor) SelectDesktop(i int) {
	if i < 0 || i >= len(m.desktops) {
		return
	}
	m.SaveDesktop(m.CurDesktop)
	d := m.desktops[i]
	m.Mode = d.Mode
	m.MasterSize = d.MasterSize
	m.Growth = d.Growth
	m.Clients = d.Clients
	m.Current = d.Current
	m.PrevFocus = d.PrevFocus
	m.ShowPanel = d.ShowPanel
	m.CurDesktop = i
}

// Desktop returns a read-only view of desktop i, reflecting the live
// working set when i is the selected desktop.
func (m *Monitor) Desktop(i int) (DesktopState, bool) {
	if i < 0 || i >= len(m.desktops) {
		return DesktopState{}, false
	}
	if i == m.CurDesktop {
		return DesktopState{
			Mode:       m.Mode,
			MasterSize: m.MasterSize,
			Growth:     m.Growth,
			Clients:    m.Clients,
			Current:    m.Current,
			PrevFocus:  m.PrevFocus,
			ShowPanel:  m.ShowPanel,
		}, true
	}
	return m.desktops[i], true
}

// Contains reports whether the point lies inside the monitor rectangle.
func (m *Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.W && y >= m.Y && y < m.Y+m.H
}

// FullRect is the whole monitor area, panel space included. Fullscreen
// clients get this rectangle.
func (m *Monitor) FullRect() layout.Rect {
	return layout.Rect{X: m.X, Y: m.Y, Width: m.W, Height: m.H}
}

// UsableRect is the area tiled clients may occupy: the monitor minus
// panel space when the panel is visible on the selected desktop.
func (m *Monitor) UsableRect(panelHeight int, topPanel bool) layout.Rect {
	r := m.FullRect()
	if m.ShowPanel && panelHeight > 0 {
		r.Height -= panelHeight
		if topPanel {
			r.Y += panelHeight
		}
	}
	return r
}

// AddClient inserts the client into the selected desktop's list, at the
// tail when attachAside is set, at the head otherwise.
func (m *Monitor) AddClient(c *Client, attachAside bool) {
	c.Monitor = m.ID
	if attachAside {
		m.Clients = append(m.Clients, c)
		return
	}
	m.Clients = append([]*Client{c}, m.Clients...)
}

// RemoveClient splices the client out of the selected desktop's list.
// Removing an absent client is a no-op.
func (m *Monitor) RemoveClient(c *Client) bool {
	i := m.indexOf(c)
	if i < 0 {
		return false
	}
	m.Clients = append(m.Clients[:i], m.Clients[i+1:]...)
	return true
}

func (m *Monitor) indexOf(c *Client) int {
	for i, cc := range m.Clients {
		if cc == c {
			return i
		}
	}
	return -1
}

// head returns the first client of the selected desktop, or nil.
func (m *Monitor) head() *Client {
	if len(m.Clients) == 0 {
		return nil
	}
	return m.Clients[0]
}

// prevClient returns the client before c in cyclic order, or nil when
// the list holds fewer than two clients or c is not a member.
func (m *Monitor) prevClient(c *Client) *Client {
	if c == nil || len(m.Clients) < 2 {
		return nil
	}
	i := m.indexOf(c)
	if i < 0 {
		return nil
	}
	return m.Clients[(i-1+len(m.Clients))%len(m.Clients)]
}

// nextClient returns the client after c in cyclic order, or nil.
func (m *Monitor) nextClient(c *Client) *Client {
	if c == nil || len(m.Clients) < 2 {
		return nil
	}
	i := m.indexOf(c)
	if i < 0 {
		return nil
	}
	return m.Clients[(i+1)%len(m.Clients)]
}

// moveClient shifts the client one position in the given direction,
// wrapping around: moving the head up sends it to the tail, moving the
// tail down makes it the new head. Order of the other clients is kept.
func (m *Monitor) moveClient(c *Client, dir int) bool {
	i := m.indexOf(c)
	if i < 0 || len(m.Clients) < 2 {
		return false
	}
	j := (i + dir + len(m.Clients)) % len(m.Clients)
	m.Clients = append(m.Clients[:i], m.Clients[i+1:]...)
	rest := append([]*Client{}, m.Clients[j:]...)
	m.Clients = append(append(m.Clients[:j:j], c), rest...)
	return true
}
