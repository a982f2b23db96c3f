package wm

import "github.com/1broseidon/stackwm/internal/layout"

// borderWidthFor implements the border rules: no border when the
// desktop has a single client, the client is fullscreen, or the mode is
// monocle and the client is tiled.
func (m *Manager) borderWidthFor(mon *Monitor, c *Client) int {
	if len(mon.Clients) < 2 || c.Fullscreen || (mon.Mode == layout.Monocle && !c.fft()) {
		return 0
	}
	return m.cfg.BorderWidth
}

// updateCurrent applies a focus change on the active monitor.
func (m *Manager) updateCurrent(c *Client) {
	m.updateCurrentOn(m.ActiveMonitor(), c)
}

// updateCurrentOn is the single choke point for focus side effects on
// one monitor's selected desktop: it resolves the new current client,
// refreshes border widths and colors everywhere, restacks the desktop,
// sets the input focus and active-window property, and retiles.
//
// Passing the desktop's previous-focus (possibly nil) asks for the
// focus-loss fallback: previous-focus, else the list head, else none.
//
// Stacking order, top to bottom: current when floating or transient,
// other floating/transient clients, current when tiled, current when
// fullscreen, other fullscreen clients, tiled clients.
func (m *Manager) updateCurrentOn(mon *Monitor, c *Client) {
	if len(mon.Clients) == 0 {
		m.sinks.Focus.ClearActiveWindow()
		mon.Current, mon.PrevFocus = nil, nil
		return
	}
	switch {
	case c == mon.PrevFocus:
		if mon.PrevFocus != nil {
			mon.Current = mon.PrevFocus
		} else {
			mon.Current = mon.head()
		}
		mon.PrevFocus = mon.prevClient(mon.Current)
	case c != nil && c != mon.Current:
		mon.PrevFocus = mon.Current
		mon.Current = c
	}
	if mon.Current == nil {
		mon.Current = mon.head()
	}
	cur := mon.Current
	cur.Urgent = false

	focused := m.ActiveMonitor().Current
	for _, om := range m.monitors {
		for _, cc := range om.Clients {
			m.sinks.Geometry.SetBorderWidth(cc.Win, m.borderWidthFor(om, cc))
			col := BorderUnfocused
			if cc == focused {
				col = BorderFocused
			}
			m.sinks.Geometry.SetBorderColor(cc.Win, col)
		}
	}

	var floats, full, tiled []*Client
	for _, cc := range mon.Clients {
		if cc == cur {
			continue
		}
		switch {
		case cc.Fullscreen:
			full = append(full, cc)
		case cc.fft():
			floats = append(floats, cc)
		default:
			tiled = append(tiled, cc)
		}
	}
	order := make([]*Client, 0, len(mon.Clients))
	if cur.fft() && !cur.Fullscreen {
		order = append(order, cur)
	}
	order = append(order, floats...)
	if !cur.fft() {
		order = append(order, cur)
	} else if cur.Fullscreen {
		order = append(order, cur)
	}
	order = append(order, full...)
	order = append(order, tiled...)
	// raise bottom-most first so order[0] ends up on top
	for i := len(order) - 1; i >= 0; i-- {
		m.sinks.Geometry.Raise(order[i].Win)
	}

	m.sinks.Focus.SetActiveWindow(cur.Win)
	m.sinks.Focus.SetInputFocus(cur.Win)
	m.retileMonitor(mon)
}

// NextWin cycles focus forward through the active desktop's list.
func (m *Manager) NextWin() {
	mon := m.ActiveMonitor()
	if mon.Current == nil || len(mon.Clients) < 2 {
		return
	}
	m.updateCurrent(mon.nextClient(mon.Current))
}

// PrevWin cycles focus backward, recording the outgoing current as the
// previous-focus so removal can restore it.
func (m *Manager) PrevWin() {
	mon := m.ActiveMonitor()
	if mon.Current == nil || len(mon.Clients) < 2 {
		return
	}
	mon.PrevFocus = mon.Current
	m.updateCurrent(mon.prevClient(mon.Current))
}

// FocusUrgent focuses the first client holding the urgency hint,
// switching monitor (and desktop, when the wider scan is configured)
// to reach it.
func (m *Manager) FocusUrgent() {
	for _, mon := range m.monitors {
		for _, c := range mon.Clients {
			if !c.Urgent {
				continue
			}
			if mon.ID != m.active {
				m.ChangeMonitor(mon.ID)
			}
			m.updateCurrent(c)
			return
		}
	}
	if !m.cfg.UrgentScanAllDesktops {
		return
	}
	for _, mon := range m.monitors {
		for d := 0; d < mon.DesktopCount(); d++ {
			desk, _ := mon.Desktop(d)
			for _, c := range desk.Clients {
				if !c.Urgent {
					continue
				}
				if mon.ID != m.active {
					m.ChangeMonitor(mon.ID)
				}
				m.ChangeDesktop(d)
				m.updateCurrent(c)
				return
			}
		}
	}
}
