package wm

import (
	"fmt"
	"strings"
)

// BuildStatusLine renders the full manager state as one line: for each
// monitor and desktop a colon-separated group
//
//	monitor:active_monitor:desktop:client_count:mode:selected:urgent
//
// groups separated by single spaces, terminated by a newline. Flags
// are 1/0; urgent is set when any client on the desktop holds the
// urgency hint.
func (m *Manager) BuildStatusLine() string {
	var b strings.Builder
	first := true
	for _, mon := range m.monitors {
		am := 0
		if mon.ID == m.active {
			am = 1
		}
		for d := 0; d < mon.DesktopCount(); d++ {
			desk, _ := mon.Desktop(d)
			sel := 0
			if d == mon.CurDesktop {
				sel = 1
			}
			urg := 0
			for _, c := range desk.Clients {
				if c.Urgent {
					urg = 1
					break
				}
			}
			if !first {
				b.WriteByte(' ')
			}
			first = false
			fmt.Fprintf(&b, "%d:%d:%d:%d:%d:%d:%d",
				mon.ID, am, d, len(desk.Clients), int(desk.Mode), sel, urg)
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// publishStatus pushes a fresh status line to the status sink. Called
// after every state change a status consumer can observe.
func (m *Manager) publishStatus() {
	if m.sinks.Status == nil {
		return
	}
	m.sinks.Status.Publish(m.BuildStatusLine())
}
