package wm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/stackwm/internal/layout"
)

// Command is one invocation of the command surface, carrying either an
// integer argument or an argv list depending on the command.
type Command struct {
	Name string
	Int  int
	Argv []string
}

// intArgCommands take a single required integer argument.
var intArgCommands = map[string]bool{
	"change-desktop":  true,
	"change-monitor":  true,
	"send-to-desktop": true,
	"send-to-monitor": true,
	"rotate-desktop":  true,
	"rotate-filled":   true,
	"rotate-monitor":  true,
	"resize-master":   true,
	"resize-stack":    true,
	"quit":            true,
}

// plainCommands take no argument.
var plainCommands = map[string]bool{
	"last-desktop": true,
	"focus-next":   true,
	"focus-prev":   true,
	"focus-urgent": true,
	"swap-master":  true,
	"move-up":      true,
	"move-down":    true,
	"toggle-panel": true,
	"kill-client":  true,
	"mouse-move":   true,
	"mouse-resize": true,
}

// ParseCommand turns a config- or API-level command string
// ("change-desktop 2", "spawn xterm -e top") into a Command.
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	name := fields[0]
	switch {
	case name == "spawn":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("spawn needs a command line")
		}
		return Command{Name: name, Argv: fields[1:]}, nil
	case name == "switch-mode":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("switch-mode needs a mode name")
		}
		mode, err := layout.ParseMode(fields[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Name: name, Int: int(mode)}, nil
	case intArgCommands[name]:
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%s needs an integer argument", name)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", name, err)
		}
		return Command{Name: name, Int: n}, nil
	case plainCommands[name]:
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("%s takes no argument", name)
		}
		return Command{Name: name}, nil
	default:
		return Command{}, fmt.Errorf("unknown command: %q", name)
	}
}

// Exec runs one command. Pointer-drag commands need a grabbed pointer
// and are rejected here; the backend intercepts them before dispatch.
func (m *Manager) Exec(cmd Command) error {
	switch cmd.Name {
	case "change-desktop":
		m.ChangeDesktop(cmd.Int)
	case "last-desktop":
		m.LastDesktop()
	case "rotate-desktop":
		m.RotateDesktop(cmd.Int)
	case "rotate-filled":
		m.RotateFilled(cmd.Int)
	case "change-monitor":
		m.ChangeMonitor(cmd.Int)
	case "rotate-monitor":
		m.RotateMonitor(cmd.Int)
	case "send-to-desktop":
		m.SendToDesktop(cmd.Int)
	case "send-to-monitor":
		m.SendToMonitor(cmd.Int)
	case "focus-next":
		m.NextWin()
	case "focus-prev":
		m.PrevWin()
	case "focus-urgent":
		m.FocusUrgent()
	case "swap-master":
		m.SwapMaster()
	case "move-up":
		m.MoveUp()
	case "move-down":
		m.MoveDown()
	case "resize-master":
		m.ResizeMaster(cmd.Int)
	case "resize-stack":
		m.ResizeStack(cmd.Int)
	case "switch-mode":
		m.SwitchMode(layout.Mode(cmd.Int))
	case "toggle-panel":
		m.TogglePanel()
	case "kill-client":
		m.KillClient()
	case "quit":
		m.Quit(cmd.Int)
	case "spawn":
		m.Spawn(cmd.Argv)
	case "mouse-move", "mouse-resize":
		return fmt.Errorf("%s requires a pointer grab", cmd.Name)
	default:
		return fmt.Errorf("unknown command: %q", cmd.Name)
	}
	return nil
}

// ChangeDesktop selects another desktop on the active monitor. To avoid
// flicker the incoming desktop's windows are mapped before the outgoing
// desktop's are unmapped: incoming current first, then the rest;
// outgoing others first, current last.
func (m *Manager) ChangeDesktop(n int) {
	mon := m.ActiveMonitor()
	if n == mon.CurDesktop || n < 0 || n >= mon.DesktopCount() {
		return
	}
	prev := mon.CurDesktop

	mon.SelectDesktop(n)
	if mon.Current != nil {
		m.sinks.Geometry.Map(mon.Current.Win)
	}
	for _, c := range mon.Clients {
		m.sinks.Geometry.Map(c.Win)
	}

	mon.SelectDesktop(prev)
	for _, c := range mon.Clients {
		if c != mon.Current {
			m.sinks.Geometry.Unmap(c.Win)
		}
	}
	if mon.Current != nil {
		m.sinks.Geometry.Unmap(mon.Current.Win)
	}

	mon.SelectDesktop(n)
	mon.PrevDesktop = prev
	m.retile()
	m.updateCurrent(mon.Current)
	m.publishStatus()
}

// LastDesktop jumps back to the previously selected desktop.
func (m *Manager) LastDesktop() {
	m.ChangeDesktop(m.ActiveMonitor().PrevDesktop)
}

// RotateDesktop jumps to the next or previous desktop, wrapping.
func (m *Manager) RotateDesktop(dir int) {
	mon := m.ActiveMonitor()
	n := mon.DesktopCount()
	m.ChangeDesktop(((mon.CurDesktop+dir)%n + n) % n)
}

// RotateFilled is RotateDesktop skipping desktops without clients.
func (m *Manager) RotateFilled(dir int) {
	mon := m.ActiveMonitor()
	n := mon.DesktopCount()
	step := dir
	for i := 0; i < n; i++ {
		d := ((mon.CurDesktop+step)%n + n) % n
		desk, _ := mon.Desktop(d)
		if len(desk.Clients) > 0 {
			m.ChangeDesktop(d)
			return
		}
		step += dir
	}
}

// ChangeMonitor moves command focus to another monitor. Already-active
// and out-of-range indexes are no-ops.
func (m *Manager) ChangeMonitor(n int) {
	if n == m.active || n < 0 || n >= len(m.monitors) {
		return
	}
	m.prevMonitor = m.active
	m.active = n
	m.updateCurrent(m.ActiveMonitor().Current)
	m.publishStatus()
}

// RotateMonitor moves command focus to the next or previous monitor.
func (m *Manager) RotateMonitor(dir int) {
	n := len(m.monitors)
	if n < 2 {
		return
	}
	m.ChangeMonitor(((m.active+dir)%n + n) % n)
}

// MonitorAt resolves a root-coordinate point to a monitor index,
// falling back to the active monitor when no rectangle contains it.
func (m *Manager) MonitorAt(x, y int) int {
	for _, mon := range m.monitors {
		if mon.Contains(x, y) {
			return mon.ID
		}
	}
	return m.active
}

// SendToDesktop relocates the focused client to another desktop of the
// active monitor, attaching it at the end of that desktop's list.
// Fullscreen state is cleared before the move.
func (m *Manager) SendToDesktop(n int) {
	mon := m.ActiveMonitor()
	cur := mon.Current
	if cur == nil || n == mon.CurDesktop || n < 0 || n >= mon.DesktopCount() {
		return
	}
	if cur.Fullscreen {
		m.setFullscreen(cur, false)
	}
	cd := mon.CurDesktop

	mon.SelectDesktop(n)
	mon.Clients = append(mon.Clients, cur)
	mon.PrevFocus = mon.Current
	mon.Current = cur

	mon.SelectDesktop(cd)
	mon.RemoveClient(cur)
	m.sinks.Geometry.Unmap(cur.Win)
	m.updateCurrent(mon.PrevFocus)

	if m.cfg.FollowWindow {
		m.ChangeDesktop(n)
	} else {
		m.retile()
	}
	m.publishStatus()
}

// SendToMonitor relocates the focused client to another monitor's
// selected desktop. Fullscreen state is cleared before the move.
func (m *Manager) SendToMonitor(n int) {
	mon := m.ActiveMonitor()
	cur := mon.Current
	if cur == nil || n == m.active || n < 0 || n >= len(m.monitors) {
		return
	}
	if cur.Fullscreen {
		m.setFullscreen(cur, false)
	}
	mon.RemoveClient(cur)
	m.updateCurrent(mon.PrevFocus)

	tgt := m.monitors[n]
	tgt.Clients = append(tgt.Clients, cur)
	cur.Monitor = tgt.ID
	m.updateCurrentOn(tgt, cur)
	m.publishStatus()
}

// SwapMaster exchanges the focused client with the master. When the
// focused client already is the master it swaps with the next client,
// and focus lands on the new master either way.
func (m *Manager) SwapMaster() {
	mon := m.ActiveMonitor()
	if mon.Current == nil || len(mon.Clients) < 2 {
		return
	}
	if mon.Current == mon.head() {
		m.MoveDown()
	} else {
		for mon.Current != mon.head() {
			m.MoveUp()
		}
	}
	m.updateCurrent(mon.head())
}

// MoveUp shifts the focused client one position toward the list head,
// wrapping the head to the tail.
func (m *Manager) MoveUp() {
	mon := m.ActiveMonitor()
	if mon.moveClient(mon.Current, -1) {
		m.retile()
	}
}

// MoveDown shifts the focused client one position toward the tail,
// wrapping the tail to the head.
func (m *Manager) MoveDown() {
	mon := m.ActiveMonitor()
	if mon.moveClient(mon.Current, +1) {
		m.retile()
	}
}

// ResizeMaster grows or shrinks the master area, refusing adjustments
// that would push either side below the minimum window size.
func (m *Manager) ResizeMaster(px int) {
	mon := m.ActiveMonitor()
	usable := mon.UsableRect(m.cfg.PanelHeight, m.cfg.GetTopPanel())
	axis := usable.Width
	if mon.Mode == layout.BStack {
		axis = usable.Height
	}
	msz := int(float64(axis)*m.cfg.MasterFraction) + mon.MasterSize + px
	if msz < m.cfg.MinWindowSize || axis-msz < m.cfg.MinWindowSize {
		return
	}
	mon.MasterSize += px
	m.retile()
}

// ResizeStack adjusts the growth granted to the first stack window.
func (m *Manager) ResizeStack(px int) {
	m.ActiveMonitor().Growth += px
	m.retile()
}

// SwitchMode changes the active desktop's layout mode. Selecting the
// mode that is already active resets every floating client on the
// desktop back to tiling.
func (m *Manager) SwitchMode(mode layout.Mode) {
	mon := m.ActiveMonitor()
	if mon.Mode == mode {
		for _, c := range mon.Clients {
			c.Floating = false
		}
	}
	mon.Mode = mode
	m.retile()
	m.updateCurrent(mon.Current)
	m.publishStatus()
}

// TogglePanel flips panel visibility on the active desktop and reclaims
// or cedes the panel space.
func (m *Manager) TogglePanel() {
	mon := m.ActiveMonitor()
	mon.ShowPanel = !mon.ShowPanel
	m.retile()
}

// KillClient closes the focused window and drops its client.
func (m *Manager) KillClient() {
	mon := m.ActiveMonitor()
	if mon.Current == nil {
		return
	}
	m.sinks.Closer.Delete(mon.Current.Win)
	m.removeClient(mon.Current)
}

// Quit asks the event loop to stop with the given exit code.
func (m *Manager) Quit(code int) {
	m.exitCode = code
	m.quitting = true
}

// Spawn launches an external command.
func (m *Manager) Spawn(argv []string) {
	if len(argv) == 0 {
		return
	}
	m.sinks.Spawner.Spawn(argv)
}

// StartDrag prepares the focused client for a pointer move/resize: it
// leaves fullscreen, becomes floating and keeps whatever geometry the
// drag produces. The backend runs the actual pointer loop.
func (m *Manager) StartDrag(w Window) bool {
	c, _, _ := m.FindByWindow(w)
	if c == nil {
		return false
	}
	if c.Fullscreen {
		m.setFullscreen(c, false)
	}
	if !c.Floating {
		c.Floating = true
	}
	m.retile()
	m.updateCurrent(c)
	return true
}
