package x11

import (
	"os/exec"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/stackwm/internal/wm"
)

// MoveResize applies a computed geometry to a window.
func (b *Backend) MoveResize(w wm.Window, x, y, width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	xproto.ConfigureWindow(b.X.Conn(), xproto.Window(w),
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)})
}

// SetBorderWidth adjusts a window's border in pixels.
func (b *Backend) SetBorderWidth(w wm.Window, px int) {
	xproto.ConfigureWindow(b.X.Conn(), xproto.Window(w),
		xproto.ConfigWindowBorderWidth, []uint32{uint32(px)})
}

// SetBorderColor paints a window's border with one of the allocated
// palette pixels.
func (b *Backend) SetBorderColor(w wm.Window, c wm.BorderColor) {
	xproto.ChangeWindowAttributes(b.X.Conn(), xproto.Window(w),
		xproto.CwBorderPixel, []uint32{b.colors[c]})
}

// Raise puts a window on top of the stacking order.
func (b *Backend) Raise(w wm.Window) {
	xproto.ConfigureWindow(b.X.Conn(), xproto.Window(w),
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

// Map makes a window visible.
func (b *Backend) Map(w wm.Window) {
	xproto.MapWindow(b.X.Conn(), xproto.Window(w))
}

// Unmap hides a window. The resulting UnmapNotify is ours and must not
// be treated as the client withdrawing the window.
func (b *Backend) Unmap(w wm.Window) {
	b.ignoredUnmaps[xproto.Window(w)]++
	xproto.UnmapWindow(b.X.Conn(), xproto.Window(w))
}

// SetFullscreenHint publishes or withdraws _NET_WM_STATE_FULLSCREEN.
func (b *Backend) SetFullscreenHint(w wm.Window, on bool) {
	states := []string{}
	if on {
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
	}
	if err := ewmh.WmStateSet(b.X, xproto.Window(w), states); err != nil {
		b.log.Debug("setting fullscreen state failed", "win", w, "err", err)
	}
}

// SetInputFocus directs keyboard input at a window.
func (b *Backend) SetInputFocus(w wm.Window) {
	xproto.SetInputFocus(b.X.Conn(), xproto.InputFocusPointerRoot,
		xproto.Window(w), xproto.TimeCurrentTime)
}

// SetActiveWindow publishes _NET_ACTIVE_WINDOW.
func (b *Backend) SetActiveWindow(w wm.Window) {
	if err := ewmh.ActiveWindowSet(b.X, xproto.Window(w)); err != nil {
		b.log.Debug("setting active window failed", "win", w, "err", err)
	}
}

// ClearActiveWindow withdraws _NET_ACTIVE_WINDOW when no client holds
// the focus.
func (b *Backend) ClearActiveWindow() {
	xproto.DeleteProperty(b.X.Conn(), b.Root, b.atomNetActiveWin)
}

// Delete asks a window to close through WM_DELETE_WINDOW, falling back
// to killing the connection when the window does not take part in the
// protocol.
func (b *Backend) Delete(w wm.Window) {
	win := xproto.Window(w)
	protos, err := icccm.WmProtocolsGet(b.X, win)
	if err == nil {
		for _, p := range protos {
			if p != "WM_DELETE_WINDOW" {
				continue
			}
			ev := xproto.ClientMessageEvent{
				Format: 32,
				Window: win,
				Type:   b.atomWMProtocols,
				Data: xproto.ClientMessageDataUnionData32New([]uint32{
					uint32(b.atomWMDeleteWindow),
					uint32(xproto.TimeCurrentTime),
					0, 0, 0,
				}),
			}
			xproto.SendEvent(b.X.Conn(), false, win,
				xproto.EventMaskNoEvent, string(ev.Bytes()))
			return
		}
	}
	b.Kill(w)
}

// Kill disconnects a window's client unconditionally.
func (b *Backend) Kill(w wm.Window) {
	xproto.KillClient(b.X.Conn(), uint32(w))
}

// Spawn launches an external command in its own session so it survives
// the window manager and never becomes a zombie.
func (b *Backend) Spawn(argv []string) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		b.log.Warn("spawn failed", "argv", argv, "err", err)
		return
	}
	go cmd.Wait()
}

// windowInfo gathers the properties the manager consults when adopting
// a window.
func (b *Backend) windowInfo(win xproto.Window) wm.MapRequest {
	info := wm.MapRequest{Win: wm.Window(win)}
	if cls, err := icccm.WmClassGet(b.X, win); err == nil {
		info.Class, info.Instance = cls.Class, cls.Instance
	}
	info.Name = b.windowName(win)
	if _, err := icccm.WmTransientForGet(b.X, win); err == nil {
		info.Transient = true
	}
	if states, err := ewmh.WmStateGet(b.X, win); err == nil {
		for _, s := range states {
			if s == "_NET_WM_STATE_FULLSCREEN" {
				info.Fullscreen = true
			}
		}
	}
	return info
}

func (b *Backend) windowName(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(b.X, win); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(b.X, win); err == nil {
		return name
	}
	return ""
}
