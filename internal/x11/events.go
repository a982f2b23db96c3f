package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/stackwm/internal/wm"
)

// rawEvent pairs one WaitForEvent result; exactly one side is set.
type rawEvent struct {
	ev  xgb.Event
	err xgb.Error
}

// Run owns the manager: X events and API commands are serialized here
// and applied one at a time. It returns the requested exit code when a
// quit command ran, or 1 when the X connection dies.
func (b *Backend) Run(mgr *wm.Manager, commands <-chan wm.Command) int {
	events := make(chan rawEvent, 64)
	go func() {
		for {
			ev, err := b.X.Conn().WaitForEvent()
			if ev == nil && err == nil {
				close(events)
				return
			}
			events <- rawEvent{ev: ev, err: err}
		}
	}()

	for {
		if code, quit := mgr.ExitRequested(); quit {
			return code
		}
		select {
		case raw, ok := <-events:
			if !ok {
				b.log.Error("X connection closed")
				return 1
			}
			if raw.err != nil {
				b.log.Debug("x error", "err", raw.err.Error())
				continue
			}
			b.handleEvent(mgr, raw.ev)
		case cmd := <-commands:
			if err := mgr.Exec(cmd); err != nil {
				b.log.Warn("command rejected", "cmd", cmd.Name, "err", err)
			}
		}
	}
}

func (b *Backend) handleEvent(mgr *wm.Manager, xev xgb.Event) {
	switch e := xev.(type) {
	case xproto.KeyPressEvent:
		cmd, ok := b.matchKey(e)
		if !ok {
			return
		}
		if cmd.Name == "mouse-move" || cmd.Name == "mouse-resize" {
			return
		}
		if err := mgr.Exec(cmd); err != nil {
			b.log.Warn("command rejected", "cmd", cmd.Name, "err", err)
		}

	case xproto.ButtonPressEvent:
		b.buttonPress(mgr, e)

	case xproto.ButtonReleaseEvent:
		b.endDrag()

	case xproto.MotionNotifyEvent:
		if b.drag != nil {
			b.dragMotion(int(e.RootX), int(e.RootY))
			return
		}
		mgr.Dispatch(wm.PointerMove{X: int(e.RootX), Y: int(e.RootY)})

	case xproto.MapRequestEvent:
		attr, err := xproto.GetWindowAttributes(b.X.Conn(), e.Window).Reply()
		if err == nil && attr.OverrideRedirect {
			return
		}
		b.grabButtons(e.Window)
		mgr.Dispatch(b.windowInfo(e.Window))

	case xproto.DestroyNotifyEvent:
		delete(b.ignoredUnmaps, e.Window)
		mgr.Dispatch(wm.DestroyNotify{Win: wm.Window(e.Window)})

	case xproto.UnmapNotifyEvent:
		if n := b.ignoredUnmaps[e.Window]; n > 0 {
			if n == 1 {
				delete(b.ignoredUnmaps, e.Window)
			} else {
				b.ignoredUnmaps[e.Window] = n - 1
			}
			return
		}
		mgr.Dispatch(wm.UnmapNotify{Win: wm.Window(e.Window)})

	case xproto.ConfigureRequestEvent:
		mgr.Dispatch(wm.ConfigureRequest{
			Win:        wm.Window(e.Window),
			X:          int(e.X),
			Y:          int(e.Y),
			Width:      int(e.Width),
			Height:     int(e.Height),
			MaskX:      e.ValueMask&xproto.ConfigWindowX != 0,
			MaskY:      e.ValueMask&xproto.ConfigWindowY != 0,
			MaskWidth:  e.ValueMask&xproto.ConfigWindowWidth != 0,
			MaskHeight: e.ValueMask&xproto.ConfigWindowHeight != 0,
		})

	case xproto.ClientMessageEvent:
		b.clientMessage(mgr, e)

	case xproto.PropertyNotifyEvent:
		b.propertyNotify(mgr, e)

	case xproto.EnterNotifyEvent:
		if e.Mode == xproto.NotifyModeNormal {
			mgr.Dispatch(wm.EnterNotify{Win: wm.Window(e.Event)})
		}
	}
}

// buttonPress starts a drag when the press matches a pointer binding,
// otherwise treats it as a focus click and replays it so the
// application still sees it.
func (b *Backend) buttonPress(mgr *wm.Manager, e xproto.ButtonPressEvent) {
	win := e.Event
	if win == b.Root && e.Child != xproto.WindowNone {
		win = e.Child
	}
	if bg, ok := b.matchButton(e); ok && win != b.Root {
		// grab first: the client only floats once a drag will follow
		if !b.beginDrag(win, bg.resize, int(e.RootX), int(e.RootY)) {
			b.log.Warn("pointer grab failed, drag ignored", "win", win)
			return
		}
		if !mgr.StartDrag(wm.Window(win)) {
			b.endDrag()
		}
		return
	}
	mgr.Dispatch(wm.ButtonPress{Win: wm.Window(win)})
	xproto.AllowEvents(b.X.Conn(), xproto.AllowReplayPointer, e.Time)
}

func (b *Backend) clientMessage(mgr *wm.Manager, e xproto.ClientMessageEvent) {
	switch e.Type {
	case b.atomNetWMState:
		data := e.Data.Data32
		if len(data) >= 3 &&
			(xproto.Atom(data[1]) == b.atomNetFullscreen || xproto.Atom(data[2]) == b.atomNetFullscreen) {
			mgr.Dispatch(wm.FullscreenRequest{Win: wm.Window(e.Window), Action: int(data[0])})
		}
	case b.atomNetActiveWin:
		mgr.Dispatch(wm.ActivateRequest{Win: wm.Window(e.Window)})
	}
}

func (b *Backend) propertyNotify(mgr *wm.Manager, e xproto.PropertyNotifyEvent) {
	switch e.Atom {
	case xproto.AtomWmHints:
		hints, err := icccm.WmHintsGet(b.X, e.Window)
		if err != nil {
			return
		}
		mgr.Dispatch(wm.UrgencyChange{
			Win:    wm.Window(e.Window),
			Urgent: hints.Flags&icccm.HintUrgency != 0,
		})
	case xproto.AtomWmName, b.atomNetWMName:
		mgr.Dispatch(wm.NameChange{Win: wm.Window(e.Window), Name: b.windowName(e.Window)})
	}
}
