package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/stackwm/internal/wm"
)

// keyGrab binds a grabbed key combination to a parsed command.
type keyGrab struct {
	mods  uint16
	codes []xproto.Keycode
	cmd   wm.Command
}

// buttonGrab binds a modifier+button combination to a pointer command
// (mouse-move or mouse-resize).
type buttonGrab struct {
	mods   uint16
	button xproto.Button
	resize bool
}

// ignoreMods are modifier states a grab must fire regardless of:
// NumLock (Mod2) and CapsLock.
var ignoreMods = []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2}

// GrabKeys parses the configured bindings, registers the key grabs on
// the root window and remembers the commands to run. Unparsable
// bindings are logged and skipped so one typo does not take down every
// other binding.
func (b *Backend) GrabKeys(bindings map[string]string) error {
	b.keys = b.keys[:0]
	for spec, cmdStr := range bindings {
		cmd, err := wm.ParseCommand(cmdStr)
		if err != nil {
			b.log.Warn("skipping binding", "key", spec, "err", err)
			continue
		}
		mods, codes, err := keybind.ParseString(b.X, spec)
		if err != nil {
			b.log.Warn("skipping binding", "key", spec, "err", err)
			continue
		}
		for _, code := range codes {
			if err := keybind.GrabChecked(b.X, b.Root, mods, code); err != nil {
				return fmt.Errorf("grabbing %s: %w", spec, err)
			}
		}
		b.keys = append(b.keys, keyGrab{mods: mods, codes: codes, cmd: cmd})
	}
	return nil
}

// ParseButtons resolves the configured pointer bindings. Grabs are
// installed per client window when it is managed.
func (b *Backend) ParseButtons(bindings map[string]string) {
	b.buttons = b.buttons[:0]
	for spec, cmdStr := range bindings {
		var resize bool
		switch cmdStr {
		case "mouse-move":
		case "mouse-resize":
			resize = true
		default:
			b.log.Warn("skipping pointer binding", "button", spec, "cmd", cmdStr)
			continue
		}
		mods, button, err := parseButtonSpec(spec)
		if err != nil {
			b.log.Warn("skipping pointer binding", "button", spec, "err", err)
			continue
		}
		b.buttons = append(b.buttons, buttonGrab{mods: mods, button: button, resize: resize})
	}
}

func parseButtonSpec(spec string) (uint16, xproto.Button, error) {
	parts := strings.Split(spec, "-")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("pointer binding %q needs modifier-button", spec)
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || n < 1 || n > 5 {
		return 0, 0, fmt.Errorf("pointer binding %q: bad button", spec)
	}
	var mods uint16
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "shift":
			mods |= xproto.ModMaskShift
		case "control", "ctrl":
			mods |= xproto.ModMaskControl
		case "mod1", "alt":
			mods |= xproto.ModMask1
		case "mod4", "super":
			mods |= xproto.ModMask4
		default:
			return 0, 0, fmt.Errorf("pointer binding %q: unknown modifier %q", spec, p)
		}
	}
	return mods, xproto.Button(n), nil
}

// grabButtons installs the pointer grabs on one client window: the
// configured drag buttons, plus a synchronous button-1 grab for
// click-to-focus so the click can be replayed to the application.
func (b *Backend) grabButtons(win xproto.Window) {
	for _, bg := range b.buttons {
		for _, extra := range ignoreMods {
			xproto.GrabButton(b.X.Conn(), false, win,
				uint16(xproto.EventMaskButtonPress),
				xproto.GrabModeAsync, xproto.GrabModeAsync,
				xproto.WindowNone, xproto.CursorNone,
				byte(bg.button), bg.mods|extra)
		}
	}
	if b.cfg.GetClickToFocus() {
		for _, extra := range ignoreMods {
			xproto.GrabButton(b.X.Conn(), false, win,
				uint16(xproto.EventMaskButtonPress),
				xproto.GrabModeSync, xproto.GrabModeAsync,
				xproto.WindowNone, xproto.CursorNone,
				xproto.ButtonIndex1, extra)
		}
	}
}

func (b *Backend) matchKey(ev xproto.KeyPressEvent) (wm.Command, bool) {
	mods := ev.State &^ (xproto.ModMaskLock | xproto.ModMask2)
	for _, kg := range b.keys {
		if kg.mods != mods {
			continue
		}
		for _, code := range kg.codes {
			if code == ev.Detail {
				return kg.cmd, true
			}
		}
	}
	return wm.Command{}, false
}

func (b *Backend) matchButton(ev xproto.ButtonPressEvent) (buttonGrab, bool) {
	mods := ev.State &^ (xproto.ModMaskLock | xproto.ModMask2)
	for _, bg := range b.buttons {
		if bg.button == xproto.Button(ev.Detail) && bg.mods == mods {
			return bg, true
		}
	}
	return buttonGrab{}, false
}

// dragState tracks an in-progress pointer move or resize.
type dragState struct {
	win            xproto.Window
	resize         bool
	startX, startY int
	origX, origY   int
	origW, origH   int
}

// beginDrag grabs the pointer and records the window's starting
// geometry. Returns false when the geometry or grab cannot be obtained.
func (b *Backend) beginDrag(win xproto.Window, resize bool, rootX, rootY int) bool {
	geom, err := xproto.GetGeometry(b.X.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return false
	}
	grab, err := xproto.GrabPointer(b.X.Conn(), false, b.Root,
		uint16(xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion),
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil || grab.Status != xproto.GrabStatusSuccess {
		return false
	}
	b.drag = &dragState{
		win:    win,
		resize: resize,
		startX: rootX, startY: rootY,
		origX: int(geom.X), origY: int(geom.Y),
		origW: int(geom.Width), origH: int(geom.Height),
	}
	return true
}

// dragMotion applies one pointer motion to the dragged window.
func (b *Backend) dragMotion(rootX, rootY int) {
	d := b.drag
	if d == nil {
		return
	}
	dx, dy := rootX-d.startX, rootY-d.startY
	if d.resize {
		w, h := d.origW+dx, d.origH+dy
		if w < b.cfg.MinWindowSize {
			w = b.cfg.MinWindowSize
		}
		if h < b.cfg.MinWindowSize {
			h = b.cfg.MinWindowSize
		}
		b.MoveResize(wm.Window(d.win), d.origX, d.origY, w, h)
		return
	}
	b.MoveResize(wm.Window(d.win), d.origX+dx, d.origY+dy, d.origW, d.origH)
}

// endDrag releases the pointer grab.
func (b *Backend) endDrag() {
	if b.drag == nil {
		return
	}
	xproto.UngrabPointer(b.X.Conn(), xproto.TimeCurrentTime)
	b.drag = nil
}
