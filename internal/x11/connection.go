package x11

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/wm"
)

// rootEventMask is what makes this connection the window manager:
// substructure redirect routes map and configure attempts through us.
const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskPointerMotion

// Backend owns the X11 connection and implements every outbound sink
// the core needs. All methods must be called from the event loop
// goroutine.
type Backend struct {
	X    *xgbutil.XUtil
	Root xproto.Window

	cfg *config.Config
	log *slog.Logger

	atomWMProtocols    xproto.Atom
	atomWMDeleteWindow xproto.Atom
	atomNetWMState     xproto.Atom
	atomNetFullscreen  xproto.Atom
	atomNetActiveWin   xproto.Atom
	atomNetWMName      xproto.Atom

	colors map[wm.BorderColor]uint32

	keys    []keyGrab
	buttons []buttonGrab
	drag    *dragState

	// unmaps we caused ourselves; the matching UnmapNotify must not
	// remove the client
	ignoredUnmaps map[xproto.Window]int
}

// NewBackend establishes a connection to the X11 server and interns the
// atoms the manager needs.
func NewBackend(cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}
	keybind.Initialize(xu)

	b := &Backend{
		X:             xu,
		Root:          xu.RootWin(),
		cfg:           cfg,
		log:           logger,
		colors:        map[wm.BorderColor]uint32{},
		ignoredUnmaps: map[xproto.Window]int{},
	}
	for _, a := range []struct {
		name string
		dst  *xproto.Atom
	}{
		{"WM_PROTOCOLS", &b.atomWMProtocols},
		{"WM_DELETE_WINDOW", &b.atomWMDeleteWindow},
		{"_NET_WM_STATE", &b.atomNetWMState},
		{"_NET_WM_STATE_FULLSCREEN", &b.atomNetFullscreen},
		{"_NET_ACTIVE_WINDOW", &b.atomNetActiveWin},
		{"_NET_WM_NAME", &b.atomNetWMName},
	} {
		atom, err := xprop.Atm(xu, a.name)
		if err != nil {
			xu.Conn().Close()
			return nil, fmt.Errorf("interning %s: %w", a.name, err)
		}
		*a.dst = atom
	}
	return b, nil
}

// Manage claims window management on the root window. It fails when
// another window manager already holds the substructure redirect.
func (b *Backend) Manage() error {
	err := xproto.ChangeWindowAttributesChecked(
		b.X.Conn(), b.Root,
		xproto.CwEventMask, []uint32{uint32(rootEventMask)},
	).Check()
	if err != nil {
		return fmt.Errorf("another window manager is already running: %w", err)
	}
	return nil
}

// AllocColors resolves the configured border colors to pixel values on
// the default colormap. Allocation failure is fatal; the manager cannot
// indicate focus without them.
func (b *Backend) AllocColors() error {
	for _, c := range []struct {
		role wm.BorderColor
		hex  string
	}{
		{wm.BorderFocused, b.cfg.FocusColor},
		{wm.BorderUnfocused, b.cfg.UnfocusColor},
	} {
		pixel, err := b.allocColor(c.hex)
		if err != nil {
			return fmt.Errorf("allocating border color %s: %w", c.hex, err)
		}
		b.colors[c.role] = pixel
	}
	return nil
}

func (b *Backend) allocColor(hex string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0, err
	}
	r := uint16(v >> 16 & 0xff)
	g := uint16(v >> 8 & 0xff)
	bl := uint16(v & 0xff)
	cmap := b.X.Screen().DefaultColormap
	reply, err := xproto.AllocColor(b.X.Conn(), cmap, r*257, g*257, bl*257).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Pixel, nil
}

// Sinks bundles the backend for the core, with status publishing routed
// to the given sink.
func (b *Backend) Sinks(status wm.StatusSink) wm.Sinks {
	return wm.Sinks{Geometry: b, Focus: b, Closer: b, Spawner: b, Status: status}
}

// Adopt hands every viewable, non-override-redirect top-level window to
// the manager. Called once at startup so windows survive a restart.
func (b *Backend) Adopt(mgr *wm.Manager) {
	tree, err := xproto.QueryTree(b.X.Conn(), b.Root).Reply()
	if err != nil {
		b.log.Warn("query tree failed, adopting nothing", "err", err)
		return
	}
	for _, child := range tree.Children {
		attr, err := xproto.GetWindowAttributes(b.X.Conn(), child).Reply()
		if err != nil || attr.OverrideRedirect || attr.MapState != xproto.MapStateViewable {
			continue
		}
		b.grabButtons(child)
		mgr.Dispatch(b.windowInfo(child))
	}
}

// Close disconnects from the X server.
func (b *Backend) Close() {
	b.X.Conn().Close()
}
