package wm

import "github.com/1broseidon/stackwm/internal/layout"

// maxClientName bounds the stored window title; it is display-only.
const maxClientName = 256

// Client is the core's record for one managed top-level window. A
// client belongs to exactly one desktop of exactly one monitor and
// appears in exactly one client list at any time.
//
// Transient is kept separate from Floating: floating windows can be
// reset to their tiling position, transients always float.
type Client struct {
	Win        Window
	Name       string
	Monitor    int
	Urgent     bool
	Transient  bool
	Fullscreen bool
	Floating   bool

	// rect is the last geometry the manager emitted for this client,
	// used to fill in fields a partial configure request leaves out.
	rect layout.Rect
}

// fft reports whether the client is excluded from tiling (fullscreen,
// floating or transient).
func (c *Client) fft() bool {
	return c.Fullscreen || c.Floating || c.Transient
}

// SetName stores a bounded copy of the window title.
func (c *Client) SetName(name string) {
	if len(name) > maxClientName {
		name = name[:maxClientName]
	}
	c.Name = name
}
