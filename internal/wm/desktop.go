package wm

import "github.com/1broseidon/stackwm/internal/layout"

// DesktopState is the saved working set of one desktop: layout
// parameters, the ordered client list and the focus pair. A monitor
// keeps one DesktopState per desktop and swaps them in and out of its
// live fields with SaveDesktop/SelectDesktop; that save/select protocol
// is what makes desktop switching instant.
type DesktopState struct {
	Mode       layout.Mode
	MasterSize int
	Growth     int
	Clients    []*Client
	Current    *Client
	PrevFocus  *Client
	ShowPanel  bool
}
