package wm

// Window identifies a top-level window to the backend. The core treats
// it as opaque and never interprets the value.
type Window uint32

// BorderColor selects a configured border palette entry.
type BorderColor int

const (
	BorderUnfocused BorderColor = iota
	BorderFocused
)

// GeometrySink applies geometry and stacking decisions. Calls are
// fire-and-forget; the core never consumes a result.
type GeometrySink interface {
	MoveResize(w Window, x, y, width, height int)
	SetBorderWidth(w Window, px int)
	SetBorderColor(w Window, c BorderColor)
	Raise(w Window)
	Map(w Window)
	Unmap(w Window)
	SetFullscreenHint(w Window, on bool)
}

// FocusSink owns the protocol-level focus indicators.
type FocusSink interface {
	SetInputFocus(w Window)
	SetActiveWindow(w Window)
	ClearActiveWindow()
}

// WindowCloser terminates windows. Delete asks politely (falling back
// to Kill when the window does not participate in the close protocol);
// Kill is unconditional.
type WindowCloser interface {
	Delete(w Window)
	Kill(w Window)
}

// Spawner launches an external command detached from the manager.
type Spawner interface {
	Spawn(argv []string)
}

// StatusSink receives one machine-readable state line per refresh.
type StatusSink interface {
	Publish(line string)
}

// Sinks bundles every outbound dependency of the core.
type Sinks struct {
	Geometry GeometrySink
	Focus    FocusSink
	Closer   WindowCloser
	Spawner  Spawner
	Status   StatusSink
}
