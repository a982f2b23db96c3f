package layout

import "fmt"

// Mode selects the tiling policy for a desktop.
type Mode int

const (
	Tile    Mode = iota // master column on the left, stack on the right
	Monocle             // every window covers the whole usable area
	BStack              // master row on top, stack below
	Grid                // near-square grid
)

var modeNames = map[Mode]string{
	Tile:    "tile",
	Monocle: "monocle",
	BStack:  "bstack",
	Grid:    "grid",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a config-level mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown layout mode: %q", s)
}

// Rect is a window geometry in root coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Item describes one client as the engine sees it. Fullscreen, floating
// and transient items keep whatever geometry they already have and are
// never placed by Arrange.
type Item struct {
	Fullscreen bool
	Floating   bool
	Transient  bool
}

// Tileable reports whether the item participates in automatic placement.
func (it Item) Tileable() bool {
	return !it.Fullscreen && !it.Floating && !it.Transient
}

// Params carries everything Arrange needs besides the items themselves.
type Params struct {
	Mode           Mode
	Usable         Rect    // monitor area with panel space already excluded
	MasterFraction float64 // share of the split axis the master starts with
	MasterSize     int     // user adjustment to the master area, in pixels
	Growth         int     // extra pixels granted to the first stack window
	BorderWidth    int
}

// Placement pairs an input index with its computed geometry.
type Placement struct {
	Index int
	Rect  Rect
}

// Arrange computes a target rectangle for every tileable item and
// nothing else. It performs no I/O; callers apply the placements.
func Arrange(items []Item, p Params) []Placement {
	switch p.Mode {
	case Monocle:
		return monocle(items, p)
	case Grid:
		return grid(items, p)
	default:
		return stack(items, p)
	}
}

// monocle gives every tileable item the full usable rectangle. Stacking
// order decides which one is on top; borders are zeroed elsewhere.
func monocle(items []Item, p Params) []Placement {
	var out []Placement
	for i, it := range items {
		if !it.Tileable() {
			continue
		}
		out = append(out, Placement{Index: i, Rect: p.Usable})
	}
	return out
}

// stack implements the master/stack split for Tile and BStack. The
// master takes usable_axis*MasterFraction+MasterSize along the split
// axis; the remaining windows divide the orthogonal length evenly,
// with the division remainder and the growth both granted to the first
// stack window so the last window's edge lands exactly on the usable
// rectangle's far edge.
func stack(items []Item, p Params) []Placement {
	first, n := -1, 0
	for i, it := range items {
		if !it.Tileable() {
			continue
		}
		if first < 0 {
			first = i
		} else {
			n++
		}
	}
	if first < 0 {
		return nil
	}

	bottom := p.Mode == BStack
	ux, uy, uw, uh := p.Usable.X, p.Usable.Y, p.Usable.Width, p.Usable.Height
	bw := p.BorderWidth

	// A lone tileable window covers the whole usable area.
	if n == 0 {
		return []Placement{{Index: first, Rect: Rect{ux, uy, uw - 2*bw, uh - 2*bw}}}
	}

	axis := uw
	if bottom {
		axis = uh
	}
	ma := int(float64(axis)*p.MasterFraction) + p.MasterSize

	// z is each stack window's share of the stack axis, d the remainder
	// plus growth handed to the first stack window. A single stack
	// window simply keeps the full length.
	z := uh
	if bottom {
		z = uw
	}
	d := 0
	if n > 1 {
		d = (z-p.Growth)%n + p.Growth
		z = (z - p.Growth) / n
	}

	out := make([]Placement, 0, n+1)
	rest := make([]int, 0, n)
	for i := first + 1; i < len(items); i++ {
		if items[i].Tileable() {
			rest = append(rest, i)
		}
	}

	if bottom {
		out = append(out, Placement{Index: first, Rect: Rect{ux, uy, uw - 2*bw, ma - bw}})
		cw := uh - 2*bw - ma // stack row height
		ch := z - bw
		cx, cy := ux, uy+ma
		out = append(out, Placement{Index: rest[0], Rect: Rect{cx, cy, ch - bw + d, cw}})
		cx += ch + d
		for _, i := range rest[1:] {
			out = append(out, Placement{Index: i, Rect: Rect{cx, cy, ch, cw}})
			cx += z
		}
		return out
	}

	out = append(out, Placement{Index: first, Rect: Rect{ux, uy, ma - bw, uh - 2*bw}})
	cw := uw - 2*bw - ma // stack column width
	ch := z - bw
	cx, cy := ux+ma, uy
	out = append(out, Placement{Index: rest[0], Rect: Rect{cx, cy, cw, ch - bw + d}})
	cy += ch + d
	for _, i := range rest[1:] {
		out = append(out, Placement{Index: i, Rect: Rect{cx, cy, cw, ch}})
		cy += z
	}
	return out
}

// grid arranges tileable items in the smallest near-square grid, filling
// column by column. Columns past cols-(n%cols) receive one extra row.
// n == 5 is forced to two columns; that override is a deliberate policy
// carried over from the original layout, not an optimization target.
func grid(items []Item, p Params) []Placement {
	n := 0
	for _, it := range items {
		if it.Tileable() {
			n++
		}
	}
	if n == 0 {
		return nil
	}

	cols := 0
	for cols = 0; cols <= n/2; cols++ {
		if cols*cols >= n {
			break
		}
	}
	if n == 5 {
		cols = 2
	}
	if cols == 0 {
		cols = 1
	}

	ux, uy, uw, uh := p.Usable.X, p.Usable.Y, p.Usable.Width, p.Usable.Height
	bw := p.BorderWidth
	rows := n / cols
	ch := uh - bw
	cw := (uw - bw) / cols

	out := make([]Placement, 0, n)
	i, cn, rn := -1, 0, 0
	for idx, it := range items {
		if !it.Tileable() {
			continue
		}
		i++
		if i/rows+1 > cols-n%cols {
			rows = n/cols + 1
		}
		out = append(out, Placement{Index: idx, Rect: Rect{
			X:      ux + cn*cw,
			Y:      uy + rn*ch/rows,
			Width:  cw - bw,
			Height: ch/rows - bw,
		}})
		rn++
		if rn >= rows {
			rn = 0
			cn++
		}
	}
	return out
}
