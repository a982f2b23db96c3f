package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/stackwm/internal/wm"
)

// Screens queries Xinerama for the attached display regions. When the
// extension is missing or reports nothing, the root window geometry
// serves as a single screen.
func (b *Backend) Screens() ([]wm.Screen, error) {
	if err := xinerama.Init(b.X.Conn()); err == nil {
		if reply, err := xinerama.QueryScreens(b.X.Conn()).Reply(); err == nil && len(reply.ScreenInfo) > 0 {
			screens := make([]wm.Screen, 0, len(reply.ScreenInfo))
			for _, si := range reply.ScreenInfo {
				screens = append(screens, wm.Screen{
					X: int(si.XOrg), Y: int(si.YOrg),
					W: int(si.Width), H: int(si.Height),
				})
			}
			return screens, nil
		}
	}

	geom, err := xproto.GetGeometry(b.X.Conn(), xproto.Drawable(b.Root)).Reply()
	if err != nil {
		return nil, fmt.Errorf("root geometry: %w", err)
	}
	return []wm.Screen{{W: int(geom.Width), H: int(geom.Height)}}, nil
}
