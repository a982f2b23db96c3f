package api

import (
	"net/http"

	"nhooyr.io/websocket"
)

// wsEvents streams status lines to a websocket client, starting with
// the current line so the client never waits for the first change.
func (s *Server) wsEvents(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", "err", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")
	s.log.Debug("websocket connected", "remote", r.RemoteAddr)

	ctx := r.Context()
	lines, cancel := s.status.Subscribe()
	defer cancel()

	if last := s.status.Last(); last != "" {
		if err := c.Write(ctx, websocket.MessageText, []byte(last)); err != nil {
			return
		}
	}
	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case line := <-lines:
			if err := c.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
				return
			}
		}
	}
}
