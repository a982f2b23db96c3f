package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/1broseidon/stackwm/internal/wm"
)

// Server exposes the command surface and the status stream over HTTP.
// It never touches the manager directly: commands go into the channel
// the event loop drains, status comes out of the stream the manager
// publishes to.
type Server struct {
	log      *slog.Logger
	status   *StatusStream
	commands chan<- wm.Command
	http     *http.Server
}

// NewServer builds the HTTP server on the given listen address.
func NewServer(addr string, status *StatusStream, commands chan<- wm.Command, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{log: logger, status: status, commands: commands}

	router := mux.NewRouter()
	router.HandleFunc("/status", s.getStatus).Methods("GET")
	router.HandleFunc("/command", s.postCommand).Methods("POST")
	router.HandleFunc("/events", s.wsEvents).Methods("GET")
	router.PathPrefix("/").Handler(http.NotFoundHandler())

	s.http = &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    5 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

// Start serves until Shutdown. A closed listener is not an error.
func (s *Server) Start() error {
	s.log.Info("api listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.log.Debug("api request", "status", status, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]any{
		"status": strings.TrimSuffix(s.status.Last(), "\n"),
	})
}

// postCommand accepts {"command": "change-desktop 2"} and queues it for
// the event loop. Parse errors are the caller's fault; a full queue
// means the manager is gone.
func (s *Server) postCommand(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, r, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return
	}
	cmd, err := wm.ParseCommand(body.Command)
	if err != nil {
		s.jsonResponse(w, r, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return
	}
	select {
	case s.commands <- cmd:
		s.jsonResponse(w, r, http.StatusAccepted, map[string]any{"queued": cmd.Name})
	case <-time.After(time.Second):
		s.jsonResponse(w, r, http.StatusServiceUnavailable, map[string]any{"error": "command queue stalled"})
	}
}
