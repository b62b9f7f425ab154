// Package httpapi exposes the hub over HTTP: the WebSocket endpoint the
// clients dial plus health and metrics.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/ride-hub/internal/hub"
	"github.com/example/ride-hub/internal/presence"
)

type Server struct {
	logger   *slog.Logger
	hub      *hub.Hub
	presence *presence.Mirror
	mux      *mux.Router
}

// NewServer builds the router around an already-wired hub. presence may
// be nil; /ready then only reports process liveness.
func NewServer(logger *slog.Logger, h *hub.Hub, mirror *presence.Mirror) *Server {
	s := &Server{logger: logger, hub: h, presence: mirror, mux: mux.NewRouter()}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
	s.mux.HandleFunc("/ready", s.handleReady).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

var upgrader = websocket.Upgrader{
	// Demo service: browser dashboards connect from any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS upgrades the connection and hands it to the hub. The role is
// decided by the client's first registration message, not the URL.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "remote_addr", remoteIP(r))
		return
	}
	s.hub.ServeConn(conn)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.presence != nil {
		if err := s.presence.Ping(r.Context()); err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
