// Package server provides the HTTP control surface for the NextSight
// application: zone and process management, statistics, and a live event
// feed.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stackTD/NextSight-v2/internal/app"
	"github.com/stackTD/NextSight-v2/internal/server/api"
	"github.com/stackTD/NextSight-v2/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       *app.App
	Store     *store.Store
}

// Server represents the HTTP server for the NextSight application.
type Server struct {
	config Config
	mux    *http.ServeMux
	events *EventsHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		events: NewEventsHandler(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		zoneHandler := api.NewZoneHandler(s.config.App)
		s.mux.Handle("/api/zones", zoneHandler)
		s.mux.Handle("/api/zones/", zoneHandler)

		processHandler := api.NewProcessHandler(s.config.App)
		s.mux.Handle("/api/processes", processHandler)
		s.mux.Handle("/api/processes/", processHandler)

		statsHandler := api.NewStatsHandler(s.config.App, s.config.Store)
		s.mux.Handle("/api/stats", statsHandler)

		streamHandler := NewStreamHandler(s.config.App.Camera())
		s.mux.Handle("/api/stream", streamHandler)
	}

	if s.config.Store != nil {
		eventsAPI := api.NewEventsAPIHandler(s.config.Store)
		s.mux.Handle("/api/events", eventsAPI)
	}

	// Live event feed over WebSocket.
	s.mux.Handle("/api/ws", s.events)

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Events returns the live event feed handler, for wiring broadcasts.
func (s *Server) Events() *EventsHandler {
	return s.events
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
