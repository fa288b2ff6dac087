// Package server provides the HTTP server for the Mudra hand analysis service.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/metrics", metrics.Handler())
	s.mux.Handle("/api/calibrate", api.NewCalibrateHandler())

	// Register session API handlers if App is configured
	if s.config.App != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.App)
		streamHandler := NewStreamHandler(s.config.App)

		// Use a wrapper to route between REST and WebSocket handlers
		sessionRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if this is a stream request: /api/sessions/{id}/stream
			if strings.HasSuffix(r.URL.Path, "/stream") {
				streamHandler.ServeHTTP(w, r)
				return
			}
			sessionsHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/sessions", sessionRouter)
		s.mux.Handle("/api/sessions/", sessionRouter)
	}

	// Register profile and hook API handlers if Store is configured
	if s.config.Store != nil {
		profilesHandler := api.NewProfilesHandler(s.config.Store)
		s.mux.Handle("/api/profiles", profilesHandler)
		s.mux.Handle("/api/profiles/", profilesHandler)

		hooksHandler := api.NewHooksHandler(s.config.Store)
		s.mux.Handle("/api/hooks", hooksHandler)
		s.mux.Handle("/api/hooks/", hooksHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
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
