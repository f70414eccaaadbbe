// Package server provides the HTTP API for the chime hub.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/grovetools/chime/internal/hub"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/pkg/api"
	"github.com/grovetools/chime/version"
)

// Server manages the hub's HTTP server over a Unix socket.
type Server struct {
	logger *logrus.Entry
	server *http.Server
	hub    *hub.Hub
}

// New creates a new Server serving the given hub.
func New(h *hub.Hub) *Server {
	return &Server{
		logger: logging.NewLogger("server"),
		hub:    h,
	}
}

// ListenAndServe starts the API on the given unix socket path.
// It blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	// Cleanup stale socket
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	// Set restrictive permissions on socket
	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.server = &http.Server{
		Handler: h2c.NewHandler(s.mux(), &http2.Server{}),
	}

	s.logger.WithField("socket", socketPath).Info("Hub API listening")
	return s.server.Serve(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/read", s.handleHistoryRead)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/focus", s.handleFocus)
	mux.HandleFunc("/api/test", s.handleTest)
	mux.HandleFunc("/api/events", s.handleEvents)
	return mux
}

// handleHealth reports liveness without touching hub state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok", Version: version.Version})
}

// handleStatus returns a full hub snapshot as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.hub.Status())
}

// handleSessions returns all tracked sessions plus aggregate metrics.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, metrics := s.hub.SessionViews()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.SessionsResponse{
		Sessions: sessions,
		Metrics:  metrics,
		Tooltip:  s.hub.Tooltip(),
	})
}

// handleMetrics returns the aggregate metrics alone, for statuslines
// that only want the totals.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	_, metrics := s.hub.SessionViews()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}

// handleHistory serves GET (list, with optional limit= and unread=true
// filters) and DELETE (clear everything).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}
		unreadOnly := r.URL.Query().Get("unread") == "true"

		entries, err := s.hub.History().List(limit, unreadOnly)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.HistoryResponse{Entries: entries, Unread: s.hub.Unread()})

	case http.MethodDelete:
		if err := s.hub.History().Clear(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Info("History cleared")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleHistoryRead marks a single entry read when the body carries an
// id, and otherwise acknowledges everything: unread counter and all
// stored entries.
func (s *Server) handleHistoryRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID != "" {
		if err := s.hub.History().MarkRead(req.ID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	} else {
		s.hub.ResetUnread()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"unread": s.hub.Unread()})
}

// handleSettings serves GET (current notification settings) and PUT
// (persist new settings and apply them immediately).
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.hub.Settings())

	case http.MethodPut:
		var req api.Settings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.hub.UpdateSettings(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.hub.Settings())

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleFocus records dashboard visibility reported by a client.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req api.FocusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.hub.SetFocused(req.Focused)
	s.logger.WithFields(logrus.Fields{
		"focused": req.Focused,
		"client":  req.Client,
	}).Debug("Focus updated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"focused": req.Focused})
}

// handleTest emits a synthetic notification through the full delivery
// pipeline and returns what was sent.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req api.TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.hub.TestNotification(req.Kind))
}

// handleEvents provides Server-Sent Events (SSE) for live hub updates.
// Dashboards subscribe here instead of polling the other endpoints.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Ensure the connection supports flushing
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Subscribe to hub events
	ch := s.hub.Events().Subscribe()
	defer s.hub.Events().Unsubscribe(ch)

	// Send initial ping to confirm connection
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	s.logger.Debug("SSE client connected")

	// Send a snapshot immediately so the client has data right away
	sessions, metrics := s.hub.SessionViews()
	unread := s.hub.Unread()
	snapshot := []api.StreamEvent{
		{Type: api.EventSessions, Sessions: sessions, Metrics: &metrics},
		{Type: api.EventUnread, Unread: &unread},
	}
	for _, ev := range snapshot {
		if data, err := json.Marshal(ev); err == nil {
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.WithError(err).Error("Failed to marshal event")
				continue
			}
			// SSE format: "data: {json}\n\n"
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
