package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elonfeng/shareradar/internal/store"
	"github.com/elonfeng/shareradar/pkg/track"
)

// Server provides the HTTP API.
type Server struct {
	store       store.Store
	coordinator *track.Coordinator
	port        int
}

// New creates a new HTTP server.
func New(s store.Store, coordinator *track.Coordinator, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:       s,
		coordinator: coordinator,
		port:        port,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/articles", s.handleArticles)
	mux.HandleFunc("/api/v1/cycle", s.handleCycle)

	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("shareradar server listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	states, err := s.store.ArticleStates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  states,
		"count": len(states),
	})
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	res, err := s.coordinator.Run(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
