// Package httpapi exposes the engine over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/PizaSukeruton/tmbot3000/internal/engine"
	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

// Server serves the ask endpoint.
type Server struct {
	engine *engine.Engine
	log    zerolog.Logger
}

// New creates an HTTP server over the engine.
func New(eng *engine.Engine, log zerolog.Logger) *Server {
	return &Server{engine: eng, log: log}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/ask", s.handleAsk)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json body"}`, http.StatusBadRequest)
		return
	}

	resp := s.engine.GenerateResponse(r.Context(), req)

	s.log.Debug().
		Str("intent", string(resp.Intent)).
		Str("type", string(resp.Type)).
		Msg("httpapi: answered")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
