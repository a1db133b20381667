// Package health provides the HTTP health check handler.
//
// GET /api/health reports process liveness plus which provider credentials
// are configured, so a frontend can tell whether checks will be served by a
// real backend or by the local heuristic fallback. No core logic runs here.
package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Services reports which provider credentials are configured.
type Services struct {
	OpenAI bool `json:"openai"`
	Gemini bool `json:"gemini"`
}

// result is the JSON response body for the health endpoint.
type result struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Services  Services `json:"services"`
}

// Handler serves the health endpoint. It is safe for concurrent use; the
// service flags are fixed at construction time.
type Handler struct {
	services Services
}

// New creates a [Handler] reporting the given credential availability.
func New(services Services) *Handler {
	return &Handler{services: services}
}

// Health always returns 200 OK: a process able to serve HTTP is healthy.
// The body carries the configured-provider flags and a UTC timestamp.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, result{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  h.services,
	})
}

// Register adds the /api/health route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode health response", "err", err)
	}
}
