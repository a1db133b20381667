// Package server exposes the grammar-check API over HTTP.
//
// Routes:
//
//   - POST /api/grammar-check    — run one check through the orchestrator
//   - POST /api/apply-suggestion — apply one accepted suggestion to a text
//   - GET  /api/health           — provider credential availability
//   - GET  /api/session          — usage aggregate snapshot
//   - GET  /metrics              — Prometheus scrape endpoint
//
// Every other path answers 404 with a JSON body. API routes sit behind a
// per-client rate limiter and the observability middleware.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inklint/inklint/internal/checker"
	"github.com/inklint/inklint/internal/health"
	"github.com/inklint/inklint/internal/observe"
	"github.com/inklint/inklint/internal/session"
	"github.com/inklint/inklint/internal/textedit"
	"github.com/inklint/inklint/pkg/provider/grammar"
	"github.com/inklint/inklint/pkg/types"
)

const (
	// DefaultMaxBodyBytes caps the JSON request body, mirroring the 10MB
	// transport-level limit of the original API.
	DefaultMaxBodyBytes int64 = 10 << 20

	// DefaultRequestsPerMinute is the per-client API rate cap.
	DefaultRequestsPerMinute = 20
)

// Config carries the server's immutable settings.
type Config struct {
	// MaxBodyBytes caps request body size. Zero uses [DefaultMaxBodyBytes].
	MaxBodyBytes int64

	// RequestsPerMinute is the per-client rate cap. Zero uses
	// [DefaultRequestsPerMinute].
	RequestsPerMinute int

	// Services reports which provider credentials are configured, for the
	// health endpoint.
	Services health.Services
}

// Server wires the orchestrator, session aggregate, and metrics into HTTP
// handlers. Construct with [New]; safe for concurrent use.
type Server struct {
	cfg     Config
	orc     *checker.Orchestrator
	agg     *session.Aggregate
	metrics *observe.Metrics
}

// New creates a [Server]. agg may be nil to disable session accounting.
func New(cfg Config, orc *checker.Orchestrator, agg *session.Aggregate, metrics *observe.Metrics) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	return &Server{cfg: cfg, orc: orc, agg: agg, metrics: metrics}
}

// Handler assembles the routing table with rate limiting on /api/ routes and
// the observability middleware around everything.
func (s *Server) Handler() http.Handler {
	rl := newRateLimiter(s.cfg.RequestsPerMinute)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/grammar-check", s.handleCheck)
	api.HandleFunc("POST /api/apply-suggestion", s.handleApply)
	health.New(s.cfg.Services).Register(api)
	api.HandleFunc("GET /api/session", s.handleSession)
	api.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Route not found"})
	})

	root := http.NewServeMux()
	root.Handle("/api/", s.limitMiddleware(rl, api))
	root.Handle("GET /metrics", promhttp.Handler())
	root.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Route not found"})
	})

	return observe.Middleware(s.metrics)(root)
}

// limitMiddleware applies the per-client rate limiter to next, answering 429
// with the JSON body the original API contract promises and counting the
// rejection.
func (s *Server) limitMiddleware(rl *rateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			s.metrics.RateLimitedRequests.Add(r.Context(), 1)
			writeJSON(w, http.StatusTooManyRequests, errorBody{
				Error: "Too many requests, please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkRequest is the body of POST /api/grammar-check.
type checkRequest struct {
	Text string `json:"text"`
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error    string `json:"error"`
	Fallback bool   `json:"fallback,omitempty"`
}

// handleCheck runs one grammar check. Failures map to the documented status
// codes: 400 for over-length input, 500 with fallback:true for everything a
// provider chain could not recover.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	ctx := r.Context()
	s.metrics.ActiveChecks.Add(ctx, 1)
	defer s.metrics.ActiveChecks.Add(ctx, -1)

	result, err := s.orc.Check(ctx, req.Text)
	if err != nil {
		ge, ok := grammar.AsError(err)
		if ok && ge.Kind == grammar.FailureTooLong {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: ge.Message})
			return
		}

		observe.Logger(ctx).Error("grammar check failed", "err", err)
		msg := "Internal server error"
		if ok {
			msg = ge.Message
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msg, Fallback: true})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// applyRequest is the body of POST /api/apply-suggestion. Errors carries the
// caller's pending set so the server stays stateless across edits.
type applyRequest struct {
	Text       string            `json:"text"`
	Errors     []types.TextError `json:"errors"`
	ErrorID    string            `json:"errorId"`
	Suggestion string            `json:"suggestion"`
}

// applyResponse is the body returned by POST /api/apply-suggestion.
type applyResponse struct {
	Text   string            `json:"text"`
	Errors []types.TextError `json:"errors"`
}

// handleApply applies one accepted suggestion. An unknown errorId is a
// silent no-op per the applicator contract, still answered 200.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	newText, remaining := textedit.Apply(req.Text, req.Errors, req.ErrorID, req.Suggestion)
	if s.agg != nil && len(remaining) < len(req.Errors) {
		s.agg.SuggestionApplied()
	}

	writeJSON(w, http.StatusOK, applyResponse{Text: newText, Errors: remaining})
}

// handleSession returns the usage aggregate snapshot.
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	if s.agg == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Route not found"})
		return
	}
	writeJSON(w, http.StatusOK, s.agg.Summary())
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing better to do than log.
		slog.Error("encode response", "err", err)
	}
}
