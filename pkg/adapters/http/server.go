package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anurags10/medibook"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
	"github.com/anurags10/medibook/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes one conversation over HTTP.
type Server struct {
	Conversation ports.Conversation
	logger       *slog.Logger
	metrics      http.Handler
	middlewares  []func(http.Handler) http.Handler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the structured logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithServerMiddleware adds a router middleware, e.g. request metrics.
func WithServerMiddleware(mw func(http.Handler) http.Handler) ServerOption {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mw)
	}
}

// TurnRequest is the body of POST /v1/turns.
type TurnRequest struct {
	Text string `json:"text"`
}

// NewHandler creates the chat API handler for conv.
func NewHandler(conv ports.Conversation, opts ...ServerOption) http.Handler {
	s := &Server{
		Conversation: conv,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	for _, mw := range s.middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/greeting", s.GetGreeting)
		r.Get("/state", s.GetState)
		r.Post("/turns", s.PostTurn)
		r.Post("/reset", s.PostReset)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostTurn handles POST /v1/turns.
func (s *Server) PostTurn(w http.ResponseWriter, r *http.Request) {
	var body TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("turn: invalid request body", "err", err)
		return
	}

	text, err := runner.SanitizeInput(body.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		s.logger.Warn("turn: input rejected", "err", err, "size", len(body.Text))
		return
	}

	reply, err := s.Conversation.Turn(r.Context(), text)
	if err != nil {
		s.fail(w, "turn", err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// PostReset handles POST /v1/reset.
func (s *Server) PostReset(w http.ResponseWriter, r *http.Request) {
	if err := s.Conversation.Reset(r.Context()); err != nil {
		s.fail(w, "reset", err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Reply{
		Message:  s.Conversation.Greeting(),
		Snapshot: s.Conversation.Snapshot(),
	})
}

// GetState handles GET /v1/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Conversation.Snapshot())
}

// GetGreeting handles GET /v1/greeting.
func (s *Server) GetGreeting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": s.Conversation.Greeting()})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "medibook-http",
		"version": strings.TrimSpace(medibook.Version),
	})
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrBusy) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.logger.Error(op+" failed", "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
