package backend

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	secret      string
	middlewares []func(http.Handler) http.Handler
	metrics     http.Handler
}

// WithAuthSecret requires HS256 bearer tokens signed with secret on /api routes.
func WithAuthSecret(secret string) HandlerOption {
	return func(c *handlerConfig) {
		c.secret = secret
	}
}

// WithMiddleware adds a router-wide middleware, e.g. request metrics.
func WithMiddleware(mw func(http.Handler) http.Handler) HandlerOption {
	return func(c *handlerConfig) {
		c.middlewares = append(c.middlewares, mw)
	}
}

// WithMetricsHandler mounts h at GET /metrics, outside authentication.
func WithMetricsHandler(h http.Handler) HandlerOption {
	return func(c *handlerConfig) {
		c.metrics = h
	}
}

// NewHandler exposes svc over the JSON API used by the conversation client.
func NewHandler(svc *Service, opts ...HandlerOption) http.Handler {
	cfg := &handlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.secret))
		r.Get("/availability", h.availability)
		r.Post("/book", h.book)
		r.Post("/reschedule", h.reschedule)
		r.Post("/cancel", h.cancel)
		r.Get("/bookings/{id}", h.getBooking)
	})
	return r
}

type handler struct {
	svc *Service
}

// GET /api/availability?date=YYYY-MM-DD&appointmentType=...
func (h *handler) availability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	typ := domain.AppointmentTypeKey(r.URL.Query().Get("appointmentType"))
	if date == "" || typ == "" {
		writeError(w, http.StatusBadRequest, "date and appointmentType are required")
		return
	}

	slots, err := h.svc.Availability(r.Context(), date, typ)
	if err != nil {
		h.fail(w, err)
		return
	}
	if slots == nil {
		slots = []domain.AvailabilitySlot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

// POST /api/book
func (h *handler) book(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.Book(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// POST /api/reschedule
func (h *handler) reschedule(w http.ResponseWriter, r *http.Request) {
	var req domain.RescheduleRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.Reschedule(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/cancel
func (h *handler) cancel(w http.ResponseWriter, r *http.Request) {
	var req domain.CancelRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.Cancel(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/bookings/{id}
func (h *handler) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.ledger.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSlotUnavailable), errors.Is(err, domain.ErrBookingInactive):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.svc.logger.Error("request failed", "err", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
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
