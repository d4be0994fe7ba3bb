package observability_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStepEnter(ctx, &domain.StepEvent{Intent: domain.IntentBook, ToStep: domain.StepBookDate})
	hooks.OnStepEnter(ctx, &domain.StepEvent{Intent: domain.IntentBook, ToStep: domain.StepBookDate})
	hooks.OnRemoteReturn(ctx, &domain.RemoteEvent{Op: domain.OpBook, Duration: 20 * time.Millisecond})
	hooks.OnRemoteReturn(ctx, &domain.RemoteEvent{Op: domain.OpBook, Err: errors.New("409")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StepEnters.WithLabelValues("book", "book_date")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("book", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("book", "error")))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := observability.NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/bookings/{id}", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "medibook_http_requests_total"))
}
