package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"announcebot/internal/adapters/auth"
	"announcebot/internal/delivery/http/controllers"
	"announcebot/internal/domain"
	"announcebot/internal/extract"
	"announcebot/internal/services"
)

type memPending struct{ events []*domain.PendingEvent }

func (m *memPending) Insert(context.Context, *domain.PendingEvent) error {
	return errors.New("read only")
}
func (m *memPending) ListDue(context.Context, int) ([]*domain.PendingEvent, error) {
	return nil, nil
}
func (m *memPending) ListFrom(_ context.Context, from int) ([]*domain.PendingEvent, error) {
	var out []*domain.PendingEvent
	for _, e := range m.events {
		if e.EndDate >= from {
			out = append(out, e)
		}
	}
	return out, nil
}
func (m *memPending) DeleteBefore(context.Context, int) (int64, error) { return 0, nil }

type memRecurring struct{ entries []*domain.RecurringDate }

func (m *memRecurring) Reseed(context.Context, []domain.RecurringDate) error { return nil }
func (m *memRecurring) ListDue(context.Context, int) ([]*domain.RecurringDate, error) {
	return nil, nil
}
func (m *memRecurring) List(context.Context) ([]*domain.RecurringDate, error) {
	return m.entries, nil
}

func newTestRouter(t *testing.T, verifier domain.TokenVerifier) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pending := &memPending{events: []*domain.PendingEvent{{ID: 1, Name: "A", EndDate: 20990831}}}
	recurring := &memRecurring{entries: []*domain.RecurringDate{
		{SubjectName: "初音ミク", Date: 831, Category: domain.CategoryAnniversary},
	}}
	svc := services.NewScheduleQueryService(pending, recurring, extract.DefaultCatalog())
	return NewRouter(RouterConfig{
		Logger:   logger,
		Health:   controllers.NewHealthController(logger, nil),
		Schedule: controllers.NewScheduleController(logger, svc),
		Verifier: verifier,
	})
}

func TestRouter_OpenWithoutVerifier(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/health", "/api/pending", "/api/recurring", "/api/calendar.ics"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"), path)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(`{"text":"こんにちは"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/pending", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	router := newTestRouter(t, auth.NewJWTVerifier("secret"))
	token, err := auth.NewJWTIssuer("secret").Issue("ops", time.Hour)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/pending", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/pending", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"A"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code, "health stays open")
}

func TestRouter_Swagger(t *testing.T) {
	router := newTestRouter(t, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "announcebot ops API")
	assert.Contains(t, rr.Body.String(), "/api/calendar.ics")
}
