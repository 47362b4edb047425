package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/wardkeep/audit"
	"github.com/mhollis/wardkeep/clock"
	"github.com/mhollis/wardkeep/config"
	"github.com/mhollis/wardkeep/guard"
	"github.com/mhollis/wardkeep/protect"
	"github.com/mhollis/wardkeep/storage/memory"
)

func newTestAPI(t *testing.T) (*API, *guard.Guard) {
	t.Helper()
	cfg := config.Default()
	cfg.Secret = "test-secret"
	cfg.Fingerprint = "test-fp"

	clk := clock.NewManual(time.Unix(1_700_000_000, 0))
	g, err := guard.New(cfg, memory.New(), guard.WithClock(clk))
	require.NoError(t, err)
	return New(g), g
}

func doRequest(t *testing.T, a *API, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := doRequest(t, a, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestListEvents(t *testing.T) {
	a, g := newTestAPI(t)

	g.Events.Record(audit.EventLoginAttempt, audit.SeverityLow, nil)
	g.Events.Record(audit.EventCSRFMismatch, audit.SeverityHigh, nil)

	rec := doRequest(t, a, http.MethodGet, "/events")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, audit.EventLoginAttempt, resp.Events[0].Type)
}

func TestListEvents_TypeFilter(t *testing.T) {
	a, g := newTestAPI(t)

	g.Events.Record(audit.EventLoginAttempt, audit.SeverityLow, nil)
	g.Events.Record(audit.EventCSRFMismatch, audit.SeverityHigh, nil)

	rec := doRequest(t, a, http.MethodGet, "/events?type=csrf_mismatch")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, audit.EventCSRFMismatch, resp.Events[0].Type)
}

func TestClearEvents(t *testing.T) {
	a, g := newTestAPI(t)

	g.Events.Record(audit.EventLoginAttempt, audit.SeverityLow, nil)

	rec := doRequest(t, a, http.MethodDelete, "/events")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, g.Events.Events(""))
}

func TestExportData(t *testing.T) {
	a, g := newTestAPI(t)

	require.NoError(t, g.Store.Set(protect.KeyPreferences, map[string]any{"theme": "dark"}))

	rec := doRequest(t, a, http.MethodGet, "/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "wardkeep-export.json")

	var bundle protect.ExportBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
	assert.Equal(t, map[string]any{"theme": "dark"}, bundle.Preferences)
}

func TestDeleteData(t *testing.T) {
	a, g := newTestAPI(t)

	require.NoError(t, g.Store.Set(protect.KeyBehavior, map[string]any{"visits": 1}))

	rec := doRequest(t, a, http.MethodDelete, "/data")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	found, err := g.Store.Get(protect.KeyBehavior, nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpenAPISpecServed(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := doRequest(t, a, http.MethodGet, "/openapi.yaml")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wardkeep Operator Dashboard")
}
