package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiodash/internal/cache"
	"radiodash/internal/core"
	applog "radiodash/internal/log"
	"radiodash/internal/middleware/ratelimit"
	"radiodash/internal/services"
	"radiodash/internal/source/memory"
)

var now = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func sampleRows() []core.RawRow {
	return []core.RawRow{
		{Client: "Acme", Agency: "Norte", HasAgency: true, Code: "C1", Insertions: "120", StartDate: "01/10/2026", EndDate: "31/12/2026"},
		{Client: "Beta", Code: "C2", Insertions: "80", StartDate: "01/01/2026", EndDate: "20/10/2026"},
		{Client: "Gama", Agency: "Sul", HasAgency: true, Code: "C3", Insertions: "1500", StartDate: "01/02/2026", EndDate: "01/02/2027"},
	}
}

func newTestServer(t *testing.T, store *memory.Store, limit ratelimit.Config) *Server {
	t.Helper()
	logger := applog.New(applog.Config{Level: slog.LevelError, Output: io.Discard})
	reports := cache.NewReportCache(core.ParseOptions{}, func() time.Time { return now }, logger.Logger)
	srv, err := NewServer(":0", services.NewReportService(store, reports, logger.Logger), Options{
		CORSOrigins:    []string{"http://localhost:8081"},
		Logger:         logger,
		AdminRateLimit: limit,
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.limiter.Stop() })
	return srv
}

func do(srv *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestDashboardPage(t *testing.T) {
	srv := newTestServer(t, memory.New("radio", sampleRows()), ratelimit.Config{})

	rr := do(srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))

	body := rr.Body.String()
	assert.Contains(t, body, "Cliente Destaque")
	assert.Contains(t, body, "1.700")
	assert.Contains(t, body, "Gama")
	assert.Contains(t, body, "Dados Detalhados de Contratos (Movimentação de Outubro de 2026)")
	assert.Contains(t, body, "conic-gradient(")
	assert.Contains(t, body, `value="Beta" checked`)
	assert.Contains(t, body, "Sim")
	assert.NotContains(t, body, "ZgotmplZ")
}

func TestDashboardPage_EmptySelection(t *testing.T) {
	srv := newTestServer(t, memory.New("radio", sampleRows()), ratelimit.Config{})

	rr := do(srv, http.MethodGet, "/?filtered=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, services.NoBarData)
	assert.Contains(t, body, services.NoDonutData)
	assert.Contains(t, body, core.NoTopClient)
	assert.NotContains(t, body, `value="Acme" checked`)
}

func TestDashboardPage_AgencyFilterKeepsAbsentAgency(t *testing.T) {
	srv := newTestServer(t, memory.New("radio", sampleRows()), ratelimit.Config{})

	rr := do(srv, http.MethodGet, "/api/dashboard?client=Acme&client=Beta&client=Gama&agency=Norte", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		Metrics struct {
			Total     int64  `json:"total"`
			Clients   int    `json:"clients"`
			TopClient string `json:"top_client"`
		} `json:"metrics"`
		Rows []struct {
			Client string `json:"client"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, int64(200), view.Metrics.Total)
	assert.Equal(t, 2, view.Metrics.Clients)
	assert.Equal(t, "Acme", view.Metrics.TopClient)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Beta", view.Rows[1].Client)
}

func TestDashboardAPI_ClientOnlyKeepsEveryAgency(t *testing.T) {
	store := memory.New("radio", []core.RawRow{
		{Client: "Acme", Agency: "Norte", HasAgency: true, Insertions: "5"},
		{Client: "Acme", Insertions: "7"},
		{Client: "Beta", Insertions: "9"},
	})
	srv := newTestServer(t, store, ratelimit.Config{})

	rr := do(srv, http.MethodGet, "/api/dashboard?client=Acme", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		Metrics struct {
			Total int64 `json:"total"`
		} `json:"metrics"`
		Rows []struct {
			Client string `json:"client"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, int64(12), view.Metrics.Total)
	assert.Len(t, view.Rows, 2)
}

func TestDashboard_Unavailable(t *testing.T) {
	store := memory.New("radio", nil)
	store.Fail(core.ErrDataUnavailable)
	srv := newTestServer(t, store, ratelimit.Config{})

	rr := do(srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), ErrorMessage)
	assert.NotContains(t, rr.Body.String(), "Métricas Gerais")

	rr = do(srv, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"error":"`+ErrorMessage+`"}`, rr.Body.String())

	rr = do(srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = do(srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCacheClear(t *testing.T) {
	store := memory.New("radio", sampleRows())
	srv := newTestServer(t, store, ratelimit.Config{})

	require.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/", nil).Code)
	require.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/readyz", nil).Code)
	assert.Equal(t, 1, store.Reads())

	store.Replace([]core.RawRow{{Client: "Delta", Insertions: "7"}})
	assert.NotContains(t, do(srv, http.MethodGet, "/", nil).Body.String(), "Delta", "cached until cleared")

	rr := do(srv, http.MethodPost, "/admin/cache/clear", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, do(srv, http.MethodGet, "/", nil).Body.String(), "Delta")
	assert.Equal(t, 2, store.Reads())

	rr = do(srv, http.MethodPost, "/admin/cache/clear", strings.NewReader("source=memory:other&redirect=1"))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	do(srv, http.MethodGet, "/", nil)
	assert.Equal(t, 2, store.Reads(), "other sources leave the report cached")

	assert.Equal(t, http.StatusMethodNotAllowed, do(srv, http.MethodGet, "/admin/cache/clear", nil).Code)
}

func TestCacheClear_RateLimited(t *testing.T) {
	srv := newTestServer(t, memory.New("radio", sampleRows()), ratelimit.Config{Requests: 1, Window: time.Minute})

	assert.Equal(t, http.StatusNoContent, do(srv, http.MethodPost, "/admin/cache/clear", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(srv, http.MethodPost, "/admin/cache/clear", nil).Code)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/", nil).Code, "only admin routes are limited")
}

func TestStaticAndCORS(t *testing.T) {
	srv := newTestServer(t, memory.New("radio", sampleRows()), ratelimit.Config{})

	rr := do(srv, http.MethodGet, "/static/style.css", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	srv.Handler.ServeHTTP(rr, req)
	assert.Equal(t, "http://localhost:8081", rr.Header().Get("Access-Control-Allow-Origin"))
}
