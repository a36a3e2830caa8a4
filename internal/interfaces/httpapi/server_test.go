package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/metrics"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/riskibarqy/football-query/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(runner QueryRunner, recorder *metrics.Recorder, swagger bool) http.Handler {
	cfg := RouterConfig{
		Handler:            NewHandler(runner, nil, logging.NewNop()),
		Logger:             logging.NewNop(),
		CORSAllowedOrigins: []string{"*"},
		SwaggerEnabled:     swagger,
	}
	if recorder != nil {
		cfg.Metrics = recorder
	}
	return NewRouter(cfg)
}

func TestRouter_HealthzAndMetrics(t *testing.T) {
	recorder := metrics.NewRecorder()
	router := newTestRouter(returning(standingsResult(), nil), recorder, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(`{"query":"table"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `football_query_http_requests_total{method="POST",path="/v1/queries",status="200"} 1`)
}

func TestRouter_WithoutMetrics(t *testing.T) {
	router := newTestRouter(returning(standingsResult(), nil), nil, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SwaggerToggle(t *testing.T) {
	on := newTestRouter(returning(standingsResult(), nil), nil, true)
	rec := httptest.NewRecorder()
	on.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/queries")

	off := newTestRouter(returning(standingsResult(), nil), nil, false)
	rec = httptest.NewRecorder()
	off.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RecoversPanics(t *testing.T) {
	runner := &fakeRunner{run: func(context.Context, string, query.Language) (usecase.QueryResult, error) {
		panic("boom")
	}}
	router := newTestRouter(runner, nil, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(`{"query":"table"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
