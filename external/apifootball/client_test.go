package apifootball

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/platform/resilience"
	"github.com/riskibarqy/football-query/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) UpstreamRequest(_ string, outcome string, _ time.Duration) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func newTestClient(t *testing.T, srv *httptest.Server, mutate func(*ClientConfig)) *Client {
	t.Helper()

	cfg := ClientConfig{
		HTTPClient:   srv.Client(),
		ProxyURL:     srv.URL + "/functions/v1/api-football",
		Token:        "secret-token",
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestClient_FetchPostsEndpointAndParams(t *testing.T) {
	t.Parallel()

	var got proxyRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/functions/v1/api-football", r.URL.Path)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"data":{"errors":[],"results":1,"response":[{"league":{"id":39}}]}}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := newTestClient(t, srv, func(cfg *ClientConfig) { cfg.Observer = obs })

	payload, err := client.Fetch(context.Background(), football.EndpointStandings, map[string]string{"league": "39", "season": "2023"})
	require.NoError(t, err)

	assert.Equal(t, "/standings", got.Endpoint)
	assert.Equal(t, map[string]string{"league": "39", "season": "2023"}, got.Params)
	assert.Equal(t, "Bearer secret-token", auth)
	assert.JSONEq(t, `{"errors":[],"results":1,"response":[{"league":{"id":39}}]}`, string(payload))
	assert.Equal(t, []string{"ok"}, obs.outcomes)
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"errors":[],"response":[]}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	_, err := client.Fetch(context.Background(), "/teams", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad token secret-token"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	_, err := client.Fetch(context.Background(), "/teams", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.NotContains(t, err.Error(), "secret-token")
	assert.Contains(t, err.Error(), "status=400")
}

func TestClient_ProviderReportedErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"errors":{"season":"The Season field must contain 4 digits"},"response":[]}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	_, err := client.Fetch(context.Background(), "/standings", map[string]string{"season": "23"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamReported))
	assert.Contains(t, err.Error(), "season: The Season field must contain 4 digits")
}

func TestClient_ProxyErrorEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"API Football key not configured"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	_, err := client.Fetch(context.Background(), "/leagues", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API Football key not configured")
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, func(cfg *ClientConfig) {
		cfg.MaxRetries = 0
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute}
	})

	_, err := client.Fetch(context.Background(), "/fixtures", nil)
	require.Error(t, err)

	_, err = client.Fetch(context.Background(), "/fixtures", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_TimeoutKeepsDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	httpClient := srv.Client()
	httpClient.Timeout = 20 * time.Millisecond
	client := newTestClient(t, srv, func(cfg *ClientConfig) {
		cfg.HTTPClient = httpClient
		cfg.MaxRetries = 0
	})

	_, err := client.Fetch(context.Background(), "/fixtures", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewClient_RequiresProxyURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(ClientConfig{ProxyURL: "ftp://example.com"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "FOOTBALL_PROXY_URL"))
}

func TestDescribeProviderErrors(t *testing.T) {
	t.Parallel()

	assert.Empty(t, describeProviderErrors([]any{}))
	assert.Empty(t, describeProviderErrors(map[string]any{}))
	assert.Empty(t, describeProviderErrors(nil))
	assert.Equal(t, "a: 1; b: 2", describeProviderErrors(map[string]any{"b": 2, "a": 1}))
	assert.Equal(t, "rate limit", describeProviderErrors([]any{"rate limit"}))
}
