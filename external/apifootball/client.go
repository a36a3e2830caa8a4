package apifootball

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/riskibarqy/football-query/internal/platform/resilience"
	"github.com/riskibarqy/football-query/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 6 << 20
)

var bearerRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)
var errProxyTransient = crerr.New("football proxy transient failure")

// ErrUpstreamReported is returned when the provider answers 200 but lists
// errors in its document (bad token, unknown parameter, plan limits).
var ErrUpstreamReported = crerr.New("football provider reported errors")

// Observer receives one event per upstream call; metrics implement it.
type Observer interface {
	UpstreamRequest(endpoint, outcome string, elapsed time.Duration)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	ProxyURL       string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	Observer       Observer
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reaches the sports-data API through the server-side proxy, which
// takes {"endpoint","params"} and answers {"data": <provider document>}.
type Client struct {
	httpClient   *http.Client
	proxyURL     string
	token        string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	observer     Observer
	breaker      *resilience.CircuitBreaker
	flight       resilience.SingleFlight
}

var _ football.Gateway = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	proxyURL, err := validateHTTPBaseURL(cfg.ProxyURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid FOOTBALL_PROXY_URL")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	if breaker != nil {
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("football proxy circuit breaker state changed", "from", from, "to", to)
		})
	}

	return &Client{
		httpClient:   httpClient,
		proxyURL:     proxyURL,
		token:        strings.TrimSpace(cfg.Token),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		observer:     cfg.Observer,
		breaker:      breaker,
	}, nil
}

type proxyRequest struct {
	Endpoint string            `json:"endpoint"`
	Params   map[string]string `json:"params,omitempty"`
}

type proxyResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type providerStatus struct {
	Errors any `json:"errors"`
}

// Fetch returns the provider document for endpoint. Identical concurrent
// requests share one upstream call.
func (c *Client) Fetch(ctx context.Context, endpoint string, params map[string]string) (football.Payload, error) {
	endpoint = "/" + strings.TrimLeft(strings.TrimSpace(endpoint), "/")
	if endpoint == "/" {
		return nil, fmt.Errorf("%w: endpoint is required", usecase.ErrInvalidInput)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("football.endpoint", endpoint),
			attribute.String("football.params", formatParams(params)),
		)
	}

	started := time.Now()
	out, err, shared := c.flight.Do(endpoint+"?"+formatParams(params), func() (any, error) {
		var raw []byte
		callErr := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, endpoint, params)
			return reqErr
		}, isProxyCircuitFailure)
		if stderrors.Is(callErr, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "football proxy circuit breaker rejected request", "endpoint", endpoint)
			return nil, fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return raw, callErr
	})
	if !shared {
		c.observe(endpoint, err, time.Since(started))
	}
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return football.Payload(raw), nil
}

func (c *Client) executeRequest(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(proxyRequest{Endpoint: endpoint, Params: params}); err != nil {
		return nil, crerr.Wrap(err, "encode proxy request")
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewReader(buf.B))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("content-type", "application/json")
		if c.token != "" {
			req.Header.Set("authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var urlErr *url.Error
			if stderrors.As(err, &urlErr) && urlErr.Timeout() {
				lastErr = fmt.Errorf("%w: send request: %w", errProxyTransient, context.DeadlineExceeded)
			} else {
				lastErr = fmt.Errorf("%w: send request: %s", errProxyTransient, sanitizeSensitiveText(err.Error(), c.token))
			}
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errProxyTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return c.unwrap(raw)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: proxy status=%d body=%s", errProxyTransient, resp.StatusCode, abbreviateBody(sanitizeSensitiveText(string(raw), c.token)))
			default:
				lastErr = fmt.Errorf("proxy status=%d body=%s", resp.StatusCode, abbreviateBody(sanitizeSensitiveText(string(raw), c.token)))
				c.logger.WarnContext(ctx, "football proxy request rejected", "endpoint", endpoint, "error", lastErr)
				return nil, lastErr
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("proxy request failed")
	}
	c.logger.WarnContext(ctx, "football proxy request failed", "endpoint", endpoint, "params", formatParams(params), "error", lastErr)
	return nil, lastErr
}

// unwrap extracts the provider document and rejects documents that carry
// provider-side errors.
func (c *Client) unwrap(raw []byte) ([]byte, error) {
	var envelope proxyResponse
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode proxy envelope: %w", err)
	}
	if strings.TrimSpace(envelope.Error) != "" {
		return nil, fmt.Errorf("proxy error: %s", sanitizeSensitiveText(envelope.Error, c.token))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, fmt.Errorf("proxy returned no data")
	}

	var status providerStatus
	if err := sonic.Unmarshal(envelope.Data, &status); err != nil {
		return nil, fmt.Errorf("decode provider document: %w", err)
	}
	if reported := describeProviderErrors(status.Errors); reported != "" {
		return nil, crerr.Wrapf(ErrUpstreamReported, "%s", sanitizeSensitiveText(reported, c.token))
	}
	return []byte(envelope.Data), nil
}

func (c *Client) observe(endpoint string, err error, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case stderrors.Is(err, usecase.ErrDependencyUnavailable):
		outcome = "circuit_open"
	case stderrors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	default:
		outcome = "error"
	}
	c.observer.UpstreamRequest(endpoint, outcome, elapsed)
}

// describeProviderErrors flattens the provider "errors" field, which is an
// empty array on success and an object or array of messages on failure.
func describeProviderErrors(value any) string {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return ""
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", key, typed[key]))
		}
		return strings.Join(parts, "; ")
	case []any:
		if len(typed) == 0 {
			return ""
		}
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	case string:
		return strings.TrimSpace(typed)
	default:
		return ""
	}
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	return values.Encode()
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return bearerRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func isProxyCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errProxyTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body string) string {
	if len(body) <= 240 {
		return body
	}
	return body[:240] + "..."
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
