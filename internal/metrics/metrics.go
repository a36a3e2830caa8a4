// Package metrics exposes Prometheus instruments for the query pipeline:
// cache lookups, upstream calls, query outcomes and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "football_query"

// Metric label keys.
const (
	LabelEndpoint = "endpoint"
	LabelOutcome  = "outcome"
	LabelIntent   = "intent"
	LabelCode     = "code"
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
)

// Recorder owns a private registry so tests and multiple instances never
// collide on the global one. A nil *Recorder ignores every call.
type Recorder struct {
	registry *prometheus.Registry

	cacheLookups    *prometheus.CounterVec
	cacheEvictions  prometheus.Counter
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	queryTotal      *prometheus.CounterVec
	queryLatency    *prometheus.HistogramVec
	httpTotal       *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Response cache lookups by result.",
		}, []string{LabelOutcome}),
		cacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Response cache entries removed after expiry.",
		}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Sports data proxy requests by endpoint and outcome.",
		}, []string{LabelEndpoint, LabelOutcome}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Sports data proxy request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelEndpoint}),
		queryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "completed_total",
			Help:      "Answered queries by intent and result code.",
		}, []string{LabelIntent, LabelCode}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "End-to-end query latency including upstream calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelIntent}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{LabelMethod, LabelPath, LabelStatus}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelMethod, LabelPath}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.cacheLookups,
		r.cacheEvictions,
		r.upstreamTotal,
		r.upstreamLatency,
		r.queryTotal,
		r.queryLatency,
		r.httpTotal,
		r.httpLatency,
	)
	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("hit").Inc()
}

func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}

func (r *Recorder) CacheEvicted(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.cacheEvictions.Add(float64(n))
}

func (r *Recorder) UpstreamRequest(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamTotal.WithLabelValues(endpoint, outcome).Inc()
	r.upstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (r *Recorder) QueryCompleted(intent, code string, elapsed time.Duration) {
	if r == nil {
		return
	}
	if intent == "" {
		intent = "none"
	}
	r.queryTotal.WithLabelValues(intent, code).Inc()
	r.queryLatency.WithLabelValues(intent).Observe(elapsed.Seconds())
}

func (r *Recorder) RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
