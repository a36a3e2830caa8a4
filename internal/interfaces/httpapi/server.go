package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-query/internal/platform/id"
	"github.com/riskibarqy/football-query/internal/platform/logging"
)

type RouterConfig struct {
	Handler            *Handler
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	// IDs generates request ids when the caller sends none.
	IDs id.Generator
	// Metrics is optional. When set, /metrics serves its handler and every
	// request is recorded.
	Metrics MetricsRecorder
}

// MetricsRecorder is the request recorder plus the scrape endpoint.
type MetricsRecorder interface {
	HTTPMetrics
	Handler() http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, cfg.Handler, cfg.SwaggerEnabled, cfg.Metrics)
	registerQueryRoutes(mux, cfg.Handler)

	var httpMetrics HTTPMetrics
	if cfg.Metrics != nil {
		httpMetrics = cfg.Metrics
	}
	return RequestTracing(RequestID(cfg.IDs, RequestLogging(logger, httpMetrics, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "http_path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
