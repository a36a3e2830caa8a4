package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/football-query/external/apifootball"
	"github.com/riskibarqy/football-query/internal/config"
	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-query/internal/interpret"
	"github.com/riskibarqy/football-query/internal/metrics"
	"github.com/riskibarqy/football-query/internal/platform/cache"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/riskibarqy/football-query/internal/platform/resilience"
	"github.com/riskibarqy/football-query/internal/usecase"
)

// Container holds the process-wide query stack shared by the API server and
// the CLI.
type Container struct {
	Config  config.Config
	Lexicon *lexicon.Lexicon
	Metrics *metrics.Recorder
	Cache   *cache.ResponseCache
	Gateway football.Gateway
	Queries *usecase.QueryService
}

// Option adjusts the container before the query service is built.
type Option func(*containerOptions)

type containerOptions struct {
	gateway football.Gateway
}

// WithGateway replaces the proxy client, e.g. with a stub in tests.
func WithGateway(g football.Gateway) Option {
	return func(o *containerOptions) {
		o.gateway = g
	}
}

func NewContainer(ctx context.Context, cfg config.Config, logger *logging.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}
	var options containerOptions
	for _, opt := range opts {
		opt(&options)
	}

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.NewRecorder()
	}

	gateway := options.gateway
	if gateway == nil {
		clientCfg := apifootball.ClientConfig{
			ProxyURL:     cfg.FootballProxyURL,
			Token:        cfg.FootballProxyToken,
			Timeout:      cfg.FootballTimeout,
			MaxRetries:   cfg.FootballMaxRetries,
			RetryBackoff: cfg.FootballRetryBackoff,
			Logger:       logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FootballCircuitEnabled,
				FailureThreshold: cfg.FootballCircuitFailures,
				OpenTimeout:      cfg.FootballCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FootballCircuitHalfOpenMax,
			},
		}
		if recorder != nil {
			clientCfg.Observer = recorder
		}
		client, err := apifootball.NewClient(clientCfg)
		if err != nil {
			return nil, fmt.Errorf("build football client: %w", err)
		}
		gateway = client
	}

	seasons := interpret.SeasonRange{Min: cfg.SeasonMinYear, Max: cfg.SeasonMaxYear}
	if cfg.SeasonDiscoveryEnabled {
		seasons = usecase.DiscoverSeasonRange(ctx, gateway, seasons, logger)
	}

	lex := lexicon.Default()
	builder := interpret.NewBuilder(interpret.BuilderConfig{
		Lexicon: lex,
		Seasons: seasons,
		DefaultLeagues: map[query.Language]string{
			query.LanguageEnglish: cfg.DefaultLeagueEN,
			query.LanguageHebrew:  cfg.DefaultLeagueHE,
		},
	})

	cacheOpts := []cache.Option{cache.WithLifetime(ctx)}
	if recorder != nil {
		cacheOpts = append(cacheOpts, cache.WithObserver(recorder))
	}
	responses := cache.NewResponseCache(cfg.CacheTTL, cacheOpts...)

	serviceCfg := usecase.QueryServiceConfig{
		Builder:   builder,
		Gateway:   gateway,
		Cache:     responses,
		LeagueIDs: cfg.LeagueProviderIDs,
		Logger:    logger,
	}
	if recorder != nil {
		serviceCfg.Observer = recorder
	}

	minYear, maxYear := builder.Seasons().Bounds()
	logger.Info("query service ready",
		"season_min", minYear,
		"season_max", maxYear,
		"cache_ttl", cfg.CacheTTL,
		"metrics_enabled", recorder != nil,
	)

	return &Container{
		Config:  cfg,
		Lexicon: lex,
		Metrics: recorder,
		Cache:   responses,
		Gateway: gateway,
		Queries: usecase.NewQueryService(serviceCfg),
	}, nil
}

func NewHTTPServer(cfg config.Config, c *Container, logger *logging.Logger) (*http.Server, error) {
	if c == nil {
		return nil, fmt.Errorf("container is required")
	}

	handler := httpapi.NewHandler(c.Queries, c.Lexicon, logger)
	routerCfg := httpapi.RouterConfig{
		Handler:            handler,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SwaggerEnabled:     cfg.SwaggerEnabled,
	}
	if c.Metrics != nil {
		routerCfg.Metrics = c.Metrics
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// Warmup prefetches standings for the configured leagues. It is a no-op when
// none are configured.
func (c *Container) Warmup(ctx context.Context, logger *logging.Logger) {
	if len(c.Config.WarmupLeagues) == 0 {
		return
	}
	result, err := c.Queries.Warm(ctx, c.Config.WarmupLeagues, c.Config.WarmupWorkers)
	if err != nil {
		logger.WarnContext(ctx, "cache warmup failed", "error", err)
		return
	}
	logger.InfoContext(ctx, "cache warmup finished",
		"leagues", result.Leagues,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"duration", result.Duration,
	)
}
