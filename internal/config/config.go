package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-query/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	ShutdownTimeout            time.Duration
	CORSAllowedOrigins         []string
	LogLevel                   logging.Level
	LogFormat                  string
	CacheTTL                   time.Duration
	CacheJanitorInterval       time.Duration
	SeasonMinYear              int
	SeasonMaxYear              int
	SeasonDiscoveryEnabled     bool
	DefaultLeagueEN            string
	DefaultLeagueHE            string
	LeagueProviderIDs          map[string]string
	FootballProxyURL           string
	FootballProxyToken         string
	FootballTimeout            time.Duration
	FootballMaxRetries         int
	FootballRetryBackoff       time.Duration
	FootballCircuitEnabled     bool
	FootballCircuitFailures    int
	FootballCircuitOpenTimeout time.Duration
	FootballCircuitHalfOpenMax int
	WarmupLeagues              []string
	WarmupWorkers              int
	MetricsEnabled             bool
	SwaggerEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	BetterStackEnabled         bool
	BetterStackEndpoint        string
	BetterStackToken           string
	BetterStackTimeout         time.Duration
	BetterStackMinLevel        logging.Level
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "football-query-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logging.FormatJSON))),
		DefaultLeagueEN:    strings.ToUpper(strings.TrimSpace(getEnv("DEFAULT_LEAGUE_EN", "PL"))),
		DefaultLeagueHE:    strings.ToUpper(strings.TrimSpace(getEnv("DEFAULT_LEAGUE_HE", "383"))),
		FootballProxyURL:   strings.TrimSpace(getEnv("FOOTBALL_PROXY_URL", "")),
		FootballProxyToken: strings.TrimSpace(getEnv("FOOTBALL_PROXY_TOKEN", "")),
		WarmupLeagues:      splitCSV(getEnv("WARMUP_LEAGUES", "")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		BetterStackToken:   strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackMinLevel: logging.ParseLevel(
			getEnv("BETTERSTACK_MIN_LEVEL", "error"),
		),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.LogFormat != logging.FormatJSON && cfg.LogFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", cfg.LogFormat, logging.FormatJSON, logging.FormatConsole)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"APP_READ_TIMEOUT", "10s", &cfg.ReadTimeout},
		{"APP_WRITE_TIMEOUT", "15s", &cfg.WriteTimeout},
		{"APP_SHUTDOWN_TIMEOUT", "10s", &cfg.ShutdownTimeout},
		{"CACHE_TTL", "5m", &cfg.CacheTTL},
		{"CACHE_JANITOR_INTERVAL", "1m", &cfg.CacheJanitorInterval},
		{"FOOTBALL_TIMEOUT", "10s", &cfg.FootballTimeout},
		{"FOOTBALL_RETRY_BACKOFF", "250ms", &cfg.FootballRetryBackoff},
		{"FOOTBALL_CIRCUIT_OPEN_TIMEOUT", "15s", &cfg.FootballCircuitOpenTimeout},
		{"BETTERSTACK_TIMEOUT", "3s", &cfg.BetterStackTimeout},
		{"PYROSCOPE_UPLOAD_RATE", "15s", &cfg.PyroscopeUploadRate},
	}
	for _, d := range durations {
		value, err := getEnvAsDuration(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = value
	}

	ints := []struct {
		key      string
		fallback int
		min      int
		dst      *int
	}{
		{"SEASON_MIN_YEAR", 2021, 1900, &cfg.SeasonMinYear},
		{"SEASON_MAX_YEAR", 0, 0, &cfg.SeasonMaxYear},
		{"FOOTBALL_MAX_RETRIES", 1, 0, &cfg.FootballMaxRetries},
		{"FOOTBALL_CIRCUIT_FAILURE_COUNT", 5, 1, &cfg.FootballCircuitFailures},
		{"FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1, &cfg.FootballCircuitHalfOpenMax},
		{"WARMUP_WORKERS", 4, 1, &cfg.WarmupWorkers},
	}
	for _, item := range ints {
		value, err := getEnvAsInt(item.key, item.fallback)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		if value < item.min {
			return Config{}, fmt.Errorf("%s must be >= %d", item.key, item.min)
		}
		*item.dst = value
	}
	if cfg.SeasonMaxYear != 0 && cfg.SeasonMaxYear < cfg.SeasonMinYear {
		return Config{}, fmt.Errorf("SEASON_MAX_YEAR %d is before SEASON_MIN_YEAR %d", cfg.SeasonMaxYear, cfg.SeasonMinYear)
	}

	swaggerDefault := "true"
	if cfg.AppEnv == EnvProd {
		swaggerDefault = "false"
	}

	bools := []struct {
		key      string
		fallback string
		dst      *bool
	}{
		{"SEASON_DISCOVERY_ENABLED", "false", &cfg.SeasonDiscoveryEnabled},
		{"FOOTBALL_CIRCUIT_ENABLED", "true", &cfg.FootballCircuitEnabled},
		{"METRICS_ENABLED", "true", &cfg.MetricsEnabled},
		{"SWAGGER_ENABLED", swaggerDefault, &cfg.SwaggerEnabled},
		{"PPROF_ENABLED", "false", &cfg.PprofEnabled},
		{"UPTRACE_ENABLED", "false", &cfg.UptraceEnabled},
		{"UPTRACE_LOGS_ENABLED", "true", &cfg.UptraceLogsEnabled},
		{"BETTERSTACK_ENABLED", "false", &cfg.BetterStackEnabled},
		{"PYROSCOPE_ENABLED", "false", &cfg.PyroscopeEnabled},
	}
	for _, b := range bools {
		value, err := strconv.ParseBool(getEnv(b.key, b.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", b.key, err)
		}
		*b.dst = value
	}

	cfg.LeagueProviderIDs, err = parseIDMap(getEnv("LEAGUE_PROVIDER_ID_MAP", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_PROVIDER_ID_MAP: %w", err)
	}

	if cfg.FootballProxyURL == "" {
		return Config{}, fmt.Errorf("FOOTBALL_PROXY_URL is required")
	}

	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg.BetterStackEndpoint = strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if cfg.BetterStackEnabled && cfg.BetterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}

	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if cfg.PyroscopeEnabled {
		if cfg.PyroscopeServerAddress == "" {
			return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		}
		if cfg.PyroscopeAppName == "" {
			return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseIDMap reads "CODE:id,CODE:id" into upper-cased league codes mapped to
// provider ids.
func parseIDMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	parts := strings.Split(raw, ",")
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid map item %q, expected league_code:number", item)
		}

		key := strings.ToUpper(strings.TrimSpace(segments[0]))
		if key == "" {
			return nil, fmt.Errorf("empty league code in item %q", item)
		}
		value, err := strconv.ParseInt(strings.TrimSpace(segments[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number in item %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0 in item %q", item)
		}

		out[key] = strconv.FormatInt(value, 10)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
