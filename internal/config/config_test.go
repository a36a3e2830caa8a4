package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/football-query/internal/platform/logging"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("FOOTBALL_PROXY_URL", "https://proxy.example.com/functions/v1/api-football")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresProxyURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FOOTBALL_PROXY_URL", " ")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when FOOTBALL_PROXY_URL is empty")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
	}
	if cfg.SeasonMinYear != 2021 || cfg.SeasonMaxYear != 0 {
		t.Fatalf("unexpected default season range: %d..%d", cfg.SeasonMinYear, cfg.SeasonMaxYear)
	}
	if cfg.DefaultLeagueEN != "PL" || cfg.DefaultLeagueHE != "383" {
		t.Fatalf("unexpected default leagues: en=%s he=%s", cfg.DefaultLeagueEN, cfg.DefaultLeagueHE)
	}
	if cfg.FootballTimeout != 10*time.Second {
		t.Fatalf("unexpected default football timeout: %s", cfg.FootballTimeout)
	}
	if !cfg.FootballCircuitEnabled || cfg.FootballCircuitFailures != 5 {
		t.Fatalf("unexpected circuit defaults: enabled=%v failures=%d", cfg.FootballCircuitEnabled, cfg.FootballCircuitFailures)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
	if cfg.LogLevel != logging.LevelInfo || cfg.LogFormat != logging.FormatJSON {
		t.Fatalf("unexpected log defaults: %s %s", cfg.LogLevel, cfg.LogFormat)
	}
	if len(cfg.WarmupLeagues) != 0 || cfg.WarmupWorkers != 4 {
		t.Fatalf("unexpected warmup defaults: %+v workers=%d", cfg.WarmupLeagues, cfg.WarmupWorkers)
	}
}

func TestLoad_SeasonBounds(t *testing.T) {
	setBaseEnv(t)

	t.Run("explicit range", func(t *testing.T) {
		t.Setenv("SEASON_MIN_YEAR", "2021")
		t.Setenv("SEASON_MAX_YEAR", "2023")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SeasonMaxYear != 2023 {
			t.Fatalf("unexpected max year: %d", cfg.SeasonMaxYear)
		}
	})

	t.Run("max before min", func(t *testing.T) {
		t.Setenv("SEASON_MIN_YEAR", "2022")
		t.Setenv("SEASON_MAX_YEAR", "2020")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when SEASON_MAX_YEAR < SEASON_MIN_YEAR")
		}
	})

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("SEASON_MIN_YEAR", "twenty")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid SEASON_MIN_YEAR")
		}
	})
}

func TestLoad_LeagueProviderIDMap(t *testing.T) {
	setBaseEnv(t)

	t.Run("valid", func(t *testing.T) {
		t.Setenv("LEAGUE_PROVIDER_ID_MAP", "pl:39, PD:140")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LeagueProviderIDs["PL"] != "39" || cfg.LeagueProviderIDs["PD"] != "140" {
			t.Fatalf("unexpected league map: %+v", cfg.LeagueProviderIDs)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("LEAGUE_PROVIDER_ID_MAP", "PL=39")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for malformed LEAGUE_PROVIDER_ID_MAP")
		}
	})

	t.Run("non positive", func(t *testing.T) {
		t.Setenv("LEAGUE_PROVIDER_ID_MAP", "PL:0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero provider id")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_BetterStackConfigParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BETTERSTACK_ENABLED", "true")

	t.Run("requires endpoint", func(t *testing.T) {
		t.Setenv("BETTERSTACK_ENDPOINT", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv("BETTERSTACK_ENDPOINT", "s1765114.eu-fsn-3.betterstackdata.com")
		t.Setenv("BETTERSTACK_TOKEN", "token-123")
		t.Setenv("BETTERSTACK_TIMEOUT", "4s")
		t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.BetterStackTimeout != 4*time.Second {
			t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
		}
		if cfg.BetterStackMinLevel.String() != "warn" {
			t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel.String())
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_SERVICE_NAME", "football-query-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "football-query-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DurationValidation(t *testing.T) {
	setBaseEnv(t)

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})

	t.Run("non positive timeout", func(t *testing.T) {
		t.Setenv("FOOTBALL_TIMEOUT", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero FOOTBALL_TIMEOUT")
		}
	})
}

func TestLoad_LogFormatValidation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_LOG_FORMAT", "xml")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported APP_LOG_FORMAT")
	}
}

func TestLoad_SwaggerDisabledByDefaultInProd(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SWAGGER_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled in prod by default")
	}
}
