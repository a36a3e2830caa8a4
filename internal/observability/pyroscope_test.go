package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/football-query/internal/config"
	"github.com/riskibarqy/football-query/internal/platform/logging"
)

func TestPyroscopeConfig(t *testing.T) {
	cfg := config.Config{
		AppEnv:                 config.EnvDev,
		ServiceName:            "football-query-api",
		ServiceVersion:         "1.4.0",
		DefaultLeagueEN:        "PL",
		DefaultLeagueHE:        "383",
		PyroscopeAppName:       "football-query-api",
		PyroscopeServerAddress: "http://localhost:4040",
		PyroscopeUploadRate:    15 * time.Second,
	}

	got := pyroscopeConfig(cfg, logging.NewNop())
	if got.ApplicationName != "football-query-api" || got.ServerAddress != "http://localhost:4040" {
		t.Fatalf("unexpected target: %s %s", got.ApplicationName, got.ServerAddress)
	}
	if got.Tags["default_league"] != "PL_383" || got.Tags["version"] != "1.4.0" {
		t.Fatalf("unexpected tags: %+v", got.Tags)
	}

	hasMutex := false
	for _, pt := range got.ProfileTypes {
		if pt == pyroscope.ProfileMutexDuration {
			hasMutex = true
		}
	}
	if !hasMutex {
		t.Fatalf("expected mutex contention profiling for the shared cache")
	}
}

func TestPyroscopeLogger_DowngradesProfilerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelWarn, Writer: &buf})

	l := pyroscopeLogger{logger: logger}
	l.Infof("uploading %d profiles", 3)
	l.Errorf("upload failed: %s", "connection refused")

	out := buf.String()
	if strings.Contains(out, "uploading") {
		t.Fatalf("info chatter must stay below warn: %s", out)
	}
	if !strings.Contains(out, "upload failed: connection refused") || !strings.Contains(out, "WARN") {
		t.Fatalf("expected profiler error as a warning, got %s", out)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
