package observability

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/football-query/internal/config"
	"github.com/riskibarqy/football-query/internal/platform/logging"
)

// Sample rate for mutex contention; the response cache is one RWMutex
// shared by every request.
const mutexProfileRate = 5

// InitPyroscope starts continuous profiling when enabled. Profiles are
// tagged with the default leagues so deployments serving different regions
// can be told apart.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	previousRate := runtime.SetMutexProfileFraction(mutexProfileRate)
	profiler, err := pyroscope.Start(pyroscopeConfig(cfg, logger))
	if err != nil {
		runtime.SetMutexProfileFraction(previousRate)
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)

	return func() error {
		defer runtime.SetMutexProfileFraction(previousRate)
		return profiler.Stop()
	}, nil
}

func pyroscopeConfig(cfg config.Config, logger *logging.Logger) pyroscope.Config {
	return pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Logger:            pyroscopeLogger{logger: logger.With("component", "pyroscope")},
		Tags: map[string]string{
			"env":            cfg.AppEnv,
			"service":        cfg.ServiceName,
			"version":        cfg.ServiceVersion,
			"default_league": strings.Join([]string{cfg.DefaultLeagueEN, cfg.DefaultLeagueHE}, "_"),
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
		},
	}
}

// pyroscopeLogger routes the profiler's own messages into the service log.
type pyroscopeLogger struct {
	logger *logging.Logger
}

func (l pyroscopeLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pyroscopeLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pyroscopeLogger) Errorf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
