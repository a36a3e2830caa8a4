package usecase

import (
	"context"
	"slices"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/interpret"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/riskibarqy/football-query/internal/transform"
)

// DiscoverSeasonRange asks the provider which seasons it serves and returns
// them as a range. Any failure falls back to the configured range.
func DiscoverSeasonRange(ctx context.Context, gateway football.Gateway, fallback interpret.SeasonRange, logger *logging.Logger) interpret.SeasonRange {
	ctx, span := startUsecaseSpan(ctx, "usecase.DiscoverSeasonRange")
	defer span.End()

	if logger == nil {
		logger = logging.Default()
	}

	discovered, err := discoverSeasons(ctx, gateway)
	if err != nil {
		logger.WarnContext(ctx, "season discovery failed, using configured range",
			"min_year", fallback.Min,
			"max_year", fallback.Max,
			"error", err,
		)
		return fallback
	}

	logger.InfoContext(ctx, "season range discovered",
		"min_year", discovered.Min,
		"max_year", discovered.Max,
	)
	return discovered
}

func discoverSeasons(ctx context.Context, gateway football.Gateway) (interpret.SeasonRange, error) {
	if gateway == nil {
		return interpret.SeasonRange{}, crerr.Wrap(ErrDependencyUnavailable, "no gateway configured")
	}

	payload, err := gateway.Fetch(ctx, football.EndpointSeasons, nil)
	if err != nil {
		return interpret.SeasonRange{}, crerr.Wrap(err, "fetch seasons")
	}
	years, err := transform.Seasons(payload)
	if err != nil {
		return interpret.SeasonRange{}, err
	}
	years = slices.DeleteFunc(years, func(y int) bool { return y <= 0 })
	if len(years) == 0 {
		return interpret.SeasonRange{}, crerr.New("provider listed no seasons")
	}
	return interpret.SeasonRange{Min: slices.Min(years), Max: slices.Max(years)}, nil
}
