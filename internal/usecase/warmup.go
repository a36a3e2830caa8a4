package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/football-query/internal/domain/query"
)

const defaultWarmupWorkers = 4

type WarmupResult struct {
	Leagues      int
	SuccessCount int
	FailedCount  int
	Duration     time.Duration
}

// Warm prefetches the current-season standings of each league into the
// response cache. Failures are logged and counted, never returned.
func (s *QueryService) Warm(ctx context.Context, leagues []string, workers int) (WarmupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.Warm")
	defer span.End()

	started := time.Now()
	codes := uniqueLeagues(leagues)
	result := WarmupResult{Leagues: len(codes)}
	if len(codes) == 0 {
		return result, nil
	}

	season, err := s.builder.Seasons().Resolve("")
	if err != nil {
		return result, err
	}

	if workers <= 0 {
		workers = defaultWarmupWorkers
	}
	if workers > len(codes) {
		workers = len(codes)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return result, err
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		failed    atomic.Int64
	)
	for _, code := range codes {
		descriptor := query.Descriptor{
			Intent: query.IntentStandings,
			League: code,
			Season: season,
			Limit:  query.DefaultLimit,
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if _, err := s.Records(ctx, descriptor); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "cache warm-up failed",
					"league", descriptor.League,
					"season", descriptor.Season,
					"error", err,
				)
				return
			}
			succeeded.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			s.logger.WarnContext(ctx, "cache warm-up submit failed", "league", code, "error", submitErr)
		}
	}
	wg.Wait()

	result.SuccessCount = int(succeeded.Load())
	result.FailedCount = int(failed.Load())
	result.Duration = time.Since(started)

	s.logger.InfoContext(ctx, "cache warm-up finished",
		"leagues", result.Leagues,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"duration", result.Duration,
		"workers", workers,
	)
	return result, nil
}

func uniqueLeagues(leagues []string) []string {
	seen := make(map[string]struct{}, len(leagues))
	out := make([]string, 0, len(leagues))
	for _, code := range leagues {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
