package usecase

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/interpret"
	"github.com/riskibarqy/football-query/internal/platform/cache"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/riskibarqy/football-query/internal/transform"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Records holds the canonical data of one query. Exactly one field is set,
// matching the descriptor intent.
type Records struct {
	Standings    []football.Standing
	Scorers      []football.Scorer
	Matches      []football.Match
	Team         *football.Team
	Competitions []football.Competition
	TeamStats    *football.TeamStats
}

// Clone returns a deep copy so cached records are never shared with callers.
func (r Records) Clone() Records {
	out := Records{
		Standings:    slices.Clone(r.Standings),
		Scorers:      slices.Clone(r.Scorers),
		Competitions: slices.Clone(r.Competitions),
	}
	if r.Matches != nil {
		out.Matches = make([]football.Match, len(r.Matches))
		for i, m := range r.Matches {
			m.Score.FullTime.Home = clonePtr(m.Score.FullTime.Home)
			m.Score.FullTime.Away = clonePtr(m.Score.FullTime.Away)
			out.Matches[i] = m
		}
	}
	if r.Team != nil {
		team := r.Team.Clone()
		out.Team = &team
	}
	if r.TeamStats != nil {
		stats := *r.TeamStats
		out.TeamStats = &stats
	}
	return out
}

// Len is the number of records, counting a team or team stats as one.
func (r Records) Len() int {
	n := len(r.Standings) + len(r.Scorers) + len(r.Matches) + len(r.Competitions)
	if r.Team != nil {
		n++
	}
	if r.TeamStats != nil {
		n++
	}
	return n
}

func clonePtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

type QueryResult struct {
	Descriptor query.Descriptor
	Records    Records
}

// QueryObserver receives one event per finished query; metrics implement it.
type QueryObserver interface {
	QueryCompleted(intent string, code string, elapsed time.Duration)
}

type QueryServiceConfig struct {
	Builder   *interpret.Builder
	Gateway   football.Gateway
	Cache     *cache.ResponseCache
	LeagueIDs map[string]string
	Logger    *logging.Logger
	Observer  QueryObserver
}

// QueryService answers free-text football queries: it interprets the text,
// serves cached records when fresh and otherwise fetches and transforms
// provider data.
type QueryService struct {
	builder   *interpret.Builder
	gateway   football.Gateway
	cache     *cache.ResponseCache
	leagueIDs map[string]string
	logger    *logging.Logger
	observer  QueryObserver
}

func NewQueryService(cfg QueryServiceConfig) *QueryService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	builder := cfg.Builder
	if builder == nil {
		builder = interpret.NewBuilder(interpret.BuilderConfig{})
	}
	responses := cfg.Cache
	if responses == nil {
		responses = cache.NewResponseCache(cache.DefaultTTL)
	}

	leagueIDs := maps.Clone(football.DefaultLeagueIDs)
	for code, id := range cfg.LeagueIDs {
		if strings.TrimSpace(id) != "" {
			leagueIDs[code] = strings.TrimSpace(id)
		}
	}

	return &QueryService{
		builder:   builder,
		gateway:   cfg.Gateway,
		cache:     responses,
		leagueIDs: leagueIDs,
		logger:    logger,
		observer:  cfg.Observer,
	}
}

// RunQuery interprets text in lang and returns the matching records. Every
// error is a *fault.Error.
func (s *QueryService) RunQuery(ctx context.Context, text string, lang query.Language) (QueryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.RunQuery")
	defer span.End()

	started := time.Now()
	result, err := s.runQuery(ctx, text, lang)
	elapsed := time.Since(started)

	code := "OK"
	if err != nil {
		classified := fault.Classify(err, fault.CodeUnknownError)
		err = classified
		code = string(classified.Code)
		span.RecordError(classified)
		span.SetStatus(codes.Error, code)
	}
	span.SetAttributes(
		attribute.String("query.intent", string(result.Descriptor.Intent)),
		attribute.String("query.league", result.Descriptor.League),
		attribute.String("query.season", result.Descriptor.Season),
		attribute.String("query.outcome", code),
	)

	if s.observer != nil {
		s.observer.QueryCompleted(string(result.Descriptor.Intent), code, elapsed)
	}

	if err != nil {
		logFn := s.logger.WarnContext
		if fault.CodeOf(err) == fault.CodeUnknownError {
			logFn = s.logger.ErrorContext
		}
		logFn(ctx, "query failed",
			"language", string(lang),
			"intent", string(result.Descriptor.Intent),
			"league", result.Descriptor.League,
			"season", result.Descriptor.Season,
			"code", code,
			"duration", elapsed,
			"error", err,
		)
		return result, err
	}

	s.logger.InfoContext(ctx, "query answered",
		"language", string(lang),
		"intent", string(result.Descriptor.Intent),
		"league", result.Descriptor.League,
		"season", result.Descriptor.Season,
		"team", result.Descriptor.Team,
		"records", result.Records.Len(),
		"duration", elapsed,
	)
	return result, nil
}

func (s *QueryService) runQuery(ctx context.Context, text string, lang query.Language) (QueryResult, error) {
	descriptor, err := s.builder.Build(text, lang)
	if err != nil {
		return QueryResult{}, err
	}

	records, err := s.Records(ctx, descriptor)
	if err != nil {
		return QueryResult{Descriptor: descriptor}, err
	}
	return QueryResult{Descriptor: descriptor, Records: records}, nil
}

// Records returns the records for an already built descriptor, through the
// response cache.
func (s *QueryService) Records(ctx context.Context, d query.Descriptor) (Records, error) {
	if !d.Intent.Valid() {
		return Records{}, fault.New(fault.CodeInvalidQueryType, fmt.Sprintf("unsupported query type %q", d.Intent), map[string]any{
			"intent": string(d.Intent),
		})
	}
	if d.Intent.NeedsTeam() && strings.TrimSpace(d.Team) == "" {
		return Records{}, fault.New(fault.CodeMissingTeamID, "a team is required for this query", map[string]any{
			"intent": string(d.Intent),
		})
	}
	if s.gateway == nil {
		return Records{}, fault.Wrap(ErrDependencyUnavailable, fault.CodeUnknownError, "sports data gateway is not configured", nil)
	}

	load := func(ctx context.Context) (any, error) {
		return s.fetch(ctx, d)
	}
	value, err := s.cache.GetOrLoad(ctx, d, load)
	if err != nil {
		return Records{}, err
	}

	records, ok := value.(Records)
	if !ok {
		// the cache is shared; drop whatever else sits under this key and load once more
		s.logger.WarnContext(ctx, "discarding foreign cache entry",
			"intent", string(d.Intent),
			"league", d.League,
			"type", fmt.Sprintf("%T", value),
		)
		s.cache.Invalidate(ctx, d)
		if value, err = s.cache.GetOrLoad(ctx, d, load); err != nil {
			return Records{}, err
		}
		if records, ok = value.(Records); !ok {
			return Records{}, fault.New(fault.CodeUnknownError, fmt.Sprintf("unexpected cached value %T", value), nil)
		}
	}
	return records.Clone(), nil
}

func (s *QueryService) fetch(ctx context.Context, d query.Descriptor) (Records, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.fetch."+string(d.Intent))
	defer span.End()

	switch d.Intent {
	case query.IntentStandings:
		return s.fetchStandings(ctx, d)
	case query.IntentScorers:
		return s.fetchScorers(ctx, d)
	case query.IntentMatches:
		return s.fetchMatches(ctx, d)
	case query.IntentTeam:
		return s.fetchTeam(ctx, d)
	case query.IntentCompetitions:
		return s.fetchCompetitions(ctx)
	case query.IntentTeamStats:
		return s.fetchTeamStats(ctx, d)
	default:
		return Records{}, fault.New(fault.CodeInvalidQueryType, fmt.Sprintf("unsupported query type %q", d.Intent), nil)
	}
}

func (s *QueryService) leagueID(code string) string {
	if id, ok := s.leagueIDs[code]; ok {
		return id
	}
	return code
}

func (s *QueryService) call(ctx context.Context, endpoint string, params map[string]string) (football.Payload, error) {
	payload, err := s.gateway.Fetch(ctx, endpoint, params)
	if err != nil {
		return nil, fault.Classify(crerr.Wrapf(err, "fetch %s", endpoint), fault.CodeUnknownError)
	}
	return payload, nil
}

func (s *QueryService) fetchStandings(ctx context.Context, d query.Descriptor) (Records, error) {
	payload, err := s.call(ctx, football.EndpointStandings, map[string]string{
		"league": s.leagueID(d.League),
		"season": d.Season,
	})
	if err != nil {
		return Records{}, err
	}
	rows, err := transform.Standings(payload)
	if err != nil {
		return Records{}, err
	}
	if len(rows) == 0 {
		return Records{}, notFound(fault.CodeNoStandingsFound, "no standings found", d)
	}
	return Records{Standings: rows}, nil
}

func (s *QueryService) fetchScorers(ctx context.Context, d query.Descriptor) (Records, error) {
	payload, err := s.call(ctx, football.EndpointTopScorers, map[string]string{
		"league": s.leagueID(d.League),
		"season": d.Season,
	})
	if err != nil {
		return Records{}, err
	}
	rows, err := transform.Scorers(payload)
	if err != nil {
		return Records{}, err
	}
	if len(rows) == 0 {
		return Records{}, notFound(fault.CodeNoScorersFound, "no scorers found", d)
	}
	return Records{Scorers: limit(rows, d.Limit)}, nil
}

func (s *QueryService) fetchMatches(ctx context.Context, d query.Descriptor) (Records, error) {
	params := map[string]string{
		"league": s.leagueID(d.League),
		"season": d.Season,
	}
	if d.Team != "" {
		params["team"] = d.Team
	}
	if d.Limit > 0 {
		params["last"] = fmt.Sprint(d.Limit)
	}

	payload, err := s.call(ctx, football.EndpointFixtures, params)
	if err != nil {
		return Records{}, err
	}
	rows, err := transform.Matches(payload)
	if err != nil {
		return Records{}, err
	}
	if len(rows) == 0 {
		return Records{}, notFound(fault.CodeNoMatchesFound, "no matches found", d)
	}
	return Records{Matches: limit(rows, d.Limit)}, nil
}

// fetchTeam loads the profile and the squad concurrently. A failed squad
// fetch fails the whole query.
func (s *QueryService) fetchTeam(ctx context.Context, d query.Descriptor) (Records, error) {
	var profile, squad football.Payload

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		profile, err = s.call(ctx, football.EndpointTeams, map[string]string{"id": d.Team})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		squad, err = s.call(ctx, football.EndpointSquads, map[string]string{"team": d.Team})
		return err
	})
	if err := p.Wait(); err != nil {
		return Records{}, err
	}

	team, err := transform.Team(profile, squad)
	if crerr.Is(err, transform.ErrNoResults) {
		return Records{}, notFound(fault.CodeTeamNotFound, "team not found", d)
	}
	if err != nil {
		return Records{}, err
	}
	return Records{Team: &team}, nil
}

// fetchCompetitions lists the provider leagues the service can answer for.
// When none of them is known the first Limit leagues are returned.
func (s *QueryService) fetchCompetitions(ctx context.Context) (Records, error) {
	payload, err := s.call(ctx, football.EndpointLeagues, nil)
	if err != nil {
		return Records{}, err
	}
	rows, err := transform.Competitions(payload)
	if err != nil {
		return Records{}, err
	}
	if len(rows) == 0 {
		return Records{}, fault.New(fault.CodeNoCompetitionsFound, "no competitions found", nil)
	}

	known := make(map[string]struct{}, len(s.leagueIDs))
	for _, id := range s.leagueIDs {
		known[id] = struct{}{}
	}
	supported := make([]football.Competition, 0, len(known))
	for _, row := range rows {
		if _, ok := known[fmt.Sprint(row.ID)]; ok {
			supported = append(supported, row)
		}
	}
	if len(supported) == 0 {
		supported = limit(rows, query.DefaultLimit)
	}
	return Records{Competitions: supported}, nil
}

func (s *QueryService) fetchTeamStats(ctx context.Context, d query.Descriptor) (Records, error) {
	teamID, err := parseTeamID(d.Team)
	if err != nil {
		return Records{}, err
	}

	payload, err := s.call(ctx, football.EndpointFixtures, map[string]string{
		"league": s.leagueID(d.League),
		"season": d.Season,
		"team":   d.Team,
	})
	if err != nil {
		return Records{}, err
	}
	stats, err := transform.TeamStats(payload, teamID)
	if err != nil {
		return Records{}, err
	}
	if stats.TotalMatches == 0 {
		return Records{}, notFound(fault.CodeNoMatchesFound, "no finished matches found for team", d)
	}
	return Records{TeamStats: &stats}, nil
}

func parseTeamID(raw string) (int64, error) {
	var id int64
	if _, err := fmt.Sscan(strings.TrimSpace(raw), &id); err != nil || id <= 0 {
		return 0, fault.New(fault.CodeMissingTeamID, "team id must be a positive number", map[string]any{"team": raw})
	}
	return id, nil
}

func notFound(code fault.Code, message string, d query.Descriptor) *fault.Error {
	details := map[string]any{
		"league": d.League,
		"season": d.Season,
	}
	if d.Team != "" {
		details["team"] = d.Team
	}
	return fault.New(code, message, details)
}

func limit[T any](rows []T, n int) []T {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}
