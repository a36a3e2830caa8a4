// Package transform decodes provider payloads into canonical football
// records. Functions are pure: the same bytes always give the same records.
package transform

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/football"
)

var (
	// ErrMalformedPayload reports a provider document that could not be
	// decoded or lacks a required field.
	ErrMalformedPayload = crerr.New("malformed provider payload")
	// ErrNoResults reports a single-record endpoint that returned nothing.
	ErrNoResults = crerr.New("provider returned no results")
)

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
})

func malformed(kind string, cause error, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	details["payload"] = kind
	return fault.Wrap(fmt.Errorf("decode %s: %w: %w", kind, ErrMalformedPayload, cause),
		fault.CodeUnknownError, "malformed "+kind+" payload", details)
}

func decode[T any](kind string, raw football.Payload) ([]T, error) {
	var doc envelope[T]
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, malformed(kind, err, nil)
	}
	return doc.Response, nil
}

func check(kind string, index int, item any) error {
	err := validate().Struct(item)
	if err == nil {
		return nil
	}

	details := map[string]any{"index": index}
	var fieldErrs validator.ValidationErrors
	if crerr.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		namespace := fieldErrs[0].Namespace()
		if _, rest, ok := strings.Cut(namespace, "."); ok {
			namespace = rest
		}
		details["field"] = namespace
	}
	return malformed(kind, err, details)
}

// Standings maps the first table group of a /standings document, keeping the
// provider order.
func Standings(raw football.Payload) ([]football.Standing, error) {
	items, err := decode[standingsLeagueDTO]("standings", raw)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 || len(items[0].League.Standings) == 0 {
		return []football.Standing{}, nil
	}

	rows := items[0].League.Standings[0]
	out := make([]football.Standing, 0, len(rows))
	for i, row := range rows {
		if err := check("standings", i, row); err != nil {
			return nil, err
		}
		all := row.All
		if *all.Played != *all.Win+*all.Draw+*all.Lose {
			return nil, malformed("standings", crerr.Newf("played %d does not equal won+draw+lost", *all.Played), map[string]any{
				"index": i,
				"field": "all.played",
			})
		}
		out = append(out, football.Standing{
			Position:     *row.Rank,
			Team:         football.TeamRef{ID: *row.Team.ID, Name: *row.Team.Name},
			PlayedGames:  *all.Played,
			Won:          *all.Win,
			Draw:         *all.Draw,
			Lost:         *all.Lose,
			Points:       *row.Points,
			GoalsFor:     *all.Goals.For,
			GoalsAgainst: *all.Goals.Against,
		})
	}
	return out, nil
}

// Scorers maps a /players/topscorers document using each player's first
// statistics entry.
func Scorers(raw football.Payload) ([]football.Scorer, error) {
	items, err := decode[scorerDTO]("scorers", raw)
	if err != nil {
		return nil, err
	}

	out := make([]football.Scorer, 0, len(items))
	for i, item := range items {
		if err := check("scorers", i, item); err != nil {
			return nil, err
		}
		stat := item.Statistics[0]
		out = append(out, football.Scorer{
			Player: football.PlayerRef{ID: *item.Player.ID, Name: *item.Player.Name},
			Team:   football.TeamRef{ID: *stat.Team.ID, Name: *stat.Team.Name},
			Goals:  *stat.Goals.Total,
		})
	}
	return out, nil
}

func Matches(raw football.Payload) ([]football.Match, error) {
	items, err := decode[fixtureDTO]("fixtures", raw)
	if err != nil {
		return nil, err
	}

	out := make([]football.Match, 0, len(items))
	for i, item := range items {
		if err := check("fixtures", i, item); err != nil {
			return nil, err
		}
		kickoff, err := time.Parse(time.RFC3339, *item.Fixture.Date)
		if err != nil {
			return nil, malformed("fixtures", err, map[string]any{"index": i, "field": "fixture.date"})
		}
		out = append(out, football.Match{
			ID:       *item.Fixture.ID,
			UTCDate:  kickoff.UTC(),
			HomeTeam: football.Side{Name: *item.Teams.Home.Name},
			AwayTeam: football.Side{Name: *item.Teams.Away.Name},
			Score: football.Score{FullTime: football.FullTime{
				Home: item.Goals.Home,
				Away: item.Goals.Away,
			}},
		})
	}
	return out, nil
}

// Team combines a /teams profile with a /players/squads document. The squad
// payload may be nil, which yields an empty squad.
func Team(profile, squad football.Payload) (football.Team, error) {
	items, err := decode[teamProfileDTO]("team", profile)
	if err != nil {
		return football.Team{}, err
	}
	if len(items) == 0 {
		return football.Team{}, ErrNoResults
	}
	item := items[0]
	if err := check("team", 0, item); err != nil {
		return football.Team{}, err
	}

	team := football.Team{
		ID:         *item.Team.ID,
		Name:       *item.Team.Name,
		ClubColors: football.NotAvailable,
		Squad:      []football.Player{},
	}
	if item.Team.Founded != nil {
		team.Founded = *item.Team.Founded
	}
	if item.Team.Colors != nil && strings.TrimSpace(item.Team.Colors.Player) != "" {
		team.ClubColors = item.Team.Colors.Player
	}
	if item.Venue != nil {
		team.Venue = item.Venue.Name
	}

	if len(squad) == 0 {
		return team, nil
	}
	squads, err := decode[squadDTO]("squad", squad)
	if err != nil {
		return football.Team{}, err
	}
	if len(squads) == 0 {
		return team, nil
	}
	if err := check("squad", 0, squads[0]); err != nil {
		return football.Team{}, err
	}
	for _, p := range squads[0].Players {
		team.Squad = append(team.Squad, football.Player{
			ID:       *p.ID,
			Name:     *p.Name,
			Position: p.Position,
		})
	}
	return team, nil
}

func Competitions(raw football.Payload) ([]football.Competition, error) {
	items, err := decode[competitionDTO]("competitions", raw)
	if err != nil {
		return nil, err
	}

	out := make([]football.Competition, 0, len(items))
	for i, item := range items {
		if err := check("competitions", i, item); err != nil {
			return nil, err
		}
		area := ""
		if item.Country != nil {
			area = item.Country.Name
		}
		out = append(out, football.Competition{
			ID:   *item.League.ID,
			Name: *item.League.Name,
			Area: football.Area{Name: area},
		})
	}
	return out, nil
}

// Seasons returns the season years listed by /leagues/seasons.
func Seasons(raw football.Payload) ([]int, error) {
	return decode[int]("seasons", raw)
}

// TeamStats counts the finished fixtures of teamID in a /fixtures document
// from that team's perspective. Fixtures the team did not play are ignored.
func TeamStats(raw football.Payload, teamID int64) (football.TeamStats, error) {
	items, err := decode[fixtureDTO]("fixtures", raw)
	if err != nil {
		return football.TeamStats{}, err
	}

	stats := football.TeamStats{TeamID: teamID}
	for i, item := range items {
		if err := check("fixtures", i, item); err != nil {
			return football.TeamStats{}, err
		}
		if item.Goals.Home == nil || item.Goals.Away == nil {
			continue
		}

		var own, other int
		switch teamID {
		case *item.Teams.Home.ID:
			own, other = *item.Goals.Home, *item.Goals.Away
			stats.TeamName = *item.Teams.Home.Name
		case *item.Teams.Away.ID:
			own, other = *item.Goals.Away, *item.Goals.Home
			stats.TeamName = *item.Teams.Away.Name
		default:
			continue
		}

		stats.TotalMatches++
		switch {
		case own > other:
			stats.Wins++
		case own < other:
			stats.Losses++
		default:
			stats.Draws++
		}
	}

	if stats.TotalMatches > 0 {
		stats.WinPercentage = float64(stats.Wins) / float64(stats.TotalMatches) * 100
	}
	return stats, nil
}
