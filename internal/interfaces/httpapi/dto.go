package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/usecase"
)

// QueryResponse is the data payload of a successful query.
type QueryResponse struct {
	Descriptor  descriptorDTO `json:"descriptor"`
	Intent      string        `json:"intent"`
	IntentLabel string        `json:"intentLabel"`
	Summary     string        `json:"summary"`
	Records     any           `json:"records"`
}

type descriptorDTO struct {
	Intent  string     `json:"intent"`
	League  string     `json:"league"`
	Season  string     `json:"season"`
	Team    string     `json:"team,omitempty"`
	Filters filtersDTO `json:"filters"`
	Limit   int        `json:"limit"`
}

type filtersDTO struct {
	Formation string `json:"formation,omitempty"`
	Metric    string `json:"metric,omitempty"`
}

type refDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type standingDTO struct {
	Position     int    `json:"position"`
	Team         refDTO `json:"team"`
	PlayedGames  int    `json:"playedGames"`
	Won          int    `json:"won"`
	Draw         int    `json:"draw"`
	Lost         int    `json:"lost"`
	Points       int    `json:"points"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
}

type scorerDTO struct {
	Player refDTO `json:"player"`
	Team   refDTO `json:"team"`
	Goals  int    `json:"goals"`
}

type sideDTO struct {
	Name string `json:"name"`
}

type fullTimeDTO struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type scoreDTO struct {
	FullTime fullTimeDTO `json:"fullTime"`
}

type matchDTO struct {
	ID       int64    `json:"id"`
	UTCDate  string   `json:"utcDate"`
	HomeTeam sideDTO  `json:"homeTeam"`
	AwayTeam sideDTO  `json:"awayTeam"`
	Score    scoreDTO `json:"score"`
}

type playerDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

type teamDTO struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Venue      string      `json:"venue"`
	ClubColors string      `json:"clubColors"`
	Founded    int         `json:"founded"`
	Squad      []playerDTO `json:"squad"`
}

type competitionDTO struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Area sideDTO `json:"area"`
}

type teamStatsDTO struct {
	TeamID        int64   `json:"teamId"`
	TeamName      string  `json:"teamName"`
	TotalMatches  int     `json:"totalMatches"`
	Wins          int     `json:"wins"`
	Draws         int     `json:"draws"`
	Losses        int     `json:"losses"`
	WinPercentage float64 `json:"winPercentage"`
}

type supportedQueriesDTO struct {
	Languages []query.Language    `json:"languages"`
	Intents   map[string][]string `json:"intents"`
}

// NewQueryResponse shapes result for the wire; the CLI prints the same JSON.
func NewQueryResponse(ctx context.Context, lex *lexicon.Lexicon, lang query.Language, result usecase.QueryResult) QueryResponse {
	_, span := startSpan(ctx, "httpapi.queryResultToDTO")
	defer span.End()

	d := result.Descriptor
	return QueryResponse{
		Descriptor: descriptorDTO{
			Intent: string(d.Intent),
			League: d.League,
			Season: d.Season,
			Team:   d.Team,
			Filters: filtersDTO{
				Formation: d.Filters.Formation,
				Metric:    d.Filters.Metric,
			},
			Limit: d.Limit,
		},
		Intent:      string(d.Intent),
		IntentLabel: lex.IntentLabel(lang, d.Intent),
		Summary:     Summarize(lang, result),
		Records:     recordsToDTO(d.Intent, result.Records),
	}
}

func recordsToDTO(intent query.Intent, records usecase.Records) any {
	switch intent {
	case query.IntentStandings:
		out := make([]standingDTO, 0, len(records.Standings))
		for _, s := range records.Standings {
			out = append(out, standingDTO{
				Position:     s.Position,
				Team:         refDTO{ID: s.Team.ID, Name: s.Team.Name},
				PlayedGames:  s.PlayedGames,
				Won:          s.Won,
				Draw:         s.Draw,
				Lost:         s.Lost,
				Points:       s.Points,
				GoalsFor:     s.GoalsFor,
				GoalsAgainst: s.GoalsAgainst,
			})
		}
		return out
	case query.IntentScorers:
		out := make([]scorerDTO, 0, len(records.Scorers))
		for _, s := range records.Scorers {
			out = append(out, scorerDTO{
				Player: refDTO{ID: s.Player.ID, Name: s.Player.Name},
				Team:   refDTO{ID: s.Team.ID, Name: s.Team.Name},
				Goals:  s.Goals,
			})
		}
		return out
	case query.IntentMatches:
		out := make([]matchDTO, 0, len(records.Matches))
		for _, m := range records.Matches {
			out = append(out, matchToDTO(m))
		}
		return out
	case query.IntentTeam:
		if records.Team == nil {
			return nil
		}
		return teamToDTO(*records.Team)
	case query.IntentCompetitions:
		out := make([]competitionDTO, 0, len(records.Competitions))
		for _, c := range records.Competitions {
			out = append(out, competitionDTO{ID: c.ID, Name: c.Name, Area: sideDTO{Name: c.Area.Name}})
		}
		return out
	case query.IntentTeamStats:
		if records.TeamStats == nil {
			return nil
		}
		s := records.TeamStats
		return teamStatsDTO{
			TeamID:        s.TeamID,
			TeamName:      s.TeamName,
			TotalMatches:  s.TotalMatches,
			Wins:          s.Wins,
			Draws:         s.Draws,
			Losses:        s.Losses,
			WinPercentage: s.WinPercentage,
		}
	default:
		return nil
	}
}

func matchToDTO(m football.Match) matchDTO {
	date := ""
	if !m.UTCDate.IsZero() {
		date = m.UTCDate.UTC().Format(time.RFC3339)
	}
	return matchDTO{
		ID:       m.ID,
		UTCDate:  date,
		HomeTeam: sideDTO{Name: m.HomeTeam.Name},
		AwayTeam: sideDTO{Name: m.AwayTeam.Name},
		Score: scoreDTO{FullTime: fullTimeDTO{
			Home: m.Score.FullTime.Home,
			Away: m.Score.FullTime.Away,
		}},
	}
}

func teamToDTO(t football.Team) teamDTO {
	squad := make([]playerDTO, 0, len(t.Squad))
	for _, p := range t.Squad {
		squad = append(squad, playerDTO{ID: p.ID, Name: p.Name, Position: p.Position})
	}
	return teamDTO{
		ID:         t.ID,
		Name:       t.Name,
		Venue:      t.Venue,
		ClubColors: t.ClubColors,
		Founded:    t.Founded,
		Squad:      squad,
	}
}
