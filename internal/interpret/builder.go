// Package interpret turns free text into a query.Descriptor: it classifies the
// intent, resolves season, league and team, and extracts filters.
package interpret

import (
	"strings"
	"time"

	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
)

type BuilderConfig struct {
	Lexicon        *lexicon.Lexicon
	Seasons        SeasonRange
	DefaultLeagues map[query.Language]string
	Now            func() time.Time
}

type Builder struct {
	lex        *lexicon.Lexicon
	classifier *Classifier
	seasons    *SeasonResolver
	leagues    *LeagueResolver
	teams      *TeamResolver
}

func NewBuilder(cfg BuilderConfig) *Builder {
	lex := cfg.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Builder{
		lex:        lex,
		classifier: NewClassifier(lex),
		seasons:    NewSeasonResolver(lex, cfg.Seasons, cfg.Now),
		leagues:    NewLeagueResolver(lex, cfg.DefaultLeagues),
		teams:      NewTeamResolver(lex),
	}
}

// Seasons exposes the season resolver so callers can report its bounds.
func (b *Builder) Seasons() *SeasonResolver {
	return b.seasons
}

// Build interprets raw in lang. Errors are *fault.Error values.
func (b *Builder) Build(raw string, lang query.Language) (query.Descriptor, error) {
	if strings.TrimSpace(raw) == "" {
		return query.Descriptor{}, fault.New(fault.CodeInvalidQuery, "query must be a non-empty string", nil)
	}
	if !lang.Valid() {
		return query.Descriptor{}, fault.New(fault.CodeInvalidQuery, "unsupported language", map[string]any{
			"language":  string(lang),
			"supported": query.Languages,
		})
	}

	text := lexicon.Normalize(raw)

	intent, err := b.classifier.Classify(text)
	if err != nil {
		return query.Descriptor{}, err
	}

	season, err := b.seasons.Resolve(text)
	if err != nil {
		return query.Descriptor{}, err
	}

	teamID, club, hasTeam := b.teams.Resolve(text)

	league, named := b.leagues.Match(text)
	if !named {
		league = b.leagues.Default(lang)
		if hasTeam && club.League != "" {
			league = club.League
		}
	}

	return query.Descriptor{
		Intent:  intent,
		League:  league,
		Season:  season,
		Team:    teamID,
		Filters: extractFilters(b.lex, text, intent),
		Limit:   query.DefaultLimit,
	}, nil
}
