package query

import (
	"strings"

	sonic "github.com/bytedance/sonic"
)

// DefaultLimit caps the number of records rendered for list intents.
const DefaultLimit = 10

// Intent is the closed set of query kinds the service can answer.
type Intent string

const (
	IntentStandings    Intent = "standings"
	IntentScorers      Intent = "scorers"
	IntentMatches      Intent = "matches"
	IntentTeam         Intent = "team"
	IntentCompetitions Intent = "competitions"
	IntentTeamStats    Intent = "team-stats"
)

// IntentPriority is the tie-break order used when two intents score equally.
// More specific intents come first.
var IntentPriority = []Intent{
	IntentTeamStats,
	IntentScorers,
	IntentTeam,
	IntentStandings,
	IntentMatches,
	IntentCompetitions,
}

func (i Intent) Valid() bool {
	switch i {
	case IntentStandings, IntentScorers, IntentMatches, IntentTeam, IntentCompetitions, IntentTeamStats:
		return true
	default:
		return false
	}
}

// NeedsTeam reports whether the intent cannot be answered without a team id.
func (i Intent) NeedsTeam() bool {
	return i == IntentTeam || i == IntentTeamStats
}

// Language of the caller. It only selects defaults; keywords of every
// language are always considered.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"
)

var Languages = []Language{LanguageEnglish, LanguageHebrew}

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageHebrew
}

// ParseLanguage accepts "en"/"he" in any case.
func ParseLanguage(raw string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimSpace(raw)))
	return lang, lang.Valid()
}

type Filters struct {
	Formation string
	Metric    string
}

func (f Filters) IsZero() bool {
	return f.Formation == "" && f.Metric == ""
}

// Descriptor is the typed, validated form of a free-text query. It is a value
// type: built once by the interpreter and only read afterwards.
type Descriptor struct {
	Intent  Intent
	League  string
	Season  string
	Team    string
	Filters Filters
	Limit   int
}

// CacheKey serializes every field with sorted names so descriptors that are
// field-wise equal always produce the same key.
func (d Descriptor) CacheKey() string {
	fields := map[string]any{
		"intent":  string(d.Intent),
		"league":  d.League,
		"season":  d.Season,
		"team":    d.Team,
		"limit":   d.Limit,
		"filters": map[string]any{"formation": d.Filters.Formation, "metric": d.Filters.Metric},
	}
	key, err := sonic.ConfigStd.MarshalToString(fields)
	if err != nil {
		// Only plain strings and ints are encoded above.
		return string(d.Intent) + "|" + d.League + "|" + d.Season + "|" + d.Team
	}
	return key
}
