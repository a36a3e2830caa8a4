package interpret

import (
	"maps"

	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
)

// DefaultLeagues is used when the text names no known league.
var DefaultLeagues = map[query.Language]string{
	query.LanguageEnglish: "PL",
	query.LanguageHebrew:  "383",
}

type LeagueResolver struct {
	lex      *lexicon.Lexicon
	defaults map[query.Language]string
}

func NewLeagueResolver(lex *lexicon.Lexicon, defaults map[query.Language]string) *LeagueResolver {
	if lex == nil {
		lex = lexicon.Default()
	}
	merged := maps.Clone(DefaultLeagues)
	for lang, code := range defaults {
		if code != "" {
			merged[lang] = code
		}
	}
	return &LeagueResolver{lex: lex, defaults: merged}
}

// Match returns the best scoring league named in text. Ties keep the league
// declared first.
func (r *LeagueResolver) Match(text string) (string, bool) {
	var (
		best      string
		bestScore int
	)
	for _, league := range r.lex.Leagues() {
		score := 0
		for _, alias := range league.Aliases {
			if alias.Match(text) {
				score += alias.Weight
			}
		}
		if score > bestScore {
			best = league.Code
			bestScore = score
		}
	}
	return best, bestScore > 0
}

// Resolve returns the matched league or the language default.
func (r *LeagueResolver) Resolve(text string, lang query.Language) string {
	if code, ok := r.Match(text); ok {
		return code
	}
	return r.Default(lang)
}

func (r *LeagueResolver) Default(lang query.Language) string {
	if code, ok := r.defaults[lang]; ok {
		return code
	}
	return r.defaults[query.LanguageEnglish]
}
