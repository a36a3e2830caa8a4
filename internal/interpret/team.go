package interpret

import (
	"regexp"

	"github.com/riskibarqy/football-query/internal/domain/lexicon"
)

var teamIDRegex = regexp.MustCompile(`\bteam\s*(?:id\s*|#)(\d{1,7})\b`)

type TeamResolver struct {
	lex *lexicon.Lexicon
}

func NewTeamResolver(lex *lexicon.Lexicon) *TeamResolver {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &TeamResolver{lex: lex}
}

// Resolve returns the provider team id mentioned in text. An explicit
// "team id 33" or "team #33" wins over club aliases. The returned club is the
// zero value when only an explicit id was given.
func (r *TeamResolver) Resolve(text string) (string, lexicon.Club, bool) {
	if groups := teamIDRegex.FindStringSubmatch(text); len(groups) == 2 {
		for _, club := range r.lex.Clubs() {
			if club.ID == groups[1] {
				return club.ID, club, true
			}
		}
		return groups[1], lexicon.Club{}, true
	}

	var (
		best      lexicon.Club
		bestScore int
	)
	for _, club := range r.lex.Clubs() {
		score := 0
		for _, alias := range club.Aliases {
			if alias.Match(text) {
				score += alias.Weight
			}
		}
		if score > bestScore {
			best = club
			bestScore = score
		}
	}
	if bestScore == 0 {
		return "", lexicon.Club{}, false
	}
	return best.ID, best, true
}
