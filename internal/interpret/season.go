package interpret

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/lexicon"
)

var (
	fullYearRegex  = regexp.MustCompile(`\b20\d{2}\b`)
	shortYearRegex = regexp.MustCompile(`\b(\d{2})[/-]\d{2}\b`)
)

// seasonStartMonth is the month a new European season is considered started.
const seasonStartMonth = time.July

// SeasonRange bounds the seasons the upstream plan serves, inclusive.
// Max == 0 means "up to the current season".
type SeasonRange struct {
	Min int
	Max int
}

// CurrentSeason returns the starting year of the season running at now.
func CurrentSeason(now time.Time) int {
	if now.Month() >= seasonStartMonth {
		return now.Year()
	}
	return now.Year() - 1
}

type SeasonResolver struct {
	lex    *lexicon.Lexicon
	bounds SeasonRange
	now    func() time.Time
}

func NewSeasonResolver(lex *lexicon.Lexicon, bounds SeasonRange, now func() time.Time) *SeasonResolver {
	if lex == nil {
		lex = lexicon.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &SeasonResolver{lex: lex, bounds: bounds, now: now}
}

// Bounds returns the effective inclusive range at the resolver's current time.
func (r *SeasonResolver) Bounds() (int, int) {
	maxYear := r.bounds.Max
	if maxYear <= 0 {
		maxYear = CurrentSeason(r.now())
	}
	return r.bounds.Min, maxYear
}

// Resolve extracts the season from normalized text. Precedence: current
// season phrases, previous season phrases, a 4-digit year, a yy/yy or yy-yy
// pair, then the current season.
func (r *SeasonResolver) Resolve(text string) (string, error) {
	current := CurrentSeason(r.now())

	year := current
	switch {
	case matchesAny(r.lex.SeasonPhrases(lexicon.SeasonCurrent), text):
		year = current
	case matchesAny(r.lex.SeasonPhrases(lexicon.SeasonPrevious), text):
		year = current - 1
	default:
		if match := fullYearRegex.FindString(text); match != "" {
			year, _ = strconv.Atoi(match)
		} else if groups := shortYearRegex.FindStringSubmatch(text); len(groups) == 2 {
			year, _ = strconv.Atoi("20" + groups[1])
		}
	}

	return r.validate(year)
}

func (r *SeasonResolver) validate(year int) (string, error) {
	season := strconv.Itoa(year)
	minYear, maxYear := r.Bounds()
	if year < minYear || year > maxYear {
		return "", fault.New(fault.CodeInvalidSeason,
			fmt.Sprintf("season %s is not supported, valid seasons are %d to %d", season, minYear, maxYear),
			map[string]any{
				"season": season,
				"min":    minYear,
				"max":    maxYear,
			})
	}
	return season, nil
}

func matchesAny(patterns []lexicon.Pattern, text string) bool {
	for _, p := range patterns {
		if p.Match(text) {
			return true
		}
	}
	return false
}
