package interpret

import (
	"regexp"

	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
)

var formationRegex = regexp.MustCompile(`\b\d-\d-\d(?:-\d)?\b`)

// extractFilters pulls a formation and, for team statistics, the requested
// metric out of normalized text.
func extractFilters(lex *lexicon.Lexicon, text string, intent query.Intent) query.Filters {
	filters := query.Filters{
		Formation: formationRegex.FindString(text),
	}
	if intent != query.IntentTeamStats {
		return filters
	}

	metrics := lex.MetricPhrases()
	for _, metric := range []string{lexicon.MetricWinPercentage} {
		if matchesAny(metrics[metric], text) {
			filters.Metric = metric
			break
		}
	}
	if filters.Metric == "" {
		filters.Metric = lexicon.MetricWinPercentage
	}
	return filters
}
