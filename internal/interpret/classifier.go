package interpret

import (
	"strings"

	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
)

// Classifier picks the intent of a normalized query by weighted keyword
// scoring over the vocabulary of every language.
type Classifier struct {
	lex *lexicon.Lexicon
}

func NewClassifier(lex *lexicon.Lexicon) *Classifier {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Classifier{lex: lex}
}

// Score returns the summed pattern weight of every intent.
func (c *Classifier) Score(text string) map[query.Intent]int {
	scores := make(map[query.Intent]int, len(query.IntentPriority))
	for _, intent := range c.lex.Intents() {
		total := 0
		for _, lang := range c.lex.Languages() {
			for _, p := range c.lex.Patterns(lang, intent) {
				if p.Match(text) {
					total += p.Weight
				}
			}
		}
		scores[intent] = total
	}
	return scores
}

// Classify returns the highest scoring intent. Equal scores resolve to the
// intent that comes first in query.IntentPriority.
func (c *Classifier) Classify(text string) (query.Intent, error) {
	if strings.TrimSpace(text) == "" {
		return "", fault.New(fault.CodeInvalidQuery, "query must be a non-empty string", nil)
	}

	scores := c.Score(text)
	var (
		best      query.Intent
		bestScore int
	)
	for _, intent := range c.lex.Intents() {
		if scores[intent] > bestScore {
			best = intent
			bestScore = scores[intent]
		}
	}

	if bestScore == 0 {
		return "", fault.New(fault.CodeUnknownQueryType, "could not understand the query", map[string]any{
			"query":     text,
			"supported": c.lex.SupportedIntents(),
		})
	}
	return best, nil
}
