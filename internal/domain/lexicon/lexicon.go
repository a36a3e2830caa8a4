// Package lexicon holds the static vocabulary used to interpret free-text
// football queries: intent keywords per language, league aliases and club
// aliases. The tables are built once and never mutated; accessors hand out
// copies.
package lexicon

import (
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/riskibarqy/football-query/internal/domain/query"
)

// MatchMode selects how a pattern is located in the query text.
type MatchMode int

const (
	// MatchWord requires the pattern to be delimited by non-letter, non-digit
	// runes (or the text edges).
	MatchWord MatchMode = iota
	// MatchSubstring accepts the pattern anywhere in the text. Hebrew uses it
	// because articles and prepositions are written as word prefixes.
	MatchSubstring
)

// Pattern is one keyword or phrase with its weight in hundredths.
type Pattern struct {
	Text   string
	Weight int
	Mode   MatchMode
}

// Match reports whether p occurs in text. text must already be normalized.
func (p Pattern) Match(text string) bool {
	if p.Text == "" || text == "" {
		return false
	}
	if p.Mode == MatchSubstring {
		return strings.Contains(text, p.Text)
	}

	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], p.Text)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(p.Text)
		if onWordBoundary(text, start, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func onWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Key addresses one intent vocabulary.
type Key struct {
	Language query.Language
	Intent   query.Intent
}

// League is a competition the resolver can recognise.
type League struct {
	Code    string
	Country string
	Weight  int
	Aliases []Pattern
}

// Club maps aliases to the provider team id.
type Club struct {
	ID      string
	Name    string
	League  string
	Aliases []Pattern
}

// SeasonKind names the relative season phrases.
type SeasonKind int

const (
	SeasonCurrent SeasonKind = iota
	SeasonPrevious
)

type Lexicon struct {
	intents  map[Key][]Pattern
	labels   map[Key]string
	seasons  map[SeasonKind][]Pattern
	metrics  map[string][]Pattern
	leagues  []League
	clubs    []Club
	langs    []query.Language
	priority []query.Intent
}

var defaultLexicon = sync.OnceValue(build)

// Default returns the process-wide lexicon.
func Default() *Lexicon {
	return defaultLexicon()
}

// Languages lists the languages that have vocabulary.
func (l *Lexicon) Languages() []query.Language {
	return slices.Clone(l.langs)
}

// Intents returns intents in tie-break priority order.
func (l *Lexicon) Intents() []query.Intent {
	return slices.Clone(l.priority)
}

// Patterns returns the ordered vocabulary for one language and intent.
func (l *Lexicon) Patterns(lang query.Language, intent query.Intent) []Pattern {
	return slices.Clone(l.intents[Key{Language: lang, Intent: intent}])
}

// Leagues returns leagues in declared priority order.
func (l *Lexicon) Leagues() []League {
	out := make([]League, len(l.leagues))
	for i, item := range l.leagues {
		item.Aliases = slices.Clone(item.Aliases)
		out[i] = item
	}
	return out
}

// HasLeague reports whether code is a known league code.
func (l *Lexicon) HasLeague(code string) bool {
	for _, item := range l.leagues {
		if item.Code == code {
			return true
		}
	}
	return false
}

// Clubs returns clubs in declared priority order.
func (l *Lexicon) Clubs() []Club {
	out := make([]Club, len(l.clubs))
	for i, item := range l.clubs {
		item.Aliases = slices.Clone(item.Aliases)
		out[i] = item
	}
	return out
}

// SeasonPhrases returns the relative-season phrases of every language.
func (l *Lexicon) SeasonPhrases(kind SeasonKind) []Pattern {
	return slices.Clone(l.seasons[kind])
}

// MetricPhrases maps a canonical metric name to the phrases that request it.
func (l *Lexicon) MetricPhrases() map[string][]Pattern {
	out := make(map[string][]Pattern, len(l.metrics))
	for metric, patterns := range l.metrics {
		out[metric] = slices.Clone(patterns)
	}
	return out
}

// IntentLabel is the human-readable name of an intent in lang.
func (l *Lexicon) IntentLabel(lang query.Language, intent query.Intent) string {
	if label, ok := l.labels[Key{Language: lang, Intent: intent}]; ok {
		return label
	}
	return string(intent)
}

// SupportedIntents lists intent labels per language, in priority order.
func (l *Lexicon) SupportedIntents() map[string][]string {
	out := make(map[string][]string, len(l.langs))
	for _, lang := range l.langs {
		labels := make([]string, 0, len(l.priority))
		for _, intent := range l.priority {
			labels = append(labels, l.IntentLabel(lang, intent))
		}
		out[string(lang)] = labels
	}
	return out
}

// phrase builds a pattern, choosing substring matching for Hebrew text and
// whole-word matching otherwise.
func phrase(text string, weight int) Pattern {
	text = Normalize(text)
	mode := MatchWord
	for _, r := range text {
		if unicode.Is(unicode.Hebrew, r) {
			mode = MatchSubstring
			break
		}
	}
	return Pattern{Text: text, Weight: weight, Mode: mode}
}

func phrases(weight int, texts ...string) []Pattern {
	out := make([]Pattern, 0, len(texts))
	for _, text := range texts {
		out = append(out, phrase(text, weight))
	}
	return out
}
