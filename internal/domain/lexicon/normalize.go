package lexicon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims, composes (NFC), case-folds and collapses whitespace so
// queries and vocabulary compare byte-for-byte. Hebrew has no case and is
// left as composed text.
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	// cases.Caser is stateful; build one per call.
	folded := cases.Fold().String(norm.NFC.String(raw))
	return strings.Join(strings.Fields(folded), " ")
}
