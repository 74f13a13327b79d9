package rules

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FoldKey normalizes a check name for rule lookup: lowercased, whitespace
// removed, diacritics stripped. "Épaisseur", "epaisseur" and " épaisseur "
// all fold to "epaisseur". This is deliberately more aggressive than the
// dictionary's NormKey so the override table holds even when an entry
// bypassed canonicalization.
func FoldKey(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
