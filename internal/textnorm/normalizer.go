package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// typoFixes maps common misspellings and abbreviations seen in customer
// queries to the canonical catalog term. Applied token-wise after
// normalization, so keys must be accent-free and lowercase.
var typoFixes = map[string]string{
	"fitro":      "filtro",
	"filt":       "filtro",
	"carbirador": "carburador",
	"carb":       "carburador",
	"silencador": "silenciador",
	"silenc":     "silenciador",
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripAccents removes combining marks so that "óleo" and "oleo" compare equal.
func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize cleans raw query text: accents stripped, lowercased, whitespace
// collapsed, known typos fixed. Total function; empty input yields "".
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.ToLower(stripAccents(raw))
	fields := strings.Fields(s)
	for i, tok := range fields {
		if fixed, ok := typoFixes[tok]; ok {
			fields[i] = fixed
		}
	}
	return strings.Join(fields, " ")
}
