package textnorm

import (
	"regexp"
	"sort"
	"strings"

	"pecas/internal/model"
)

// partTypes is the closed vocabulary of part keywords, checked against the
// normalized (accent-free) query in this order. First match wins.
var partTypes = []string{
	"filtro", "carburador", "silenciador", "tampa", "luva",
	"engrenagem", "plaqueta", "junta", "pistao",
	"lamina", "corrente", "sabre", "pinhao",
}

// specPhrase pairs a normalized qualifier phrase with its canonical
// accented spelling.
type specPhrase struct {
	match     string
	canonical string
}

var specPhrases = []specPhrase{
	{"de ar", "de ar"},
	{"do ar", "do ar"},
	{"de oleo", "de óleo"},
	{"do oleo", "do óleo"},
	{"de combustivel", "de combustível"},
	{"do combustivel", "do combustível"},
}

var (
	codeRe  = regexp.MustCompile(`\b\d{4}-\d{3}-\d{4}\b`)
	modelRe = regexp.MustCompile(`\b([A-Za-z]{2}\d{2,3})\b`)
)

// Extract derives structured entities from a raw query. The material code
// and model tokens are scanned in the original text (they carry no accents),
// part type and spec in the normalized text. All extracted models are
// collected, uppercased and deduplicated; a query like "filtro para MS162 e
// MS170" keeps both models so compatibility can be checked against either.
func Extract(raw string) model.ExtractedEntities {
	original := strings.TrimSpace(raw)
	normalized := Normalize(original)

	ent := model.ExtractedEntities{
		Original:   original,
		Normalized: normalized,
	}

	ent.Code = codeRe.FindString(original)

	seen := map[string]bool{}
	for _, m := range modelRe.FindAllStringSubmatch(original, -1) {
		token := strings.ToUpper(m[1])
		if !seen[token] {
			seen[token] = true
			ent.Models = append(ent.Models, token)
		}
	}
	sort.Strings(ent.Models)

	for _, p := range partTypes {
		if strings.Contains(normalized, p) {
			ent.PartType = p
			break
		}
	}

	for _, sp := range specPhrases {
		if strings.Contains(normalized, sp.match) {
			ent.Spec = sp.canonical
			break
		}
	}

	return ent
}
