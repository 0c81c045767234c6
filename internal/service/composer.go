package service

import (
	"fmt"
	"strings"

	"pecas/internal/model"
)

// AmbiguousFilterOptions are offered when the customer asks for a "filtro"
// without saying which one.
var AmbiguousFilterOptions = []string{
	"filtro de ar",
	"filtro de óleo",
	"filtro de combustível",
}

// FormatBRL renders a price in Brazilian currency notation:
// 1234.5 becomes "R$ 1.234,50". A nil price reads as on-request.
func FormatBRL(price *float64) string {
	if price == nil {
		return "sob consulta"
	}

	s := fmt.Sprintf("%.2f", *price)
	intPart := s[:len(s)-3]
	decPart := s[len(s)-2:]

	negative := strings.HasPrefix(intPart, "-")
	if negative {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, b.String(), decPart)
}

// formatCompat turns the raw compatibility field (";" or "|" separated)
// into a readable comma list. Empty means the catalog has no data.
func formatCompat(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "—"
	}
	raw = strings.ReplaceAll(raw, "|", ";")
	parts := strings.Split(raw, ";")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "—"
	}
	return strings.Join(out, ", ")
}

func formatStock(qtde int) string {
	if qtde <= 0 {
		return "sem estoque"
	}
	if qtde == 1 {
		return "1 unidade em estoque"
	}
	return fmt.Sprintf("%d unidades em estoque", qtde)
}

// composeSingle renders the confident one-item reply.
func composeSingle(item model.ScoredPart) string {
	var b strings.Builder
	b.WriteString("Encontrei a peça que você procura:\n\n")
	fmt.Fprintf(&b, "%s\n", item.Descricao)
	fmt.Fprintf(&b, "Código: %s\n", item.CodigoMaterial)
	fmt.Fprintf(&b, "Preço: %s\n", FormatBRL(item.PrecoReal))
	fmt.Fprintf(&b, "Compatível com: %s\n", formatCompat(item.ModelosCompatibilidade))
	fmt.Fprintf(&b, "Disponibilidade: %s", formatStock(item.QtdeMir))
	return b.String()
}

// composeMulti renders up to maxListed co-equal candidates.
func composeMulti(items []model.ScoredPart, maxListed int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Encontrei %d opções que podem atender:\n", len(items))

	listed := items
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	for i, item := range listed {
		fmt.Fprintf(&b, "\n%d. %s (cód. %s) — %s — compatível: %s",
			i+1, item.Descricao, item.CodigoMaterial,
			FormatBRL(item.PrecoReal), formatCompat(item.ModelosCompatibilidade))
	}
	if len(items) > maxListed {
		fmt.Fprintf(&b, "\n\n...e mais %d opções. Informe o modelo do equipamento para eu refinar.", len(items)-maxListed)
	} else {
		b.WriteString("\n\nQual delas você prefere?")
	}
	return b.String()
}

// composeNone renders the empty result: what was understood from the query,
// then broader suggestions when the catalog has anything adjacent to offer.
func composeNone(ent model.ExtractedEntities, suggestions []model.Part, maxListed int) string {
	var b strings.Builder
	b.WriteString("Não encontrei essa peça no catálogo.")
	if hint := entityHint(ent); hint != "" {
		fmt.Fprintf(&b, " Procurei por %s.", hint)
	}

	if len(suggestions) == 0 {
		b.WriteString(" Pode me dizer o modelo do equipamento ou o código do material?")
		return b.String()
	}

	b.WriteString("\n\nTalvez uma destas ajude:\n")
	listed := suggestions
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	for _, p := range listed {
		fmt.Fprintf(&b, "\n• %s (cód. %s) — %s", p.Descricao, p.CodigoMaterial, FormatBRL(p.PrecoReal))
	}
	b.WriteString("\n\nSe nenhuma servir, me informe o modelo do equipamento.")
	return b.String()
}

// entityHint summarizes what the extractor understood, so the customer can
// correct the part of the question that missed.
func entityHint(ent model.ExtractedEntities) string {
	var parts []string
	if ent.PartType != "" {
		p := ent.PartType
		if ent.Spec != "" {
			p += " " + ent.Spec
		}
		parts = append(parts, p)
	}
	if len(ent.Models) > 0 {
		parts = append(parts, "modelo "+strings.Join(ent.Models, "/"))
	}
	if ent.Code != "" {
		parts = append(parts, "código "+ent.Code)
	}
	return strings.Join(parts, ", ")
}

// composeAmbiguous asks the customer to pick a filter kind.
func composeAmbiguous(options []string) string {
	var b strings.Builder
	b.WriteString("Temos mais de um tipo de filtro. Qual você procura?\n")
	for _, opt := range options {
		fmt.Fprintf(&b, "\n• %s", opt)
	}
	return b.String()
}
