package service

import (
	"strings"
	"testing"

	"pecas/internal/model"
)

func f64(v float64) *float64 { return &v }

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		price *float64
		want  string
	}{
		{f64(1234.5), "R$ 1.234,50"},
		{f64(43.9), "R$ 43,90"},
		{f64(0), "R$ 0,00"},
		{f64(1000000), "R$ 1.000.000,00"},
		{f64(999.99), "R$ 999,99"},
		{nil, "sob consulta"},
	}

	for _, tt := range tests {
		if got := FormatBRL(tt.price); got != tt.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestFormatCompat(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"MS162;MS170", "MS162, MS170"},
		{"MS162|MS170|FS221", "MS162, MS170, FS221"},
		{" MS162 ; MS170 ", "MS162, MS170"},
		{"", "—"},
		{" ;; ", "—"},
		{"FS221", "FS221"},
	}

	for _, tt := range tests {
		if got := formatCompat(tt.raw); got != tt.want {
			t.Errorf("formatCompat(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestComposeSingle(t *testing.T) {
	item := model.ScoredPart{
		Part: model.Part{
			CodigoMaterial:         "4180-141-0300",
			Descricao:              "FILTRO DE AR",
			PrecoReal:              f64(43.9),
			QtdeMir:                3,
			ModelosCompatibilidade: "FS221;FS291",
		},
		Score: 100,
	}

	text := composeSingle(item)
	for _, want := range []string{
		"FILTRO DE AR",
		"4180-141-0300",
		"R$ 43,90",
		"FS221, FS291",
		"3 unidades em estoque",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("single reply missing %q:\n%s", want, text)
		}
	}
}

func TestComposeMultiTruncates(t *testing.T) {
	var items []model.ScoredPart
	for _, c := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		items = append(items, model.ScoredPart{
			Part:  model.Part{CodigoMaterial: c, Descricao: "FILTRO " + c},
			Score: 60,
		})
	}

	text := composeMulti(items, 5)
	if !strings.Contains(text, "7 opções") {
		t.Errorf("multi reply should state the full count:\n%s", text)
	}
	if !strings.Contains(text, "FILTRO 5") {
		t.Errorf("multi reply should list the fifth item:\n%s", text)
	}
	if strings.Contains(text, "FILTRO 6") {
		t.Errorf("multi reply should not list beyond the cap:\n%s", text)
	}
	if !strings.Contains(text, "mais 2 opções") {
		t.Errorf("multi reply should mention the remainder:\n%s", text)
	}
}

func TestComposeNone(t *testing.T) {
	ent := model.ExtractedEntities{
		PartType: "carburador",
		Models:   []string{"MS990"},
	}

	empty := composeNone(ent, nil, 5)
	if !strings.Contains(empty, "Não encontrei") {
		t.Errorf("unexpected empty reply: %s", empty)
	}
	if !strings.Contains(empty, "carburador") || !strings.Contains(empty, "MS990") {
		t.Errorf("reply should echo what was understood: %s", empty)
	}

	withSuggestions := composeNone(ent, []model.Part{
		{CodigoMaterial: "1", Descricao: "FILTRO DE AR", PrecoReal: f64(10)},
	}, 5)
	if !strings.Contains(withSuggestions, "FILTRO DE AR") {
		t.Errorf("suggestion missing from reply: %s", withSuggestions)
	}
	if !strings.Contains(withSuggestions, "R$ 10,00") {
		t.Errorf("suggestion price missing from reply: %s", withSuggestions)
	}
}

func TestComposeAmbiguousListsAllOptions(t *testing.T) {
	text := composeAmbiguous(AmbiguousFilterOptions)
	for _, opt := range AmbiguousFilterOptions {
		if !strings.Contains(text, opt) {
			t.Errorf("ambiguous reply missing option %q:\n%s", opt, text)
		}
	}
}
