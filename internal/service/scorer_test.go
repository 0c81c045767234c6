package service

import (
	"reflect"
	"testing"

	"pecas/internal/model"
)

func part(codigo, descricao, compat string, qtde int) model.Part {
	return model.Part{
		CodigoMaterial:         codigo,
		Descricao:              descricao,
		ModelosCompatibilidade: compat,
		QtdeMir:                qtde,
	}
}

func TestScorePartLadder(t *testing.T) {
	ent := model.ExtractedEntities{
		Original:   "filtro de ar MS162",
		Normalized: "filtro de ar ms162",
		Models:     []string{"MS162"},
		PartType:   "filtro",
		Spec:       "de ar",
	}

	tests := []struct {
		name string
		p    model.Part
		want int
	}{
		{
			name: "type and model match, no stock",
			p:    part("1", "FILTRO DE AR", "MS162;MS170", 0),
			want: 100,
		},
		{
			name: "type and model match with stock stays capped",
			p:    part("2", "FILTRO DE AR", "MS162", 4),
			want: 100,
		},
		{
			name: "type matches, neighboring model only",
			p:    part("3", "FILTRO DE AR", "MS161", 0),
			want: 70,
		},
		{
			name: "model matches, wrong part type",
			p:    part("4", "CARBURADOR", "MS162", 0),
			want: 60,
		},
		{
			name: "type matches, no model evidence",
			p:    part("5", "FILTRO DE AR", "FS221", 0),
			want: 50,
		},
		{
			name: "type only with stock bonus",
			p:    part("6", "FILTRO DE AR", "", 2),
			want: 55,
		},
		{
			name: "nothing matches",
			p:    part("7", "CORRENTE", "FR410", 0),
			want: 0,
		},
		{
			name: "stock bonus applies even without a base match",
			p:    part("7", "CORRENTE", "FR410", 9),
			want: 5,
		},
		{
			name: "spec is a fetch filter, type and model still score full",
			p:    part("8", "FILTRO DE OLEO", "MS162", 0),
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorePart(ent, tt.p)
			if got != tt.want {
				t.Errorf("scorePart = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScorePartCodeIsFilterOnly(t *testing.T) {
	// A code-only query fetches by exact code, but the fetched row is still
	// judged by type and model evidence alone.
	ent := model.ExtractedEntities{
		Original: "4147-141-0300",
		Code:     "4147-141-0300",
	}
	if got := scorePart(ent, part("4147-141-0300", "TAMPA", "", 0)); got != 0 {
		t.Errorf("code-only score = %d, want 0", got)
	}

	withType := ent
	withType.PartType = "tampa"
	if got := scorePart(withType, part("4147-141-0300", "TAMPA", "", 0)); got != 50 {
		t.Errorf("code plus type score = %d, want 50", got)
	}
}

func TestScorePartsSortedStable(t *testing.T) {
	ent := model.ExtractedEntities{
		Normalized: "filtro de ar ms162",
		Models:     []string{"MS162"},
		PartType:   "filtro",
		Spec:       "de ar",
	}
	parts := []model.Part{
		part("b", "FILTRO DE AR", "FS221", 0), // 50
		part("a", "FILTRO DE AR", "MS162", 0), // 100
		part("c", "FILTRO DE AR", "MS162", 1), // 100, same score as a
	}

	scored := ScoreParts(ent, parts)
	got := []string{scored[0].CodigoMaterial, scored[1].CodigoMaterial, scored[2].CodigoMaterial}
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSelectBand(t *testing.T) {
	mk := func(codigo string, score int) model.ScoredPart {
		return model.ScoredPart{Part: part(codigo, "", "", 0), Score: score}
	}

	tests := []struct {
		name   string
		scored []model.ScoredPart
		want   int
	}{
		{"empty input", nil, 0},
		{"top below floor excluded", []model.ScoredPart{mk("a", 55), mk("b", 50)}, 0},
		{"band keeps co-equal leaders", []model.ScoredPart{mk("a", 100), mk("b", 95), mk("c", 60)}, 2},
		{"floor trims low tail even near top", []model.ScoredPart{mk("a", 65), mk("b", 58)}, 1},
		{"everything within width", []model.ScoredPart{mk("a", 70), mk("b", 65), mk("c", 60)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := SelectBand(tt.scored)
			if len(band) != tt.want {
				t.Errorf("band size = %d, want %d", len(band), tt.want)
			}
		})
	}
}

func TestIsSingle(t *testing.T) {
	mk := func(score int) model.ScoredPart {
		return model.ScoredPart{Score: score}
	}
	if !IsSingle([]model.ScoredPart{mk(100)}) {
		t.Error("lone 100 should be single")
	}
	if !IsSingle([]model.ScoredPart{mk(95)}) {
		t.Error("lone 95 should be single")
	}
	if IsSingle([]model.ScoredPart{mk(70)}) {
		t.Error("lone 70 should not be single")
	}
	if IsSingle([]model.ScoredPart{mk(100), mk(100)}) {
		t.Error("two leaders should not be single")
	}
}

func TestNeighborModels(t *testing.T) {
	got := neighborModels("MS162")
	want := []string{"MS161", "MS163"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("neighborModels(MS162) = %v, want %v", got, want)
	}

	if got := neighborModels("4147-141-0300"); got != nil {
		t.Errorf("expected nil for non-model token, got %v", got)
	}
}
