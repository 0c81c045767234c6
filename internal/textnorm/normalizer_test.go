package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips accents and lowercases",
			input: "Filtro de Óleo PISTÃO",
			want:  "filtro de oleo pistao",
		},
		{
			name:  "collapses whitespace",
			input: "  filtro   de  ar \t MS162 ",
			want:  "filtro de ar ms162",
		},
		{
			name:  "fixes known typos",
			input: "fitro de ar",
			want:  "filtro de ar",
		},
		{
			name:  "expands abbreviations",
			input: "carb para MS250",
			want:  "carburador para ms250",
		},
		{
			name:  "unknown tokens pass through",
			input: "silencador da roçadeira",
			want:  "silenciador da rocadeira",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   \t\n ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Filtro de Óleo para MS 162",
		"fitro   DE AR",
		"carb",
		"4147-141-0300",
		"",
		"roçadeira FS221 profissional",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
