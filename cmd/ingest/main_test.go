package main

import "testing"

func TestParseRow(t *testing.T) {
	row := []string{"4180-141-0300", "FILTRO DE AR", "43,90", "3", "FS221;FS291", "peça"}
	part, err := parseRow(row)
	if err != nil {
		t.Fatalf("parseRow returned error: %v", err)
	}
	if part.CodigoMaterial != "4180-141-0300" {
		t.Errorf("codigo = %q", part.CodigoMaterial)
	}
	if part.PrecoReal == nil || *part.PrecoReal != 43.90 {
		t.Errorf("preco = %v, want 43.90", part.PrecoReal)
	}
	if part.QtdeMir != 3 {
		t.Errorf("qtde = %d, want 3", part.QtdeMir)
	}
	if part.CategoriaProduto == nil || *part.CategoriaProduto != "peça" {
		t.Errorf("categoria = %v", part.CategoriaProduto)
	}
}

func TestParseRowShortRow(t *testing.T) {
	part, err := parseRow([]string{"4180-141-0300", "FILTRO DE AR"})
	if err != nil {
		t.Fatalf("parseRow returned error: %v", err)
	}
	if part.PrecoReal != nil {
		t.Errorf("expected nil price, got %v", *part.PrecoReal)
	}
	if part.QtdeMir != 0 {
		t.Errorf("expected zero quantity, got %d", part.QtdeMir)
	}
}

func TestParseRowRejectsBadData(t *testing.T) {
	cases := [][]string{
		{"123-456", "FILTRO"},                   // bad code
		{"4180-141-0300", ""},                   // empty description
		{"4180-141-0300", "FILTRO", "abc"},      // bad price
		{"4180-141-0300", "FILTRO", "10", "-2"}, // negative quantity
	}
	for _, row := range cases {
		if _, err := parseRow(row); err == nil {
			t.Errorf("expected error for row %v", row)
		}
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"43.90", 43.90},
		{"43,90", 43.90},
		{"1.234,50", 1234.50},
		{"R$ 1.234,50", 1234.50},
		{"1234", 1234},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.raw)
		if err != nil {
			t.Errorf("parsePrice(%q) returned error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
