package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pecas/internal/config"
	"pecas/internal/model"
	"pecas/internal/repository"

	"github.com/xuri/excelize/v2"
)

// Expected spreadsheet layout, one part per row:
// A codigo_material, B descricao, C preco_real, D qtde_mir,
// E modelos_compatibilidade, F categoria_produto.
const (
	colCodigo = iota
	colDescricao
	colPreco
	colQtde
	colModelos
	colCategoria
)

var codeRe = regexp.MustCompile(`^\d{4}-\d{3}-\d{4}$`)

func main() {
	var (
		file      = flag.String("file", "", "path to the .xlsx catalog export (required)")
		sheet     = flag.String("sheet", "", "sheet name (defaults to the first sheet)")
		skipRows  = flag.Int("skip", 1, "header rows to skip")
		provision = flag.Bool("provision", false, "create tables and extensions before loading")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: ingest -file catalog.xlsx [-sheet Planilha1] [-provision]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *provision {
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to provision schema: %v", err)
		}
		log.Println("✅ Schema provisioned")
	}

	parts, skipped, err := readWorkbook(*file, *sheet, *skipRows)
	if err != nil {
		log.Fatalf("Failed to read workbook: %v", err)
	}
	log.Printf("Parsed %d parts from %s (%d rows skipped)", len(parts), *file, skipped)

	if len(parts) == 0 {
		log.Fatal("Nothing to load")
	}

	written, err := repo.InsertParts(ctx, parts)
	if err != nil {
		log.Fatalf("Load failed after %d rows: %v", written, err)
	}
	log.Printf("✅ Loaded %d parts", written)
}

func readWorkbook(path, sheet string, skipRows int) ([]model.Part, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var parts []model.Part
	skipped := 0
	for i, row := range rows {
		if i < skipRows {
			continue
		}
		part, err := parseRow(row)
		if err != nil {
			log.Printf("row %d skipped: %v", i+1, err)
			skipped++
			continue
		}
		parts = append(parts, part)
	}
	return parts, skipped, nil
}

func parseRow(row []string) (model.Part, error) {
	code := strings.TrimSpace(cell(row, colCodigo))
	if !codeRe.MatchString(code) {
		return model.Part{}, fmt.Errorf("invalid material code %q", code)
	}

	descricao := strings.TrimSpace(cell(row, colDescricao))
	if descricao == "" {
		return model.Part{}, fmt.Errorf("empty description for %s", code)
	}

	part := model.Part{
		CodigoMaterial:         code,
		Descricao:              descricao,
		ModelosCompatibilidade: strings.TrimSpace(cell(row, colModelos)),
	}

	if raw := strings.TrimSpace(cell(row, colPreco)); raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return model.Part{}, fmt.Errorf("invalid price %q for %s: %w", raw, code, err)
		}
		part.PrecoReal = &price
	}

	if raw := strings.TrimSpace(cell(row, colQtde)); raw != "" {
		qtde, err := strconv.Atoi(raw)
		if err != nil || qtde < 0 {
			return model.Part{}, fmt.Errorf("invalid quantity %q for %s", raw, code)
		}
		part.QtdeMir = qtde
	}

	if categoria := strings.TrimSpace(cell(row, colCategoria)); categoria != "" {
		part.CategoriaProduto = &categoria
	}

	return part, nil
}

// parsePrice accepts both "1234.50" and the Brazilian "1.234,50".
func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "R$"))
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	return strconv.ParseFloat(raw, 64)
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
