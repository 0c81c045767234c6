package repository

import (
	"context"
	"testing"

	"pecas/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewPostgresRepositoryFromDB(sqlxDB), mock
}

func partRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"codigo_material", "descricao", "preco_real", "qtde_mir",
		"modelos_compatibilidade", "categoria_produto",
	})
}

func TestSearchPartsByTypeAndModel(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer repo.Close()

	price := 43.90
	mock.ExpectQuery(`(?s)SELECT .+ FROM public\.pecas WHERE .+ ILIKE .+ OR .+modelos_compatibilidade.+ LIMIT`).
		WithArgs("%filtro%", "%de ar%", "%FS221%", 50).
		WillReturnRows(partRows().
			AddRow("4180-141-0300", "FILTRO DE AR", price, 3, "FS221;FS291", nil))

	ent := model.ExtractedEntities{
		Original:   "filtro de ar FS221",
		Normalized: "filtro de ar fs221",
		Models:     []string{"FS221"},
		PartType:   "filtro",
		Spec:       "de ar",
	}

	parts, err := repo.SearchParts(context.Background(), ent, 50)
	if err != nil {
		t.Fatalf("SearchParts returned error: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0].CodigoMaterial != "4180-141-0300" {
		t.Errorf("unexpected codigo: %s", parts[0].CodigoMaterial)
	}
	if parts[0].QtdeMir != 3 {
		t.Errorf("unexpected qtde_mir: %d", parts[0].QtdeMir)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearchPartsFallbackUsesNormalizedText(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer repo.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM public\.pecas WHERE unaccent\(lower\(descricao\)\) ILIKE`).
		WithArgs("%abracadeira grande%", 50).
		WillReturnRows(partRows())

	ent := model.ExtractedEntities{
		Original:   "abraçadeira grande",
		Normalized: "abracadeira grande",
	}

	parts, err := repo.SearchParts(context.Background(), ent, 50)
	if err != nil {
		t.Fatalf("SearchParts returned error: %v", err)
	}
	if len(parts) != 0 {
		t.Fatalf("expected no parts, got %d", len(parts))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearchPartsMultipleModels(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer repo.Close()

	mock.ExpectQuery(`LIKE \$1 OR upper\(modelos_compatibilidade\) LIKE \$2`).
		WithArgs("%MS162%", "%MS170%", 50).
		WillReturnRows(partRows().
			AddRow("1108-120-0613", "CARBURADOR", 210.0, 1, "MS162|MS170", nil))

	ent := model.ExtractedEntities{
		Original:   "carburador MS162 ou MS170",
		Normalized: "carburador ms162 ou ms170",
		Models:     []string{"MS162", "MS170"},
	}
	// part type intentionally left out: only the model clauses apply
	parts, err := repo.SearchParts(context.Background(), ent, 50)
	if err != nil {
		t.Fatalf("SearchParts returned error: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetPartByCodeNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer repo.Close()

	mock.ExpectQuery(`WHERE codigo_material = \$1`).
		WithArgs("0000-000-0000").
		WillReturnRows(partRows())

	part, err := repo.GetPartByCode(context.Background(), "0000-000-0000")
	if err != nil {
		t.Fatalf("GetPartByCode returned error: %v", err)
	}
	if part != nil {
		t.Errorf("expected nil part for missing code, got %+v", part)
	}
}

func TestCompatiblePartsUppercasesModel(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer repo.Close()

	mock.ExpectQuery(`upper\(modelos_compatibilidade\) LIKE \$1`).
		WithArgs("%MS162%", 10).
		WillReturnRows(partRows().
			AddRow("1108-120-0613", "CARBURADOR", 210.0, 1, "MS162", nil).
			AddRow("4180-141-0300", "FILTRO DE AR", 43.9, 0, "MS162;MS170", nil))

	parts, err := repo.CompatibleParts(context.Background(), " ms162 ", 10)
	if err != nil {
		t.Fatalf("CompatibleParts returned error: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
}

func TestInsertPartsCommitsTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer repo.Close()

	price := 43.90
	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO public\.pecas`)
	mock.ExpectExec(`INSERT INTO public\.pecas`).
		WithArgs("4180-141-0300", "FILTRO DE AR", 43.90, 3, "FS221", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.InsertParts(context.Background(), []model.Part{{
		CodigoMaterial:         "4180-141-0300",
		Descricao:              "FILTRO DE AR",
		PrecoReal:              &price,
		QtdeMir:                3,
		ModelosCompatibilidade: "FS221",
	}})
	if err != nil {
		t.Fatalf("InsertParts returned error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row written, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLogSearch(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer repo.Close()

	mock.ExpectExec(`INSERT INTO search_logs`).
		WithArgs("filtro de ar FS221", sqlmock.AnyArg(), sqlmock.AnyArg(), "single", 1, int64(12)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ent := model.ExtractedEntities{
		Original:   "filtro de ar FS221",
		Normalized: "filtro de ar fs221",
		Models:     []string{"FS221"},
		PartType:   "filtro",
		Spec:       "de ar",
	}
	if err := repo.LogSearch(context.Background(), ent, "single", 1, 12); err != nil {
		t.Fatalf("LogSearch returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
