package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pecas/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// partColumns is the projection used by every catalog read. Nullable text
// columns are coalesced so callers never see NULLs.
const partColumns = `
	codigo_material,
	COALESCE(descricao, '') AS descricao,
	preco_real,
	COALESCE(qtde_mir, 0) AS qtde_mir,
	COALESCE(modelos_compatibilidade, '') AS modelos_compatibilidade,
	categoria_produto`

// PostgresRepository handles database operations against the parts catalog
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection (used in tests)
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureSchema provisions the catalog tables and extensions. Idempotent,
// meant for the ingestion job and local setups; production migrations run
// outside the binary.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS unaccent`,
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS public.pecas (
			codigo_material TEXT PRIMARY KEY,
			descricao TEXT NOT NULL DEFAULT '',
			preco_real NUMERIC,
			qtde_mir INTEGER DEFAULT 0,
			modelos_compatibilidade TEXT DEFAULT '',
			categoria_produto TEXT,
			embedding vector(1536),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS search_logs (
			id BIGSERIAL PRIMARY KEY,
			query TEXT NOT NULL,
			entities JSONB,
			models TEXT[],
			response_type TEXT,
			result_count INTEGER,
			response_time_ms BIGINT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to provision schema: %w", err)
		}
	}
	return nil
}

// SearchParts fetches catalog candidates matching any of the extracted
// entities. Conditions are OR'd together on purpose: recall is broad here
// and the scorer ranks the candidates afterwards. When no entity was
// extracted, the full normalized text is matched against the description.
func (r *PostgresRepository) SearchParts(ctx context.Context, ent model.ExtractedEntities, limit int) ([]model.Part, error) {
	var conds []string
	var args []interface{}
	argIndex := 1

	if ent.Code != "" {
		conds = append(conds, fmt.Sprintf("codigo_material = $%d", argIndex))
		args = append(args, ent.Code)
		argIndex++
	}

	if ent.PartType != "" {
		conds = append(conds, fmt.Sprintf("unaccent(lower(descricao)) ILIKE unaccent(lower($%d))", argIndex))
		args = append(args, "%"+ent.PartType+"%")
		argIndex++
	}

	if ent.Spec != "" {
		conds = append(conds, fmt.Sprintf("unaccent(lower(descricao)) ILIKE unaccent(lower($%d))", argIndex))
		args = append(args, "%"+ent.Spec+"%")
		argIndex++
	}

	if len(ent.Models) > 0 {
		var modelConds []string
		for _, m := range ent.Models {
			modelConds = append(modelConds, fmt.Sprintf("upper(modelos_compatibilidade) LIKE $%d", argIndex))
			args = append(args, "%"+strings.ToUpper(m)+"%")
			argIndex++
		}
		conds = append(conds, "("+strings.Join(modelConds, " OR ")+")")
	}

	if len(conds) == 0 {
		conds = append(conds, fmt.Sprintf("unaccent(lower(descricao)) ILIKE unaccent(lower($%d))", argIndex))
		args = append(args, "%"+ent.Normalized+"%")
		argIndex++
	}

	query := fmt.Sprintf(`SELECT %s FROM public.pecas WHERE %s LIMIT $%d`,
		partColumns, strings.Join(conds, " OR "), argIndex)
	args = append(args, limit)

	var parts []model.Part
	if err := r.db.SelectContext(ctx, &parts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch parts: %w", err)
	}

	return parts, nil
}

// GetPartByCode retrieves a single part by its material code
func (r *PostgresRepository) GetPartByCode(ctx context.Context, code string) (*model.Part, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.pecas WHERE codigo_material = $1`, partColumns)

	var part model.Part
	err := r.db.GetContext(ctx, &part, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	return &part, nil
}

// CompatibleParts lists parts whose compatibility field mentions the model
func (r *PostgresRepository) CompatibleParts(ctx context.Context, modelName string, limit int) ([]model.Part, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM public.pecas
		WHERE upper(modelos_compatibilidade) LIKE $1
		ORDER BY codigo_material
		LIMIT $2`, partColumns)

	var parts []model.Part
	err := r.db.SelectContext(ctx, &parts, query, "%"+strings.ToUpper(strings.TrimSpace(modelName))+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch compatible parts: %w", err)
	}
	return parts, nil
}

// InsertParts upserts catalog rows inside a single transaction and returns
// the number of rows written. Used by the spreadsheet ingestion job.
func (r *PostgresRepository) InsertParts(ctx context.Context, parts []model.Part) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO public.pecas (codigo_material, descricao, preco_real, qtde_mir, modelos_compatibilidade, categoria_produto, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (codigo_material) DO UPDATE SET
			descricao = EXCLUDED.descricao,
			preco_real = EXCLUDED.preco_real,
			qtde_mir = EXCLUDED.qtde_mir,
			modelos_compatibilidade = EXCLUDED.modelos_compatibilidade,
			categoria_produto = EXCLUDED.categoria_produto,
			updated_at = NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, p := range parts {
		if _, err := stmt.ExecContext(ctx, p.CodigoMaterial, p.Descricao, p.PrecoReal, p.QtdeMir, p.ModelosCompatibilidade, p.CategoriaProduto); err != nil {
			return written, fmt.Errorf("failed to insert %s: %w", p.CodigoMaterial, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return written, nil
}

// BatchUpdateEmbeddings updates description embeddings for multiple parts
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errors []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE public.pecas SET embedding = $1, updated_at = NOW() WHERE codigo_material = $2`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Embedding)
		if _, err := stmt.ExecContext(ctx, vec, item.CodigoMaterial); err != nil {
			errors = append(errors, fmt.Sprintf("codigo %s: %v", item.CodigoMaterial, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// LogSearch records one assistant query for analytics. Best effort: callers
// run it in a goroutine and ignore the error beyond logging.
func (r *PostgresRepository) LogSearch(ctx context.Context, ent model.ExtractedEntities, shape string, resultCount int, tookMs int64) error {
	entJSON, err := json.Marshal(ent)
	if err != nil {
		entJSON = []byte("{}")
	}

	query := `
		INSERT INTO search_logs (query, entities, models, response_type, result_count, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, query, ent.Original, entJSON, pq.Array(ent.Models), shape, resultCount, tookMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}
