package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Part represents one row of the pecas catalog table.
// Nullable columns are coalesced to safe defaults at the repository layer,
// so Descricao and ModelosCompatibilidade are never NULL here.
type Part struct {
	CodigoMaterial         string          `json:"codigo_material" db:"codigo_material"`
	Descricao              string          `json:"descricao" db:"descricao"`
	PrecoReal              *float64        `json:"preco_real,omitempty" db:"preco_real"`
	QtdeMir                int             `json:"qtde_mir" db:"qtde_mir"`
	ModelosCompatibilidade string          `json:"modelos_compatibilidade" db:"modelos_compatibilidade"`
	CategoriaProduto       *string         `json:"categoria_produto,omitempty" db:"categoria_produto"`
	Embedding              pgvector.Vector `json:"-" db:"embedding"`
	UpdatedAt              *time.Time      `json:"updated_at,omitempty" db:"updated_at"`
}

// ScoredPart is a search result: a catalog row plus its 0-100 relevance score.
type ScoredPart struct {
	Part
	Score int `json:"score"`
}

// EmbeddingItem carries a precomputed embedding for a single part.
type EmbeddingItem struct {
	CodigoMaterial string    `json:"codigo_material" binding:"required"`
	Embedding      []float32 `json:"embedding" binding:"required"`
	Text           string    `json:"text,omitempty"`
}

// EmbeddingBatchRequest represents a batch embedding update request.
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingBatchResponse represents the response for a batch embedding update.
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
