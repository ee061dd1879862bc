package database

import (
	"context"

	"github.com/jeremiep/portfolio-be/types"
)

// VectorRecord is the persisted unit in the vector store: the chunk text,
// its metadata and the embedding vector.
type VectorRecord struct {
	ID          string
	Text        string
	Metadata    map[string]string
	ChunkIndex  int
	TotalChunks int
	Embedding   []float32
}

// ScoredRecord pairs a stored record with its similarity score. Scores are
// normalized so that higher means more similar.
type ScoredRecord struct {
	Record VectorRecord
	Score  float32
}

// Embedder converts text into fixed-dimension vectors. Implementations must
// be deterministic for identical input and model so re-ingestion stays
// idempotent at the vector level.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorDatabase is the hosted vector store behind ingestion and retrieval.
// The store is eventually consistent: an upserted record may not be visible
// to an immediately following query.
type VectorDatabase interface {
	UpsertRecords(ctx context.Context, records []VectorRecord) error
	Query(ctx context.Context, vector []float32, topK int) ([]ScoredRecord, error)
	Stats(ctx context.Context) (*types.IndexStats, error)
	Clear(ctx context.Context) error
}
