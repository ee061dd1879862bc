package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/database"
	"github.com/jeremiep/portfolio-be/types"
)

// RAGService answers free-text queries with the most relevant stored chunks
// and assembles a bounded context string for prompt injection. Search
// failures are logged and surface as empty results; callers never see raw
// provider errors.
type RAGService struct {
	embedder database.Embedder
	store    database.VectorDatabase
	topK     int
	logger   *zap.Logger
}

func NewRAGService(embedder database.Embedder, store database.VectorDatabase, topK int, logger *zap.Logger) *RAGService {
	if topK <= 0 {
		topK = 5
	}
	return &RAGService{
		embedder: embedder,
		store:    store,
		topK:     topK,
		logger:   logger,
	}
}

// SearchSimilarDocuments returns up to the default topK documents ordered by
// decreasing relevance. Returns an empty list on failure, never an error.
func (s *RAGService) SearchSimilarDocuments(ctx context.Context, query string) []types.Document {
	scored := s.SearchWithScores(ctx, query, 0)
	docs := make([]types.Document, 0, len(scored))
	for _, r := range scored {
		docs = append(docs, r.Document)
	}
	return docs
}

// SearchWithScores runs the same search, additionally exposing the raw
// similarity score per result. topK <= 0 means the configured default.
func (s *RAGService) SearchWithScores(ctx context.Context, query string, topK int) []types.ScoredDocument {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if topK <= 0 {
		topK = s.topK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Error("failed to embed query", zap.Error(err))
		return nil
	}

	records, err := s.store.Query(ctx, vector, topK)
	if err != nil {
		s.logger.Error("failed to search documents", zap.Error(err))
		return nil
	}

	results := make([]types.ScoredDocument, 0, len(records))
	for _, r := range records {
		results = append(results, types.ScoredDocument{
			Document: types.Document{
				Content:  r.Record.Text,
				Metadata: r.Record.Metadata,
			},
			Score: r.Score,
		})
	}
	s.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results
}

// BuildRAGContext formats retrieval results as labeled source blocks for
// prompt injection. An empty string means no context is available and the
// caller must proceed without enrichment.
func (s *RAGService) BuildRAGContext(ctx context.Context, query string) string {
	docs := s.SearchSimilarDocuments(ctx, query)
	if len(docs) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		source := doc.Metadata[types.MetaSource]
		if source == "" {
			source = "unknown"
		}
		docType := doc.Metadata[types.MetaType]
		if docType == "" {
			docType = "document"
		}
		blocks = append(blocks, fmt.Sprintf("[Source %d: %s (%s)]\n%s\n", i+1, source, docType, doc.Content))
	}
	return strings.Join(blocks, "\n---\n\n")
}

// IsHealthy probes connectivity with a trivial one-result search.
func (s *RAGService) IsHealthy(ctx context.Context) bool {
	vector, err := s.embedder.Embed(ctx, "test")
	if err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		return false
	}
	if _, err := s.store.Query(ctx, vector, 1); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		return false
	}
	return true
}
