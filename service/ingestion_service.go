package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/database"
	"github.com/jeremiep/portfolio-be/parser"
	"github.com/jeremiep/portfolio-be/splitter"
	"github.com/jeremiep/portfolio-be/types"
)

// IngestionService orchestrates parsing, chunking, embedding and storage for
// content directories, single files and in-memory uploads. Files within one
// run are processed sequentially in listing order; there is no cross-run
// deduplication, so re-ingesting the same source appends duplicate records.
type IngestionService struct {
	factory      *parser.Factory
	splitter     *splitter.Splitter
	embedder     database.Embedder
	store        database.VectorDatabase
	sources      []types.ContentSource
	specialFiles []types.SpecialFile
	logger       *zap.Logger
}

func NewIngestionService(
	factory *parser.Factory,
	split *splitter.Splitter,
	embedder database.Embedder,
	store database.VectorDatabase,
	sources []types.ContentSource,
	specialFiles []types.SpecialFile,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		factory:      factory,
		splitter:     split,
		embedder:     embedder,
		store:        store,
		sources:      sources,
		specialFiles: specialFiles,
		logger:       logger,
	}
}

// IngestPortfolioContent ingests every configured content source and special
// file. It always returns a stats object: per-file failures are recorded in
// the stats without aborting the run, and a fatal error is appended as a
// single entry alongside whatever progress was made.
func (s *IngestionService) IngestPortfolioContent(ctx context.Context) *types.IngestionStats {
	runID := uuid.NewString()
	stats := &types.IngestionStats{Errors: []string{}}
	s.logger.Info("starting portfolio content ingestion", zap.String("run_id", runID))

	for _, source := range s.sources {
		if err := s.ingestDirectory(ctx, source, stats); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("directory %s: %v", source.Path, err))
		}
	}
	s.ingestSpecialFiles(ctx, stats)

	s.logger.Info("portfolio content ingestion completed",
		zap.String("run_id", runID),
		zap.Int("total_files", stats.TotalFiles),
		zap.Int("successful_files", stats.SuccessfulFiles),
		zap.Int("failed_files", stats.FailedFiles),
		zap.Int("total_chunks", stats.TotalChunks),
		zap.Int("errors", len(stats.Errors)),
	)
	return stats
}

func (s *IngestionService) ingestDirectory(ctx context.Context, source types.ContentSource, stats *types.IngestionStats) error {
	if _, err := os.Stat(source.Path); err != nil {
		s.logger.Warn("content directory not found, skipping", zap.String("path", source.Path))
		return nil
	}

	files, err := s.listFiles(source.Path, source.Recursive)
	if err != nil {
		return err
	}

	for _, path := range files {
		if _, ok := s.factory.Parser(path); !ok {
			s.logger.Debug("no parser available, skipping", zap.String("path", path))
			continue
		}
		stats.TotalFiles++

		doc, err := s.parseFile(path, nil)
		if err != nil {
			stats.FailedFiles++
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		doc.Metadata[types.MetaContentType] = source.ContentType
		doc.Metadata[types.MetaIngestionDate] = time.Now().UTC().Format(time.RFC3339)

		chunks, err := s.processDocument(ctx, doc)
		if err != nil {
			stats.FailedFiles++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		stats.SuccessfulFiles++
		stats.TotalChunks += chunks
	}
	return nil
}

// listFiles returns regular files under root in listing order. Non-recursive
// sources only consider direct children.
func (s *IngestionService) listFiles(root string, recursive bool) ([]string, error) {
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, filepath.Join(root, entry.Name()))
		}
		return files, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (s *IngestionService) ingestSpecialFiles(ctx context.Context, stats *types.IngestionStats) {
	for _, file := range s.specialFiles {
		if _, err := os.Stat(file.Path); err != nil {
			s.logger.Warn("special file not found, skipping", zap.String("path", file.Path))
			continue
		}
		if _, ok := s.factory.Parser(file.Path); !ok {
			s.logger.Debug("no parser available, skipping", zap.String("path", file.Path))
			continue
		}
		stats.TotalFiles++

		doc, err := s.parseFile(file.Path, nil)
		if err != nil {
			stats.FailedFiles++
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		doc.Metadata[types.MetaContentType] = file.ContentType
		doc.Metadata[types.MetaIngestionDate] = time.Now().UTC().Format(time.RFC3339)
		doc.Metadata[types.MetaSpecialFile] = "true"
		if file.Title != "" {
			doc.Metadata[types.MetaTitle] = file.Title
		}

		chunks, err := s.processDocument(ctx, doc)
		if err != nil {
			stats.FailedFiles++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", file.Path, err))
			continue
		}
		stats.SuccessfulFiles++
		stats.TotalChunks += chunks
	}
}

// IngestFile parses, tags and stores one file. Failures are logged and
// reported as false, never raised to the caller.
func (s *IngestionService) IngestFile(ctx context.Context, path, contentType string) bool {
	if _, ok := s.factory.Parser(path); !ok {
		s.logger.Warn("no parser available for file", zap.String("path", path))
		return false
	}
	doc, err := s.parseFile(path, nil)
	if err != nil {
		s.logger.Error("failed to ingest file", zap.String("path", path), zap.Error(err))
		return false
	}
	s.enrich(doc, contentType)

	if _, err := s.processDocument(ctx, doc); err != nil {
		s.logger.Error("failed to ingest file", zap.String("path", path), zap.Error(err))
		return false
	}
	s.logger.Info("ingested file", zap.String("path", path))
	return true
}

// IngestFromBuffer is IngestFile for uploaded content: fileName selects the
// parser and becomes the source; the buffer is parsed instead of disk.
func (s *IngestionService) IngestFromBuffer(ctx context.Context, content []byte, fileName, contentType string) bool {
	if _, ok := s.factory.Parser(fileName); !ok {
		s.logger.Warn("no parser available for buffer", zap.String("file_name", fileName))
		return false
	}
	doc, err := s.parseFile(fileName, content)
	if err != nil {
		s.logger.Error("failed to ingest buffer", zap.String("file_name", fileName), zap.Error(err))
		return false
	}
	s.enrich(doc, contentType)
	doc.Metadata[types.MetaSource] = fileName

	if _, err := s.processDocument(ctx, doc); err != nil {
		s.logger.Error("failed to ingest buffer", zap.String("file_name", fileName), zap.Error(err))
		return false
	}
	s.logger.Info("ingested buffer", zap.String("file_name", fileName))
	return true
}

// ClearIndex drops all stored vectors. Best effort: the result is a success
// flag, not an error.
func (s *IngestionService) ClearIndex(ctx context.Context) bool {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("failed to clear index", zap.Error(err))
		return false
	}
	s.logger.Info("cleared index")
	return true
}

// GetIngestionStats proxies the store's introspection. On failure it returns
// placeholder stats rather than an error.
func (s *IngestionService) GetIngestionStats(ctx context.Context) *types.IndexStats {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Error("failed to get index stats", zap.Error(err))
		return &types.IndexStats{TotalVectors: 0, IndexName: "unknown"}
	}
	return stats
}

func (s *IngestionService) parseFile(path string, content []byte) (*types.Document, error) {
	p, ok := s.factory.Parser(path)
	if !ok {
		return nil, &types.ParseError{Path: path, Err: fmt.Errorf("no parser available")}
	}
	return p.Parse(path, content)
}

func (s *IngestionService) enrich(doc *types.Document, contentType string) {
	if contentType == "" {
		contentType = "document"
	}
	doc.Metadata[types.MetaContentType] = contentType
	doc.Metadata[types.MetaIngestionDate] = time.Now().UTC().Format(time.RFC3339)
}

// processDocument chunks, embeds and stores one document, returning the
// number of chunks written. Empty documents contribute zero chunks and are
// not an error.
func (s *IngestionService) processDocument(ctx context.Context, doc *types.Document) (int, error) {
	chunks := s.splitter.SplitDocument(doc)
	if len(chunks) == 0 {
		s.logger.Info("document produced no chunks",
			zap.String("source", doc.Metadata[types.MetaSource]),
		)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding failed: %w", err)
	}

	records := make([]database.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = database.VectorRecord{
			ID:          uuid.NewString(),
			Text:        chunk.Content,
			Metadata:    chunk.Metadata,
			ChunkIndex:  chunk.ChunkIndex,
			TotalChunks: chunk.TotalChunks,
			Embedding:   vectors[i],
		}
	}
	if err := s.store.UpsertRecords(ctx, records); err != nil {
		return 0, fmt.Errorf("vector store upsert failed: %w", err)
	}

	s.logger.Debug("processed document",
		zap.String("source", doc.Metadata[types.MetaSource]),
		zap.Int("chunks", len(chunks)),
	)
	return len(chunks), nil
}
