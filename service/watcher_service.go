package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/parser"
	"github.com/jeremiep/portfolio-be/types"
)

// WatcherService watches the configured content source directories and
// re-ingests a file when it is created or modified, so edits to blog posts
// and news articles reach the index without a full ingestion run. Note that
// re-ingestion appends records; duplicates of the old version remain until
// the index is cleared and rebuilt.
type WatcherService struct {
	ingestion *IngestionService
	factory   *parser.Factory
	sources   []types.ContentSource
	watcher   *fsnotify.Watcher
	logger    *zap.Logger
}

func NewWatcherService(ingestion *IngestionService, factory *parser.Factory, sources []types.ContentSource, logger *zap.Logger) (*WatcherService, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &WatcherService{
		ingestion: ingestion,
		factory:   factory,
		sources:   sources,
		watcher:   watcher,
		logger:    logger,
	}, nil
}

// Start registers the source directories and processes events until ctx is
// cancelled.
func (s *WatcherService) Start(ctx context.Context) error {
	for _, source := range s.sources {
		if err := s.watcher.Add(source.Path); err != nil {
			s.logger.Warn("cannot watch content directory",
				zap.String("path", source.Path),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("watching content directory", zap.String("path", source.Path))
	}

	go s.loop(ctx)
	return nil
}

func (s *WatcherService) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !s.factory.Supports(event.Name) {
				continue
			}
			contentType := s.contentTypeFor(event.Name)
			s.logger.Info("content changed, re-ingesting",
				zap.String("path", event.Name),
				zap.String("content_type", contentType),
			)
			s.ingestion.IngestFile(ctx, event.Name, contentType)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (s *WatcherService) contentTypeFor(path string) string {
	dir := filepath.Dir(path)
	for _, source := range s.sources {
		if strings.HasPrefix(dir, filepath.Clean(source.Path)) {
			return source.ContentType
		}
	}
	return "document"
}

func (s *WatcherService) Close() error {
	return s.watcher.Close()
}
