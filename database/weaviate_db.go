package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/types"
)

const BATCH_SIZE = 200

// chunkClassObject builds the Weaviate class schema for the configured
// index. Structured chunk fields get typed properties; the remaining
// metadata travels as a JSON blob in metaJson. Vectors are supplied by the
// client, so no server-side vectorizer module is configured.
func chunkClassObject(className string) *models.Class {
	return &models.Class{
		Class: className,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "docType", DataType: []string{"text"}},
			{Name: "contentType", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "totalChunks", DataType: []string{"int"}},
			{Name: "metaJson", DataType: []string{"text"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
}

// WeaviateStore implements VectorDatabase against a hosted Weaviate
// instance.
type WeaviateStore struct {
	client    *weaviate.Client
	className string
	logger    *zap.Logger
}

func NewWeaviateStore(host, apiKey, className string, logger *zap.Logger) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host = strings.TrimPrefix(host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if apiKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: apiKey,
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	store := &WeaviateStore{
		client:    client,
		className: className,
		logger:    logger,
	}
	if err := store.ensureClass(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *WeaviateStore) ensureClass(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.className {
			return nil
		}
	}
	err = s.client.Schema().ClassCreator().WithClass(chunkClassObject(s.className)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create %s class: %w", s.className, err)
	}
	return nil
}

// UpsertRecords stores records in batches with their client-side embeddings.
func (s *WeaviateStore) UpsertRecords(ctx context.Context, records []VectorRecord) error {
	total := len(records)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				Class:      s.className,
				Properties: recordProperties(records[j]),
				Vector:     records[j].Embedding,
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %w", i, end, err)
		}
		s.logger.Debug("inserted batch",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int("total", total),
		)
	}
	return nil
}

func recordProperties(r VectorRecord) map[string]interface{} {
	metaJSON, _ := json.Marshal(r.Metadata)
	return map[string]interface{}{
		"content":     r.Text,
		"source":      r.Metadata[types.MetaSource],
		"docType":     r.Metadata[types.MetaType],
		"contentType": r.Metadata[types.MetaContentType],
		"chunkIndex":  r.ChunkIndex,
		"totalChunks": r.TotalChunks,
		"metaJson":    string(metaJSON),
	}
}

// Query runs a nearVector search and returns up to topK records ordered by
// decreasing similarity. Weaviate reports cosine distance (lower is closer);
// scores are exposed as 1-distance so higher means more relevant.
func (s *WeaviateStore) Query(ctx context.Context, vector []float32, topK int) ([]ScoredRecord, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "chunkIndex"},
		{Name: "totalChunks"},
		{Name: "metaJson"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var records []ScoredRecord
	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return records, nil
	}
	data, ok := get[s.className].([]interface{})
	if !ok {
		return records, nil
	}
	for _, item := range data {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		record := VectorRecord{
			Text:        asString(obj["content"]),
			Metadata:    parseMetaJSON(obj["metaJson"]),
			ChunkIndex:  asInt(obj["chunkIndex"]),
			TotalChunks: asInt(obj["totalChunks"]),
		}
		var score float32
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			record.ID = asString(additional["id"])
			if distance, ok := additional["distance"].(float64); ok {
				score = 1 - float32(distance)
			}
		}
		records = append(records, ScoredRecord{Record: record, Score: score})
	}
	return records, nil
}

// Stats returns the total vector count via an aggregate meta query.
func (s *WeaviateStore) Stats(ctx context.Context) (*types.IndexStats, error) {
	result, err := s.client.GraphQL().Aggregate().
		WithClassName(s.className).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("aggregate failed: %v", result.Errors[0].Message)
	}

	stats := &types.IndexStats{IndexName: s.className}
	aggregate, ok := result.Data["Aggregate"].(map[string]interface{})
	if !ok {
		return stats, nil
	}
	if data, ok := aggregate[s.className].([]interface{}); ok && len(data) > 0 {
		if entry, ok := data[0].(map[string]interface{}); ok {
			if meta, ok := entry["meta"].(map[string]interface{}); ok {
				if count, ok := meta["count"].(float64); ok {
					stats.TotalVectors = int64(count)
				}
			}
		}
	}
	return stats, nil
}

// Clear drops the class and recreates it empty. This is the bulk "delete
// all" operation; selective deletion is out of scope.
func (s *WeaviateStore) Clear(ctx context.Context) error {
	err := s.client.Schema().ClassDeleter().WithClassName(s.className).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s class: %w", s.className, err)
	}
	err = s.client.Schema().ClassCreator().WithClass(chunkClassObject(s.className)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to recreate %s class: %w", s.className, err)
	}
	return nil
}

// Helper functions

func parseMetaJSON(v interface{}) map[string]string {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return map[string]string{}
	}
	metadata := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return map[string]string{}
	}
	return metadata
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	f, _ := v.(float64)
	return int(f)
}
