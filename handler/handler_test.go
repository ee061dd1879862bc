package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/database"
	"github.com/jeremiep/portfolio-be/parser"
	"github.com/jeremiep/portfolio-be/service"
	"github.com/jeremiep/portfolio-be/splitter"
	"github.com/jeremiep/portfolio-be/types"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 2, 3}, nil
}

func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 2, 3}
	}
	return vectors, nil
}

type stubStore struct {
	records []database.VectorRecord
	results []database.ScoredRecord
	cleared bool
	fail    bool
}

func (s *stubStore) UpsertRecords(ctx context.Context, records []database.VectorRecord) error {
	if s.fail {
		return errors.New("store unavailable")
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *stubStore) Query(ctx context.Context, vector []float32, topK int) ([]database.ScoredRecord, error) {
	if s.fail {
		return nil, errors.New("store unavailable")
	}
	return s.results, nil
}

func (s *stubStore) Stats(ctx context.Context) (*types.IndexStats, error) {
	if s.fail {
		return nil, errors.New("store unavailable")
	}
	return &types.IndexStats{TotalVectors: int64(len(s.records)), IndexName: "PortfolioChunk"}, nil
}

func (s *stubStore) Clear(ctx context.Context) error {
	if s.fail {
		return errors.New("store unavailable")
	}
	s.cleared = true
	s.records = nil
	return nil
}

func newIngestionService(t *testing.T, store *stubStore) *service.IngestionService {
	t.Helper()
	split, err := splitter.New(1000, 200)
	require.NoError(t, err)
	return service.NewIngestionService(parser.NewFactory(), split, stubEmbedder{}, store, nil, nil, zap.NewNop())
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) types.DataResponse {
	t.Helper()
	var res types.DataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestIngestHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewIngestHandler(nil, parser.NewFactory())
	router.POST("/ingest", h.HandleIngest)

	w := performJSON(router, http.MethodPost, "/ingest", types.IngestRequest{Action: types.ActionGetStats})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	res := decodeResponse(t, w)
	assert.False(t, res.Success)
	assert.Equal(t, types.RAGDisabledMessage, res.Message)
}

func TestIngestHandlerUnknownAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewIngestHandler(newIngestionService(t, &stubStore{}), parser.NewFactory())
	router.POST("/ingest", h.HandleIngest)

	w := performJSON(router, http.MethodPost, "/ingest", types.IngestRequest{Action: "explode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decodeResponse(t, w).Success)
}

func TestIngestHandlerClearIndex(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &stubStore{}
	router := gin.New()
	h := NewIngestHandler(newIngestionService(t, store), parser.NewFactory())
	router.POST("/ingest", h.HandleIngest)

	w := performJSON(router, http.MethodPost, "/ingest", types.IngestRequest{Action: types.ActionClearIndex})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	assert.True(t, store.cleared)
}

func TestIngestHandlerFileRequiresPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewIngestHandler(newIngestionService(t, &stubStore{}), parser.NewFactory())
	router.POST("/ingest", h.HandleIngest)

	w := performJSON(router, http.MethodPost, "/ingest", types.IngestRequest{Action: types.ActionIngestFile})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewIngestHandler(newIngestionService(t, &stubStore{}), parser.NewFactory())
	router.GET("/status", h.HandleStatus)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var res types.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Enabled)
	assert.Equal(t, []string{
		".md", ".markdown", ".pdf", ".docx", ".doc", ".html", ".htm", ".txt", ".text", ".readme",
	}, res.SupportedFormats)
}

func TestStatusHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewIngestHandler(nil, parser.NewFactory())
	router.GET("/status", h.HandleStatus)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var res types.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Enabled)
}

func multipartUpload(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadHandlerRejectsUnsupportedExtension(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewUploadHandler(newIngestionService(t, &stubStore{}), parser.NewFactory(), t.TempDir(), zap.NewNop())
	router.POST("/upload", h.HandleUpload)

	body, contentType := multipartUpload(t, "malware.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := decodeResponse(t, w)
	assert.Contains(t, res.Message, ".md, .markdown, .pdf, .docx, .doc, .html, .htm, .txt, .text, .readme")
}

func TestUploadHandlerIngestsTextFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &stubStore{}
	uploadDir := t.TempDir()
	router := gin.New()
	h := NewUploadHandler(newIngestionService(t, store), parser.NewFactory(), uploadDir, zap.NewNop())
	router.POST("/upload", h.HandleUpload)

	body, contentType := multipartUpload(t, "notes.txt", []byte("some uploaded notes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	require.NotEmpty(t, store.records)
	assert.Equal(t, "notes.txt", store.records[0].Metadata[types.MetaSource])

	// A timestamped copy of the upload is retained under the upload dir.
	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "notes_")
	saved, err := os.ReadFile(filepath.Join(uploadDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "some uploaded notes", string(saved))
}

func TestUploadHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewUploadHandler(nil, parser.NewFactory(), t.TempDir(), zap.NewNop())
	router.POST("/upload", h.HandleUpload)

	body, contentType := multipartUpload(t, "notes.txt", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rag := service.NewRAGService(stubEmbedder{}, &stubStore{}, 5, zap.NewNop())
	router := gin.New()
	router.POST("/search", NewSearchHandler(rag).HandleSearch)

	w := performJSON(router, http.MethodPost, "/search", types.SearchRequest{Query: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/search", NewSearchHandler(nil).HandleSearch)

	w := performJSON(router, http.MethodPost, "/search", types.SearchRequest{Query: "anything"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, types.RAGDisabledMessage, decodeResponse(t, w).Message)
}

func TestSearchHandlerReturnsResults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &stubStore{results: []database.ScoredRecord{
		{
			Record: database.VectorRecord{
				Text:     "Go services",
				Metadata: map[string]string{types.MetaSource: "resume"},
			},
			Score: 0.88,
		},
	}}
	rag := service.NewRAGService(stubEmbedder{}, store, 5, zap.NewNop())
	router := gin.New()
	router.POST("/search", NewSearchHandler(rag).HandleSearch)

	w := performJSON(router, http.MethodPost, "/search", types.SearchRequest{Query: "what tech"})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Success bool                 `json:"success"`
		Data    types.SearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Data.TotalResults)
	require.Len(t, res.Data.Results, 1)
	assert.Equal(t, "Go services", res.Data.Results[0].Content)
	assert.InDelta(t, 0.88, float64(res.Data.Results[0].Score), 1e-6)
}

type stubAI struct {
	reply string
	err   error
}

func (s *stubAI) Chat(ctx context.Context, messages []types.Message) (*types.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.Message{Role: "assistant", Content: s.reply}, nil
}

func TestChatHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/chat", NewChatHandler(&stubAI{reply: "hello"}, zap.NewNop()).HandleChat)

	w := performJSON(router, http.MethodPost, "/chat", types.ChatRequest{
		Messages: []types.Message{{Role: "user", Content: "hi"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Success bool               `json:"success"`
		Data    types.ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "hello", res.Data.Message)
}

func TestChatHandlerNoMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/chat", NewChatHandler(&stubAI{}, zap.NewNop()).HandleChat)

	w := performJSON(router, http.MethodPost, "/chat", types.ChatRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandlerProviderFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/chat", NewChatHandler(&stubAI{err: errors.New("provider down")}, zap.NewNop()).HandleChat)

	w := performJSON(router, http.MethodPost, "/chat", types.ChatRequest{
		Messages: []types.Message{{Role: "user", Content: "hi"}},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCorsMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewCorsHandler().CorsMiddleware)
	router.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
