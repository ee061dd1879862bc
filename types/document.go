package types

import "fmt"

// Metadata keys attached to documents and chunks during parsing and ingestion.
const (
	MetaSource        = "source"
	MetaType          = "type"
	MetaTitle         = "title"
	MetaFilePath      = "filePath"
	MetaPages         = "pages"
	MetaContentType   = "contentType"
	MetaIngestionDate = "ingestionDate"
	MetaSpecialFile   = "isSpecialFile"
	MetaChunkIndex    = "chunkIndex"
	MetaTotalChunks   = "totalChunks"
)

// Document is one parsed unit of content. Content is the extracted plain
// text, trimmed of surrounding whitespace. Metadata always carries at least
// MetaSource and MetaType; parsers add format-specific extras.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Chunk is a bounded sub-segment of a Document produced by the splitter.
// Metadata is a copy of the parent document's metadata plus chunk position.
type Chunk struct {
	Content     string            `json:"content"`
	Metadata    map[string]string `json:"metadata"`
	ChunkIndex  int               `json:"chunk_index"`
	TotalChunks int               `json:"total_chunks"`
}

// ScoredDocument pairs a retrieved chunk's text and metadata with its
// similarity score. Higher scores are more relevant.
type ScoredDocument struct {
	Document
	Score float32 `json:"score"`
}

// IngestionStats aggregates the outcome of one ingestion run.
type IngestionStats struct {
	TotalFiles      int      `json:"total_files"`
	SuccessfulFiles int      `json:"successful_files"`
	FailedFiles     int      `json:"failed_files"`
	TotalChunks     int      `json:"total_chunks"`
	Errors          []string `json:"errors"`
}

// IndexStats describes the remote vector index.
type IndexStats struct {
	TotalVectors int64  `json:"total_vectors"`
	IndexName    string `json:"index_name"`
}

// ContentSource is one configured content directory to ingest.
type ContentSource struct {
	Path        string `mapstructure:"path" json:"path"`
	ContentType string `mapstructure:"content_type" json:"content_type"`
	Recursive   bool   `mapstructure:"recursive" json:"recursive"`
}

// SpecialFile is an individually configured file to ingest, such as the
// project README or a CV.
type SpecialFile struct {
	Path        string `mapstructure:"path" json:"path"`
	ContentType string `mapstructure:"content_type" json:"content_type"`
	Title       string `mapstructure:"title" json:"title"`
}

// ParseError reports a failed extraction, identifying the file and the
// underlying cause.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
