package types

// RAGDisabledMessage is returned by every RAG entry point when the subsystem
// is not enabled.
const RAGDisabledMessage = "RAG system is not enabled. Please configure OPENAI_API_KEY and WEAVIATE_APIKEY."

type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type IngestResponse struct {
	Stats *IngestionStats `json:"stats,omitempty"`
}

type StatusResponse struct {
	Enabled          bool        `json:"enabled"`
	Stats            *IndexStats `json:"stats,omitempty"`
	SupportedFormats []string    `json:"supported_formats,omitempty"`
}

type UploadResponse struct {
	FileName    string `json:"file_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type SearchResultItem struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float32           `json:"score"`
}

type SearchResponse struct {
	Query        string             `json:"query"`
	Results      []SearchResultItem `json:"results"`
	TotalResults int                `json:"total_results"`
}

type ChatResponse struct {
	Message string `json:"message"`
}
