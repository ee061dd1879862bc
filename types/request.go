package types

// Ingestion actions recognized by the ingest endpoint.
const (
	ActionIngestPortfolio = "ingest_portfolio"
	ActionIngestFile      = "ingest_file"
	ActionClearIndex      = "clear_index"
	ActionGetStats        = "get_stats"
)

type IngestRequest struct {
	Action      string `json:"action"`
	FilePath    string `json:"filePath,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK,omitempty"`
}

type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
