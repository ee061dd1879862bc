package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jeremiep/portfolio-be/types"
)

type Config struct {
	Port         string         `mapstructure:"port"`
	UploadDir    string         `mapstructure:"upload_dir"`
	AIProvider   string         `mapstructure:"ai_provider"`
	AIEndpoint   string         `mapstructure:"ai_endpoint"`
	Model        string         `mapstructure:"model"`
	OpenAIAPIKey string         `mapstructure:"OPENAI_API_KEY"`
	AdminAPIKey  string         `mapstructure:"ADMIN_API_KEY"`
	GeminiAPIKey string         `mapstructure:"GEMINI_API_KEY"`
	RAG          RAGConfig      `mapstructure:"rag"`
	Weaviate     WeaviateConfig `mapstructure:"weaviate"`
	Search       SearchConfig   `mapstructure:"search"`
}

type RAGConfig struct {
	Enabled        bool                  `mapstructure:"enabled"`
	ChunkSize      int                   `mapstructure:"chunk_size"`
	ChunkOverlap   int                   `mapstructure:"chunk_overlap"`
	TopK           int                   `mapstructure:"top_k"`
	IndexName      string                `mapstructure:"index_name"`
	EmbeddingModel string                `mapstructure:"embedding_model"`
	WatchContent   bool                  `mapstructure:"watch_content"`
	ContentSources []types.ContentSource `mapstructure:"content_sources"`
	SpecialFiles   []types.SpecialFile   `mapstructure:"special_files"`
}

type WeaviateConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
}

type SearchConfig struct {
	APIKey   string `mapstructure:"GOOGLE_SEARCH_API_KEY"`
	EngineID string `mapstructure:"engine_id"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("rag.chunk_size", 1000)
	v.SetDefault("rag.chunk_overlap", 200)
	v.SetDefault("rag.top_k", 5)
	v.SetDefault("rag.index_name", "PortfolioChunk")
	v.SetDefault("rag.embedding_model", "text-embedding-3-small")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Credentials come from the environment, never the config file.
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("ADMIN_API_KEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("weaviate.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("search.GOOGLE_SEARCH_API_KEY", "GOOGLE_SEARCH_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// RAGEnabled reports whether the RAG subsystem may run: the feature flag and
// both provider credentials must be present. When false every RAG entry
// point degrades to a structured "not enabled" response.
func (c *Config) RAGEnabled() bool {
	return c.RAG.Enabled && c.OpenAIAPIKey != "" && c.Weaviate.APIKey != ""
}
