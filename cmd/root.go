package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/config"
	"github.com/jeremiep/portfolio-be/database"
	"github.com/jeremiep/portfolio-be/parser"
	"github.com/jeremiep/portfolio-be/service"
	"github.com/jeremiep/portfolio-be/splitter"
	"github.com/jeremiep/portfolio-be/utils"
)

var (
	cfgFile     string
	development bool
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-be",
	Short: "Portfolio backend with RAG-powered chat",
	Long: `Backend for a personal portfolio website. Serves a chat assistant that
answers questions about the portfolio content using retrieval augmented
generation over the site's blog posts, news articles and documents.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&development, "dev", false, "development logging")
}

func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(development)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}

// ragStack bundles the services behind the RAG feature flag. All fields are
// nil when the subsystem is disabled.
type ragStack struct {
	factory   *parser.Factory
	ingestion *service.IngestionService
	rag       *service.RAGService
}

func buildRAGStack(cfg *config.Config, logger *zap.Logger) (*ragStack, error) {
	stack := &ragStack{factory: parser.NewFactory()}
	if !cfg.RAGEnabled() {
		logger.Warn("RAG subsystem disabled: missing feature flag or credentials")
		return stack, nil
	}

	split, err := splitter.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("invalid splitter config: %w", err)
	}
	embedder := service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.RAG.EmbeddingModel)
	store, err := database.NewWeaviateStore(cfg.Weaviate.Host, cfg.Weaviate.APIKey, cfg.RAG.IndexName, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Weaviate: %w", err)
	}

	stack.ingestion = service.NewIngestionService(
		stack.factory,
		split,
		embedder,
		store,
		cfg.RAG.ContentSources,
		cfg.RAG.SpecialFiles,
		logger,
	)
	stack.rag = service.NewRAGService(embedder, store, cfg.RAG.TopK, logger)
	return stack, nil
}
