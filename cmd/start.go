package cmd

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/config"
	"github.com/jeremiep/portfolio-be/handler"
	"github.com/jeremiep/portfolio-be/middleware"
	"github.com/jeremiep/portfolio-be/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the portfolio backend server",
	Long:  `Starts the HTTP server serving the chat assistant and the RAG ingestion API`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			log.Fatal(err)
		}
		defer logger.Sync()

		stack, err := buildRAGStack(cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize RAG services", zap.Error(err))
		}

		aiService, err := buildAIService(cfg, stack, logger)
		if err != nil {
			logger.Fatal("failed to initialize AI service", zap.Error(err))
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		ingestHandler := handler.NewIngestHandler(stack.ingestion, stack.factory)
		uploadHandler := handler.NewUploadHandler(stack.ingestion, stack.factory, cfg.UploadDir, logger)
		searchHandler := handler.NewSearchHandler(stack.rag)
		chatHandler := handler.NewChatHandler(aiService, logger)
		wsService := service.NewWebSocketService(aiService, logger)

		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/chat", chatHandler.HandleChat)
			apiV1.GET("/chat/ws", gin.WrapF(wsService.HandleChat))
			apiV1.POST("/rag/search", searchHandler.HandleSearch)
			apiV1.GET("/rag/ingest", ingestHandler.HandleStatus)
		}

		adminRoutes := apiV1.Group("/rag")
		adminRoutes.Use(middleware.AdminAuthMiddleware(cfg.AdminAPIKey))
		{
			adminRoutes.POST("/ingest", ingestHandler.HandleIngest)
			adminRoutes.POST("/upload", uploadHandler.HandleUpload)
		}

		if stack.ingestion != nil && cfg.RAG.WatchContent {
			watcher, err := service.NewWatcherService(stack.ingestion, stack.factory, cfg.RAG.ContentSources, logger)
			if err != nil {
				logger.Fatal("failed to create content watcher", zap.Error(err))
			}
			defer watcher.Close()
			if err := watcher.Start(context.Background()); err != nil {
				logger.Fatal("failed to start content watcher", zap.Error(err))
			}
		}

		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := router.Run(":" + cfg.Port); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	},
}

func buildAIService(cfg *config.Config, stack *ragStack, logger *zap.Logger) (service.AIService, error) {
	switch cfg.AIProvider {
	case "gemini":
		keys := splitKeys(cfg.GeminiAPIKey)
		return service.NewGeminiService(keys, cfg.Model, stack.rag)
	default:
		openAI := service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, stack.rag, logger)
		if stack.rag != nil {
			if err := openAI.RegisterRAGFunctionCall(); err != nil {
				return nil, err
			}
		}
		if cfg.Search.APIKey != "" && cfg.Search.EngineID != "" {
			openAI.RegisterWebSearchFunctionCall(service.NewSearchService(cfg.Search.APIKey, cfg.Search.EngineID))
		}
		return openAI, nil
	}
}

func splitKeys(raw string) []string {
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
