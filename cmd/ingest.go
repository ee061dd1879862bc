package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var clearBeforeIngest bool

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the portfolio content into the vector index",
	Long:  `Parses, chunks and embeds the configured content sources and uploads the vectors to Weaviate`,
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
		if stack.ingestion == nil {
			fmt.Fprintln(os.Stderr, "RAG is not enabled, set rag.enabled and provide OPENAI_API_KEY and WEAVIATE_APIKEY")
			os.Exit(1)
		}

		ctx := context.Background()
		if clearBeforeIngest {
			if !stack.ingestion.ClearIndex(ctx) {
				logger.Fatal("failed to clear index")
			}
			fmt.Println("Index cleared")
		}

		stats := stack.ingestion.IngestPortfolioContent(ctx)
		fmt.Printf("Files processed: %d\n", stats.TotalFiles)
		fmt.Printf("Successful:      %d\n", stats.SuccessfulFiles)
		fmt.Printf("Failed:          %d\n", stats.FailedFiles)
		fmt.Printf("Chunks indexed:  %d\n", stats.TotalChunks)
		for _, e := range stats.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		if stats.FailedFiles > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&clearBeforeIngest, "clear", false, "clear the index before ingesting")
}
