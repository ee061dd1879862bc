package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector index statistics",
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

		stats := stack.ingestion.GetIngestionStats(context.Background())
		fmt.Printf("Index:         %s\n", stats.IndexName)
		fmt.Printf("Total vectors: %d\n", stats.TotalVectors)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
