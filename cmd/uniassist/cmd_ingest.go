package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uniassist/internal/embedding"
	"uniassist/internal/ingest"
)

var ingestClear bool

// ingestCmd indexes a directory of documents for one university.
var ingestCmd = &cobra.Command{
	Use:   "ingest [university] [directory]",
	Short: "Index a directory of markdown/text documents for a university",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		dir := args[1]

		valid := false
		for _, k := range universityKeys {
			if k == key {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown university %q (use one of: %s)", args[0], strings.Join(universityKeys, ", "))
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// Documents are embedded with the document task type; queries
		// use the query task type at search time.
		engine, err := embedding.NewEngine(embedding.Config{
			Provider:       a.cfg.Embedding.Provider,
			GenAIAPIKey:    a.cfg.Embedding.GenAIAPIKey,
			GenAIModel:     a.cfg.Embedding.GenAIModel,
			TaskType:       "RETRIEVAL_DOCUMENT",
			OllamaEndpoint: a.cfg.Embedding.OllamaEndpoint,
			OllamaModel:    a.cfg.Embedding.OllamaModel,
		})
		if err != nil {
			return fmt.Errorf("failed to create embedding engine: %w", err)
		}

		st := a.stores[key]
		if ingestClear {
			if err := st.Clear(); err != nil {
				return fmt.Errorf("failed to clear %s index: %w", key, err)
			}
			logger.Info("cleared existing index", zap.String("university", key))
		}

		pipeline := ingest.NewPipeline(engine, a.cfg.Ingest.BatchSize, ingest.ChunkerOptions{
			ChunkSize:    a.cfg.Ingest.ChunkSize,
			ChunkOverlap: a.cfg.Ingest.ChunkOverlap,
		})

		start := time.Now()
		n, err := pipeline.IngestDir(context.Background(), st, dir)
		if err != nil {
			return fmt.Errorf("ingestion failed after %d passages: %w", n, err)
		}

		logger.Info("ingestion complete",
			zap.String("university", key),
			zap.Int("passages", n),
			zap.Duration("elapsed", time.Since(start)))

		fmt.Printf("Indexed %d passages for %s from %s\n", n, strings.ToUpper(key), dir)
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestClear, "clear", false, "drop the existing index before ingesting")
}
