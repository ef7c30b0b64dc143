// Package embedding provides vector embedding generation for passage
// retrieval. Supports Google GenAI (cloud) and Ollama (local) backends.
package embedding

import (
	"context"
	"fmt"
	"math"

	"uniassist/internal/logging"
)

// EmbeddingEngine generates vector embeddings for text.
type EmbeddingEngine interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of embeddings
	Dimensions() int

	// Name returns the engine name
	Name() string
}

// Config holds embedding engine configuration.
type Config struct {
	// Provider: "genai" or "ollama"
	Provider string

	// GenAI configuration
	GenAIAPIKey string
	GenAIModel  string // Default: "gemini-embedding-001"

	// TaskType for GenAI: "RETRIEVAL_QUERY" or "RETRIEVAL_DOCUMENT"
	TaskType string

	// Ollama configuration
	OllamaEndpoint string // Default: "http://localhost:11434"
	OllamaModel    string // Default: "embeddinggemma"
}

// NewEngine creates an embedding engine based on configuration.
func NewEngine(cfg Config) (EmbeddingEngine, error) {
	timer := logging.StartTimer(logging.CategoryEmbedding, "NewEngine")
	defer timer.Stop()

	logging.Embedding("Creating embedding engine with provider=%s", cfg.Provider)

	var engine EmbeddingEngine
	var err error

	switch cfg.Provider {
	case "genai":
		engine, err = NewGenAIEngine(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.TaskType)
	case "ollama":
		engine, err = NewOllamaEngine(cfg.OllamaEndpoint, cfg.OllamaModel)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (use 'genai' or 'ollama')", cfg.Provider)
	}

	if err != nil {
		logging.Get(logging.CategoryEmbedding).Error("Failed to create embedding engine: %v", err)
		return nil, err
	}

	logging.Embedding("Embedding engine ready: name=%s dimensions=%d", engine.Name(), engine.Dimensions())
	return engine, nil
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d != %d", len(a), len(b))
	}

	var dotProduct, aMagnitude, bMagnitude float64
	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i] * b[i])
		aMagnitude += float64(a[i] * a[i])
		bMagnitude += float64(b[i] * b[i])
	}

	if aMagnitude == 0 || bMagnitude == 0 {
		return 0, nil
	}

	return dotProduct / (math.Sqrt(aMagnitude) * math.Sqrt(bMagnitude)), nil
}
