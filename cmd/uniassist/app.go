package main

import (
	"fmt"

	"uniassist/internal/config"
	"uniassist/internal/embedding"
	"uniassist/internal/logging"
	"uniassist/internal/perception"
	"uniassist/internal/retrieval"
	"uniassist/internal/store"
	"uniassist/internal/workflow"
)

// universityKeys lists the institutions with their own corpus.
var universityKeys = []string{"nust", "comsats", "fast"}

// app bundles the wired backend services behind the CLI commands.
type app struct {
	cfg        *config.Config
	llm        perception.LLMClient
	engine     embedding.EmbeddingEngine
	stores     map[string]*store.PassageStore
	retriever  *retrieval.Service
	controller *workflow.Controller
}

// buildApp loads config, initializes logging, opens the per-university
// passage stores, and wires the workflow controller.
func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logging.Initialize(cfg.DataDir, logging.Settings{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("uniassist starting, data dir %s", cfg.DataDir)

	llm := perception.NewGeminiClientWithConfig(perception.GeminiConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Timeout:     cfg.GetLLMTimeout(),
		Temperature: cfg.LLM.Temperature,
	})

	engine, err := embedding.NewEngine(embedding.Config{
		Provider:       cfg.Embedding.Provider,
		GenAIAPIKey:    cfg.Embedding.GenAIAPIKey,
		GenAIModel:     cfg.Embedding.GenAIModel,
		TaskType:       "RETRIEVAL_QUERY",
		OllamaEndpoint: cfg.Embedding.OllamaEndpoint,
		OllamaModel:    cfg.Embedding.OllamaModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding engine: %w", err)
	}

	stores := make(map[string]*store.PassageStore)
	for _, key := range universityKeys {
		st, err := store.Open(cfg.UniversityDBPath(key))
		if err != nil {
			closeStores(stores)
			return nil, fmt.Errorf("failed to open %s store: %w", key, err)
		}
		stores[key] = st
	}

	retriever := retrieval.NewService(stores, engine, cfg.Retrieval.TopK)
	controller := workflow.NewController(llm, retriever, cfg.Workflow.MaxCycles)

	return &app{
		cfg:        cfg,
		llm:        llm,
		engine:     engine,
		stores:     stores,
		retriever:  retriever,
		controller: controller,
	}, nil
}

// Close releases the store handles and flushes log files.
func (a *app) Close() {
	closeStores(a.stores)
	logging.CloseAll()
}

func closeStores(stores map[string]*store.PassageStore) {
	for _, st := range stores {
		if st != nil {
			st.Close()
		}
	}
}

// applyFlagOverrides lets command-line flags win over file and env
// configuration.
func applyFlagOverrides(cfg *config.Config) {
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if debugMode {
		cfg.Logging.DebugMode = true
	}
}
