// Package config holds all uniassist configuration, loaded from YAML
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all uniassist configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Data directory holding per-university indices and logs
	DataDir string `yaml:"data_dir"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Embedding engine configuration
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Retrieval settings
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// Workflow settings
	Workflow WorkflowConfig `yaml:"workflow"`

	// Ingestion settings
	Ingest IngestConfig `yaml:"ingest"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generation service.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Timeout     string  `yaml:"timeout"`
	Temperature float64 `yaml:"temperature"`
}

// EmbeddingConfig configures the embedding engine.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // genai, ollama

	// GenAI settings
	GenAIAPIKey string `yaml:"genai_api_key"`
	GenAIModel  string `yaml:"genai_model"`

	// Ollama settings
	OllamaEndpoint string `yaml:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model"`
}

// RetrievalConfig configures passage retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// WorkflowConfig configures the query-resolution workflow.
type WorkflowConfig struct {
	// MaxCycles bounds the route/respond/check retry loop.
	MaxCycles int `yaml:"max_cycles"`
}

// IngestConfig configures document chunking.
type IngestConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	BatchSize    int `yaml:"batch_size"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "uniassist",
		Version: "1.0.0",
		DataDir: "data",

		LLM: LLMConfig{
			Model:       "gemini-2.5-flash",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			Timeout:     "120s",
			Temperature: 0.2,
		},

		Embedding: EmbeddingConfig{
			Provider:       "genai",
			GenAIModel:     "gemini-embedding-001",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "embeddinggemma",
		},

		Retrieval: RetrievalConfig{
			TopK: 5,
		},

		Workflow: WorkflowConfig{
			MaxCycles: 3,
		},

		Ingest: IngestConfig{
			ChunkSize:    500,
			ChunkOverlap: 50,
			BatchSize:    32,
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.Embedding.GenAIAPIKey == "" {
			c.Embedding.GenAIAPIKey = key
		}
	}
	if key := os.Getenv("UNIASSIST_EMBED_API_KEY"); key != "" {
		c.Embedding.GenAIAPIKey = key
	}
	if dir := os.Getenv("UNIASSIST_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if model := os.Getenv("UNIASSIST_MODEL"); model != "" {
		c.LLM.Model = model
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("no LLM API key configured (set GEMINI_API_KEY or llm.api_key)")
	}
	if c.Workflow.MaxCycles < 1 {
		return fmt.Errorf("workflow.max_cycles must be at least 1")
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval.top_k must be at least 1")
	}
	return nil
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// UniversityDBPath returns the SQLite index path for a university key.
func (c *Config) UniversityDBPath(key string) string {
	return filepath.Join(c.DataDir, "universities", key+".db")
}
