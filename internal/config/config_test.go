package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "uniassist", cfg.Name)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.Workflow.MaxCycles)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 500, cfg.Ingest.ChunkSize)
	assert.Equal(t, 50, cfg.Ingest.ChunkOverlap)
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("UNIASSIST_DATA_DIR", "")
	t.Setenv("UNIASSIST_MODEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.Workflow.MaxCycles = 5

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-key", loaded.LLM.APIKey)
	assert.Equal(t, 5, loaded.Workflow.MaxCycles)
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workflow.MaxCycles)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("UNIASSIST_DATA_DIR", "/tmp/uni-data")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, "env-key", cfg.Embedding.GenAIAPIKey, "embedding key inherits GEMINI_API_KEY")
	assert.Equal(t, "/tmp/uni-data", cfg.DataDir)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(), "missing API key must fail validation")

	cfg.LLM.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Workflow.MaxCycles = 0
	assert.Error(t, cfg.Validate(), "MaxCycles must be positive")
}
