package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  base_url: "http://localhost:11434"
  model: "llama3"
  max_tokens: 1000
  temperature: 0.5

embedder:
  backend: "ollama"
  model: "nomic-embed-text:latest"
  vector_dim: 768

index:
  backend: "pgvector"
  database:
    url: "postgres://localhost:5432/test"
    table_name: "test_chunks"
    batch_size: 50

pipeline:
  chunk_size: 500
  chunk_overlap: 100
  languages: ["en"]
  top_k: 5

pricing:
  usd_to_idr: 15000
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	// Test loading config
	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	// Verify loaded values
	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Equal(t, "llama3", config.LLM.Model)
	assert.Equal(t, 1000, config.LLM.MaxTokens)
	assert.Equal(t, 0.5, config.LLM.Temperature)
	assert.Equal(t, "pgvector", config.Index.Backend)
	assert.Equal(t, "postgres://localhost:5432/test", config.Index.Database.URL)
	assert.Equal(t, "test_chunks", config.Index.Database.TableName)
	assert.Equal(t, 500, config.Pipeline.ChunkSize)
	assert.Equal(t, []string{"en"}, config.Pipeline.Languages)
	assert.Equal(t, 5, config.Pipeline.TopK)
	assert.Equal(t, 15000.0, config.Pricing.USDToIDR)

	// Unset values fall back to defaults
	assert.Equal(t, 32, config.Embedder.BatchSize)
	assert.Equal(t, "data_bukit_vista.xlsx", config.Source.DataFile)
}

func TestDefaultConfig(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "orca-mini:7b", config.LLM.Model)
	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Equal(t, "ollama", config.Embedder.Backend)
	assert.Equal(t, "nomic-embed-text:latest", config.Embedder.Model)
	assert.Equal(t, 768, config.Embedder.VectorDim)
	assert.True(t, config.Embedder.Normalize)
	assert.Equal(t, "file", config.Index.Backend)
	assert.Equal(t, "vectorstore/index.gob", config.Index.Path)
	assert.Equal(t, []string{"en", "id"}, config.Pipeline.Languages)
	assert.Equal(t, 3, config.Pipeline.TopK)
	assert.Equal(t, 16811.0, config.Pricing.USDToIDR)

	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		errorMessages []string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name: "invalid llm settings",
			mutate: func(c *Config) {
				c.LLM.MaxTokens = 5000
				c.LLM.Temperature = 3.0
			},
			errorMessages: []string{
				"max_tokens must be between 1 and 4096",
				"temperature must be between 0 and 2",
			},
		},
		{
			name: "unknown backends",
			mutate: func(c *Config) {
				c.Embedder.Backend = "cohere"
				c.Index.Backend = "redis"
			},
			errorMessages: []string{
				"unknown embedder backend: cohere",
				"unknown index backend: redis",
			},
		},
		{
			name: "pgvector requires a database url",
			mutate: func(c *Config) {
				c.Index.Backend = "pgvector"
				c.Index.Database.URL = ""
			},
			errorMessages: []string{
				"database URL is required for the pgvector backend",
			},
		},
		{
			name: "overlap must stay below chunk size",
			mutate: func(c *Config) {
				c.Pipeline.ChunkSize = 100
				c.Pipeline.ChunkOverlap = 100
			},
			errorMessages: []string{
				"chunk_overlap must be non-negative and less than chunk_size",
			},
		},
		{
			name: "unsupported language",
			mutate: func(c *Config) {
				c.Pipeline.Languages = []string{"en", "fr"}
			},
			errorMessages: []string{
				"unsupported language: fr",
			},
		},
		{
			name: "exchange rate must be positive",
			mutate: func(c *Config) {
				c.Pricing.USDToIDR = 0
			},
			errorMessages: []string{
				"usd_to_idr must be positive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := getDefaultConfig()
			require.NoError(t, err)
			tt.mutate(config)

			errors := config.Validate()
			assert.Len(t, errors, len(tt.errorMessages))
			for i, msg := range tt.errorMessages {
				assert.Contains(t, errors[i].Error(), msg)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	// Set environment variables
	os.Setenv("OLLAMA_BASE_URL", "http://env-ollama:11434")
	os.Setenv("DATABASE_URL", "postgres://env-db:5432/test")
	os.Setenv("GDRIVE_FOLDER_ID", "folder-from-env")
	defer func() {
		os.Unsetenv("OLLAMA_BASE_URL")
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("GDRIVE_FOLDER_ID")
	}()

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "http://env-ollama:11434", config.LLM.BaseURL)
	assert.Equal(t, "http://env-ollama:11434", config.Embedder.BaseURL)
	assert.Equal(t, "postgres://env-db:5432/test", config.Index.Database.URL)
	assert.Equal(t, "folder-from-env", config.Source.Drive.FolderID)
}
