package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

type EmbedderConfig struct {
	Backend     string  `yaml:"backend"` // "ollama" or "openai"
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	VectorDim   int     `yaml:"vector_dim"`
	Normalize   bool    `yaml:"normalize"`
	BatchSize   int     `yaml:"batch_size"`
	RateLimit   float64 `yaml:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

type DatabaseConfig struct {
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
	BatchSize int    `yaml:"batch_size"`
}

type IndexConfig struct {
	Backend  string         `yaml:"backend"` // "file" or "pgvector"
	Path     string         `yaml:"path"`
	Database DatabaseConfig `yaml:"database"`
}

type PipelineConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	Languages    []string `yaml:"languages"`
	TopK         int      `yaml:"top_k"`
	CleanText    bool     `yaml:"clean_text"`
}

type PricingConfig struct {
	// Fixed USD to IDR exchange rate used for price presentation. This is a
	// configuration constant, not a live lookup.
	USDToIDR float64 `yaml:"usd_to_idr"`
}

type DriveConfig struct {
	FolderID        string `yaml:"folder_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

type SourceConfig struct {
	DataFile string      `yaml:"data_file"`
	Drive    DriveConfig `yaml:"drive"`
}

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Index    IndexConfig    `yaml:"index"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Source   SourceConfig   `yaml:"source"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/tanya/config.yaml"),
			"/etc/tanya/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	config.Embedder.Normalize = true
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "orca-mini:7b"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.1
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.TimeoutSecs == 0 {
		config.LLM.TimeoutSecs = 120
	}

	if config.Embedder.Backend == "" {
		config.Embedder.Backend = "ollama"
	}
	if config.Embedder.Model == "" {
		if config.Embedder.Backend == "openai" {
			config.Embedder.Model = "text-embedding-3-small"
		} else {
			config.Embedder.Model = "nomic-embed-text:latest"
		}
	}
	if config.Embedder.BaseURL == "" {
		config.Embedder.BaseURL = "http://localhost:11434"
	}
	if config.Embedder.APIKeyEnv == "" {
		config.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if config.Embedder.VectorDim == 0 {
		if config.Embedder.Backend == "openai" {
			config.Embedder.VectorDim = 1536
		} else {
			config.Embedder.VectorDim = 768
		}
	}
	if config.Embedder.BatchSize == 0 {
		config.Embedder.BatchSize = 32
	}
	if config.Embedder.RateLimit == 0 {
		config.Embedder.RateLimit = 4.0
	}
	if config.Embedder.TimeoutSecs == 0 {
		config.Embedder.TimeoutSecs = 60
	}

	if config.Index.Backend == "" {
		config.Index.Backend = "file"
	}
	if config.Index.Path == "" {
		config.Index.Path = "vectorstore/index.gob"
	}
	if config.Index.Database.TableName == "" {
		config.Index.Database.TableName = "property_chunks"
	}
	if config.Index.Database.BatchSize == 0 {
		config.Index.Database.BatchSize = 100
	}

	if config.Pipeline.ChunkSize == 0 {
		config.Pipeline.ChunkSize = 1000
	}
	if config.Pipeline.ChunkOverlap == 0 {
		config.Pipeline.ChunkOverlap = 20
	}
	if len(config.Pipeline.Languages) == 0 {
		config.Pipeline.Languages = []string{"en", "id"}
	}
	if config.Pipeline.TopK == 0 {
		config.Pipeline.TopK = 3
	}

	if config.Pricing.USDToIDR == 0 {
		config.Pricing.USDToIDR = 16811
	}

	if config.Source.DataFile == "" {
		config.Source.DataFile = "data_bukit_vista.xlsx"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
		if config.Embedder.BaseURL == "" {
			config.Embedder.BaseURL = baseURL
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Index.Database.URL = dbURL
	}
	if folderID := os.Getenv("GDRIVE_FOLDER_ID"); folderID != "" {
		config.Source.Drive.FolderID = folderID
	}
	if creds := os.Getenv("GDRIVE_CREDENTIALS_FILE"); creds != "" {
		config.Source.Drive.CredentialsFile = creds
	}
}
