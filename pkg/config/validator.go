package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	} else if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	switch c.Embedder.Backend {
	case "ollama", "openai":
	default:
		errors = append(errors, ValidationError{
			Field:   "embedder.backend",
			Message: fmt.Sprintf("unknown embedder backend: %s", c.Embedder.Backend),
		})
	}

	if c.Embedder.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "embedder.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	if c.Embedder.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "embedder.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.Embedder.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "embedder.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	switch c.Index.Backend {
	case "file":
		if c.Index.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "index.path",
				Message: "index path is required for the file backend",
			})
		}
	case "pgvector":
		if c.Index.Database.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "index.database.url",
				Message: "database URL is required for the pgvector backend",
			})
		} else if _, err := url.Parse(c.Index.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "index.database.url",
				Message: "invalid database URL",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "index.backend",
			Message: fmt.Sprintf("unknown index backend: %s", c.Index.Backend),
		})
	}

	if c.Pipeline.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "pipeline.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Pipeline.ChunkOverlap < 0 || c.Pipeline.ChunkOverlap >= c.Pipeline.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "pipeline.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	for _, lang := range c.Pipeline.Languages {
		if lang != "en" && lang != "id" {
			errors = append(errors, ValidationError{
				Field:   "pipeline.languages",
				Message: fmt.Sprintf("unsupported language: %s", lang),
			})
		}
	}

	if c.Pipeline.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "pipeline.top_k",
			Message: "top_k must be positive",
		})
	}

	if c.Pricing.USDToIDR <= 0 {
		errors = append(errors, ValidationError{
			Field:   "pricing.usd_to_idr",
			Message: "usd_to_idr must be positive",
		})
	}

	return errors
}
