package types

import (
	"context"
	"time"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
)

// Embedder maps text to fixed-dimension vectors. Implementations are pure
// functions from the caller's perspective and support batch invocation.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	ModelInfo() string
}

// VectorIndex stores (vector, chunk) pairs and answers nearest-neighbor
// queries. Build replaces any prior content wholesale.
type VectorIndex interface {
	Build(ctx context.Context, chunks []models.Chunk) error
	Load(ctx context.Context) error
	Search(ctx context.Context, vector []float32, k int) ([]models.SearchResult, error)
	Len() int
	Close()
}

// Generator is the text-generation backend, treated as a black box.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderConfig struct {
	Backend   string
	Model     string
	BaseURL   string
	APIKeyEnv string
	VectorDim int
	Normalize bool
	BatchSize int
	RateLimit float64
	Timeout   time.Duration
}

type GeneratorConfig struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}
