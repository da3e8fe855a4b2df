package llm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/time/rate"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/types"
)

// OllamaEmbedder maps text to fixed-dimension vectors through a local Ollama
// server. Batches are rate limited and every call carries a timeout so
// ingestion cannot hang on a stuck model server.
type OllamaEmbedder struct {
	config  types.EmbedderConfig
	llm     *ollama.LLM
	limiter *rate.Limiter
}

func NewOllamaEmbedder(config types.EmbedderConfig) (*OllamaEmbedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}
	if config.BatchSize == 0 {
		config.BatchSize = 32
	}
	if config.RateLimit == 0 {
		config.RateLimit = 4.0
	}

	emb, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding model: %w", err)
	}

	return &OllamaEmbedder{
		config:  config,
		llm:     emb,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

func (e *OllamaEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += e.config.BatchSize {
		end := start + e.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vecs, err := e.createEmbedding(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}

	return out, nil
}

func (e *OllamaEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, errors.New("no embedding returned")
	}
	return vecs[0], nil
}

func (e *OllamaEmbedder) createEmbedding(ctx context.Context, batch []string) ([][]float32, error) {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	vecs, err := e.llm.CreateEmbedding(ctx, batch)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("embedding timed out after %s: %w", e.config.Timeout, err)
		}
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(vecs) != len(batch) {
		return nil, fmt.Errorf("embedding backend returned %d vectors for %d texts", len(vecs), len(batch))
	}

	for _, v := range vecs {
		if len(v) != e.config.VectorDim {
			return nil, fmt.Errorf("embedding dimension %d does not match configured %d", len(v), e.config.VectorDim)
		}
		if e.config.Normalize {
			l2normalize(v)
		}
	}
	return vecs, nil
}

func (e *OllamaEmbedder) Dimension() int {
	return e.config.VectorDim
}

func (e *OllamaEmbedder) ModelInfo() string {
	return "ollama-" + e.config.Model
}

// l2normalize rescales a vector to unit length in place. Applied identically
// at index-build and query time so dot-product ranking matches cosine.
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
