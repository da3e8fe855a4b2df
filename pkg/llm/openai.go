package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/types"
)

// OpenAIEmbedder is the remote embedding backend, selected with
// embedder.backend: openai.
type OpenAIEmbedder struct {
	config  types.EmbedderConfig
	client  *openai.Client
	limiter *rate.Limiter
}

func NewOpenAIEmbedder(config types.EmbedderConfig) (*OpenAIEmbedder, error) {
	if config.APIKeyEnv == "" {
		config.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(config.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", config.APIKeyEnv)
	}

	if config.Model == "" {
		config.Model = "text-embedding-3-small"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 1536
		if config.Model == "text-embedding-3-large" {
			config.VectorDim = 3072
		}
	}
	if config.BatchSize == 0 {
		config.BatchSize = 32
	}
	if config.RateLimit == 0 {
		config.RateLimit = 4.0
	}

	return &OpenAIEmbedder{
		config:  config,
		client:  openai.NewClient(key),
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

func (e *OpenAIEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
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

func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, errors.New("no embedding returned")
	}
	return vecs[0], nil
}

func (e *OpenAIEmbedder) createEmbedding(ctx context.Context, batch []string) ([][]float32, error) {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.config.Model),
		Input: batch,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("embedding timed out after %s: %w", e.config.Timeout, err)
		}
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) != len(batch) {
		return nil, fmt.Errorf("embedding backend returned %d vectors for %d texts", len(resp.Data), len(batch))
	}

	vecs := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		v := make([]float32, len(d.Embedding))
		copy(v, d.Embedding)
		if len(v) != e.config.VectorDim {
			return nil, fmt.Errorf("embedding dimension %d does not match configured %d", len(v), e.config.VectorDim)
		}
		if e.config.Normalize {
			l2normalize(v)
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.config.VectorDim
}

func (e *OpenAIEmbedder) ModelInfo() string {
	return "openai-" + e.config.Model
}
