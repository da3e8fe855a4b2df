package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/types"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/builder"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/config"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/index"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/llm"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/normalizer"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/processor"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/responder"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/store"
)

// App wires the whole pipeline together and is constructed exactly once per
// process. Query handlers receive it by reference; the only state mutated
// after startup is the session history.
type App struct {
	cfg       *config.Config
	embedder  types.Embedder
	index     types.VectorIndex
	responder *responder.Responder

	mu      sync.Mutex
	history []models.Exchange
}

func New(cfg *config.Config) (*App, error) {
	embedderCfg := types.EmbedderConfig{
		Backend:   cfg.Embedder.Backend,
		Model:     cfg.Embedder.Model,
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		VectorDim: cfg.Embedder.VectorDim,
		Normalize: cfg.Embedder.Normalize,
		BatchSize: cfg.Embedder.BatchSize,
		RateLimit: cfg.Embedder.RateLimit,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	}

	var embedder types.Embedder
	var err error
	switch cfg.Embedder.Backend {
	case "openai":
		embedder, err = llm.NewOpenAIEmbedder(embedderCfg)
	default:
		embedder, err = llm.NewOllamaEmbedder(embedderCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	var idx types.VectorIndex
	switch cfg.Index.Backend {
	case "pgvector":
		idx, err = store.NewWithConfig(store.VectorStoreConfig{
			ConnString: cfg.Index.Database.URL,
			TableName:  cfg.Index.Database.TableName,
			BatchSize:  cfg.Index.Database.BatchSize,
		}, embedder)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vector store: %w", err)
		}
	default:
		idx = index.NewFileIndex(cfg.Index.Path, embedder)
	}

	chatEngine, err := llm.NewWithConfig(types.GeneratorConfig{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat engine: %w", err)
	}

	return &App{
		cfg:      cfg,
		embedder: embedder,
		index:    idx,
		responder: responder.NewWithConfig(responder.Config{
			TopK:     cfg.Pipeline.TopK,
			USDToIDR: cfg.Pricing.USDToIDR,
		}, embedder, idx, chatEngine),
	}, nil
}

// Ingest runs the one-shot batch build: normalize, build documents, chunk,
// embed and persist. The previous index is replaced wholesale. Returns the
// number of indexed chunks.
func (a *App) Ingest(ctx context.Context, table *models.Table) (int, error) {
	norm := normalizer.NewWithConfig(normalizer.Config{CleanText: a.cfg.Pipeline.CleanText})
	records, warnings := norm.Normalize(table)
	for _, w := range warnings {
		log.Printf("table warning: %s", w)
	}

	docs := builder.NewWithConfig(builder.Config{
		Languages: a.cfg.Pipeline.Languages,
		USDToIDR:  a.cfg.Pricing.USDToIDR,
	}).Build(records)

	chunks := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:    a.cfg.Pipeline.ChunkSize,
		ChunkOverlap: a.cfg.Pipeline.ChunkOverlap,
	}).Split(docs)

	if err := a.index.Build(ctx, chunks); err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}
	return len(chunks), nil
}

// LoadIndex restores the persisted index. Callers rebuild on
// index.ErrCorruptIndex or a missing file.
func (a *App) LoadIndex(ctx context.Context) error {
	return a.index.Load(ctx)
}

func (a *App) IndexSize() int {
	return a.index.Len()
}

// Answer processes one query and records the exchange, including degraded
// failures, in the session history.
func (a *App) Answer(ctx context.Context, query string) *models.Response {
	resp, err := a.responder.Answer(ctx, query)
	if err != nil {
		log.Printf("query failed: %v", err)
	}

	a.mu.Lock()
	a.history = append(a.history, models.Exchange{
		Query:  query,
		Answer: resp.Text,
		Failed: err != nil,
	})
	a.mu.Unlock()

	return resp
}

func (a *App) History() []models.Exchange {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Exchange, len(a.history))
	copy(out, a.history)
	return out
}

func (a *App) Close() {
	a.index.Close()
}
