package store

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/types"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/index"
)

type VectorStoreConfig struct {
	ConnString string
	TableName  string
	BatchSize  int
}

// VectorStore is the pgvector-backed index, selected with
// index.backend: pgvector. Embeddings come from the injected Embedder so
// build and query time always use the same model and normalization.
type VectorStore struct {
	config   VectorStoreConfig
	embedder types.Embedder
	pool     *pgxpool.Pool
	count    int
}

func NewWithConfig(config VectorStoreConfig, embedder types.Embedder) (*VectorStore, error) {
	if config.TableName == "" {
		config.TableName = "property_chunks"
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	vs := &VectorStore{
		config:   config,
		embedder: embedder,
		pool:     pool,
	}

	if err := vs.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) initialize() error {
	ctx := context.Background()

	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			chunk_index INTEGER,
			language TEXT,
			content TEXT,
			embedding vector(%d),
			metadata JSONB
		)`, vs.config.TableName, vs.embedder.Dimension())

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	_, err = vs.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// Build embeds every chunk and replaces the table content wholesale.
func (vs *VectorStore) Build(ctx context.Context, chunks []models.Chunk) error {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = sanitizeUTF8(ch.Content)
	}

	vectors, err := vs.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i, v := range vectors {
		if len(v) != vs.embedder.Dimension() {
			return fmt.Errorf("chunk %d: vector dimension %d does not match configured %d",
				i, len(v), vs.embedder.Dimension())
		}
	}

	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE %s", vs.config.TableName)); err != nil {
		return fmt.Errorf("failed to clear table: %v", err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, chunk_index, language, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		vs.config.TableName)

	for i, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Record)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for chunk %s: %v", chunk.ID, err)
		}

		_, err = tx.Exec(ctx, stmt,
			chunk.ID,
			i,
			chunk.Language,
			texts[i],
			pgvector.NewVector(vectors[i]),
			metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	vs.count = len(chunks)
	return nil
}

// Load verifies the persisted table is compatible with the configured
// embedder and caches the entry count.
func (vs *VectorStore) Load(ctx context.Context) error {
	var count int
	query := fmt.Sprintf("SELECT count(*) FROM %s", vs.config.TableName)
	if err := vs.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return fmt.Errorf("failed to count entries: %v", err)
	}

	if count > 0 {
		var dim int
		probe := fmt.Sprintf("SELECT vector_dims(embedding) FROM %s LIMIT 1", vs.config.TableName)
		if err := vs.pool.QueryRow(ctx, probe).Scan(&dim); err != nil {
			return fmt.Errorf("%w: %v", index.ErrCorruptIndex, err)
		}
		if dim != vs.embedder.Dimension() {
			return fmt.Errorf("%w: stored dimension %d, configured %d",
				index.ErrCorruptIndex, dim, vs.embedder.Dimension())
		}
	}

	vs.count = count
	return nil
}

func (vs *VectorStore) Search(ctx context.Context, vector []float32, k int) ([]models.SearchResult, error) {
	if k < 0 {
		k = 0
	}

	query := fmt.Sprintf(`
		SELECT id, language, content, metadata,
		       1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1, chunk_index
		LIMIT $2`,
		vs.config.TableName)

	rows, err := vs.pool.Query(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %v", err)
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		var res models.SearchResult
		var metadata []byte
		err := rows.Scan(
			&res.Chunk.ID,
			&res.Chunk.Language,
			&res.Chunk.Content,
			&metadata,
			&res.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		if err := json.Unmarshal(metadata, &res.Chunk.Record); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %v", err)
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

func (vs *VectorStore) Len() int {
	return vs.count
}

func (vs *VectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
