package index

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/types"
)

// ErrCorruptIndex marks a persisted index that cannot be served: unreadable,
// wrong schema, or built with a different embedding model/dimension. The
// caller rebuilds from the source table instead of serving broken data.
var ErrCorruptIndex = errors.New("corrupt or incompatible index")

const schemaMarker = "property-index/v1"

// persistedIndex is the on-disk layout. Chunks and Vectors are parallel
// slices; the markers let a later process refuse an incompatible file
// without re-embedding anything.
type persistedIndex struct {
	Schema    string
	ModelInfo string
	Dimension int
	Chunks    []models.Chunk
	Vectors   [][]float32
}

// FileIndex is the default vector index: embeddings and chunks persisted as
// one gob blob, brute-force cosine search in memory. Build replaces the file
// wholesale; Load restores it without recomputation.
type FileIndex struct {
	path     string
	embedder types.Embedder

	chunks  []models.Chunk
	vectors [][]float32
}

func NewFileIndex(path string, embedder types.Embedder) *FileIndex {
	return &FileIndex{path: path, embedder: embedder}
}

func (idx *FileIndex) Build(ctx context.Context, chunks []models.Chunk) error {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}

	vectors, err := idx.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i, v := range vectors {
		if len(v) != idx.embedder.Dimension() {
			return fmt.Errorf("chunk %d: vector dimension %d does not match configured %d",
				i, len(v), idx.embedder.Dimension())
		}
	}

	idx.chunks = chunks
	idx.vectors = vectors
	return idx.save()
}

func (idx *FileIndex) save() error {
	if err := os.MkdirAll(filepath.Dir(idx.path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp := idx.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	data := persistedIndex{
		Schema:    schemaMarker,
		ModelInfo: idx.embedder.ModelInfo(),
		Dimension: idx.embedder.Dimension(),
		Chunks:    idx.chunks,
		Vectors:   idx.vectors,
	}
	if err := gob.NewEncoder(file).Encode(data); err != nil {
		file.Close()
		return fmt.Errorf("encode index: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	// Atomic rename so a crash mid-save never leaves a half-written index.
	return os.Rename(tmp, idx.path)
}

// Load restores a previously persisted index. A missing file surfaces as the
// underlying os error; anything structurally wrong surfaces as
// ErrCorruptIndex.
func (idx *FileIndex) Load(ctx context.Context) error {
	file, err := os.Open(idx.path)
	if err != nil {
		return err
	}
	defer file.Close()

	var data persistedIndex
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrCorruptIndex, idx.path, err)
	}

	switch {
	case data.Schema != schemaMarker:
		return fmt.Errorf("%w: unknown schema %q", ErrCorruptIndex, data.Schema)
	case data.Dimension != idx.embedder.Dimension():
		return fmt.Errorf("%w: stored dimension %d, configured %d",
			ErrCorruptIndex, data.Dimension, idx.embedder.Dimension())
	case data.ModelInfo != idx.embedder.ModelInfo():
		return fmt.Errorf("%w: stored model %q, configured %q",
			ErrCorruptIndex, data.ModelInfo, idx.embedder.ModelInfo())
	case len(data.Chunks) != len(data.Vectors):
		return fmt.Errorf("%w: %d chunks but %d vectors",
			ErrCorruptIndex, len(data.Chunks), len(data.Vectors))
	}
	for i, v := range data.Vectors {
		if len(v) != data.Dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				ErrCorruptIndex, i, len(v), data.Dimension)
		}
	}

	idx.chunks = data.Chunks
	idx.vectors = data.Vectors
	return nil
}

// Search returns the k nearest chunks by cosine similarity, best first. Ties
// keep insertion order. k is clamped to the entry count and an empty index
// yields an empty result, never an error.
func (idx *FileIndex) Search(ctx context.Context, vector []float32, k int) ([]models.SearchResult, error) {
	if len(idx.chunks) == 0 {
		return []models.SearchResult{}, nil
	}
	if len(vector) != idx.embedder.Dimension() {
		return nil, fmt.Errorf("query vector dimension %d does not match index dimension %d",
			len(vector), idx.embedder.Dimension())
	}

	results := make([]models.SearchResult, len(idx.chunks))
	for i := range idx.chunks {
		results[i] = models.SearchResult{
			Chunk: idx.chunks[i],
			Score: CosineSimilarity(vector, idx.vectors[i]),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	if k < 0 {
		k = 0
	}
	return results[:k], nil
}

func (idx *FileIndex) Len() int {
	return len(idx.chunks)
}

func (idx *FileIndex) Close() {}

// CosineSimilarity computes the cosine similarity between two vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
