package index_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/index"
)

// fakeEmbedder maps known texts to fixed vectors so rankings are fully
// deterministic.
type fakeEmbedder struct {
	model   string
	dim     int
	vectors map[string][]float32
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		model:   "fake-embedder",
		dim:     3,
		vectors: map[string][]float32{},
	}
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) Dimension() int    { return f.dim }
func (f *fakeEmbedder) ModelInfo() string { return f.model }

func testChunks() ([]models.Chunk, *fakeEmbedder) {
	emb := newFakeEmbedder()
	emb.vectors["villa in ubud"] = []float32{1, 0, 0}
	emb.vectors["guest house in seminyak"] = []float32{0, 1, 0}
	emb.vectors["apartment in yogyakarta"] = []float32{0, 0, 1}

	chunks := []models.Chunk{
		{ID: "a_0", Content: "villa in ubud", Record: models.PropertyRecord{Title: "Villa Ubud"}},
		{ID: "b_0", Content: "guest house in seminyak", Record: models.PropertyRecord{Title: "GH Seminyak"}},
		{ID: "c_0", Content: "apartment in yogyakarta", Record: models.PropertyRecord{Title: "Apt Yogya"}},
	}
	return chunks, emb
}

func TestBuildAndSearch(t *testing.T) {
	ctx := context.Background()
	chunks, emb := testChunks()
	idx := index.NewFileIndex(filepath.Join(t.TempDir(), "index.gob"), emb)

	require.NoError(t, idx.Build(ctx, chunks))
	assert.Equal(t, 3, idx.Len())

	results, err := idx.Search(ctx, []float32{0.9, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a_0", results[0].Chunk.ID)
	assert.Equal(t, "b_0", results[1].Chunk.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

// badDimEmbedder reports one dimension but emits another, the
// misconfiguration Build must refuse.
type badDimEmbedder struct{ fakeEmbedder }

func (b *badDimEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (b *badDimEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func TestBuildRejectsDimensionMismatch(t *testing.T) {
	emb := &badDimEmbedder{fakeEmbedder: *newFakeEmbedder()}
	idx := index.NewFileIndex(filepath.Join(t.TempDir(), "index.gob"), emb)

	err := idx.Build(context.Background(), []models.Chunk{{ID: "a_0", Content: "villa"}})
	require.Error(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestSearchEmptyIndex(t *testing.T) {
	ctx := context.Background()
	idx := index.NewFileIndex(filepath.Join(t.TempDir(), "index.gob"), newFakeEmbedder())

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchClampsK(t *testing.T) {
	ctx := context.Background()
	chunks, emb := testChunks()
	idx := index.NewFileIndex(filepath.Join(t.TempDir(), "index.gob"), emb)
	require.NoError(t, idx.Build(ctx, chunks))

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	chunks, emb := testChunks()
	idx := index.NewFileIndex(filepath.Join(t.TempDir(), "index.gob"), emb)
	require.NoError(t, idx.Build(ctx, chunks))

	_, err := idx.Search(ctx, []float32{1, 0}, 3)
	assert.Error(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	chunks, emb := testChunks()
	path := filepath.Join(t.TempDir(), "index.gob")

	first := index.NewFileIndex(path, emb)
	require.NoError(t, first.Build(ctx, chunks))
	wantResults, err := first.Search(ctx, []float32{0.9, 0.1, 0}, 3)
	require.NoError(t, err)

	// A fresh process loads the same file and serves identical results
	second := index.NewFileIndex(path, emb)
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, 3, second.Len())

	gotResults, err := second.Search(ctx, []float32{0.9, 0.1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, wantResults, gotResults)
}

func TestLoadMissingFile(t *testing.T) {
	idx := index.NewFileIndex(filepath.Join(t.TempDir(), "missing.gob"), newFakeEmbedder())

	err := idx.Load(context.Background())
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
	assert.NotErrorIs(t, err, index.ErrCorruptIndex)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob payload"), 0644))

	idx := index.NewFileIndex(path, newFakeEmbedder())
	err := idx.Load(context.Background())
	assert.ErrorIs(t, err, index.ErrCorruptIndex)
}

func TestLoadModelMismatch(t *testing.T) {
	ctx := context.Background()
	chunks, emb := testChunks()
	path := filepath.Join(t.TempDir(), "index.gob")

	first := index.NewFileIndex(path, emb)
	require.NoError(t, first.Build(ctx, chunks))

	other := newFakeEmbedder()
	other.model = "different-embedder"
	second := index.NewFileIndex(path, other)

	err := second.Load(ctx)
	assert.ErrorIs(t, err, index.ErrCorruptIndex)
}

func TestLoadDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	chunks, emb := testChunks()
	path := filepath.Join(t.TempDir(), "index.gob")

	first := index.NewFileIndex(path, emb)
	require.NoError(t, first.Build(ctx, chunks))

	other := newFakeEmbedder()
	other.dim = 5
	second := index.NewFileIndex(path, other)

	err := second.Load(ctx)
	assert.ErrorIs(t, err, index.ErrCorruptIndex)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, index.CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, index.CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, index.CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	// Zero vectors and length mismatches degrade to 0
	assert.Equal(t, float32(0), index.CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, float32(0), index.CosineSimilarity([]float32{1}, []float32{1, 2}))
}
