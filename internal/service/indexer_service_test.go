package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"shopsmart/internal/models"
	"shopsmart/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeIndexStore struct {
	sources   map[int64]*models.IndexSource
	ids       []int64
	idsErr    error
	updates   map[int64][]float32
	updateErr error
}

func newFakeIndexStore(sources ...*models.IndexSource) *fakeIndexStore {
	s := &fakeIndexStore{
		sources: map[int64]*models.IndexSource{},
		updates: map[int64][]float32{},
	}
	for _, src := range sources {
		s.sources[src.ID] = src
		s.ids = append(s.ids, src.ID)
	}
	return s
}

func (s *fakeIndexStore) GetForIndexing(ctx context.Context, id int64) (*models.IndexSource, error) {
	src, ok := s.sources[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	return src, nil
}

func (s *fakeIndexStore) UpdateEmbedding(ctx context.Context, id int64, vector []float32) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates[id] = vector
	return nil
}

func (s *fakeIndexStore) ListIDs(ctx context.Context) ([]int64, error) {
	return s.ids, s.idsErr
}

// flakyEmbedder fails on selected call numbers (1-based).
type flakyEmbedder struct {
	vector []float32
	failOn map[int]bool
	calls  int
}

func (e *flakyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.failOn[e.calls] {
		return nil, errors.New("embed: status 429")
	}
	return e.vector, nil
}

func testIndexer(store IndexStore, embedder Embedder) *IndexerService {
	return NewIndexerService(store, embedder, &config.IndexerConfig{BulkDelay: 0}, zap.NewNop())
}

func laptopSource() *models.IndexSource {
	return &models.IndexSource{
		ID:           1,
		Title:        "Asus ROG Strix",
		Description:  "Laptop gaming màn 16 inch",
		CategoryName: "Laptop Gaming",
		Features:     map[string]any{"RAM": "16GB", "Color": "Black", "CPU": "Ryzen 9"},
	}
}

func TestBuildIndexTextIsDeterministic(t *testing.T) {
	src := laptopSource()

	want := "Product: Asus ROG Strix. Category: Laptop Gaming. Desc: Laptop gaming màn 16 inch. Specs: CPU: Ryzen 9, Color: Black, RAM: 16GB"
	assert.Equal(t, want, buildIndexText(src))
	// Map iteration order must not leak into the text.
	assert.Equal(t, buildIndexText(src), buildIndexText(src))
}

func TestReindexWritesVector(t *testing.T) {
	store := newFakeIndexStore(laptopSource())
	emb := &flakyEmbedder{vector: []float32{0.5, 0.25}}

	err := testIndexer(store, emb).Reindex(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []float32{0.5, 0.25}, store.updates[1])
}

func TestReindexKeepsOldVectorOnEmbedFailure(t *testing.T) {
	store := newFakeIndexStore(laptopSource())
	emb := &flakyEmbedder{failOn: map[int]bool{1: true}}

	err := testIndexer(store, emb).Reindex(context.Background(), 1)
	require.Error(t, err)

	// No write happened; whatever was stored stays stored.
	assert.Empty(t, store.updates)
}

func TestReindexPropagatesStoreWriteFailure(t *testing.T) {
	store := newFakeIndexStore(laptopSource())
	store.updateErr = fmt.Errorf("update: %w", models.ErrStoreUnavailable)
	emb := &flakyEmbedder{vector: []float32{0.5}}

	err := testIndexer(store, emb).Reindex(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestReindexUnknownProduct(t *testing.T) {
	store := newFakeIndexStore()
	emb := &flakyEmbedder{vector: []float32{0.5}}

	err := testIndexer(store, emb).Reindex(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReindexAllSkipsFailures(t *testing.T) {
	a, b, c := laptopSource(), laptopSource(), laptopSource()
	b.ID, c.ID = 2, 3
	store := newFakeIndexStore(a, b, c)
	emb := &flakyEmbedder{vector: []float32{0.5}, failOn: map[int]bool{2: true}}

	indexed, skipped, err := testIndexer(store, emb).ReindexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, indexed)
	assert.Equal(t, 1, skipped)
	assert.Contains(t, store.updates, int64(1))
	assert.NotContains(t, store.updates, int64(2))
	assert.Contains(t, store.updates, int64(3))
}

func TestReindexAllFailsWhenListingFails(t *testing.T) {
	store := newFakeIndexStore()
	store.idsErr = fmt.Errorf("list: %w", models.ErrStoreUnavailable)

	_, _, err := testIndexer(store, &flakyEmbedder{}).ReindexAll(context.Background())
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}
