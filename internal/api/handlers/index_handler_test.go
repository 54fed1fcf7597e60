package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"shopsmart/internal/dto"
	"shopsmart/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubIndexer struct {
	reindexErr error
	indexed    int
	skipped    int
	bulkErr    error
	ids        []int64
}

func (s *stubIndexer) Reindex(ctx context.Context, id int64) error {
	s.ids = append(s.ids, id)
	return s.reindexErr
}

func (s *stubIndexer) ReindexAll(ctx context.Context) (int, int, error) {
	return s.indexed, s.skipped, s.bulkErr
}

func newIndexApp(indexer Indexer) *fiber.App {
	app := fiber.New()
	h := NewIndexHandler(indexer, zap.NewNop())
	app.Post("/api/v1/admin/products/:id/reindex", h.ReindexProduct)
	app.Post("/api/v1/admin/reindex", h.ReindexAll)
	return app
}

func TestReindexProductOK(t *testing.T) {
	indexer := &stubIndexer{}
	app := newIndexApp(indexer)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/products/7/reindex", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.ReindexProductResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(7), body.ProductID)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, []int64{7}, indexer.ids)
}

func TestReindexProductInvalidID(t *testing.T) {
	indexer := &stubIndexer{}
	app := newIndexApp(indexer)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/products/abc/reindex", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, indexer.ids)
}

func TestReindexProductNotFound(t *testing.T) {
	indexer := &stubIndexer{reindexErr: fmt.Errorf("product 42: %w", models.ErrNotFound)}
	app := newIndexApp(indexer)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/products/42/reindex", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReindexProductUpstreamFailure(t *testing.T) {
	indexer := &stubIndexer{reindexErr: fmt.Errorf("product 7: %w", models.ErrUpstreamUnavailable)}
	app := newIndexApp(indexer)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/products/7/reindex", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestReindexAllReportsCounts(t *testing.T) {
	app := newIndexApp(&stubIndexer{indexed: 12, skipped: 3})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/reindex", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.ReindexAllResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 12, body.Indexed)
	assert.Equal(t, 3, body.Skipped)
}
