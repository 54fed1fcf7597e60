package handlers

import (
	"context"
	"errors"
	"strconv"

	"shopsmart/internal/dto"
	"shopsmart/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Indexer is the embedding maintenance contract exposed to catalog
// management.
type Indexer interface {
	Reindex(ctx context.Context, id int64) error
	ReindexAll(ctx context.Context) (indexed, skipped int, err error)
}

type IndexHandler struct {
	indexer Indexer
	logger  *zap.Logger
}

func NewIndexHandler(indexer Indexer, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{
		indexer: indexer,
		logger:  logger,
	}
}

// ReindexProduct godoc
// @Summary Recompute one product's embedding
// @Description Called by catalog management after a create or an update touching title, description, category or features
// @Tags admin
// @Produce json
// @Param id path int true "Product ID"
// @Security Bearer
// @Success 200 {object} dto.ReindexProductResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/products/{id}/reindex [post]
func (h *IndexHandler) ReindexProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	if err := h.indexer.Reindex(c.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		h.logger.Error("Failed to reindex product", zap.Int64("product_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reindex product",
		})
	}

	return c.JSON(dto.ReindexProductResponse{ProductID: id, Status: "ok"})
}

// ReindexAll godoc
// @Summary Re-embed the whole catalog
// @Description Sequential maintenance pass with a fixed inter-call delay; failed items are skipped
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.ReindexAllResponse
// @Router /api/v1/admin/reindex [post]
func (h *IndexHandler) ReindexAll(c *fiber.Ctx) error {
	indexed, skipped, err := h.indexer.ReindexAll(c.Context())
	if err != nil {
		h.logger.Error("Bulk reindex failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reindex catalog",
		})
	}

	return c.JSON(dto.ReindexAllResponse{Indexed: indexed, Skipped: skipped})
}
