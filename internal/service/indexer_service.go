package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"shopsmart/internal/models"
	"shopsmart/pkg/config"

	"go.uber.org/zap"
)

// Embedder converts text to a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// IndexStore is the slice of the catalog store the indexer needs.
type IndexStore interface {
	GetForIndexing(ctx context.Context, id int64) (*models.IndexSource, error)
	UpdateEmbedding(ctx context.Context, id int64, vector []float32) error
	ListIDs(ctx context.Context) ([]int64, error)
}

// IndexerService keeps product embeddings in sync with the title,
// description, category name and feature map they are derived from. Catalog
// management calls Reindex after a create or after an update touching any of
// those fields.
type IndexerService struct {
	store    IndexStore
	embedder Embedder
	cfg      *config.IndexerConfig
	logger   *zap.Logger
}

func NewIndexerService(store IndexStore, embedder Embedder, cfg *config.IndexerConfig, logger *zap.Logger) *IndexerService {
	return &IndexerService{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Reindex recomputes and stores one item's embedding. If the embedding call
// fails the stored vector is left untouched, so the item stays discoverable
// via keyword search while semantic search is degraded.
func (s *IndexerService) Reindex(ctx context.Context, id int64) error {
	src, err := s.store.GetForIndexing(ctx, id)
	if err != nil {
		return fmt.Errorf("reindex product %d: %w", id, err)
	}

	vector, err := s.embedder.Embed(ctx, buildIndexText(src))
	if err != nil {
		s.logger.Warn("Embedding failed, keeping previous vector",
			zap.Int64("product_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("reindex product %d: %w", id, err)
	}

	if err := s.store.UpdateEmbedding(ctx, id, vector); err != nil {
		return fmt.Errorf("reindex product %d: %w", id, err)
	}

	s.logger.Info("Product reindexed", zap.Int64("product_id", id))
	return nil
}

// ReindexAll re-embeds the whole catalog sequentially with a fixed delay
// between items, to stay under upstream rate limits. Failures are logged and
// skipped; the item self-heals on its next individual update.
func (s *IndexerService) ReindexAll(ctx context.Context) (indexed, skipped int, err error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reindex all: %w", err)
	}

	for i, id := range ids {
		if i > 0 && s.cfg.BulkDelay > 0 {
			select {
			case <-ctx.Done():
				return indexed, skipped, ctx.Err()
			case <-time.After(s.cfg.BulkDelay):
			}
		}

		if err := s.Reindex(ctx, id); err != nil {
			s.logger.Warn("Skipping product in bulk reindex",
				zap.Int64("product_id", id),
				zap.Error(err),
			)
			skipped++
			continue
		}
		indexed++
	}

	s.logger.Info("Bulk reindex finished",
		zap.Int("indexed", indexed),
		zap.Int("skipped", skipped),
	)
	return indexed, skipped, nil
}

// buildIndexText flattens the four semantic fields into one descriptive
// string. Feature keys are sorted so the text, and therefore the embedding,
// is a pure function of the field contents.
func buildIndexText(src *models.IndexSource) string {
	keys := make([]string, 0, len(src.Features))
	for k := range src.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %v", k, src.Features[k]))
	}

	return fmt.Sprintf("Product: %s. Category: %s. Desc: %s. Specs: %s",
		src.Title, src.CategoryName, src.Description, strings.Join(pairs, ", "))
}
