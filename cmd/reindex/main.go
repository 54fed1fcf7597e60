// Command reindex runs one sequential re-embedding pass over the whole
// catalog. Intended for maintenance windows and after embedding-model
// changes; per-item failures are skipped and heal on the item's next update.
package main

import (
	"context"
	"fmt"
	"os"

	"shopsmart/internal/repository"
	"shopsmart/internal/service"
	"shopsmart/pkg/config"
	"shopsmart/pkg/logger"
	"shopsmart/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting bulk reindex")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db, appLogger)

	embeddingService, err := service.NewEmbeddingService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedding service", zap.Error(err))
	}

	indexer := service.NewIndexerService(productRepo, embeddingService, &cfg.Indexer, appLogger)

	indexed, skipped, err := indexer.ReindexAll(ctx)
	if err != nil {
		appLogger.Fatal("Bulk reindex failed", zap.Error(err))
	}

	appLogger.Info("Bulk reindex done",
		zap.Int("indexed", indexed),
		zap.Int("skipped", skipped),
	)

	if indexed == 0 && skipped > 0 {
		os.Exit(1)
	}
}
