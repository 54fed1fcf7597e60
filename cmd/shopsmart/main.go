package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopsmart/internal/api"
	"shopsmart/internal/api/handlers"
	"shopsmart/internal/repository"
	"shopsmart/internal/service"
	"shopsmart/pkg/auth"
	"shopsmart/pkg/config"
	"shopsmart/pkg/logger"
	"shopsmart/pkg/postgres"

	"go.uber.org/zap"
)

// @title ShopSmart Assistant API
// @version 1.0
// @description Conversational product-search assistant for the ShopSmart storefront

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the service token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting ShopSmart assistant service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)

	// Initialize services
	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	embeddingService, err := service.NewEmbeddingService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedding service", zap.Error(err))
	}

	routerService := service.NewRouterService(llmService, appLogger)
	indexerService := service.NewIndexerService(productRepo, embeddingService, &cfg.Indexer, appLogger)
	chatService := service.NewChatService(
		routerService, llmService, embeddingService, productRepo, categoryRepo,
		&cfg.Chat, appLogger,
	)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	indexHandler := handlers.NewIndexHandler(indexerService, appLogger)

	// Setup router
	tokens := auth.NewServiceTokenManager(cfg.Auth.ServiceSecret)
	app := api.SetupRouter(chatHandler, indexHandler, tokens, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
