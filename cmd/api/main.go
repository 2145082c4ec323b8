package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/config"
	"github.com/ajaybenii/test-system-backend/internal/handler"
	"github.com/ajaybenii/test-system-backend/internal/logger"
	"github.com/ajaybenii/test-system-backend/internal/queue/sqs"
	"github.com/ajaybenii/test-system-backend/internal/repository/sqlite"
	"github.com/ajaybenii/test-system-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Initialize SQLite store
	store, err := sqlite.NewClient(ctx, &cfg.Store, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer func(store *sqlite.Client) {
		if err := store.Close(); err != nil {
			log.Error("Failed to close store", zap.Error(err))
		}
	}(store)

	// Provision schema and indexes (one-time, idempotent)
	if err := store.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Initialize repositories
	eventRepo := sqlite.NewEventRepository(store, log)
	attemptRepo := sqlite.NewAttemptRepository(store, log)

	// Initialize SQS client for the bulk ingestion path
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize attempt service
	attemptService := service.NewAttemptService(eventRepo, attemptRepo, sqsClient, log)

	// Initialize handler
	h := handler.NewHandler(attemptService, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
