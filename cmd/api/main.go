package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sol-backend/infrastructure/config"
	"sol-backend/infrastructure/di"
	"sol-backend/interfaces/http/rest"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	container.Logger.Info("Sol API starting",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreBackend),
		zap.String("llm", cfg.LLMProvider),
	)

	if err := rest.Serve(ctx, cfg.ServerAddress, container.Router.Setup(), container.Logger); err != nil {
		container.Logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	container.Logger.Info("Server stopped")
}
