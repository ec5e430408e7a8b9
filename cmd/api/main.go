package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/app"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.LoadConfig()
	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer application.Close()

	application.Ingestor.Start(ctx, cfg.IngestWorkers)
	go application.Server.Start()

	logger.Info("knowledge core is running")
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
}
