package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Mashfooq/be-news-aggregator/internal/app"
	"github.com/Mashfooq/be-news-aggregator/internal/config"
	"github.com/Mashfooq/be-news-aggregator/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Serve(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
