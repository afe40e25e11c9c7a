package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Mashfooq/be-news-aggregator/internal/app"
	"github.com/Mashfooq/be-news-aggregator/internal/config"
	"github.com/Mashfooq/be-news-aggregator/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run a single ingestion pass and exit")
	flag.Parse()

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

	if *once {
		err = application.RunIngestion(ctx)
	} else {
		err = application.RunIngestionLoop(ctx)
	}
	if err != nil {
		logger.Error("ingestion stopped", "error", err)
		os.Exit(1)
	}
}
