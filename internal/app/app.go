package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Mashfooq/be-news-aggregator/internal/config"
	"github.com/Mashfooq/be-news-aggregator/internal/httpapi"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/cache"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/fetch"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/llm"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/provider"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/scheduler"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/storage"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/telegram"
	"github.com/Mashfooq/be-news-aggregator/internal/logging"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
	"github.com/Mashfooq/be-news-aggregator/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.Store
	cache    ports.Cache
	redis    *cache.Redis // nil when running on the in-process cache
	ingestor *usecase.Ingestor
}

// New builds a runnable application instance with all adapters connected.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.New(ctx, cfg.Database.DSN, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	app := &Application{cfg: cfg, logger: baseLogger, store: store}

	if cfg.Redis.Addr != "" {
		app.redis = cache.NewRedis(cfg.Redis)
		app.cache = app.redis
	} else {
		baseLogger.Warn("redis not configured, caches will not survive restarts")
		app.cache = cache.NewMemory()
	}

	classifier := llm.NewClassifier(cfg.Classifier, app.cache, baseLogger.With("component", "classifier"))
	fetcher := fetch.NewClient(nil, baseLogger.With("component", "fetch"))

	providers := []ports.Provider{
		provider.NewNewsAPI(cfg.Providers.NewsAPI),
		provider.NewGuardian(cfg.Providers.Guardian),
		provider.NewNYTimes(cfg.Providers.NYTimes),
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	app.ingestor = usecase.NewIngestor(usecase.IngestorDeps{
		Providers:  providers,
		Fetcher:    fetcher,
		Classifier: classifier,
		Lookups:    store,
		Articles:   store,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "ingestor"),
	})

	return app, nil
}

// RunIngestion executes a single ingestion pass. It fails only when every
// provider stage failed, which usually means a network or store outage.
func (a *Application) RunIngestion(ctx context.Context) error {
	report := a.ingestor.Run(ctx)

	allFailed := len(report.Providers) > 0
	for _, p := range report.Providers {
		if p.OK() {
			allFailed = false
			break
		}
	}
	if allFailed {
		return errors.New("every provider stage failed")
	}

	return nil
}

// RunIngestionLoop runs ingestion on the configured interval until ctx ends.
func (a *Application) RunIngestionLoop(ctx context.Context) error {
	runner := usecase.NewRunner(scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval), a.ingestor)

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	return runner.Stop(context.Background())
}

// Serve runs the HTTP API until ctx ends.
func (a *Application) Serve(ctx context.Context) error {
	server := httpapi.NewServer(httpapi.ServerDeps{
		Articles:    a.store,
		Users:       a.store,
		Preferences: a.store,
		Tokens:      httpapi.NewTokenManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL, a.cache),
		Logger:      a.logger.With("component", "httpapi"),
	})

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(context.Background()); err != nil {
			a.logger.Error("server shutdown failed", "error", err)
		}
	}()

	a.logger.Info("http api listening", "addr", a.cfg.Server.Addr)

	if err := server.Start(a.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Close releases storage and cache connections.
func (a *Application) Close() {
	a.store.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis failed", "error", err)
		}
	}
}
