package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

// IngestorDeps wires all driven adapters into the ingestion use case.
type IngestorDeps struct {
	Providers  []ports.Provider
	Fetcher    ports.Fetcher
	Classifier ports.Classifier
	Lookups    ports.LookupStore
	Articles   ports.ArticleStore
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Ingestor orchestrates one ingestion run: every provider in sequence, each
// item classified, resolved, and upserted idempotently by URL. A provider
// failure is recorded in the run report and never blocks the providers after
// it; an item failure is counted and never aborts its provider's batch.
type Ingestor struct {
	providers  []ports.Provider
	fetcher    ports.Fetcher
	classifier ports.Classifier
	lookups    ports.LookupStore
	articles   ports.ArticleStore
	notifier   ports.Notifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewIngestor constructs the orchestration component.
func NewIngestor(deps IngestorDeps) *Ingestor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		providers:  deps.Providers,
		fetcher:    deps.Fetcher,
		classifier: deps.Classifier,
		lookups:    deps.Lookups,
		articles:   deps.Articles,
		notifier:   deps.Notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one full ingestion pass and returns the per-provider outcome.
func (in *Ingestor) Run(ctx context.Context) domain.RunReport {
	report := domain.RunReport{StartedAt: in.now()}

	// Fresh lookup caches per run; nothing leaks between invocations.
	resolver := NewResolver(in.lookups)

	for _, p := range in.providers {
		report.Providers = append(report.Providers, in.runProvider(ctx, p, resolver))
	}

	report.FinishedAt = in.now()

	in.logger.Info("ingestion run finished",
		"providers", len(report.Providers),
		"saved", report.Saved(),
		"failed", report.Failed())

	if in.notifier != nil {
		if err := in.notifier.PublishRunSummary(ctx, report); err != nil {
			in.logger.Warn("run summary notification failed", "error", err)
		}
	}

	return report
}

func (in *Ingestor) runProvider(ctx context.Context, p ports.Provider, resolver *Resolver) domain.ProviderReport {
	report := domain.ProviderReport{Provider: p.Name()}
	logger := in.logger.With("provider", p.Name())

	logger.Info("fetching articles")

	body, err := in.fetcher.Get(ctx, p.URL())
	if err != nil {
		report.Err = fmt.Errorf("fetch: %w", err)
		logger.Error("provider fetch failed", "error", err)
		return report
	}

	items, err := p.Normalize(body, in.now())
	if err != nil {
		report.Err = fmt.Errorf("normalize: %w", err)
		logger.Error("provider response rejected", "error", err)
		return report
	}
	report.Fetched = len(items)

	for _, item := range items {
		if err := in.saveItem(ctx, resolver, item); err != nil {
			report.Failed++
			logger.Error("article not saved", "url", item.URL, "error", err)
			continue
		}
		report.Saved++
	}

	logger.Info("provider done", "fetched", report.Fetched, "saved", report.Saved, "failed", report.Failed)

	return report
}

func (in *Ingestor) saveItem(ctx context.Context, resolver *Resolver, item domain.NormalizedArticle) error {
	sourceID, err := resolver.SourceID(ctx, item.SourceName)
	if err != nil {
		return err
	}

	label := in.classifier.Classify(ctx, item.Title, item.Description)
	categoryID, err := resolver.CategoryID(ctx, label)
	if err != nil {
		return err
	}

	return in.articles.UpsertArticle(ctx, domain.Article{
		Title:       item.Title,
		Content:     nullable(item.Description),
		URL:         item.URL,
		ImageURL:    nullable(item.ImageURL),
		SourceID:    sourceID,
		CategoryID:  categoryID,
		PublishedAt: item.PublishedAt,
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
