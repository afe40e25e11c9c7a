package ports

import (
	"context"
	"time"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
)

// Provider adapts one external news API to the normalized article shape.
// URL builds the request for the current configuration; Normalize translates
// the raw response body, substituting now for missing publish timestamps.
type Provider interface {
	Name() string
	URL() string
	Normalize(body []byte, now time.Time) ([]domain.NormalizedArticle, error)
}

// Fetcher retrieves a document with bounded retries on non-success statuses.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Classifier assigns a topic label to article content. It never fails: when
// every backend is exhausted it returns a sentinel label instead.
type Classifier interface {
	Classify(ctx context.Context, title, description string) string
}

// Cache is a string key-value store with per-entry expiry. Backs the
// classification cache and the token denylist.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// LookupStore performs get-or-create by unique name for lookup entities.
type LookupStore interface {
	GetOrCreateSource(ctx context.Context, name string) (int64, error)
	GetOrCreateCategory(ctx context.Context, name string) (int64, error)
	Sources(ctx context.Context) ([]domain.Source, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// ArticleStore persists articles idempotently, keyed by URL.
type ArticleStore interface {
	UpsertArticle(ctx context.Context, article domain.Article) error
}

// ArticleReader serves the query side: filtered listings and detail lookups.
type ArticleReader interface {
	ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.ArticleView, int, error)
	GetArticle(ctx context.Context, id int64) (domain.ArticleView, error)
}

// UserStore manages API accounts.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// PreferenceStore persists per-user feed preferences.
type PreferenceStore interface {
	ReplacePreferences(ctx context.Context, userID int64, prefs domain.Preferences) error
	PreferencesByUser(ctx context.Context, userID int64) (domain.Preferences, error)
}

// Notifier publishes a human-readable summary after an ingestion run.
type Notifier interface {
	PublishRunSummary(ctx context.Context, report domain.RunReport) error
}

// Scheduler controls when ingestion runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
