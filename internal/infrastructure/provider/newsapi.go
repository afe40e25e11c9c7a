package provider

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/Mashfooq/be-news-aggregator/internal/config"
	"github.com/Mashfooq/be-news-aggregator/internal/domain"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

// NewsAPI adapts the NewsAPI top-headlines feed. It is the only provider with
// a per-item source name; items missing one fall back to the resolver default.
type NewsAPI struct {
	cfg config.NewsAPIConfig
}

var _ ports.Provider = (*NewsAPI)(nil)

// NewNewsAPI builds the adapter from configuration.
func NewNewsAPI(cfg config.NewsAPIConfig) *NewsAPI {
	return &NewsAPI{cfg: cfg}
}

// Name identifies the provider in reports and logs.
func (p *NewsAPI) Name() string {
	return "NewsAPI"
}

// URL builds the top-headlines request for the configured country and key.
func (p *NewsAPI) URL() string {
	u, err := url.Parse(p.cfg.Endpoint)
	if err != nil {
		return p.cfg.Endpoint
	}
	q := u.Query()
	q.Set("country", p.cfg.Country)
	q.Set("apiKey", p.cfg.APIKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// Normalize maps the articles array onto the normalized shape. Items without
// a title or URL are dropped; every other missing field degrades to empty.
func (p *NewsAPI) Normalize(body []byte, now time.Time) ([]domain.NormalizedArticle, error) {
	var payload struct {
		Articles []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Title       string  `json:"title"`
			Description *string `json:"description"`
			URL         string  `json:"url"`
			URLToImage  *string `json:"urlToImage"`
			PublishedAt string  `json:"publishedAt"`
		} `json:"articles"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode newsapi response: %w", err)
	}

	items := make([]domain.NormalizedArticle, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		if item.Title == "" || item.URL == "" {
			continue
		}
		items = append(items, domain.NormalizedArticle{
			Title:       item.Title,
			Description: deref(item.Description),
			URL:         item.URL,
			ImageURL:    deref(item.URLToImage),
			SourceName:  item.Source.Name,
			PublishedAt: parseTime(item.PublishedAt, now),
		})
	}

	return items, nil
}
