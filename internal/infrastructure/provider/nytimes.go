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

const nytimesSourceName = "New York Times"

// NYTimes adapts the NYT top-stories feed, carrying the abstract as content
// and the first multimedia entry as the image.
type NYTimes struct {
	cfg config.NYTimesConfig
}

var _ ports.Provider = (*NYTimes)(nil)

// NewNYTimes builds the adapter from configuration.
func NewNYTimes(cfg config.NYTimesConfig) *NYTimes {
	return &NYTimes{cfg: cfg}
}

// Name identifies the provider in reports and logs.
func (p *NYTimes) Name() string {
	return nytimesSourceName
}

// URL builds the top-stories request for the configured key.
func (p *NYTimes) URL() string {
	u, err := url.Parse(p.cfg.Endpoint)
	if err != nil {
		return p.cfg.Endpoint
	}
	q := u.Query()
	q.Set("api-key", p.cfg.APIKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// Normalize maps the results array onto the normalized shape with the fixed
// NYT source name.
func (p *NYTimes) Normalize(body []byte, now time.Time) ([]domain.NormalizedArticle, error) {
	var payload struct {
		Results []struct {
			Title         string `json:"title"`
			Abstract      string `json:"abstract"`
			URL           string `json:"url"`
			PublishedDate string `json:"published_date"`
			Multimedia    []struct {
				URL string `json:"url"`
			} `json:"multimedia"`
		} `json:"results"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode nytimes response: %w", err)
	}

	items := make([]domain.NormalizedArticle, 0, len(payload.Results))
	for _, item := range payload.Results {
		if item.Title == "" || item.URL == "" {
			continue
		}
		var image string
		if len(item.Multimedia) > 0 {
			image = item.Multimedia[0].URL
		}
		items = append(items, domain.NormalizedArticle{
			Title:       item.Title,
			Description: item.Abstract,
			URL:         item.URL,
			ImageURL:    image,
			SourceName:  nytimesSourceName,
			PublishedAt: parseTime(item.PublishedDate, now),
		})
	}

	return items, nil
}
