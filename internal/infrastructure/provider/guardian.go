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

const guardianSourceName = "The Guardian"

// Guardian adapts the Guardian content search API. The feed carries no body
// text, so Description stays empty and classification runs on the title alone.
type Guardian struct {
	cfg config.GuardianConfig
}

var _ ports.Provider = (*Guardian)(nil)

// NewGuardian builds the adapter from configuration.
func NewGuardian(cfg config.GuardianConfig) *Guardian {
	return &Guardian{cfg: cfg}
}

// Name identifies the provider in reports and logs.
func (p *Guardian) Name() string {
	return guardianSourceName
}

// URL builds the search request, asking for thumbnails alongside results.
func (p *Guardian) URL() string {
	u, err := url.Parse(p.cfg.Endpoint)
	if err != nil {
		return p.cfg.Endpoint
	}
	q := u.Query()
	q.Set("api-key", p.cfg.APIKey)
	q.Set("show-fields", "thumbnail")
	u.RawQuery = q.Encode()
	return u.String()
}

// Normalize maps response.results onto the normalized shape with the fixed
// Guardian source name.
func (p *Guardian) Normalize(body []byte, now time.Time) ([]domain.NormalizedArticle, error) {
	var payload struct {
		Response struct {
			Results []struct {
				WebTitle           string `json:"webTitle"`
				WebURL             string `json:"webUrl"`
				WebPublicationDate string `json:"webPublicationDate"`
				Fields             struct {
					Thumbnail string `json:"thumbnail"`
				} `json:"fields"`
			} `json:"results"`
		} `json:"response"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode guardian response: %w", err)
	}

	items := make([]domain.NormalizedArticle, 0, len(payload.Response.Results))
	for _, item := range payload.Response.Results {
		if item.WebTitle == "" || item.WebURL == "" {
			continue
		}
		items = append(items, domain.NormalizedArticle{
			Title:       item.WebTitle,
			URL:         item.WebURL,
			ImageURL:    item.Fields.Thumbnail,
			SourceName:  guardianSourceName,
			PublishedAt: parseTime(item.WebPublicationDate, now),
		})
	}

	return items, nil
}
