package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
)

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	report := domain.RunReport{
		Providers: []domain.ProviderReport{
			{Provider: "NewsAPI", Fetched: 20, Saved: 19, Failed: 1},
			{Provider: "The Guardian", Err: errors.New("fetch: connection reset")},
		},
	}

	text := formatSummary(report)
	assert.Contains(t, text, "19 saved, 1 failed")
	assert.Contains(t, text, "- NewsAPI: 20 fetched, 19 saved, 1 failed")
	assert.Contains(t, text, "- The Guardian: failed")
}
