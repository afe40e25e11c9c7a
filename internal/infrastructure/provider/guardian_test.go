package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mashfooq/be-news-aggregator/internal/config"
)

func TestGuardianURLRequestsThumbnails(t *testing.T) {
	t.Parallel()

	p := NewGuardian(config.GuardianConfig{
		Endpoint: "https://content.guardianapis.com/search",
		APIKey:   "secret",
	})

	u := p.URL()
	assert.Contains(t, u, "api-key=secret")
	assert.Contains(t, u, "show-fields=thumbnail")
}

func TestGuardianNormalize(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"response": {
			"results": [
				{
					"webTitle": "Headline",
					"webUrl": "http://g/1",
					"webPublicationDate": "2024-03-05T09:30:00Z",
					"fields": {"thumbnail": "http://g/thumb.jpg"}
				},
				{
					"webTitle": "No thumb",
					"webUrl": "http://g/2"
				}
			]
		}
	}`)

	items, err := NewGuardian(config.GuardianConfig{}).Normalize(body, ingestedAt)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Headline", items[0].Title)
	assert.Empty(t, items[0].Description, "guardian feed carries no body text")
	assert.Equal(t, guardianSourceName, items[0].SourceName)
	assert.Equal(t, "http://g/thumb.jpg", items[0].ImageURL)
	assert.Equal(t, time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC), items[0].PublishedAt)

	assert.Empty(t, items[1].ImageURL)
	assert.Equal(t, ingestedAt, items[1].PublishedAt)
}
