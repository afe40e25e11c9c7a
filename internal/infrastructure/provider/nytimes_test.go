package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mashfooq/be-news-aggregator/internal/config"
)

func TestNYTimesNormalize(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"results": [
			{
				"title": "Top story",
				"abstract": "Short take",
				"url": "http://nyt/1",
				"published_date": "2024-02-02T08:00:00-05:00",
				"multimedia": [
					{"url": "http://nyt/img-large.jpg"},
					{"url": "http://nyt/img-small.jpg"}
				]
			},
			{
				"title": "No media",
				"abstract": "",
				"url": "http://nyt/2",
				"multimedia": []
			}
		]
	}`)

	items, err := NewNYTimes(config.NYTimesConfig{}).Normalize(body, ingestedAt)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Top story", items[0].Title)
	assert.Equal(t, "Short take", items[0].Description)
	assert.Equal(t, nytimesSourceName, items[0].SourceName)
	assert.Equal(t, "http://nyt/img-large.jpg", items[0].ImageURL, "first multimedia entry wins")

	wantTS := time.Date(2024, 2, 2, 8, 0, 0, 0, time.FixedZone("", -5*3600))
	assert.True(t, wantTS.Equal(items[0].PublishedAt))

	assert.Empty(t, items[1].ImageURL)
	assert.Equal(t, ingestedAt, items[1].PublishedAt)
}

func TestParseTimeFallsBackOnGarbage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ingestedAt, parseTime("not-a-date", ingestedAt))
	assert.Equal(t, ingestedAt, parseTime("", ingestedAt))
}
