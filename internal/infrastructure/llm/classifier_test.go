package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mashfooq/be-news-aggregator/internal/config"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/cache"
)

type completionServer struct {
	mu       sync.Mutex
	models   []string // models seen, in call order
	respond  func(model string, call int) (int, string)
	calls    int
	endpoint *httptest.Server
}

func newCompletionServer(t *testing.T, respond func(model string, call int) (int, string)) *completionServer {
	t.Helper()

	cs := &completionServer{respond: respond}
	cs.endpoint = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		cs.mu.Lock()
		cs.calls++
		call := cs.calls
		cs.models = append(cs.models, req.Model)
		cs.mu.Unlock()

		status, label := cs.respond(req.Model, call)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, label)
	}))
	t.Cleanup(cs.endpoint.Close)

	return cs
}

func (cs *completionServer) callCount() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.calls
}

func newTestClassifier(endpoint string, store *cache.Memory) *Classifier {
	c := NewClassifier(config.ClassifierConfig{
		Endpoint:     endpoint,
		Models:       []string{"model-a", "model-b"},
		SystemPrompt: "Return only the category name.",
		Temperature:  0.5,
		MaxTokens:    10,
		CacheTTL:     24 * time.Hour,
	}, store, nil)
	c.delay = 0 // no fixed retry delay in tests
	return c
}

func TestClassifyFirstModelWins(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(model string, call int) (int, string) {
		return http.StatusOK, " Technology\n"
	})

	c := newTestClassifier(srv.endpoint.URL, cache.NewMemory())

	label := c.Classify(context.Background(), "X", "Y")
	assert.Equal(t, "Technology", label, "label is trimmed")
	assert.Equal(t, []string{"model-a"}, srv.models)
}

func TestClassifyFallsThroughToNextModel(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(model string, call int) (int, string) {
		if model == "model-a" {
			return http.StatusServiceUnavailable, ""
		}
		return http.StatusOK, "Sports"
	})

	c := newTestClassifier(srv.endpoint.URL, cache.NewMemory())

	label := c.Classify(context.Background(), "X", "Y")
	assert.Equal(t, "Sports", label)
	// model-a exhausts its 3 attempts before model-b is consulted
	assert.Equal(t, []string{"model-a", "model-a", "model-a", "model-b"}, srv.models)
}

func TestClassifyCachesSuccessfulLabel(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(model string, call int) (int, string) {
		return http.StatusOK, "Politics"
	})

	store := cache.NewMemory()
	c := newTestClassifier(srv.endpoint.URL, store)
	ctx := context.Background()

	first := c.Classify(ctx, "X", "Y")
	second := c.Classify(ctx, "X", "Y")

	assert.Equal(t, "Politics", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, srv.callCount(), "cache hit must not trigger a second call")
}

func TestClassifyFallbackIsNotCached(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(model string, call int) (int, string) {
		return http.StatusInternalServerError, ""
	})

	store := cache.NewMemory()
	c := newTestClassifier(srv.endpoint.URL, store)
	ctx := context.Background()

	label := c.Classify(ctx, "X", "Y")
	assert.Equal(t, "Unknown", label)

	_, ok, err := store.Get(ctx, cacheKey("X", "Y"))
	require.NoError(t, err)
	assert.False(t, ok, "fallback label must not be cached")

	// a later call retries the models rather than serving "Unknown" from cache
	calls := srv.callCount()
	c.Classify(ctx, "X", "Y")
	assert.Greater(t, srv.callCount(), calls)
}

func TestClassifyRetriesWithinOneModel(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(model string, call int) (int, string) {
		if call < 3 {
			return http.StatusBadGateway, ""
		}
		return http.StatusOK, "Business"
	})

	c := newTestClassifier(srv.endpoint.URL, cache.NewMemory())

	label := c.Classify(context.Background(), "X", "Y")
	assert.Equal(t, "Business", label)
	assert.Equal(t, []string{"model-a", "model-a", "model-a"}, srv.models)
}

func TestClassifyTreatsMalformedBodyAsModelFailure(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(model string, call int) (int, string) {
		if model == "model-a" {
			return http.StatusOK, "" // empty label → malformed
		}
		return http.StatusOK, "Science"
	})

	c := newTestClassifier(srv.endpoint.URL, cache.NewMemory())

	label := c.Classify(context.Background(), "X", "Y")
	assert.Equal(t, "Science", label)
}
