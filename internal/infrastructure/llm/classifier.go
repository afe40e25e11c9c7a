package llm

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Mashfooq/be-news-aggregator/internal/config"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

const (
	fallbackLabel    = "Unknown"
	cacheKeyPrefix   = "news_category:"
	attemptsPerModel = 3
	defaultDelay     = 2 * time.Second
	defaultTimeout   = 60 * time.Second
)

// Classifier assigns topic labels through an OpenRouter-style chat-completion
// API. Models are tried in configured order, first success wins. Successful
// labels are cached keyed by a content hash; the fallback label is not, so a
// later run retries classification for the same content.
type Classifier struct {
	cfg    config.ClassifierConfig
	cache  ports.Cache
	http   *http.Client
	logger *slog.Logger
	delay  time.Duration
}

var _ ports.Classifier = (*Classifier)(nil)

// NewClassifier builds a classifier from configuration.
func NewClassifier(cfg config.ClassifierConfig, cache ports.Cache, logger *slog.Logger) *Classifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		cfg:    cfg,
		cache:  cache,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
		delay:  defaultDelay,
	}
}

// Classify returns a topic label for the given content. It never returns an
// error: exhausting every model yields the fallback label instead.
func (c *Classifier) Classify(ctx context.Context, title, description string) string {
	key := cacheKey(title, description)

	if label, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("classification cache read failed", "error", err)
	} else if ok {
		return label
	}

	if description == "" {
		description = "No description available."
	}
	content := fmt.Sprintf("Title: %s. Description: %s", title, description)

	for _, model := range c.cfg.Models {
		label, err := c.completeWithRetry(ctx, model, content)
		if err != nil {
			c.logger.Warn("classification model failed", "model", model, "error", err)
			continue
		}

		if err := c.cache.Set(ctx, key, label, c.cfg.CacheTTL); err != nil {
			c.logger.Warn("classification cache write failed", "error", err)
		}
		return label
	}

	return fallbackLabel
}

// completeWithRetry gives one model up to three attempts with a fixed delay
// between them. Any failure kind (transport, status, malformed body) counts.
func (c *Classifier) completeWithRetry(ctx context.Context, model, content string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= attemptsPerModel; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.delay):
			}
		}

		label, err := c.complete(ctx, model, content)
		if err == nil {
			return label, nil
		}
		lastErr = err
	}

	return "", lastErr
}

func (c *Classifier) complete(ctx context.Context, model, content string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": c.cfg.SystemPrompt},
			{"role": "user", "content": content},
		},
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	label := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if label == "" {
		return "", fmt.Errorf("completion returned empty label")
	}

	return label, nil
}

func cacheKey(title, description string) string {
	sum := md5.Sum([]byte(title + description))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
