package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

// Notifier posts ingestion run summaries to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishRunSummary sends a one-line-per-provider digest of the run.
func (n *Notifier) PublishRunSummary(ctx context.Context, report domain.RunReport) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", formatSummary(report))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func formatSummary(report domain.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "News ingestion finished: %d saved, %d failed\n", report.Saved(), report.Failed())
	for _, p := range report.Providers {
		if p.Err != nil {
			fmt.Fprintf(&b, "- %s: failed (%v)\n", p.Provider, p.Err)
			continue
		}
		fmt.Fprintf(&b, "- %s: %d fetched, %d saved, %d failed\n", p.Provider, p.Fetched, p.Saved, p.Failed)
	}
	return b.String()
}
