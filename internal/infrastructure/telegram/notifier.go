// Package telegram publishes run digests to a chat via the bot API.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

const defaultTelegramURL = "https://api.telegram.org"

// Notifier formats newly indexed jobs into a digest message and sends it
// to a Telegram chat.
type Notifier struct {
	baseURL  string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier wires bot credentials; baseURL defaults to the public API.
func NewNotifier(baseURL, botToken, chatID string, client *http.Client) *Notifier {
	if baseURL == "" {
		baseURL = defaultTelegramURL
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Notifier{
		baseURL:  strings.TrimRight(baseURL, "/"),
		botToken: botToken,
		chatID:   chatID,
		client:   client,
	}
}

// PublishDigest posts one Markdown message summarizing the batch. Empty
// batches send nothing.
func (n *Notifier) PublishDigest(ctx context.Context, records []domain.JobRecord) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}
	if len(records) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", digest(records))
	form.Set("parse_mode", "Markdown")

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

func digest(records []domain.JobRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Indexed %d jobs\n", len(records))
	for _, record := range records {
		fmt.Fprintf(&sb, "- %s at %s (%s)\n%s\n",
			record.JobTitle, record.Company, record.Location, record.ApplyURL)
	}
	return sb.String()
}
