package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"announcebot/internal/domain"
)

type webhookPayload struct {
	Content string `json:"content"`
}

type webhookNotifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookNotifier returns a Notifier that POSTs {"content": text} to url.
// Every request carries a fresh Idempotency-Key.
func NewWebhookNotifier(url string, client *http.Client, logger *slog.Logger) domain.Notifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &webhookNotifier{url: url, client: client, logger: logger}
}

func (n *webhookNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(webhookPayload{Content: text})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	key := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	n.logger.DebugContext(ctx, "webhook delivered", "idempotency_key", key, "status", resp.StatusCode)
	return nil
}
