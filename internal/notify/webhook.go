package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wolfman30/landing-leads/internal/leads"
)

// WebhookNotifier POSTs each new lead as JSON to a configured URL
// (typically an n8n or Zapier workflow).
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier returns nil when url is empty.
func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	if url == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookNotifier{url: url, client: client}
}

// Name identifies the channel in logs and metrics.
func (w *WebhookNotifier) Name() string { return "webhook" }

// Notify sends lead to the webhook. Non-2xx replies are errors.
func (w *WebhookNotifier) Notify(ctx context.Context, lead leads.Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("notify: encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: webhook post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
