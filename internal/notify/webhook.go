package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
)

// Webhook posts change notifications to each host's webhook URI as a
// Discord-style {"content": ...} payload.
type Webhook struct {
	Client *http.Client
}

func NewWebhook() *Webhook {
	return &Webhook{
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

func Message(host string, cfg domain.HostConfig, resp domain.DNSResponse) string {
	return fmt.Sprintf("IP address for **%s** (%s) is now **%s**", cfg.Name, host, resp.IPv4)
}

func (w *Webhook) Notify(ctx context.Context, host string, cfg domain.HostConfig, resp domain.DNSResponse) error {
	body, _ := json.Marshal(webhookPayload{Content: Message(host, cfg, resp)})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.WebhookURI, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request for %s: %w", host, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post for %s: %w", host, err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("webhook post for %s: status %d", host, res.StatusCode)
	}
	return nil
}
