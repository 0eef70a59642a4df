package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/errors"
)

const defaultWebhookTimeout = 10 * time.Second

// webhookPayload matches the Apprise API notify body.
type webhookPayload struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Type   string `json:"type"`
	Format string `json:"format"`
}

// Webhook posts notifications as JSON to an Apprise-compatible endpoint.
type Webhook struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

var _ alert.Observer = (*Webhook)(nil)

func NewWebhook(rawURL string) (*Webhook, error) {
	errFactory := errors.New()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvalidWebhook, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errFactory.WithData(ErrInvalidWebhook, rawURL)
	}

	return &Webhook{
		url:     u.String(),
		client:  &http.Client{Timeout: defaultWebhookTimeout},
		timeout: defaultWebhookTimeout,
	}, nil
}

func (w *Webhook) OnAlert(n alert.Notification) error {
	errFactory := errors.New()

	notifyType := "warning"
	if n.Severity == alert.Critical {
		notifyType = "failure"
	}

	data, err := json.Marshal(webhookPayload{
		Title:  n.Title,
		Body:   n.Message,
		Type:   notifyType,
		Format: "text",
	})
	if err != nil {
		return errFactory.Wrap(ErrEncodeFailed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return errFactory.Wrap(ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errFactory.WithMessage(ErrDeliveryFailed,
			fmt.Sprintf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(body)))
	}

	return nil
}
