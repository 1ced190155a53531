package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookClient posts JSON records to the spreadsheet webhook.
type WebhookClient interface {
	// Enabled reports whether a webhook URL is configured.
	Enabled() bool
	PostJSON(ctx context.Context, payload any, version int) error
}

type webhookClientImpl struct {
	httpClient *http.Client
	url        string
}

func NewWebhookClient(url string, timeout time.Duration) WebhookClient {
	return &webhookClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

func (c *webhookClientImpl) Enabled() bool {
	return c.url != ""
}

func (c *webhookClientImpl) PostJSON(ctx context.Context, payload any, version int) error {
	if c.url == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payload-Version", fmt.Sprint(version))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook error %d: %s", resp.StatusCode, string(b))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
