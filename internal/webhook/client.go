// Package webhook forwards brief events to the external intake automation.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Payload types recognized by the intake automation.
const (
	TypeSendBrief      = "send_brief"
	TypeBriefCompleted = "brief_completed"
)

// Client posts JSON payloads to the configured intake webhook.
type Client struct {
	url    string
	client *http.Client
}

// New creates a webhook client. An empty URL disables forwarding.
func New(url string) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsEnabled returns true if a webhook URL is configured.
func (c *Client) IsEnabled() bool {
	return c.url != ""
}

// Post sends a payload to the webhook. The payload map is sent as-is with the
// _type field set to eventType. A no-op when no webhook is configured.
func (c *Client) Post(ctx context.Context, eventType string, payload map[string]any) error {
	if !c.IsEnabled() {
		return nil
	}

	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["_type"] = eventType

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned HTTP %d: %s", resp.StatusCode, msg)
	}

	return nil
}
