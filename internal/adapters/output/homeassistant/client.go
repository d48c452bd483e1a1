// Package homeassistant talks to the Home Assistant REST API: it fires
// eud4xr events on the event bus and reloads the automation engine.
package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"eud4xr-bridge/internal/domain/model"
)

type Client struct {
	url        string
	token      string
	httpClient *http.Client
	mu         sync.RWMutex
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configure(url, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = strings.TrimSuffix(url, "/")
	c.token = token
}

func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url != "" && c.token != ""
}

// FireEvent posts data on the host event bus under eventType.
func (c *Client) FireEvent(ctx context.Context, eventType string, data map[string]any) error {
	return c.post(ctx, "/api/events/"+eventType, data)
}

// ReloadAutomations asks the automation engine to re-read its rule file.
func (c *Client) ReloadAutomations(ctx context.Context) error {
	return c.post(ctx, "/api/services/automation/reload", map[string]any{})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	c.mu.RLock()
	urlBase := c.url
	token := c.token
	c.mu.RUnlock()

	if urlBase == "" || token == "" {
		return fmt.Errorf("%w: Home Assistant not configured", model.ErrTransport)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HA API error: %d", model.ErrTransport, resp.StatusCode)
	}
	return nil
}
