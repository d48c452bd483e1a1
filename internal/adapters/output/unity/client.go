// Package unity sends wire actions and automation lists to the Unity server.
package unity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"eud4xr-bridge/internal/domain/model"
)

type Client struct {
	url        string
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(url, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        strings.TrimSuffix(url, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger,
	}
}

// SendUpdate posts one wire action; only a 200 counts as delivered.
func (c *Client) SendUpdate(ctx context.Context, w model.WireAction) error {
	if err := w.Validate(); err != nil {
		return err
	}
	return c.post(ctx, model.APINotifyUpdate, w.Map())
}

func (c *Client) NotifyAutomations(ctx context.Context, automations []map[string]any) error {
	if automations == nil {
		automations = []map[string]any{}
	}
	return c.post(ctx, model.APINotifyAutomations, automations)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: unity %s: %w", model.ErrTransport, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unity %s: status %d", model.ErrTransport, path, resp.StatusCode)
	}
	c.log.Debug("sent to unity", zap.String("path", path), zap.Int("bytes", len(body)))
	return nil
}
