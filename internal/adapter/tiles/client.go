package tiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client checks a Mapbox access token against the styles API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Mapbox styles client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/styles/v1/mapbox/light-v10",
		logger:  logger,
	}
}

// ValidateToken performs a best-effort check that the configured token
// is accepted by the style provider. Callers treat a failure as a
// signal to fall back to public tiles, never as fatal.
func (c *Client) ValidateToken(ctx context.Context) error {
	if c.token == "" {
		return errors.New("no token configured")
	}

	params := url.Values{"access_token": {c.token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("style request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		c.logger.Debug("map style token accepted")
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("token rejected: status %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}
}
