// Package quote fetches an inspirational quote from the API Ninjas
// quote service.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Quote is the content/author pair surfaced to the poster UI.
type Quote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Client holds the API Ninjas credentials.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client against the public API Ninjas endpoint.
func New(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    "https://api.api-ninjas.com",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Inspirational returns one inspirational quote.
func (c *Client) Inspirational(ctx context.Context) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/v1/quotes?category=inspirational", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote status %d", resp.StatusCode)
	}

	var payload []struct {
		Quote  string `json:"quote"`
		Author string `json:"author"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	if len(payload) == 0 {
		return nil, errors.New("no quote received")
	}
	return &Quote{Content: payload[0].Quote, Author: payload[0].Author}, nil
}
