// Package mailchimp is a minimal client for the Mailchimp marketing API,
// covering the single call this service needs: adding a subscriber to
// an audience list.
package mailchimp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMemberExists marks the distinguished "already subscribed" case.
// It is a soft rejection, not a retry-worthy failure.
var ErrMemberExists = errors.New("email is already subscribed")

// Member is the subscriber record returned on success.
type Member struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

// apiError is Mailchimp's structured problem document.
type apiError struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// Client talks to one Mailchimp audience.
type Client struct {
	APIKey     string
	AudienceID string
	BaseURL    string
	HTTPClient *http.Client
}

// New builds a client for the given credentials. serverPrefix is the
// datacenter fragment of the API key, e.g. "us1".
func New(apiKey, serverPrefix, audienceID string) *Client {
	return &Client{
		APIKey:     apiKey,
		AudienceID: audienceID,
		BaseURL:    fmt.Sprintf("https://%s.api.mailchimp.com/3.0", serverPrefix),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Subscribe adds the email to the audience with status "subscribed".
// A duplicate member is reported as ErrMemberExists; every other
// upstream failure carries the upstream detail for diagnostics.
func (c *Client) Subscribe(ctx context.Context, email string) (*Member, error) {
	payload, err := json.Marshal(map[string]string{
		"email_address": email,
		"status":        "subscribed",
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/lists/%s/members", c.BaseURL, c.AudienceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("anystring", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailchimp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var member Member
		if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
			return nil, fmt.Errorf("decode mailchimp response: %w", err)
		}
		return &member, nil
	}

	var problem apiError
	if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil {
		return nil, fmt.Errorf("mailchimp status %d", resp.StatusCode)
	}
	if problem.Title == "Member Exists" {
		return nil, ErrMemberExists
	}
	return nil, fmt.Errorf("mailchimp: %s (%s)", problem.Title, problem.Detail)
}
