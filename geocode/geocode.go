// Package geocode proxies the Google Maps Places and Geocoding APIs:
// free-text autocomplete suggestions and place-id resolution to a
// formatted address with coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when a place id resolves to no results.
var ErrNotFound = errors.New("location not found")

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
}

// Component is one address component of a resolved location.
type Component struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Location is a fully resolved place.
type Location struct {
	Formatted  string      `json:"formatted"`
	Lat        float64     `json:"lat"`
	Lng        float64     `json:"lng"`
	Components []Component `json:"components"`
}

// Client calls the Maps web services with one API key.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client against the public Google Maps endpoints.
func New(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    "https://maps.googleapis.com",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Autocomplete returns place suggestions for a free-text input, in the
// order the upstream service ranks them.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	q := url.Values{"input": {input}, "key": {c.APIKey}}
	var payload struct {
		Status      string `json:"status"`
		Predictions []struct {
			PlaceID     string `json:"place_id"`
			Description string `json:"description"`
		} `json:"predictions"`
	}
	if err := c.get(ctx, "/maps/api/place/autocomplete/json", q, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("autocomplete status %s", payload.Status)
	}

	suggestions := make([]Suggestion, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		suggestions = append(suggestions, Suggestion{PlaceID: p.PlaceID, Description: p.Description})
	}
	return suggestions, nil
}

// Resolve geocodes a place id to a formatted address and coordinates.
func (c *Client) Resolve(ctx context.Context, placeID string) (*Location, error) {
	q := url.Values{"place_id": {placeID}, "key": {c.APIKey}}
	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
			AddressComponents []Component `json:"address_components"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/maps/api/geocode/json", q, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, ErrNotFound
	}

	first := payload.Results[0]
	return &Location{
		Formatted:  first.FormattedAddress,
		Lat:        first.Geometry.Location.Lat,
		Lng:        first.Geometry.Location.Lng,
		Components: first.AddressComponents,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("maps request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
