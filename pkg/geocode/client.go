package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://maps.googleapis.com/maps/api"
	requestBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("geocoding api key is required")

// Client wraps the Google Geocoding API used to turn delivery coordinates
// into a human-readable address for the order snapshot.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured geocoding base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the geocoding client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Reverser is the surface order placement needs. A nil implementation is
// valid; coordinates then pass through without a formatted address.
type Reverser interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// ReverseGeocode resolves the formatted address nearest to the coordinates.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "geocoding client not configured")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}

	endpoint := fmt.Sprintf("%s/geocode/json", strings.TrimRight(c.baseURL, "/"))
	query := url.Values{}
	query.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	query.Set("key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build reverse geocode request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute reverse geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "reverse geocode request failed")
	}

	var apiResp struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode reverse geocode response")
	}

	if apiResp.Status == "ZERO_RESULTS" || len(apiResp.Results) == 0 {
		return "", nil
	}
	if apiResp.Status != "OK" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("reverse geocode status %s", apiResp.Status))
	}

	return apiResp.Results[0].FormattedAddress, nil
}
