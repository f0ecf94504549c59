package gw2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.guildwars2.com"

// Client is a Guild Wars 2 API client. Authenticated endpoints take the
// API key per call because guild logs use per-guild leader keys.
type Client struct {
	baseURL    string
	httpClient *http.Client

	itemMu    sync.Mutex
	itemCache map[int64]*Item
}

// NewClient creates a new GW2 API client
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		itemCache: make(map[int64]*Item),
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// APIError carries the status code so callers can distinguish auth failures
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d, body: %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether err is an invalid/expired API key response.
func IsAuthError(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// get performs a GET request and decodes the JSON response
func (c *Client) get(ctx context.Context, path, apiKey string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Build returns the current game build id. Used as an API liveness check
// before ingestion runs.
func (c *Client) Build(ctx context.Context) (int64, error) {
	var build struct {
		ID int64 `json:"id"`
	}
	if err := c.get(ctx, "/v2/build", "", &build); err != nil {
		return 0, err
	}
	return build.ID, nil
}
