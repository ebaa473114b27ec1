// Package client implements the reminder agent: it pulls a user's upcoming
// items from the API and keeps local timers in step with them.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
)

// DefaultHTTPTimeout bounds one API call.
const DefaultHTTPTimeout = 15 * time.Second

// ErrUnauthorized is returned when the API rejects the agent's token.
var ErrUnauthorized = errors.New("client: token rejected by API")

// APIClient reads the reminder API on behalf of one user.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient creates a client for the API at baseURL authenticating with
// the given bearer token.
func NewAPIClient(baseURL, token string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Upcoming fetches the user's pending items due within the next day.
func (c *APIClient) Upcoming(ctx context.Context) (*domain.UpcomingItems, error) {
	var items domain.UpcomingItems
	if err := c.get(ctx, "/api/reminders/upcoming", &items); err != nil {
		return nil, err
	}
	return &items, nil
}

// Quota fetches the user's reminder quota for the current month.
func (c *APIClient) Quota(ctx context.Context) (*domain.QuotaStatus, error) {
	var status domain.QuotaStatus
	if err := c.get(ctx, "/api/reminders/quota", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *APIClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("GET %s: status %d: invalid response body: %w", path, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, env.Error)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("GET %s: decode data: %w", path, err)
	}
	return nil
}
