// Package anthropic provides the HTTP client for the Anthropic OAuth usage API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/denysvitali/plan-usage/internal/version"
)

const (
	// DefaultBaseURL is the production API host
	DefaultBaseURL = "https://api.anthropic.com"
	usageEndpoint  = "/api/oauth/usage"
	betaHeader     = "oauth-2025-04-20"
	requestTimeout = 30 * time.Second
)

// ErrUnauthorized is returned when the API rejects the access token
var ErrUnauthorized = errors.New("token rejected by the usage API - run 'claude' to re-authenticate")

// Client is an HTTP client for the Anthropic OAuth API
type Client struct {
	http *resty.Client
}

// NewClient creates a new API client against baseURL (DefaultBaseURL when empty)
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "plan-usage/"+version.Version).
		SetHeader("anthropic-beta", betaHeader)

	return &Client{http: httpClient}
}

// GetUsage fetches the current usage from the OAuth usage endpoint
func (c *Client) GetUsage(ctx context.Context, accessToken string) (*UsageResponse, error) {
	var usage UsageResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&usage).
		Get(usageEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &usage, nil
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}
}
