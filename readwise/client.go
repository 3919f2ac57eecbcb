package readwise

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/s0up4200/readwise-cli/api"
	"github.com/s0up4200/readwise-cli/validation"
)

// DefaultBaseURL is the primary Readwise API
const DefaultBaseURL = "https://readwise.io/api/v2"

// Client represents a Readwise API client
type Client struct {
	api       *api.Client
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewClient creates a new Readwise client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL, token string, logger zerolog.Logger, opts ...api.Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	apiClient, err := api.New(baseURL, token, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create readwise client: %w", err)
	}

	return &Client{
		api:       apiClient,
		validator: validation.New(),
		logger:    logger,
	}, nil
}

// BaseURL returns the API base URL the client talks to
func (c *Client) BaseURL() string {
	return c.api.BaseURL()
}

// ValidateToken checks the token against the auth endpoint, which answers
// 204 for a valid token.
func (c *Client) ValidateToken(ctx context.Context) error {
	resp, err := c.api.Get(ctx, "/auth/", nil)
	if err != nil {
		return fmt.Errorf("failed to validate token: %w", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Msg("Unexpected status from auth endpoint")
		return &api.HTTPError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodGet,
			URL:        c.BaseURL() + "/auth/",
			Body:       string(resp.Body),
		}
	}
	return nil
}
