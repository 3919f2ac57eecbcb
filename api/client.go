package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout           = 30 * time.Second
	defaultPageSize          = 1000
	defaultTransientDelay    = 5 * time.Second
	defaultRetryAfterSeconds = 1
	defaultUserAgent         = "readwise-cli"
)

// Client is a rate-limit-aware HTTP client for one Readwise API base URL
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger

	pageSize            int
	maxRetries          int
	transientDelay      time.Duration
	maxTransientRetries int
	defaultRetryAfter   time.Duration
	userAgent           string

	sleep func(ctx context.Context, d time.Duration) error
}

// Response is a successful API response with its body fully read
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v. Shape mismatches are
// reported as *DecodeError tagged with endpoint.
func (r *Response) Decode(endpoint string, v any) error {
	return Decode(endpoint, r.Body, v)
}

// New creates a new API client
func New(baseURL, token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		token:             token,
		httpClient:        &http.Client{Timeout: defaultTimeout},
		logger:            logger,
		pageSize:          defaultPageSize,
		transientDelay:    defaultTransientDelay,
		defaultRetryAfter: defaultRetryAfterSeconds * time.Second,
		userAgent:         defaultUserAgent,
		sleep:             sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the base URL requests are made against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request and resends it, unchanged, for as long as the server
// answers 429. Any other non-2xx status is returned as an error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	attempts := 0
	for {
		attempts++
		resp, err := c.send(ctx, method, requestURL, payload)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return c.checkStatus(method, requestURL, resp)
		}

		wait := c.retryAfter(resp.Header)
		if c.maxRetries > 0 && attempts > c.maxRetries {
			return nil, &RateLimitError{Attempts: attempts, RetryAfter: wait}
		}

		c.logger.Warn().
			Str("method", method).
			Str("url", requestURL).
			Int("attempt", attempts).
			Dur("retry_after", wait).
			Msgf("Rate limited by Readwise, retrying in %d seconds", int(wait.Seconds()))

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// send performs a single HTTP round trip and reads the whole body
func (c *Client) send(ctx context.Context, method, requestURL string, payload []byte) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making Readwise API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &TransientNetworkError{URL: requestURL, Err: err}
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &TransientNetworkError{URL: requestURL, Err: err}
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// checkStatus maps an error status to the matching error type
func (c *Client) checkStatus(method, requestURL string, resp *Response) (*Response, error) {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	default:
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        requestURL,
			Body:       string(resp.Body),
		}
	}
}

// retryAfter reads the wait requested by a 429 response
func (c *Client) retryAfter(header http.Header) time.Duration {
	wait, ok := ParseRetryAfter(header.Get("Retry-After"), time.Now())
	if !ok {
		c.logger.Debug().
			Str("retry_after", header.Get("Retry-After")).
			Dur("default", c.defaultRetryAfter).
			Msg("Missing or invalid Retry-After header, using default wait")
		return c.defaultRetryAfter
	}
	return wait
}

// ParseRetryAfter parses a Retry-After value given either as whole seconds or
// as an HTTP date relative to now.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, true
		}
		return time.Duration(seconds) * time.Second, true
	}

	if at, err := http.ParseTime(value); err == nil {
		wait := at.Sub(now)
		if wait < 0 {
			wait = 0
		}
		return wait.Round(time.Second), true
	}

	return 0, false
}

// sleepContext blocks for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
