package api

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the HTTP client timeout. A client passed to
// WithHTTPClient is copied, not modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			hc := *c.httpClient
			hc.Timeout = timeout
			c.httpClient = &hc
		}
	}
}

// WithPageSize sets the page_size sent by page-number pagination.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithRateLimit throttles outgoing requests to perMinute requests per minute.
// A non-positive value leaves the client unthrottled.
func WithRateLimit(perMinute int, burst int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
	}
}

// WithMaxRetries caps how many 429 responses a single request absorbs.
// Zero means retry for as long as the server keeps answering 429.
func WithMaxRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.maxRetries = retries
		}
	}
}

// WithTransientRetryDelay sets the wait before a cursor page is re-requested
// after an interrupted response.
func WithTransientRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay >= 0 {
			c.transientDelay = delay
		}
	}
}

// WithMaxTransientRetries bounds consecutive interrupted responses for one
// cursor page. Zero means no bound.
func WithMaxTransientRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.maxTransientRetries = retries
		}
	}
}

// WithDefaultRetryAfter sets the wait used when a 429 carries no usable
// Retry-After header.
func WithDefaultRetryAfter(wait time.Duration) Option {
	return func(c *Client) {
		if wait > 0 {
			c.defaultRetryAfter = wait
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}
