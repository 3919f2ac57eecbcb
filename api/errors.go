package api

import (
	"errors"
	"fmt"
	"time"
)

// Common errors
var (
	// ErrMissingToken indicates the client was built without an API token
	ErrMissingToken = errors.New("readwise API token is required")
	// ErrMissingBaseURL indicates the client was built without a base URL
	ErrMissingBaseURL = errors.New("readwise base URL is required")
	// ErrUnauthorized indicates the server rejected the token
	ErrUnauthorized = errors.New("unauthorized: invalid API token")
)

// HTTPError is returned for any non-2xx response other than 401, 403 and 429
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Body       string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("readwise API error: %s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("readwise API error: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404
}

// AuthError is returned when the server answers 401 or 403
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("readwise API authentication failed: status %d", e.StatusCode)
}

// Unwrap allows errors.Is(err, ErrUnauthorized)
func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}

// RateLimitError is returned once the configured 429 retry budget is spent.
// It is never returned by a client built without WithMaxRetries.
type RateLimitError struct {
	Attempts   int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("readwise API rate limit still exceeded after %d attempts (last retry-after %s)", e.Attempts, e.RetryAfter)
}

// TransientNetworkError marks a response whose body ended before it was
// fully received.
type TransientNetworkError struct {
	URL string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("interrupted response from %s: %v", e.URL, e.Err)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response that does not match the expected shape
type DecodeError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Field != "" && e.Endpoint != "":
		return fmt.Sprintf("decode %s: field %q: %v", e.Endpoint, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("decode field %q: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("decode %s: %v", e.Endpoint, e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
