package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strconv"
)

// Strategy selects how an endpoint is paged
type Strategy int

const (
	// PageNumber pages with page and page_size query parameters
	PageNumber Strategy = iota
	// Cursor pages with the opaque pageCursor returned by the server
	Cursor
)

// String returns the string representation of a Strategy
func (s Strategy) String() string {
	switch s {
	case PageNumber:
		return "page_number"
	case Cursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// Page is one decoded page payload
type Page struct {
	// Body is the raw page body
	Body json.RawMessage
	// Results holds the item list of an object body
	Results json.RawMessage
	// Next is the URL of the following page (page-number endpoints)
	Next string
	// NextPageCursor locates the following page (cursor endpoints)
	NextPageCursor string
	// Count is the total number of items, when reported
	Count *int
	// IsList is set for bare-list bodies without pagination metadata
	IsList bool
}

// Items returns the raw items carried by the page
func (p *Page) Items() ([]json.RawMessage, error) {
	source := p.Results
	if p.IsList {
		source = p.Body
	} else if source == nil {
		return nil, &DecodeError{Field: "results", Err: errors.New("missing results")}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(source, &items); err != nil {
		return nil, &DecodeError{Field: "results", Err: err}
	}
	return items, nil
}

// HasNext reports whether the page points at a following page for strategy
func (p *Page) HasNext(strategy Strategy, cursor string) bool {
	if p.IsList {
		return false
	}
	switch strategy {
	case Cursor:
		return p.NextPageCursor != "" && p.NextPageCursor != cursor
	default:
		return p.Next != ""
	}
}

type pageEnvelope struct {
	Count          *int            `json:"count"`
	Next           *string         `json:"next"`
	NextPageCursor json.RawMessage `json:"nextPageCursor"`
	Results        json.RawMessage `json:"results"`
}

// ParsePage decodes a page body
func ParsePage(endpoint string, body []byte) (*Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Endpoint: endpoint, Err: errors.New("empty page body")}
	}

	switch trimmed[0] {
	case '[':
		return &Page{Body: trimmed, IsList: true}, nil
	case '{':
	default:
		return nil, &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("unexpected page body starting with %q", trimmed[0])}
	}

	var env pageEnvelope
	if err := Decode(endpoint, trimmed, &env); err != nil {
		return nil, err
	}

	cursor, err := cursorValue(env.NextPageCursor)
	if err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Field: "nextPageCursor", Err: err}
	}

	page := &Page{
		Body:           trimmed,
		Results:        env.Results,
		NextPageCursor: cursor,
		Count:          env.Count,
	}
	if env.Next != nil {
		page.Next = *env.Next
	}
	if bytes.Equal(bytes.TrimSpace(page.Results), []byte("null")) {
		page.Results = json.RawMessage("[]")
	}

	return page, nil
}

// cursorValue accepts a cursor sent as a JSON string or number
func cursorValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("cursor must be a string or number: %w", err)
	}
	return n.String(), nil
}

// Pages returns a lazy sequence over the pages of path. Each call starts a
// fresh traversal; query is copied and never modified.
func (c *Client) Pages(ctx context.Context, strategy Strategy, path string, query url.Values) iter.Seq2[*Page, error] {
	switch strategy {
	case PageNumber:
		return c.numberedPages(ctx, path, query)
	case Cursor:
		return c.cursorPages(ctx, path, query)
	default:
		return func(yield func(*Page, error) bool) {
			yield(nil, fmt.Errorf("unknown pagination strategy %d", int(strategy)))
		}
	}
}

func (c *Client) numberedPages(ctx context.Context, path string, query url.Values) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		params := cloneQuery(query)
		for number := 1; ; number++ {
			params.Set("page", strconv.Itoa(number))
			params.Set("page_size", strconv.Itoa(c.pageSize))

			resp, err := c.Get(ctx, path, params)
			if err != nil {
				yield(nil, err)
				return
			}

			page, err := ParsePage(path, resp.Body)
			if err != nil {
				yield(nil, err)
				return
			}

			c.logger.Debug().
				Str("endpoint", path).
				Int("page", number).
				Bool("has_next", page.HasNext(PageNumber, "")).
				Msg("Retrieved page")

			if !yield(page, nil) {
				return
			}
			if !page.HasNext(PageNumber, "") {
				return
			}
		}
	}
}

func (c *Client) cursorPages(ctx context.Context, path string, query url.Values) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		params := cloneQuery(query)
		cursor := ""
		failures := 0

		for {
			if cursor != "" {
				params.Set("pageCursor", cursor)
			}

			c.logger.Debug().Str("endpoint", path).Str("cursor", cursor).Msg("Getting page with cursor")

			resp, err := c.Get(ctx, path, params)
			if err != nil {
				var transient *TransientNetworkError
				if !errors.As(err, &transient) {
					yield(nil, err)
					return
				}

				failures++
				if c.maxTransientRetries > 0 && failures > c.maxTransientRetries {
					yield(nil, err)
					return
				}

				c.logger.Error().
					Err(err).
					Str("endpoint", path).
					Str("cursor", cursor).
					Dur("delay", c.transientDelay).
					Msg("Error getting page, retrying")

				if err := c.sleep(ctx, c.transientDelay); err != nil {
					yield(nil, err)
					return
				}
				continue
			}
			failures = 0

			page, err := ParsePage(path, resp.Body)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(page, nil) {
				return
			}
			if !page.HasNext(Cursor, cursor) {
				return
			}
			cursor = page.NextPageCursor
		}
	}
}

// cloneQuery returns a copy of query that is safe to modify
func cloneQuery(query url.Values) url.Values {
	params := make(url.Values, len(query)+2)
	for key, values := range query {
		params[key] = append([]string(nil), values...)
	}
	return params
}
