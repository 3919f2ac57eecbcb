package reader

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/readwise-cli/api"
	"github.com/s0up4200/readwise-cli/validation"
)

// DefaultBaseURL is the Reader API
const DefaultBaseURL = "https://readwise.io/api/v3"

const (
	listEndpoint = "/list/"
	saveEndpoint = "/save/"
)

// API is the set of Reader operations the CLI depends on
type API interface {
	Documents(ctx context.Context, opts ListOptions) iter.Seq2[Document, error]
	CreateDocument(ctx context.Context, params CreateDocumentParams) (*SavedDocument, error)
	ValidateToken(ctx context.Context) error
}

var _ API = (*Client)(nil)

// Client represents a Readwise Reader API client
type Client struct {
	api       *api.Client
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewClient creates a new Reader client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL, token string, logger zerolog.Logger, opts ...api.Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	apiClient, err := api.New(baseURL, token, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader client: %w", err)
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

// ListOptions filters a document listing. Zero values are ignored.
type ListOptions struct {
	ID           string
	UpdatedAfter time.Time
	Location     DocumentLocation
	Category     DocumentCategory
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.ID != "" {
		q.Set("id", o.ID)
	}
	if !o.UpdatedAfter.IsZero() {
		q.Set("updatedAfter", api.FormatTimestamp(o.UpdatedAfter))
	}
	if o.Location != "" {
		q.Set("location", string(o.Location))
	}
	if o.Category != "" {
		q.Set("category", string(o.Category))
	}
	return q
}

// Documents lists Reader documents using cursor pagination
func (c *Client) Documents(ctx context.Context, opts ListOptions) iter.Seq2[Document, error] {
	pages := c.api.Pages(ctx, api.Cursor, listEndpoint, opts.query())
	return api.Items(listEndpoint, pages, decodeDocument)
}

// CreateDocumentParams describes a document to save. Location defaults to
// new.
type CreateDocumentParams struct {
	URL             string           `json:"url" validate:"required,url"`
	HTML            string           `json:"html"`
	ShouldCleanHTML *bool            `json:"should_clean_html"`
	Title           string           `json:"title"`
	Author          string           `json:"author"`
	Summary         string           `json:"summary"`
	PublishedDate   *time.Time       `json:"published_date"`
	ImageURL        string           `json:"image_url" validate:"omitempty,url"`
	Location        DocumentLocation `json:"location" validate:"omitempty,oneof=new later archive feed"`
	Category        DocumentCategory `json:"category" validate:"omitempty,oneof=article email rss highlight note pdf epub tweet video"`
	SavedUsing      string           `json:"saved_using"`
	Tags            []string         `json:"tags" validate:"dive,required"`
	Notes           string           `json:"notes"`
}

type saveRequest struct {
	URL             string           `json:"url"`
	Location        DocumentLocation `json:"location"`
	HTML            string           `json:"html,omitempty"`
	ShouldCleanHTML *bool            `json:"should_clean_html,omitempty"`
	Title           string           `json:"title,omitempty"`
	Author          string           `json:"author,omitempty"`
	Summary         string           `json:"summary,omitempty"`
	PublishedDate   string           `json:"published_date,omitempty"`
	ImageURL        string           `json:"image_url,omitempty"`
	Category        DocumentCategory `json:"category,omitempty"`
	SavedUsing      string           `json:"saved_using,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

func (p CreateDocumentParams) request() saveRequest {
	req := saveRequest{
		URL:             p.URL,
		Location:        p.Location,
		HTML:            p.HTML,
		ShouldCleanHTML: p.ShouldCleanHTML,
		Title:           p.Title,
		Author:          p.Author,
		Summary:         p.Summary,
		ImageURL:        p.ImageURL,
		Category:        p.Category,
		SavedUsing:      p.SavedUsing,
		Tags:            p.Tags,
		Notes:           p.Notes,
	}
	if req.Location == "" {
		req.Location = LocationNew
	}
	if p.PublishedDate != nil && !p.PublishedDate.IsZero() {
		req.PublishedDate = api.FormatTimestamp(*p.PublishedDate)
	}
	return req
}

// CreateDocument saves a URL to Reader
func (c *Client) CreateDocument(ctx context.Context, params CreateDocumentParams) (*SavedDocument, error) {
	if err := c.validator.Validate(params); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("url", params.URL).
		Msg("Saving document to Reader")

	resp, err := c.api.Post(ctx, saveEndpoint, params.request())
	if err != nil {
		return nil, fmt.Errorf("failed to save document %s: %w", params.URL, err)
	}

	var saved SavedDocument
	if err := resp.Decode(saveEndpoint, &saved); err != nil {
		return nil, err
	}
	saved.Existing = resp.StatusCode == http.StatusOK
	return &saved, nil
}

// ValidateToken requests a single document to check the token
func (c *Client) ValidateToken(ctx context.Context) error {
	if _, err := c.api.Get(ctx, listEndpoint, url.Values{"limit": {"1"}}); err != nil {
		return fmt.Errorf("failed to validate reader token: %w", err)
	}
	return nil
}
