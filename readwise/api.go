package readwise

import (
	"context"
	"fmt"
	"iter"
	"strconv"

	"github.com/s0up4200/readwise-cli/api"
)

const (
	highlightsEndpoint = "/highlights/"
	booksEndpoint      = "/books/"
	exportEndpoint     = "/export/"
	reviewEndpoint     = "/review/"
)

// API is the set of primary Readwise operations the CLI depends on
type API interface {
	Highlights(ctx context.Context, opts HighlightListOptions) iter.Seq2[Highlight, error]
	Highlight(ctx context.Context, id int64) (*Highlight, error)
	BookHighlights(ctx context.Context, bookID int64) iter.Seq2[Highlight, error]
	Books(ctx context.Context, opts BookListOptions) iter.Seq2[Book, error]
	Book(ctx context.Context, id int64) (*Book, error)
	BookTags(ctx context.Context, bookID int64) iter.Seq2[Tag, error]
	Export(ctx context.Context, opts ExportOptions) iter.Seq2[ExportResult, error]
	DailyReview(ctx context.Context) (*DailyReview, error)
	DailyReviewHighlights(ctx context.Context) iter.Seq2[DailyReviewHighlight, error]
	CreateHighlight(ctx context.Context, params CreateHighlightParams) ([]CreatedBook, error)
	AddTag(ctx context.Context, bookID int64, name string) (*Tag, error)
	DeleteTag(ctx context.Context, bookID, tagID int64) error
	ValidateToken(ctx context.Context) error
}

var _ API = (*Client)(nil)

// Highlights lists highlights across all books, page by page
func (c *Client) Highlights(ctx context.Context, opts HighlightListOptions) iter.Seq2[Highlight, error] {
	pages := c.api.Pages(ctx, api.PageNumber, highlightsEndpoint, opts.query())
	return api.Items(highlightsEndpoint, pages, decodeHighlight)
}

// Highlight fetches a single highlight by ID
func (c *Client) Highlight(ctx context.Context, id int64) (*Highlight, error) {
	endpoint := fmt.Sprintf("%s%d/", highlightsEndpoint, id)

	resp, err := c.api.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get highlight %d: %w", id, err)
	}

	var raw rawHighlight
	if err := resp.Decode(endpoint, &raw); err != nil {
		return nil, err
	}
	h, err := raw.toHighlight()
	if err != nil {
		return nil, withEndpoint(endpoint, err)
	}
	return &h, nil
}

// BookHighlights lists the highlights of one book
func (c *Client) BookHighlights(ctx context.Context, bookID int64) iter.Seq2[Highlight, error] {
	return c.Highlights(ctx, HighlightListOptions{BookIDs: []int64{bookID}})
}

// Books lists books, page by page
func (c *Client) Books(ctx context.Context, opts BookListOptions) iter.Seq2[Book, error] {
	pages := c.api.Pages(ctx, api.PageNumber, booksEndpoint, opts.query())
	return api.Items(booksEndpoint, pages, decodeBook)
}

// Book fetches a single book by ID
func (c *Client) Book(ctx context.Context, id int64) (*Book, error) {
	endpoint := fmt.Sprintf("%s%d/", booksEndpoint, id)

	resp, err := c.api.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get book %d: %w", id, err)
	}

	var raw rawBook
	if err := resp.Decode(endpoint, &raw); err != nil {
		return nil, err
	}
	book, err := raw.toBook()
	if err != nil {
		return nil, withEndpoint(endpoint, err)
	}
	return &book, nil
}

// BookTags lists the tags of one book. The endpoint answers with a bare
// list, so the traversal is a single request.
func (c *Client) BookTags(ctx context.Context, bookID int64) iter.Seq2[Tag, error] {
	endpoint := bookTagsEndpoint(bookID)
	pages := c.api.Pages(ctx, api.PageNumber, endpoint, nil)
	return api.Items(endpoint, pages, decodeTag)
}

// Export streams every book together with its highlights using cursor
// pagination
func (c *Client) Export(ctx context.Context, opts ExportOptions) iter.Seq2[ExportResult, error] {
	pages := c.api.Pages(ctx, api.Cursor, exportEndpoint, opts.query())
	return api.Items(exportEndpoint, pages, decodeExportResult)
}

// DailyReview fetches the current daily review
func (c *Client) DailyReview(ctx context.Context) (*DailyReview, error) {
	resp, err := c.api.Get(ctx, reviewEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily review: %w", err)
	}

	review, err := decodeDailyReview(resp.Body)
	if err != nil {
		return nil, withEndpoint(reviewEndpoint, err)
	}
	return review, nil
}

// DailyReviewHighlights yields the highlights of the current daily review
func (c *Client) DailyReviewHighlights(ctx context.Context) iter.Seq2[DailyReviewHighlight, error] {
	return func(yield func(DailyReviewHighlight, error) bool) {
		review, err := c.DailyReview(ctx)
		if err != nil {
			yield(DailyReviewHighlight{}, err)
			return
		}
		for _, h := range review.Highlights {
			if !yield(h, nil) {
				return
			}
		}
	}
}

// CreateHighlight creates one highlight and returns the books it touched
func (c *Client) CreateHighlight(ctx context.Context, params CreateHighlightParams) ([]CreatedBook, error) {
	if err := c.validator.Validate(params); err != nil {
		return nil, err
	}

	body := createHighlightsRequest{Highlights: []highlightPayload{params.payload()}}

	c.logger.Debug().
		Str("title", params.Title).
		Msg("Creating highlight")

	resp, err := c.api.Post(ctx, highlightsEndpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create highlight: %w", err)
	}

	var books []CreatedBook
	if len(resp.Body) == 0 {
		return books, nil
	}
	if err := resp.Decode(highlightsEndpoint, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddTag adds a tag to a book
func (c *Client) AddTag(ctx context.Context, bookID int64, name string) (*Tag, error) {
	body := addTagRequest{Name: name}
	if err := c.validator.Validate(body); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int64("book_id", bookID).
		Str("tag", name).
		Msg("Adding tag to book")

	endpoint := bookTagsEndpoint(bookID)
	resp, err := c.api.Post(ctx, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to add tag %q to book %d: %w", name, bookID, err)
	}

	tag, err := decodeTag(resp.Body)
	if err != nil {
		return nil, withEndpoint(endpoint, err)
	}
	return &tag, nil
}

// DeleteTag removes a tag from a book
func (c *Client) DeleteTag(ctx context.Context, bookID, tagID int64) error {
	c.logger.Debug().
		Int64("book_id", bookID).
		Int64("tag_id", tagID).
		Msg("Deleting tag from book")

	endpoint := bookTagsEndpoint(bookID) + strconv.FormatInt(tagID, 10) + "/"
	if _, err := c.api.Delete(ctx, endpoint); err != nil {
		return fmt.Errorf("failed to delete tag %d from book %d: %w", tagID, bookID, err)
	}
	return nil
}

func bookTagsEndpoint(bookID int64) string {
	return booksEndpoint + strconv.FormatInt(bookID, 10) + "/tags/"
}

// withEndpoint turns a conversion failure into a *api.DecodeError
func withEndpoint(endpoint string, err error) error {
	return api.NewDecodeError(endpoint, err)
}
