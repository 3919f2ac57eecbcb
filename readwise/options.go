package readwise

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/s0up4200/readwise-cli/api"
)

// HighlightListOptions filters a highlight listing. Zero values are ignored.
type HighlightListOptions struct {
	BookIDs           []int64
	UpdatedAfter      time.Time
	UpdatedBefore     time.Time
	HighlightedAfter  time.Time
	HighlightedBefore time.Time
}

func (o HighlightListOptions) query() url.Values {
	q := url.Values{}
	if len(o.BookIDs) > 0 {
		q.Set("book_id", joinIDs(o.BookIDs))
	}
	setTime(q, "updated__gt", o.UpdatedAfter)
	setTime(q, "updated__lt", o.UpdatedBefore)
	setTime(q, "highlighted_at__gt", o.HighlightedAfter)
	setTime(q, "highlighted_at__lt", o.HighlightedBefore)
	return q
}

// BookListOptions filters a book listing. Zero values are ignored.
type BookListOptions struct {
	Category          BookCategory
	Source            string
	UpdatedAfter      time.Time
	UpdatedBefore     time.Time
	LastHighlightedAt time.Time
}

func (o BookListOptions) query() url.Values {
	q := url.Values{}
	if o.Category != "" {
		q.Set("category", string(o.Category))
	}
	if o.Source != "" {
		q.Set("source", o.Source)
	}
	setTime(q, "updated__gt", o.UpdatedAfter)
	setTime(q, "updated__lt", o.UpdatedBefore)
	setTime(q, "last_highlight_at__gt", o.LastHighlightedAt)
	return q
}

// ExportOptions filters an export. Zero values are ignored.
type ExportOptions struct {
	UpdatedAfter   time.Time
	BookIDs        []int64
	IncludeDeleted bool
}

func (o ExportOptions) query() url.Values {
	q := url.Values{}
	setTime(q, "updatedAfter", o.UpdatedAfter)
	if len(o.BookIDs) > 0 {
		q.Set("ids", joinIDs(o.BookIDs))
	}
	if o.IncludeDeleted {
		q.Set("includeDeleted", "true")
	}
	return q
}

// CreateHighlightParams describes a highlight to create. Category defaults
// to articles.
type CreateHighlightParams struct {
	Text          string       `json:"text" validate:"required,max=8191"`
	Title         string       `json:"title" validate:"required,max=511"`
	Author        string       `json:"author" validate:"max=1024"`
	Note          string       `json:"note" validate:"max=8191"`
	SourceURL     string       `json:"source_url" validate:"omitempty,url,max=2047"`
	Category      BookCategory `json:"category" validate:"omitempty,oneof=books articles tweets supplementals podcasts"`
	HighlightedAt *time.Time   `json:"highlighted_at"`
}

// highlightPayload is one entry of the create-highlight request body
type highlightPayload struct {
	Text          string       `json:"text"`
	Title         string       `json:"title"`
	Category      BookCategory `json:"category"`
	Author        string       `json:"author,omitempty"`
	Note          string       `json:"note,omitempty"`
	HighlightedAt string       `json:"highlighted_at,omitempty"`
	SourceURL     string       `json:"source_url,omitempty"`
}

type createHighlightsRequest struct {
	Highlights []highlightPayload `json:"highlights"`
}

func (p CreateHighlightParams) payload() highlightPayload {
	out := highlightPayload{
		Text:      p.Text,
		Title:     p.Title,
		Category:  p.Category,
		Author:    p.Author,
		Note:      p.Note,
		SourceURL: p.SourceURL,
	}
	if out.Category == "" {
		out.Category = CategoryArticles
	}
	if p.HighlightedAt != nil && !p.HighlightedAt.IsZero() {
		out.HighlightedAt = api.FormatTimestamp(*p.HighlightedAt)
	}
	return out
}

type addTagRequest struct {
	Name string `json:"name" validate:"required,max=127"`
}

func setTime(q url.Values, key string, t time.Time) {
	if !t.IsZero() {
		q.Set(key, api.FormatTimestamp(t))
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
