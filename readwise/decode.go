package readwise

import (
	"encoding/json"
	"errors"

	"github.com/s0up4200/readwise-cli/api"
)

// The raw* types shadow the domain timestamp fields with strings so that
// null, empty and missing values all decode to nil instead of failing.

type rawBook struct {
	Book
	LastHighlightAt *string `json:"last_highlight_at"`
	Updated         *string `json:"updated"`
}

type rawHighlight struct {
	Highlight
	HighlightedAt *string `json:"highlighted_at"`
	Updated       *string `json:"updated"`
}

type rawExportHighlight struct {
	ExportHighlight
	HighlightedAt *string `json:"highlighted_at"`
	CreatedAt     *string `json:"created_at"`
	UpdatedAt     *string `json:"updated_at"`
}

type rawExportResult struct {
	ExportResult
	Highlights []rawExportHighlight `json:"highlights"`
}

type rawDailyReviewHighlight struct {
	DailyReviewHighlight
	HighlightedAt *string `json:"highlighted_at"`
}

type rawDailyReview struct {
	DailyReview
	Highlights []rawDailyReviewHighlight `json:"highlights"`
}

func decodeBook(data json.RawMessage) (Book, error) {
	var raw rawBook
	if err := json.Unmarshal(data, &raw); err != nil {
		return Book{}, err
	}
	return raw.toBook()
}

func (r rawBook) toBook() (Book, error) {
	book := r.Book
	var err error
	if book.LastHighlightAt, err = api.ParseTimestamp("last_highlight_at", r.LastHighlightAt); err != nil {
		return Book{}, err
	}
	if book.Updated, err = api.ParseTimestamp("updated", r.Updated); err != nil {
		return Book{}, err
	}
	book.Tags = nonNilTags(book.Tags)
	return book, nil
}

func decodeHighlight(data json.RawMessage) (Highlight, error) {
	var raw rawHighlight
	if err := json.Unmarshal(data, &raw); err != nil {
		return Highlight{}, err
	}
	return raw.toHighlight()
}

func (r rawHighlight) toHighlight() (Highlight, error) {
	h := r.Highlight
	var err error
	if h.HighlightedAt, err = api.ParseTimestamp("highlighted_at", r.HighlightedAt); err != nil {
		return Highlight{}, err
	}
	if h.Updated, err = api.ParseTimestamp("updated", r.Updated); err != nil {
		return Highlight{}, err
	}
	h.Tags = nonNilTags(h.Tags)
	return h, nil
}

func decodeExportResult(data json.RawMessage) (ExportResult, error) {
	var raw rawExportResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return ExportResult{}, err
	}

	result := raw.ExportResult
	result.BookTags = nonNilTags(result.BookTags)
	result.Highlights = make([]ExportHighlight, 0, len(raw.Highlights))
	for _, rh := range raw.Highlights {
		h, err := rh.toExportHighlight()
		if err != nil {
			return ExportResult{}, prefixField("highlights", err)
		}
		result.Highlights = append(result.Highlights, h)
	}
	return result, nil
}

func (r rawExportHighlight) toExportHighlight() (ExportHighlight, error) {
	h := r.ExportHighlight
	var err error
	if h.HighlightedAt, err = api.ParseTimestamp("highlighted_at", r.HighlightedAt); err != nil {
		return ExportHighlight{}, err
	}
	if h.CreatedAt, err = api.ParseTimestamp("created_at", r.CreatedAt); err != nil {
		return ExportHighlight{}, err
	}
	if h.UpdatedAt, err = api.ParseTimestamp("updated_at", r.UpdatedAt); err != nil {
		return ExportHighlight{}, err
	}
	h.Tags = nonNilTags(h.Tags)
	return h, nil
}

func decodeDailyReview(data []byte) (*DailyReview, error) {
	var raw rawDailyReview
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	review := raw.DailyReview
	review.Highlights = make([]DailyReviewHighlight, 0, len(raw.Highlights))
	for _, rh := range raw.Highlights {
		h := rh.DailyReviewHighlight
		var err error
		if h.HighlightedAt, err = api.ParseTimestamp("highlighted_at", rh.HighlightedAt); err != nil {
			return nil, prefixField("highlights", err)
		}
		review.Highlights = append(review.Highlights, h)
	}
	return &review, nil
}

func decodeTag(data json.RawMessage) (Tag, error) {
	var tag Tag
	if err := json.Unmarshal(data, &tag); err != nil {
		return Tag{}, err
	}
	return tag, nil
}

func nonNilTags(tags []Tag) []Tag {
	if tags == nil {
		return []Tag{}
	}
	return tags
}

// prefixField qualifies the field of a nested *api.DecodeError
func prefixField(parent string, err error) error {
	var de *api.DecodeError
	if errors.As(err, &de) && de.Field != "" {
		de.Field = parent + "." + de.Field
	}
	return err
}
