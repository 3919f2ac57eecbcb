package readwise

import (
	"time"
)

// BookCategory is the category a Readwise book belongs to
type BookCategory string

const (
	// CategoryBooks represents books
	CategoryBooks BookCategory = "books"
	// CategoryArticles represents articles
	CategoryArticles BookCategory = "articles"
	// CategoryTweets represents tweets
	CategoryTweets BookCategory = "tweets"
	// CategorySupplementals represents supplemental books
	CategorySupplementals BookCategory = "supplementals"
	// CategoryPodcasts represents podcasts
	CategoryPodcasts BookCategory = "podcasts"
)

// BookCategories lists every category in the order the CLI presents them
var BookCategories = []BookCategory{
	CategoryArticles,
	CategoryBooks,
	CategoryTweets,
	CategoryPodcasts,
	CategorySupplementals,
}

// IsValid checks if the category is one the API knows
func (c BookCategory) IsValid() bool {
	for _, known := range BookCategories {
		if c == known {
			return true
		}
	}
	return false
}

// LocationType describes what a highlight's Location counts
type LocationType string

const (
	LocationPage       LocationType = "page"
	LocationOrder      LocationType = "order"
	LocationTimeOffset LocationType = "time_offset"
	LocationLocation   LocationType = "location"
	LocationOffset     LocationType = "offset"
	LocationNone       LocationType = "none"
)

// Tag represents a Readwise tag
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagNames returns the names of tags in order
func TagNames(tags []Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

// Book represents a Readwise book, article, tweet thread or podcast
type Book struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Author          string       `json:"author"`
	Category        BookCategory `json:"category"`
	Source          string       `json:"source"`
	NumHighlights   int          `json:"num_highlights"`
	LastHighlightAt *time.Time   `json:"last_highlight_at"`
	Updated         *time.Time   `json:"updated"`
	CoverImageURL   string       `json:"cover_image_url"`
	HighlightsURL   string       `json:"highlights_url"`
	SourceURL       string       `json:"source_url"`
	ASIN            *string      `json:"asin"`
	Tags            []Tag        `json:"tags"`
	DocumentNote    string       `json:"document_note"`
}

// Highlight represents a Readwise highlight
type Highlight struct {
	ID            int64        `json:"id"`
	Text          string       `json:"text"`
	Note          string       `json:"note"`
	Location      int          `json:"location"`
	LocationType  LocationType `json:"location_type"`
	HighlightedAt *time.Time   `json:"highlighted_at"`
	URL           *string      `json:"url"`
	Color         string       `json:"color"`
	Updated       *time.Time   `json:"updated"`
	BookID        int64        `json:"book_id"`
	Tags          []Tag        `json:"tags"`
}

// ExportHighlight is a highlight as returned by the export endpoint
type ExportHighlight struct {
	ID            int64        `json:"id"`
	Text          string       `json:"text"`
	Location      int          `json:"location"`
	LocationType  LocationType `json:"location_type"`
	Note          string       `json:"note"`
	Color         string       `json:"color"`
	HighlightedAt *time.Time   `json:"highlighted_at"`
	CreatedAt     *time.Time   `json:"created_at"`
	UpdatedAt     *time.Time   `json:"updated_at"`
	ExternalID    string       `json:"external_id"`
	EndLocation   *int         `json:"end_location"`
	URL           *string      `json:"url"`
	BookID        int64        `json:"book_id"`
	Tags          []Tag        `json:"tags"`
	IsFavorite    bool         `json:"is_favorite"`
	IsDiscard     bool         `json:"is_discard"`
	ReadwiseURL   string       `json:"readwise_url"`
}

// ExportResult bundles a book with its tags and all of its highlights
type ExportResult struct {
	UserBookID    int64             `json:"user_book_id"`
	Title         string            `json:"title"`
	Author        string            `json:"author"`
	ReadableTitle string            `json:"readable_title"`
	Source        string            `json:"source"`
	CoverImageURL string            `json:"cover_image_url"`
	UniqueURL     string            `json:"unique_url"`
	BookTags      []Tag             `json:"book_tags"`
	Category      BookCategory      `json:"category"`
	DocumentNote  string            `json:"document_note"`
	Summary       string            `json:"summary"`
	ReadwiseURL   string            `json:"readwise_url"`
	SourceURL     string            `json:"source_url"`
	ASIN          *string           `json:"asin"`
	Highlights    []ExportHighlight `json:"highlights"`
}

// DailyReview is the current daily review session
type DailyReview struct {
	ReviewID        int64                  `json:"review_id"`
	ReviewURL       string                 `json:"review_url"`
	ReviewCompleted bool                   `json:"review_completed"`
	Highlights      []DailyReviewHighlight `json:"highlights"`
}

// DailyReviewHighlight is a highlight surfaced by the daily review
type DailyReviewHighlight struct {
	ID            int64        `json:"id"`
	Text          string       `json:"text"`
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	URL           *string      `json:"url"`
	SourceURL     string       `json:"source_url"`
	SourceType    string       `json:"source_type"`
	Category      BookCategory `json:"category"`
	LocationType  LocationType `json:"location_type"`
	Location      int          `json:"location"`
	Note          string       `json:"note"`
	HighlightedAt *time.Time   `json:"highlighted_at"`
	HighlightURL  string       `json:"highlight_url"`
	ImageURL      string       `json:"image_url"`
	APISource     *string      `json:"api_source"`
}

// CreatedBook is one book touched by a create-highlight call
type CreatedBook struct {
	ID                 int64        `json:"id"`
	Title              string       `json:"title"`
	Author             string       `json:"author"`
	Category           BookCategory `json:"category"`
	Source             string       `json:"source"`
	NumHighlights      int          `json:"num_highlights"`
	ModifiedHighlights []int64      `json:"modified_highlights"`
}
