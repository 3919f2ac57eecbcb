package reader

import (
	"time"
)

// DocumentLocation is where a document sits in the Reader triage flow
type DocumentLocation string

const (
	LocationNew       DocumentLocation = "new"
	LocationLater     DocumentLocation = "later"
	LocationShortlist DocumentLocation = "shortlist"
	LocationArchive   DocumentLocation = "archive"
	LocationFeed      DocumentLocation = "feed"
)

// DocumentCategory is the kind of content a document holds
type DocumentCategory string

const (
	CategoryArticle   DocumentCategory = "article"
	CategoryEmail     DocumentCategory = "email"
	CategoryRSS       DocumentCategory = "rss"
	CategoryHighlight DocumentCategory = "highlight"
	CategoryNote      DocumentCategory = "note"
	CategoryPDF       DocumentCategory = "pdf"
	CategoryEPUB      DocumentCategory = "epub"
	CategoryTweet     DocumentCategory = "tweet"
	CategoryVideo     DocumentCategory = "video"
)

// Document represents a Reader document
type Document struct {
	ID              string           `json:"id"`
	URL             string           `json:"url"`
	SourceURL       string           `json:"source_url"`
	Title           string           `json:"title"`
	Author          string           `json:"author"`
	Source          string           `json:"source"`
	Category        DocumentCategory `json:"category"`
	Location        DocumentLocation `json:"location"`
	Tags            map[string]any   `json:"tags"`
	SiteName        string           `json:"site_name"`
	WordCount       int              `json:"word_count"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	PublishedDate   any              `json:"published_date"`
	Notes           string           `json:"notes"`
	Summary         string           `json:"summary"`
	ImageURL        string           `json:"image_url"`
	ParentID        *string          `json:"parent_id"`
	ReadingProgress float64          `json:"reading_progress"`
	FirstOpenedAt   *time.Time       `json:"first_opened_at"`
	LastOpenedAt    *time.Time       `json:"last_opened_at"`
	SavedAt         *time.Time       `json:"saved_at"`
	LastMovedAt     *time.Time       `json:"last_moved_at"`
}

// TagNames returns the document's tag keys in no particular order
func (d *Document) TagNames() []string {
	names := make([]string, 0, len(d.Tags))
	for name := range d.Tags {
		names = append(names, name)
	}
	return names
}

// SavedDocument is the answer to a save request
type SavedDocument struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	// Existing is set when the URL had already been saved
	Existing bool `json:"existing"`
}
