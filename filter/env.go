package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/s0up4200/readwise-cli/reader"
	"github.com/s0up4200/readwise-cli/readwise"
)

// HighlightEnv exposes a highlight to filter expressions
func HighlightEnv(h readwise.Highlight) Env {
	tags := readwise.TagNames(h.Tags)
	return Env{
		"Highlight":     h,
		"ID":            h.ID,
		"Text":          h.Text,
		"Note":          h.Note,
		"Location":      h.Location,
		"LocationType":  string(h.LocationType),
		"HighlightedAt": timeValue(h.HighlightedAt),
		"Updated":       timeValue(h.Updated),
		"URL":           stringValue(h.URL),
		"Color":         h.Color,
		"BookID":        h.BookID,
		"Tags":          tags,
		"hasTag":        createHasTagFunc(tags),
	}
}

// BookEnv exposes a book to filter expressions
func BookEnv(b readwise.Book) Env {
	tags := readwise.TagNames(b.Tags)
	return Env{
		"Book":            b,
		"ID":              b.ID,
		"Title":           b.Title,
		"Author":          b.Author,
		"Category":        string(b.Category),
		"Source":          b.Source,
		"NumHighlights":   b.NumHighlights,
		"LastHighlightAt": timeValue(b.LastHighlightAt),
		"Updated":         timeValue(b.Updated),
		"SourceURL":       b.SourceURL,
		"ASIN":            stringValue(b.ASIN),
		"DocumentNote":    b.DocumentNote,
		"Tags":            tags,
		"hasTag":          createHasTagFunc(tags),
	}
}

// ExportEnv exposes an exported book to filter expressions
func ExportEnv(r readwise.ExportResult) Env {
	tags := readwise.TagNames(r.BookTags)
	return Env{
		"Export":        r,
		"ID":            r.UserBookID,
		"Title":         r.Title,
		"Author":        r.Author,
		"Category":      string(r.Category),
		"Source":        r.Source,
		"Summary":       r.Summary,
		"DocumentNote":  r.DocumentNote,
		"NumHighlights": len(r.Highlights),
		"Tags":          tags,
		"hasTag":        createHasTagFunc(tags),
	}
}

// ExportHighlightEnv exposes one exported highlight together with its book
func ExportHighlightEnv(r readwise.ExportResult, h readwise.ExportHighlight) Env {
	tags := readwise.TagNames(h.Tags)
	return Env{
		"Highlight":     h,
		"ID":            h.ID,
		"Text":          h.Text,
		"Note":          h.Note,
		"Location":      h.Location,
		"LocationType":  string(h.LocationType),
		"Color":         h.Color,
		"HighlightedAt": timeValue(h.HighlightedAt),
		"Updated":       timeValue(h.UpdatedAt),
		"IsFavorite":    h.IsFavorite,
		"IsDiscard":     h.IsDiscard,
		"BookID":        r.UserBookID,
		"Title":         r.Title,
		"Author":        r.Author,
		"Category":      string(r.Category),
		"Tags":          tags,
		"hasTag":        createHasTagFunc(tags),
	}
}

// ReviewEnv exposes a daily review highlight to filter expressions
func ReviewEnv(h readwise.DailyReviewHighlight) Env {
	return Env{
		"Highlight":     h,
		"ID":            h.ID,
		"Text":          h.Text,
		"Title":         h.Title,
		"Author":        h.Author,
		"Category":      string(h.Category),
		"Note":          h.Note,
		"SourceType":    h.SourceType,
		"HighlightedAt": timeValue(h.HighlightedAt),
		"Tags":          []string{},
		"hasTag":        createHasTagFunc(nil),
	}
}

// DocumentEnv exposes a Reader document to filter expressions
func DocumentEnv(d reader.Document) Env {
	tags := d.TagNames()
	slices.Sort(tags)
	return Env{
		"Document":        d,
		"ID":              d.ID,
		"Title":           d.Title,
		"Author":          d.Author,
		"Category":        string(d.Category),
		"Location":        string(d.Location),
		"Source":          d.Source,
		"SiteName":        d.SiteName,
		"URL":             d.URL,
		"SourceURL":       d.SourceURL,
		"Summary":         d.Summary,
		"Notes":           d.Notes,
		"WordCount":       d.WordCount,
		"ReadingProgress": d.ReadingProgress,
		"CreatedAt":       d.CreatedAt,
		"UpdatedAt":       d.UpdatedAt,
		"SavedAt":         timeValue(d.SavedAt),
		"LastOpenedAt":    timeValue(d.LastOpenedAt),
		"Tags":            tags,
		"hasTag":          createHasTagFunc(tags),
	}
}

func createHasTagFunc(tags []string) func(string) bool {
	lowerTags := make([]string, len(tags))
	for i, tag := range tags {
		lowerTags[i] = strings.ToLower(tag)
	}
	return func(tag string) bool {
		return slices.Contains(lowerTags, strings.ToLower(tag))
	}
}

// timeValue maps an absent timestamp to the zero time
func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
