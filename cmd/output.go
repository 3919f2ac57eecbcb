package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/s0up4200/readwise-cli/reader"
	"github.com/s0up4200/readwise-cli/readwise"
)

// printer writes command results as JSON, JSON lines or text
type printer struct {
	w      io.Writer
	format string
	indent bool
}

// newPrinter resolves the auto format against stdout
func newPrinter(w io.Writer) *printer {
	format := "auto"
	indent := true
	if cfg != nil {
		format = cfg.Output.Format
		indent = cfg.Output.Indent
	}

	if format == "auto" {
		format = "jsonl"
		if f, ok := w.(*os.File); ok && isTerminal(f) {
			format = "json"
		}
	}

	return &printer{w: w, format: format, indent: indent}
}

// Print writes a single value
func (p *printer) Print(v any) error {
	switch p.format {
	case "text":
		_, err := fmt.Fprintln(p.w, formatText(v))
		return err
	case "json":
		enc := json.NewEncoder(p.w)
		if p.indent {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	default:
		return json.NewEncoder(p.w).Encode(v)
	}
}

// printSeq prints every item of seq as it arrives and returns the count
func printSeq[T any](p *printer, seq iter.Seq2[T, error]) (int, error) {
	count := 0
	for item, err := range seq {
		if err != nil {
			return count, err
		}
		if err := p.Print(item); err != nil {
			return count, fmt.Errorf("failed to write output: %w", err)
		}
		count++
	}
	return count, nil
}

// formatText renders the result types for --output text
func formatText(v any) string {
	var sb strings.Builder

	switch item := v.(type) {
	case readwise.Highlight:
		fmt.Fprintf(&sb, "• [%d] %s", item.ID, oneLine(item.Text))
		if item.Note != "" {
			fmt.Fprintf(&sb, "\n  Note: %s", oneLine(item.Note))
		}
		fmt.Fprintf(&sb, "\n  Book: %d", item.BookID)
		writeTags(&sb, readwise.TagNames(item.Tags))
		writeDate(&sb, "Highlighted", item.HighlightedAt)
	case *readwise.Highlight:
		return formatText(*item)
	case readwise.Book:
		fmt.Fprintf(&sb, "• [%d] %s", item.ID, item.Title)
		if item.Author != "" {
			fmt.Fprintf(&sb, " by %s", item.Author)
		}
		fmt.Fprintf(&sb, "\n  %s, %d highlights", item.Category, item.NumHighlights)
		writeTags(&sb, readwise.TagNames(item.Tags))
		writeDate(&sb, "Last highlight", item.LastHighlightAt)
	case *readwise.Book:
		return formatText(*item)
	case readwise.Tag:
		fmt.Fprintf(&sb, "• %s (ID: %d)", item.Name, item.ID)
	case *readwise.Tag:
		return formatText(*item)
	case readwise.DailyReviewHighlight:
		fmt.Fprintf(&sb, "• %s\n  %s", oneLine(item.Text), item.Title)
		if item.Author != "" {
			fmt.Fprintf(&sb, " by %s", item.Author)
		}
	case readwise.CreatedBook:
		fmt.Fprintf(&sb, "✓ %s (book %d, %d highlights)", item.Title, item.ID, item.NumHighlights)
	case exportRow:
		fmt.Fprintf(&sb, "• [%d] %s\n  %s", item.Highlight.ID, oneLine(item.Highlight.Text), item.Title)
		if item.Author != "" {
			fmt.Fprintf(&sb, " by %s", item.Author)
		}
		writeTags(&sb, readwise.TagNames(item.Highlight.Tags))
	case tagCount:
		fmt.Fprintf(&sb, "• %-30s %5d books %5d highlights", item.Name, item.Books, item.Highlights)
	case reader.Document:
		fmt.Fprintf(&sb, "• %s", item.Title)
		if item.Author != "" {
			fmt.Fprintf(&sb, " by %s", item.Author)
		}
		fmt.Fprintf(&sb, "\n  %s, %s, %d words, %.0f%% read", item.Category, item.Location, item.WordCount, item.ReadingProgress*100)
		fmt.Fprintf(&sb, "\n  %s", item.SourceURL)
	case *reader.SavedDocument:
		status := "Saved"
		if item.Existing {
			status = "Already saved"
		}
		fmt.Fprintf(&sb, "✓ %s: %s", status, item.URL)
	default:
		fmt.Fprintf(&sb, "%+v", v)
	}

	return sb.String()
}

func writeTags(sb *strings.Builder, tags []string) {
	if len(tags) > 0 {
		fmt.Fprintf(sb, "\n  Tags: %s", strings.Join(tags, ", "))
	}
}

func writeDate(sb *strings.Builder, label string, t *time.Time) {
	if t != nil {
		fmt.Fprintf(sb, "\n  %s: %s", label, t.Format(time.DateOnly))
	}
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 200 {
		s = s[:197] + "..."
	}
	return s
}
