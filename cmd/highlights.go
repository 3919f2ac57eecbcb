package cmd

import (
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/readwise-cli/filter"
	"github.com/s0up4200/readwise-cli/readwise"
)

var (
	filterExpr     string
	bookFilterExpr string
	limit          int

	bookIDs           []int64
	updatedAfter      string
	updatedBefore     string
	highlightedAfter  string
	highlightedBefore string
	exportDays        int

	createParams        readwise.CreateHighlightParams
	createCategory      string
	createHighlightedAt string
)

// highlightsCmd groups the highlight commands
var highlightsCmd = &cobra.Command{
	Use:     "highlights",
	Aliases: []string{"hl"},
	Short:   "List, export and create highlights",
}

var highlightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List highlights",
	Long: `List highlights across all books.

The --filter flag takes an expression evaluated against each highlight, e.g.
  --filter 'hasTag("favorite") and Updated > daysAgo(30)'
  --filter 'containsFold(Text, "go") and words(Text) < 40'
  --filter @favorites   (a named filter from the config file)`,
	Args: cobra.NoArgs,
	RunE: runHighlightsList,
}

var highlightsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single highlight",
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlightsGet,
}

var highlightsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export highlights together with their books",
	Args:  cobra.NoArgs,
	RunE:  runHighlightsExport,
}

var highlightsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a highlight",
	Args:  cobra.NoArgs,
	RunE:  runHighlightsCreate,
}

func init() {
	rootCmd.AddCommand(highlightsCmd)
	highlightsCmd.AddCommand(highlightsListCmd, highlightsGetCmd, highlightsExportCmd, highlightsCreateCmd)

	highlightsListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or @name of a configured filter")
	highlightsListCmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after N highlights")
	highlightsListCmd.Flags().Int64SliceVar(&bookIDs, "book-ids", nil, "only highlights of these books")
	highlightsListCmd.Flags().StringVar(&updatedAfter, "updated-after", "", "only highlights updated after this time")
	highlightsListCmd.Flags().StringVar(&updatedBefore, "updated-before", "", "only highlights updated before this time")
	highlightsListCmd.Flags().StringVar(&highlightedAfter, "highlighted-after", "", "only highlights made after this time")
	highlightsListCmd.Flags().StringVar(&highlightedBefore, "highlighted-before", "", "only highlights made before this time")

	highlightsExportCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or @name of a configured filter")
	highlightsExportCmd.Flags().StringVar(&bookFilterExpr, "books-filter", "", "filter expression evaluated once per exported book")
	highlightsExportCmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after N highlights")
	highlightsExportCmd.Flags().Int64SliceVar(&bookIDs, "book-ids", nil, "only export these books")
	highlightsExportCmd.Flags().StringVar(&updatedAfter, "updated-after", "", "only export highlights updated after this time")
	highlightsExportCmd.Flags().IntVar(&exportDays, "days", 0, "only export highlights updated in the last N days")

	highlightsCreateCmd.Flags().StringVar(&createParams.Text, "text", "", "highlight text (required)")
	highlightsCreateCmd.Flags().StringVar(&createParams.Title, "title", "", "book title (required)")
	highlightsCreateCmd.Flags().StringVar(&createParams.Author, "author", "", "book author")
	highlightsCreateCmd.Flags().StringVar(&createParams.Note, "note", "", "highlight note")
	highlightsCreateCmd.Flags().StringVar(&createParams.SourceURL, "source-url", "", "source URL")
	highlightsCreateCmd.Flags().StringVar(&createCategory, "category", string(readwise.CategoryArticles), "book category")
	highlightsCreateCmd.Flags().StringVar(&createHighlightedAt, "highlighted-at", "", "when the highlight was made")
	_ = highlightsCreateCmd.MarkFlagRequired("text")
	_ = highlightsCreateCmd.MarkFlagRequired("title")
}

func runHighlightsList(cmd *cobra.Command, args []string) error {
	opts := readwise.HighlightListOptions{BookIDs: bookIDs}

	var err error
	if opts.UpdatedAfter, err = parseTimeFlag("updated-after", updatedAfter); err != nil {
		return err
	}
	if opts.UpdatedBefore, err = parseTimeFlag("updated-before", updatedBefore); err != nil {
		return err
	}
	if opts.HighlightedAfter, err = parseTimeFlag("highlighted-after", highlightedAfter); err != nil {
		return err
	}
	if opts.HighlightedBefore, err = parseTimeFlag("highlighted-before", highlightedBefore); err != nil {
		return err
	}

	f, err := compileFilter(filterExpr)
	if err != nil {
		return err
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	seq := filter.Limit(filter.Apply(f, client.Highlights(cmd.Context(), opts), filter.HighlightEnv), limit)
	count, err := printSeq(newPrinter(cmd.OutOrStdout()), seq)
	if err != nil {
		return err
	}

	logger.Info().Int("count", count).Msg("Listed highlights")
	return nil
}

func runHighlightsGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid highlight id %q", args[0])
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	highlight, err := client.Highlight(cmd.Context(), id)
	if err != nil {
		return err
	}
	return newPrinter(cmd.OutOrStdout()).Print(highlight)
}

// exportRow is one exported highlight with the book it belongs to
type exportRow struct {
	BookID    int64                    `json:"book_id"`
	Title     string                   `json:"title"`
	Author    string                   `json:"author"`
	Category  readwise.BookCategory    `json:"category"`
	SourceURL string                   `json:"source_url"`
	Highlight readwise.ExportHighlight `json:"highlight"`
}

// exportRows flattens export results into one row per highlight
func exportRows(results iter.Seq2[readwise.ExportResult, error]) iter.Seq2[exportRow, error] {
	return func(yield func(exportRow, error) bool) {
		for result, err := range results {
			if err != nil {
				yield(exportRow{}, err)
				return
			}
			for _, h := range result.Highlights {
				row := exportRow{
					BookID:    result.UserBookID,
					Title:     result.Title,
					Author:    result.Author,
					Category:  result.Category,
					SourceURL: result.SourceURL,
					Highlight: h,
				}
				if !yield(row, nil) {
					return
				}
			}
		}
	}
}

func exportRowEnv(row exportRow) filter.Env {
	return filter.ExportHighlightEnv(readwise.ExportResult{
		UserBookID: row.BookID,
		Title:      row.Title,
		Author:     row.Author,
		Category:   row.Category,
	}, row.Highlight)
}

func runHighlightsExport(cmd *cobra.Command, args []string) error {
	opts := readwise.ExportOptions{BookIDs: bookIDs}

	var err error
	if opts.UpdatedAfter, err = parseTimeFlag("updated-after", updatedAfter); err != nil {
		return err
	}
	if exportDays > 0 {
		opts.UpdatedAfter = time.Now().AddDate(0, 0, -exportDays)
	}

	f, err := compileFilter(filterExpr)
	if err != nil {
		return err
	}
	bookFilter, err := compileFilter(bookFilterExpr)
	if err != nil {
		return err
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	rows := exportRows(filter.Apply(bookFilter, client.Export(cmd.Context(), opts), filter.ExportEnv))
	count, err := printSeq(newPrinter(cmd.OutOrStdout()), filter.Limit(filter.Apply(f, rows, exportRowEnv), limit))
	if err != nil {
		return err
	}

	logger.Info().Int("count", count).Msg("Exported highlights")
	return nil
}

func runHighlightsCreate(cmd *cobra.Command, args []string) error {
	params := createParams
	params.Category = readwise.BookCategory(createCategory)

	if createHighlightedAt != "" {
		at, err := parseTimeFlag("highlighted-at", createHighlightedAt)
		if err != nil {
			return err
		}
		params.HighlightedAt = &at
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	books, err := client.CreateHighlight(cmd.Context(), params)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	for _, book := range books {
		if err := p.Print(book); err != nil {
			return err
		}
	}

	logger.Info().Str("title", params.Title).Msg("Highlight created")
	return nil
}
