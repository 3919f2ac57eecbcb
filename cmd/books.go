package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/readwise-cli/api"
	"github.com/s0up4200/readwise-cli/filter"
	"github.com/s0up4200/readwise-cli/readwise"
)

// maxCategoryConcurrency bounds parallel category traversals
const maxCategoryConcurrency = 3

var booksUpdatedAfter string

// booksCmd groups the book commands
var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List books and manage their tags",
}

var booksListCmd = &cobra.Command{
	Use:   "list [category...]",
	Short: "List books, optionally restricted to categories",
	Long: `List books. Categories are books, articles, tweets, supplementals and
podcasts; several categories are fetched concurrently and printed in the order
given.`,
	RunE: runBooksList,
}

var booksGetCmd = &cobra.Command{
	Use:   "get <book-id>",
	Short: "Show a single book",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksGet,
}

var booksHighlightsCmd = &cobra.Command{
	Use:   "highlights <book-id>",
	Short: "List the highlights of a book",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksHighlights,
}

var booksTagsCmd = &cobra.Command{
	Use:   "tags <book-id>",
	Short: "List the tags of a book",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksTags,
}

var booksTagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add or delete book tags",
}

var booksTagAddCmd = &cobra.Command{
	Use:   "add <book-id> <name>",
	Short: "Add a tag to a book",
	Args:  cobra.ExactArgs(2),
	RunE:  runBooksTagAdd,
}

var booksTagDeleteCmd = &cobra.Command{
	Use:   "delete <book-id> <tag-id>",
	Short: "Delete a tag from a book",
	Args:  cobra.ExactArgs(2),
	RunE:  runBooksTagDelete,
}

func init() {
	rootCmd.AddCommand(booksCmd)
	booksCmd.AddCommand(booksListCmd, booksGetCmd, booksHighlightsCmd, booksTagsCmd, booksTagCmd)
	booksTagCmd.AddCommand(booksTagAddCmd, booksTagDeleteCmd)

	booksListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or @name of a configured filter")
	booksListCmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after N books")
	booksListCmd.Flags().StringVar(&booksUpdatedAfter, "updated-after", "", "only books updated after this time")

	booksHighlightsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or @name of a configured filter")
}

func runBooksList(cmd *cobra.Command, args []string) error {
	categories := make([]readwise.BookCategory, 0, len(args))
	for _, arg := range args {
		category := readwise.BookCategory(arg)
		if !category.IsValid() {
			return fmt.Errorf("unknown category %q (must be one of %v)", arg, readwise.BookCategories)
		}
		categories = append(categories, category)
	}

	after, err := parseTimeFlag("updated-after", booksUpdatedAfter)
	if err != nil {
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

	p := newPrinter(cmd.OutOrStdout())

	if len(categories) <= 1 {
		opts := readwise.BookListOptions{UpdatedAfter: after}
		if len(categories) == 1 {
			opts.Category = categories[0]
		}
		count, err := printSeq(p, filter.Limit(filter.Apply(f, client.Books(cmd.Context(), opts), filter.BookEnv), limit))
		if err != nil {
			return err
		}
		logger.Info().Int("count", count).Msg("Listed books")
		return nil
	}

	// Each category is an independent traversal
	results := make([][]readwise.Book, len(categories))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxCategoryConcurrency)

	for i, category := range categories {
		g.Go(func() error {
			seq := client.Books(ctx, readwise.BookListOptions{Category: category, UpdatedAfter: after})
			books, err := api.Collect(filter.Limit(filter.Apply(f, seq, filter.BookEnv), limit))
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", category, err)
			}

			logger.Debug().
				Str("category", string(category)).
				Int("count", len(books)).
				Msg("Fetched category")

			results[i] = books
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var all []readwise.Book
	for _, books := range results {
		all = append(all, books...)
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	for _, book := range all {
		if err := p.Print(book); err != nil {
			return err
		}
	}

	logger.Info().Int("count", len(all)).Msg("Listed books")
	return nil
}

func runBooksGet(cmd *cobra.Command, args []string) error {
	id, err := parseID("book", args[0])
	if err != nil {
		return err
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	book, err := client.Book(cmd.Context(), id)
	if err != nil {
		return err
	}
	return newPrinter(cmd.OutOrStdout()).Print(book)
}

func runBooksHighlights(cmd *cobra.Command, args []string) error {
	id, err := parseID("book", args[0])
	if err != nil {
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

	_, err = printSeq(newPrinter(cmd.OutOrStdout()), filter.Apply(f, client.BookHighlights(cmd.Context(), id), filter.HighlightEnv))
	return err
}

func runBooksTags(cmd *cobra.Command, args []string) error {
	id, err := parseID("book", args[0])
	if err != nil {
		return err
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	_, err = printSeq(newPrinter(cmd.OutOrStdout()), client.BookTags(cmd.Context(), id))
	return err
}

func runBooksTagAdd(cmd *cobra.Command, args []string) error {
	id, err := parseID("book", args[0])
	if err != nil {
		return err
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	tag, err := client.AddTag(cmd.Context(), id, args[1])
	if err != nil {
		return err
	}

	logger.Info().Int64("book_id", id).Str("tag", tag.Name).Msg("Tag added")
	return newPrinter(cmd.OutOrStdout()).Print(tag)
}

func runBooksTagDelete(cmd *cobra.Command, args []string) error {
	bookID, err := parseID("book", args[0])
	if err != nil {
		return err
	}
	tagID, err := parseID("tag", args[1])
	if err != nil {
		return err
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	if err := client.DeleteTag(cmd.Context(), bookID, tagID); err != nil {
		return err
	}

	logger.Info().Int64("book_id", bookID).Int64("tag_id", tagID).Msg("Tag deleted")
	return nil
}

func parseID(kind, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, value)
	}
	return id, nil
}
