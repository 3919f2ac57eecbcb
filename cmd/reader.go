package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/readwise-cli/filter"
	"github.com/s0up4200/readwise-cli/reader"
)

var (
	readerLocation     string
	readerCategory     string
	readerUpdatedAfter string

	saveParams      reader.CreateDocumentParams
	saveLocation    string
	saveCategory    string
	savePublishedAt string
	saveCleanHTML   bool
)

// readerCmd groups the Reader commands
var readerCmd = &cobra.Command{
	Use:   "reader",
	Short: "List and save Readwise Reader documents",
}

var readerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List Reader documents",
	Args:  cobra.NoArgs,
	RunE:  runReaderList,
}

var readerSaveCmd = &cobra.Command{
	Use:   "save <url>",
	Short: "Save a URL to Reader",
	Args:  cobra.ExactArgs(1),
	RunE:  runReaderSave,
}

func init() {
	rootCmd.AddCommand(readerCmd)
	readerCmd.AddCommand(readerListCmd, readerSaveCmd)

	readerListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or @name of a configured filter")
	readerListCmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after N documents")
	readerListCmd.Flags().StringVar(&readerLocation, "location", "", "new, later, shortlist, archive or feed")
	readerListCmd.Flags().StringVar(&readerCategory, "category", "", "article, email, rss, highlight, note, pdf, epub, tweet or video")
	readerListCmd.Flags().StringVar(&readerUpdatedAfter, "updated-after", "", "only documents updated after this time")

	readerSaveCmd.Flags().StringVar(&saveParams.Title, "title", "", "document title")
	readerSaveCmd.Flags().StringVar(&saveParams.Author, "author", "", "document author")
	readerSaveCmd.Flags().StringVar(&saveParams.Summary, "summary", "", "document summary")
	readerSaveCmd.Flags().StringVar(&saveParams.HTML, "html", "", "document HTML content")
	readerSaveCmd.Flags().BoolVar(&saveCleanHTML, "clean-html", false, "let Reader clean the supplied HTML")
	readerSaveCmd.Flags().StringVar(&saveParams.ImageURL, "image-url", "", "cover image URL")
	readerSaveCmd.Flags().StringVar(&saveLocation, "location", "", "new, later, archive or feed (default new)")
	readerSaveCmd.Flags().StringVar(&saveCategory, "category", "", "document category")
	readerSaveCmd.Flags().StringSliceVar(&saveParams.Tags, "tag", nil, "tag to add (repeatable)")
	readerSaveCmd.Flags().StringVar(&saveParams.Notes, "notes", "", "document notes")
	readerSaveCmd.Flags().StringVar(&savePublishedAt, "published-at", "", "publication date")
	readerSaveCmd.Flags().StringVar(&saveParams.SavedUsing, "saved-using", "readwise-cli", "source recorded by Reader")
}

func runReaderList(cmd *cobra.Command, args []string) error {
	opts := reader.ListOptions{
		Location: reader.DocumentLocation(readerLocation),
		Category: reader.DocumentCategory(readerCategory),
	}

	var err error
	if opts.UpdatedAfter, err = parseTimeFlag("updated-after", readerUpdatedAfter); err != nil {
		return err
	}

	f, err := compileFilter(filterExpr)
	if err != nil {
		return err
	}

	client, err := newReaderClient()
	if err != nil {
		return err
	}

	seq := filter.Limit(filter.Apply(f, client.Documents(cmd.Context(), opts), filter.DocumentEnv), limit)
	count, err := printSeq(newPrinter(cmd.OutOrStdout()), seq)
	if err != nil {
		return err
	}

	logger.Info().Int("count", count).Msg("Listed documents")
	return nil
}

func runReaderSave(cmd *cobra.Command, args []string) error {
	params := saveParams
	params.URL = args[0]
	params.Location = reader.DocumentLocation(saveLocation)
	params.Category = reader.DocumentCategory(saveCategory)

	if cmd.Flags().Changed("clean-html") {
		params.ShouldCleanHTML = &saveCleanHTML
	}
	if savePublishedAt != "" {
		published, err := parseTimeFlag("published-at", savePublishedAt)
		if err != nil {
			return err
		}
		params.PublishedDate = &published
	}

	client, err := newReaderClient()
	if err != nil {
		return err
	}

	saved, err := client.CreateDocument(cmd.Context(), params)
	if err != nil {
		return err
	}

	logger.Info().
		Str("id", saved.ID).
		Bool("existing", saved.Existing).
		Msg("Document saved")

	return newPrinter(cmd.OutOrStdout()).Print(saved)
}
