package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/readwise-cli/filter"
)

var reviewCmd = &cobra.Command{
	Use:     "daily-review",
	Aliases: []string{"review"},
	Short:   "Show the highlights of today's daily review",
	Args:    cobra.NoArgs,
	RunE:    runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or @name of a configured filter")
}

func runReview(cmd *cobra.Command, args []string) error {
	f, err := compileFilter(filterExpr)
	if err != nil {
		return err
	}

	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	_, err = printSeq(newPrinter(cmd.OutOrStdout()), filter.Apply(f, client.DailyReviewHighlights(cmd.Context()), filter.ReviewEnv))
	return err
}
