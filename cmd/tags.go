package cmd

import (
	"iter"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/readwise-cli/readwise"
)

// tagCount is how often a tag is used across the library
type tagCount struct {
	Name       string `json:"name"`
	Books      int    `json:"books"`
	Highlights int    `json:"highlights"`
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Work with tags across the whole library",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tag with its usage counts",
	Long: `List every book and highlight tag in the library, most used first.
The counts are computed from a full export.`,
	Args: cobra.NoArgs,
	RunE: runTagsList,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.AddCommand(tagsListCmd)
}

func runTagsList(cmd *cobra.Command, args []string) error {
	client, err := newReadwiseClient()
	if err != nil {
		return err
	}

	counts, err := countTags(client.Export(cmd.Context(), readwise.ExportOptions{}))
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	for _, c := range counts {
		if err := p.Print(c); err != nil {
			return err
		}
	}
	return nil
}

// countTags tallies book and highlight tags, case-insensitively by name
func countTags(results iter.Seq2[readwise.ExportResult, error]) ([]tagCount, error) {
	byName := make(map[string]*tagCount)
	get := func(name string) *tagCount {
		key := strings.ToLower(name)
		c, ok := byName[key]
		if !ok {
			c = &tagCount{Name: name}
			byName[key] = c
		}
		return c
	}

	for result, err := range results {
		if err != nil {
			return nil, err
		}
		for _, tag := range result.BookTags {
			get(tag.Name).Books++
		}
		for _, h := range result.Highlights {
			for _, tag := range h.Tags {
				get(tag.Name).Highlights++
			}
		}
	}

	counts := make([]tagCount, 0, len(byName))
	for _, c := range byName {
		counts = append(counts, *c)
	}
	sort.Slice(counts, func(i, j int) bool {
		ti := counts[i].Books + counts[i].Highlights
		tj := counts[j].Books + counts[j].Highlights
		if ti != tj {
			return ti > tj
		}
		return counts[i].Name < counts[j].Name
	})
	return counts, nil
}
