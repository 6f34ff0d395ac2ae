package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/search"
)

// SearchResultOutput represents the formatted search results
type SearchResultOutput struct {
	Query   string             `json:"query" yaml:"query"`
	Count   int                `json:"count" yaml:"count"`
	Results []SearchItemOutput `json:"results" yaml:"results"`
}

// SearchItemOutput represents a single search result item
type SearchItemOutput struct {
	Tab      int      `json:"tab" yaml:"tab"`
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Language string   `json:"language" yaml:"language"`
	Score    float64  `json:"score" yaml:"score"`
	Matches  int      `json:"matches" yaml:"matches"`
	Excerpts []string `json:"excerpts,omitempty" yaml:"excerpts,omitempty"`
}

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search open documents",
		Long: `Search the open documents by name, content, language or id.

Query Syntax:
  todo                 - Name or content contains "todo"
  name:notes           - Name contains "notes"
  content:"fix me"     - Content contains "fix me"
  lang:go              - Language is Go
  id:3f2a              - Id starts with 3f2a
  -lang:markdown       - Negate with - or NOT

  Combine terms with AND (the default) or OR:
  lang:go AND content:TODO

Examples:
  tabpad search TODO
  tabpad search "lang:markdown OR lang:text"
  tabpad search 'content:"func main"' -o json`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: requireProject,
		RunE:    runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	return withDocuments(cmd, func(c *cli.CommandContext) error {
		results, err := search.SearchDocuments(c.Manager.Documents(), query)
		if err != nil {
			return err
		}

		output := SearchResultOutput{
			Query:   query,
			Count:   len(results),
			Results: []SearchItemOutput{},
		}
		for _, r := range results {
			output.Results = append(output.Results, SearchItemOutput{
				Tab:      r.Index + 1,
				ID:       r.Document.ID,
				Name:     r.Document.Name,
				Language: string(r.Document.Language),
				Score:    r.Score,
				Matches:  r.Matches,
				Excerpts: r.Excerpts,
			})
		}

		switch format := outputFormat(cmd); format {
		case "json", "yaml":
			return cli.OutputResults(cmd.OutOrStdout(), format, output)
		default:
			return outputSearchText(cmd, output)
		}
	})
}

func outputSearchText(cmd *cobra.Command, result SearchResultOutput) error {
	if result.Count == 0 {
		cli.PrintInfo("No results found for query: %s", result.Query)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Search Results for: %s\n\n", result.Query)

	table := cli.NewTableFormatter(out)
	table.Header("#", "ID", "NAME", "LANGUAGE", "MATCHES")
	for _, item := range result.Results {
		table.Row(
			fmt.Sprintf("%d", item.Tab),
			shortID(item.ID),
			cli.TruncateString(item.Name, 40),
			item.Language,
			fmt.Sprintf("%d", item.Matches),
		)
	}
	table.Flush()

	for _, item := range result.Results {
		if len(item.Excerpts) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", item.Name)
		for _, excerpt := range item.Excerpts {
			fmt.Fprintf(out, "  └─ %s\n", cli.TruncateString(excerpt, 76))
		}
	}

	fmt.Fprintf(out, "\nTotal: %d %s\n", result.Count, pluralize(result.Count, "result"))
	return nil
}
