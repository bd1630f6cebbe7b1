package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	docqa "github.com/kailas-cloud/docqa/pkg/sdk"
)

func newSearchCmd(g *globalFlags) *cobra.Command {
	var (
		maxResults int
		category   string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank knowledge-base excerpts for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			resp, err := c.Retrieve(cmd.Context(), strings.Join(args, " "),
				docqa.WithMaxResults(maxResults), docqa.WithCategory(category))
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			if g.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printResponse(cmd, resp)
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxResults, "num", "n", 5, "Maximum number of results (1-10)")
	cmd.Flags().StringVar(&category, "category", "", "Category hint")
	return cmd
}

func printResponse(cmd *cobra.Command, resp docqa.Response) {
	out := cmd.OutOrStdout()
	if resp.Error != "" {
		fmt.Fprintln(out, resp.Error)
		return
	}
	if len(resp.Results) == 0 {
		fmt.Fprintln(out, resp.Info)
		return
	}

	fmt.Fprintf(out, "%s (topics: %s)\n\n", resp.Info, joinOrDash(resp.Topics))
	for i, r := range resp.Results {
		fmt.Fprintf(out, "%d. %s  score=%d  topics=%s\n", i+1, r.Source, r.RelevanceScore, joinOrDash(r.MatchedTopics))
		fmt.Fprintf(out, "   %s\n\n", strings.ReplaceAll(r.Content, "\n", "\n   "))
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
