package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newDocsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "List accepted documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			docs, err := c.Documents(cmd.Context())
			if err != nil {
				return fmt.Errorf("docs: %w", err)
			}
			if g.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), docs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tSIZE\tMODIFIED")
			for _, d := range docs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.Type, d.SizeHuman, d.ModifiedAt.UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newTopicsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List catalog topics in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			topics := c.Topics()
			if g.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), topics)
			}
			for _, t := range topics {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newClassifyCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Show how a question is tokenized and classified",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			a := c.Analyze(strings.Join(args, " "))
			if g.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), a)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "phrases: %s\n", joinOrDash(a.Phrases))
			fmt.Fprintf(out, "words:   %s\n", joinOrDash(a.Words))
			fmt.Fprintf(out, "topics:  %s\n", joinOrDash(a.Topics))
			return nil
		},
	}
}

func newHealthCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the knowledge-base directory and cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			h := c.Health(cmd.Context())
			if g.format == formatJSON {
				if err := writeJSON(cmd.OutOrStdout(), h); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "status: %s\ndocuments: %d\n", h.Status, h.DocumentsCount)
				names := make([]string, 0, len(h.Checks))
				for name := range h.Checks {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, h.Checks[name])
				}
			}
			if h.Status == "error" {
				return fmt.Errorf("knowledge base unhealthy")
			}
			return nil
		},
	}
}
