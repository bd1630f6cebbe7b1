// Package cli implements the docqactl operator commands on top of the docqa SDK.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/docqa/internal/version"
	docqa "github.com/kailas-cloud/docqa/pkg/sdk"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dir        string
	topicsFile string
	stemming   bool
	cachePath  string
	format     string
	verbose    bool
}

// NewRootCmd builds the docqactl command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "docqactl",
		Short:         "Query and inspect a docqa knowledge base",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch g.format {
			case formatText, formatJSON:
				return nil
			default:
				return fmt.Errorf("unknown format %q (want text or json)", g.format)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.dir, "dir", "d", "./uploads", "Knowledge-base directory")
	pf.StringVar(&g.topicsFile, "topics-file", "", "Topic catalog YAML (default: built-in)")
	pf.BoolVar(&g.stemming, "stem", false, "Stem query words")
	pf.StringVar(&g.cachePath, "cache", "", "LevelDB path for the extracted-text cache")
	pf.StringVarP(&g.format, "format", "f", formatText, "Output format (text|json)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Log SDK operations to stderr")

	root.AddCommand(newSearchCmd(g))
	root.AddCommand(newDocsCmd(g))
	root.AddCommand(newTopicsCmd(g))
	root.AddCommand(newClassifyCmd(g))
	root.AddCommand(newHealthCmd(g))

	root.SetVersionTemplate(fmt.Sprintf("docqactl version %s (commit %s, built %s)\n",
		version.Version, version.Commit, version.Date))
	return root
}

// client opens an SDK client from the global flags.
func (g *globalFlags) client(ctx context.Context, stderr io.Writer) (*docqa.Client, error) {
	opts := []docqa.Option{docqa.WithDirectory(g.dir)}
	if g.topicsFile != "" {
		opts = append(opts, docqa.WithTopicsFile(g.topicsFile))
	}
	if g.stemming {
		opts = append(opts, docqa.WithStemming())
	}
	if g.cachePath != "" {
		opts = append(opts, docqa.WithLevelDBCache(g.cachePath, 7*24*time.Hour))
	}
	if g.verbose {
		opts = append(opts, docqa.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	c, err := docqa.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	return c, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
