package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caselex/caselex/internal/retrieve"
)

// queryOptions holds CLI flags for query.
type queryOptions struct {
	topK   int
	format string
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <text...>",
		Short: "Search the vector store for similar cases",
		Long: `Embed the query text and return the most similar stored cases by
cosine similarity, highest score first.

Examples:
  caselex query "due process"
  caselex query equal protection --top-k 10
  caselex query "commerce clause" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", 3, "Number of results to return")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")

	return cmd
}

func runQuery(cmd *cobra.Command, text string, opts queryOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	retriever, err := retrieve.New(cfg.Paths.VectorDir, newEmbedder(cfg))
	if err != nil {
		return err
	}

	results, err := retriever.Query(cmd.Context(), text, opts.topK)
	if err != nil {
		return err
	}

	outw := cmd.OutOrStdout()

	if opts.format == "json" {
		enc := json.NewEncoder(outw)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(outw, "No results found. Did you run 'caselex ingest' first?")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(outw, "%-40s similarity=%.3f\n", r.Name, r.Score)
	}
	return nil
}
