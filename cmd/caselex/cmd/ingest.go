package cmd

import (
	"github.com/spf13/cobra"

	"github.com/caselex/caselex/internal/ingest"
	"github.com/caselex/caselex/internal/output"
)

func newIngestCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build the vector store from canonical records",
		Long: `Read every canonical record, embed its retrieval text, and persist
the vector store with integrity metadata.

Modes:
  rebuild   Recompute the whole store from scratch (default)
  append    Currently identical to rebuild: the store is recomputed in
            full rather than updated incrementally.

Examples:
  caselex ingest
  caselex ingest --mode append`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ingest.ParseMode(mode)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			builder := &ingest.Builder{
				Embedder:  newEmbedder(cfg),
				CaseDir:   cfg.Paths.CaseDir,
				VectorDir: cfg.Paths.VectorDir,
				BatchSize: cfg.Embeddings.BatchSize,
			}

			st, err := builder.Build(cmd.Context(), m)
			if err != nil {
				return err
			}

			output.New(cmd.OutOrStdout()).Successf("Ingested %d cases (dim=%d, model=%s)",
				st.Count(), st.Meta.Dim, st.Meta.Model)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(ingest.ModeRebuild), "Ingest mode: rebuild or append")

	return cmd
}
