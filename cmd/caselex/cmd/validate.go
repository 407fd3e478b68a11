package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caselex/caselex/internal/output"
	"github.com/caselex/caselex/internal/schema"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate persisted canonical records",
		Long: `Check every canonical record in a directory against the schema.

Exits nonzero when any record fails validation, printing one line per
finding.

Examples:
  caselex validate
  caselex validate data/cases`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dir := cfg.Paths.CaseDir
			if len(args) > 0 {
				dir = args[0]
			}

			findings, err := schema.ValidateDir(dir)
			if err != nil {
				return err
			}

			outw := output.New(cmd.OutOrStdout())
			if len(findings) == 0 {
				outw.Successf("All records in %s are valid", dir)
				return nil
			}

			for _, f := range findings {
				outw.Warning(f)
			}
			return fmt.Errorf("%d validation finding(s) in %s", len(findings), dir)
		},
	}

	return cmd
}
