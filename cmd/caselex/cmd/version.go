package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caselex/caselex/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outw := cmd.OutOrStdout()

			if jsonOutput {
				enc := json.NewEncoder(outw)
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			}

			fmt.Fprintln(outw, version.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
