// Package cmd provides the CLI commands for caselex.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/caselex/caselex/internal/config"
	"github.com/caselex/caselex/internal/logging"
	"github.com/caselex/caselex/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the caselex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caselex",
		Short: "Legal document normalization and similarity retrieval",
		Long: `Caselex normalizes heterogeneous legal-text sources into a canonical
record schema, embeds them into fixed-length vectors, and answers
similarity queries over the resulting store.

Typical workflow:
  caselex normalize scotus --src data/sources/scotus
  caselex ingest
  caselex query "due process" --top-k 5`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("caselex version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.caselex/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command, printing any fatal error to stderr.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig resolves configuration from the working directory.
func loadConfig() (*config.Config, error) {
	return config.Load(".")
}

// startLogging sets up file logging, verbose when --debug is given.
func startLogging(_ *cobra.Command, _ []string) error {
	cfg := logging.DefaultConfig()
	if debugMode {
		cfg = logging.DebugConfig()
	}

	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		// Logging is best-effort; commands still work without it.
		slog.Warn("failed to set up file logging", slog.String("error", err.Error()))
		return nil
	}

	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}
