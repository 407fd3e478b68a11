package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caselex/caselex/internal/adapter"
	"github.com/caselex/caselex/internal/normalize"
	"github.com/caselex/caselex/internal/output"
)

// normalizeOptions holds CLI flags for normalize.
type normalizeOptions struct {
	src        string
	out        string
	sourceTag  string
	dryRun     bool
	limit      int
	overwrite  bool
	parallel   bool
	sequential bool
}

func newNormalizeCmd() *cobra.Command {
	var opts normalizeOptions

	cmd := &cobra.Command{
		Use:   "normalize <source>",
		Short: "Normalize raw source files into canonical records",
		Long: `Normalize raw legal source files into canonical JSON records.

Each source type has its own adapter. Records are deduplicated by a
deterministic content id, so re-running over unchanged input writes
nothing new.

Sources:
  scotus    Supreme Court opinions (JSON, XML, TXT)
  uscode    U.S. Code sections (XML, TXT)
  private   Licensed reference works (Black's Law, AmJur)
  custom    Generic corpora already close to the canonical shape

Examples:
  caselex normalize scotus
  caselex normalize uscode --src ./raw/uscode --limit 100
  caselex normalize custom --source-tag custom --overwrite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.src, "src", "", "Source directory (default: <source_dir>/<source>)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output directory (default: case_dir from config)")
	cmd.Flags().StringVar(&opts.sourceTag, "source-tag", "", "Override the source tag stamped on records")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would be written without writing")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Process at most N source files (0 = all)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace existing records instead of skipping duplicates")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Force the parallel worker pool")
	cmd.Flags().BoolVar(&opts.sequential, "no-parallel", false, "Force sequential processing")

	return cmd
}

func runNormalize(cmd *cobra.Command, source string, opts normalizeOptions) error {
	if opts.parallel && opts.sequential {
		return fmt.Errorf("--parallel and --no-parallel are mutually exclusive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := adapter.ForSource(source)
	if err != nil {
		return err
	}

	src := opts.src
	if src == "" {
		src = filepath.Join(cfg.Paths.SourceDir, source)
	}
	out := opts.out
	if out == "" {
		out = cfg.Paths.CaseDir
	}

	runOpts := normalize.Options{
		SourceDir:         src,
		OutputDir:         out,
		Adapter:           a,
		SourceTag:         opts.sourceTag,
		Workers:           cfg.Performance.Workers,
		Parallel:          opts.parallel,
		ParallelThreshold: cfg.Performance.ParallelThreshold,
		DryRun:            opts.dryRun,
		Limit:             opts.limit,
		Overwrite:         opts.overwrite,
	}
	if opts.sequential {
		// A huge threshold keeps dispatch on the sequential path.
		runOpts.Parallel = false
		runOpts.ParallelThreshold = int(^uint(0) >> 1)
	}

	report, err := normalize.Run(cmd.Context(), runOpts)
	if err != nil {
		return err
	}

	outw := output.New(cmd.OutOrStdout())
	for _, f := range report.Failures {
		outw.Warningf("skip %s: %s", filepath.Base(f.Path), f.Reason)
	}
	if opts.dryRun {
		outw.Plainf("dry-run: %s", report.Summary())
	} else {
		outw.Plain(report.Summary())
	}
	if report.Written > 0 && !opts.dryRun {
		outw.Plain("Next step: run 'caselex ingest' to build embeddings")
	}
	return nil
}
