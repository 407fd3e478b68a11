// Package normalize orchestrates the conversion of raw source files
// into persisted canonical records.
//
// Parsing fans out across a worker pool for large batches; every other
// stage runs in the single aggregation goroutine after the pool joins,
// so no shared mutable state ever crosses a worker boundary and the
// output set is independent of worker scheduling.
package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/caselex/caselex/internal/adapter"
	caselexerrors "github.com/caselex/caselex/internal/errors"
	"github.com/caselex/caselex/internal/schema"
)

// DefaultParallelThreshold is the batch size above which parsing
// switches to the worker pool automatically.
const DefaultParallelThreshold = 10

// Options configures one normalization run.
type Options struct {
	// SourceDir holds the raw input files. Missing is fatal.
	SourceDir string

	// OutputDir receives one JSON file per canonical record.
	OutputDir string

	// Adapter parses raw units into draft records.
	Adapter adapter.Adapter

	// SourceTag overrides the adapter's source tag when non-empty.
	SourceTag string

	// Workers is the pool size for parallel parsing (0 = NumCPU).
	Workers int

	// Parallel forces the worker pool regardless of batch size.
	Parallel bool

	// ParallelThreshold overrides DefaultParallelThreshold when > 0.
	ParallelThreshold int

	// DryRun reports what would be written without writing.
	DryRun bool

	// Limit caps the number of source files processed (0 = no cap).
	Limit int

	// Overwrite replaces existing records instead of skipping
	// duplicates.
	Overwrite bool
}

// Failure records one recovered per-file failure.
type Failure struct {
	Path   string
	Reason string
}

// Report aggregates the outcome of a normalization run. Per-file
// failures never abort the batch; they are counted here instead.
type Report struct {
	Found      int
	Written    int
	Duplicates int
	Invalid    int
	ParseError int

	WrittenPaths []string
	Failures     []Failure
}

// Summary formats the aggregate count report printed after every run.
func (r *Report) Summary() string {
	return fmt.Sprintf("written=%d skipped-duplicate=%d invalid=%d parse-error=%d (of %d files)",
		r.Written, r.Duplicates, r.Invalid, r.ParseError, r.Found)
}

// parseResult is one worker's output: a draft record or a failure.
type parseResult struct {
	path string
	rec  *schema.Record
	err  error
}

// Run executes one normalization batch.
//
// A missing source directory aborts before any work is dispatched.
// After the parse stage joins, drafts are validated, deduplicated by
// content id, and written one file per record.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Adapter == nil {
		return nil, caselexerrors.ConfigError("no adapter selected", nil)
	}

	info, err := os.Stat(opts.SourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, caselexerrors.MissingSourceError(opts.SourceDir)
		}
		return nil, fmt.Errorf("stat %s: %w", opts.SourceDir, err)
	}
	if !info.IsDir() {
		return nil, caselexerrors.ConfigError(
			fmt.Sprintf("source path is not a directory: %s", opts.SourceDir), nil)
	}

	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	files, err := scan(opts.SourceDir, opts.Adapter.Extensions(), opts.Limit)
	if err != nil {
		return nil, err
	}

	report := &Report{Found: len(files)}
	if len(files) == 0 {
		slog.Info("no source files found", slog.String("dir", opts.SourceDir))
		return report, nil
	}

	threshold := opts.ParallelThreshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}

	var results []parseResult
	if opts.Parallel || len(files) > threshold {
		results, err = parseParallel(ctx, opts.Adapter, files, opts.Workers)
	} else {
		results, err = parseSequential(ctx, opts.Adapter, files)
	}
	if err != nil {
		return nil, err
	}

	if err := persist(opts, results, report); err != nil {
		return nil, err
	}
	return report, nil
}

// scan collects the source files matching the adapter's extensions,
// in sorted order for reproducible runs.
func scan(dir string, extensions []string, limit int) ([]string, error) {
	var files []string
	for _, ext := range extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

// parseSequential parses files one at a time in the calling goroutine.
func parseSequential(ctx context.Context, a adapter.Adapter, files []string) ([]parseResult, error) {
	results := make([]parseResult, len(files))
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = parseOne(a, path)
	}
	return results, nil
}

// parseParallel fans files out across a bounded worker pool. Each
// worker writes only its own slot; the errgroup wait is the barrier
// before aggregation.
func parseParallel(ctx context.Context, a adapter.Adapter, files []string, workers int) ([]parseResult, error) {
	results := make([]parseResult, len(files))

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = parseOne(a, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// parseOne reads and parses a single file. Failures are captured in
// the result, never propagated, so one bad file cannot sink the batch.
func parseOne(a adapter.Adapter, path string) parseResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return parseResult{path: path, err: fmt.Errorf("read: %w", err)}
	}

	rec, err := a.Parse(path, data)
	if err != nil {
		return parseResult{path: path, err: err}
	}
	return parseResult{path: path, rec: rec}
}

// persist validates, deduplicates, and writes drafts in file order.
// Running single-threaded after the parse barrier keeps the duplicate
// check-then-write atomic within a run.
func persist(opts Options, results []parseResult, report *Report) error {
	existing, err := indexExistingIDs(opts.OutputDir)
	if err != nil {
		return err
	}

	for _, res := range results {
		name := filepath.Base(res.path)

		if res.err != nil {
			report.ParseError++
			report.Failures = append(report.Failures, Failure{Path: res.path, Reason: res.err.Error()})
			slog.Warn("parse failed", slog.String("file", name), slog.String("error", res.err.Error()))
			continue
		}

		rec := res.rec
		rec.Stamp(opts.SourceTag)

		if errs := schema.Validate(rec); len(errs) > 0 {
			report.Invalid++
			reason := strings.Join(errs, "; ")
			report.Failures = append(report.Failures, Failure{Path: res.path, Reason: reason})
			slog.Warn("invalid record", slog.String("file", name), slog.String("errors", reason))
			continue
		}

		if prior, dup := existing[rec.ID]; dup && !opts.Overwrite {
			report.Duplicates++
			slog.Debug("duplicate skipped",
				slog.String("file", name),
				slog.String("id", rec.ID),
				slog.String("existing", prior))
			continue
		}

		target := existing[rec.ID]
		if target == "" {
			target = chooseTarget(opts.OutputDir, rec, existing)
		}

		if !opts.DryRun {
			if err := writeRecord(target, rec); err != nil {
				return err
			}
		}

		existing[rec.ID] = target
		report.Written++
		report.WrittenPaths = append(report.WrittenPaths, target)
	}

	return nil
}

// indexExistingIDs maps record ids already in the destination to their
// file paths, which is what makes re-ingestion idempotent.
func indexExistingIDs(dir string) (map[string]string, error) {
	index := make(map[string]string)

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var rec schema.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if rec.ID != "" {
			index[rec.ID] = path
		}
	}
	return index, nil
}

// chooseTarget picks the output path for a new record: sanitized case
// name, with a numeric suffix when the name collides with a different
// record.
func chooseTarget(dir string, rec *schema.Record, existing map[string]string) string {
	base := SanitizeName(rec.CaseName)
	if base == "" {
		base = rec.ID
	}

	taken := func(path string) bool {
		if _, err := os.Stat(path); err == nil {
			return true
		}
		for _, p := range existing {
			if p == path {
				return true
			}
		}
		return false
	}

	target := filepath.Join(dir, base+".json")
	for counter := 1; taken(target); counter++ {
		target = filepath.Join(dir, fmt.Sprintf("%s_%d.json", base, counter))
	}
	return target
}

// writeRecord serializes one canonical record to its own file.
func writeRecord(path string, rec *schema.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
