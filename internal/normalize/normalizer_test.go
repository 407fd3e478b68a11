package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselex/caselex/internal/adapter"
	caselexerrors "github.com/caselex/caselex/internal/errors"
	"github.com/caselex/caselex/internal/schema"
)

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func customOptions(t *testing.T) Options {
	t.Helper()
	a, err := adapter.ForSource("custom")
	require.NoError(t, err)
	return Options{
		SourceDir: t.TempDir(),
		OutputDir: t.TempDir(),
		Adapter:   a,
	}
}

func readRecords(t *testing.T, dir string) map[string]schema.Record {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)

	records := make(map[string]schema.Record, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var rec schema.Record
		require.NoError(t, json.Unmarshal(data, &rec))
		records[filepath.Base(path)] = rec
	}
	return records
}

func TestRun_WritesCanonicalRecords(t *testing.T) {
	opts := customOptions(t)
	writeSource(t, opts.SourceDir, "marbury.json",
		`{"case_name": "Marbury v. Madison", "summary": "Judicial review established."}`)

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Found)
	assert.Equal(t, 1, report.Written)

	records := readRecords(t, opts.OutputDir)
	require.Len(t, records, 1)
	rec, ok := records["Marbury_v_Madison.json"]
	require.True(t, ok, "output file uses the sanitized case name")
	assert.Equal(t, "Marbury v. Madison", rec.CaseName)
	assert.Equal(t, schema.ComputeID("Marbury v. Madison", "Judicial review established."), rec.ID)
	assert.Equal(t, schema.SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "custom", rec.Source)
	assert.Empty(t, report.Failures)
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	opts := customOptions(t)
	writeSource(t, opts.SourceDir, "case.json",
		`{"case_name": "Case One", "summary": "First summary."}`)

	first, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Written)

	second, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Written)
	assert.Equal(t, 1, second.Duplicates)

	assert.Len(t, readRecords(t, opts.OutputDir), 1, "re-running must not grow the output set")
}

func TestRun_DeduplicatesIdenticalContent(t *testing.T) {
	opts := customOptions(t)
	// Two source files producing the same (case_name, summary) pair.
	writeSource(t, opts.SourceDir, "a.json", `{"case_name": "Same Case", "summary": "Same text."}`)
	writeSource(t, opts.SourceDir, "b.json", `{"case_name": "Same Case", "summary": "Same text."}`)

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 1, report.Written)
	assert.Equal(t, 1, report.Duplicates)
	assert.Len(t, readRecords(t, opts.OutputDir), 1)
}

func TestRun_NameCollisionGetsSuffix(t *testing.T) {
	opts := customOptions(t)
	// Same case name, different summaries: distinct records that would
	// land on the same sanitized filename.
	writeSource(t, opts.SourceDir, "a.json", `{"case_name": "Shared Name", "summary": "First version."}`)
	writeSource(t, opts.SourceDir, "b.json", `{"case_name": "Shared Name", "summary": "Second version."}`)

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Written)
	assert.Equal(t, 0, report.Duplicates)

	records := readRecords(t, opts.OutputDir)
	require.Len(t, records, 2)
	assert.Contains(t, records, "Shared_Name.json")
	assert.Contains(t, records, "Shared_Name_1.json")
}

func TestRun_MissingSourceDirIsFatal(t *testing.T) {
	opts := customOptions(t)
	opts.SourceDir = filepath.Join(opts.SourceDir, "does-not-exist")

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, caselexerrors.IsFatal(err))
}

func TestRun_NilAdapter(t *testing.T) {
	opts := customOptions(t)
	opts.Adapter = nil

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
}

func TestRun_BadFilesDoNotAbortBatch(t *testing.T) {
	opts := customOptions(t)
	writeSource(t, opts.SourceDir, "good.json", `{"case_name": "Good Case", "summary": "Fine."}`)
	writeSource(t, opts.SourceDir, "broken.json", `{not json`)

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 1, report.Written)
	assert.Equal(t, 1, report.ParseError)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, filepath.Join(opts.SourceDir, "broken.json"), report.Failures[0].Path)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	opts := customOptions(t)
	opts.DryRun = true
	writeSource(t, opts.SourceDir, "case.json", `{"case_name": "Dry Case", "summary": "Not written."}`)

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written, "dry run still reports would-be writes")
	assert.Empty(t, readRecords(t, opts.OutputDir))
}

func TestRun_LimitCapsBatch(t *testing.T) {
	opts := customOptions(t)
	opts.Limit = 2
	for i := 0; i < 5; i++ {
		writeSource(t, opts.SourceDir, fmt.Sprintf("case_%d.json", i),
			fmt.Sprintf(`{"case_name": "Case %d", "summary": "Summary %d."}`, i, i))
	}

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 2, report.Written)
}

func TestRun_OverwriteReplacesExisting(t *testing.T) {
	opts := customOptions(t)
	writeSource(t, opts.SourceDir, "case.json",
		`{"case_name": "Case One", "summary": "Same.", "holding": "Original holding."}`)

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	// Same identity fields, changed optional field.
	writeSource(t, opts.SourceDir, "case.json",
		`{"case_name": "Case One", "summary": "Same.", "holding": "Updated holding."}`)

	opts.Overwrite = true
	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
	assert.Equal(t, 0, report.Duplicates)

	records := readRecords(t, opts.OutputDir)
	require.Len(t, records, 1)
	for _, rec := range records {
		assert.Equal(t, "Updated holding.", rec.Holding)
	}
}

func TestRun_SourceTagOverride(t *testing.T) {
	opts := customOptions(t)
	opts.SourceTag = "scotus"
	writeSource(t, opts.SourceDir, "case.json", `{"case_name": "Tagged Case", "summary": "Text."}`)

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	for _, rec := range readRecords(t, opts.OutputDir) {
		assert.Equal(t, "scotus", rec.Source)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	srcDir := t.TempDir()
	for i := 0; i < 25; i++ {
		writeSource(t, srcDir, fmt.Sprintf("case_%02d.json", i),
			fmt.Sprintf(`{"case_name": "Case %02d", "summary": "Summary %02d."}`, i, i))
	}

	run := func(parallel bool, workers int) []string {
		a, err := adapter.ForSource("custom")
		require.NoError(t, err)
		outDir := t.TempDir()
		report, err := Run(context.Background(), Options{
			SourceDir:         srcDir,
			OutputDir:         outDir,
			Adapter:           a,
			Parallel:          parallel,
			Workers:           workers,
			ParallelThreshold: 1000,
		})
		require.NoError(t, err)
		assert.Equal(t, 25, report.Written)

		names := make([]string, 0, len(report.WrittenPaths))
		for _, p := range report.WrittenPaths {
			names = append(names, filepath.Base(p))
		}
		sort.Strings(names)
		return names
	}

	sequential := run(false, 0)
	parallel := run(true, 4)
	assert.Equal(t, sequential, parallel, "output set is independent of worker scheduling")
}

func TestRun_EmptySourceDir(t *testing.T) {
	opts := customOptions(t)

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Found)
	assert.Equal(t, 0, report.Written)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Marbury v. Madison", "Marbury_v_Madison"},
		{"Brown v. Board of Education", "Brown_v_Board_of_Education"},
		{"USC Title 42 Section 1983", "USC_Title_42_Section_1983"},
		{"a/b\\c:d", "abcd"},
		{"   spaced   out   ", "spaced_out"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), "input %q", tt.in)
	}
}
