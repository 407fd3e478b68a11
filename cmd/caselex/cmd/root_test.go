package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

// execute runs the CLI with the given arguments and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := NewRootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "normalize")
	assert.Contains(t, out, "ingest")
	assert.Contains(t, out, "query")
	assert.Contains(t, out, "validate")
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := execute(t, "definitely-not-a-command")
	require.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "caselex")
}

func TestVersionCmd_JSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"go_version"`)
}

func TestNormalizeCmd_UnknownSource(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := execute(t, "normalize", "wikipedia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter")
}

func TestNormalizeCmd_ConflictingParallelFlags(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := execute(t, "normalize", "custom", "--parallel", "--no-parallel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestQueryCmd_MissingStore(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CASELEX_DATA_DIR", t.TempDir())

	_, err := execute(t, "query", "anything")
	require.Error(t, err)
}

// TestPipeline exercises the full normalize -> ingest -> query -> validate
// flow against a temporary data directory.
func TestPipeline(t *testing.T) {
	chdir(t, t.TempDir())
	dataDir := t.TempDir()
	t.Setenv("CASELEX_DATA_DIR", dataDir)

	srcDir := filepath.Join(dataDir, "sources", "custom")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "lochner.json"), []byte(
		`{"case_name": "Lochner v. New York", "summary": "Liberty of contract under the due process clause."}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "wickard.json"), []byte(
		`{"case_name": "Wickard v. Filburn", "summary": "Aggregate effects on interstate commerce."}`), 0o644))

	out, err := execute(t, "normalize", "custom")
	require.NoError(t, err)
	assert.Contains(t, out, "written=2")

	// Re-running is a no-op.
	out, err = execute(t, "normalize", "custom")
	require.NoError(t, err)
	assert.Contains(t, out, "written=0 skipped-duplicate=2")

	out, err = execute(t, "ingest")
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 2 cases")

	out, err = execute(t, "query", "Liberty of contract under the due process clause.", "--top-k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Lochner v. New York")
	assert.NotContains(t, out, "Wickard")

	out, err = execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
}

func TestValidateCmd_ReportsFindings(t *testing.T) {
	chdir(t, t.TempDir())
	caseDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(caseDir, "bad.json"),
		[]byte(`{"case_name": "", "summary": ""}`), 0o644))

	out, err := execute(t, "validate", caseDir)
	require.Error(t, err)
	assert.Contains(t, out, "case_name")
	assert.Contains(t, err.Error(), "validation finding")
}
