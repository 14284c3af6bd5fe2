package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args against dbPath.
func run(t *testing.T, dbPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--db", dbPath))
	err := rootCmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("DEBIAS_CONFIG", "")
	t.Setenv("DEBIAS_DB", "")
	return filepath.Join(dir, "data", "debias.db")
}

func TestVersion(t *testing.T) {
	db := isolate(t)
	out, err := run(t, db, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "debias (devel)\n", out)
}

func TestCatalog_FilterByCategory(t *testing.T) {
	db := isolate(t)
	out, err := run(t, db, "", "catalog", "--category", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "hindsight-bias")
	assert.NotContains(t, out, "anchoring-bias")

	_, err = run(t, db, "", "catalog", "--category", "nonsense")
	assert.Error(t, err)
}

func TestCatalog_HintStaysInCategory(t *testing.T) {
	db := isolate(t)
	out, err := run(t, db, "", "catalog", "--category", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "debias view availability-heuristic")

	_, err = run(t, db, "", "view", "availability-heuristic")
	require.NoError(t, err)
	out, err = run(t, db, "", "catalog", "--category", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "debias view hindsight-bias")
}

func TestAddBiasThenCatalog(t *testing.T) {
	db := isolate(t)
	out, err := run(t, db, "", "add-bias",
		"--title", "Spotlight Effect",
		"--category", "social",
		"--summary", "Believing others notice you far more than they do.")
	require.NoError(t, err)
	assert.Contains(t, out, "spotlight-effect")

	out, err = run(t, db, "", "catalog", "--category", "social")
	require.NoError(t, err)
	assert.Contains(t, out, "spotlight-effect")
}

func TestReviewRejectsBadQuality(t *testing.T) {
	db := isolate(t)
	_, err := run(t, db, "", "review", "anchoring-bias", "meh")
	assert.Error(t, err)

	_, err = run(t, db, "", "review", "anchoring-bias")
	assert.Error(t, err, "a lone id is not a valid argument list")
}

func TestExportImportRoundTrip(t *testing.T) {
	db := isolate(t)
	_, err := run(t, db, "", "view", "anchoring-bias")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "backup.json")
	_, err = run(t, db, "", "export", file)
	require.NoError(t, err)
	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"bias_id": "anchoring-bias"`)

	other := filepath.Join(t.TempDir(), "other.db")
	_, err = run(t, other, "", "import", file, "--replace")
	require.NoError(t, err)
	out, err := run(t, other, "", "catalog", "--category", "decision")
	require.NoError(t, err)
	assert.Contains(t, out, "viewed 1×")
}

func TestResetNeedsConfirmation(t *testing.T) {
	db := isolate(t)
	_, err := run(t, db, "", "view", "halo-effect")
	require.NoError(t, err)

	out, err := run(t, db, "no\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = run(t, db, "yes\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Learner data reset.")

	out, err = run(t, db, "", "catalog", "--category", "social")
	require.NoError(t, err)
	assert.NotContains(t, out, "viewed")
}
