package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/navsplit/internal/store"
)

// journaledDB runs the passing scenario with --db and returns the database.
func journaledDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := writeFile(t, dir, "drop.yaml", passingScenario)
	dbPath := filepath.Join(dir, "navsplit.db")
	_, err := execute(t, NewRunCommand(textOpts()), "--db", dbPath, path)
	require.NoError(t, err)
	return dbPath
}

func TestReplayMissingDatabase(t *testing.T) {
	out, err := execute(t, NewReplayCommand(textOpts()))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "a database is required")
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, NewReplayCommand(textOpts()), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No finished runs in journal.")
}

func TestReplayDeterministic(t *testing.T) {
	dbPath := journaledDB(t)

	out, err := execute(t, NewReplayCommand(textOpts()), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ drop_jesse")
	assert.Contains(t, out, "✓ 1 run(s) deterministic")
}

func TestReplaySpecificRunJSON(t *testing.T) {
	dbPath := journaledDB(t)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	runs, err := st.Journal().Runs(context.Background())
	require.NoError(t, err)
	require.NoError(t, st.Close())
	require.Len(t, runs, 1)

	out, err := execute(t, NewReplayCommand(jsonOpts()), "--db", dbPath, "--run", runs[0].ID)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			TotalRuns        int  `json:"total_runs"`
			AllDeterministic bool `json:"all_deterministic"`
			Runs             []struct {
				Match        bool     `json:"match"`
				Fingerprints []string `json:"fingerprints"`
			} `json:"runs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.TotalRuns)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Runs, 1)
	assert.True(t, resp.Data.Runs[0].Match)
	assert.Len(t, resp.Data.Runs[0].Fingerprints, 2)
}

func TestReplayUnknownRun(t *testing.T) {
	dbPath := journaledDB(t)

	out, err := execute(t, NewReplayCommand(textOpts()), "--db", dbPath, "--run", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "not found")
}

func TestReplaySeedMismatch(t *testing.T) {
	dbPath := journaledDB(t)
	seedPath := writeFile(t, t.TempDir(), "other.cue", `players: [{name: "Jesse"}]
sports: []
sessions: []
`)

	out, err := execute(t, NewReplayCommand(textOpts()), "--db", dbPath, "--seed", seedPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "was recorded with seed")
}
