package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScenarioDirectory(t *testing.T) {
	out, err := execute(t, NewValidateCommand(textOpts()), scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 3 file(s) valid")
}

func TestValidateEmbeddedSeedSource(t *testing.T) {
	out, err := execute(t, NewValidateCommand(textOpts()), "../seed/catalog.cue")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 1 file(s) valid")
}

func TestValidateValidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "drop.yaml", passingScenario)

	out, err := execute(t, NewValidateCommand(jsonOpts()), dir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.Files)
}

func TestValidateNonExistentPath(t *testing.T) {
	out, err := execute(t, NewValidateCommand(textOpts()), "/nonexistent/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := execute(t, NewValidateCommand(textOpts()), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no scenario or seed files found")
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    string
		message string
	}{
		{"unknown verb", "s.yaml", "name: x\nsteps:\n  - do: fly\n", ErrCodeInvalidScenario, `unknown verb "fly"`},
		{"unknown field", "s.yaml", "name: x\nstep: []\n", ErrCodeInvalidScenario, "field step not found"},
		{"undecodable step", "s.yaml", "name: x\nsteps:\n  - do: select\n    value: 3\n", ErrCodeInvalidScenario, "select needs a string value"},
		{"missing scenario seed", "s.yaml", "name: x\nseed: missing.cue\nsteps:\n  - do: appear\n", ErrCodeInvalidSeed, "read seed"},
		{"seed syntax", "seed.cue", "players: [", ErrCodeInvalidSeed, ""},
		{"seed duplicate", "seed.cue", `players: [{name: "A"}, {name: "A"}]`, ErrCodeInvalidSeed, `duplicate "A"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			out, err := execute(t, NewValidateCommand(textOpts()), path)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "✗ Validation failed")
			assert.Contains(t, out, tt.code)
			assert.Contains(t, out, tt.message)
		})
	}
}

func TestValidateSeedErrorLine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "seed.cue", "players: [\n\t{name: \"A\"},\n\t{name: \"A\"},\n]\n")

	out, err := execute(t, NewValidateCommand(jsonOpts()), path)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, "players", resp.Data.Errors[0].Field)
	assert.Equal(t, `duplicate "A"`, resp.Data.Errors[0].Message)
}

func TestValidateMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", passingScenario)
	bad := writeFile(t, dir, "bad.yaml", "name: x\nsteps:\n  - do: fly\n")

	out, err := execute(t, NewValidateCommand(textOpts()), good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")
	assert.Contains(t, out, bad)
	assert.NotContains(t, out, good+"\n")
}
