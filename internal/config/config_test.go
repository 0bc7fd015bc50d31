package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("NAVSPLIT_CONFIG", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", c.Database.Path)
	assert.Equal(t, "", c.Seed.Path)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "players", c.UI.Tag)
	assert.Equal(t, slog.LevelInfo, c.LogLevel())
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/navsplit.db
log:
  level: debug
ui:
  tag: sessions
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/navsplit.db", c.Database.Path)
	assert.Equal(t, slog.LevelDebug, c.LogLevel())
	assert.Equal(t, "sessions", c.UI.Tag)
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "navsplit"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "navsplit", "config.yaml"),
		[]byte("seed:\n  path: league.cue\n"), 0o644))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "league.cue", c.Seed.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  tag: sports\n"), 0o644))
	t.Setenv("NAVSPLIT_CONFIG", path)
	t.Setenv("NAVSPLIT_UI_TAG", "sessions")
	t.Setenv("NAVSPLIT_DATABASE_PATH", "env.db")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sessions", c.UI.Tag)
	assert.Equal(t, "env.db", c.Database.Path)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("ui:\n  tag: coaches\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "ui.tag")

	t.Setenv("NAVSPLIT_LOG_LEVEL", "loud")
	_, err = Load("")
	assert.ErrorContains(t, err, "log.level")
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/navsplit/config.yaml", DefaultPath())
}
