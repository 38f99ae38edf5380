package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.Equal(t, "kvpath", cfg.App.Name)
	require.Equal(t, "auto", cfg.Output.Format)
	require.Equal(t, 2, cfg.Output.YAML.Indent)
	require.True(t, cfg.Output.YAML.LiteralBlockStrings)
	require.False(t, cfg.Resolve.Indexing)
	require.Equal(t, "info", cfg.Log.Level)
	require.NotEmpty(t, DefaultYAML())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def, err := Default()
	require.NoError(t, err)
	require.Equal(t, def, cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `resolve:
  indexing: true
output:
  yaml:
    indent: 4
log:
  console: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Resolve.Indexing)
	require.False(t, cfg.Resolve.Decode)
	require.Equal(t, 4, cfg.Output.YAML.Indent)
	require.True(t, cfg.Output.YAML.LiteralBlockStrings)
	require.Equal(t, "auto", cfg.Output.Format)
	require.True(t, cfg.Log.Console)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadExplicitFalseOverridesDefault(t *testing.T) {
	path := writeConfig(t, "output:\n  yaml:\n    literal_block_strings: false\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.False(t, cfg.Output.YAML.LiteralBlockStrings)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "\n"))
	require.NoError(t, err)
	require.Equal(t, "auto", cfg.Output.Format)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "output:\n  formt: json\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolvePath(t *testing.T) {
	require.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.Equal(t, "", ResolvePath(""))

	dir := filepath.Join(xdg, "kvpath")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	require.Equal(t, path, ResolvePath(""))
}
