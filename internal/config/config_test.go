package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, RetrievalLocal, cfg.RetrievalBackend)
	require.Equal(t, ":8787", cfg.HTTPAddr)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("VIBECUT_HTTP_ADDR", ":9999")
	t.Setenv("VIBECUT_RETRIEVAL_BACKEND", "external")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.HTTPAddr)
	require.Equal(t, RetrievalExternal, cfg.RetrievalBackend)
}

func TestLoad_InvalidRetrievalBackendErrors(t *testing.T) {
	t.Setenv("VIBECUT_RETRIEVAL_BACKEND", "quantum")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_YAMLFileIsLowerPriorityThanEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vibecut.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7000\"\ndb_path: \"/from/yaml.db\"\n"), 0o600))

	t.Setenv("VIBECUT_CONFIG_FILE", path)
	t.Setenv("VIBECUT_HTTP_ADDR", ":6000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/from/yaml.db", cfg.DBPath, "yaml-only field should take effect")
	require.Equal(t, ":6000", cfg.HTTPAddr, "env var must win over the yaml file")
}

func TestLoad_MissingConfigFileIsSilentlyIgnored(t *testing.T) {
	t.Setenv("VIBECUT_CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	_, err := Load()
	require.NoError(t, err)
}

func TestSchedulerPollInterval_ConvertsMillisecondsToDuration(t *testing.T) {
	cfg := Config{SchedulerPollMS: 250}
	require.Equal(t, int64(250), cfg.SchedulerPollInterval().Milliseconds())
}
