package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetServeFlags(t *testing.T) {
	t.Helper()
	serveConfigPath = ""
	serveCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestResolveServeConfig_Defaults(t *testing.T) {
	resetServeFlags(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "")

	cfg, err := resolveServeConfig(serveCmd)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "checkpoints", cfg.CheckpointDir)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestResolveServeConfig_RequiresAPIKey(t *testing.T) {
	resetServeFlags(t)
	t.Setenv("GEMINI_API_KEY", "")

	_, err := resolveServeConfig(serveCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestResolveServeConfig_ConfigFileWithFlagOverride(t *testing.T) {
	resetServeFlags(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"listen_addr": ":9090",
		"provider": "gemini",
		"model": "gemini-2.5-pro",
		"api_key": "config-key"
	}`), 0o644))
	serveConfigPath = path

	require.NoError(t, serveCmd.Flags().Set("addr", ":7070"))

	cfg, err := resolveServeConfig(serveCmd)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr, "flag overrides config file")
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "config-key", cfg.APIKey)
}
