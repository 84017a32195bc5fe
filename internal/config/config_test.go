package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"sector": "fintech",
		"provider": "gemini",
		"model": "gemini-2.5-flash",
		"num_ideas": 5,
		"checkpoint_dir": "/tmp/checkpoints",
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "fintech", cfg.Sector)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 5, cfg.NumIdeas)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Sector: "fintech", Provider: "gemini"}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MutuallyExclusiveSources(t *testing.T) {
	cfg := &Config{Document: "doc.txt", DocumentURL: "https://example.com/doc"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := &Config{Provider: "cohere"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestValidate_NegativeNumIdeas(t *testing.T) {
	cfg := &Config{NumIdeas: -1}
	assert.Error(t, cfg.Validate())
}

func TestValidate_MissingDocument(t *testing.T) {
	cfg := &Config{Document: filepath.Join(t.TempDir(), "absent.txt")}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document file not found")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Sector: "fintech"}
	defaults := Config{
		Sector:    "ignored",
		Provider:  "gemini",
		Model:     "gemini-2.5-flash",
		NumIdeas:  3,
		IdeaIndex: 1,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "fintech", merged.Sector, "explicit value wins")
	assert.Equal(t, "gemini", merged.Provider)
	assert.Equal(t, "gemini-2.5-flash", merged.Model)
	assert.Equal(t, 3, merged.NumIdeas)
	assert.Equal(t, 1, merged.IdeaIndex)
}
