package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/h0rv/fetchlist/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, fetch.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, fetch.DefaultPath, cfg.Path)
	assert.Equal(t, TagsRandom, cfg.Tags)
	assert.NotEmpty(t, cfg.LogFile)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:8080
path: /items.json
user_agent: custom/1.0
tags: Round-Robin
log_file: /tmp/fetchlist-test.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "/items.json", cfg.Path)
	assert.Equal(t, "custom/1.0", cfg.UserAgent)
	assert.Equal(t, TagsRoundRobin, cfg.Tags)
	assert.Equal(t, "/tmp/fetchlist-test.log", cfg.LogFile)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "path: /other.json\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, fetch.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "/other.json", cfg.Path)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "base_url: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidTags(t *testing.T) {
	path := writeConfig(t, "tags: sequential\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidTagMode)
}

func TestOverride(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, cfg.Override("http://example.com", "", "round-robin"))
	assert.Equal(t, "http://example.com", cfg.BaseURL)
	assert.Equal(t, fetch.DefaultPath, cfg.Path)
	assert.Equal(t, TagsRoundRobin, cfg.Tags)

	assert.ErrorIs(t, cfg.Override("", "", "bogus"), ErrInvalidTagMode)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/x/y.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y.yaml"), got)

	_, err = expandPath("  ")
	assert.Error(t, err)
}
