package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "osecal.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// The default file was written with restrictive permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Equal(t, "events.json", cfg.JSONFile)
	assert.Equal(t, "calendar.ics", cfg.ICSFile)
	assert.Equal(t, 1, cfg.MinEvents)
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osecal.yaml")

	want := DefaultConfig()
	want.SourceURL = "https://example.org/events.md"
	want.ContextYear = 2025
	want.MinEvents = 3
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialConfigGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osecal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_url: https://example.org/events.md\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/events.md", cfg.SourceURL)
	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, "0 6 * * *", cfg.RefreshCron)
	assert.Equal(t, "ose-calendar", cfg.UIDDomain)
	assert.Equal(t, 1, cfg.MinEvents)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osecal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_url: [unclosed\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
