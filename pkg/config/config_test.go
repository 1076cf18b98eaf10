/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test.
// It mirrors testing.T.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "project.manifest", cfg.Manifest.Path)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, ".backup", cfg.Backup.Suffix)
	assert.Equal(t, "Compile", cfg.Defaults.Phase)
	assert.Equal(t, "Sources", cfg.Defaults.Group)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `manifest:
  path: Custom.manifest
backup:
  enabled: false
  suffix: .bak
defaults:
  phase: Link
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".goproj.yaml"), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Custom.manifest", cfg.Manifest.Path)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, ".bak", cfg.Backup.Suffix)
	assert.Equal(t, "Link", cfg.Defaults.Phase)
	// Unset keys keep their defaults.
	assert.Equal(t, "Sources", cfg.Defaults.Group)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GOPROJ_DEFAULTS_PHASE", "Link")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Link", cfg.Defaults.Phase)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "project.manifest", cfg.Manifest.Path)
	assert.True(t, cfg.Backup.Enabled)
}
