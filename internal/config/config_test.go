package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMainConfigDefaults(t *testing.T) {
	// A missing config file is a complete default setup.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadMainConfig(filepath.Join(dir, "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "./reports", cfg.ReportDir)
	assert.Equal(t, "_rfa.ASC", cfg.OutputSuffix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.False(t, cfg.ContinueOnError)
}

func TestLoadMainConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
input_dir: ` + filepath.Join(dir, "w2cad") + `
output_dir: ` + filepath.Join(dir, "rfa") + `
report_dir: ` + filepath.Join(dir, "reports") + `
output_suffix: "_converted.ASC"
log_level: debug
max_concurrency: 2
continue_on_error: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadMainConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "w2cad"), cfg.InputDir)
	assert.Equal(t, "_converted.ASC", cfg.OutputSuffix)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.True(t, cfg.ContinueOnError)

	// Directories are created on load.
	for _, d := range []string{cfg.InputDir, cfg.OutputDir, cfg.ReportDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestLoadMainConfigRejectsBadLogLevel(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: loud\n"), 0644))

	_, err := LoadMainConfig(configPath)
	assert.Error(t, err)
}

func TestLoadMainConfigRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("input_dir: [unterminated\n"), 0644))

	_, err := LoadMainConfig(configPath)
	assert.Error(t, err)
}
