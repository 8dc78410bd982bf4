package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "  ", cfg.Pretty.Indent)
	assert.Equal(t, colorAuto, cfg.Color)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regexr.yaml")
	content := "pretty:\n  indent: \"    \"\ncolor: never\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "    ", cfg.Pretty.Indent)
	assert.Equal(t, colorNever, cfg.Color)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadConfigFromHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "regexr")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "regexr.yaml"), []byte("color: always\n"), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, colorAlways, cfg.Color)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REGEXR_COLOR", "never")
	t.Setenv("REGEXR_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, colorNever, cfg.Color)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	t.Setenv("REGEXR_COLOR", "sometimes")
	_, err := LoadConfig("")
	require.ErrorIs(t, err, ErrInvalidColor)

	t.Setenv("REGEXR_COLOR", "auto")
	t.Setenv("REGEXR_LOGGING_LEVEL", "loud")
	_, err = LoadConfig("")
	require.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestSetupColor(t *testing.T) {
	defer func(prev bool) { color.NoColor = prev }(color.NoColor)

	setupColor(colorAlways, false, os.Stdout)
	assert.False(t, color.NoColor)

	setupColor(colorAlways, true, os.Stdout)
	assert.True(t, color.NoColor)

	setupColor(colorNever, false, os.Stdout)
	assert.True(t, color.NoColor)

	setupColor(colorAuto, false, io.Discard)
	assert.True(t, color.NoColor)
}
