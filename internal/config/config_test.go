package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "_zart", cfg.ClosedDirSuffix)
	assert.Equal(t, "(zárt_ülés)", cfg.ClosedMarker)
	assert.Equal(t, 8, cfg.HeadLines)
	assert.Equal(t, 2, cfg.TailLines)
	assert.Equal(t, ".pdf", cfg.RenditionExt)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edtr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("headLines: 6\nlogFormat: json\nrenditionExt: .PDF\n"), 0o644))
	t.Setenv("EDTR_HEAD_LINES", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.HeadLines, "env wins over file")
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ".PDF", cfg.RenditionExt)
	assert.Equal(t, 2, cfg.TailLines, "unset keys keep defaults")
}

func TestLoad_FileZeroCounts(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("EDTR_HEAD_LINES", "")
	t.Setenv("EDTR_TAIL_LINES", "")
	path := filepath.Join(t.TempDir(), "edtr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("headLines: 0\ntailLines: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.HeadLines)
	assert.Equal(t, 0, cfg.TailLines)
	assert.Equal(t, "_zart", cfg.ClosedDirSuffix, "absent keys keep defaults")

	t.Setenv("EDTR_HEAD_LINES", "0")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.HeadLines, "env zero behaves like file zero")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("headLines: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty suffix", func(c *Config) { c.ClosedDirSuffix = "" }},
		{"empty marker", func(c *Config) { c.ClosedMarker = "" }},
		{"negative head", func(c *Config) { c.HeadLines = -1 }},
		{"rendition without dot", func(c *Config) { c.RenditionExt = "pdf" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "debug"
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}
