package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "EDTR_CONFIG"

type Config struct {
	// Closed-session markers
	ClosedDirSuffix string `yaml:"closedDirSuffix"`
	ClosedMarker    string `yaml:"closedMarker"`

	// Markup repair
	HeadLines    int    `yaml:"headLines"`
	TailLines    int    `yaml:"tailLines"`
	VendorPrefix string `yaml:"vendorPrefix"`

	// Trailing rendition removed after a successful rewrite
	RenditionExt string `yaml:"renditionExt"`

	// Logging
	LogFormat string `yaml:"logFormat"`
	LogLevel  string `yaml:"logLevel"`

	// Preview server
	PreviewAddr string `yaml:"previewAddr"`
}

func Defaults() Config {
	return Config{
		ClosedDirSuffix: "_zart",
		ClosedMarker:    "(zárt_ülés)",
		HeadLines:       8,
		TailLines:       2,
		VendorPrefix:    "pd4ml",
		RenditionExt:    ".pdf",
		LogFormat:       "text",
		LogLevel:        "info",
		PreviewAddr:     "127.0.0.1:8090",
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order. An empty path falls back to
// EDTR_CONFIG.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		// Keys present in the file overwrite the defaults, absent keys keep them.
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ClosedDirSuffix = envOr("EDTR_CLOSED_DIR_SUFFIX", cfg.ClosedDirSuffix)
	cfg.ClosedMarker = envOr("EDTR_CLOSED_MARKER", cfg.ClosedMarker)
	cfg.HeadLines = envInt("EDTR_HEAD_LINES", cfg.HeadLines)
	cfg.TailLines = envInt("EDTR_TAIL_LINES", cfg.TailLines)
	cfg.VendorPrefix = envOr("EDTR_VENDOR_PREFIX", cfg.VendorPrefix)
	cfg.RenditionExt = envOr("EDTR_RENDITION_EXT", cfg.RenditionExt)
	cfg.LogFormat = envOr("EDTR_LOG_FORMAT", cfg.LogFormat)
	cfg.LogLevel = envOr("EDTR_LOG_LEVEL", cfg.LogLevel)
	cfg.PreviewAddr = envOr("EDTR_PREVIEW_ADDR", cfg.PreviewAddr)

	return cfg, nil
}

func (c Config) Validate() error {
	if c.ClosedDirSuffix == "" {
		return fmt.Errorf("closed directory suffix is required")
	}
	if c.ClosedMarker == "" {
		return fmt.Errorf("closed marker is required")
	}
	if c.HeadLines < 0 || c.TailLines < 0 {
		return fmt.Errorf("head/tail line counts must not be negative (got %d/%d)", c.HeadLines, c.TailLines)
	}
	if c.RenditionExt != "" && !strings.HasPrefix(c.RenditionExt, ".") {
		return fmt.Errorf("rendition extension must start with a dot: %q", c.RenditionExt)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel onto a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
