// Package config holds the settings shared by the traceviewer binaries.
//
// Settings come from three layers, later ones winning: DefaultConfig,
// the YAML file at DefaultPath (or --config), and command-line flags
// bound to the fields of the loaded Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Mr-Dark-debug/traceviewer/internal/timeline"
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
)

// Config holds configuration for the CLI and the TUI.
type Config struct {
	// DBPath is the SQLite session database.
	DBPath string `yaml:"db_path"`

	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// LogFile receives logs. Empty means stderr, which the TUI cannot use.
	LogFile string `yaml:"log_file"`

	DefaultZoom int  `yaml:"default_zoom"`
	ShowDetails bool `yaml:"show_details"`

	// ColorSeed fixes function colours across runs. Zero picks a new
	// palette each time.
	ColorSeed uint64 `yaml:"color_seed"`

	Layout timeline.Layout `yaml:"layout"`
	Raster RasterConfig    `yaml:"raster"`
}

// RasterConfig is the default image size of `traceview render`.
type RasterConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Dir returns ~/.traceviewer.
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".traceviewer")
}

// DefaultPath returns the config file looked up when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBPath:      filepath.Join(Dir(), "sessions.db"),
		LogLevel:    "info",
		DefaultZoom: viewport.DefaultZoom,
		ShowDetails: true,
		Layout:      timeline.DefaultLayout(),
		Raster: RasterConfig{
			Width:  1280,
			Height: 480,
		},
	}
}

// Load overlays the YAML file at path on DefaultConfig. A missing file
// yields the defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the viewer cannot draw with and normalizes
// the zoom to a supported level.
func (c *Config) Validate() error {
	l := c.Layout
	if l.FontHeight <= 0 || l.RowHeight <= 0 || l.HeaderHeight <= 0 || l.DetBoxSize <= 0 {
		return fmt.Errorf("layout sizes must be positive, got %+v", l)
	}
	if c.Raster.Width <= 0 || c.Raster.Height <= 0 {
		return fmt.Errorf("raster size must be positive, got %dx%d", c.Raster.Width, c.Raster.Height)
	}
	c.DefaultZoom = viewport.NormalizeZoom(c.DefaultZoom)
	return nil
}
