package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/traceviewer/internal/timeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

// TestLoadOverlaysDefaults verifies fields absent from the file keep
// their defaults, including nested ones.
func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
default_zoom: 300
show_details: false
color_seed: 99
layout:
  row_height: 18
raster:
  width: 640
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := DefaultConfig()
	want.LogLevel = "debug"
	want.DefaultZoom = 256
	want.ShowDetails = false
	want.ColorSeed = 99
	want.Layout.RowHeight = 18
	want.Raster.Width = 640

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, timeline.DefaultLayout().FontHeight, cfg.Layout.FontHeight)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	_, err := Load(writeConfig(t, "layout: [1, 2"))
	require.ErrorContains(t, err, "parsing config file")

	_, err = Load(writeConfig(t, "layout:\n  det_box_size: 0\n"))
	require.ErrorContains(t, err, "layout sizes must be positive")

	_, err = Load(writeConfig(t, "raster:\n  height: -1\n"))
	require.ErrorContains(t, err, "raster size")
}
