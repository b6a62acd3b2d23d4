package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
)

// execute runs the root command with a private config and database.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	base := []string{
		"--config", filepath.Join(dir, "absent.yaml"),
		"--db", filepath.Join(dir, "db", "sessions.db"),
		"--log-level", "error",
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(base, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSynth(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synth.trc")
	functions, events := synthesize(2, 2, 3)

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, trace.Encode(f, functions, events))
	require.NoError(t, f.Close())
	return path
}

func TestRenderWritesPNG(t *testing.T) {
	path := writeSynth(t)
	out := filepath.Join(t.TempDir(), "out.png")

	_, err := execute(t, "render", path, "-o", out, "--width", "400", "--height", "0", "--row", "1")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 400, img.Bounds().Dx())
	// Three rows of 15 below a 16 pixel header, plus one spare row.
	require.Equal(t, 16+3*15+15, img.Bounds().Dy())
}

func TestRenderRejectsEmptyTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.trc")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, trace.Encode(f, trace.FunctionTable{{ID: 1, Name: "main"}}, nil))
	require.NoError(t, f.Close())

	_, err = execute(t, "render", path, "-o", filepath.Join(t.TempDir(), "x.png"))
	require.ErrorIs(t, err, trace.ErrEmptyTrace)
}

func TestStatsJSON(t *testing.T) {
	stdout, err := execute(t, "stats", writeSynth(t), "--format", "json")
	require.NoError(t, err)

	var report struct {
		Functions     int `json:"functions"`
		FunctionStats []struct {
			Name  string `json:"name"`
			Calls int    `json:"calls"`
		} `json:"function_stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Equal(t, 3, report.Functions)
	require.Len(t, report.FunctionStats, 3)
	require.Equal(t, "main", report.FunctionStats[0].Name)
	require.Equal(t, 1, report.FunctionStats[0].Calls)
}

func TestDumpText(t *testing.T) {
	stdout, err := execute(t, "dump", writeSynth(t))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "functions: 3\n"))
	require.Contains(t, stdout, "level_2")
	require.Contains(t, stdout, "exit_point:")
	require.NotContains(t, stdout, "diagnostics:")
}

func TestRecentEmpty(t *testing.T) {
	stdout, err := execute(t, "recent")
	require.NoError(t, err)
	require.Equal(t, "No traces opened yet.\n", stdout)
}

func TestUnknownFormat(t *testing.T) {
	_, err := execute(t, "stats", writeSynth(t), "--format", "xml")
	require.ErrorContains(t, err, "unknown format")
}
