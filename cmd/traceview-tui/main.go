// traceview-tui is the interactive terminal viewer for function traces.
//
// Usage:
//
//	traceview-tui [flags] [FILE]
//
// Without FILE it lists the recently opened traces. The view of each
// trace (zoom, pan, selection, row order) is saved on quit and restored
// the next time the trace is opened.
//
// Flags:
//
//	--config  Path to config file (default: ~/.traceviewer/config.yaml)
//	--db      Path to SQLite session database (default from config)
//	--log     Log file (default from config, else ~/.traceviewer/tui.log)
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Mr-Dark-debug/traceviewer/internal/config"
	"github.com/Mr-Dark-debug/traceviewer/internal/logging"
	"github.com/Mr-Dark-debug/traceviewer/internal/session"
	"github.com/Mr-Dark-debug/traceviewer/internal/tui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config file")
	dbPath := flag.String("db", "", "Path to SQLite session database (default from config)")
	logPath := flag.String("log", "", "Log file (default from config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logPath != "" {
		cfg.LogFile = *logPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	// The terminal belongs to the UI, so logs always go to a file.
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(config.Dir(), "tui.log")
	}

	for _, dir := range []string{filepath.Dir(cfg.DBPath), filepath.Dir(cfg.LogFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Sync()

	store, err := session.NewDBService(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open session database at %s: %v", cfg.DBPath, err)
	}
	defer store.Close()

	model := tui.NewModel(store, cfg, logger, flag.Arg(0))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	logger.Info("starting", zap.String("trace", flag.Arg(0)), zap.String("db", cfg.DBPath))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
