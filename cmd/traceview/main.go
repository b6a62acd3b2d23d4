// traceview is the command-line side of the trace viewer: it renders
// timelines to PNG, prints per-function statistics, dumps decoded
// traces, and writes synthetic traces for testing.
//
// Usage:
//
//	traceview <command> [flags]
//
// Commands:
//
//	render    Draw a trace timeline to a PNG file
//	stats     Per-function call statistics and hotspots
//	dump      Print the decoded function table, events and diagnostics
//	synth     Write a synthetic nested trace
//	recent    List recently opened traces
//	version   Print version information
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mr-Dark-debug/traceviewer/internal/config"
	"github.com/Mr-Dark-debug/traceviewer/internal/logging"
	"github.com/Mr-Dark-debug/traceviewer/internal/session"
	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
)

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	logLevel   string
	dbPath     string

	cfg    config.Config
	logger = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:           "traceview",
		Short:         "Inspect and render function-trace files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				c.LogLevel = logLevel
			}
			if cmd.Flags().Changed("db") {
				c.DBPath = dbPath
			}
			cfg = c

			logger, err = logging.New(cfg.LogLevel, cfg.LogFile)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "traceview v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the session database (default from config)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openTrace loads the trace at path with the configured logger and
// colour seed.
func openTrace(path string) (*trace.Index, error) {
	return trace.Open(path, trace.WithLogger(logger), trace.WithColorSeed(cfg.ColorSeed))
}

// openStore opens the session database, creating its directory.
func openStore() (*session.DBService, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return session.NewDBService(cfg.DBPath)
}
