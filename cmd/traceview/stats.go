package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/traceviewer/internal/analysis"
	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/pkg/jsonutil"
)

var (
	statsFormat string

	statsCmd = &cobra.Command{
		Use:   "stats FILE",
		Short: "Per-function call statistics and hotspots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openTrace(args[0])
			if err != nil {
				return err
			}
			if ix.IsEmpty() {
				return fmt.Errorf("analyzing %s: %w", args[0], trace.ErrEmptyTrace)
			}

			report := analysis.NewAnalyzer(ix).FullAnalysis(args[0])
			out := cmd.OutOrStdout()

			switch statsFormat {
			case "json":
				return jsonutil.Fprint(out, report)
			case "markdown":
				fmt.Fprint(out, analysis.FormatReport(report))
			default:
				return fmt.Errorf("unknown format: %s", statsFormat)
			}
			return nil
		},
	}
)

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "markdown", "Output format: markdown, json")
	rootCmd.AddCommand(statsCmd)
}
