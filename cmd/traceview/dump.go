package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/pkg/jsonutil"
)

var (
	dumpFormat string

	dumpCmd = &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the decoded function table, events and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openTrace(args[0])
			if err != nil {
				return err
			}

			switch dumpFormat {
			case "json":
				return dumpJSON(cmd.OutOrStdout(), ix)
			case "text":
				dumpText(cmd.OutOrStdout(), ix)
				return nil
			default:
				return fmt.Errorf("unknown format: %s", dumpFormat)
			}
		},
	}
)

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "text", "Output format: text, json")
	rootCmd.AddCommand(dumpCmd)
}

type dumpDoc struct {
	Functions   trace.FunctionTable `json:"functions"`
	Events      []trace.Event       `json:"events"`
	Diagnostics []trace.Diagnostic  `json:"diagnostics"`
}

func dumpJSON(w io.Writer, ix *trace.Index) error {
	return jsonutil.Fprint(w, dumpDoc{
		Functions:   ix.Functions(),
		Events:      ix.Events(),
		Diagnostics: ix.Diagnostics(),
	})
}

func dumpText(w io.Writer, ix *trace.Index) {
	fmt.Fprintf(w, "functions: %d\n", ix.FunctionCount())
	for _, f := range ix.Functions() {
		fmt.Fprintf(w, "  %6d  %s\n", f.ID, f.Name)
	}

	fmt.Fprintf(w, "events: %d\n", len(ix.Events()))
	for _, ev := range ix.Events() {
		line := fmt.Sprintf("  %12dus  %-10s %s", ev.Timestamp, ev.Type, ix.Name(ev.FunctionID))
		if text, ok := ev.Describe(); ok && ev.Type != trace.TypeEnter {
			line += "  " + text
		}
		fmt.Fprintln(w, line)
	}

	if diags := ix.Diagnostics(); len(diags) > 0 {
		fmt.Fprintf(w, "diagnostics: %d\n", len(diags))
		for _, d := range diags {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}
