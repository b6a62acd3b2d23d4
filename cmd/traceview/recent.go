package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/traceviewer/pkg/jsonutil"
	"github.com/Mr-Dark-debug/traceviewer/pkg/timeutil"
)

var (
	recentLimit  int
	recentFormat string

	recentCmd = &cobra.Command{
		Use:   "recent",
		Short: "List recently opened traces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			views, err := store.Recent(recentLimit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if recentFormat == "json" {
				return jsonutil.Fprint(out, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(out, "No traces opened yet.")
				return nil
			}
			for _, v := range views {
				fmt.Fprintf(out, "%-10s %4dx  %5d fn %8d ev  %s\n",
					timeutil.RelativeTime(v.OpenedAt), v.OpenCount, v.Functions, v.Events, v.Path)
			}
			return nil
		},
	}
)

func init() {
	recentCmd.Flags().IntVar(&recentLimit, "limit", 20, "Maximum entries")
	recentCmd.Flags().StringVar(&recentFormat, "format", "text", "Output format: text, json")
	rootCmd.AddCommand(recentCmd)
}
