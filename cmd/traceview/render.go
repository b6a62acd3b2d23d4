package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mr-Dark-debug/traceviewer/internal/draw"
	"github.com/Mr-Dark-debug/traceviewer/internal/draw/raster"
	"github.com/Mr-Dark-debug/traceviewer/internal/session"
	"github.com/Mr-Dark-debug/traceviewer/internal/timeline"
	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
)

var (
	renderOutput   string
	renderZoom     int
	renderPan      int64
	renderWidth    int
	renderHeight   int
	renderRow      int
	renderSelStart int64
	renderSelEnd   int64
	renderDetails  bool
	renderRestore  bool

	renderCmd = &cobra.Command{
		Use:   "render FILE",
		Short: "Draw a trace timeline to a PNG file",
		Long: "Draw a trace timeline to a PNG file.\n\n" +
			"The view starts from the configured defaults, or from the view saved\n" +
			"by the TUI with --restore; flags given explicitly override both.\n" +
			"--height 0 fits every row.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openTrace(args[0])
			if err != nil {
				return err
			}
			if ix.IsEmpty() {
				return fmt.Errorf("rendering %s: %w", args[0], trace.ErrEmptyTrace)
			}

			st := viewport.NewState()
			st.SetZoom(cfg.DefaultZoom)
			st.ShowDetails = cfg.ShowDetails
			if renderRestore {
				if err := restoreView(args[0], &st, ix); err != nil {
					return err
				}
			}
			applyRenderFlags(cmd, &st, ix)

			width, height := cfg.Raster.Width, cfg.Raster.Height
			if cmd.Flags().Changed("width") {
				width = renderWidth
			}
			if cmd.Flags().Changed("height") {
				height = renderHeight
			}
			if height <= 0 {
				height = cfg.Layout.RowsHeight(ix.FunctionCount()) + cfg.Layout.RowHeight
			}
			if width <= 0 {
				return fmt.Errorf("width must be positive, got %d", width)
			}

			surf := raster.New(width, height)
			st.Width, st.Height = surf.Size()
			st.LeftColWidth = viewport.LeftColumnWidth(ix.Functions().Names(), surf)
			draw.Execute(surf, timeline.BuildFrame(ix, st, cfg.Layout, surf))

			f, err := os.Create(renderOutput)
			if err != nil {
				return fmt.Errorf("creating %s: %w", renderOutput, err)
			}
			if err := surf.WritePNG(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", renderOutput, err)
			}

			logger.Info("rendered timeline",
				zap.String("trace", args[0]),
				zap.String("output", renderOutput),
				zap.Int("zoom", st.Zoom),
				zap.Int64("pan_us", st.Pan),
				zap.String("status", timeline.Status(st)),
			)
			return nil
		},
	}
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "timeline.png", "Output PNG file")
	renderCmd.Flags().IntVar(&renderZoom, "zoom", viewport.DefaultZoom, "Zoom level, a power of two")
	renderCmd.Flags().Int64Var(&renderPan, "pan", 0, "Leftmost visible time in microseconds")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Image width in pixels (default from config)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "Image height in pixels, 0 fits all rows (default from config)")
	renderCmd.Flags().IntVar(&renderRow, "row", -1, "Selected row, -1 for none")
	renderCmd.Flags().Int64Var(&renderSelStart, "sel-start", 0, "Selection start in microseconds")
	renderCmd.Flags().Int64Var(&renderSelEnd, "sel-end", 0, "Selection end in microseconds")
	renderCmd.Flags().BoolVar(&renderDetails, "details", true, "Draw sample markers")
	renderCmd.Flags().BoolVar(&renderRestore, "restore", false, "Start from the view saved by traceview-tui")
	_ = renderCmd.MarkFlagFilename("output", "png")

	rootCmd.AddCommand(renderCmd)
}

// restoreView applies the saved session view of path. A trace never
// opened in the TUI keeps the defaults.
func restoreView(path string, st *viewport.State, ix *trace.Index) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	key, err := session.Key(path)
	if err != nil {
		return err
	}
	v, err := store.LoadView(key)
	if errors.Is(err, session.ErrNotFound) {
		logger.Warn("no saved view, using defaults", zap.String("trace", key))
		return nil
	}
	if err != nil {
		return err
	}
	if err := v.Restore(st, ix); err != nil {
		logger.Warn("saved row order not applied", zap.Error(err))
	}
	return nil
}

// applyRenderFlags overrides st with the flags set on the command line.
func applyRenderFlags(cmd *cobra.Command, st *viewport.State, ix *trace.Index) {
	flags := cmd.Flags()
	if flags.Changed("zoom") {
		st.SetZoom(renderZoom)
	}
	if flags.Changed("pan") {
		st.PanTo(renderPan, -1)
	}
	if flags.Changed("row") {
		st.SetSelectedRow(renderRow, ix.FunctionCount())
	}
	if flags.Changed("sel-start") {
		st.SelStart = renderSelStart
	}
	if flags.Changed("sel-end") {
		st.SelEnd = renderSelEnd
	}
	if flags.Changed("details") {
		st.ShowDetails = renderDetails
	}
}
