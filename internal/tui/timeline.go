package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/traceviewer/internal/draw"
	"github.com/Mr-Dark-debug/traceviewer/internal/timeline"
)

const emptyTraceText = "no samples"

// renderTimeline draws the open trace on a cell surface. The frame is
// built for every row; the ruler stays fixed while the rows below it
// scroll to keep the selected row in view.
func renderTimeline(m *Model) string {
	height := m.canvasHeight()
	if height == 0 {
		return ""
	}
	if m.ix.IsEmpty() {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			emptyStateStyle.Render(emptyTraceText))
	}

	st := m.st
	st.Height = max(height, m.layout.RowsHeight(m.ix.FunctionCount()))

	surf := newCellSurface(st.Width, st.Height)
	draw.Execute(surf, timeline.BuildFrame(m.ix, st, m.layout, surf))

	lines := make([]string, 0, height)
	for y := 0; y < m.layout.HeaderHeight && len(lines) < height; y++ {
		lines = append(lines, surf.line(y))
	}
	first := m.layout.RowTop(m.rowDelta)
	for y := first; y < st.Height && len(lines) < height; y++ {
		lines = append(lines, surf.line(y))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
