package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/traceviewer/pkg/timeutil"
)

// renderRecentList renders the list of recently opened traces.
func renderRecentList(m *Model, height int) string {
	height = max(1, height)
	if len(m.recent) == 0 {
		empty := emptyStateStyle.Render(
			"No traces opened yet.\n\n" +
				"Run traceview-tui FILE to open a trace;\n" +
				"it will be listed here next time.")
		return lipgloss.Place(
			m.width,
			height,
			lipgloss.Center,
			lipgloss.Center,
			empty,
		)
	}

	title := panelTitleStyle.Render("Recent")
	count := traceDimStyle.Render(fmt.Sprintf("  %d traces", len(m.recent)))
	heading := title + count

	var lines []string
	lines = append(lines, heading)
	lines = append(lines, "")

	// Visible range for scrolling
	maxVisible := max(1, height-2)

	startIdx := 0
	if m.selectedRecent >= maxVisible {
		startIdx = m.selectedRecent - maxVisible + 1
	}
	endIdx := min(startIdx+maxVisible, len(m.recent))

	for i := startIdx; i < endIdx; i++ {
		v := m.recent[i]

		// A red dot marks files that are gone from disk.
		statusDot := traceStatusOk.Render("●")
		if _, err := os.Stat(v.Path); err != nil {
			statusDot = traceStatusMissing.Render("●")
		}

		meta := traceDimStyle.Render(fmt.Sprintf("%d fn  %d ev  opened %s (%dx)",
			v.Functions, v.Events, timeutil.RelativeTime(v.OpenedAt), v.OpenCount))
		path := truncateLeft(v.Path, max(10, m.width-lipgloss.Width(meta)-10))

		content := fmt.Sprintf("%s  %s  %s", statusDot, path, meta)

		if i == m.selectedRecent {
			lines = append(lines, traceSelectedStyle.Width(m.width).Render(content))
		} else {
			lines = append(lines, traceItemStyle.Width(m.width).Render(content))
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}
