package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/traceviewer/internal/timeline"
)

// renderHeader produces the top bar:
//
//	TRACEVIEW  |  app.trc  |  42 functions  |  10512 events  |  3 diagnostics
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("TRACEVIEW")
	sep := headerSepStyle.Render(" │ ")

	var parts []string
	parts = append(parts, brand)

	if m.ix != nil && m.screen == ScreenTimeline {
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render(filepath.Base(m.path)))
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render(
			fmt.Sprintf("%d functions", m.ix.FunctionCount())))
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render(
			fmt.Sprintf("%d events", len(m.ix.Events()))))

		if n := len(m.ix.Diagnostics()); n > 0 {
			parts = append(parts, sep)
			parts = append(parts, headerWarnStyle.Render(
				fmt.Sprintf("%d diagnostics", n)))
		}
	} else {
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render("Recent traces"))
	}

	content := strings.Join(parts, "")

	return headerBarStyle.Width(m.width).Render(content)
}

// renderFooter produces the bottom bar: the position or duration of the
// selection, any status message, and keyboard hints.
func renderFooter(m *Model) string {
	var left, right string

	style := statusStyle
	if m.err != nil {
		style = statusErrStyle
	}

	if m.screen == ScreenTimeline && m.ix != nil {
		status := timeline.Status(m.st)
		if m.ix.IsEmpty() {
			status = emptyTraceText
		}
		if m.statusMsg != "" {
			status += "  " + m.statusMsg
		}
		left = style.Render(status)
		right = m.help.ShortHelpView(m.keys.ShortHelp())
	} else {
		if m.statusMsg != "" {
			left = style.Render(m.statusMsg)
		}
		right = m.help.ShortHelpView(listKeyMap(m.keys).ShortHelp())
	}

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		MaxHeight(1).
		Render(bar)
}
