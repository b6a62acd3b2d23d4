package tui

import (
	"fmt"

	"github.com/Mr-Dark-debug/traceviewer/internal/timeline"
	"github.com/Mr-Dark-debug/traceviewer/pkg/timeutil"
)

// renderDetail renders the two-line pane under the timeline: totals for
// the selected function and the text of the sample under the pointer or
// at the caret.
func renderDetail(m *Model) string {
	function := detailValueStyle.Render("no row selected")
	if f, ok := m.ix.FunctionAt(m.st.SelectedRow); ok {
		s := m.stats[f.ID]
		function = detailValueStyle.Render(truncate(fmt.Sprintf(
			"%s  calls %d  total %s  mean %s  max %s",
			f.Name, s.Calls,
			timeutil.FormatMicros(s.TotalUs),
			timeutil.FormatMicros(int64(s.MeanUs)),
			timeutil.FormatMicros(s.MaxUs),
		), max(0, m.width-14)))
	}

	text := m.hover
	if text == "" && m.st.IsCaret() {
		text, _ = timeline.HoverAtTime(m.ix, m.st, m.st.SelEnd)
	}
	sample := detailHoverStyle.Render(truncate(text, max(0, m.width-14)))

	content := detailRow("Function", function) + "\n" + detailRow("Sample", sample)
	return panelStyle.Width(m.width).Render(content)
}

// detailRow renders a fixed-width label followed by a styled value.
func detailRow(label, value string) string {
	return detailLabelStyle.Render(fmt.Sprintf("%-10s", label)) + value
}
