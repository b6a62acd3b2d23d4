package timeline

import (
	"image"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
)

// Visible reports whether screen x lies in the trace area.
func Visible(st viewport.State, x int) bool {
	return x >= st.LeftColWidth && x < st.Width
}

// HoverAtTime returns the description of the first visible event on the
// selected row whose timestamp is exactly q. ok is false when no row is
// selected or nothing matches.
func HoverAtTime(ix *trace.Index, st viewport.State, q int64) (string, bool) {
	if st.SelectedRow < 0 {
		return "", false
	}
	for k, ev := range ix.Events() {
		if ev.Timestamp != q || !ev.Type.Known() || ix.RowOfEvent(k) != st.SelectedRow {
			continue
		}
		if !Visible(st, st.ToScreen(ev.Timestamp)) {
			continue
		}
		return ev.Describe()
	}
	return "", false
}

// HoverAtPoint returns the description of the first visible event, in
// file order, whose marker box contains p.
func HoverAtPoint(ix *trace.Index, st viewport.State, l Layout, p image.Point) (string, bool) {
	for k, ev := range ix.Events() {
		if !ev.Type.Known() {
			continue
		}
		x := st.ToScreen(ev.Timestamp)
		if !Visible(st, x) {
			continue
		}
		if p.In(l.MarkerBox(x, ix.RowOfEvent(k))) {
			return ev.Describe()
		}
	}
	return "", false
}

// FindPrevOnRow returns the timestamp of the last event on row earlier
// than t, scanning backward from the end of the trace. t is returned
// unchanged when there is none.
func FindPrevOnRow(ix *trace.Index, row int, t int64) int64 {
	events := ix.Events()
	for k := len(events) - 1; k >= 0; k-- {
		if ix.RowOfEvent(k) == row && events[k].Timestamp < t {
			return events[k].Timestamp
		}
	}
	return t
}

// FindNextOnRow returns the timestamp of the first event on row later
// than t. t is returned unchanged when there is none.
func FindNextOnRow(ix *trace.Index, row int, t int64) int64 {
	for k, ev := range ix.Events() {
		if ix.RowOfEvent(k) == row && ev.Timestamp > t {
			return ev.Timestamp
		}
	}
	return t
}
