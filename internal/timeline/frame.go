package timeline

import (
	"image"
	"strconv"
	"strings"

	"github.com/Mr-Dark-debug/traceviewer/internal/draw"
	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
	"github.com/Mr-Dark-debug/traceviewer/pkg/timeutil"
)

// BuildFrame composes one full redraw of the timeline for a surface of
// st.Width x st.Height. Primitives are emitted back to front: the name
// column, the ruler, the selected row band, intervals, markers, the
// caret tooltip, and the selection on top.
func BuildFrame(ix *trace.Index, st viewport.State, l Layout, m draw.FontMetrics) draw.Frame {
	b := &frameBuilder{ix: ix, st: st, l: l, m: m}

	b.add(draw.FillRect{Rect: image.Rect(0, 0, st.Width, st.Height), Color: draw.White})
	b.names()
	b.header()

	b.add(draw.Clip{Rect: image.Rect(st.LeftColWidth, 0, st.Width, st.Height)})
	b.ruler()
	b.selectedRow()
	b.intervals()
	if st.ShowDetails {
		b.markers()
	}
	b.tooltip()
	b.selection()
	b.add(draw.Clip{})

	return b.frame
}

type frameBuilder struct {
	ix    *trace.Index
	st    viewport.State
	l     Layout
	m     draw.FontMetrics
	frame draw.Frame
}

func (b *frameBuilder) add(p draw.Primitive) {
	b.frame = append(b.frame, p)
}

func (b *frameBuilder) names() {
	pad := max(0, (b.l.RowHeight-b.m.LineHeight())/2)
	for row := range b.ix.FunctionCount() {
		f, _ := b.ix.FunctionAt(row)
		fg := draw.Black
		if row == b.st.SelectedRow {
			b.add(draw.FillRect{Rect: b.l.RowBand(row, 0, b.st.LeftColWidth), Color: draw.Yellow})
			fg = draw.Blue
		}
		b.add(draw.Text{At: image.Pt(0, b.l.RowTop(row)+pad), S: f.Name, Color: fg})
	}
}

func (b *frameBuilder) header() {
	left, y := b.st.LeftColWidth, b.l.HeaderHeight-1
	b.add(draw.Line{From: image.Pt(left, y), To: image.Pt(b.st.Width, y), Color: draw.Black})
	b.add(draw.Line{From: image.Pt(left-1, 0), To: image.Pt(left-1, b.st.Height), Color: draw.Black})
}

func (b *frameBuilder) ruler() {
	e := b.st.Engine()
	unit := e.TickInterval()
	for tick := range e.Ticks(b.st.Pan, b.st.Width) {
		b.add(draw.Text{At: image.Pt(tick.X, 0), S: timeutil.TickLabel(tick.Time, unit), Color: draw.Black})
	}
}

func (b *frameBuilder) selectedRow() {
	row := b.st.SelectedRow
	if row < 0 || row >= b.ix.FunctionCount() {
		return
	}
	b.add(draw.FillRect{Rect: b.l.RowBand(row, b.st.LeftColWidth, b.st.Width), Color: draw.RowBand})
}

func (b *frameBuilder) intervals() {
	h := b.l.FontHeight
	outline := min(h+1, b.l.RowHeight)
	for iv := range b.ix.Reconstructor().Intervals() {
		xs, xe := b.st.ToScreen(iv.Start), b.st.ToScreen(iv.End)
		if xe < b.st.LeftColWidth || xs >= b.st.Width {
			continue
		}
		// Clipped edges land one pixel outside the trace area.
		xs = max(xs, b.st.LeftColWidth-1)
		xe = min(xe, b.st.Width+1)
		top := b.l.RowTop(iv.Row)
		b.add(draw.FillRect{Rect: image.Rect(xs, top, xe, top+h), Color: b.ix.Color(iv.FunctionID)})
		b.add(draw.StrokeRect{Rect: image.Rect(xs, top, xe+1, top+outline), Color: draw.Black})
	}
}

func (b *frameBuilder) markers() {
	det := b.l.DetBoxSize
	charW := b.m.StringWidth("x")
	for mk := range b.ix.Reconstructor().Markers() {
		x := b.st.ToScreen(mk.Timestamp)
		if x+det < b.st.LeftColWidth || x-det >= b.st.Width {
			continue
		}
		box := b.l.MarkerBox(x, mk.Row)
		box.Max = box.Max.Add(image.Pt(1, 1))
		box = box.Intersect(b.l.RowBand(mk.Row, box.Min.X, box.Max.X))
		b.add(draw.FillRect{Rect: box, Color: draw.Blue})

		if mk.Type == trace.TypeExit {
			label := strconv.FormatInt(int64(mk.ExitPoint), 10)
			b.add(draw.Text{At: image.Pt(x-charW, b.l.RowTop(mk.Row)), S: label, Color: draw.Blue})
		}
	}
}

// tooltip shows the description of the event under a caret on the
// selected row, one line of text per line below the row.
func (b *frameBuilder) tooltip() {
	if !b.st.IsCaret() {
		return
	}
	text, ok := HoverAtTime(b.ix, b.st, b.st.SelStart)
	if !ok {
		return
	}
	x := b.st.ToScreen(b.st.SelStart)
	top := b.l.RowTop(b.st.SelectedRow) + b.l.RowHeight + b.l.RowHeight/2
	for k, line := range strings.Split(text, "\n") {
		b.add(draw.Text{
			At:         image.Pt(x, top+k*b.l.RowHeight),
			S:          line,
			Color:      draw.Black,
			Background: draw.Yellow,
		})
	}
}

func (b *frameBuilder) selection() {
	lo, hi := b.st.Selection()
	x0, x1 := b.st.ToScreen(lo), b.st.ToScreen(hi)
	top, bottom := b.l.HeaderHeight, b.st.Height

	if x1 > x0 {
		b.add(draw.Highlight{Rect: image.Rect(x0, top, x1, bottom), Color: draw.LightGray})
	}
	b.add(draw.Line{From: image.Pt(x0, top), To: image.Pt(x0, bottom-1), Color: draw.Blue, Style: draw.Dashed})
	if lo != hi {
		b.add(draw.Line{From: image.Pt(x1, top), To: image.Pt(x1, bottom-1), Color: draw.Blue, Style: draw.Dashed})
	}
}
