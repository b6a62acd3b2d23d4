// Package timeline turns an indexed trace and a viewport into something a
// host can show: hit-tests for the pointer and the caret, row navigation,
// the status line, and a frame of draw primitives.
//
// Everything here is a pure function of (*trace.Index, viewport.State,
// Layout). Nothing is cached between calls.
package timeline

import "image"

// Layout holds the vertical metrics of the timeline in surface pixels.
// Rows start below a header that carries the time ruler.
type Layout struct {
	FontHeight   int `yaml:"font_height"`
	RowHeight    int `yaml:"row_height"`
	HeaderHeight int `yaml:"header_height"`
	DetBoxSize   int `yaml:"det_box_size"`
}

// DefaultLayout returns the metrics used by the raster renderer.
func DefaultLayout() Layout {
	return Layout{
		FontHeight:   14,
		RowHeight:    15,
		HeaderHeight: 16,
		DetBoxSize:   6,
	}
}

// CellLayout returns metrics for character-cell surfaces, where one
// pixel is one terminal cell.
func CellLayout() Layout {
	return Layout{
		FontHeight:   1,
		RowHeight:    1,
		HeaderHeight: 2,
		DetBoxSize:   1,
	}
}

// RowTop returns the y of the first pixel of row.
func (l Layout) RowTop(row int) int {
	return l.HeaderHeight + row*l.RowHeight
}

// RowMid returns the y of the mid-line of row.
func (l Layout) RowMid(row int) int {
	return l.RowTop(row) + l.RowHeight/2
}

// RowBand returns the full-height band of row between x0 and x1.
func (l Layout) RowBand(row, x0, x1 int) image.Rectangle {
	return image.Rect(x0, l.RowTop(row), x1, l.RowTop(row)+l.RowHeight)
}

// RowAt returns the row under y, or -1 above the first row. Callers
// clamp the result to the number of rows.
func (l Layout) RowAt(y int) int {
	if y < l.HeaderHeight || l.RowHeight <= 0 {
		return -1
	}
	return (y - l.HeaderHeight) / l.RowHeight
}

// MarkerBox returns the hit box of a marker at screen x on row: a square
// of side DetBoxSize centred on (x, RowMid(row)).
func (l Layout) MarkerBox(x, row int) image.Rectangle {
	x0 := x - l.DetBoxSize/2
	y0 := l.RowMid(row) - l.DetBoxSize/2
	return image.Rect(x0, y0, x0+l.DetBoxSize, y0+l.DetBoxSize)
}

// RowsHeight returns the height needed to show n rows below the header.
func (l Layout) RowsHeight(n int) int {
	return l.RowTop(n)
}
