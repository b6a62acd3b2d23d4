// Package viewport maps trace timestamps to screen pixels and back.
//
// The Engine is pure arithmetic over a zoom factor and the width of the
// left column that holds function names. State is the host-owned view
// (zoom, pan, selection, selected row) and the operations the host
// applies to it in response to user input.
package viewport

import (
	"iter"
	"math"
	"math/bits"
	"strings"
)

const (
	// MinZoom is the most zoomed-in level: 50 px per microsecond.
	MinZoom = 2
	// MaxZoom keeps hour-long traces on a single screen.
	MaxZoom = 1 << 30
	// DefaultZoom is the level a fresh view starts at.
	DefaultZoom = 128

	// MinTickGap is the minimum spacing between gridlines in pixels.
	MinTickGap = 80
)

// tickLadder is {1,2,5} x 10^2..10^8 microseconds.
var tickLadder = []int64{
	100, 200, 500,
	1_000, 2_000, 5_000,
	10_000, 20_000, 50_000,
	100_000, 200_000, 500_000,
	1_000_000, 2_000_000, 5_000_000,
	10_000_000, 20_000_000, 50_000_000,
	100_000_000, 200_000_000, 500_000_000,
}

// Engine converts between timeline microseconds and screen x pixels.
// The zero Engine is usable and behaves as MinZoom.
type Engine struct {
	Zoom         int
	LeftColWidth int
}

// NormalizeZoom clamps z to [MinZoom, MaxZoom] and rounds it down to a
// power of two.
func NormalizeZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return 1 << (bits.Len(uint(z)) - 1)
}

func (e Engine) zoom() int {
	if e.Zoom < MinZoom {
		return MinZoom
	}
	return e.Zoom
}

// Scale returns screen pixels per microsecond.
func (e Engine) Scale() float64 {
	return 100.0 / float64(e.zoom())
}

// ToScreen returns the x pixel of timestamp t when pan is the leftmost
// visible timestamp.
func (e Engine) ToScreen(pan, t int64) int {
	return int(math.Round(float64(t-pan)*e.Scale())) + e.LeftColWidth
}

// ToTimeline returns the timestamp under pixel x. It inverts ToScreen up
// to integer rounding.
func (e Engine) ToTimeline(pan int64, x int) int64 {
	return int64(math.Round(float64(x-e.LeftColWidth)/e.Scale())) + pan
}

// VisibleSpan returns how many microseconds fit in a drawing area of the
// given total width, left column excluded.
func (e Engine) VisibleSpan(width int) int64 {
	w := width - e.LeftColWidth
	if w <= 0 {
		return 0
	}
	return int64(float64(w) / e.Scale())
}

// TickInterval returns the gridline spacing in microseconds: the smallest
// ladder value at least MinTickGap pixels wide, or the ladder top when
// none is wide enough.
func (e Engine) TickInterval() int64 {
	scale := e.Scale()
	for _, v := range tickLadder {
		if float64(v)*scale >= MinTickGap {
			return v
		}
	}
	return tickLadder[len(tickLadder)-1]
}

// Tick is one gridline position.
type Tick struct {
	Time int64
	X    int
}

// Ticks yields the gridlines that fall in a drawing area of the given
// width, starting from the last multiple of the interval at or before
// pan. Ticks before time zero are skipped.
func (e Engine) Ticks(pan int64, width int) iter.Seq[Tick] {
	return func(yield func(Tick) bool) {
		unit := e.TickInterval()
		end := pan + e.VisibleSpan(width)
		if end < pan {
			end = math.MaxInt64
		}
		t := pan - pan%unit
		if t < 0 {
			t = 0
		}
		for t <= end {
			if !yield(Tick{Time: t, X: e.ToScreen(pan, t)}) {
				return
			}
			// Stop before t+unit wraps past MaxInt64.
			if t > end-unit {
				return
			}
			t += unit
		}
	}
}

// ────────────────────────────────────────────────────────────
// Left column
// ────────────────────────────────────────────────────────────

// Measurer reports the rendered width of a string in pixels. Rendering
// backends provide it from their active font.
type Measurer interface {
	StringWidth(s string) int
}

// LeftColumnWidth returns the width of the name column: the widest
// trimmed name plus one character of padding.
func LeftColumnWidth(names []string, m Measurer) int {
	widest := 0
	for _, name := range names {
		if w := m.StringWidth(strings.TrimSpace(name)); w > widest {
			widest = w
		}
	}
	return widest + m.StringWidth("x")
}
