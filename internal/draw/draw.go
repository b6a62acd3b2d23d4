// Package draw defines the drawing capabilities a rendering backend
// provides and the primitive operations the timeline emits against them.
//
// A frame is a flat list of primitives applied in order. Backends only
// implement Surface; they never see trace data.
package draw

import (
	"image"
	"image/color"
)

// FontMetrics measures text in the backend's active font.
type FontMetrics interface {
	StringWidth(s string) int
	LineHeight() int
}

// Surface is a pixel-addressed drawing target. Rectangles are half-open
// like image.Rectangle. All operations respect the current clip.
type Surface interface {
	FontMetrics

	Size() (width, height int)

	// SetClip restricts drawing to r. The empty rectangle removes the clip.
	SetClip(r image.Rectangle)

	FillRect(r image.Rectangle, c color.Color)
	// StrokeRect draws a one pixel outline on the border pixels of r.
	StrokeRect(r image.Rectangle, c color.Color)
	DrawLine(from, to image.Point, c color.Color, style LineStyle)
	// DrawText draws s with its top-left corner at p and returns the
	// width drawn.
	DrawText(p image.Point, s string, c color.Color) int
	// Highlight marks r as selected in a way that keeps what is under it
	// readable, such as an XOR or translucent fill.
	Highlight(r image.Rectangle, c color.Color)
}

// LineStyle selects how DrawLine strokes.
type LineStyle int

const (
	Solid LineStyle = iota
	// Dashed alternates four pixels on and four off.
	Dashed
)

// Colours shared by every backend.
var (
	Black     = color.RGBA{0x00, 0x00, 0x00, 0xff}
	White     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Blue      = color.RGBA{0x00, 0x00, 0xff, 0xff}
	Yellow    = color.RGBA{0xff, 0xff, 0x00, 0xff}
	LightGray = color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
	RowBand   = color.RGBA{0xdc, 0xdc, 0xdc, 0xff}
)

// ────────────────────────────────────────────────────────────
// Primitives
// ────────────────────────────────────────────────────────────

// Primitive is one drawing operation.
type Primitive interface {
	Apply(s Surface)
}

// Frame is an ordered list of primitives.
type Frame []Primitive

// Execute applies every primitive of f to s in order.
func Execute(s Surface, f Frame) {
	for _, p := range f {
		p.Apply(s)
	}
}

type FillRect struct {
	Rect  image.Rectangle
	Color color.RGBA
}

func (p FillRect) Apply(s Surface) { s.FillRect(p.Rect, p.Color) }

type StrokeRect struct {
	Rect  image.Rectangle
	Color color.RGBA
}

func (p StrokeRect) Apply(s Surface) { s.StrokeRect(p.Rect, p.Color) }

type Line struct {
	From, To image.Point
	Color    color.RGBA
	Style    LineStyle
}

func (p Line) Apply(s Surface) { s.DrawLine(p.From, p.To, p.Color, p.Style) }

// Text draws a single line anchored at its top-left corner. A non-zero
// Background is filled behind the measured text first.
type Text struct {
	At         image.Point
	S          string
	Color      color.RGBA
	Background color.RGBA
}

func (p Text) Apply(s Surface) {
	if p.Background.A != 0 {
		r := image.Rect(0, 0, s.StringWidth(p.S), s.LineHeight()).Add(p.At)
		s.FillRect(r, p.Background)
	}
	s.DrawText(p.At, p.S, p.Color)
}

// Clip restricts the following primitives to Rect; an empty Rect clears it.
type Clip struct {
	Rect image.Rectangle
}

func (p Clip) Apply(s Surface) { s.SetClip(p.Rect) }

type Highlight struct {
	Rect  image.Rectangle
	Color color.RGBA
}

func (p Highlight) Apply(s Surface) { s.Highlight(p.Rect, p.Color) }
