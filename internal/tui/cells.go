package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/traceviewer/internal/draw"
)

// ────────────────────────────────────────────────────────────
// Cell surface
// ────────────────────────────────────────────────────────────

// cell is one terminal character. A zero rune marks the second half of
// a wide character drawn in the cell to its left.
type cell struct {
	r       rune
	fg, bg  color.RGBA
	reverse bool
}

// cellSurface implements draw.Surface on a grid of terminal cells, one
// pixel per cell. Lines and outlines become box-drawing glyphs.
type cellSurface struct {
	termMetrics

	w, h  int
	cells []cell
	clip  image.Rectangle
}

func newCellSurface(w, h int) *cellSurface {
	s := &cellSurface{
		w:     max(0, w),
		h:     max(0, h),
		cells: make([]cell, max(0, w)*max(0, h)),
	}
	s.clip = s.bounds()
	for i := range s.cells {
		s.cells[i] = cell{r: ' ', fg: draw.Black, bg: draw.White}
	}
	return s
}

func (s *cellSurface) bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }

func (s *cellSurface) at(x, y int) *cell {
	if !image.Pt(x, y).In(s.clip) {
		return nil
	}
	return &s.cells[y*s.w+x]
}

// termMetrics measures text in terminal cells.
type termMetrics struct{}

func (termMetrics) StringWidth(str string) int { return lipgloss.Width(str) }
func (termMetrics) LineHeight() int            { return 1 }

func (s *cellSurface) Size() (int, int) { return s.w, s.h }

func (s *cellSurface) SetClip(r image.Rectangle) {
	if r.Empty() {
		s.clip = s.bounds()
		return
	}
	s.clip = r.Intersect(s.bounds())
}

func (s *cellSurface) FillRect(r image.Rectangle, c color.Color) {
	bg := toRGBA(c)
	r = r.Intersect(s.clip)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.cells[y*s.w+x] = cell{r: ' ', fg: draw.Black, bg: bg}
		}
	}
}

func (s *cellSurface) StrokeRect(r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	fg := toRGBA(c)
	x0, x1 := r.Min.X, r.Max.X-1
	y0, y1 := r.Min.Y, r.Max.Y-1
	for y := max(y0, s.clip.Min.Y); y <= min(y1, s.clip.Max.Y-1); y++ {
		if x0 == x1 {
			s.glyph(x0, y, '│', fg)
			continue
		}
		s.glyph(x0, y, '▏', fg)
		s.glyph(x1, y, '▕', fg)
	}
	if y1 > y0 {
		for x := max(x0+1, s.clip.Min.X); x < min(x1, s.clip.Max.X); x++ {
			s.glyph(x, y0, '▔', fg)
			s.glyph(x, y1, '▁', fg)
		}
	}
}

// DrawLine draws horizontal and vertical lines with box-drawing
// characters and anything else as a trail of dots.
func (s *cellSurface) DrawLine(from, to image.Point, c color.Color, style draw.LineStyle) {
	fg := toRGBA(c)
	horiz, vert := '─', '│'
	if style == draw.Dashed {
		horiz, vert = '┄', '┊'
	}

	switch {
	case from.Y == to.Y:
		lo := max(min(from.X, to.X), s.clip.Min.X)
		hi := min(max(from.X, to.X), s.clip.Max.X-1)
		for x := lo; x <= hi; x++ {
			s.glyph(x, from.Y, horiz, fg)
		}
	case from.X == to.X:
		lo := max(min(from.Y, to.Y), s.clip.Min.Y)
		hi := min(max(from.Y, to.Y), s.clip.Max.Y-1)
		for y := lo; y <= hi; y++ {
			s.glyph(from.X, y, vert, fg)
		}
	default:
		dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
		sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
		e := dx + dy
		x, y := from.X, from.Y
		for {
			s.glyph(x, y, '·', fg)
			if x == to.X && y == to.Y {
				return
			}
			e2 := 2 * e
			if e2 >= dy {
				e += dy
				x += sx
			}
			if e2 <= dx {
				e += dx
				y += sy
			}
		}
	}
}

func (s *cellSurface) DrawText(p image.Point, str string, c color.Color) int {
	fg := toRGBA(c)
	x := p.X
	for _, r := range str {
		w := lipgloss.Width(string(r))
		if w == 0 {
			continue
		}
		s.glyph(x, p.Y, r, fg)
		for i := 1; i < w; i++ {
			s.glyph(x+i, p.Y, 0, fg)
		}
		x += w
	}
	return x - p.X
}

// Highlight toggles reverse video, so highlighting twice restores the
// cell like an XOR would.
func (s *cellSurface) Highlight(r image.Rectangle, _ color.Color) {
	r = r.Intersect(s.clip)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.cells[y*s.w+x].reverse = !s.cells[y*s.w+x].reverse
		}
	}
}

// glyph sets the rune and foreground of a cell, keeping its background.
func (s *cellSurface) glyph(x, y int, r rune, fg color.RGBA) {
	if c := s.at(x, y); c != nil {
		c.r = r
		c.fg = fg
	}
}

// String renders the whole grid.
func (s *cellSurface) String() string {
	lines := make([]string, s.h)
	for y := range s.h {
		lines[y] = s.line(y)
	}
	return strings.Join(lines, "\n")
}

// line renders row y as runs of identically styled cells.
func (s *cellSurface) line(y int) string {
	var b strings.Builder
	row := s.cells[y*s.w : (y+1)*s.w]
	for x := 0; x < len(row); {
		start := row[x]
		var run strings.Builder
		for x < len(row) && sameStyle(row[x], start) {
			if row[x].r != 0 {
				run.WriteRune(row[x].r)
			}
			x++
		}
		b.WriteString(cellStyle(start).Render(run.String()))
	}
	return b.String()
}

// plain returns the runes of row y without styling.
func (s *cellSurface) plain(y int) string {
	var b strings.Builder
	for _, c := range s.cells[y*s.w : (y+1)*s.w] {
		if c.r != 0 {
			b.WriteRune(c.r)
		}
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.reverse == b.reverse
}

func toRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
