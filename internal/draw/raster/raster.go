// Package raster implements draw.Surface over an in-memory RGBA image
// using the fixed-size basicfont face.
package raster

import (
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Mr-Dark-debug/traceviewer/internal/draw"
)

const dashLen = 4

// Surface draws into an *image.RGBA.
type Surface struct {
	img  *image.RGBA
	clip image.Rectangle
	face font.Face
}

// New returns a white surface of the given size.
func New(width, height int) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, max(1, width), max(1, height)))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(draw.White), image.Point{}, imagedraw.Src)
	return &Surface{
		img:  img,
		clip: img.Bounds(),
		face: basicfont.Face7x13,
	}
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA { return s.img }

// WritePNG encodes the surface as PNG.
func (s *Surface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) StringWidth(str string) int {
	return font.MeasureString(s.face, str).Ceil()
}

func (s *Surface) LineHeight() int {
	return s.face.Metrics().Height.Ceil()
}

func (s *Surface) SetClip(r image.Rectangle) {
	if r.Empty() {
		s.clip = s.img.Bounds()
		return
	}
	s.clip = r.Intersect(s.img.Bounds())
}

func (s *Surface) FillRect(r image.Rectangle, c color.Color) {
	r = r.Canon().Intersect(s.clip)
	if r.Empty() {
		return
	}
	imagedraw.Draw(s.img, r, image.NewUniform(c), image.Point{}, imagedraw.Over)
}

func (s *Surface) StrokeRect(r image.Rectangle, c color.Color) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	x1, y1 := r.Max.X-1, r.Max.Y-1
	s.DrawLine(r.Min, image.Pt(x1, r.Min.Y), c, draw.Solid)
	s.DrawLine(image.Pt(r.Min.X, y1), image.Pt(x1, y1), c, draw.Solid)
	s.DrawLine(r.Min, image.Pt(r.Min.X, y1), c, draw.Solid)
	s.DrawLine(image.Pt(x1, r.Min.Y), image.Pt(x1, y1), c, draw.Solid)
}

// DrawLine strokes a one pixel line with both end points included.
// Horizontal and vertical lines only visit the part inside the clip.
func (s *Surface) DrawLine(from, to image.Point, c color.Color, style draw.LineStyle) {
	on := func(n int) bool { return style != draw.Dashed || (n/dashLen)%2 == 0 }

	switch {
	case from.Y == to.Y:
		if from.Y < s.clip.Min.Y || from.Y >= s.clip.Max.Y {
			return
		}
		lo := max(min(from.X, to.X), s.clip.Min.X)
		hi := min(max(from.X, to.X), s.clip.Max.X-1)
		for x := lo; x <= hi; x++ {
			if on(abs(x - from.X)) {
				s.img.Set(x, from.Y, c)
			}
		}
		return
	case from.X == to.X:
		if from.X < s.clip.Min.X || from.X >= s.clip.Max.X {
			return
		}
		lo := max(min(from.Y, to.Y), s.clip.Min.Y)
		hi := min(max(from.Y, to.Y), s.clip.Max.Y-1)
		for y := lo; y <= hi; y++ {
			if on(abs(y - from.Y)) {
				s.img.Set(from.X, y, c)
			}
		}
		return
	}

	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
	err := dx + dy
	p := from
	for n := 0; ; n++ {
		if on(n) {
			s.set(p, c)
		}
		if p == to {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
		}
	}
}

func (s *Surface) DrawText(p image.Point, str string, c color.Color) int {
	if s.clip.Empty() {
		return s.StringWidth(str)
	}
	d := font.Drawer{
		Dst:  s.img.SubImage(s.clip).(*image.RGBA),
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.P(p.X, p.Y+s.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(str)
	return (d.Dot.X - fixed.I(p.X)).Ceil()
}

// Highlight XORs every pixel in r with c XOR white, so drawing the same
// highlight twice restores the image.
func (s *Surface) Highlight(r image.Rectangle, c color.Color) {
	r = r.Canon().Intersect(s.clip)
	m := color.RGBAModel.Convert(c).(color.RGBA)
	xr, xg, xb := m.R^0xff, m.G^0xff, m.B^0xff
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := s.img.PixOffset(x, y)
			px := s.img.Pix[i : i+3 : i+3]
			px[0] ^= xr
			px[1] ^= xg
			px[2] ^= xb
		}
	}
}

func (s *Surface) set(p image.Point, c color.Color) {
	if p.In(s.clip) {
		s.img.Set(p.X, p.Y, c)
	}
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
