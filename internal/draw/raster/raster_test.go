package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/traceviewer/internal/draw"
)

func rgba(s *Surface, x, y int) color.RGBA {
	return s.Image().RGBAAt(x, y)
}

func TestFillRespectsClip(t *testing.T) {
	s := New(20, 10)
	s.SetClip(image.Rect(5, 0, 20, 10))
	s.FillRect(image.Rect(0, 0, 10, 10), draw.Blue)

	require.Equal(t, draw.White, rgba(s, 4, 5))
	require.Equal(t, draw.Blue, rgba(s, 5, 5))
	require.Equal(t, draw.White, rgba(s, 10, 5), "max edge is exclusive")

	s.SetClip(image.Rectangle{})
	s.FillRect(image.Rect(0, 0, 1, 1), draw.Blue)
	require.Equal(t, draw.Blue, rgba(s, 0, 0), "empty clip resets to the full surface")
}

func TestStrokeRectOutlinesBorder(t *testing.T) {
	s := New(10, 10)
	s.StrokeRect(image.Rect(2, 2, 6, 6), draw.Black)

	for _, p := range []image.Point{{2, 2}, {5, 2}, {2, 5}, {5, 5}, {3, 2}} {
		require.Equal(t, draw.Black, rgba(s, p.X, p.Y), "%v", p)
	}
	require.Equal(t, draw.White, rgba(s, 3, 3))
	require.Equal(t, draw.White, rgba(s, 6, 6))
}

func TestDashedLine(t *testing.T) {
	s := New(20, 3)
	s.DrawLine(image.Pt(0, 1), image.Pt(15, 1), draw.Blue, draw.Dashed)

	for x := range 16 {
		want := draw.White
		if (x/4)%2 == 0 {
			want = draw.Blue
		}
		require.Equal(t, want, rgba(s, x, 1), "x=%d", x)
	}
}

func TestLinesOutsideClipAreSkipped(t *testing.T) {
	s := New(20, 10)
	s.SetClip(image.Rect(5, 0, 15, 10))

	// Edges billions of pixels away only cost the visible span.
	s.StrokeRect(image.Rect(-4_000_000_000, 2, 4_000_000_000, 6), draw.Black)
	require.Equal(t, draw.Black, rgba(s, 5, 2))
	require.Equal(t, draw.Black, rgba(s, 14, 5))
	require.Equal(t, draw.White, rgba(s, 4, 2))
	require.Equal(t, draw.White, rgba(s, 15, 5))
	require.Equal(t, draw.White, rgba(s, 10, 3))

	s.DrawLine(image.Pt(8, -4_000_000_000), image.Pt(8, 4_000_000_000), draw.Blue, draw.Solid)
	require.Equal(t, draw.Blue, rgba(s, 8, 0))
	require.Equal(t, draw.Blue, rgba(s, 8, 9))
}

func TestHighlightTwiceRestores(t *testing.T) {
	s := New(8, 8)
	s.FillRect(image.Rect(0, 0, 4, 8), draw.Yellow)
	before := bytes.Clone(s.Image().Pix)

	s.Highlight(image.Rect(2, 2, 6, 6), draw.LightGray)
	require.NotEqual(t, before, s.Image().Pix)
	require.Equal(t, color.RGBA{0xc0, 0xc0, 0xc0, 0xff}, rgba(s, 5, 5), "white xor (lightgray xor white)")

	s.Highlight(image.Rect(2, 2, 6, 6), draw.LightGray)
	require.Equal(t, before, s.Image().Pix)
}

func TestTextMetrics(t *testing.T) {
	s := New(100, 20)
	require.Equal(t, 7*len("main"), s.StringWidth("main"))
	require.Equal(t, 13, s.LineHeight())

	w := s.DrawText(image.Pt(1, 1), "main", draw.Black)
	require.Equal(t, s.StringWidth("main"), w)

	inked := false
	for y := range 20 {
		for x := range 100 {
			if rgba(s, x, y) != draw.White {
				inked = true
			}
		}
	}
	require.True(t, inked)
}

func TestWritePNG(t *testing.T) {
	s := New(30, 12)
	draw.Execute(s, draw.Frame{
		draw.FillRect{Rect: image.Rect(0, 0, 30, 12), Color: draw.RowBand},
		draw.Text{At: image.Pt(0, 0), S: "x", Color: draw.Black, Background: draw.Yellow},
	})

	var buf bytes.Buffer
	require.NoError(t, s.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 30, 12), img.Bounds())
}
