package viewport

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

var allZooms = func() []int {
	var zs []int
	for z := MinZoom; z <= MaxZoom; z *= 2 {
		zs = append(zs, z)
	}
	return zs
}()

func TestNormalizeZoom(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-4, MinZoom},
		{0, MinZoom},
		{2, 2},
		{3, 2},
		{128, 128},
		{200, 128},
		{MaxZoom, MaxZoom},
		{MaxZoom + 1, MaxZoom},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeZoom(tt.in), "zoom %d", tt.in)
	}
}

// TestScreenRoundTrip verifies pixel -> timestamp -> pixel stays within one
// pixel when a microsecond is at most a pixel wide, and within half a
// microsecond's width otherwise.
func TestScreenRoundTrip(t *testing.T) {
	for _, z := range allZooms {
		e := Engine{Zoom: z, LeftColWidth: 63}
		tol := 1
		if s := e.Scale(); s > 1 {
			tol = int(math.Ceil(s / 2))
		}
		for _, pan := range []int64{0, 17, 123_456} {
			for x := e.LeftColWidth; x < e.LeftColWidth+2000; x += 7 {
				got := e.ToScreen(pan, e.ToTimeline(pan, x))
				require.InDelta(t, x, got, float64(tol), "zoom %d pan %d x %d", z, pan, x)
			}
		}
	}
}

// TestTimelineRoundTripExactWhenZoomedIn verifies every microsecond maps to
// a distinct pixel and back when the scale exceeds one.
func TestTimelineRoundTripExactWhenZoomedIn(t *testing.T) {
	for _, z := range allZooms {
		e := Engine{Zoom: z, LeftColWidth: 40}
		if e.Scale() <= 1 {
			continue
		}
		for ts := int64(100); ts < 400; ts++ {
			require.Equal(t, ts, e.ToTimeline(100, e.ToScreen(100, ts)), "zoom %d", z)
		}
	}
}

func TestToScreenMonotonic(t *testing.T) {
	for _, z := range allZooms {
		e := Engine{Zoom: z, LeftColWidth: 10}
		prev := math.MinInt
		for ts := int64(0); ts < 5000; ts += 3 {
			x := e.ToScreen(0, ts)
			require.GreaterOrEqual(t, x, prev, "zoom %d ts %d", z, ts)
			prev = x
		}
	}
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		zoom int
		want int64
	}{
		{2, 100},
		{64, 100},
		{128, 200},
		{256, 500},
		{1024, 1_000},
		{MaxZoom, 500_000_000},
	}
	for _, tt := range tests {
		e := Engine{Zoom: tt.zoom}
		got := e.TickInterval()
		require.Equal(t, tt.want, got, "zoom %d", tt.zoom)
		if tt.zoom < MaxZoom {
			require.GreaterOrEqual(t, float64(got)*e.Scale(), float64(MinTickGap))
		}
	}
}

func TestTicksCoverVisibleSpan(t *testing.T) {
	e := Engine{Zoom: 128, LeftColWidth: 50}
	ticks := slices.Collect(e.Ticks(350, 850))

	require.NotEmpty(t, ticks)
	require.Equal(t, int64(200), ticks[0].Time, "first tick at or before pan")
	for i, tk := range ticks {
		require.Zero(t, tk.Time%200)
		require.Equal(t, e.ToScreen(350, tk.Time), tk.X)
		if i > 0 {
			require.Equal(t, int64(200), tk.Time-ticks[i-1].Time)
		}
	}
	require.LessOrEqual(t, ticks[len(ticks)-1].Time, 350+e.VisibleSpan(850))
}

func TestTicksStopAtMaxTimestamp(t *testing.T) {
	s := NewState()
	s.Width = 850
	s.LeftColWidth = 50
	s.End(math.MaxInt64)

	ticks := slices.Collect(s.Engine().Ticks(s.Pan, s.Width))
	require.NotEmpty(t, ticks)
	require.LessOrEqual(t, len(ticks), 800/MinTickGap+1)
	for i, tk := range ticks {
		require.GreaterOrEqual(t, tk.Time, s.Pan-s.Engine().TickInterval())
		if i > 0 {
			require.Greater(t, tk.Time, ticks[i-1].Time)
		}
	}

	e := Engine{Zoom: 128, LeftColWidth: 50}
	require.NotEmpty(t, slices.Collect(e.Ticks(math.MaxInt64-10, 850)), "pan plus span overflows")
}

type fixedWidth int

func (w fixedWidth) StringWidth(s string) int { return len(s) * int(w) }

func TestLeftColumnWidth(t *testing.T) {
	names := []string{"main", "  parse_args  ", "run"}
	require.Equal(t, (10+1)*7, LeftColumnWidth(names, fixedWidth(7)))
	require.Equal(t, 7, LeftColumnWidth(nil, fixedWidth(7)))
}
