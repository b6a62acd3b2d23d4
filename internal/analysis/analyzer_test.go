package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/pkg/timeutil"
)

func TestLinearRegression(t *testing.T) {
	// Perfect linear: y = 2x + 1
	points := []dataPoint{
		{0, 1}, {1, 3}, {2, 5}, {3, 7}, {4, 9},
	}

	slope, intercept, rSquared := linearRegression(points)

	if math.Abs(slope-2.0) > 0.001 {
		t.Errorf("expected slope=2.0, got %.3f", slope)
	}
	if math.Abs(intercept-1.0) > 0.001 {
		t.Errorf("expected intercept=1.0, got %.3f", intercept)
	}
	if math.Abs(rSquared-1.0) > 0.001 {
		t.Errorf("expected R²=1.0, got %.3f", rSquared)
	}
}

func TestLinearRegressionNoisy(t *testing.T) {
	// Noisy linear data
	points := []dataPoint{
		{0, 1.1}, {1, 2.9}, {2, 5.2}, {3, 6.8}, {4, 9.1},
	}

	slope, _, rSquared := linearRegression(points)

	// Should be approximately slope=2.0 with high R²
	if slope < 1.5 || slope > 2.5 {
		t.Errorf("expected slope ≈ 2.0, got %.3f", slope)
	}
	if rSquared < 0.95 {
		t.Errorf("expected R² > 0.95, got %.3f", rSquared)
	}
}

func TestLinearRegressionConstant(t *testing.T) {
	// All same y values — flat line
	points := []dataPoint{
		{0, 5}, {1, 5}, {2, 5}, {3, 5},
	}

	slope, intercept, rSquared := linearRegression(points)

	if math.Abs(slope) > 0.001 {
		t.Errorf("expected slope=0, got %.3f", slope)
	}
	if math.Abs(intercept-5.0) > 0.001 {
		t.Errorf("expected intercept=5.0, got %.3f", intercept)
	}
	// R² should be 1.0 for a perfect fit (even if slope=0)
	if rSquared < 0.99 {
		t.Errorf("expected R²=1.0, got %.3f", rSquared)
	}
}

func TestLinearRegressionSinglePoint(t *testing.T) {
	points := []dataPoint{{0, 5}}
	slope, _, _ := linearRegression(points)

	if slope != 0 {
		t.Errorf("expected slope=0 for single point, got %.3f", slope)
	}
}

// newHotspotIndex builds ten 10us calls of "fast" and one 1000us call of
// "slow", which lies more than three standard deviations out.
func newHotspotIndex() *trace.Index {
	fns := trace.FunctionTable{{ID: 0, Name: "fast"}, {ID: 1, Name: "slow"}, {ID: 2, Name: "idle"}}
	var events []trace.Event
	for i := range 10 {
		start := int64(i * 100)
		events = append(events, trace.Enter(0, start), trace.Exit(0, start+10, 0))
	}
	events = append(events,
		trace.Enter(1, 2000),
		trace.DebugOut(1, 2500, "halfway"),
		trace.Exit(1, 3000, 1),
		trace.Exit(2, 3000, 0),
	)
	return trace.NewIndex(&trace.Trace{Functions: fns, Events: events}, trace.WithColorSeed(3))
}

func TestFunctionStats(t *testing.T) {
	stats := NewAnalyzer(newHotspotIndex()).FunctionStats()
	if len(stats) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(stats))
	}

	fast, slow, idle := stats[0], stats[1], stats[2]
	if fast.Calls != 10 || fast.TotalUs != 100 || fast.MinUs != 10 || fast.MaxUs != 10 || fast.MeanUs != 10 {
		t.Errorf("unexpected stats for fast: %+v", fast)
	}
	if slow.Calls != 1 || slow.TotalUs != 1000 || slow.DebugOutputs != 1 {
		t.Errorf("unexpected stats for slow: %+v", slow)
	}
	if math.Abs(slow.Percentage-33.33) > 0.001 {
		t.Errorf("expected slow to cover 33.33%% of the span, got %.2f", slow.Percentage)
	}
	if idle.Calls != 0 || idle.DanglingExits != 1 {
		t.Errorf("expected one dangling exit for idle, got %+v", idle)
	}
}

func TestDetectHotspots(t *testing.T) {
	hotspots := NewAnalyzer(newHotspotIndex()).DetectHotspots()
	if len(hotspots) != 1 {
		t.Fatalf("expected 1 hotspot, got %d", len(hotspots))
	}
	h := hotspots[0]
	if h.Name != "slow" || h.DurationUs != 1000 || h.StartUs != 2000 {
		t.Errorf("unexpected hotspot: %+v", h)
	}
	if h.Severity != "high" || h.ZScore <= 3.0 {
		t.Errorf("expected a high severity hotspot, got %s (z=%.2f)", h.Severity, h.ZScore)
	}
}

func TestDetectHotspotsUniform(t *testing.T) {
	fns := trace.FunctionTable{{ID: 0, Name: "f"}}
	events := []trace.Event{
		trace.Enter(0, 0), trace.Exit(0, 5, 0),
		trace.Enter(0, 10), trace.Exit(0, 15, 0),
	}
	ix := trace.NewIndex(&trace.Trace{Functions: fns, Events: events})
	if hs := NewAnalyzer(ix).DetectHotspots(); hs != nil {
		t.Errorf("expected no hotspots for identical durations, got %v", hs)
	}
}

func TestAnalyzeDriftDetectsGrowth(t *testing.T) {
	fns := trace.FunctionTable{{ID: 0, Name: "leaky"}}
	var events []trace.Event
	for i := range 3 {
		start := int64(i) * timeutil.Second
		events = append(events, trace.Enter(0, start), trace.Exit(0, start+int64(10*(i+1)), 0))
	}
	ix := trace.NewIndex(&trace.Trace{Functions: fns, Events: events})

	drift := NewAnalyzer(ix).AnalyzeDrift()
	if len(drift) != 1 {
		t.Fatalf("expected 1 drift report, got %d", len(drift))
	}
	if math.Abs(drift[0].Slope-10) > 0.01 || !drift[0].IsGrowing {
		t.Errorf("expected growing drift of 10us/s, got %+v", drift[0])
	}

	report := NewAnalyzer(ix).FullAnalysis("leaky.bin")
	if !strings.Contains(FormatReport(report), "GROWING DURATION: leaky") {
		t.Errorf("expected a growth warning in the report")
	}
}

func TestFormatReport(t *testing.T) {
	report := NewAnalyzer(newHotspotIndex()).FullAnalysis("hot.bin")
	out := FormatReport(report)

	for _, want := range []string{
		"**Source:** `hot.bin`",
		"| Functions | 3 |",
		"| slow | 1 | 1.0ms |",
		"## Duration Hotspots",
		"DURATION HOTSPOT: slow at 2.0ms took 1.0ms",
		"1 exit(s) without a matching enter",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
