// Package analysis provides deterministic statistics over reconstructed
// call intervals.
//
// Key capabilities:
//   - Per-function call counts and duration statistics
//   - Duration hotspot detection via Z-score analysis
//   - Duration drift detection via linear regression
//   - Share of traced time per function
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/pkg/timeutil"
)

// Analyzer computes statistics for one indexed trace.
type Analyzer struct {
	ix *trace.Index
}

// NewAnalyzer creates an analyzer over ix.
func NewAnalyzer(ix *trace.Index) *Analyzer {
	return &Analyzer{ix: ix}
}

// ============================================================
// Function Statistics
// ============================================================

// FunctionStats summarizes the calls of one function.
type FunctionStats struct {
	FunctionID    int32   `json:"function_id"`
	Name          string  `json:"name"`
	Calls         int     `json:"calls"`
	TotalUs       int64   `json:"total_us"`
	MeanUs        float64 `json:"mean_us"`
	MinUs         int64   `json:"min_us"`
	MaxUs         int64   `json:"max_us"`
	DebugOutputs  int     `json:"debug_outputs"`
	DanglingExits int     `json:"dangling_exits"`
	OpenAtEnd     bool    `json:"open_at_end"`
	Percentage    float64 `json:"percentage"` // of the traced span
}

// FunctionStats returns one entry per function in table order.
func (a *Analyzer) FunctionStats() []FunctionStats {
	fns := a.ix.Functions()
	stats := make([]FunctionStats, len(fns))
	slot := make(map[int32]int, len(fns))
	for i, f := range fns {
		stats[i] = FunctionStats{FunctionID: f.ID, Name: f.Name}
		slot[f.ID] = i
	}

	a.ix.Reconstructor().Walk(trace.Visitor{
		Interval: func(iv trace.Interval) bool {
			s := &stats[slot[iv.FunctionID]]
			d := iv.Duration()
			if s.Calls == 0 || d < s.MinUs {
				s.MinUs = d
			}
			if d > s.MaxUs {
				s.MaxUs = d
			}
			s.Calls++
			s.TotalUs += d
			return true
		},
		Marker: func(m trace.Marker) bool {
			if m.Type == trace.TypeDebugOut {
				stats[slot[m.FunctionID]].DebugOutputs++
			}
			return true
		},
		Dangling: func(_ int, ev trace.Event) {
			stats[slot[ev.FunctionID]].DanglingExits++
		},
	})

	for _, iv := range a.ix.Reconstructor().OpenAtEnd() {
		stats[slot[iv.FunctionID]].OpenAtEnd = true
	}

	span := a.tracedSpan()
	for i := range stats {
		s := &stats[i]
		if s.Calls > 0 {
			s.MeanUs = math.Round(float64(s.TotalUs)/float64(s.Calls)*100) / 100
		}
		if span > 0 {
			s.Percentage = math.Round(float64(s.TotalUs)/float64(span)*10000) / 100
		}
	}
	return stats
}

// tracedSpan returns the time from the first to the last event.
func (a *Analyzer) tracedSpan() int64 {
	events := a.ix.Events()
	if len(events) == 0 {
		return 0
	}
	return events[len(events)-1].Timestamp - events[0].Timestamp
}

// ============================================================
// Duration Hotspot Detection
// ============================================================

// Hotspot identifies a call with an abnormally long duration.
type Hotspot struct {
	FunctionID int32   `json:"function_id"`
	Name       string  `json:"name"`
	StartUs    int64   `json:"start_us"`
	DurationUs int64   `json:"duration_us"`
	ZScore     float64 `json:"z_score"`
	Severity   string  `json:"severity"` // "low", "medium", "high"
}

// DetectHotspots calculates the Z-score of every call duration across
// the trace and returns the outliers.
//
// A Z-score > 1.5 is reported ("low"), > 2.0 is "medium" and > 3.0 is
// "high".
func (a *Analyzer) DetectHotspots() []Hotspot {
	var ivs []trace.Interval
	var sum, sumSq float64
	for iv := range a.ix.Reconstructor().Intervals() {
		d := float64(iv.Duration())
		ivs = append(ivs, iv)
		sum += d
		sumSq += d * d
	}

	if len(ivs) < 2 {
		// Not enough data for meaningful Z-score analysis
		return nil
	}

	n := float64(len(ivs))
	mean := sum / n
	stddev := math.Sqrt(math.Max(0, sumSq/n-mean*mean))
	if stddev == 0 {
		return nil
	}

	var hotspots []Hotspot
	for _, iv := range ivs {
		zScore := (float64(iv.Duration()) - mean) / stddev
		if zScore <= 1.5 {
			continue
		}

		severity := "low"
		if zScore > 3.0 {
			severity = "high"
		} else if zScore > 2.0 {
			severity = "medium"
		}

		hotspots = append(hotspots, Hotspot{
			FunctionID: iv.FunctionID,
			Name:       a.ix.Name(iv.FunctionID),
			StartUs:    iv.Start,
			DurationUs: iv.Duration(),
			ZScore:     math.Round(zScore*100) / 100,
			Severity:   severity,
		})
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].ZScore > hotspots[j].ZScore
	})
	return hotspots
}

// ============================================================
// Duration Drift
// ============================================================

// DriftReport describes how the call duration of one function changes
// over the course of the trace.
type DriftReport struct {
	FunctionID int32   `json:"function_id"`
	Name       string  `json:"name"`
	Calls      int     `json:"calls"`
	Slope      float64 `json:"slope"` // microseconds of duration per second of trace
	Intercept  float64 `json:"intercept"`
	RSquared   float64 `json:"r_squared"`
	IsGrowing  bool    `json:"is_growing"`
}

// dataPoint represents a single observation for regression analysis.
type dataPoint struct {
	x float64 // seconds since the first event
	y float64 // call duration in microseconds
}

// AnalyzeDrift fits duration against start time for every function with
// at least three calls. A function is growing when the fit is good and
// each second of trace adds more than a microsecond to its calls.
func (a *Analyzer) AnalyzeDrift() []DriftReport {
	events := a.ix.Events()
	if len(events) == 0 {
		return nil
	}
	base := events[0].Timestamp

	points := make(map[int32][]dataPoint)
	for iv := range a.ix.Reconstructor().Intervals() {
		points[iv.FunctionID] = append(points[iv.FunctionID], dataPoint{
			x: float64(iv.Start-base) / float64(timeutil.Second),
			y: float64(iv.Duration()),
		})
	}

	var reports []DriftReport
	for _, f := range a.ix.Functions() {
		pts := points[f.ID]
		if len(pts) < 3 {
			continue
		}
		slope, intercept, rSquared := linearRegression(pts)
		reports = append(reports, DriftReport{
			FunctionID: f.ID,
			Name:       f.Name,
			Calls:      len(pts),
			Slope:      math.Round(slope*1000) / 1000,
			Intercept:  math.Round(intercept*100) / 100,
			RSquared:   math.Round(rSquared*1000) / 1000,
			IsGrowing:  slope > 1 && rSquared > 0.7,
		})
	}
	return reports
}

// linearRegression computes ordinary least squares regression.
// Returns slope (m), intercept (b), and R-squared goodness of fit.
func linearRegression(points []dataPoint) (slope, intercept, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for _, p := range points {
		sumX += p.x
		sumY += p.y
		sumXY += p.x * p.y
		sumX2 += p.x * p.x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for _, p := range points {
		predicted := slope*p.x + intercept
		ssRes += (p.y - predicted) * (p.y - predicted)
		ssTot += (p.y - meanY) * (p.y - meanY)
	}

	if ssTot == 0 {
		rSquared = 1.0
	} else {
		rSquared = 1 - ssRes/ssTot
	}

	return slope, intercept, rSquared
}

// ============================================================
// Full Analysis Report
// ============================================================

// Report is the complete output of `traceview stats`.
type Report struct {
	Source        string             `json:"source"`
	GeneratedAt   string             `json:"generated_at"`
	Functions     int                `json:"functions"`
	Events        int                `json:"events"`
	SpanUs        int64              `json:"span_us"`
	Diagnostics   []trace.Diagnostic `json:"diagnostics,omitempty"`
	FunctionStats []FunctionStats    `json:"function_stats"`
	Hotspots      []Hotspot          `json:"hotspots"`
	Drift         []DriftReport      `json:"drift"`
	Warnings      []string           `json:"warnings"`
}

// FullAnalysis runs every pass and collects warnings for the notable
// findings.
func (a *Analyzer) FullAnalysis(source string) *Report {
	report := &Report{
		Source:        source,
		GeneratedAt:   time.Now().Format(time.RFC3339),
		Functions:     a.ix.FunctionCount(),
		Events:        len(a.ix.Events()),
		SpanUs:        a.tracedSpan(),
		Diagnostics:   a.ix.Diagnostics(),
		FunctionStats: a.FunctionStats(),
		Hotspots:      a.DetectHotspots(),
		Drift:         a.AnalyzeDrift(),
	}

	if n := a.ix.DanglingExits(); n > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d exit(s) without a matching enter were ignored.", n))
	}
	for _, s := range report.FunctionStats {
		if s.OpenAtEnd {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s was still running when the trace ended.", s.Name))
		}
	}
	for _, d := range report.Drift {
		if d.IsGrowing {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("⚠ GROWING DURATION: %s calls slow down by %.1fus per second (R²=%.3f).",
					d.Name, d.Slope, d.RSquared))
		}
	}
	for _, h := range report.Hotspots {
		if h.Severity == "high" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("⚠ DURATION HOTSPOT: %s at %s took %s (Z-score: %.2f).",
					h.Name, timeutil.FormatMicros(h.StartUs), timeutil.FormatMicros(h.DurationUs), h.ZScore))
		}
	}

	return report
}

// FormatReport generates a human-readable markdown report.
func FormatReport(report *Report) string {
	var b strings.Builder

	b.WriteString("# Trace Analysis Report\n\n")
	fmt.Fprintf(&b, "**Source:** `%s`\n", report.Source)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.GeneratedAt)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Functions | %d |\n", report.Functions)
	fmt.Fprintf(&b, "| Events | %d |\n", report.Events)
	fmt.Fprintf(&b, "| Traced Span | %s |\n", timeutil.FormatMicros(report.SpanUs))
	fmt.Fprintf(&b, "| Diagnostics | %d |\n\n", len(report.Diagnostics))

	if len(report.FunctionStats) > 0 {
		b.WriteString("## Functions\n\n")
		b.WriteString("| Function | Calls | Total | Mean | Min | Max | % | Debug |\n")
		b.WriteString("|----------|-------|-------|------|-----|-----|---|-------|\n")
		for _, s := range report.FunctionStats {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %.1f%% | %d |\n",
				s.Name, s.Calls,
				timeutil.FormatMicros(s.TotalUs),
				timeutil.FormatMicros(int64(math.Round(s.MeanUs))),
				timeutil.FormatMicros(s.MinUs),
				timeutil.FormatMicros(s.MaxUs),
				s.Percentage, s.DebugOutputs)
		}
		b.WriteString("\n")
	}

	if len(report.Hotspots) > 0 {
		b.WriteString("## Duration Hotspots\n\n")
		b.WriteString("| Function | Start | Duration | Z-Score | Severity |\n")
		b.WriteString("|----------|-------|----------|---------|----------|\n")
		for _, h := range report.Hotspots {
			fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %s |\n",
				h.Name, timeutil.FormatMicros(h.StartUs), timeutil.FormatMicros(h.DurationUs),
				h.ZScore, h.Severity)
		}
		b.WriteString("\n")
	}

	if len(report.Drift) > 0 {
		b.WriteString("## Duration Drift\n\n")
		for _, d := range report.Drift {
			fmt.Fprintf(&b, "- **%s:** %.3f us/s over %d calls (R² %.3f)", d.Name, d.Slope, d.Calls, d.RSquared)
			if d.IsGrowing {
				b.WriteString(" ⚠")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(report.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
