// Package timeutil provides time formatting utilities for traceviewer.
//
// Trace timestamps are microseconds from the start of capture (int64).
// Session bookkeeping uses Unix nanoseconds like the rest of the
// database layer. This package turns both into display strings for the
// status line, the timeline ruler and the recent-traces list.
package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

// Microsecond multiples used by the display ladders.
const (
	Microsecond int64 = 1
	Millisecond       = 1_000 * Microsecond
	Second            = 1_000 * Millisecond
	Minute            = 60 * Second
	Hour              = 60 * Minute
)

var statusUnits = []struct {
	size int64
	name string
}{
	{Microsecond, "us"},
	{Millisecond, "ms"},
	{Second, "s"},
	{Minute, "m"},
	{Hour, "h"},
}

// FormatMicros formats a signed microsecond count with the largest unit
// not exceeding its magnitude. Microseconds print as an integer, larger
// units with one decimal.
// Examples: "120us", "1.5ms", "-2.0s", "1.2h"
func FormatMicros(us int64) string {
	abs := us
	if abs < 0 {
		abs = -abs
	}

	u := statusUnits[0]
	for i, cand := range statusUnits {
		u = cand
		if i < len(statusUnits)-1 && abs < statusUnits[i+1].size {
			break
		}
	}

	if u.size == Microsecond {
		return strconv.FormatInt(us, 10) + u.name
	}
	return fmt.Sprintf("%.1f%s", float64(us)/float64(u.size), u.name)
}

// TickLabel formats a ruler position t in whole units chosen by the tick
// spacing: spacings below a millisecond label in us, below a second in
// ms, below a minute in s, and minutes otherwise.
func TickLabel(t, spacing int64) string {
	switch {
	case spacing < Millisecond:
		return strconv.FormatInt(t, 10) + "us"
	case spacing < Second:
		return strconv.FormatInt(t/Millisecond, 10) + "ms"
	case spacing < Minute:
		return strconv.FormatInt(t/Second, 10) + "s"
	default:
		return strconv.FormatInt(t/Minute, 10) + "m"
	}
}

// ────────────────────────────────────────────────────────────
// Wall clock
// ────────────────────────────────────────────────────────────

// FromNano converts a Unix nanosecond timestamp to time.Time.
func FromNano(ns int64) time.Time {
	return time.Unix(0, ns)
}

// NowNano returns the current time as Unix nanoseconds.
func NowNano() int64 {
	return time.Now().UnixNano()
}

// FormatTimestampFull formats a Unix nanosecond timestamp with date.
// Format: "2006-01-02 15:04:05"
func FormatTimestampFull(ns int64) string {
	return FromNano(ns).Format("2006-01-02 15:04:05")
}

// RelativeTime returns a human-readable relative time string.
// Examples: "just now", "5s ago", "2m ago", "1h ago"
func RelativeTime(ns int64) string {
	return relativeTo(FromNano(ns), time.Now())
}

func relativeTo(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Second:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
