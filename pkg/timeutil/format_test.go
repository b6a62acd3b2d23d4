package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatMicros(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0us"},
		{120, "120us"},
		{999, "999us"},
		{1_500, "1.5ms"},
		{-2_000_000, "-2.0s"},
		{59_999_999, "60.0s"},
		{90 * Second, "1.5m"},
		{Hour + 12*Minute, "1.2h"},
		{250 * Hour, "250.0h"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatMicros(tt.in), "%d", tt.in)
	}
}

func TestTickLabel(t *testing.T) {
	require.Equal(t, "400us", TickLabel(400, 200))
	require.Equal(t, "6ms", TickLabel(6_000, 2_000))
	require.Equal(t, "15s", TickLabel(15*Second, 5*Second))
	require.Equal(t, "3m", TickLabel(3*Minute, 100*Second))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "just now", relativeTo(now, now))
	require.Equal(t, "5s ago", relativeTo(now.Add(-5*time.Second), now))
	require.Equal(t, "2m ago", relativeTo(now.Add(-2*time.Minute), now))
	require.Equal(t, "3h ago", relativeTo(now.Add(-3*time.Hour), now))
	require.Equal(t, "2d ago", relativeTo(now.Add(-49*time.Hour), now))
}
