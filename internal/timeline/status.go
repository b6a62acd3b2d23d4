package timeline

import (
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
	"github.com/Mr-Dark-debug/traceviewer/pkg/timeutil"
)

// Status returns the status line for the selection: its length as
// "Duration = 1.5ms", or the caret as "Position = 120us".
func Status(st viewport.State) string {
	lo, hi := st.Selection()
	if lo == hi {
		return "Position = " + timeutil.FormatMicros(lo)
	}
	return "Duration = " + timeutil.FormatMicros(hi-lo)
}
