package session

import (
	"fmt"
	"path/filepath"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
)

// Key returns the store key of a trace file: its absolute, cleaned path.
func Key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// Capture returns the saveable part of st and the row order of ix.
func Capture(path string, st viewport.State, ix *trace.Index) *View {
	return &View{
		Path:        path,
		Zoom:        st.Zoom,
		Pan:         st.Pan,
		SelStart:    st.SelStart,
		SelEnd:      st.SelEnd,
		SelectedRow: st.SelectedRow,
		RowOrder:    ix.DisplayOrder(),
		ShowDetails: st.ShowDetails,
		Functions:   ix.FunctionCount(),
		Events:      len(ix.Events()),
	}
}

// Restore applies v to st and ix. Zoom and row are clamped to what the
// trace allows. A saved row order that no longer matches the function
// table is ignored and reported, leaving the rest of the view applied.
func (v *View) Restore(st *viewport.State, ix *trace.Index) error {
	st.SetZoom(v.Zoom)
	st.PanTo(v.Pan, -1)
	st.SetSelection(v.SelStart, v.SelEnd)
	st.SetSelectedRow(v.SelectedRow, ix.FunctionCount())
	st.ShowDetails = v.ShowDetails

	if v.RowOrder == nil {
		return nil
	}
	if err := ix.SetDisplayOrder(v.RowOrder); err != nil {
		return fmt.Errorf("restoring row order of %s: %w", v.Path, err)
	}
	return nil
}
