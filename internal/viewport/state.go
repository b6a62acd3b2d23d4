package viewport

// State is the host-owned view of one trace: zoom, pan, selection and the
// selected row. Hosts pass it by value to the pure query functions and
// mutate it only in response to discrete user actions.
type State struct {
	Zoom         int   `json:"zoom"`
	Pan          int64 `json:"pan_us"`
	LeftColWidth int   `json:"left_col_width_px"`
	Width        int   `json:"width_px"`
	Height       int   `json:"height_px"`

	// SelStart and SelEnd form a closed range that may be reversed while
	// the user drags; Selection normalizes it. Equal ends are a caret.
	SelStart int64 `json:"selection_start_us"`
	SelEnd   int64 `json:"selection_end_us"`

	// SelectedRow indexes the display order; -1 means none.
	SelectedRow int `json:"selected_row"`

	ShowDetails bool `json:"show_details"`
}

// NewState returns a view at the default zoom with nothing selected.
func NewState() State {
	return State{
		Zoom:        DefaultZoom,
		SelectedRow: -1,
		ShowDetails: true,
	}
}

// Engine returns the coordinate engine for the current zoom and column.
func (s State) Engine() Engine {
	return Engine{Zoom: s.Zoom, LeftColWidth: s.LeftColWidth}
}

// ToScreen is Engine().ToScreen at the current pan.
func (s State) ToScreen(t int64) int {
	return s.Engine().ToScreen(s.Pan, t)
}

// ToTimeline is Engine().ToTimeline at the current pan.
func (s State) ToTimeline(x int) int64 {
	return s.Engine().ToTimeline(s.Pan, x)
}

// TraceAreaWidth returns the width right of the name column.
func (s State) TraceAreaWidth() int {
	return max(0, s.Width-s.LeftColWidth)
}

// ────────────────────────────────────────────────────────────
// Selection
// ────────────────────────────────────────────────────────────

// Selection returns the selected range with lo <= hi.
func (s State) Selection() (lo, hi int64) {
	if s.SelStart > s.SelEnd {
		return s.SelEnd, s.SelStart
	}
	return s.SelStart, s.SelEnd
}

// IsCaret reports whether the selection is a single point.
func (s State) IsCaret() bool {
	return s.SelStart == s.SelEnd
}

// SetSelection sets both ends of the selection as given.
func (s *State) SetSelection(start, end int64) {
	s.SelStart, s.SelEnd = start, end
}

// SetCaret collapses the selection to t.
func (s *State) SetCaret(t int64) {
	s.SelStart, s.SelEnd = t, t
}

// SetSelectedRow selects row, clamped to [-1, rows-1].
func (s *State) SetSelectedRow(row, rows int) {
	s.SelectedRow = clampRow(row, rows)
}

// MoveSelection moves the selected row by delta without leaving
// [-1, rows-1].
func (s *State) MoveSelection(delta, rows int) {
	s.SelectedRow = clampRow(s.SelectedRow+delta, rows)
}

func clampRow(row, rows int) int {
	if row >= rows {
		row = rows - 1
	}
	if row < -1 {
		row = -1
	}
	return row
}

// ────────────────────────────────────────────────────────────
// Zoom
// ────────────────────────────────────────────────────────────

// SetZoom sets the zoom without moving the pan. Values are clamped and
// rounded down to a power of two.
func (s *State) SetZoom(z int) {
	s.Zoom = NormalizeZoom(z)
}

// ZoomIn halves the zoom, keeping the selection centred. It does nothing
// at MinZoom.
func (s *State) ZoomIn() {
	if NormalizeZoom(s.Zoom) <= MinZoom {
		return
	}
	s.zoomAroundSelection(NormalizeZoom(s.Zoom) / 2)
}

// ZoomOut doubles the zoom, keeping the selection centred. It does
// nothing at MaxZoom.
func (s *State) ZoomOut() {
	if NormalizeZoom(s.Zoom) >= MaxZoom {
		return
	}
	s.zoomAroundSelection(NormalizeZoom(s.Zoom) * 2)
}

// ResetZoom returns to DefaultZoom, keeping the selection centred.
func (s *State) ResetZoom() {
	s.zoomAroundSelection(DefaultZoom)
}

// zoomAroundSelection applies z and pans so the midpoint of the
// selection sits in the middle of the trace area. Pan never goes
// below zero.
func (s *State) zoomAroundSelection(z int) {
	s.Zoom = NormalizeZoom(z)
	mid := (s.SelStart + s.SelEnd) / 2
	s.Pan = max(0, s.Engine().ToTimeline(mid, s.LeftColWidth-s.TraceAreaWidth()/2))
}

// ────────────────────────────────────────────────────────────
// Pan
// ────────────────────────────────────────────────────────────

// ScrollIncrements returns the pan steps in microseconds: block is one
// screenful of the trace area and unit a thirtieth of it.
func (s State) ScrollIncrements() (unit, block int64) {
	block = s.Engine().VisibleSpan(s.Width)
	unit = max(1, block/30)
	return unit, max(1, block)
}

// PanTo moves the left edge of the trace area to t, clamped to
// [0, limit]. A negative limit leaves the upper bound open.
func (s *State) PanTo(t, limit int64) {
	if limit >= 0 && t > limit {
		t = limit
	}
	s.Pan = max(0, t)
}

// PanBy moves the pan by delta microseconds within [0, limit].
func (s *State) PanBy(delta, limit int64) {
	s.PanTo(s.Pan+delta, limit)
}

// Home puts the caret and the pan at time zero.
func (s *State) Home() {
	s.SetCaret(0)
	s.Pan = 0
}

// End puts the caret at limit and pans so the last screenful is shown.
func (s *State) End(limit int64) {
	s.SetCaret(limit)
	_, block := s.ScrollIncrements()
	s.Pan = max(0, limit-block)
}

// JumpTo moves the selection end to t, or the whole caret when extend is
// false, and pans by the distance the end moved so the cursor keeps its
// screen position.
func (s *State) JumpTo(t int64, extend bool, limit int64) {
	delta := t - s.SelEnd
	if extend {
		s.SelEnd = t
	} else {
		s.SetCaret(t)
	}
	s.PanBy(delta, limit)
}
