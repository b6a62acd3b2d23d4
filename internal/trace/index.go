package trace

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// ErrInvalidOrder is returned when a display order is not a permutation
// of the function table.
var ErrInvalidOrder = errors.New("display order is not a permutation of the function table")

// Index owns a decoded trace and the structures derived from it: the
// display order of rows and its inverse, one colour per function, and a
// reusable interval reconstructor.
//
// Events, functions and colours never change after NewIndex. Only the
// display order is mutable, through MoveRowUp, MoveRowDown and
// SetDisplayOrder. An Index is not safe for concurrent use.
type Index struct {
	functions FunctionTable
	slotOf    map[int32]int // function id -> table position
	order     []int32       // row -> function id
	rowOfSlot []int         // table position -> row
	colors    []color.RGBA  // by table position

	events    []Event
	eventSlot []int // table position of each event's function

	diagnostics []Diagnostic
	dangling    int

	recon *Reconstructor
	log   *zap.Logger
}

// Load decodes a trace file held in memory and indexes it.
func Load(b []byte, opts ...Option) (*Index, error) {
	t, err := DecodeBytes(b, opts...)
	if err != nil {
		return nil, err
	}
	return NewIndex(t, opts...), nil
}

// Open decodes the trace file at path and indexes it.
func Open(path string, opts ...Option) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("decoding trace %s: %w", path, err)
	}
	return NewIndex(t, opts...), nil
}

// NewIndex builds the index for t. Rows start in function-table order.
// Events referencing functions outside the table are dropped, and exits
// without a matching enter are counted and logged once here rather than
// on every reconstruction pass.
func NewIndex(t *Trace, opts ...Option) *Index {
	o := buildOptions(opts)

	n := len(t.Functions)
	ix := &Index{
		functions:   make(FunctionTable, 0, n),
		slotOf:      make(map[int32]int, n),
		diagnostics: append([]Diagnostic(nil), t.Diagnostics...),
		log:         o.logger,
	}

	for _, f := range t.Functions {
		if _, dup := ix.slotOf[f.ID]; dup {
			continue
		}
		ix.slotOf[f.ID] = len(ix.functions)
		ix.functions = append(ix.functions, f)
	}
	n = len(ix.functions)

	ix.order = make([]int32, n)
	ix.rowOfSlot = make([]int, n)
	for slot, f := range ix.functions {
		ix.order[slot] = f.ID
		ix.rowOfSlot[slot] = slot
	}

	ix.colors = pastelColors(n, o.seed)

	ix.events = make([]Event, 0, len(t.Events))
	ix.eventSlot = make([]int, 0, len(t.Events))
	for k, ev := range t.Events {
		slot, ok := ix.slotOf[ev.FunctionID]
		if !ok {
			ix.report(Diagnostic{
				Kind: InvalidFunctionReference, Index: k,
				FunctionID: ev.FunctionID, Timestamp: ev.Timestamp,
			})
			continue
		}
		ix.events = append(ix.events, ev)
		ix.eventSlot = append(ix.eventSlot, slot)
	}

	ix.recon = newReconstructor(ix)
	ix.recon.Walk(Visitor{
		Dangling: func(k int, ev Event) {
			ix.dangling++
			ix.report(Diagnostic{
				Kind: DanglingExit, Index: k,
				FunctionID: ev.FunctionID, Timestamp: ev.Timestamp,
			})
		},
	})

	return ix
}

// pastelColors assigns one light colour per function: each channel is
// (0.6 + 0.4*U) scaled to [0, 255].
func pastelColors(n int, seed uint64) []color.RGBA {
	const mix = 0.6
	rng := rand.New(rand.NewSource(seed))
	channel := func() uint8 {
		return uint8((mix + (1-mix)*rng.Float64()) * 255)
	}

	colors := make([]color.RGBA, n)
	for i := range colors {
		colors[i] = color.RGBA{R: channel(), G: channel(), B: channel(), A: 0xff}
	}
	return colors
}

func (ix *Index) report(d Diagnostic) {
	ix.diagnostics = append(ix.diagnostics, d)
	ix.log.Warn(d.Kind.String(),
		zap.Int("record", d.Index),
		zap.Int32("function_id", d.FunctionID),
		zap.Int64("timestamp_us", d.Timestamp),
	)
}

// ────────────────────────────────────────────────────────────
// Queries
// ────────────────────────────────────────────────────────────

// FunctionCount returns the number of functions, which is also the
// number of rows.
func (ix *Index) FunctionCount() int { return len(ix.functions) }

// Functions returns the function table in file order.
func (ix *Index) Functions() FunctionTable { return ix.functions }

// Events returns the indexed events in file order. Callers must not
// modify the returned slice.
func (ix *Index) Events() []Event { return ix.events }

// Diagnostics returns every recoverable problem found while decoding
// and indexing.
func (ix *Index) Diagnostics() []Diagnostic { return ix.diagnostics }

// DanglingExits returns the number of exits that had no open enter.
func (ix *Index) DanglingExits() int { return ix.dangling }

// RowOf returns the display row of a function id, or -1 if the id is
// not in the table.
func (ix *Index) RowOf(id int32) int {
	slot, ok := ix.slotOf[id]
	if !ok {
		return -1
	}
	return ix.rowOfSlot[slot]
}

// FunctionAt returns the function shown in row.
func (ix *Index) FunctionAt(row int) (Function, bool) {
	if row < 0 || row >= len(ix.order) {
		return Function{}, false
	}
	return ix.functions[ix.slotOf[ix.order[row]]], true
}

// Name returns the display name of a function id.
func (ix *Index) Name(id int32) string {
	slot, ok := ix.slotOf[id]
	if !ok {
		return ""
	}
	return ix.functions[slot].Name
}

// Color returns the colour assigned to a function id at load.
func (ix *Index) Color(id int32) color.RGBA {
	slot, ok := ix.slotOf[id]
	if !ok {
		return color.RGBA{A: 0xff}
	}
	return ix.colors[slot]
}

// MaxTimestamp returns the timestamp of the last event. ok is false for
// a trace without samples, which hosts show as an empty state rather
// than a zero-width timeline.
func (ix *Index) MaxTimestamp() (ts int64, ok bool) {
	if len(ix.events) == 0 {
		return 0, false
	}
	return ix.events[len(ix.events)-1].Timestamp, true
}

// IsEmpty reports whether the trace has no samples.
func (ix *Index) IsEmpty() bool { return len(ix.events) == 0 }

// Reconstructor returns the index's interval reconstructor. It shares
// its tracker between passes, so passes must not overlap.
func (ix *Index) Reconstructor() *Reconstructor { return ix.recon }

// RowOfEvent returns the row of the k-th event of Events without a map
// lookup.
func (ix *Index) RowOfEvent(k int) int {
	return ix.rowOfSlot[ix.eventSlot[k]]
}

// ────────────────────────────────────────────────────────────
// Row order
// ────────────────────────────────────────────────────────────

// DisplayOrder returns a copy of the row order as function ids.
func (ix *Index) DisplayOrder() []int32 {
	return append([]int32(nil), ix.order...)
}

// SetDisplayOrder replaces the row order, for example with one saved in
// an earlier session. The order must be a permutation of the table ids.
func (ix *Index) SetDisplayOrder(order []int32) error {
	if len(order) != len(ix.order) {
		return fmt.Errorf("%w: %d rows, want %d", ErrInvalidOrder, len(order), len(ix.order))
	}
	seen := make(map[int32]struct{}, len(order))
	for _, id := range order {
		if _, ok := ix.slotOf[id]; !ok {
			return fmt.Errorf("%w: unknown function id %d", ErrInvalidOrder, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: function id %d repeated", ErrInvalidOrder, id)
		}
		seen[id] = struct{}{}
	}

	copy(ix.order, order)
	for row, id := range ix.order {
		ix.rowOfSlot[ix.slotOf[id]] = row
	}
	return nil
}

// MoveRowUp swaps row with the row above it and returns the new row of
// the moved entry. Row 0 and out-of-range rows are left in place.
func (ix *Index) MoveRowUp(row int) int {
	if row <= 0 || row >= len(ix.order) {
		return row
	}
	ix.swapRows(row-1, row)
	return row - 1
}

// MoveRowDown swaps row with the row below it and returns the new row of
// the moved entry. The last row and out-of-range rows are left in place.
func (ix *Index) MoveRowDown(row int) int {
	if row < 0 || row >= len(ix.order)-1 {
		return row
	}
	ix.swapRows(row, row+1)
	return row + 1
}

func (ix *Index) swapRows(a, b int) {
	ix.order[a], ix.order[b] = ix.order[b], ix.order[a]
	ix.rowOfSlot[ix.slotOf[ix.order[a]]] = a
	ix.rowOfSlot[ix.slotOf[ix.order[b]]] = b
}
