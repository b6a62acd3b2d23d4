package trace

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestIndex(t *testing.T, fns FunctionTable, events []Event, opts ...Option) *Index {
	t.Helper()
	opts = append([]Option{WithColorSeed(7)}, opts...)
	return NewIndex(&Trace{Functions: fns, Events: events}, opts...)
}

func TestRowOfFollowsTableOrder(t *testing.T) {
	fns := FunctionTable{{ID: 10, Name: "a"}, {ID: 4, Name: "b"}, {ID: 7, Name: "c"}}
	ix := newTestIndex(t, fns, nil)

	require.Equal(t, 3, ix.FunctionCount())
	require.Equal(t, 0, ix.RowOf(10))
	require.Equal(t, 1, ix.RowOf(4))
	require.Equal(t, 2, ix.RowOf(7))
	require.Equal(t, -1, ix.RowOf(99))

	f, ok := ix.FunctionAt(2)
	require.True(t, ok)
	require.Equal(t, "c", f.Name)
	_, ok = ix.FunctionAt(3)
	require.False(t, ok)
}

// TestMoveRowRoundTrip verifies moving a row down and back up restores the
// original permutation, and that boundary moves are no-ops.
func TestMoveRowRoundTrip(t *testing.T) {
	ix := newTestIndex(t, sampleTable(), nil)
	orig := ix.DisplayOrder()

	require.Equal(t, 0, ix.MoveRowUp(0), "row 0 cannot move up")
	require.Equal(t, orig, ix.DisplayOrder())

	row := ix.MoveRowDown(0)
	require.Equal(t, 1, row)
	require.Equal(t, []int32{1, 0, 2}, ix.DisplayOrder())
	require.Equal(t, 1, ix.RowOf(0))
	require.Equal(t, 0, ix.RowOf(1))

	row = ix.MoveRowUp(row)
	require.Equal(t, 0, row)
	require.Equal(t, orig, ix.DisplayOrder())

	last := ix.FunctionCount() - 1
	require.Equal(t, last, ix.MoveRowDown(last), "last row cannot move down")
	require.Equal(t, -1, ix.MoveRowUp(-1))
	require.Equal(t, -1, ix.MoveRowDown(-1))
	require.Equal(t, 9, ix.MoveRowDown(9))
	require.Equal(t, orig, ix.DisplayOrder())
}

func TestSetDisplayOrder(t *testing.T) {
	ix := newTestIndex(t, sampleTable(), []Event{Enter(2, 1), Exit(2, 5, 0)})

	require.NoError(t, ix.SetDisplayOrder([]int32{2, 0, 1}))
	require.Equal(t, 0, ix.RowOf(2))
	require.Equal(t, 2, ix.RowOf(1))

	ivs := slices.Collect(ix.Reconstructor().Intervals())
	require.Len(t, ivs, 1)
	require.Equal(t, 0, ivs[0].Row, "intervals follow the new order")

	require.ErrorIs(t, ix.SetDisplayOrder([]int32{2, 0}), ErrInvalidOrder)
	require.ErrorIs(t, ix.SetDisplayOrder([]int32{2, 2, 1}), ErrInvalidOrder)
	require.ErrorIs(t, ix.SetDisplayOrder([]int32{2, 0, 9}), ErrInvalidOrder)
	require.Equal(t, []int32{2, 0, 1}, ix.DisplayOrder(), "rejected orders leave rows untouched")
}

func TestMaxTimestamp(t *testing.T) {
	ix := newTestIndex(t, sampleTable(), nil)
	_, ok := ix.MaxTimestamp()
	require.False(t, ok)
	require.True(t, ix.IsEmpty())

	ix = newTestIndex(t, sampleTable(), []Event{Enter(0, 5), Enter(1, 50), Exit(1, 30, 0)})
	ts, ok := ix.MaxTimestamp()
	require.True(t, ok)
	require.Equal(t, int64(30), ts, "last event in file order, not the maximum")
}

// TestColorsArePastelAndStable verifies every channel lies in the pastel
// range and the same seed reproduces the same colours.
func TestColorsArePastelAndStable(t *testing.T) {
	a := newTestIndex(t, sampleTable(), nil)
	b := newTestIndex(t, sampleTable(), nil)

	for _, f := range sampleTable() {
		c := a.Color(f.ID)
		for _, ch := range []uint8{c.R, c.G, c.B} {
			require.GreaterOrEqual(t, ch, uint8(153))
		}
		require.Equal(t, uint8(0xff), c.A)
		require.Equal(t, c, b.Color(f.ID))
	}

	a.MoveRowDown(0)
	require.Equal(t, b.Color(0), a.Color(0), "colours are keyed by function, not row")
}

func TestNewIndexDropsUnknownFunctions(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ix := newTestIndex(t, sampleTable(), []Event{Enter(5, 1), Enter(0, 2)}, WithLogger(zap.New(core)))

	require.Equal(t, []Event{Enter(0, 2)}, ix.Events())
	require.Equal(t, 1, logs.FilterMessage(InvalidFunctionReference.String()).Len())
	require.Equal(t, 0, ix.RowOfEvent(0))
}
