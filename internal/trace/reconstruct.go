package trace

import "iter"

// Interval is one reconstructed call: an enter paired with the next exit
// of the same function.
type Interval struct {
	FunctionID int32
	Start      int64
	End        int64
	ExitPoint  int32
	Row        int
}

// Duration returns End - Start in microseconds.
func (iv Interval) Duration() int64 { return iv.End - iv.Start }

// Marker is a point event drawn on its row: an enter, an exit or a
// debug output. Index is the event's position in Index.Events.
type Marker struct {
	Event
	Index int
	Row   int
}

// Visitor receives the results of one reconstruction pass. Returning
// false from Interval or Marker stops the pass. Nil fields are skipped.
type Visitor struct {
	Interval func(Interval) bool
	Marker   func(Marker) bool
	Dangling func(k int, ev Event)
}

// Reconstructor pairs enter and exit events in one forward pass. It keeps
// a single open start per function: a second enter before the exit
// replaces the first. The tracker is sized once and reused by every pass.
type Reconstructor struct {
	ix     *Index
	start  []int64
	isOpen []bool
}

func newReconstructor(ix *Index) *Reconstructor {
	n := ix.FunctionCount()
	return &Reconstructor{
		ix:     ix,
		start:  make([]int64, n),
		isOpen: make([]bool, n),
	}
}

func (r *Reconstructor) reset() {
	clear(r.isOpen)
}

// Walk runs one pass over the events in file order.
func (r *Reconstructor) Walk(v Visitor) {
	r.reset()
	for k, ev := range r.ix.events {
		slot := r.ix.eventSlot[k]

		if v.Marker != nil && ev.Type.Known() {
			if !v.Marker(Marker{Event: ev, Index: k, Row: r.ix.rowOfSlot[slot]}) {
				return
			}
		}

		switch ev.Type {
		case TypeEnter:
			r.start[slot] = ev.Timestamp
			r.isOpen[slot] = true

		case TypeExit:
			if !r.isOpen[slot] {
				if v.Dangling != nil {
					v.Dangling(k, ev)
				}
				continue
			}
			r.isOpen[slot] = false
			if v.Interval != nil {
				iv := Interval{
					FunctionID: ev.FunctionID,
					Start:      r.start[slot],
					End:        ev.Timestamp,
					ExitPoint:  ev.ExitPoint,
					Row:        r.ix.rowOfSlot[slot],
				}
				if !v.Interval(iv) {
					return
				}
			}
		}
	}
}

// Intervals yields every reconstructed interval in exit order. Each
// range over the sequence is a fresh pass.
func (r *Reconstructor) Intervals() iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		r.Walk(Visitor{Interval: yield})
	}
}

// Markers yields every enter, exit and debug-output event with its row.
// Opaque sample types are skipped.
func (r *Reconstructor) Markers() iter.Seq[Marker] {
	return func(yield func(Marker) bool) {
		r.Walk(Visitor{Marker: yield})
	}
}

// OpenAtEnd returns the functions whose last enter had no exit by the
// end of the trace, as zero-width intervals at their start, in table
// order.
func (r *Reconstructor) OpenAtEnd() []Interval {
	r.Walk(Visitor{})
	var open []Interval
	for slot, ok := range r.isOpen {
		if !ok {
			continue
		}
		f := r.ix.functions[slot]
		open = append(open, Interval{
			FunctionID: f.ID,
			Start:      r.start[slot],
			End:        r.start[slot],
			Row:        r.ix.rowOfSlot[slot],
		})
	}
	return open
}
