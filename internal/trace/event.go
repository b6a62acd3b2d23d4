// Package trace decodes function-trace files and indexes their events.
//
// A trace file is a function table followed by a flat stream of samples
// (enter, exit, debug output) written by an instrumented program. The
// package turns that stream into an immutable event list, keeps the
// user-mutable row order for display, and reconstructs call intervals
// from enter/exit pairs on demand.
package trace

import (
	"bytes"
	"fmt"
)

// ────────────────────────────────────────────────────────────
// Function table
// ────────────────────────────────────────────────────────────

// Function is one entry of the trace's function table.
type Function struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// FunctionTable is the function table in file order.
type FunctionTable []Function

// Names returns the display names in table order.
func (t FunctionTable) Names() []string {
	names := make([]string, len(t))
	for i, f := range t {
		names[i] = f.Name
	}
	return names
}

// ────────────────────────────────────────────────────────────
// Samples
// ────────────────────────────────────────────────────────────

// SampleType discriminates the kind of a sample record.
type SampleType int32

const (
	TypeEnter    SampleType = 0
	TypeExit     SampleType = 1
	TypeDebugOut SampleType = 2
)

// Known reports whether the type is one the viewer renders.
// Other values are kept as opaque events.
func (t SampleType) Known() bool {
	return t == TypeEnter || t == TypeExit || t == TypeDebugOut
}

func (t SampleType) String() string {
	switch t {
	case TypeEnter:
		return "enter"
	case TypeExit:
		return "exit"
	case TypeDebugOut:
		return "debugout"
	default:
		return fmt.Sprintf("opaque(%d)", int32(t))
	}
}

// Event is one decoded sample. ExitPoint is meaningful only for
// TypeExit and Text only for TypeDebugOut.
type Event struct {
	FunctionID int32      `json:"function_id"`
	Timestamp  int64      `json:"timestamp_us"`
	Type       SampleType `json:"sample_type"`
	ExitPoint  int32      `json:"exit_point,omitempty"`
	Text       string     `json:"text,omitempty"`
}

// Enter builds an enter event.
func Enter(id int32, ts int64) Event {
	return Event{FunctionID: id, Timestamp: ts, Type: TypeEnter}
}

// Exit builds an exit event.
func Exit(id int32, ts int64, exitPoint int32) Event {
	return Event{FunctionID: id, Timestamp: ts, Type: TypeExit, ExitPoint: exitPoint}
}

// DebugOut builds a debug-output event.
func DebugOut(id int32, ts int64, text string) Event {
	return Event{FunctionID: id, Timestamp: ts, Type: TypeDebugOut, Text: text}
}

// Describe returns the hover text for the event: the debug text,
// "exit_point: N" or "enter_point". Opaque events have no description.
func (e Event) Describe() (string, bool) {
	switch e.Type {
	case TypeDebugOut:
		return e.Text, true
	case TypeExit:
		return fmt.Sprintf("exit_point: %d", e.ExitPoint), true
	case TypeEnter:
		return "enter_point", true
	default:
		return "", false
	}
}

// trimField converts a fixed-width NUL/space padded field to a string.
func trimField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}
