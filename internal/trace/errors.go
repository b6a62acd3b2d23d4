package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated reports a short read anywhere in the file.
	ErrTruncated = errors.New("trace truncated")
	// ErrNegativeCount reports a negative function or sample count.
	ErrNegativeCount = errors.New("negative record count")
	// ErrEmptyTrace is returned by hosts that cannot proceed without samples.
	// The index itself signals the empty state through MaxTimestamp.
	ErrEmptyTrace = errors.New("no samples in trace")
)

// FormatError describes why a trace file could not be loaded. It wraps
// one of the sentinel errors above.
type FormatError struct {
	Section string // "header", "functions" or "samples"
	Record  int    // record index within the section, -1 for counts
	Offset  int64  // byte offset where the failing read started
	Err     error
}

func (e *FormatError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("trace format: %s count at offset %d: %v", e.Section, e.Offset, e.Err)
	}
	return fmt.Sprintf("trace format: %s record %d at offset %d: %v", e.Section, e.Record, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ────────────────────────────────────────────────────────────
// Diagnostics
// ────────────────────────────────────────────────────────────

// DiagnosticKind classifies a recoverable problem found in a trace.
type DiagnosticKind int

const (
	// InvalidFunctionReference: a sample names a function id missing
	// from the table. The sample is skipped.
	InvalidFunctionReference DiagnosticKind = iota
	// DanglingExit: an exit with no open enter for its function.
	// No interval is produced.
	DanglingExit
	// DuplicateFunction: the table repeats a function id. The first
	// entry is kept.
	DuplicateFunction
)

func (k DiagnosticKind) String() string {
	switch k {
	case InvalidFunctionReference:
		return "invalid function reference"
	case DanglingExit:
		return "dangling exit"
	case DuplicateFunction:
		return "duplicate function"
	default:
		return fmt.Sprintf("diagnostic(%d)", int(k))
	}
}

// Diagnostic is one recoverable problem, recorded for the host to show.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Index      int            `json:"index"` // sample or table record index
	FunctionID int32          `json:"function_id"`
	Timestamp  int64          `json:"timestamp_us"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: record %d function_id=%d t=%dus", d.Kind, d.Index, d.FunctionID, d.Timestamp)
}
