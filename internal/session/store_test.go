package session

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
)

func newTestStore(t *testing.T) *DBService {
	t.Helper()
	svc, err := NewDBService(":memory:")
	if err != nil {
		t.Fatalf("NewDBService(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

// TestMarkOpenedCreatesDefaultView verifies the first open stores a
// default view and later opens only bump the counters.
func TestMarkOpenedCreatesDefaultView(t *testing.T) {
	svc := newTestStore(t)

	if err := svc.MarkOpened("/traces/a.bin", 3, 10); err != nil {
		t.Fatalf("MarkOpened failed: %v", err)
	}
	v, err := svc.LoadView("/traces/a.bin")
	if err != nil {
		t.Fatalf("LoadView failed: %v", err)
	}
	if v.Zoom != viewport.DefaultZoom || v.SelectedRow != -1 || !v.ShowDetails {
		t.Errorf("unexpected default view: %+v", v)
	}
	if v.OpenCount != 1 || v.Functions != 3 || v.Events != 10 {
		t.Errorf("unexpected counters: %+v", v)
	}

	if err := svc.MarkOpened("/traces/a.bin", 4, 12); err != nil {
		t.Fatalf("MarkOpened failed: %v", err)
	}
	v, err = svc.LoadView("/traces/a.bin")
	if err != nil {
		t.Fatalf("LoadView failed: %v", err)
	}
	if v.OpenCount != 2 || v.Functions != 4 || v.Events != 12 {
		t.Errorf("expected open_count=2 functions=4 events=12, got %+v", v)
	}
}

// TestSaveAndLoadView verifies the full view lifecycle:
// open → save → load → fields match.
func TestSaveAndLoadView(t *testing.T) {
	svc := newTestStore(t)
	if err := svc.MarkOpened("/t.bin", 3, 5); err != nil {
		t.Fatalf("MarkOpened failed: %v", err)
	}

	want := &View{
		Path:        "/t.bin",
		Zoom:        512,
		Pan:         12_000,
		SelStart:    15_000,
		SelEnd:      14_000,
		SelectedRow: 2,
		RowOrder:    []int32{2, 0, 1},
		ShowDetails: false,
	}
	if err := svc.SaveView(want); err != nil {
		t.Fatalf("SaveView failed: %v", err)
	}

	got, err := svc.LoadView("/t.bin")
	if err != nil {
		t.Fatalf("LoadView failed: %v", err)
	}
	if got.Zoom != want.Zoom || got.Pan != want.Pan || got.SelStart != want.SelStart ||
		got.SelEnd != want.SelEnd || got.SelectedRow != want.SelectedRow || got.ShowDetails {
		t.Errorf("view mismatch: got %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(got.RowOrder, want.RowOrder) {
		t.Errorf("expected row order %v, got %v", want.RowOrder, got.RowOrder)
	}
}

func TestLoadViewNotFound(t *testing.T) {
	svc := newTestStore(t)

	_, err := svc.LoadView("/never.bin")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.SaveView(&View{Path: "/never.bin", Zoom: 2}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SaveView of an unopened path: expected ErrNotFound, got %v", err)
	}
}

// TestRecentOrdering verifies the most recently opened trace comes first
// and the limit is honoured.
func TestRecentOrdering(t *testing.T) {
	svc := newTestStore(t)

	for _, p := range []string{"/a.bin", "/b.bin", "/c.bin"} {
		if err := svc.MarkOpened(p, 1, 1); err != nil {
			t.Fatalf("MarkOpened(%s) failed: %v", p, err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if err := svc.MarkOpened("/a.bin", 1, 1); err != nil {
		t.Fatalf("MarkOpened failed: %v", err)
	}

	views, err := svc.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Path != "/a.bin" || views[1].Path != "/c.bin" {
		t.Errorf("expected [/a.bin /c.bin], got [%s %s]", views[0].Path, views[1].Path)
	}
}

// TestDiagnosticsReplaceAndCascade verifies diagnostics are replaced as a
// set and removed with their trace.
func TestDiagnosticsReplaceAndCascade(t *testing.T) {
	svc := newTestStore(t)
	if err := svc.MarkOpened("/d.bin", 2, 4); err != nil {
		t.Fatalf("MarkOpened failed: %v", err)
	}

	first := []trace.Diagnostic{
		{Kind: trace.InvalidFunctionReference, Index: 1, FunctionID: 42, Timestamp: 7},
		{Kind: trace.DanglingExit, Index: 3, FunctionID: 1, Timestamp: 9},
	}
	if err := svc.SaveDiagnostics("/d.bin", first); err != nil {
		t.Fatalf("SaveDiagnostics failed: %v", err)
	}
	got, err := svc.Diagnostics("/d.bin")
	if err != nil {
		t.Fatalf("Diagnostics failed: %v", err)
	}
	if !reflect.DeepEqual(got, first) {
		t.Errorf("expected %v, got %v", first, got)
	}

	if err := svc.SaveDiagnostics("/d.bin", first[1:]); err != nil {
		t.Fatalf("SaveDiagnostics failed: %v", err)
	}
	got, _ = svc.Diagnostics("/d.bin")
	if len(got) != 1 || got[0].Kind != trace.DanglingExit {
		t.Errorf("expected only the dangling exit, got %v", got)
	}

	if err := svc.Forget("/d.bin"); err != nil {
		t.Fatalf("Forget failed: %v", err)
	}
	got, _ = svc.Diagnostics("/d.bin")
	if len(got) != 0 {
		t.Errorf("expected diagnostics removed with the trace, got %v", got)
	}
	if _, err := svc.LoadView("/d.bin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Forget, got %v", err)
	}
}

// TestCaptureRestore verifies a captured view restores zoom, selection
// and row order onto a fresh index.
func TestCaptureRestore(t *testing.T) {
	tr := &trace.Trace{Functions: trace.FunctionTable{{ID: 0, Name: "a"}, {ID: 1, Name: "b"}, {ID: 2, Name: "c"}}}
	ix := trace.NewIndex(tr, trace.WithColorSeed(1))
	ix.MoveRowDown(0)

	st := viewport.NewState()
	st.SetZoom(1024)
	st.PanTo(5_000, -1)
	st.SetSelection(6_000, 7_000)
	st.SetSelectedRow(1, ix.FunctionCount())
	st.ShowDetails = false

	v := Capture("/x.bin", st, ix)

	fresh := trace.NewIndex(tr, trace.WithColorSeed(1))
	got := viewport.NewState()
	if err := v.Restore(&got, fresh); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got.Zoom != 1024 || got.Pan != 5_000 || got.SelStart != 6_000 || got.SelEnd != 7_000 ||
		got.SelectedRow != 1 || got.ShowDetails {
		t.Errorf("restored state mismatch: %+v", got)
	}
	if !reflect.DeepEqual(fresh.DisplayOrder(), []int32{1, 0, 2}) {
		t.Errorf("expected row order [1 0 2], got %v", fresh.DisplayOrder())
	}

	v.RowOrder = []int32{0, 1}
	if err := v.Restore(&got, fresh); !errors.Is(err, trace.ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder for a stale order, got %v", err)
	}
}
