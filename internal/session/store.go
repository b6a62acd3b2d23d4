// Package session persists per-trace view state between runs.
//
// It implements the Store interface using SQLite. Each trace file the
// user opens gets one row keyed by its absolute path, holding zoom, pan,
// selection, row order and the details toggle, plus the diagnostics the
// decoder reported for it. The hosts restore this on the next open and
// list it as recent traces.
package session

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
	"github.com/Mr-Dark-debug/traceviewer/pkg/timeutil"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is returned by LoadView for a path never opened before.
var ErrNotFound = errors.New("no saved view")

// Store defines the interface for view persistence.
type Store interface {
	// MarkOpened records that path was opened now, creating its row with
	// a default view on first open.
	MarkOpened(path string, functions, events int) error
	// SaveView stores the view of an already opened trace.
	SaveView(v *View) error
	// LoadView returns the saved view of path or ErrNotFound.
	LoadView(path string) (*View, error)
	// Recent returns views ordered by last open, most recent first.
	Recent(limit int) ([]*View, error)
	// Forget removes a path and its diagnostics.
	Forget(path string) error

	// SaveDiagnostics replaces the diagnostics stored for path.
	SaveDiagnostics(path string, diags []trace.Diagnostic) error
	// Diagnostics returns the diagnostics stored for path in record order.
	Diagnostics(path string) ([]trace.Diagnostic, error)

	// Close gracefully shuts down the database connection.
	Close() error
}

// ============================================================
// Domain Models
// ============================================================

// View is the saved state of one trace file.
type View struct {
	Path        string  `json:"path"`
	Zoom        int     `json:"zoom"`
	Pan         int64   `json:"pan_us"`
	SelStart    int64   `json:"selection_start_us"`
	SelEnd      int64   `json:"selection_end_us"`
	SelectedRow int     `json:"selected_row"`
	RowOrder    []int32 `json:"row_order,omitempty"`
	ShowDetails bool    `json:"show_details"`
	Functions   int     `json:"functions"`
	Events      int     `json:"events"`
	OpenedAt    int64   `json:"opened_at"` // Unix nanoseconds
	OpenCount   int     `json:"open_count"`
}

// ============================================================
// DBService Implementation
// ============================================================

// DBService implements the Store interface using SQLite.
// It manages the connection, prepared statements, and serializes
// access through a read-write mutex.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	stmtMarkOpened *sql.Stmt
	stmtSaveView   *sql.Stmt
	stmtLoadView   *sql.Stmt
}

// NewDBService opens the database at path, initializes the schema and
// prepares frequently-used statements.
//
// Use ":memory:" for an in-memory database (useful for testing).
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{
		db:   db,
		path: path,
	}

	if err := svc.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}

	return svc, nil
}

// initSchema executes the embedded schema.sql.
func (s *DBService) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtMarkOpened, err = s.db.Prepare(`
		INSERT INTO views (path, zoom, functions, events, opened_at, open_count)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(path) DO UPDATE SET
			functions = excluded.functions,
			events = excluded.events,
			opened_at = excluded.opened_at,
			open_count = views.open_count + 1
	`)
	if err != nil {
		return fmt.Errorf("preparing MarkOpened: %w", err)
	}

	s.stmtSaveView, err = s.db.Prepare(`
		UPDATE views SET
			zoom = ?, pan_us = ?, sel_start_us = ?, sel_end_us = ?,
			selected_row = ?, row_order = ?, show_details = ?
		WHERE path = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing SaveView: %w", err)
	}

	s.stmtLoadView, err = s.db.Prepare(`
		SELECT ` + viewColumns + ` FROM views WHERE path = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing LoadView: %w", err)
	}

	return nil
}

const viewColumns = `path, zoom, pan_us, sel_start_us, sel_end_us, selected_row,
	row_order, show_details, functions, events, opened_at, open_count`

// MarkOpened records an open of path at the current time.
func (s *DBService) MarkOpened(path string, functions, events int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.stmtMarkOpened.Exec(path, viewport.DefaultZoom, functions, events, timeutil.NowNano())
	if err != nil {
		return fmt.Errorf("marking %s opened: %w", path, err)
	}
	return nil
}

// SaveView stores v. The path must have been opened with MarkOpened.
func (s *DBService) SaveView(v *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var order *string
	if v.RowOrder != nil {
		b, err := json.Marshal(v.RowOrder)
		if err != nil {
			return fmt.Errorf("marshaling row order: %w", err)
		}
		str := string(b)
		order = &str
	}

	res, err := s.stmtSaveView.Exec(
		v.Zoom, v.Pan, v.SelStart, v.SelEnd,
		v.SelectedRow, order, v.ShowDetails, v.Path,
	)
	if err != nil {
		return fmt.Errorf("saving view of %s: %w", v.Path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("saving view of %s: %w", v.Path, ErrNotFound)
	}
	return nil
}

// LoadView returns the saved view of path.
func (s *DBService) LoadView(path string) (*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := scanView(s.stmtLoadView.QueryRow(path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading view of %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading view of %s: %w", path, err)
	}
	return v, nil
}

// Recent returns the most recently opened views. A non-positive limit
// defaults to 20.
func (s *DBService) Recent(limit int) ([]*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`SELECT `+viewColumns+` FROM views ORDER BY opened_at DESC, path LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent views: %w", err)
	}
	defer rows.Close()

	var views []*View
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning view row: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// Forget deletes path and, through the foreign key, its diagnostics.
func (s *DBService) Forget(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM views WHERE path = ?`, path); err != nil {
		return fmt.Errorf("forgetting %s: %w", path, err)
	}
	return nil
}

// SaveDiagnostics replaces the diagnostics of path in a single
// transaction.
func (s *DBService) SaveDiagnostics(path string, diags []trace.Diagnostic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning diagnostics transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM diagnostics WHERE path = ?`, path); err != nil {
		return fmt.Errorf("clearing diagnostics of %s: %w", path, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO diagnostics (path, kind, record, function_id, timestamp_us)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing diagnostics insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range diags {
		if _, err := stmt.Exec(path, int(d.Kind), d.Index, d.FunctionID, d.Timestamp); err != nil {
			return fmt.Errorf("inserting diagnostic for %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing diagnostics transaction: %w", err)
	}
	return nil
}

// Diagnostics returns the stored diagnostics of path.
func (s *DBService) Diagnostics(path string) ([]trace.Diagnostic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT kind, record, function_id, timestamp_us
		FROM diagnostics
		WHERE path = ?
		ORDER BY diag_id ASC
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics of %s: %w", path, err)
	}
	defer rows.Close()

	var diags []trace.Diagnostic
	for rows.Next() {
		var d trace.Diagnostic
		if err := rows.Scan(&d.Kind, &d.Index, &d.FunctionID, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning diagnostic row: %w", err)
		}
		diags = append(diags, d)
	}
	return diags, rows.Err()
}

// Close closes the prepared statements and the database.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range []*sql.Stmt{s.stmtMarkOpened, s.stmtSaveView, s.stmtLoadView} {
		if stmt != nil {
			stmt.Close()
		}
	}

	return s.db.Close()
}

// ============================================================
// Scan Helpers
// ============================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(row rowScanner) (*View, error) {
	v := &View{}
	var order *string
	if err := row.Scan(
		&v.Path, &v.Zoom, &v.Pan, &v.SelStart, &v.SelEnd, &v.SelectedRow,
		&order, &v.ShowDetails, &v.Functions, &v.Events, &v.OpenedAt, &v.OpenCount,
	); err != nil {
		return nil, err
	}
	if order != nil {
		if err := json.Unmarshal([]byte(*order), &v.RowOrder); err != nil {
			// Non-fatal: the rows fall back to table order
			v.RowOrder = nil
		}
	}
	return v, nil
}
