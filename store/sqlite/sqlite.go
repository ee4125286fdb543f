/*
Package sqlite provides a SQLite-backed implementation of the engine's
collaborator interfaces.

PURPOSE:
  Implements StaffDirectory, RequestStore and HolidaySource over a single
  SQLite database. Suitable for a single-office deployment; the postgres
  package carries the same contract for multi-writer setups.

WRITE-TIME CONFLICT CHECK:
  SQLite has no range exclusion constraints, so Persist re-runs the
  overlap scan inside a transaction before inserting, serialized by the
  store's write lock. The validator's in-memory check is only the fast
  path; this is the authoritative one.

KEY TABLES:
  staff:          Roster records with free-text rank
  holidays:       Organization non-working dates
  leave_requests: Requests with derived end date and working-day count

WAL MODE:
  The database is opened with WAL so readers do not block the writer.

SEE ALSO:
  - engine/store.go: Interface contracts
  - store/postgres: Exclusion-constraint variant
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/worknest/leave-engine/engine"
)

// Store implements all collaborator interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: writes are serialized anyway, and :memory: databases
	// are per-connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		rank TEXT NOT NULL DEFAULT '',
		section TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL REFERENCES staff(id),
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		working_days INTEGER NOT NULL,
		reliever_id TEXT REFERENCES staff(id),
		status TEXT NOT NULL DEFAULT 'Pending',
		reason TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Conflict scans filter on staff/reliever over non-Rejected rows
	CREATE INDEX IF NOT EXISTS idx_requests_staff_status
		ON leave_requests(staff_id, status);
	CREATE INDEX IF NOT EXISTS idx_requests_reliever_status
		ON leave_requests(reliever_id, status) WHERE reliever_id IS NOT NULL;

	-- Casual balance: per staff, per type, per start year
	CREATE INDEX IF NOT EXISTS idx_requests_staff_type_start
		ON leave_requests(staff_id, leave_type, start_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STAFF DIRECTORY
// =============================================================================

func (s *Store) Get(ctx context.Context, id engine.StaffID) (engine.StaffRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ref engine.StaffRef
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, rank, section FROM staff WHERE id = ?`, string(id),
	).Scan(&ref.ID, &ref.Name, &ref.Rank, &ref.Section)
	if err == sql.ErrNoRows {
		return engine.StaffRef{}, engine.ErrStaffNotFound
	}
	if err != nil {
		return engine.StaffRef{}, fmt.Errorf("querying staff %s: %w", id, err)
	}
	return ref, nil
}

func (s *Store) List(ctx context.Context) ([]engine.StaffRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, rank, section FROM staff ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	defer rows.Close()

	var out []engine.StaffRef
	for rows.Next() {
		var ref engine.StaffRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Rank, &ref.Section); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// AddStaff inserts or replaces a roster record.
func (s *Store) AddStaff(ctx context.Context, ref engine.StaffRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO staff (id, name, rank, section, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(ref.ID), ref.Name, ref.Rank, ref.Section, time.Now().UTC().Format(time.RFC3339))
	return err
}

// CountStaff returns the roster size; the dev server seeds when it is 0.
func (s *Store) CountStaff(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&n)
	return n, err
}

// =============================================================================
// HOLIDAY SOURCE
// =============================================================================

func (s *Store) ListHolidays(ctx context.Context) ([]engine.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT date FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	defer rows.Close()

	var out []engine.Date
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := engine.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("holiday row %q: %w", raw, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AddHoliday records a non-working date.
func (s *Store) AddHoliday(ctx context.Context, d engine.Date, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO holidays (date, name) VALUES (?, ?)`, d.String(), name)
	return err
}

// =============================================================================
// REQUEST STORE
// =============================================================================

const requestColumns = `id, staff_id, leave_type, start_date, end_date, working_days,
	COALESCE(reliever_id, ''), status, reason, created_at`

func scanRequest(scan func(dest ...any) error) (engine.LeaveRequest, error) {
	var r engine.LeaveRequest
	var start, end, created string
	err := scan(&r.ID, &r.StaffID, &r.Type, &start, &end, &r.WorkingDays,
		&r.RelieverID, &r.Status, &r.Reason, &created)
	if err != nil {
		return engine.LeaveRequest{}, err
	}
	if r.Start, err = engine.ParseDate(start); err != nil {
		return engine.LeaveRequest{}, err
	}
	if r.End, err = engine.ParseDate(end); err != nil {
		return engine.LeaveRequest{}, err
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		r.CreatedAt = t
	}
	return r, nil
}

func collectRequests(rows *sql.Rows) ([]engine.LeaveRequest, error) {
	defer rows.Close()
	var out []engine.LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListForYear(ctx context.Context, staffID engine.StaffID, leaveType engine.LeaveType, year int) ([]engine.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM leave_requests
		 WHERE staff_id = ? AND leave_type = ? AND start_date BETWEEN ? AND ?
		 ORDER BY start_date`,
		string(staffID), string(leaveType),
		engine.StartOfYear(year).String(), engine.EndOfYear(year).String())
	if err != nil {
		return nil, fmt.Errorf("listing %s requests for %s/%d: %w", leaveType, staffID, year, err)
	}
	return collectRequests(rows)
}

func (s *Store) ListActive(ctx context.Context) ([]engine.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM leave_requests WHERE status != 'Rejected' ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("listing active requests: %w", err)
	}
	return collectRequests(rows)
}

// Persist writes a validated request. The overlap invariant is re-verified
// inside the transaction so check-then-insert is atomic with respect to
// other writers: a concurrent request that committed the applicant or the
// reliever since validation surfaces as ErrOverlappingLeave /
// ErrRelieverConflict, never as a silent double-booking.
func (s *Store) Persist(ctx context.Context, req *engine.LeaveRequest) (engine.RequestID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == "" {
		req.ID = engine.NewRequestID()
	}
	if req.Status == "" {
		req.Status = engine.StatusPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting persist transaction: %w", err)
	}
	defer tx.Rollback()

	overlap := func(who string) (int, error) {
		var n int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM leave_requests
			 WHERE status != 'Rejected'
			   AND (staff_id = ? OR reliever_id = ?)
			   AND start_date <= ? AND end_date >= ?`,
			who, who, req.End.String(), req.Start.String()).Scan(&n)
		return n, err
	}

	n, err := overlap(string(req.StaffID))
	if err != nil {
		return "", fmt.Errorf("checking applicant overlap: %w", err)
	}
	if n > 0 {
		return "", engine.ErrOverlappingLeave
	}
	if req.RelieverID != "" {
		n, err = overlap(string(req.RelieverID))
		if err != nil {
			return "", fmt.Errorf("checking reliever overlap: %w", err)
		}
		if n > 0 {
			return "", engine.ErrRelieverConflict
		}
	}

	var reliever any
	if req.RelieverID != "" {
		reliever = string(req.RelieverID)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO leave_requests
		 (id, staff_id, leave_type, start_date, end_date, working_days, reliever_id, status, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(req.ID), string(req.StaffID), string(req.Type),
		req.Start.String(), req.End.String(), req.WorkingDays,
		reliever, string(req.Status), req.Reason,
		req.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("inserting request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing request: %w", err)
	}
	return req.ID, nil
}

// SetStatus applies an approval-workflow transition (Pending -> Approved
// or Rejected).
func (s *Store) SetStatus(ctx context.Context, id engine.RequestID, status engine.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE leave_requests SET status = ? WHERE id = ?`, string(status), string(id))
	if err != nil {
		return fmt.Errorf("updating request %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("request %s: %w", id, engine.ErrRequestNotFound)
	}
	return nil
}

// ListAll returns every request regardless of status, newest first.
func (s *Store) ListAll(ctx context.Context) ([]engine.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM leave_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	return collectRequests(rows)
}
