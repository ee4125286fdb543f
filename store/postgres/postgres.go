/*
Package postgres provides a pgx-backed implementation of the engine's
collaborator interfaces.

PURPOSE:
  The same contract as store/sqlite, for deployments where multiple
  application instances share one database. Here the overlap invariant is
  enforced by the database itself: range exclusion constraints on the
  leave_requests table reject any committed row whose window intersects
  an existing non-Rejected row for the same applicant or reliever.

EXCLUSION CONSTRAINTS:
  leave_requests_staff_no_overlap:
    EXCLUDE USING gist (staff_id WITH =, daterange(start,end,'[]') WITH &&)
    WHERE (status <> 'Rejected')
  leave_requests_reliever_no_overlap:
    same shape over reliever_id

  With these in place the validator's read-then-decide check really is
  just a fast path: two concurrent requests booking the same reliever
  race at commit, and the loser gets an exclusion violation which Persist
  maps onto the engine's conflict errors.

REQUIREMENTS:
  btree_gist (for the equality column inside the gist index). Migration
  attempts CREATE EXTENSION and fails with a clear error if the role may
  not install extensions.
*/
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/worknest/leave-engine/engine"
)

// Postgres error codes of interest.
const (
	codeExclusionViolation = "23P01"
	codeUniqueViolation    = "23505"
)

// Store implements all collaborator interfaces over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against the DSN and migrates the schema.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres config: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating postgres schema: %w", err)
	}
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,

		`CREATE TABLE IF NOT EXISTS staff (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			rank TEXT NOT NULL DEFAULT '',
			section TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS holidays (
			date DATE PRIMARY KEY,
			name TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS leave_requests (
			id TEXT PRIMARY KEY,
			staff_id TEXT NOT NULL REFERENCES staff(id),
			leave_type TEXT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			working_days INTEGER NOT NULL,
			reliever_id TEXT REFERENCES staff(id),
			status TEXT NOT NULL DEFAULT 'Pending',
			reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		// One absence per staff member per day, enforced at commit.
		`ALTER TABLE leave_requests DROP CONSTRAINT IF EXISTS leave_requests_staff_no_overlap`,
		`ALTER TABLE leave_requests ADD CONSTRAINT leave_requests_staff_no_overlap
			EXCLUDE USING gist (
				staff_id WITH =,
				daterange(start_date, end_date, '[]') WITH &&
			) WHERE (status <> 'Rejected')`,

		// One reliever commitment per staff member per day.
		`ALTER TABLE leave_requests DROP CONSTRAINT IF EXISTS leave_requests_reliever_no_overlap`,
		`ALTER TABLE leave_requests ADD CONSTRAINT leave_requests_reliever_no_overlap
			EXCLUDE USING gist (
				reliever_id WITH =,
				daterange(start_date, end_date, '[]') WITH &&
			) WHERE (status <> 'Rejected' AND reliever_id IS NOT NULL)`,

		`CREATE INDEX IF NOT EXISTS idx_requests_staff_type_start
			ON leave_requests (staff_id, leave_type, start_date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i > 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}

// =============================================================================
// STAFF DIRECTORY
// =============================================================================

func (s *Store) Get(ctx context.Context, id engine.StaffID) (engine.StaffRef, error) {
	var ref engine.StaffRef
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, rank, section FROM staff WHERE id = $1`, string(id),
	).Scan(&ref.ID, &ref.Name, &ref.Rank, &ref.Section)
	if errors.Is(err, pgx.ErrNoRows) {
		return engine.StaffRef{}, engine.ErrStaffNotFound
	}
	if err != nil {
		return engine.StaffRef{}, fmt.Errorf("querying staff %s: %w", id, err)
	}
	return ref, nil
}

func (s *Store) List(ctx context.Context) ([]engine.StaffRef, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, rank, section FROM staff ORDER BY name`)
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

// AddStaff upserts a roster record.
func (s *Store) AddStaff(ctx context.Context, ref engine.StaffRef) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO staff (id, name, rank, section) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = $2, rank = $3, section = $4`,
		string(ref.ID), ref.Name, ref.Rank, ref.Section)
	return err
}

// =============================================================================
// HOLIDAY SOURCE
// =============================================================================

func (s *Store) ListHolidays(ctx context.Context) ([]engine.Date, error) {
	rows, err := s.pool.Query(ctx, `SELECT date FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	defer rows.Close()

	var out []engine.Date
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, engine.DateOf(t))
	}
	return out, rows.Err()
}

// AddHoliday records a non-working date.
func (s *Store) AddHoliday(ctx context.Context, d engine.Date, name string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO holidays (date, name) VALUES ($1, $2)
		 ON CONFLICT (date) DO UPDATE SET name = $2`,
		d.Time, name)
	return err
}

// =============================================================================
// REQUEST STORE
// =============================================================================

const requestColumns = `id, staff_id, leave_type, start_date, end_date, working_days,
	COALESCE(reliever_id, ''), status, reason, created_at`

func collectRequests(rows pgx.Rows) ([]engine.LeaveRequest, error) {
	defer rows.Close()
	var out []engine.LeaveRequest
	for rows.Next() {
		var r engine.LeaveRequest
		var start, end time.Time
		err := rows.Scan(&r.ID, &r.StaffID, &r.Type, &start, &end, &r.WorkingDays,
			&r.RelieverID, &r.Status, &r.Reason, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		r.Start = engine.DateOf(start)
		r.End = engine.DateOf(end)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListForYear(ctx context.Context, staffID engine.StaffID, leaveType engine.LeaveType, year int) ([]engine.LeaveRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM leave_requests
		 WHERE staff_id = $1 AND leave_type = $2 AND start_date BETWEEN $3 AND $4
		 ORDER BY start_date`,
		string(staffID), string(leaveType),
		engine.StartOfYear(year).Time, engine.EndOfYear(year).Time)
	if err != nil {
		return nil, fmt.Errorf("listing %s requests for %s/%d: %w", leaveType, staffID, year, err)
	}
	return collectRequests(rows)
}

func (s *Store) ListActive(ctx context.Context) ([]engine.LeaveRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM leave_requests WHERE status <> 'Rejected' ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("listing active requests: %w", err)
	}
	return collectRequests(rows)
}

// Persist writes a validated request. The exclusion constraints make the
// commit itself the conflict check: a concurrent overlapping request for
// the same applicant or reliever fails with an exclusion violation, which
// is mapped back onto the engine's conflict errors.
func (s *Store) Persist(ctx context.Context, req *engine.LeaveRequest) (engine.RequestID, error) {
	if req.ID == "" {
		req.ID = engine.NewRequestID()
	}
	if req.Status == "" {
		req.Status = engine.StatusPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	var reliever any
	if req.RelieverID != "" {
		reliever = string(req.RelieverID)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO leave_requests
		 (id, staff_id, leave_type, start_date, end_date, working_days, reliever_id, status, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(req.ID), string(req.StaffID), string(req.Type),
		req.Start.Time, req.End.Time, req.WorkingDays,
		reliever, string(req.Status), req.Reason, req.CreatedAt)
	if err != nil {
		return "", mapPersistError(err)
	}
	return req.ID, nil
}

func mapPersistError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeExclusionViolation:
			if pgErr.ConstraintName == "leave_requests_reliever_no_overlap" {
				return engine.ErrRelieverConflict
			}
			return engine.ErrOverlappingLeave
		case codeUniqueViolation:
			return fmt.Errorf("duplicate request id: %w", err)
		}
	}
	return fmt.Errorf("inserting request: %w", err)
}

// SetStatus applies an approval-workflow transition.
func (s *Store) SetStatus(ctx context.Context, id engine.RequestID, status engine.RequestStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leave_requests SET status = $1 WHERE id = $2`, string(status), string(id))
	if err != nil {
		return fmt.Errorf("updating request %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request %s: %w", id, engine.ErrRequestNotFound)
	}
	return nil
}

// ListAll returns every request regardless of status, newest first.
func (s *Store) ListAll(ctx context.Context) ([]engine.LeaveRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM leave_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	return collectRequests(rows)
}
