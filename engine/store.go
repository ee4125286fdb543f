/*
store.go - External collaborator interfaces

PURPOSE:
  The engine is pure computation plus read access to three external
  collaborators: the staff directory, the request store and the holiday
  source. Persist is the only write in the system and belongs to the
  surrounding application, which calls it after a successful validation.

CONCURRENCY CONTRACT:
  The validator's conflict checks are read-then-decide with no reservation
  step, so two concurrent applicants can pick the same reliever. Persist
  implementations must re-verify the overlap invariant atomically at
  commit (exclusion constraint, serializable transaction, or an immediate
  write lock) and return ErrRelieverConflict / ErrOverlappingLeave when
  the in-memory check turns out stale. The validator's check is a fast
  path, not the correctness guarantee.

IMPLEMENTATIONS:
  - engine/store: in-memory, for tests and the dev server
  - store/sqlite: go-sqlite3, overlap re-check inside an immediate tx
  - store/postgres: pgx, range exclusion constraints
*/
package engine

import "context"

// StaffDirectory exposes the external staff roster.
type StaffDirectory interface {
	// Get returns one staff record, or ErrStaffNotFound.
	Get(ctx context.Context, id StaffID) (StaffRef, error)

	// List returns the full roster.
	List(ctx context.Context) ([]StaffRef, error)
}

// RequestStore exposes existing leave request history and the single
// persist operation.
type RequestStore interface {
	// ListForYear returns a staff member's requests of one type starting
	// in the given calendar year, including Rejected ones.
	ListForYear(ctx context.Context, staffID StaffID, leaveType LeaveType, year int) ([]LeaveRequest, error)

	// ListActive returns all non-Rejected requests for the organization.
	ListActive(ctx context.Context) ([]LeaveRequest, error)

	// Persist writes a validated request and returns its id. Must enforce
	// the overlap invariant at commit time (see package comment).
	Persist(ctx context.Context, req *LeaveRequest) (RequestID, error)
}

// HolidaySource exposes the organization's non-working dates.
type HolidaySource interface {
	ListHolidays(ctx context.Context) ([]Date, error)
}
