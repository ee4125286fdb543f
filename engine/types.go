/*
Package engine implements the leave and relief scheduling core.

PURPOSE:
  This package contains the decision logic that determines whether a leave
  request is valid and who may relieve the applicant during the absence.
  It combines four interacting concerns that must all hold before a request
  is accepted:
    - Calendar arithmetic over a holiday-aware working-day calendar
    - Seniority ordering via a canonical rank ladder
    - Temporal interval overlap against existing request history
    - Per-leave-type numeric policy (fixed/bounded durations, accrual balance)

KEY CONCEPTS IN THIS FILE (types.go):
  - StaffRef: Immutable staff record owned by the external directory
  - LeaveRequest: A request with derived end date and working-day count
  - Window: A closed date interval with inclusive overlap semantics
  - RelieverCandidate: Ephemeral selection result, never persisted

DESIGN PRINCIPLES:
  1. No hidden state: calendars, ladders, and history are passed in explicitly
  2. Pure decision core: the engine reads collaborators but never writes
  3. Rejections are values, not panics: malformed-but-well-typed input
     degrades to a rejection with an explanatory reason

SEE ALSO:
  - calendar.go: Working-day predicate and date arithmetic
  - rank.go: Rank ladder and distance metric
  - selector.go: Reliever candidate selection
  - validator.go: The single entry point producing accept/reject decisions
*/
package engine

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StaffID string
type RequestID string

// NewRequestID returns a fresh identifier for a leave request.
func NewRequestID() RequestID {
	return RequestID("req-" + uuid.NewString())
}

// =============================================================================
// STAFF - Owned by the external staff directory
// =============================================================================

// StaffRef identifies a staff member. Immutable for this subsystem; the
// Rank field is a raw string validated against the RankLadder via Normalize.
type StaffRef struct {
	ID      StaffID
	Name    string
	Rank    string
	Section string
}

// =============================================================================
// LEAVE TYPES AND REQUEST STATUS
// =============================================================================

type LeaveType string

const (
	LeaveAnnual    LeaveType = "Annual"
	LeaveCasual    LeaveType = "Casual"
	LeaveSick      LeaveType = "Sick"
	LeaveMaternity LeaveType = "Maternity"
	LeavePaternity LeaveType = "Paternity"
	LeaveOther     LeaveType = "Other"
)

// ParseLeaveType maps a raw string onto a known leave type.
func ParseLeaveType(raw string) (LeaveType, bool) {
	switch LeaveType(raw) {
	case LeaveAnnual, LeaveCasual, LeaveSick, LeaveMaternity, LeavePaternity, LeaveOther:
		return LeaveType(raw), true
	}
	return "", false
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// =============================================================================
// WINDOW - Closed date interval
// =============================================================================

// Window is the closed interval [Start, End]. Both endpoints are inclusive.
type Window struct {
	Start Date
	End   Date
}

// Overlaps reports whether two closed intervals intersect. A shared single
// day counts as an overlap.
func (w Window) Overlaps(o Window) bool {
	return !w.Start.After(o.End) && !o.Start.After(w.End)
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Date) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

func (w Window) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// =============================================================================
// LEAVE REQUEST - Emitted by the validator, mutated only by the external
// approval workflow (Pending -> Approved/Rejected)
// =============================================================================

// LeaveRequest is the persistable record produced on successful validation.
// End and WorkingDays are derived from Start and the requested day count;
// they are never independently settable.
type LeaveRequest struct {
	ID          RequestID
	StaffID     StaffID
	Type        LeaveType
	Start       Date
	End         Date
	WorkingDays int
	RelieverID  StaffID
	Status      RequestStatus
	Reason      string
	CreatedAt   time.Time
}

// Window returns the request's absence interval.
func (r *LeaveRequest) Window() Window {
	return Window{Start: r.Start, End: r.End}
}

// Active reports whether the request participates in conflict checks.
// Rejected requests are excluded both as absences and as reliever
// commitments.
func (r *LeaveRequest) Active() bool {
	return r.Status != StatusRejected
}

// =============================================================================
// RELIEVER CANDIDATE - Ephemeral, computed per selection call
// =============================================================================

// RelieverCandidate is a member of the selection pool with the effective
// rank distance used for the nearest-in-rank constraint.
type RelieverCandidate struct {
	StaffID  StaffID
	Name     string
	Rank     string
	Distance int
}
