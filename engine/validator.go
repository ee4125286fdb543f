/*
validator.go - Leave request validation state machine

PURPOSE:
  The single entry point invoked by the surrounding application. Takes a
  draft request (staff, type, start date, requested day count, selected
  reliever), derives the end date and working-day count over the holiday
  calendar, and runs the policy and reliever checks in a fixed order.
  The first failing check wins and supplies the rejection reason.

CHECK ORDER:
  1. Input validation (fail fast, InvalidInput)
  2. Derive end date (year-end cap per policy) and working-day count
  3. Casual: accrual balance, year-boundary rule
  4. Fixed duration: Paternity == 14, Maternity == 112
  5. Bounded duration: Annual/Other <= 30
  6. Reliever presence (empty pool reported distinctly from no pick)
  7. Nearest-in-rank constraint (skipped in relaxed mode)
  8. Reliever conflict re-check

  The re-check in step 8 is deliberate: the candidate pool is a snapshot,
  and a concurrent request may have committed the reliever since it was
  built. The persist layer re-verifies again at commit time (store.go).

OUTCOME:
  Draft -> Accepted | Rejected, both terminal. Acceptance emits a Pending
  LeaveRequest the caller persists; rejection returns the violated rule's
  reason and persists nothing.
*/
package engine

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// INPUT AND DECISION
// =============================================================================

// ValidationInput is a draft leave request. End date and working-day count
// are derived, never supplied.
type ValidationInput struct {
	StaffID       StaffID
	Type          LeaveType
	Start         Date
	RequestedDays int
	RelieverID    StaffID
}

// Decision is the validation outcome returned to the caller. A rejection
// is a domain outcome, not an error: Accepted is false, Reason explains
// the first violated rule, and Cause carries the structured violation.
type Decision struct {
	Accepted bool
	Request  *LeaveRequest
	Reason   string
	Cause    error
}

func reject(cause error, reason string) Decision {
	return Decision{Accepted: false, Reason: reason, Cause: cause}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator orchestrates calendar, ladder, policy and conflict checks.
// All state is injected; the validator itself is stateless and safe for
// concurrent use.
type Validator struct {
	Ladder   *RankLadder
	Policies PolicyTable
	Staff    StaffDirectory
	Requests RequestStore
	Holidays HolidaySource

	// Today is injectable for deterministic tests. Nil means time.Now.
	Today func() Date
}

func NewValidator(ladder *RankLadder, policies PolicyTable, staff StaffDirectory, requests RequestStore, holidays HolidaySource) *Validator {
	return &Validator{
		Ladder:   ladder,
		Policies: policies,
		Staff:    staff,
		Requests: requests,
		Holidays: holidays,
	}
}

func (v *Validator) today() Date {
	if v.Today != nil {
		return v.Today()
	}
	return Today()
}

func (v *Validator) calendar(ctx context.Context) (Calendar, error) {
	holidays, err := v.Holidays.ListHolidays(ctx)
	if err != nil {
		return Calendar{}, fmt.Errorf("loading holidays: %w", err)
	}
	return NewCalendar(NewHolidaySet(holidays...)), nil
}

// Validate runs the full check sequence for a draft request.
//
// Policy and reliever violations come back inside the Decision; the error
// return is reserved for InvalidInput (malformed or missing fields, unknown
// staff or leave type) and collaborator failures.
func (v *Validator) Validate(ctx context.Context, in ValidationInput) (Decision, error) {
	// 1. Input validation - fail fast before any policy logic.
	if in.StaffID == "" {
		return Decision{}, &InvalidInputError{Field: "staff_id", Msg: "required"}
	}
	if in.Start.IsZero() {
		return Decision{}, &InvalidInputError{Field: "start_date", Msg: "required"}
	}
	if in.RequestedDays < 1 {
		return Decision{}, &InvalidInputError{Field: "requested_days", Msg: "must be at least 1"}
	}
	policy, ok := v.Policies.Lookup(in.Type)
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownLeaveType, in.Type)
	}
	applicant, err := v.Staff.Get(ctx, in.StaffID)
	if err != nil {
		return Decision{}, fmt.Errorf("looking up applicant %s: %w", in.StaffID, err)
	}

	cal, err := v.calendar(ctx)
	if err != nil {
		return Decision{}, err
	}

	// 2. Derive the absence window. A truncated end date is authoritative:
	// the count is recomputed from it, so fixed-duration types reject
	// naturally when truncation shortened the walk.
	end := cal.AddWorkingDays(in.Start, in.RequestedDays, policy.YearEndCap())
	days := cal.WorkingDaysBetween(in.Start, end)
	window := Window{Start: in.Start, End: end}

	history, err := v.Requests.ListActive(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("loading request history: %w", err)
	}

	// 3. Casual accrual balance and year boundary.
	if in.Type == LeaveCasual && policy.HasAccrual() {
		yearly, err := v.Requests.ListForYear(ctx, in.StaffID, LeaveCasual, in.Start.Year())
		if err != nil {
			return Decision{}, fmt.Errorf("loading casual history: %w", err)
		}
		balance := CasualBalanceFor(in.StaffID, in.Start.Year(), policy.AccrualMax, yearly)
		if days > balance.RemainingDays() {
			return reject(
				&PolicyViolationError{Type: in.Type, Rule: "accrual_balance",
					Reason: fmt.Sprintf("exceeds remaining balance (%d)", balance.RemainingDays())},
				fmt.Sprintf("exceeds remaining balance (%d)", balance.RemainingDays()),
			), nil
		}
		if end.Year() != in.Start.Year() {
			return reject(
				&PolicyViolationError{Type: in.Type, Rule: "year_boundary",
					Reason: "may not cross a year boundary"},
				"Casual leave may not cross a year boundary",
			), nil
		}
	}

	// 4. Fixed-duration types must match exactly.
	if policy.Mode == DurationFixed && days != policy.DurationValue {
		reason := fmt.Sprintf("must be exactly %d working days", policy.DurationValue)
		return reject(&PolicyViolationError{Type: in.Type, Rule: "fixed_duration", Reason: reason}, reason), nil
	}

	// 5. Bounded types must not exceed the ceiling.
	if policy.Mode == DurationBounded && days > policy.DurationValue {
		reason := fmt.Sprintf("exceeds maximum of %d working days", policy.DurationValue)
		return reject(&PolicyViolationError{Type: in.Type, Rule: "max_duration", Reason: reason}, reason), nil
	}

	// 6-8. Reliever checks.
	roster, err := v.Staff.List(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("loading roster: %w", err)
	}
	conflicts := NewConflictIndex(history)
	relaxed := in.Start.Year() > v.today().Year()
	selection := NewSelector(v.Ladder).Select(applicant, window, roster, conflicts, relaxed)

	if selection.Empty() {
		return reject(ErrNoRelieverAvailable, "no reliever available for the requested window"), nil
	}
	if in.RelieverID == "" {
		return reject(
			&RelieverNotEligibleError{Reason: "no reliever selected"},
			"no reliever selected",
		), nil
	}
	if !selection.PoolContains(in.RelieverID) {
		// Either an unknown staff id or someone excluded by the conflict
		// scan; the defensive re-check below reports the conflicting case
		// precisely, so this branch covers ids outside the roster.
		if conflicts.HasConflict(in.RelieverID, window) {
			return reject(
				&RelieverNotEligibleError{RelieverID: in.RelieverID, Reason: "unavailable for the requested window"},
				"selected reliever is unavailable for the requested window",
			), nil
		}
		return reject(
			&RelieverNotEligibleError{RelieverID: in.RelieverID, Reason: "not in the staff roster"},
			"selected reliever is not in the staff roster",
		), nil
	}
	if !relaxed && !selection.NearestContains(in.RelieverID) {
		return reject(
			&RelieverNotEligibleError{RelieverID: in.RelieverID, Reason: "must select nearest-in-rank reliever"},
			"must select nearest-in-rank reliever",
		), nil
	}
	// Defensive re-check against the same snapshot; the persist layer
	// repeats it atomically at commit.
	if conflicts.HasConflict(in.RelieverID, window) {
		return reject(
			&RelieverNotEligibleError{RelieverID: in.RelieverID, Reason: "unavailable for the requested window"},
			"selected reliever is unavailable for the requested window",
		), nil
	}

	req := &LeaveRequest{
		ID:          NewRequestID(),
		StaffID:     in.StaffID,
		Type:        in.Type,
		Start:       in.Start,
		End:         end,
		WorkingDays: days,
		RelieverID:  in.RelieverID,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	return Decision{Accepted: true, Request: req}, nil
}

// =============================================================================
// SUPPORTING QUERIES - Used by the application shell
// =============================================================================

// DeriveWindow computes the absence window and working-day count for a
// draft request without running the policy checks.
func (v *Validator) DeriveWindow(ctx context.Context, lt LeaveType, start Date, requestedDays int) (Window, int, error) {
	policy, ok := v.Policies.Lookup(lt)
	if !ok {
		return Window{}, 0, fmt.Errorf("%w: %q", ErrUnknownLeaveType, lt)
	}
	cal, err := v.calendar(ctx)
	if err != nil {
		return Window{}, 0, err
	}
	end := cal.AddWorkingDays(start, requestedDays, policy.YearEndCap())
	return Window{Start: start, End: end}, cal.WorkingDaysBetween(start, end), nil
}

// RelieverOptions returns the candidate pool and nearest subset for an
// applicant's window, for display and manual selection.
func (v *Validator) RelieverOptions(ctx context.Context, staffID StaffID, w Window) (Selection, error) {
	applicant, err := v.Staff.Get(ctx, staffID)
	if err != nil {
		return Selection{}, fmt.Errorf("looking up applicant %s: %w", staffID, err)
	}
	roster, err := v.Staff.List(ctx)
	if err != nil {
		return Selection{}, fmt.Errorf("loading roster: %w", err)
	}
	history, err := v.Requests.ListActive(ctx)
	if err != nil {
		return Selection{}, fmt.Errorf("loading request history: %w", err)
	}
	relaxed := w.Start.Year() > v.today().Year()
	return NewSelector(v.Ladder).Select(applicant, w, roster, NewConflictIndex(history), relaxed), nil
}

// CasualBalance returns the staff member's Casual accrual state for a year.
func (v *Validator) CasualBalance(ctx context.Context, staffID StaffID, year int) (CasualBalance, error) {
	policy := v.Policies[LeaveCasual]
	yearly, err := v.Requests.ListForYear(ctx, staffID, LeaveCasual, year)
	if err != nil {
		return CasualBalance{}, fmt.Errorf("loading casual history: %w", err)
	}
	return CasualBalanceFor(staffID, year, policy.AccrualMax, yearly), nil
}
