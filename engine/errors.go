/*
errors.go - Centralized error taxonomy for the scheduling engine

PURPOSE:
  All error kinds in one place. Policy violations, missing relievers and
  ineligible relievers are recovered locally by the validator into a
  rejection with a structured reason; they never propagate as faults.
  The only fatal kind is InvalidInput (malformed date, missing required
  field), which fails fast before any policy logic runs.

USAGE:
  if errors.Is(err, engine.ErrInvalidInput) { ... 400 ... }
  var pv *engine.PolicyViolationError
  if errors.As(decision.Cause, &pv) { ... }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed dates or missing required
	// fields, before any policy logic runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPolicyViolation wraps duration, balance and year-boundary failures.
	ErrPolicyViolation = errors.New("leave policy violation")

	// ErrNoRelieverAvailable signals an empty candidate pool.
	ErrNoRelieverAvailable = errors.New("no reliever available")

	// ErrRelieverNotEligible signals a reliever outside the nearest-rank
	// subset or one with a conflicting commitment.
	ErrRelieverNotEligible = errors.New("reliever not eligible")

	// ErrRelieverConflict is returned by stores when the persist-time
	// overlap check loses a race to a concurrent request.
	ErrRelieverConflict = errors.New("reliever committed concurrently")

	// ErrOverlappingLeave is returned by stores when the applicant gained
	// an overlapping absence between validation and persist.
	ErrOverlappingLeave = errors.New("overlapping leave persisted concurrently")

	// ErrStaffNotFound is returned by the staff directory.
	ErrStaffNotFound = errors.New("staff not found")

	// ErrRequestNotFound is returned by stores for an unknown request id.
	ErrRequestNotFound = errors.New("request not found")

	// ErrUnknownLeaveType is returned when no policy exists for the type.
	ErrUnknownLeaveType = errors.New("unknown leave type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError reports a malformed or missing field.
type InvalidInputError struct {
	Field string
	Value string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// PolicyViolationError reports which rule rejected the request.
type PolicyViolationError struct {
	Type   LeaveType
	Rule   string // e.g. "fixed_duration", "accrual_balance", "year_boundary", "max_duration"
	Reason string // human-readable, surfaced to the caller
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("%s leave: %s", e.Type, e.Reason)
}

func (e *PolicyViolationError) Unwrap() error { return ErrPolicyViolation }

// RelieverNotEligibleError reports why the selected reliever was refused.
type RelieverNotEligibleError struct {
	RelieverID StaffID
	Reason     string
}

func (e *RelieverNotEligibleError) Error() string {
	return fmt.Sprintf("reliever %s: %s", e.RelieverID, e.Reason)
}

func (e *RelieverNotEligibleError) Unwrap() error { return ErrRelieverNotEligible }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to the caller's input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrPolicyViolation) ||
		errors.Is(err, ErrNoRelieverAvailable) ||
		errors.Is(err, ErrRelieverNotEligible) ||
		errors.Is(err, ErrUnknownLeaveType)
}

// IsWriteConflict reports whether a persist failed due to a concurrent
// overlapping request and may be retried after re-validation.
func IsWriteConflict(err error) bool {
	return errors.Is(err, ErrRelieverConflict) || errors.Is(err, ErrOverlappingLeave)
}
