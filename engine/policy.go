/*
policy.go - Per leave-type duration and accrual rules

PURPOSE:
  Defines the numeric policy attached to each leave type: whether its
  duration is fixed, bounded, or unbounded, whether the derived end date
  is capped at December 31, and whether an annual accrual ceiling applies.

DURATION MODES:
  DurationFixed:
    - The derived working-day count must equal DurationValue exactly
    - Paternity = 14, Maternity = 112
  DurationBounded:
    - The derived working-day count must not exceed DurationValue
    - Annual <= 30, Other <= 30, Casual <= 14
  DurationUnbounded:
    - No duration check (Sick)

ACCRUAL:
  Casual carries a ceiling of 14 working days per calendar year, tracked
  per staff member across all their non-Rejected Casual requests in that
  year. See balance.go for the computation.
*/
package engine

// =============================================================================
// DURATION MODE
// =============================================================================

type DurationMode int

const (
	DurationUnbounded DurationMode = iota
	DurationBounded
	DurationFixed
)

func (m DurationMode) String() string {
	switch m {
	case DurationFixed:
		return "fixed"
	case DurationBounded:
		return "bounded"
	default:
		return "unbounded"
	}
}

// =============================================================================
// ACCRUAL WINDOW
// =============================================================================

// AccrualWindow names the period over which an accrual ceiling resets.
type AccrualWindow string

const (
	AccrualNone         AccrualWindow = ""
	AccrualCalendarYear AccrualWindow = "calendar_year"
)

// =============================================================================
// LEAVE TYPE POLICY
// =============================================================================

// LeaveTypePolicy is the complete ruleset for one leave type.
type LeaveTypePolicy struct {
	Type          LeaveType
	Mode          DurationMode
	DurationValue int  // exact count for Fixed, ceiling for Bounded
	CapsAtYearEnd bool // whether end-date derivation stops at Dec 31
	AccrualWindow AccrualWindow
	AccrualMax    int // ceiling per accrual window, 0 when none
}

// YearEndCap translates the policy flag into the calendar walk policy.
func (p LeaveTypePolicy) YearEndCap() YearEndCapPolicy {
	if p.CapsAtYearEnd {
		return CapAtYearEnd
	}
	return NoYearEndCap
}

// HasAccrual reports whether the type tracks a resettable balance.
func (p LeaveTypePolicy) HasAccrual() bool {
	return p.AccrualWindow != AccrualNone
}

// =============================================================================
// POLICY TABLE
// =============================================================================

// PolicyTable maps each leave type to its policy. Configured at process
// start, read-only thereafter.
type PolicyTable map[LeaveType]LeaveTypePolicy

// Lookup returns the policy for a leave type.
func (t PolicyTable) Lookup(lt LeaveType) (LeaveTypePolicy, bool) {
	p, ok := t[lt]
	return p, ok
}

// DefaultPolicies returns the standard policy table.
func DefaultPolicies() PolicyTable {
	return PolicyTable{
		LeaveAnnual: {
			Type:          LeaveAnnual,
			Mode:          DurationBounded,
			DurationValue: 30,
			CapsAtYearEnd: true,
		},
		LeaveCasual: {
			Type:          LeaveCasual,
			Mode:          DurationBounded,
			DurationValue: 14,
			CapsAtYearEnd: true,
			AccrualWindow: AccrualCalendarYear,
			AccrualMax:    14,
		},
		LeaveSick: {
			Type:          LeaveSick,
			Mode:          DurationUnbounded,
			CapsAtYearEnd: true,
		},
		LeaveMaternity: {
			Type:          LeaveMaternity,
			Mode:          DurationFixed,
			DurationValue: 112,
			CapsAtYearEnd: false, // allowed to cross into the next year
		},
		LeavePaternity: {
			Type:          LeavePaternity,
			Mode:          DurationFixed,
			DurationValue: 14,
			CapsAtYearEnd: true,
		},
		LeaveOther: {
			Type:          LeaveOther,
			Mode:          DurationBounded,
			DurationValue: 30,
			CapsAtYearEnd: true,
		},
	}
}
