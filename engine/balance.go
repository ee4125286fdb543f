package engine

import "github.com/shopspring/decimal"

// =============================================================================
// CASUAL ACCRUAL BALANCE
// =============================================================================

// CasualBalance is the accrual state for one staff member in one calendar
// year. Balance arithmetic uses decimal to stay exact if half-day
// conventions are ever introduced.
type CasualBalance struct {
	StaffID   StaffID
	Year      int
	Ceiling   decimal.Decimal
	Used      decimal.Decimal
	Remaining decimal.Decimal
}

// CasualBalanceFor computes the remaining Casual entitlement from the
// staff member's request history. Only non-Rejected Casual requests that
// start in the given year count against the ceiling; Casual leave never
// crosses a year boundary, so the start year identifies the accrual window.
func CasualBalanceFor(staffID StaffID, year int, ceiling int, history []LeaveRequest) CasualBalance {
	used := decimal.Zero
	for i := range history {
		r := &history[i]
		if r.StaffID != staffID || r.Type != LeaveCasual || !r.Active() {
			continue
		}
		if r.Start.Year() != year {
			continue
		}
		used = used.Add(decimal.NewFromInt(int64(r.WorkingDays)))
	}

	max := decimal.NewFromInt(int64(ceiling))
	remaining := max.Sub(used)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return CasualBalance{
		StaffID:   staffID,
		Year:      year,
		Ceiling:   max,
		Used:      used,
		Remaining: remaining,
	}
}

// RemainingDays returns the whole-day remaining entitlement.
func (b CasualBalance) RemainingDays() int {
	return int(b.Remaining.IntPart())
}
