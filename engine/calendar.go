/*
calendar.go - Holiday-aware working-day calendar

PURPOSE:
  Provides the business-day predicate and the two pieces of date arithmetic
  the rest of the engine builds on: counting working days in a closed
  interval and walking forward N working days from a start date.

WORKING DAY:
  Monday through Friday, excluding any date present in the holiday set.
  Weekends are always excluded regardless of holiday membership.

YEAR-END CAP:
  AddWorkingDays can be asked to stop at December 31 of the start date's
  year. The walk then returns Dec 31 even if the target count was not
  reached. This is a deliberate truncation policy, not an error; the
  validator re-checks the derived working-day count, so fixed-duration
  leave types naturally reject when truncation shortens them.

SEE ALSO:
  - date.go: The Date value type
  - validator.go: Re-checks counts after derivation
*/
package engine

// =============================================================================
// HOLIDAY SET
// =============================================================================

// HolidaySet is a set of non-working dates in addition to weekends.
// Keys are ISO date strings so membership is independent of clock fields.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...Date) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	return set
}

func (h HolidaySet) Add(d Date)           { h[d.String()] = struct{}{} }
func (h HolidaySet) Contains(d Date) bool { _, ok := h[d.String()]; return ok }
func (h HolidaySet) Len() int             { return len(h) }

// =============================================================================
// YEAR-END CAP POLICY
// =============================================================================

// YearEndCapPolicy controls whether a working-day walk may cross December 31
// of the start date's year.
type YearEndCapPolicy int

const (
	// NoYearEndCap lets the walk cross into the next calendar year
	// (Maternity leave does this).
	NoYearEndCap YearEndCapPolicy = iota

	// CapAtYearEnd truncates the walk at December 31 of the start year.
	CapAtYearEnd
)

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar answers working-day questions against a fixed holiday set.
// Read-only during a scheduling decision.
type Calendar struct {
	Holidays HolidaySet
}

func NewCalendar(holidays HolidaySet) Calendar {
	if holidays == nil {
		holidays = HolidaySet{}
	}
	return Calendar{Holidays: holidays}
}

// IsWorkingDay reports whether d is Monday-Friday and not a holiday.
func (c Calendar) IsWorkingDay(d Date) bool {
	return !d.IsWeekend() && !c.Holidays.Contains(d)
}

// WorkingDaysBetween counts working days in the closed interval [start, end].
// Returns 0 when end is before start; never negative.
func (c Calendar) WorkingDaysBetween(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// AddWorkingDays returns the date that is the n-th working day counting
// start itself as working day 1, so n <= 1 returns start unchanged. With
// CapAtYearEnd, a walk that would cross December 31 of start's year stops
// and returns December 31 even if the target count was not reached. Callers
// must treat the truncated date as authoritative and re-check the count.
func (c Calendar) AddWorkingDays(start Date, n int, cap YearEndCapPolicy) Date {
	if n <= 1 {
		return start
	}
	counted := 0
	d := start
	for {
		if c.IsWorkingDay(d) {
			counted++
			if counted >= n {
				return d
			}
		}
		next := d.AddDays(1)
		if cap == CapAtYearEnd && next.Year() > start.Year() {
			return EndOfYear(start.Year())
		}
		d = next
	}
}
