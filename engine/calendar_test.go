package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/worknest/leave-engine/engine"
)

// Jan 6 2025 is a Monday; used as the anchor week throughout.
func mon() engine.Date { return engine.NewDate(2025, time.January, 6) }

func TestIsWorkingDay(t *testing.T) {
	cal := engine.NewCalendar(engine.NewHolidaySet(engine.NewDate(2025, time.January, 7)))

	assert.True(t, cal.IsWorkingDay(mon()), "plain Monday is a working day")
	assert.False(t, cal.IsWorkingDay(engine.NewDate(2025, time.January, 7)), "holiday Tuesday is not")
	assert.False(t, cal.IsWorkingDay(engine.NewDate(2025, time.January, 4)), "Saturday is not")
	assert.False(t, cal.IsWorkingDay(engine.NewDate(2025, time.January, 5)), "Sunday is not")
}

func TestWorkingDaysBetween_SingleDay(t *testing.T) {
	cal := engine.NewCalendar(nil)

	// A weekday alone counts 1; a weekend day alone counts 0.
	assert.Equal(t, 1, cal.WorkingDaysBetween(mon(), mon()))
	sat := engine.NewDate(2025, time.January, 4)
	assert.Equal(t, 0, cal.WorkingDaysBetween(sat, sat))
	sun := engine.NewDate(2025, time.January, 5)
	assert.Equal(t, 0, cal.WorkingDaysBetween(sun, sun))
}

func TestWorkingDaysBetween_InvertedRangeIsZero(t *testing.T) {
	cal := engine.NewCalendar(nil)
	assert.Equal(t, 0, cal.WorkingDaysBetween(mon(), mon().AddDays(-3)))
}

func TestWorkingDaysBetween_FullWeek(t *testing.T) {
	// GIVEN: a window covering one full ISO week with no holidays
	// THEN: the count equals the Mon-Fri dates in the window
	cal := engine.NewCalendar(nil)
	sunday := engine.NewDate(2025, time.January, 12)
	assert.Equal(t, 5, cal.WorkingDaysBetween(mon(), sunday))
}

func TestWorkingDaysBetween_HolidayExcluded(t *testing.T) {
	cal := engine.NewCalendar(engine.NewHolidaySet(engine.NewDate(2025, time.January, 8)))
	fri := engine.NewDate(2025, time.January, 10)
	assert.Equal(t, 4, cal.WorkingDaysBetween(mon(), fri))
}

func TestWorkingDaysBetween_WeekendHolidayDoesNotDoubleCount(t *testing.T) {
	// Weekends are excluded regardless of holiday membership.
	cal := engine.NewCalendar(engine.NewHolidaySet(engine.NewDate(2025, time.January, 4)))
	assert.Equal(t, 5, cal.WorkingDaysBetween(engine.NewDate(2025, time.January, 3), engine.NewDate(2025, time.January, 9)))
}

func TestAddWorkingDays_OneOrLessReturnsStart(t *testing.T) {
	cal := engine.NewCalendar(engine.NewHolidaySet(mon()))

	// n <= 1 returns start unchanged, even when start is itself a holiday
	// and regardless of the cap policy.
	assert.Equal(t, mon(), cal.AddWorkingDays(mon(), 1, engine.CapAtYearEnd))
	assert.Equal(t, mon(), cal.AddWorkingDays(mon(), 0, engine.CapAtYearEnd))
	assert.Equal(t, mon(), cal.AddWorkingDays(mon(), -4, engine.NoYearEndCap))
}

func TestAddWorkingDays_CountsStartAsDayOne(t *testing.T) {
	cal := engine.NewCalendar(nil)

	// Mon + 5 working days lands on Friday of the same week.
	assert.Equal(t, engine.NewDate(2025, time.January, 10), cal.AddWorkingDays(mon(), 5, engine.CapAtYearEnd))

	// Mon + 6 skips the weekend to the next Monday.
	assert.Equal(t, engine.NewDate(2025, time.January, 13), cal.AddWorkingDays(mon(), 6, engine.CapAtYearEnd))
}

func TestAddWorkingDays_WalksOverHolidays(t *testing.T) {
	cal := engine.NewCalendar(engine.NewHolidaySet(engine.NewDate(2025, time.January, 8)))

	// Wed Jan 8 is a holiday, so the 5th working day shifts to Mon Jan 13.
	assert.Equal(t, engine.NewDate(2025, time.January, 13), cal.AddWorkingDays(mon(), 5, engine.CapAtYearEnd))
}

func TestAddWorkingDays_YearEndCapTruncates(t *testing.T) {
	// GIVEN: a walk starting Mon Dec 29 2025 that needs 10 working days
	// WHEN: the cap policy is CapAtYearEnd
	// THEN: the walk stops at Dec 31 even though only 3 days were counted
	cal := engine.NewCalendar(nil)
	start := engine.NewDate(2025, time.December, 29)

	capped := cal.AddWorkingDays(start, 10, engine.CapAtYearEnd)
	assert.Equal(t, engine.NewDate(2025, time.December, 31), capped)
	assert.Equal(t, 3, cal.WorkingDaysBetween(start, capped), "validator re-checks the truncated count")

	// WHEN: the cap is off, the walk crosses into 2026
	free := cal.AddWorkingDays(start, 10, engine.NoYearEndCap)
	assert.Equal(t, engine.NewDate(2026, time.January, 9), free)
}

func TestParseOptionalDate(t *testing.T) {
	for _, absent := range []string{"", "  ", "none", "NaN", "null", "None"} {
		_, ok, err := engine.ParseOptionalDate(absent)
		assert.NoError(t, err, "absent spelling %q", absent)
		assert.False(t, ok, "absent spelling %q", absent)
	}

	d, ok, err := engine.ParseOptionalDate(" 2025-01-06 ")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, mon(), d)

	_, _, err = engine.ParseOptionalDate("06/01/2025")
	assert.ErrorIs(t, err, engine.ErrInvalidInput, "garbage is an error, not an absence")
}
