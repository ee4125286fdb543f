package engine

import (
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granularity time value
// =============================================================================

// Date is a calendar date. The zero value is "no date". All comparisons
// normalize to midnight UTC so callers can construct a Date from any
// time.Time without worrying about clock components.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in ISO format (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, &InvalidInputError{Field: "date", Value: s, Msg: "expected YYYY-MM-DD"}
	}
	return DateOf(t), nil
}

// ParseOptionalDate parses a date that may legitimately be absent. Empty
// strings and the textual null spellings the source data carries ("none",
// "nan", "null") all mean "no date". Any other unparsable value is an error,
// not an absence.
func ParseOptionalDate(s string) (Date, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "nan", "null":
		return Date{}, false, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return Date{}, false, err
	}
	return d, true, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.normalize().AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.normalize().Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// Year boundaries
func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }
