/*
Package calendar provides the date and time-of-day primitives used by the
shift engine.

PURPOSE:
  Shifts are attributed to a local calendar DATE and bounded by two
  TIME-OF-DAY values with minute resolution. Neither carries a time zone:
  a shift logged on 2025-12-18 from 23:00 to 07:00 belongs to the 18th no
  matter where it is read.

KEY CONCEPTS IN THIS FILE (time.go):
  - Date: a calendar day, always normalized to UTC midnight
  - TimeOfDay: minutes since midnight in [0, 1439]

KEY CONCEPTS IN period.go:
  - Period: inclusive [Start, End] date range
  - Granularity: year, month, week (Monday start), day
  - Scope: an aggregation request resolved to a Period

COMPARABILITY:
  Every Date is built through time.Date(..., time.UTC), so two Dates for the
  same day are == and can be used as map keys.

SEE ALSO:
  - period.go: Period, Granularity, Scope
  - shift/duration.go: turns two TimeOfDay values into hours
*/
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date (use YYYY-MM-DD)")

	// ErrInvalidTimeOfDay is returned when a time string is not HH:MM in [00:00, 23:59].
	ErrInvalidTimeOfDay = errors.New("invalid time of day (use HH:MM)")

	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidGranularity is returned for anything other than year, month, week or day.
	ErrInvalidGranularity = errors.New("invalid granularity")
)

// =============================================================================
// DATE - Calendar day without time zone
// =============================================================================

type Date struct {
	Time time.Time
}

// NewDate builds a normalized Date. Out-of-range days roll over like time.Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock and zone of t, keeping its local calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Before(other):
		return -1
	case d.After(other):
		return 1
	default:
		return 0
	}
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return DateOf(d.Time.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int              { return d.Time.Year() }
func (d Date) Month() time.Month      { return d.Time.Month() }
func (d Date) Day() int               { return d.Time.Day() }
func (d Date) Weekday() time.Weekday  { return d.Time.Weekday() }
func (d Date) IsZero() bool           { return d.Time.IsZero() }
func (d Date) String() string         { return d.Time.Format(dateLayout) }

const secondsPerDay = 24 * 60 * 60

// DaysBetween counts calendar days from 'from' to 'to' (negative if to is earlier).
func DaysBetween(from, to Date) int {
	return int((to.Time.Unix() - from.Time.Unix()) / secondsPerDay)
}

// At combines the date with a time of day into an absolute instant.
func (d Date) At(t TimeOfDay) time.Time {
	return d.Time.Add(time.Duration(t) * time.Minute)
}

// MarshalText / UnmarshalText make Date usable directly in JSON payloads.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// TIME OF DAY - Minute resolution, no date attached
// =============================================================================

// TimeOfDay is the number of minutes since midnight, in [0, MinutesPerDay).
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay parses HH:MM (24h clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	hour, ok1 := twoDigits(s[0], s[1])
	minute, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(hour, minute)
}

// MustParseTimeOfDay is ParseTimeOfDay for literals in tests and fixtures.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func (t TimeOfDay) Hour() int      { return int(t) / 60 }
func (t TimeOfDay) Minute() int    { return int(t) % 60 }
func (t TimeOfDay) Minutes() int   { return int(t) }
func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()) }

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
