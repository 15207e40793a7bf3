package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive [Start, End] range of calendar days.
type Period struct {
	Start Date
	End   Date
}

// NewPeriod validates that end is not before start.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return Period{Start: start, End: end}, nil
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every day in the period, in order.
func (p Period) Days() []Date {
	if p.End.Before(p.Start) {
		return nil
	}
	days := make([]Date, 0, p.Len())
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Len is the number of days in the period.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Intersect returns the overlap of two periods, or false if they are disjoint.
func (p Period) Intersect(other Period) (Period, bool) {
	start, end := p.Start, p.End
	if other.Start.After(start) {
		start = other.Start
	}
	if other.End.Before(end) {
		end = other.End
	}
	if end.Before(start) {
		return Period{}, false
	}
	return Period{Start: start, End: end}, true
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// GRANULARITY - Calendar bucket sizes
// =============================================================================

type Granularity string

const (
	GranularityYear  Granularity = "year"
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
	GranularityDay   Granularity = "day"
)

// ParseGranularity accepts year, month, week or day.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityYear, GranularityMonth, GranularityWeek, GranularityDay:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
}

// Valid reports whether g is one of the four calendar granularities.
func (g Granularity) Valid() bool {
	_, err := ParseGranularity(string(g))
	return err == nil
}

// BucketStart returns the first day of the g-bucket containing d.
// Weeks start on Monday.
func BucketStart(g Granularity, d Date) Date {
	switch g {
	case GranularityYear:
		return StartOfYear(d.Year())
	case GranularityMonth:
		return StartOfMonth(d.Year(), d.Month())
	case GranularityWeek:
		return StartOfWeek(d)
	default:
		return d
	}
}

// BucketPeriod returns the whole g-bucket containing d.
func BucketPeriod(g Granularity, d Date) Period {
	start := BucketStart(g, d)
	switch g {
	case GranularityYear:
		return Period{Start: start, End: EndOfYear(d.Year())}
	case GranularityMonth:
		return Period{Start: start, End: EndOfMonth(d.Year(), d.Month())}
	case GranularityWeek:
		return Period{Start: start, End: start.AddDays(6)}
	default:
		return Period{Start: d, End: d}
	}
}

// Step moves d by n units of g. Month steps clamp to the last day of the
// target month, so Jan 31 + 1 month is Feb 28 (or 29).
func Step(g Granularity, d Date, n int) Date {
	switch g {
	case GranularityYear:
		target := StartOfMonth(d.Year()+n, d.Month())
		return clampDay(target, d.Day())
	case GranularityMonth:
		target := StartOfMonth(d.Year(), d.Month()).AddMonths(n)
		return clampDay(target, d.Day())
	case GranularityWeek:
		return d.AddDays(7 * n)
	default:
		return d.AddDays(n)
	}
}

func clampDay(monthStart Date, day int) Date {
	last := EndOfMonth(monthStart.Year(), monthStart.Month()).Day()
	if day > last {
		day = last
	}
	return NewDate(monthStart.Year(), monthStart.Month(), day)
}

// =============================================================================
// BUCKET BOUNDARIES
// =============================================================================

func StartOfYear(year int) Date                  { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date                    { return NewDate(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }
func EndOfMonth(year int, month time.Month) Date {
	return NewDate(year, month+1, 1).AddDays(-1)
}

// StartOfWeek returns the Monday of the week containing d.
func StartOfWeek(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// EndOfWeek returns the Sunday of the week containing d.
func EndOfWeek(d Date) Date {
	return StartOfWeek(d).AddDays(6)
}

// =============================================================================
// SCOPE - Aggregation request
// =============================================================================

// Scope is either a calendar bucket (Granularity + Anchor) or, when
// Granularity is empty, an explicit inclusive Range with no upper bound on span.
type Scope struct {
	Granularity Granularity
	Anchor      Date
	Range       Period
}

func YearScope(year int) Scope {
	return Scope{Granularity: GranularityYear, Anchor: StartOfYear(year)}
}

func MonthScope(year int, month time.Month) Scope {
	return Scope{Granularity: GranularityMonth, Anchor: StartOfMonth(year, month)}
}

// WeekScope accepts any day of the week; it is normalized to the Monday.
func WeekScope(anchor Date) Scope {
	return Scope{Granularity: GranularityWeek, Anchor: StartOfWeek(anchor)}
}

func DayScope(d Date) Scope {
	return Scope{Granularity: GranularityDay, Anchor: d}
}

// BucketScope is the g-bucket containing d.
func BucketScope(g Granularity, d Date) Scope {
	return Scope{Granularity: g, Anchor: BucketStart(g, d)}
}

func RangeScope(p Period) Scope {
	return Scope{Range: p}
}

// IsRange reports whether the scope is an explicit date range.
func (s Scope) IsRange() bool { return s.Granularity == "" }

// Period resolves the scope to an explicit inclusive date range.
func (s Scope) Period() Period {
	if s.IsRange() {
		return s.Range
	}
	return BucketPeriod(s.Granularity, s.Anchor)
}

// Ranges up to these lengths (in days) break down per day, then per month.
// Anything longer breaks down per year.
const (
	maxDailyRangeDays   = 93
	maxMonthlyRangeDays = 3 * 366
)

// SubGranularity is the granularity of the scope's immediate sub-buckets.
func (s Scope) SubGranularity() Granularity {
	switch s.Granularity {
	case GranularityYear:
		return GranularityMonth
	case GranularityMonth, GranularityWeek, GranularityDay:
		return GranularityDay
	}
	switch n := s.Range.Len(); {
	case n <= maxDailyRangeDays:
		return GranularityDay
	case n <= maxMonthlyRangeDays:
		return GranularityMonth
	default:
		return GranularityYear
	}
}

// SubBuckets returns the immediate sub-buckets of the scope:
//
//	year  -> 12 months
//	month -> its days
//	week  -> 7 days
//	day   -> itself
//	range -> days, months or years depending on its length, the first and
//	         last clipped to the range
//
// The sub-buckets always tile the scope's period exactly.
func (s Scope) SubBuckets() []Scope {
	switch s.Granularity {
	case GranularityYear:
		buckets := make([]Scope, 0, 12)
		for m := time.January; m <= time.December; m++ {
			buckets = append(buckets, MonthScope(s.Anchor.Year(), m))
		}
		return buckets
	case GranularityDay:
		return []Scope{s}
	}

	g := s.SubGranularity()
	p := s.Period()
	if g == GranularityDay {
		days := p.Days()
		buckets := make([]Scope, len(days))
		for i, d := range days {
			buckets[i] = DayScope(d)
		}
		return buckets
	}

	var buckets []Scope
	for start := BucketStart(g, p.Start); !start.After(p.End); start = Step(g, start, 1) {
		clipped, ok := BucketPeriod(g, start).Intersect(p)
		if !ok {
			continue
		}
		buckets = append(buckets, RangeScope(clipped))
	}
	return buckets
}

func (s Scope) String() string {
	if s.IsRange() {
		return "range " + s.Range.String()
	}
	return string(s.Granularity) + " " + s.Period().String()
}
