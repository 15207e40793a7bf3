/*
Package report implements the aggregation engine: rolling shifts up into
hours, earnings, shift counts and category counts over a calendar scope.

PURPOSE:
  Answers "how much did I work, and earn, in this day / week / month /
  year / range?", optionally restricted to one category or pay tier.

ALGORITHM:
  1. Resolve the Scope to an inclusive Period
  2. Walk the dates of that period that hold shifts (via the Shift Index;
     empty days contribute nothing and are never materialized)
  3. For each shift passing the Filter:
       TotalHours    += duration(start, end)
       TotalEarnings += duration x CURRENT tier price (only if the tier resolves)
       ShiftCount    += 1
       Categories[category] += 1 (priced or not)

PRICES:
  Prices are not historized. Re-pricing a tier changes every aggregate that
  references it, including past ones. Callers that need an audit trail must
  snapshot prices themselves.

DUAL MODE:
  Aggregate returns one Rollup for the whole scope. Breakdown returns that
  total plus one Rollup per immediate sub-bucket (months of a year, days of
  a month/week/range), which the year and month views show side by side.

EXAMPLE:
  ix, prices, _ := logbook.Snapshot(ctx)
  r := report.Aggregate(ix, calendar.MonthScope(2025, time.December), prices, shift.Filter{})
  fmt.Println(r.TotalHours, r.TotalEarnings)

SEE ALSO:
  - shift/index.go: the only read path used here
  - shift/duration.go: the unit of truth for hours
  - calendar/period.go: Scope resolution and sub-buckets
*/
package report

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/shift"
)

// =============================================================================
// ROLLUP - Aggregated values for one bucket
// =============================================================================

// Rollup is the aggregate of every matching shift in Period.
type Rollup struct {
	Period            calendar.Period
	TotalHours        decimal.Decimal
	TotalEarnings     decimal.Decimal
	ShiftCount        int
	CategoryBreakdown map[string]int
}

// IsEmpty reports whether no shift contributed.
func (r Rollup) IsEmpty() bool { return r.ShiftCount == 0 }

func newRollup(p calendar.Period) Rollup {
	return Rollup{
		Period:            p,
		TotalHours:        decimal.Zero,
		TotalEarnings:     decimal.Zero,
		CategoryBreakdown: make(map[string]int),
	}
}

func (r *Rollup) add(s shift.Shift, prices shift.PriceBook) {
	hours := s.Hours()
	r.TotalHours = r.TotalHours.Add(hours)
	if price, ok := prices.Price(s.HourTypeID); ok {
		r.TotalEarnings = r.TotalEarnings.Add(hours.Mul(price))
	}
	r.ShiftCount++
	r.CategoryBreakdown[s.Category]++
}

// =============================================================================
// AGGREGATE - Single rollup over a scope
// =============================================================================

// Aggregate rolls up every shift in scope matching filter. A scope without
// data yields a zero-valued Rollup, never an error.
func Aggregate(ix *shift.Index, scope calendar.Scope, prices shift.PriceBook, filter shift.Filter) Rollup {
	return AggregatePeriod(ix, scope.Period(), prices, filter)
}

// AggregatePeriod is Aggregate over an already-resolved period.
func AggregatePeriod(ix *shift.Index, p calendar.Period, prices shift.PriceBook, filter shift.Filter) Rollup {
	r := newRollup(p)
	for _, d := range ix.DatesIn(p) {
		for _, s := range ix.On(d) {
			if filter.Match(s) {
				r.add(s, prices)
			}
		}
	}
	return r
}

// =============================================================================
// BREAKDOWN - Total plus per-sub-bucket rollups
// =============================================================================

// Report pairs the scope total with its sub-bucket rollups.
type Report struct {
	Scope             calendar.Scope
	BucketGranularity calendar.Granularity
	Total             Rollup
	Buckets           []Rollup
}

// Breakdown aggregates the whole scope and each of its immediate sub-buckets.
// The buckets always cover the scope exactly, so the bucket sums equal the
// total. Long ranges break down per month or year instead of per day.
func Breakdown(ix *shift.Index, scope calendar.Scope, prices shift.PriceBook, filter shift.Filter) Report {
	subs := scope.SubBuckets()
	rep := Report{
		Scope:             scope,
		BucketGranularity: scope.SubGranularity(),
		Total:             Aggregate(ix, scope, prices, filter),
		Buckets:           make([]Rollup, len(subs)),
	}
	for i, sub := range subs {
		rep.Buckets[i] = Aggregate(ix, sub, prices, filter)
	}
	return rep
}

// Sum adds rollups together; the resulting Period spans the inputs.
func Sum(rollups ...Rollup) Rollup {
	if len(rollups) == 0 {
		return newRollup(calendar.Period{})
	}
	total := newRollup(calendar.Period{Start: rollups[0].Period.Start, End: rollups[0].Period.End})
	for _, r := range rollups {
		if r.Period.Start.Before(total.Period.Start) {
			total.Period.Start = r.Period.Start
		}
		if r.Period.End.After(total.Period.End) {
			total.Period.End = r.Period.End
		}
		total.TotalHours = total.TotalHours.Add(r.TotalHours)
		total.TotalEarnings = total.TotalEarnings.Add(r.TotalEarnings)
		total.ShiftCount += r.ShiftCount
		for c, n := range r.CategoryBreakdown {
			total.CategoryBreakdown[c] += n
		}
	}
	return total
}
