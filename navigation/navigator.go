/*
Package navigation implements the calendar navigation state machine that
decides which bucket the user is looking at.

STATE:
  granularity   year | month | week | day
  anchor        a date inside the current bucket
  activeRange   optional inclusive [start, end]
  activeFilter  optional category / pay-tier filter

  Initial state: month granularity anchored on the injected "today".

TRANSITIONS:
  SetGranularity(g)   replace granularity; anchor and range untouched
  SelectDate(d)       anchor = d, range cleared, granularity = day
  SetRange(p)         activeRange = p; granularity untouched
  SetFilter(f)        activeFilter = f
  ClearRange()        clear activeRange AND activeFilter
  Next() / Prev():
    no active range   move anchor one calendar unit (unbounded, always moves)
    active range      jump to the next/previous WORKED bucket: a bucket that
                      holds, inside the range, at least one shift matching the
                      filter. At the first/last worked bucket it is a no-op.
    year + range      still one calendar year (years are dense enough)

  When jumping between worked buckets the anchor lands on the first worked
  day of the target bucket, so it always sits inside the range.

CONCURRENCY:
  A Navigator is owned by a single session. It is not safe for concurrent
  use; the owner must serialize calls.

EXAMPLE:
  nav := navigation.New(calendar.MustParseDate("2025-12-18"))
  nav.SetGranularity(calendar.GranularityDay)
  nav.SetRange(calendar.Period{Start: dec15, End: dec20})
  moved := nav.Next(ix) // anchor -> next day holding a shift

SEE ALSO:
  - report/aggregate.go: Summary() totals for the current bucket
  - calendar/period.go: BucketStart, Step
*/
package navigation

import (
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/report"
	"github.com/warp/shiftbook/shift"
)

// State is a copy of the navigator state.
type State struct {
	Granularity  calendar.Granularity
	Anchor       calendar.Date
	ActiveRange  *calendar.Period
	ActiveFilter *shift.Filter
}

// Navigator is the stateful controller behind calendar paging.
type Navigator struct {
	granularity calendar.Granularity
	anchor      calendar.Date
	rng         *calendar.Period
	filter      *shift.Filter
}

// New starts at month granularity anchored on today. The current date is
// injected rather than read from the clock.
func New(today calendar.Date) *Navigator {
	return &Navigator{granularity: calendar.GranularityMonth, anchor: today}
}

// Restore rebuilds a navigator from a saved State, rejecting an unknown
// granularity or an inverted range.
func Restore(s State) (*Navigator, error) {
	if !s.Granularity.Valid() {
		return nil, calendar.ErrInvalidGranularity
	}
	n := &Navigator{granularity: s.Granularity, anchor: s.Anchor}
	if s.ActiveRange != nil {
		p := *s.ActiveRange
		if p.End.Before(p.Start) {
			return nil, calendar.ErrInvalidRange
		}
		n.rng = &p
	}
	if s.ActiveFilter != nil && !s.ActiveFilter.IsZero() {
		f := *s.ActiveFilter
		n.filter = &f
	}
	return n, nil
}

// State returns a copy that does not alias the navigator.
func (n *Navigator) State() State {
	s := State{Granularity: n.granularity, Anchor: n.anchor}
	if n.rng != nil {
		p := *n.rng
		s.ActiveRange = &p
	}
	if n.filter != nil {
		f := *n.filter
		s.ActiveFilter = &f
	}
	return s
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// SetGranularity replaces the granularity. Anchor and range are kept.
func (n *Navigator) SetGranularity(g calendar.Granularity) error {
	if !g.Valid() {
		return calendar.ErrInvalidGranularity
	}
	n.granularity = g
	return nil
}

// SelectDate drills into a single day and drops the active range.
func (n *Navigator) SelectDate(d calendar.Date) {
	n.anchor = d
	n.rng = nil
	n.granularity = calendar.GranularityDay
}

// SetRange activates a date range. Granularity is kept.
func (n *Navigator) SetRange(p calendar.Period) error {
	if p.End.Before(p.Start) {
		return calendar.ErrInvalidRange
	}
	n.rng = &p
	return nil
}

// SetFilter activates a filter; the zero Filter clears it.
func (n *Navigator) SetFilter(f shift.Filter) {
	if f.IsZero() {
		n.filter = nil
		return
	}
	n.filter = &f
}

// ClearRange drops both the active range and the active filter.
func (n *Navigator) ClearRange() {
	n.rng = nil
	n.filter = nil
}

// Next moves forward and reports whether the anchor changed.
func (n *Navigator) Next(ix *shift.Index) bool { return n.move(ix, 1) }

// Prev moves backward and reports whether the anchor changed.
func (n *Navigator) Prev(ix *shift.Index) bool { return n.move(ix, -1) }

func (n *Navigator) move(ix *shift.Index, dir int) bool {
	if n.rng == nil || n.granularity == calendar.GranularityYear {
		n.anchor = calendar.Step(n.granularity, n.anchor, dir)
		return true
	}

	buckets := n.WorkedBuckets(ix)
	current := calendar.BucketStart(n.granularity, n.anchor)
	if dir > 0 {
		for _, b := range buckets {
			if b.Start.After(current) {
				n.anchor = b.FirstWorked
				return true
			}
		}
		return false
	}
	for i := len(buckets) - 1; i >= 0; i-- {
		if buckets[i].Start.Before(current) {
			n.anchor = buckets[i].FirstWorked
			return true
		}
	}
	return false
}

// =============================================================================
// WORKED BUCKETS
// =============================================================================

// Bucket is one worked bucket: its calendar start and the first day inside
// the active range that holds a matching shift.
type Bucket struct {
	Start       calendar.Date
	FirstWorked calendar.Date
}

// WorkedBuckets returns the sorted, distinct buckets of the current
// granularity that hold at least one shift matching the active filter inside
// the active range. Without an active range it returns nil.
func (n *Navigator) WorkedBuckets(ix *shift.Index) []Bucket {
	if n.rng == nil {
		return nil
	}
	filter := n.activeFilter()
	var buckets []Bucket
	for _, d := range ix.DatesIn(*n.rng) {
		if !anyMatch(ix.On(d), filter) {
			continue
		}
		start := calendar.BucketStart(n.granularity, d)
		if len(buckets) > 0 && buckets[len(buckets)-1].Start.Equal(start) {
			continue
		}
		buckets = append(buckets, Bucket{Start: start, FirstWorked: d})
	}
	return buckets
}

func anyMatch(shifts []shift.Shift, f shift.Filter) bool {
	for _, s := range shifts {
		if f.Match(s) {
			return true
		}
	}
	return false
}

func (n *Navigator) activeFilter() shift.Filter {
	if n.filter == nil {
		return shift.Filter{}
	}
	return *n.filter
}

// =============================================================================
// CURRENT BUCKET
// =============================================================================

// Scope is the calendar bucket containing the anchor.
func (n *Navigator) Scope() calendar.Scope {
	return calendar.BucketScope(n.granularity, n.anchor)
}

// Summary aggregates the current bucket, clipped to the active range and
// restricted by the active filter. A bucket outside the range yields an
// empty rollup over the bucket's own period.
func (n *Navigator) Summary(ix *shift.Index, prices shift.PriceBook) report.Rollup {
	p := n.Scope().Period()
	if n.rng != nil {
		clipped, ok := p.Intersect(*n.rng)
		if !ok {
			return report.AggregatePeriod(nil, p, prices, n.activeFilter())
		}
		p = clipped
	}
	return report.AggregatePeriod(ix, p, prices, n.activeFilter())
}
