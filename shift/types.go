/*
Package shift provides the time accounting core: shifts, pay tiers, the
duration calculator, the overlap validator and the shift index.

PURPOSE:
  A worker logs SHIFTS (date, start/end time, category, optional pay tier).
  This package turns those records into hours, rejects shifts that collide
  with another shift on the same date, and maintains the date-keyed index
  every aggregation and navigation read goes through.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift: one worked interval attributed to a calendar date
  - PayTier: a named hourly rate, referenced (never embedded) by shifts
  - PriceBook: current tier prices, resolved at aggregation time
  - Filter: optional category / pay-tier predicate

DESIGN PRINCIPLES:
  1. Precision: hours, prices and earnings are decimal.Decimal
  2. Soft references: a shift pointing at a deleted tier is simply unpriced
  3. No historized prices: the PriceBook always holds today's rates

USAGE:
  s := shift.Shift{
      Date:       calendar.MustParseDate("2025-12-18"),
      Start:      calendar.MustParseTimeOfDay("09:00"),
      End:        calendar.MustParseTimeOfDay("17:00"),
      Category:   "Programado",
      HourTypeID: "normal",
  }
  s.Hours() // 8

SEE ALSO:
  - duration.go: start/end -> hours
  - overlap.go: same-date conflict detection
  - index.go: date -> shifts projection and its cache
  - logbook.go: validated create/edit/delete workflow
*/
package shift

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shiftbook/calendar"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ShiftID string
type PayTierID string

// =============================================================================
// SHIFT - A single worked interval
// =============================================================================

// Shift is attributed to Date. End may equal Start (a 24-hour shift) or be
// earlier than Start (the shift crosses midnight); see Duration.
type Shift struct {
	ID         ShiftID
	Date       calendar.Date
	Start      calendar.TimeOfDay
	End        calendar.TimeOfDay
	Category   string
	HourTypeID PayTierID // empty = unpriced
	Notes      string
}

// Hours is the decimal duration of the shift.
func (s Shift) Hours() decimal.Decimal { return Duration(s.Start, s.End) }

// Minutes is the integer duration of the shift.
func (s Shift) Minutes() int { return DurationMinutes(s.Start, s.End) }

// Priced reports whether the shift references a pay tier at all.
func (s Shift) Priced() bool { return s.HourTypeID != "" }

// =============================================================================
// PAY TIER - Named hourly rate
// =============================================================================

type PayTier struct {
	ID    PayTierID
	Name  string
	Price decimal.Decimal // currency per hour, never negative
}

// PriceBook resolves tier references to their CURRENT price.
type PriceBook map[PayTierID]PayTier

// NewPriceBook indexes tiers by ID.
func NewPriceBook(tiers []PayTier) PriceBook {
	book := make(PriceBook, len(tiers))
	for _, t := range tiers {
		book[t.ID] = t
	}
	return book
}

// Price returns the hourly rate for id. Unknown or empty ids resolve to
// (0, false): the shift is unpriced.
func (b PriceBook) Price(id PayTierID) (decimal.Decimal, bool) {
	if id == "" {
		return decimal.Zero, false
	}
	t, ok := b[id]
	if !ok {
		return decimal.Zero, false
	}
	return t.Price, true
}

// Earnings is hours x current price, or zero when the tier does not resolve.
func (b PriceBook) Earnings(s Shift) decimal.Decimal {
	price, ok := b.Price(s.HourTypeID)
	if !ok {
		return decimal.Zero
	}
	return s.Hours().Mul(price)
}

// =============================================================================
// FILTER - Optional predicate applied before aggregation
// =============================================================================

// Filter matches shifts by category and/or pay tier. An empty field matches all.
type Filter struct {
	Category   string
	HourTypeID PayTierID
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool { return f.Category == "" && f.HourTypeID == "" }

// Match applies the filter to a shift.
func (f Filter) Match(s Shift) bool {
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.HourTypeID != "" && s.HourTypeID != f.HourTypeID {
		return false
	}
	return true
}
