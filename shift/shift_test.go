package shift_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/shift"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func tod(s string) calendar.TimeOfDay { return calendar.MustParseTimeOfDay(s) }

func mk(id, date, start, end string) shift.Shift {
	return shift.Shift{
		ID:       shift.ShiftID(id),
		Date:     calendar.MustParseDate(date),
		Start:    tod(start),
		End:      tod(end),
		Category: "Programado",
	}
}

func hours(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// DURATION
// =============================================================================

func TestDuration(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{"same day", "09:00", "17:00", "8"},
		{"half hour", "10:15", "10:45", "0.5"},
		{"crosses midnight", "22:00", "06:00", "8"},
		{"ends at midnight", "18:00", "00:00", "6"},
		{"starts at midnight", "00:00", "04:30", "4.5"},
		{"start equals end is a full day", "08:00", "08:00", "24"},
		{"one minute before wrap", "00:01", "00:00", "23.9833333333333333"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shift.Duration(tod(tt.start), tod(tt.end))
			assert.True(t, got.Equal(hours(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestDuration_AlwaysInRange(t *testing.T) {
	// GIVEN: every quarter-hour pair
	// THEN: 0 < minutes <= 1440
	for a := 0; a < calendar.MinutesPerDay; a += 15 {
		for b := 0; b < calendar.MinutesPerDay; b += 15 {
			m := shift.DurationMinutes(calendar.TimeOfDay(a), calendar.TimeOfDay(b))
			if m <= 0 || m > calendar.MinutesPerDay {
				t.Fatalf("duration(%d, %d) = %d out of range", a, b, m)
			}
		}
	}
}

func TestDuration_WraparoundComplement(t *testing.T) {
	// GIVEN: start != end
	// THEN: duration(a, b) + duration(b, a) is exactly 24 hours
	day := decimal.NewFromInt(24)
	for a := 0; a < calendar.MinutesPerDay; a += 7 {
		for b := 0; b < calendar.MinutesPerDay; b += 11 {
			if a == b {
				continue
			}
			x, y := calendar.TimeOfDay(a), calendar.TimeOfDay(b)
			sum := shift.Duration(x, y).Add(shift.Duration(y, x))
			if !sum.Equal(day) {
				t.Fatalf("duration(%s,%s)+duration(%s,%s) = %s", x, y, y, x, sum)
			}
		}
	}
}

// =============================================================================
// OVERLAP
// =============================================================================

func TestOverlap(t *testing.T) {
	existing := []shift.Shift{mk("a", "2025-12-18", "09:00", "13:00")}

	tests := []struct {
		name      string
		candidate shift.Shift
		want      bool
	}{
		{"back to back after", mk("", "2025-12-18", "13:00", "17:00"), false},
		{"back to back before", mk("", "2025-12-18", "07:00", "09:00"), false},
		{"partial", mk("", "2025-12-18", "12:00", "14:00"), true},
		{"contained", mk("", "2025-12-18", "10:00", "11:00"), true},
		{"containing", mk("", "2025-12-18", "08:00", "14:00"), true},
		{"other date", mk("", "2025-12-19", "09:00", "13:00"), false},
		{"full day", mk("", "2025-12-18", "05:00", "05:00"), true},
		{"wrap starting later", mk("", "2025-12-18", "22:00", "06:00"), false},
		{"wrap starting inside", mk("", "2025-12-18", "12:30", "02:00"), true},
		{"same id is an edit", mk("a", "2025-12-18", "10:00", "12:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shift.HasOverlap(tt.candidate, existing))
		})
	}
}

func TestOverlap_WrappingCandidate(t *testing.T) {
	// A candidate crossing midnight conflicts only when its start falls
	// inside an existing shift on the same date
	tests := []struct {
		name      string
		candidate shift.Shift
		existing  shift.Shift
		want      bool
	}{
		{"late evening shift before the wrap starts", mk("", "2025-12-18", "22:00", "02:00"), mk("e", "2025-12-18", "23:00", "23:30"), false},
		{"evening shift after the wrap starts", mk("", "2025-12-18", "20:00", "02:00"), mk("e", "2025-12-18", "21:00", "22:00"), false},
		{"existing wrap starting later", mk("", "2025-12-18", "22:00", "06:00"), mk("e", "2025-12-18", "23:00", "05:00"), false},
		{"start inside existing", mk("", "2025-12-18", "22:30", "02:00"), mk("e", "2025-12-18", "22:00", "23:00"), true},
		{"start on existing end", mk("", "2025-12-18", "23:00", "02:00"), mk("e", "2025-12-18", "22:00", "23:00"), false},
		{"start on existing start", mk("", "2025-12-18", "22:00", "02:00"), mk("e", "2025-12-18", "22:00", "23:00"), true},
		{"existing whole day", mk("", "2025-12-18", "22:00", "02:00"), mk("e", "2025-12-18", "07:00", "07:00"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shift.HasOverlap(tt.candidate, []shift.Shift{tt.existing}))
		})
	}
}

func TestOverlap_ExistingWrapComparedByRawInstants(t *testing.T) {
	existing := []shift.Shift{mk("n", "2025-12-18", "22:00", "06:00")}

	assert.False(t, shift.HasOverlap(mk("", "2025-12-18", "23:00", "23:30"), existing))
	assert.False(t, shift.HasOverlap(mk("", "2025-12-18", "05:00", "07:00"), existing))
	assert.True(t, shift.HasOverlap(mk("", "2025-12-18", "05:00", "23:00"), existing))
}

func TestOverlap_Symmetric(t *testing.T) {
	// GIVEN: a grid of same-day and full-day shifts on one date
	var shifts []shift.Shift
	times := []string{"00:00", "06:00", "09:00", "13:00", "17:00", "22:00"}
	for i, a := range times {
		for j, b := range times {
			if b < a {
				continue
			}
			shifts = append(shifts, mk(string(rune('A'+i))+string(rune('a'+j)), "2025-12-18", a, b))
		}
	}

	// THEN: a conflicts with b iff b conflicts with a
	for _, a := range shifts {
		for _, b := range shifts {
			if a.ID == b.ID {
				continue
			}
			ab := shift.HasOverlap(a, []shift.Shift{b})
			ba := shift.HasOverlap(b, []shift.Shift{a})
			if ab != ba {
				t.Fatalf("asymmetric: %s-%s vs %s-%s (%v/%v)", a.Start, a.End, b.Start, b.End, ab, ba)
			}
		}
	}
}

func TestFindOverlap_ReturnsConflicting(t *testing.T) {
	existing := []shift.Shift{
		mk("a", "2025-12-18", "09:00", "13:00"),
		mk("b", "2025-12-18", "18:00", "22:00"),
	}
	got, found := shift.FindOverlap(mk("", "2025-12-18", "21:00", "23:00"), existing)
	require.True(t, found)
	assert.Equal(t, shift.ShiftID("b"), got.ID)
}

// =============================================================================
// PRICING & FILTERS
// =============================================================================

func TestPriceBook_Earnings(t *testing.T) {
	book := shift.NewPriceBook([]shift.PayTier{{ID: "normal", Name: "Normal", Price: decimal.NewFromInt(10)}})

	priced := mk("a", "2025-12-18", "09:00", "17:00")
	priced.HourTypeID = "normal"
	assert.True(t, book.Earnings(priced).Equal(decimal.NewFromInt(80)))

	unpriced := mk("b", "2025-12-18", "18:00", "20:00")
	assert.False(t, unpriced.Priced())
	assert.True(t, book.Earnings(unpriced).IsZero())

	dangling := mk("c", "2025-12-18", "20:00", "21:00")
	dangling.HourTypeID = "deleted"
	_, ok := book.Price(dangling.HourTypeID)
	assert.False(t, ok)
	assert.True(t, book.Earnings(dangling).IsZero())
}

func TestFilter_Match(t *testing.T) {
	s := mk("a", "2025-12-18", "09:00", "17:00")
	s.HourTypeID = "normal"

	assert.True(t, shift.Filter{}.Match(s))
	assert.True(t, shift.Filter{Category: "Programado"}.Match(s))
	assert.False(t, shift.Filter{Category: "DRP"}.Match(s))
	assert.True(t, shift.Filter{Category: "Programado", HourTypeID: "normal"}.Match(s))
	assert.False(t, shift.Filter{HourTypeID: "especial"}.Match(s))
}

// =============================================================================
// INPUT PARSING
// =============================================================================

func TestShiftInput_Parse(t *testing.T) {
	s, err := shift.ShiftInput{
		Date: "2025-12-18", Start: "09:00", End: "17:00",
		Category: "  Programado ", HourTypeID: "normal",
	}.Parse()
	require.NoError(t, err)
	assert.Equal(t, "Programado", s.Category)
	assert.Equal(t, 480, s.Minutes())

	_, err = shift.ShiftInput{Start: "09:00", End: "17:00", Category: "x"}.Parse()
	assert.ErrorIs(t, err, shift.ErrMissingDate)

	_, err = shift.ShiftInput{Date: "2025-12-18", Start: "9am", End: "17:00", Category: "x"}.Parse()
	assert.ErrorIs(t, err, calendar.ErrInvalidTimeOfDay)

	_, err = shift.ShiftInput{Date: "2025-12-18", Start: "09:00", End: "17:00"}.Parse()
	assert.ErrorIs(t, err, shift.ErrEmptyCategory)
	assert.True(t, shift.IsClientError(err))
}
