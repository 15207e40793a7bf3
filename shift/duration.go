package shift

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shiftbook/calendar"
)

var minutesPerHour = decimal.NewFromInt(60)

// DurationMinutes converts a start/end pair into worked minutes:
//
//	start == end -> a full 24-hour shift
//	end < start  -> crosses midnight: (24h - start) + end
//	otherwise    -> end - start
func DurationMinutes(start, end calendar.TimeOfDay) int {
	switch {
	case start == end:
		return calendar.MinutesPerDay
	case end < start:
		return calendar.MinutesPerDay - start.Minutes() + end.Minutes()
	default:
		return end.Minutes() - start.Minutes()
	}
}

// Duration is DurationMinutes expressed in decimal hours.
func Duration(start, end calendar.TimeOfDay) decimal.Decimal {
	return decimal.NewFromInt(int64(DurationMinutes(start, end))).Div(minutesPerHour)
}
