/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

FORMATS:
  Dates are YYYY-MM-DD, times of day HH:MM, money and hours are decimal
  strings ("180", "8.5") so nothing is lost to floating point.

VALIDATION:
  Validation is done in handlers and the shift.Logbook, not in DTOs.
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/factory"
	"github.com/warp/shiftbook/navigation"
	"github.com/warp/shiftbook/report"
	"github.com/warp/shiftbook/shift"
)

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a shift in API responses.
type ShiftDTO struct {
	factory.ShiftJSON
	Hours decimal.Decimal `json:"hours"`
}

// ShiftRequest is the body for creating, editing or dry-run checking a shift.
type ShiftRequest struct {
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Category   string `json:"category"`
	HourTypeID string `json:"hour_type_id,omitempty"`
	Notes      string `json:"notes,omitempty"`

	// ID excludes the shift being edited from a dry-run overlap check.
	ID string `json:"id,omitempty"`
}

func (r ShiftRequest) toInput() shift.ShiftInput {
	return shift.ShiftInput{
		Date:       r.Date,
		Start:      r.StartTime,
		End:        r.EndTime,
		Category:   r.Category,
		HourTypeID: r.HourTypeID,
		Notes:      r.Notes,
	}
}

func toShiftDTO(s shift.Shift) ShiftDTO {
	return ShiftDTO{ShiftJSON: factory.ShiftToJSON(s), Hours: s.Hours()}
}

func toShiftDTOs(shifts []shift.Shift) []ShiftDTO {
	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	return dtos
}

// OverlapCheckDTO is the dry-run validator result.
type OverlapCheckDTO struct {
	Overlap     bool      `json:"overlap"`
	Conflicting *ShiftDTO `json:"conflicting,omitempty"`
}

// =============================================================================
// PAY TIERS
// =============================================================================

// PayTierDTO represents a pay tier.
type PayTierDTO struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// PayTierRequest is the body for creating or editing a pay tier.
type PayTierRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func toPayTierDTO(t shift.PayTier) PayTierDTO {
	return PayTierDTO{ID: string(t.ID), Name: t.Name, Price: t.Price}
}

// =============================================================================
// ROLLUPS
// =============================================================================

// RollupDTO is one aggregated bucket.
type RollupDTO struct {
	Start             string          `json:"start"`
	End               string          `json:"end"`
	TotalHours        decimal.Decimal `json:"total_hours"`
	TotalEarnings     decimal.Decimal `json:"total_earnings"`
	ShiftCount        int             `json:"shift_count"`
	CategoryBreakdown map[string]int  `json:"category_breakdown"`
}

func toRollupDTO(r report.Rollup) RollupDTO {
	breakdown := r.CategoryBreakdown
	if breakdown == nil {
		breakdown = map[string]int{}
	}
	return RollupDTO{
		Start:             r.Period.Start.String(),
		End:               r.Period.End.String(),
		TotalHours:        r.TotalHours,
		TotalEarnings:     r.TotalEarnings,
		ShiftCount:        r.ShiftCount,
		CategoryBreakdown: breakdown,
	}
}

// SummaryDTO is a scope total plus its sub-bucket breakdown.
type SummaryDTO struct {
	Granularity       string      `json:"granularity,omitempty"` // empty for explicit ranges
	BucketGranularity string      `json:"bucket_granularity"`
	Total             RollupDTO   `json:"total"`
	Buckets           []RollupDTO `json:"buckets"`
}

func toSummaryDTO(rep report.Report) SummaryDTO {
	dto := SummaryDTO{
		Granularity:       string(rep.Scope.Granularity),
		BucketGranularity: string(rep.BucketGranularity),
		Total:             toRollupDTO(rep.Total),
		Buckets:           make([]RollupDTO, len(rep.Buckets)),
	}
	for i, b := range rep.Buckets {
		dto.Buckets[i] = toRollupDTO(b)
	}
	return dto
}

// =============================================================================
// NAVIGATOR
// =============================================================================

// RangeDTO is an inclusive date range.
type RangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FilterDTO is an optional category / pay-tier filter.
type FilterDTO struct {
	Category   string `json:"category,omitempty"`
	HourTypeID string `json:"hour_type_id,omitempty"`
}

func (f FilterDTO) toFilter() shift.Filter {
	return shift.Filter{Category: f.Category, HourTypeID: shift.PayTierID(f.HourTypeID)}
}

// NavigatorDTO is the navigator state plus the rollup of its current bucket.
type NavigatorDTO struct {
	ID            string     `json:"id"`
	Granularity   string     `json:"granularity"`
	Anchor        string     `json:"anchor"`
	ActiveRange   *RangeDTO  `json:"active_range,omitempty"`
	ActiveFilter  *FilterDTO `json:"active_filter,omitempty"`
	Moved         *bool      `json:"moved,omitempty"`
	WorkedBuckets []string   `json:"worked_buckets,omitempty"`
	Summary       RollupDTO  `json:"summary"`
}

func toNavigatorDTO(id string, st navigation.State, worked []navigation.Bucket, summary report.Rollup) NavigatorDTO {
	dto := NavigatorDTO{
		ID:          id,
		Granularity: string(st.Granularity),
		Anchor:      st.Anchor.String(),
		Summary:     toRollupDTO(summary),
	}
	if st.ActiveRange != nil {
		dto.ActiveRange = &RangeDTO{Start: st.ActiveRange.Start.String(), End: st.ActiveRange.End.String()}
	}
	if st.ActiveFilter != nil {
		dto.ActiveFilter = &FilterDTO{Category: st.ActiveFilter.Category, HourTypeID: string(st.ActiveFilter.HourTypeID)}
	}
	for _, b := range worked {
		dto.WorkedBuckets = append(dto.WorkedBuckets, b.Start.String())
	}
	return dto
}

// GranularityRequest is the body for POST /api/navigator/{id}/granularity.
type GranularityRequest struct {
	Granularity string `json:"granularity"`
}

// DateRequest is the body for POST /api/navigator/{id}/select.
type DateRequest struct {
	Date string `json:"date"`
}

// CreateNavigatorRequest optionally pins the navigator's "today". Any of the
// remaining fields resumes a saved view instead of starting at the month.
type CreateNavigatorRequest struct {
	Today        string     `json:"today,omitempty"`
	Granularity  string     `json:"granularity,omitempty"`
	Anchor       string     `json:"anchor,omitempty"`
	ActiveRange  *RangeDTO  `json:"active_range,omitempty"`
	ActiveFilter *FilterDTO `json:"active_filter,omitempty"`
}

func (r CreateNavigatorRequest) resumes() bool {
	return r.Granularity != "" || r.Anchor != "" || r.ActiveRange != nil || r.ActiveFilter != nil
}

// toState fills unset fields from a fresh navigator anchored on today.
func (r CreateNavigatorRequest) toState(today calendar.Date) (navigation.State, error) {
	st := navigation.State{Granularity: calendar.GranularityMonth, Anchor: today}
	if r.Granularity != "" {
		st.Granularity = calendar.Granularity(r.Granularity)
	}
	if r.Anchor != "" {
		d, err := calendar.ParseDate(r.Anchor)
		if err != nil {
			return navigation.State{}, err
		}
		st.Anchor = d
	}
	if r.ActiveRange != nil {
		p, err := r.ActiveRange.toPeriod()
		if err != nil {
			return navigation.State{}, err
		}
		st.ActiveRange = &p
	}
	if r.ActiveFilter != nil {
		f := r.ActiveFilter.toFilter()
		st.ActiveFilter = &f
	}
	return st, nil
}

func (r RangeDTO) toPeriod() (calendar.Period, error) {
	start, err := calendar.ParseDate(r.Start)
	if err != nil {
		return calendar.Period{}, err
	}
	end, err := calendar.ParseDate(r.End)
	if err != nil {
		return calendar.Period{}, err
	}
	return calendar.NewPeriod(start, end)
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error       string    `json:"error"`
	Details     string    `json:"details,omitempty"`
	Conflicting *ShiftDTO `json:"conflicting,omitempty"`
}
