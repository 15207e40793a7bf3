/*
errors.go - Centralized error types for the shift package

ERROR CATEGORIES:
  1. Lookup errors - missing shift or pay tier
  2. Validation errors - malformed input rejected at the boundary
  3. Conflict errors - a shift that overlaps another on the same date

The pure functions (Duration, HasOverlap, BuildIndex) never return errors.
Only the Logbook workflow and the stores do.

USAGE:
  _, err := logbook.Create(ctx, input)
  var overlap *shift.OverlapError
  if errors.As(err, &overlap) {
      fmt.Println("conflicts with", overlap.Conflicting.ID)
  }
*/
package shift

import (
	"errors"
	"fmt"

	"github.com/warp/shiftbook/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrShiftNotFound is returned when a referenced shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrPayTierNotFound is returned when a referenced pay tier doesn't exist.
	ErrPayTierNotFound = errors.New("pay tier not found")

	// ErrOverlap is returned when a shift intersects another on the same date.
	ErrOverlap = errors.New("shift overlaps an existing shift")

	// ErrEmptyCategory is returned when a shift has no category.
	ErrEmptyCategory = errors.New("category is required")

	// ErrEmptyName is returned when a pay tier has no name.
	ErrEmptyName = errors.New("name is required")

	// ErrNegativePrice is returned when a pay tier price is below zero.
	ErrNegativePrice = errors.New("price must not be negative")

	// ErrMissingDate is returned when a shift has no date.
	ErrMissingDate = errors.New("date is required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OverlapError names the existing shift a candidate collides with.
type OverlapError struct {
	Candidate   Shift
	Conflicting Shift
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("shift %s-%s on %s overlaps shift %s (%s-%s)",
		e.Candidate.Start, e.Candidate.End, e.Candidate.Date,
		e.Conflicting.ID, e.Conflicting.Start, e.Conflicting.End)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyCategory) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrNegativePrice) ||
		errors.Is(err, ErrMissingDate) ||
		errors.Is(err, calendar.ErrInvalidDate) ||
		errors.Is(err, calendar.ErrInvalidTimeOfDay) ||
		errors.Is(err, calendar.ErrInvalidRange) ||
		errors.Is(err, calendar.ErrInvalidGranularity)
}

// IsConflict returns true if the error is an overlap rejection.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOverlap)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrPayTierNotFound)
}
