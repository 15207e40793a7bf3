/*
overlap.go - Same-date conflict detection

PURPOSE:
  A worker cannot log two shifts whose time-of-day intervals intersect on
  the same calendar date. Shifts on different dates are never compared.

INSTANTS:
  Start and end instants are both built from the shift's own Date, so a
  shift that crosses midnight has its end instant before its start.

RULES:
  Either shift has start == end   conflict; it spans the entire day
  Candidate crosses midnight      conflict when its start falls in
                                  [existingStart, existingEnd)
  Otherwise                       conflict when candidateStart < existingEnd
                                  AND candidateEnd > existingStart

  Back-to-back shifts (09:00-13:00, 13:00-17:00) do not conflict. Only the
  candidate's wrap is special; an existing wrapping shift is compared by its
  raw instants, so it conflicts only with a candidate that spans both ends.

SEE ALSO:
  - duration.go: the start == end and wraparound conventions
  - logbook.go: rejects conflicting shifts with *OverlapError
*/
package shift

import "time"

type instants struct {
	start time.Time
	end   time.Time
}

func instantsOf(s Shift) instants {
	return instants{start: s.Date.At(s.Start), end: s.Date.At(s.End)}
}

func wholeDay(s Shift) bool { return s.Start == s.End }

func conflicts(candidate, existing Shift) bool {
	if wholeDay(candidate) || wholeDay(existing) {
		return true
	}
	c, e := instantsOf(candidate), instantsOf(existing)
	if c.end.Before(c.start) {
		return !c.start.Before(e.start) && c.start.Before(e.end)
	}
	return c.start.Before(e.end) && c.end.After(e.start)
}

// HasOverlap reports whether candidate conflicts with any of existing.
// Entries on another date, or with the candidate's own ID (an edit), are ignored.
func HasOverlap(candidate Shift, existing []Shift) bool {
	_, found := FindOverlap(candidate, existing)
	return found
}

// FindOverlap returns the first existing shift that conflicts with candidate.
func FindOverlap(candidate Shift, existing []Shift) (Shift, bool) {
	for _, other := range existing {
		if candidate.ID != "" && other.ID == candidate.ID {
			continue
		}
		if !other.Date.Equal(candidate.Date) {
			continue
		}
		if conflicts(candidate, other) {
			return other, true
		}
	}
	return Shift{}, false
}
