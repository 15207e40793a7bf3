/*
store.go - Persistence interface for shifts and pay tiers

PURPOSE:
  The host application owns persistence. The core only needs to read a
  consistent snapshot of the shift collection and to know when it changed.

VERSIONING:
  Every successful write bumps Version(). The Logbook keys its memoized
  Index on that number, so an unchanged collection is never re-indexed and a
  changed one is never served stale.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite (production)
  - shift/store/memory.go: in-memory (tests, dev)
*/
package shift

import "context"

// Store persists shifts and pay tiers.
type Store interface {
	// SaveShift inserts or replaces a shift by ID.
	SaveShift(ctx context.Context, s Shift) error

	// GetShift returns ErrShiftNotFound if the ID is unknown.
	GetShift(ctx context.Context, id ShiftID) (Shift, error)

	// DeleteShift returns ErrShiftNotFound if the ID is unknown.
	DeleteShift(ctx context.Context, id ShiftID) error

	// ListShifts returns every shift ordered by date, then start time.
	ListShifts(ctx context.Context) ([]Shift, error)

	// SaveTier inserts or replaces a pay tier by ID.
	SaveTier(ctx context.Context, t PayTier) error

	// GetTier returns ErrPayTierNotFound if the ID is unknown.
	GetTier(ctx context.Context, id PayTierID) (PayTier, error)

	// DeleteTier removes the tier only; shifts keep their (now dangling) reference.
	DeleteTier(ctx context.Context, id PayTierID) error

	// ListTiers returns every pay tier ordered by name.
	ListTiers(ctx context.Context) ([]PayTier, error)

	// Replace swaps the whole collection atomically (backup import, demo reset).
	Replace(ctx context.Context, shifts []Shift, tiers []PayTier) error

	// Version increases on every successful write.
	Version() uint64
}

