/*
logbook.go - Validated shift logging workflow

PURPOSE:
  Wraps a Store with the rules the logging, editing and deleting workflows
  enforce before anything is written. The critical invariant: no two shifts
  on the same date may overlap.

WHAT IT CHECKS:
  1. Create/Update: date present, category non-empty, referenced pay tier exists
  2. Create/Update: no overlap with other shifts on the same date
     (an edited shift is never compared with itself)
  3. Tiers: name non-empty, price not negative

  A conflicting shift is rejected with *OverlapError. It is never adjusted
  or silently dropped.

PAY TIERS:
  Deleting a tier leaves referencing shifts untouched; they become unpriced.
  Changing a tier's price changes every past aggregate that uses it.

READ PATH:
  Index() returns the memoized Shift Index for the store's current version.
  Overlap checks read through it as well.

EXAMPLE:
  book := shift.NewLogbook(store)
  s, err := book.Create(ctx, shift.ShiftInput{
      Date: "2025-12-18", Start: "09:00", End: "17:00", Category: "Programado",
  })
  if errors.Is(err, shift.ErrOverlap) {
      // reject in the form
  }

SEE ALSO:
  - overlap.go: the interval test
  - index.go: IndexCache
*/
package shift

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/shiftbook/calendar"
)

// =============================================================================
// INPUTS
// =============================================================================

// ShiftInput is the unparsed form of a shift as submitted by the host.
type ShiftInput struct {
	Date       string
	Start      string
	End        string
	Category   string
	HourTypeID string
	Notes      string
}

// Parse validates shape only: date/time formats and a non-empty category.
func (in ShiftInput) Parse() (Shift, error) {
	if strings.TrimSpace(in.Date) == "" {
		return Shift{}, ErrMissingDate
	}
	date, err := calendar.ParseDate(in.Date)
	if err != nil {
		return Shift{}, err
	}
	start, err := calendar.ParseTimeOfDay(in.Start)
	if err != nil {
		return Shift{}, err
	}
	end, err := calendar.ParseTimeOfDay(in.End)
	if err != nil {
		return Shift{}, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return Shift{}, ErrEmptyCategory
	}
	return Shift{
		Date:       date,
		Start:      start,
		End:        end,
		Category:   category,
		HourTypeID: PayTierID(strings.TrimSpace(in.HourTypeID)),
		Notes:      in.Notes,
	}, nil
}

// TierInput is the unparsed form of a pay tier.
type TierInput struct {
	Name  string
	Price decimal.Decimal
}

func (in TierInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// =============================================================================
// LOGBOOK
// =============================================================================

// Logbook is the single write path for shifts and pay tiers.
type Logbook struct {
	store Store
	cache IndexCache

	// NewID generates identifiers for new shifts and tiers.
	NewID func() string

	// mu serializes check-then-write so two concurrent creates cannot both
	// pass the overlap check.
	mu sync.Mutex
}

// NewLogbook creates a logbook over store.
func NewLogbook(store Store) *Logbook {
	return &Logbook{store: store, NewID: uuid.NewString}
}

// Store exposes the underlying store for read-only callers.
func (l *Logbook) Store() Store { return l.store }

// Index returns the Shift Index for the store's current version.
func (l *Logbook) Index(ctx context.Context) (*Index, error) {
	version := l.store.Version()
	return l.cache.Get(version, func() ([]Shift, error) {
		return l.store.ListShifts(ctx)
	})
}

// PriceBook returns the current pay tier prices.
func (l *Logbook) PriceBook(ctx context.Context) (PriceBook, error) {
	tiers, err := l.store.ListTiers(ctx)
	if err != nil {
		return nil, err
	}
	return NewPriceBook(tiers), nil
}

// Snapshot returns an index and price book for one aggregation or navigation call.
func (l *Logbook) Snapshot(ctx context.Context) (*Index, PriceBook, error) {
	ix, err := l.Index(ctx)
	if err != nil {
		return nil, nil, err
	}
	prices, err := l.PriceBook(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ix, prices, nil
}

// Shift returns a single shift.
func (l *Logbook) Shift(ctx context.Context, id ShiftID) (Shift, error) {
	return l.store.GetShift(ctx, id)
}

// Categories returns the distinct categories in use, sorted.
func (l *Logbook) Categories(ctx context.Context) ([]string, error) {
	ix, err := l.Index(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Categories(), nil
}

// =============================================================================
// SHIFT WORKFLOW
// =============================================================================

// Create validates and stores a new shift.
func (l *Logbook) Create(ctx context.Context, in ShiftInput) (Shift, error) {
	s, err := in.Parse()
	if err != nil {
		return Shift{}, err
	}
	s.ID = ShiftID(l.NewID())

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.validate(ctx, s); err != nil {
		return Shift{}, err
	}
	if err := l.store.SaveShift(ctx, s); err != nil {
		return Shift{}, err
	}
	return s, nil
}

// Update replaces an existing shift in place, keeping its ID.
func (l *Logbook) Update(ctx context.Context, id ShiftID, in ShiftInput) (Shift, error) {
	s, err := in.Parse()
	if err != nil {
		return Shift{}, err
	}
	s.ID = id

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.store.GetShift(ctx, id); err != nil {
		return Shift{}, err
	}
	if err := l.validate(ctx, s); err != nil {
		return Shift{}, err
	}
	if err := l.store.SaveShift(ctx, s); err != nil {
		return Shift{}, err
	}
	return s, nil
}

// Delete removes a shift.
func (l *Logbook) Delete(ctx context.Context, id ShiftID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.DeleteShift(ctx, id)
}

// CheckOverlap is a dry run of the overlap rule for candidate.
// It returns *OverlapError on conflict and nil otherwise.
func (l *Logbook) CheckOverlap(ctx context.Context, candidate Shift) error {
	ix, err := l.Index(ctx)
	if err != nil {
		return err
	}
	if other, found := FindOverlap(candidate, ix.On(candidate.Date)); found {
		return &OverlapError{Candidate: candidate, Conflicting: other}
	}
	return nil
}

func (l *Logbook) validate(ctx context.Context, s Shift) error {
	if s.HourTypeID != "" {
		if _, err := l.store.GetTier(ctx, s.HourTypeID); err != nil {
			return err
		}
	}
	return l.CheckOverlap(ctx, s)
}

// =============================================================================
// PAY TIER WORKFLOW
// =============================================================================

// Tiers lists pay tiers.
func (l *Logbook) Tiers(ctx context.Context) ([]PayTier, error) {
	return l.store.ListTiers(ctx)
}

// CreateTier stores a new pay tier.
func (l *Logbook) CreateTier(ctx context.Context, in TierInput) (PayTier, error) {
	if err := in.validate(); err != nil {
		return PayTier{}, err
	}
	t := PayTier{ID: PayTierID(l.NewID()), Name: strings.TrimSpace(in.Name), Price: in.Price}
	if err := l.store.SaveTier(ctx, t); err != nil {
		return PayTier{}, err
	}
	return t, nil
}

// UpdateTier renames or re-prices a tier. The new price applies retroactively.
func (l *Logbook) UpdateTier(ctx context.Context, id PayTierID, in TierInput) (PayTier, error) {
	if err := in.validate(); err != nil {
		return PayTier{}, err
	}
	if _, err := l.store.GetTier(ctx, id); err != nil {
		return PayTier{}, err
	}
	t := PayTier{ID: id, Name: strings.TrimSpace(in.Name), Price: in.Price}
	if err := l.store.SaveTier(ctx, t); err != nil {
		return PayTier{}, err
	}
	return t, nil
}

// DeleteTier removes a tier. Shifts referencing it become unpriced.
func (l *Logbook) DeleteTier(ctx context.Context, id PayTierID) error {
	return l.store.DeleteTier(ctx, id)
}

// Import replaces the whole collection. Imported shifts are not re-checked
// for overlap: a backup is restored as it was taken.
func (l *Logbook) Import(ctx context.Context, shifts []Shift, tiers []PayTier) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Replace(ctx, shifts, tiers)
}
