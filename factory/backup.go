/*
Package factory converts JSON backup documents to and from domain values.

PURPOSE:
  The host app exports the whole shift collection (plus pay tiers) as one
  JSON document and can restore it later. The factory validates every
  record on the way in, so a restored collection is as well-formed as one
  built through the Logbook.

JSON SCHEMA:
  {
    "version": 1,
    "exported_at": "2025-12-31T10:00:00Z",
    "pay_tiers": [
      {"id": "normal", "name": "Normal", "price": "10"}
    ],
    "shifts": [
      {
        "id": "a1",
        "date": "2025-12-18",
        "start_time": "09:00",
        "end_time": "17:00",
        "category": "Programado",
        "hour_type_id": "normal",
        "notes": ""
      }
    ]
  }

KEY FEATURES:
  - Shifts without an id get a fresh one
  - Duplicate ids are rejected
  - hour_type_id may point at a tier missing from the document (soft reference)
  - Prices accept JSON numbers or strings

USAGE:
  f := factory.NewBackupFactory()
  shifts, tiers, err := f.Parse(data)
  data, err := f.Build(shifts, tiers)

SEE ALSO:
  - shift/logbook.go: Import() stores the parsed collection
  - api/handlers.go: GET/POST /api/backup
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/shiftbook/shift"
)

// CurrentVersion is the backup format written by Build.
const CurrentVersion = 1

var (
	// ErrUnsupportedVersion is returned for documents newer than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported backup version")

	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = errors.New("duplicate id in backup")
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// BackupJSON is the JSON representation of a full export.
type BackupJSON struct {
	Version    int           `json:"version"`
	ExportedAt string        `json:"exported_at,omitempty"`
	PayTiers   []PayTierJSON `json:"pay_tiers"`
	Shifts     []ShiftJSON   `json:"shifts"`
}

// PayTierJSON represents a pay tier.
type PayTierJSON struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ShiftJSON represents a shift.
type ShiftJSON struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Category   string `json:"category"`
	HourTypeID string `json:"hour_type_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// =============================================================================
// BACKUP FACTORY
// =============================================================================

// BackupFactory converts backup documents.
type BackupFactory struct {
	NewID func() string
	Now   func() time.Time
}

// NewBackupFactory creates a factory with UUID ids and the wall clock.
func NewBackupFactory() *BackupFactory {
	return &BackupFactory{NewID: uuid.NewString, Now: time.Now}
}

// Parse decodes and validates a backup document.
func (f *BackupFactory) Parse(data []byte) ([]shift.Shift, []shift.PayTier, error) {
	var doc BackupJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("invalid backup JSON: %w", err)
	}
	return f.FromJSON(doc)
}

// FromJSON validates an already-decoded document.
func (f *BackupFactory) FromJSON(doc BackupJSON) ([]shift.Shift, []shift.PayTier, error) {
	if doc.Version > CurrentVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	tiers := make([]shift.PayTier, 0, len(doc.PayTiers))
	seenTiers := make(map[string]bool)
	for i, t := range doc.PayTiers {
		if t.ID == "" {
			t.ID = f.NewID()
		}
		if seenTiers[t.ID] {
			return nil, nil, fmt.Errorf("%w: pay tier %q", ErrDuplicateID, t.ID)
		}
		seenTiers[t.ID] = true
		if t.Name == "" {
			return nil, nil, fmt.Errorf("pay tier %d: %w", i, shift.ErrEmptyName)
		}
		if t.Price.IsNegative() {
			return nil, nil, fmt.Errorf("pay tier %q: %w", t.ID, shift.ErrNegativePrice)
		}
		tiers = append(tiers, shift.PayTier{ID: shift.PayTierID(t.ID), Name: t.Name, Price: t.Price})
	}

	shifts := make([]shift.Shift, 0, len(doc.Shifts))
	seenShifts := make(map[string]bool)
	for i, s := range doc.Shifts {
		if s.ID == "" {
			s.ID = f.NewID()
		}
		if seenShifts[s.ID] {
			return nil, nil, fmt.Errorf("%w: shift %q", ErrDuplicateID, s.ID)
		}
		seenShifts[s.ID] = true

		parsed, err := shift.ShiftInput{
			Date:       s.Date,
			Start:      s.StartTime,
			End:        s.EndTime,
			Category:   s.Category,
			HourTypeID: s.HourTypeID,
			Notes:      s.Notes,
		}.Parse()
		if err != nil {
			return nil, nil, fmt.Errorf("shift %d (%s): %w", i, s.ID, err)
		}
		parsed.ID = shift.ShiftID(s.ID)
		shifts = append(shifts, parsed)
	}

	return shifts, tiers, nil
}

// Build encodes a collection as an indented backup document.
func (f *BackupFactory) Build(shifts []shift.Shift, tiers []shift.PayTier) ([]byte, error) {
	return json.MarshalIndent(f.ToJSON(shifts, tiers), "", "  ")
}

// ToJSON converts a collection to its wire form.
func (f *BackupFactory) ToJSON(shifts []shift.Shift, tiers []shift.PayTier) BackupJSON {
	doc := BackupJSON{
		Version:    CurrentVersion,
		ExportedAt: f.Now().UTC().Format(time.RFC3339),
		PayTiers:   make([]PayTierJSON, len(tiers)),
		Shifts:     make([]ShiftJSON, len(shifts)),
	}
	for i, t := range tiers {
		doc.PayTiers[i] = PayTierJSON{ID: string(t.ID), Name: t.Name, Price: t.Price}
	}
	for i, s := range shifts {
		doc.Shifts[i] = ShiftToJSON(s)
	}
	return doc
}

// ShiftToJSON converts one shift to its wire form.
func ShiftToJSON(s shift.Shift) ShiftJSON {
	return ShiftJSON{
		ID:         string(s.ID),
		Date:       s.Date.String(),
		StartTime:  s.Start.String(),
		EndTime:    s.End.String(),
		Category:   s.Category,
		HourTypeID: string(s.HourTypeID),
		Notes:      s.Notes,
	}
}
