/*
Package sqlite provides a SQLite-backed implementation of shift.Store.

PURPOSE:
  Persists the host application's shift collection and pay tiers. The core
  never reads these tables directly: it asks for a snapshot (ListShifts) and
  builds its Shift Index from it.

KEY TABLES:
  shifts:     one row per logged shift (date, start/end minutes, category,
              optional hour_type_id, notes)
  pay_tiers:  named hourly rates (price stored as decimal text)

SOFT REFERENCES:
  shifts.hour_type_id is deliberately NOT a foreign key. Deleting a pay
  tier leaves its shifts in place; they aggregate as unpriced.

INDEXES:
  - idx_shifts_date: date-ordered snapshot loads

VERSIONING:
  Every committed write bumps an in-process counter returned by Version().
  The Logbook uses it to decide when its memoized index is stale.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, which also
  keeps ":memory:" databases alive across calls.

USAGE:
  store, err := sqlite.New("./data/shiftbook.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  book := shift.NewLogbook(store)

SEE ALSO:
  - shift/store.go: Interface definition
  - shift/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/shift"
)

// Store implements shift.Store using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	version atomic.Uint64
}

var _ shift.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Shifts
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		start_minute INTEGER NOT NULL CHECK (start_minute BETWEEN 0 AND 1439),
		end_minute INTEGER NOT NULL CHECK (end_minute BETWEEN 0 AND 1439),
		category TEXT NOT NULL,
		hour_type_id TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_date
		ON shifts(date, start_minute);

	-- Pay tiers (referenced softly by shifts.hour_type_id)
	CREATE TABLE IF NOT EXISTS pay_tiers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Version increases on every committed write.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SHIFTS
// =============================================================================

// SaveShift inserts or replaces a shift.
func (s *Store) SaveShift(ctx context.Context, sh shift.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := saveShift(ctx, s.db, sh); err != nil {
		return err
	}
	s.version.Add(1)
	return nil
}

func saveShift(ctx context.Context, db execer, sh shift.Shift) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO shifts (id, date, start_minute, end_minute, category, hour_type_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute,
			category = excluded.category,
			hour_type_id = excluded.hour_type_id,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`
	_, err := db.ExecContext(ctx, query,
		sh.ID,
		sh.Date.String(),
		sh.Start.Minutes(),
		sh.End.Minutes(),
		sh.Category,
		nullString(string(sh.HourTypeID)),
		sh.Notes,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

// GetShift returns a single shift.
func (s *Store) GetShift(ctx context.Context, id shift.ShiftID) (shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, start_minute, end_minute, category, hour_type_id, notes
		FROM shifts WHERE id = ?
	`, id)
	sh, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, err
}

// DeleteShift removes a shift.
func (s *Store) DeleteShift(ctx context.Context, id shift.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM shifts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return shift.ErrShiftNotFound
	}
	s.version.Add(1)
	return nil
}

// ListShifts returns every shift ordered by date, start, id.
func (s *Store) ListShifts(ctx context.Context) ([]shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, start_minute, end_minute, category, hour_type_id, notes
		FROM shifts
		ORDER BY date ASC, start_minute ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var result []shift.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sh)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShift(row scanner) (shift.Shift, error) {
	var (
		sh         shift.Shift
		date       string
		start, end int
		hourType   sql.NullString
	)
	if err := row.Scan(&sh.ID, &date, &start, &end, &sh.Category, &hourType, &sh.Notes); err != nil {
		return shift.Shift{}, err
	}
	d, err := calendar.ParseDate(date)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("shift %s: %w", sh.ID, err)
	}
	sh.Date = d
	sh.Start = calendar.TimeOfDay(start)
	sh.End = calendar.TimeOfDay(end)
	if hourType.Valid {
		sh.HourTypeID = shift.PayTierID(hourType.String)
	}
	return sh, nil
}

// =============================================================================
// PAY TIERS
// =============================================================================

// SaveTier inserts or replaces a pay tier.
func (s *Store) SaveTier(ctx context.Context, t shift.PayTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := saveTier(ctx, s.db, t); err != nil {
		return err
	}
	s.version.Add(1)
	return nil
}

func saveTier(ctx context.Context, db execer, t shift.PayTier) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.ExecContext(ctx, `
		INSERT INTO pay_tiers (id, name, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			updated_at = excluded.updated_at
	`, t.ID, t.Name, t.Price.String(), now, now)
	if err != nil {
		return fmt.Errorf("failed to save pay tier: %w", err)
	}
	return nil
}

// GetTier returns a single pay tier.
func (s *Store) GetTier(ctx context.Context, id shift.PayTierID) (shift.PayTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT id, name, price FROM pay_tiers WHERE id = ?", id)
	t, err := scanTier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return shift.PayTier{}, shift.ErrPayTierNotFound
	}
	return t, err
}

// DeleteTier removes a pay tier. Referencing shifts are left alone.
func (s *Store) DeleteTier(ctx context.Context, id shift.PayTierID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM pay_tiers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete pay tier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return shift.ErrPayTierNotFound
	}
	s.version.Add(1)
	return nil
}

// ListTiers returns every pay tier ordered by name.
func (s *Store) ListTiers(ctx context.Context) ([]shift.PayTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, price FROM pay_tiers ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query pay tiers: %w", err)
	}
	defer rows.Close()

	var result []shift.PayTier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanTier(row scanner) (shift.PayTier, error) {
	var (
		t     shift.PayTier
		price string
	)
	if err := row.Scan(&t.ID, &t.Name, &price); err != nil {
		return shift.PayTier{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return shift.PayTier{}, fmt.Errorf("pay tier %s: invalid price %q: %w", t.ID, price, err)
	}
	t.Price = p
	return t, nil
}

// =============================================================================
// BULK OPERATIONS
// =============================================================================

// Replace swaps the whole collection in one SQL transaction.
func (s *Store) Replace(ctx context.Context, shifts []shift.Shift, tiers []shift.PayTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, stmt := range []string{"DELETE FROM shifts", "DELETE FROM pay_tiers"} {
		if _, err := sqlTx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
	}
	for _, t := range tiers {
		if err := saveTier(ctx, sqlTx, t); err != nil {
			return err
		}
	}
	for _, sh := range shifts {
		if err := saveShift(ctx, sqlTx, sh); err != nil {
			return err
		}
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.version.Add(1)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
