// Package store provides shift.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/shiftbook/shift"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	shifts  map[shift.ShiftID]shift.Shift
	tiers   map[shift.PayTierID]shift.PayTier
	version uint64
}

func NewMemory() *Memory {
	return &Memory{
		shifts: make(map[shift.ShiftID]shift.Shift),
		tiers:  make(map[shift.PayTierID]shift.PayTier),
	}
}

func (m *Memory) SaveShift(_ context.Context, s shift.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[s.ID] = s
	m.version++
	return nil
}

func (m *Memory) GetShift(_ context.Context, id shift.ShiftID) (shift.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (m *Memory) DeleteShift(_ context.Context, id shift.ShiftID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[id]; !ok {
		return shift.ErrShiftNotFound
	}
	delete(m.shifts, id)
	m.version++
	return nil
}

// ListShifts returns a copy ordered by date, start time, then ID.
func (m *Memory) ListShifts(_ context.Context) ([]shift.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]shift.Shift, 0, len(m.shifts))
	for _, s := range m.shifts {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.ID < b.ID
	})
	return result, nil
}

func (m *Memory) SaveTier(_ context.Context, t shift.PayTier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiers[t.ID] = t
	m.version++
	return nil
}

func (m *Memory) GetTier(_ context.Context, id shift.PayTierID) (shift.PayTier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tiers[id]
	if !ok {
		return shift.PayTier{}, shift.ErrPayTierNotFound
	}
	return t, nil
}

func (m *Memory) DeleteTier(_ context.Context, id shift.PayTierID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tiers[id]; !ok {
		return shift.ErrPayTierNotFound
	}
	delete(m.tiers, id)
	m.version++
	return nil
}

func (m *Memory) ListTiers(_ context.Context) ([]shift.PayTier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]shift.PayTier, 0, len(m.tiers))
	for _, t := range m.tiers {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Replace swaps both collections under a single lock.
func (m *Memory) Replace(_ context.Context, shifts []shift.Shift, tiers []shift.PayTier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shifts = make(map[shift.ShiftID]shift.Shift, len(shifts))
	for _, s := range shifts {
		m.shifts[s.ID] = s
	}
	m.tiers = make(map[shift.PayTierID]shift.PayTier, len(tiers))
	for _, t := range tiers {
		m.tiers[t.ID] = t
	}
	m.version++
	return nil
}

func (m *Memory) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}
