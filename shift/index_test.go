package shift_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/shift"
)

func sampleShifts() []shift.Shift {
	b := mk("b", "2025-12-18", "18:00", "22:00")
	b.Category = "DRP"
	c := mk("c", "2025-12-20", "10:00", "14:00")
	c.Category = "Guardia"
	return []shift.Shift{c, b, mk("a", "2025-12-18", "09:00", "17:00")}
}

func TestIndex_OrdersByDateAndStart(t *testing.T) {
	ix := shift.BuildIndex(sampleShifts())

	assert.Equal(t, 3, ix.Len())
	dates := ix.Dates()
	require.Len(t, dates, 2)
	assert.Equal(t, "2025-12-18", dates[0].String())
	assert.Equal(t, "2025-12-20", dates[1].String())

	on18 := ix.On(calendar.MustParseDate("2025-12-18"))
	require.Len(t, on18, 2)
	assert.Equal(t, shift.ShiftID("a"), on18[0].ID)
	assert.Equal(t, shift.ShiftID("b"), on18[1].ID)

	assert.Empty(t, ix.On(calendar.MustParseDate("2025-12-19")))
}

func TestIndex_DatesInSkipsEmptyDays(t *testing.T) {
	ix := shift.BuildIndex(sampleShifts())

	got := ix.DatesIn(calendar.Period{
		Start: calendar.MustParseDate("2025-12-19"),
		End:   calendar.MustParseDate("2026-12-31"),
	})
	require.Len(t, got, 1)
	assert.Equal(t, "2025-12-20", got[0].String())

	assert.Empty(t, ix.DatesIn(calendar.Period{
		Start: calendar.MustParseDate("2025-01-01"),
		End:   calendar.MustParseDate("2025-12-17"),
	}))
}

func TestIndex_ShiftsAndCategories(t *testing.T) {
	ix := shift.BuildIndex(sampleShifts())
	dec := calendar.MonthScope(2025, 12).Period()

	assert.Len(t, ix.Shifts(dec, shift.Filter{}), 3)
	guardia := ix.Shifts(dec, shift.Filter{Category: "Guardia"})
	require.Len(t, guardia, 1)
	assert.Equal(t, shift.ShiftID("c"), guardia[0].ID)

	assert.Equal(t, []string{"DRP", "Guardia", "Programado"}, ix.Categories())
}

func TestIndex_NilIsEmpty(t *testing.T) {
	var ix *shift.Index
	assert.Equal(t, 0, ix.Len())
	assert.Nil(t, ix.Dates())
	assert.Nil(t, ix.On(calendar.MustParseDate("2025-12-18")))
	assert.Nil(t, ix.Categories())
}

// =============================================================================
// INDEX CACHE
// =============================================================================

func TestIndexCache_RebuildsOnlyOnNewVersion(t *testing.T) {
	// GIVEN: a cache and a loader that counts calls
	var cache shift.IndexCache
	loads := 0
	load := func() ([]shift.Shift, error) {
		loads++
		return sampleShifts(), nil
	}

	// WHEN: the same version is requested twice
	first, err := cache.Get(1, load)
	require.NoError(t, err)
	second, err := cache.Get(1, load)
	require.NoError(t, err)

	// THEN: the loader ran once and the same index is returned
	assert.Equal(t, 1, loads)
	assert.Same(t, first, second)

	// WHEN: the version changes
	_, err = cache.Get(2, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestIndexCache_LoadErrorIsNotCached(t *testing.T) {
	var cache shift.IndexCache
	boom := errors.New("boom")

	_, err := cache.Get(1, func() ([]shift.Shift, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	ix, err := cache.Get(1, func() ([]shift.Shift, error) { return sampleShifts(), nil })
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Len())
}
