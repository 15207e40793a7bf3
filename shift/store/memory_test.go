package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/shift"
	"github.com/warp/shiftbook/shift/store"
)

func TestMemory_ShiftsOrderedAndVersioned(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	v0 := m.Version()

	late := shift.Shift{ID: "late", Date: calendar.MustParseDate("2025-12-18"), Start: 18 * 60, End: 22 * 60, Category: "DRP"}
	early := shift.Shift{ID: "early", Date: calendar.MustParseDate("2025-12-18"), Start: 9 * 60, End: 17 * 60, Category: "Programado"}
	prev := shift.Shift{ID: "prev", Date: calendar.MustParseDate("2025-12-17"), Start: 20 * 60, End: 21 * 60, Category: "Guardia"}
	for _, s := range []shift.Shift{late, early, prev} {
		require.NoError(t, m.SaveShift(ctx, s))
	}
	assert.Equal(t, v0+3, m.Version())

	all, err := m.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []shift.ShiftID{"prev", "early", "late"}, []shift.ShiftID{all[0].ID, all[1].ID, all[2].ID})

	_, err = m.GetShift(ctx, "missing")
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)

	// Failed writes leave the version alone
	before := m.Version()
	assert.ErrorIs(t, m.DeleteShift(ctx, "missing"), shift.ErrShiftNotFound)
	assert.Equal(t, before, m.Version())
}

func TestMemory_TiersAndReplace(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.SaveTier(ctx, shift.PayTier{ID: "b", Name: "Especial", Price: decimal.NewFromInt(15)}))
	require.NoError(t, m.SaveTier(ctx, shift.PayTier{ID: "a", Name: "Normal", Price: decimal.NewFromInt(10)}))

	tiers, err := m.ListTiers(ctx)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, "Especial", tiers[0].Name)

	assert.ErrorIs(t, m.DeleteTier(ctx, "zzz"), shift.ErrPayTierNotFound)

	require.NoError(t, m.Replace(ctx, nil, []shift.PayTier{{ID: "c", Name: "Solo"}}))
	tiers, err = m.ListTiers(ctx)
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Equal(t, shift.PayTierID("c"), tiers[0].ID)

	_, err = m.GetTier(ctx, "a")
	assert.ErrorIs(t, err, shift.ErrPayTierNotFound)
}
