package factory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/factory"
	"github.com/warp/shiftbook/shift"
)

func newTestFactory() *factory.BackupFactory {
	f := factory.NewBackupFactory()
	f.NewID = func() string { return "generated" }
	f.Now = func() time.Time { return time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC) }
	return f
}

// =============================================================================
// PARSE
// =============================================================================

func TestParse_ValidDocument(t *testing.T) {
	doc := `{
		"version": 1,
		"pay_tiers": [
			{"id": "normal", "name": "Normal", "price": 10},
			{"id": "especial", "name": "Especial", "price": "15.50"}
		],
		"shifts": [
			{"id": "a", "date": "2025-12-18", "start_time": "09:00", "end_time": "17:00",
			 "category": "Programado", "hour_type_id": "normal"},
			{"date": "2025-12-20", "start_time": "22:00", "end_time": "06:00",
			 "category": "Guardia", "hour_type_id": "gone", "notes": "night"}
		]
	}`

	shifts, tiers, err := newTestFactory().Parse([]byte(doc))
	require.NoError(t, err)

	require.Len(t, tiers, 2)
	assert.True(t, tiers[1].Price.Equal(decimal.RequireFromString("15.5")))

	require.Len(t, shifts, 2)
	assert.Equal(t, shift.ShiftID("a"), shifts[0].ID)
	assert.Equal(t, "8", shifts[0].Hours().String())
	assert.Equal(t, shift.ShiftID("generated"), shifts[1].ID, "missing ids are generated")
	assert.Equal(t, shift.PayTierID("gone"), shifts[1].HourTypeID, "dangling tier references are kept")
	assert.Equal(t, "night", shifts[1].Notes)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{
			name: "future version",
			doc:  `{"version": 2}`,
			is:   factory.ErrUnsupportedVersion,
		},
		{
			name: "duplicate shift id",
			doc: `{"version": 1, "shifts": [
				{"id": "a", "date": "2025-12-18", "start_time": "09:00", "end_time": "10:00", "category": "x"},
				{"id": "a", "date": "2025-12-19", "start_time": "09:00", "end_time": "10:00", "category": "x"}]}`,
			is: factory.ErrDuplicateID,
		},
		{
			name: "duplicate tier id",
			doc:  `{"version": 1, "pay_tiers": [{"id": "t", "name": "A", "price": 1}, {"id": "t", "name": "B", "price": 2}]}`,
			is:   factory.ErrDuplicateID,
		},
		{
			name: "negative price",
			doc:  `{"version": 1, "pay_tiers": [{"id": "t", "name": "A", "price": -1}]}`,
			is:   shift.ErrNegativePrice,
		},
		{
			name: "bad time",
			doc:  `{"version": 1, "shifts": [{"date": "2025-12-18", "start_time": "25:00", "end_time": "10:00", "category": "x"}]}`,
			is:   calendar.ErrInvalidTimeOfDay,
		},
		{
			name: "missing category",
			doc:  `{"version": 1, "shifts": [{"date": "2025-12-18", "start_time": "09:00", "end_time": "10:00"}]}`,
			is:   shift.ErrEmptyCategory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newTestFactory().Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.is)
		})
	}

	_, _, err := newTestFactory().Parse([]byte("not json"))
	assert.Error(t, err)
}

// =============================================================================
// BUILD
// =============================================================================

func TestBuild_RoundTrip(t *testing.T) {
	f := newTestFactory()
	shifts := []shift.Shift{{
		ID:         "a",
		Date:       calendar.MustParseDate("2025-12-18"),
		Start:      calendar.MustParseTimeOfDay("18:00"),
		End:        calendar.MustParseTimeOfDay("22:00"),
		Category:   "DRP",
		HourTypeID: "especial",
	}}
	tiers := []shift.PayTier{{ID: "especial", Name: "Especial", Price: decimal.NewFromInt(15)}}

	data, err := f.Build(shifts, tiers)
	require.NoError(t, err)

	var doc factory.BackupJSON
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, factory.CurrentVersion, doc.Version)
	assert.Equal(t, "2025-12-31T10:00:00Z", doc.ExportedAt)
	assert.Equal(t, "18:00", doc.Shifts[0].StartTime)

	gotShifts, gotTiers, err := f.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, shifts, gotShifts)
	require.Len(t, gotTiers, 1)
	assert.True(t, gotTiers[0].Price.Equal(tiers[0].Price))
}
