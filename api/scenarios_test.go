/*
scenarios_test.go - Tests for demo scenarios

Every scenario must load through the backup factory and produce the totals
its description promises.
*/
package api

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_AllLoad(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.ID, func(t *testing.T) {
			_, ok := scenarioDocs[sc.ID]
			require.True(t, ok, "scenario %s has no document", sc.ID)

			srv := setupTestServer(t)
			rec := srv.do("POST", "/api/scenarios/load", map[string]string{"scenario_id": sc.ID})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			current := decode[ScenarioDTO](t, srv.do("GET", "/api/scenarios/current", nil))
			assert.Equal(t, sc.ID, current.ID)
		})
	}
}

func TestScenario_December2025(t *testing.T) {
	// GIVEN: the december-2025 scenario
	srv := setupTestServer(t)
	rec := srv.do("POST", "/api/scenarios/load", map[string]string{"scenario_id": "december-2025"})
	require.Equal(t, http.StatusOK, rec.Code)

	// WHEN: summarizing December
	sum := decode[SummaryDTO](t, srv.do("GET", "/api/summary?granularity=month&date=2025-12-01", nil))

	// THEN: 16h, 180 earned, three shifts in three categories
	assert.True(t, sum.Total.TotalHours.Equal(decimal.NewFromInt(16)))
	assert.True(t, sum.Total.TotalEarnings.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, 3, sum.Total.ShiftCount)
	assert.Equal(t, map[string]int{"Programado": 1, "DRP": 1, "Guardia": 1}, sum.Total.CategoryBreakdown)
}

func TestScenario_NightShifts(t *testing.T) {
	srv := setupTestServer(t)
	rec := srv.do("POST", "/api/scenarios/load", map[string]string{"scenario_id": "night-shifts"})
	require.Equal(t, http.StatusOK, rec.Code)

	sum := decode[SummaryDTO](t, srv.do("GET", "/api/summary?granularity=month&date=2025-11-01", nil))
	// 8 + 7.75 + 24 + 3 (unpriced)
	assert.True(t, sum.Total.TotalHours.Equal(decimal.RequireFromString("42.75")), sum.Total.TotalHours.String())
	// 39.75h x 12.5
	assert.True(t, sum.Total.TotalEarnings.Equal(decimal.RequireFromString("496.875")), sum.Total.TotalEarnings.String())
}

func TestScenario_ResetClearsEverything(t *testing.T) {
	srv := setupTestServer(t)
	srv.do("POST", "/api/scenarios/load", map[string]string{"scenario_id": "worked-months"})

	rec := srv.do("POST", "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, decode[[]ShiftDTO](t, srv.do("GET", "/api/shifts", nil)))
	assert.Empty(t, decode[[]PayTierDTO](t, srv.do("GET", "/api/pay-tiers", nil)))

	rec = srv.do("GET", "/api/scenarios/current", nil)
	assert.Equal(t, "null\n", rec.Body.String())
}

func TestScenario_Unknown(t *testing.T) {
	srv := setupTestServer(t)
	rec := srv.do("POST", "/api/scenarios/load", map[string]string{"scenario_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
