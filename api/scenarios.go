/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario is a backup document that goes
	through the same factory and import path as a user backup.

AVAILABLE SCENARIOS:

	december-2025:  Two tiers, three shifts; 16h and 180 earned in December
	night-shifts:   Overnight shifts that wrap past midnight
	worked-months:  Sparse shifts across 2025 for range-mode paging

HOW SCENARIOS WORK:
 1. Parse the scenario's backup JSON via factory.BackupFactory
 2. Replace the whole collection (tiers + shifts) in one import

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "december-2025"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its backup document to scenarioDocs

NOTE:

	Scenarios replace all data. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: backup handlers share the import path
  - factory/backup.go: backup JSON format
*/
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "december-2025",
		Name:        "December 2025",
		Description: "Normal (10/h) and Especial (15/h) tiers; three shifts on Dec 18 and 20",
	},
	{
		ID:          "night-shifts",
		Name:        "Night Shifts",
		Description: "Overnight guard shifts that wrap past midnight, counted on their start date",
	},
	{
		ID:          "worked-months",
		Name:        "Worked Months",
		Description: "Sparse shifts across 2025 for paging through worked buckets in range mode",
	},
}

var scenarioDocs = map[string]string{
	"december-2025": `{
  "version": 1,
  "pay_tiers": [
    {"id": "tier-normal", "name": "Normal", "price": "10"},
    {"id": "tier-especial", "name": "Especial", "price": "15"}
  ],
  "shifts": [
    {"id": "dec18-am", "date": "2025-12-18", "start_time": "09:00", "end_time": "17:00",
     "category": "Programado", "hour_type_id": "tier-normal"},
    {"id": "dec18-pm", "date": "2025-12-18", "start_time": "18:00", "end_time": "22:00",
     "category": "DRP", "hour_type_id": "tier-especial"},
    {"id": "dec20", "date": "2025-12-20", "start_time": "10:00", "end_time": "14:00",
     "category": "Guardia", "hour_type_id": "tier-normal"}
  ]
}`,
	"night-shifts": `{
  "version": 1,
  "pay_tiers": [
    {"id": "tier-night", "name": "Nocturna", "price": "12.5"}
  ],
  "shifts": [
    {"id": "n1", "date": "2025-11-03", "start_time": "22:00", "end_time": "06:00",
     "category": "Guardia", "hour_type_id": "tier-night"},
    {"id": "n2", "date": "2025-11-05", "start_time": "23:30", "end_time": "07:15",
     "category": "Guardia", "hour_type_id": "tier-night"},
    {"id": "n3", "date": "2025-11-08", "start_time": "08:00", "end_time": "08:00",
     "category": "Guardia 24h", "hour_type_id": "tier-night"},
    {"id": "n4", "date": "2025-11-10", "start_time": "20:00", "end_time": "23:00",
     "category": "Programado", "notes": "unpriced handover"}
  ]
}`,
	"worked-months": `{
  "version": 1,
  "pay_tiers": [
    {"id": "tier-normal", "name": "Normal", "price": "10"}
  ],
  "shifts": [
    {"id": "w1", "date": "2025-01-14", "start_time": "09:00", "end_time": "13:00",
     "category": "Programado", "hour_type_id": "tier-normal"},
    {"id": "w2", "date": "2025-03-02", "start_time": "09:00", "end_time": "17:00",
     "category": "Guardia", "hour_type_id": "tier-normal"},
    {"id": "w3", "date": "2025-03-27", "start_time": "14:00", "end_time": "18:30",
     "category": "Programado", "hour_type_id": "tier-normal"},
    {"id": "w4", "date": "2025-07-09", "start_time": "07:00", "end_time": "15:00",
     "category": "DRP", "hour_type_id": "tier-normal"},
    {"id": "w5", "date": "2025-10-21", "start_time": "16:00", "end_time": "20:00",
     "category": "Guardia", "hour_type_id": "tier-normal"}
  ]
}`,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          current,
		Name:        current,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario replaces all data with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	doc, ok := scenarioDocs[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	shifts, tiers, err := h.Backups.Parse([]byte(doc))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	if err := h.Logbook.Import(r.Context(), shifts, tiers); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	log.Printf("[Scenarios] Loaded %s: %d shifts, %d pay tiers", req.ScenarioID, len(shifts), len(tiers))

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all shifts and pay tiers.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Logbook.Import(r.Context(), nil, nil); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	log.Println("[Scenarios] Database reset")

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
