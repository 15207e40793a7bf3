/*
handlers.go - HTTP API handlers for the shift logbook

PURPOSE:
  Exposes the shift logbook, aggregation engine and calendar navigator via
  REST API. Handles HTTP request/response, JSON serialization, and delegates
  to domain logic.

ENDPOINTS:
  Shifts:
    GET    /api/shifts                 List shifts (?from=&to=&category=&hour_type_id=)
    POST   /api/shifts                 Log a shift (409 on overlap)
    GET    /api/shifts/{id}            Get one shift
    PUT    /api/shifts/{id}            Edit a shift (409 on overlap)
    DELETE /api/shifts/{id}            Delete a shift
    POST   /api/overlap-check          Dry-run the overlap rule

  Pay tiers:
    GET    /api/pay-tiers              List pay tiers
    POST   /api/pay-tiers              Create pay tier
    PUT    /api/pay-tiers/{id}         Rename / re-price (retroactive)
    DELETE /api/pay-tiers/{id}         Delete (shifts become unpriced)

  Reporting:
    GET    /api/categories             Distinct categories in use
    GET    /api/summary                Scope total + sub-bucket breakdown

  Navigator:
    POST   /api/navigator              Start a session
    GET    /api/navigator/{id}         Current state + bucket rollup
    DELETE /api/navigator/{id}         End a session
    POST   /api/navigator/{id}/...     granularity, select, range, filter,
                                       clear-range, next, prev

  Backup:
    GET    /api/backup                 Export everything as JSON
    POST   /api/backup                 Replace everything from JSON

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Logbook: the single write path (validation, overlap rule, index cache)
  - Backups: JSON backup codec
  - Sessions: live navigator sessions

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Overlap with an existing shift (body names the conflicting shift)
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The logbook belongs to a single user.

SEE ALSO:
  - dto.go: Request/response data structures
  - sessions.go: Navigator session registry
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/factory"
	"github.com/warp/shiftbook/navigation"
	"github.com/warp/shiftbook/report"
	"github.com/warp/shiftbook/shift"
)

// maxBackupBytes bounds POST /api/backup bodies.
const maxBackupBytes = 32 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Logbook  *shift.Logbook
	Backups  *factory.BackupFactory
	Sessions *SessionRegistry

	// Today supplies the default anchor for new navigators and summaries.
	Today func() calendar.Date

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler over the given store.
func NewHandler(store shift.Store, sessions *SessionRegistry) *Handler {
	return &Handler{
		Logbook:  shift.NewLogbook(store),
		Backups:  factory.NewBackupFactory(),
		Sessions: sessions,
		Today:    func() calendar.Date { return calendar.DateOf(time.Now()) },
	}
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns shifts ordered by date and start time. With from/to it
// returns only that inclusive range; category and hour_type_id filter.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)
	q := r.URL.Query()

	var shifts []shift.Shift
	if q.Get("from") != "" || q.Get("to") != "" {
		p, err := parsePeriod(q.Get("from"), q.Get("to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date range", err)
			return
		}
		ix, err := h.Logbook.Index(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
			return
		}
		shifts = ix.Shifts(p, filter)
	} else {
		all, err := h.Logbook.Store().ListShifts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
			return
		}
		for _, s := range all {
			if filter.Match(s) {
				shifts = append(shifts, s)
			}
		}
	}

	writeJSON(w, http.StatusOK, toShiftDTOs(shifts))
}

// GetShift returns a single shift.
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	s, err := h.Logbook.Shift(r.Context(), shift.ShiftID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get shift", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(s))
}

// CreateShift logs a new shift.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.Logbook.Create(r.Context(), req.toInput())
	if err != nil {
		writeDomainError(w, "Failed to create shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(s))
}

// UpdateShift edits a shift. The shift being edited is excluded from its own
// overlap check.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.Logbook.Update(r.Context(), shift.ShiftID(chi.URLParam(r, "id")), req.toInput())
	if err != nil {
		writeDomainError(w, "Failed to update shift", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(s))
}

// DeleteShift removes a shift.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Logbook.Delete(r.Context(), shift.ShiftID(chi.URLParam(r, "id"))); err != nil {
		writeDomainError(w, "Failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckOverlap runs the overlap rule without saving anything. A conflict is
// reported in the body with status 200.
func (h *Handler) CheckOverlap(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	candidate, err := req.toInput().Parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}
	candidate.ID = shift.ShiftID(req.ID)

	err = h.Logbook.CheckOverlap(r.Context(), candidate)
	var overlap *shift.OverlapError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, OverlapCheckDTO{Overlap: false})
	case errors.As(err, &overlap):
		conflicting := toShiftDTO(overlap.Conflicting)
		writeJSON(w, http.StatusOK, OverlapCheckDTO{Overlap: true, Conflicting: &conflicting})
	default:
		writeError(w, http.StatusInternalServerError, "Failed to check overlap", err)
	}
}

// =============================================================================
// PAY TIER HANDLERS
// =============================================================================

// ListPayTiers returns all pay tiers.
func (h *Handler) ListPayTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.Logbook.Tiers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list pay tiers", err)
		return
	}

	dtos := make([]PayTierDTO, len(tiers))
	for i, t := range tiers {
		dtos[i] = toPayTierDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePayTier creates a pay tier.
func (h *Handler) CreatePayTier(w http.ResponseWriter, r *http.Request) {
	var req PayTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	t, err := h.Logbook.CreateTier(r.Context(), shift.TierInput{Name: req.Name, Price: req.Price})
	if err != nil {
		writeDomainError(w, "Failed to create pay tier", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayTierDTO(t))
}

// UpdatePayTier renames or re-prices a tier. Past shifts are re-priced too.
func (h *Handler) UpdatePayTier(w http.ResponseWriter, r *http.Request) {
	var req PayTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id := shift.PayTierID(chi.URLParam(r, "id"))
	t, err := h.Logbook.UpdateTier(r.Context(), id, shift.TierInput{Name: req.Name, Price: req.Price})
	if err != nil {
		writeDomainError(w, "Failed to update pay tier", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayTierDTO(t))
}

// DeletePayTier removes a tier.
func (h *Handler) DeletePayTier(w http.ResponseWriter, r *http.Request) {
	if err := h.Logbook.DeleteTier(r.Context(), shift.PayTierID(chi.URLParam(r, "id"))); err != nil {
		writeDomainError(w, "Failed to delete pay tier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORTING HANDLERS
// =============================================================================

// ListCategories returns the distinct categories in use.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Logbook.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// GetSummary aggregates one scope. The scope is either a calendar bucket
// (?granularity=&date=) or an explicit range (?from=&to=); without either it
// defaults to the current month.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	scope, err := h.parseScope(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scope", err)
		return
	}

	ix, prices, err := h.Logbook.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load shifts", err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryDTO(report.Breakdown(ix, scope, prices, parseFilter(r))))
}

// =============================================================================
// NAVIGATOR HANDLERS
// =============================================================================

// CreateNavigator starts a navigator session at month granularity, or
// resumes one from a saved granularity/anchor/range/filter.
func (h *Handler) CreateNavigator(w http.ResponseWriter, r *http.Request) {
	var req CreateNavigatorRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	today := h.Today()
	if req.Today != "" {
		d, err := calendar.ParseDate(req.Today)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid today", err)
			return
		}
		today = d
	}

	if !req.resumes() {
		h.respondNavigator(w, r, h.Sessions.Create(today), http.StatusCreated, nil)
		return
	}

	st, err := req.toState(today)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid navigator state", err)
		return
	}
	sess, err := h.Sessions.Resume(st)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid navigator state", err)
		return
	}
	h.respondNavigator(w, r, sess, http.StatusCreated, nil)
}

// GetNavigator returns the session's state and current bucket rollup.
func (h *Handler) GetNavigator(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(*navigation.Navigator, *shift.Index) (*bool, error) {
		return nil, nil
	})
}

// DeleteNavigator ends a session.
func (h *Handler) DeleteNavigator(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "Navigator session not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetNavigatorGranularity switches year/month/week/day.
func (h *Handler) SetNavigatorGranularity(w http.ResponseWriter, r *http.Request) {
	var req GranularityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	g, err := calendar.ParseGranularity(req.Granularity)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid granularity", err)
		return
	}

	h.navigate(w, r, func(nav *navigation.Navigator, _ *shift.Index) (*bool, error) {
		return nil, nav.SetGranularity(g)
	})
}

// SelectNavigatorDate drills into a single day.
func (h *Handler) SelectNavigatorDate(w http.ResponseWriter, r *http.Request) {
	var req DateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	d, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	h.navigate(w, r, func(nav *navigation.Navigator, _ *shift.Index) (*bool, error) {
		nav.SelectDate(d)
		return nil, nil
	})
}

// SetNavigatorRange activates range mode.
func (h *Handler) SetNavigatorRange(w http.ResponseWriter, r *http.Request) {
	var req RangeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	p, err := req.toPeriod()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	h.navigate(w, r, func(nav *navigation.Navigator, _ *shift.Index) (*bool, error) {
		return nil, nav.SetRange(p)
	})
}

// SetNavigatorFilter sets or clears (empty body fields) the active filter.
func (h *Handler) SetNavigatorFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.navigate(w, r, func(nav *navigation.Navigator, _ *shift.Index) (*bool, error) {
		nav.SetFilter(req.toFilter())
		return nil, nil
	})
}

// ClearNavigatorRange drops the active range and filter.
func (h *Handler) ClearNavigatorRange(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(nav *navigation.Navigator, _ *shift.Index) (*bool, error) {
		nav.ClearRange()
		return nil, nil
	})
}

// NavigatorNext pages forward. "moved" is false when no later worked bucket exists.
func (h *Handler) NavigatorNext(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(nav *navigation.Navigator, ix *shift.Index) (*bool, error) {
		moved := nav.Next(ix)
		return &moved, nil
	})
}

// NavigatorPrev pages backward.
func (h *Handler) NavigatorPrev(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(nav *navigation.Navigator, ix *shift.Index) (*bool, error) {
		moved := nav.Prev(ix)
		return &moved, nil
	})
}

type navigatorOp func(nav *navigation.Navigator, ix *shift.Index) (*bool, error)

// navigate applies op to the session named in the URL and responds with the
// resulting state.
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, op navigatorOp) {
	sess, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Navigator session not found", nil)
		return
	}
	h.respondNavigator(w, r, sess, http.StatusOK, op)
}

func (h *Handler) respondNavigator(w http.ResponseWriter, r *http.Request, sess *Session, status int, op navigatorOp) {
	ix, prices, err := h.Logbook.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load shifts", err)
		return
	}

	var (
		dto   NavigatorDTO
		opErr error
	)
	sess.Do(func(nav *navigation.Navigator) {
		var moved *bool
		if op != nil {
			moved, opErr = op(nav, ix)
			if opErr != nil {
				return
			}
		}
		dto = toNavigatorDTO(sess.ID, nav.State(), nav.WorkedBuckets(ix), nav.Summary(ix, prices))
		dto.Moved = moved
	})
	if opErr != nil {
		writeDomainError(w, "Navigation failed", opErr)
		return
	}

	writeJSON(w, status, dto)
}

// =============================================================================
// BACKUP HANDLERS
// =============================================================================

// ExportBackup returns every shift and pay tier as a backup document.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Logbook.Store().ListShifts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export", err)
		return
	}
	tiers, err := h.Logbook.Tiers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export", err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="shiftbook-backup.json"`)
	writeJSON(w, http.StatusOK, h.Backups.ToJSON(shifts, tiers))
}

// ImportBackup replaces the whole collection with a backup document.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBackupBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}

	shifts, tiers, err := h.Backups.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid backup", err)
		return
	}

	if err := h.Logbook.Import(r.Context(), shifts, tiers); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to import", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"shifts":    len(shifts),
		"pay_tiers": len(tiers),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) parseScope(r *http.Request) (calendar.Scope, error) {
	q := r.URL.Query()

	if q.Get("from") != "" || q.Get("to") != "" {
		p, err := parsePeriod(q.Get("from"), q.Get("to"))
		if err != nil {
			return calendar.Scope{}, err
		}
		return calendar.RangeScope(p), nil
	}

	g := calendar.GranularityMonth
	if raw := q.Get("granularity"); raw != "" {
		parsed, err := calendar.ParseGranularity(raw)
		if err != nil {
			return calendar.Scope{}, err
		}
		g = parsed
	}

	anchor := h.Today()
	if raw := q.Get("date"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			return calendar.Scope{}, err
		}
		anchor = d
	}

	return calendar.BucketScope(g, anchor), nil
}

func parsePeriod(from, to string) (calendar.Period, error) {
	return RangeDTO{Start: from, End: to}.toPeriod()
}

func parseFilter(r *http.Request) shift.Filter {
	q := r.URL.Query()
	return shift.Filter{
		Category:   strings.TrimSpace(q.Get("category")),
		HourTypeID: shift.PayTierID(q.Get("hour_type_id")),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps logbook and calendar errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	var overlap *shift.OverlapError
	switch {
	case errors.As(err, &overlap):
		conflicting := toShiftDTO(overlap.Conflicting)
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:       message,
			Details:     err.Error(),
			Conflicting: &conflicting,
		})
	case shift.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case shift.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
