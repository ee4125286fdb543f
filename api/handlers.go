/*
handlers.go - HTTP API handlers for the leave scheduling engine

PURPOSE:
  Exposes the scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the validator.

ENDPOINTS:
  Staff:
    GET    /api/staff                        List the roster
    POST   /api/staff                        Add a staff member
    GET    /api/staff/{id}                   Get one staff member
    GET    /api/staff/{id}/relievers        Candidate pool for a window
    GET    /api/staff/{id}/balance/casual    Casual accrual balance

  Leave:
    POST   /api/leave/requests               Submit a draft request
    GET    /api/leave/requests               List all requests
    POST   /api/leave/requests/{id}/approve  Mark Approved
    POST   /api/leave/requests/{id}/reject   Mark Rejected

  Holidays:
    GET    /api/holidays                     List holiday dates
    POST   /api/holidays                     Add a holiday

ERROR HANDLING:
  A rejected request is a domain outcome, not an HTTP error: the submit
  endpoint returns 200 with accepted=false and the violated rule's
  reason. HTTP status codes are reserved for faults:
  - 400: Malformed input (bad date, unknown type, missing fields)
  - 404: Unknown staff or request id
  - 409: Persist-time conflict (concurrent overlapping request)
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/worknest/leave-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence surface the handlers need. Both the sqlite
// and postgres stores satisfy it.
type Store interface {
	engine.StaffDirectory
	engine.RequestStore
	engine.HolidaySource

	AddStaff(ctx context.Context, ref engine.StaffRef) error
	AddHoliday(ctx context.Context, d engine.Date, name string) error
	SetStatus(ctx context.Context, id engine.RequestID, status engine.RequestStatus) error
	ListAll(ctx context.Context) ([]engine.LeaveRequest, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     Store
	Validator *engine.Validator
}

// NewHandler wires a store into a validator with the default ladder and
// policy table.
func NewHandler(store Store) *Handler {
	return NewHandlerWithRules(store, engine.DefaultLadder(), engine.DefaultPolicies())
}

// NewHandlerWithRules wires a store into a validator with a custom rank
// ladder and policy table, typically loaded from a rules file.
func NewHandlerWithRules(store Store, ladder *engine.RankLadder, policies engine.PolicyTable) *Handler {
	return &Handler{
		Store:     store,
		Validator: engine.NewValidator(ladder, policies, store, store, store),
	}
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns the roster.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	roster, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}

	dtos := make([]StaffDTO, len(roster))
	for i, ref := range roster {
		dtos[i] = staffDTO(ref)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStaff returns a single staff member.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id := engine.StaffID(chi.URLParam(r, "id"))

	ref, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, engine.ErrStaffNotFound) {
		writeError(w, http.StatusNotFound, "Staff not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get staff", err)
		return
	}

	writeJSON(w, http.StatusOK, staffDTO(ref))
}

// CreateStaff adds a staff member to the roster.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" || req.Rank == "" {
		writeError(w, http.StatusBadRequest, "id, name and rank are required", nil)
		return
	}

	ref := engine.StaffRef{
		ID:      engine.StaffID(req.ID),
		Name:    req.Name,
		Rank:    req.Rank,
		Section: req.Section,
	}
	if err := h.Store.AddStaff(r.Context(), ref); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add staff", err)
		return
	}

	writeJSON(w, http.StatusCreated, staffDTO(ref))
}

// GetRelievers returns the candidate pool and nearest-in-rank subset for
// a staff member's prospective absence window.
// GET /api/staff/{id}/relievers?leave_type=Annual&start=2025-09-01&days=5
func (h *Handler) GetRelievers(w http.ResponseWriter, r *http.Request) {
	id := engine.StaffID(chi.URLParam(r, "id"))
	q := r.URL.Query()

	lt, ok := engine.ParseLeaveType(q.Get("leave_type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid leave_type", engine.ErrUnknownLeaveType)
		return
	}
	start, err := engine.ParseDate(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	days, err := strconv.Atoi(q.Get("days"))
	if err != nil || days < 1 {
		writeError(w, http.StatusBadRequest, "days must be a positive integer", err)
		return
	}

	window, workingDays, err := h.Validator.DeriveWindow(r.Context(), lt, start, days)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to derive window", err)
		return
	}

	sel, err := h.Validator.RelieverOptions(r.Context(), id, window)
	if errors.Is(err, engine.ErrStaffNotFound) {
		writeError(w, http.StatusNotFound, "Staff not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute reliever options", err)
		return
	}

	writeJSON(w, http.StatusOK, SelectionDTO{
		Window:      WindowDTO{Start: window.Start.String(), End: window.End.String()},
		WorkingDays: workingDays,
		Relaxed:     sel.Relaxed,
		Pool:        candidateDTOs(sel.Pool),
		Nearest:     candidateDTOs(sel.Nearest),
	})
}

// GetCasualBalance returns the Casual accrual balance for a year.
// GET /api/staff/{id}/balance/casual?year=2025
func (h *Handler) GetCasualBalance(w http.ResponseWriter, r *http.Request) {
	id := engine.StaffID(chi.URLParam(r, "id"))

	year := engine.Today().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = y
	}

	if _, err := h.Store.Get(r.Context(), id); err != nil {
		if errors.Is(err, engine.ErrStaffNotFound) {
			writeError(w, http.StatusNotFound, "Staff not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get staff", err)
		return
	}

	balance, err := h.Validator.CasualBalance(r.Context(), id, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, CasualBalanceDTO{
		StaffID:   string(balance.StaffID),
		Year:      balance.Year,
		Ceiling:   balance.Ceiling.String(),
		Used:      balance.Used.String(),
		Remaining: balance.Remaining.String(),
	})
}

// =============================================================================
// LEAVE REQUEST HANDLERS
// =============================================================================

// SubmitRequest validates a draft leave request and persists it when
// accepted. Rejections come back as 200 with accepted=false.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	lt, ok := engine.ParseLeaveType(req.LeaveType)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid leave_type", engine.ErrUnknownLeaveType)
		return
	}
	start, err := engine.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}

	decision, err := h.Validator.Validate(r.Context(), engine.ValidationInput{
		StaffID:       engine.StaffID(req.StaffID),
		Type:          lt,
		Start:         start,
		RequestedDays: req.RequestedDays,
		RelieverID:    engine.StaffID(req.RelieverID),
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrStaffNotFound):
			writeError(w, http.StatusNotFound, "Staff not found", nil)
		case engine.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid request", err)
		default:
			writeError(w, http.StatusInternalServerError, "Validation failed", err)
		}
		return
	}

	if !decision.Accepted {
		writeJSON(w, http.StatusOK, DecisionDTO{Accepted: false, Reason: decision.Reason})
		return
	}

	if _, err := h.Store.Persist(r.Context(), decision.Request); err != nil {
		if engine.IsWriteConflict(err) {
			slog.Warn("persist lost conflict race",
				"staff_id", req.StaffID, "reliever_id", req.RelieverID, "err", err)
			writeError(w, http.StatusConflict, "An overlapping request was accepted concurrently", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to persist request", err)
		return
	}

	writeJSON(w, http.StatusOK, DecisionDTO{Accepted: true, Request: requestDTO(decision.Request)})
}

// ListRequests returns every recorded request, any status.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}

	dtos := make([]*LeaveRequestDTO, len(reqs))
	for i := range reqs {
		dtos[i] = requestDTO(&reqs[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApproveRequest marks a pending request Approved.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, engine.StatusApproved)
}

// RejectRequest marks a request Rejected, freeing its windows for
// future conflict checks.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, engine.StatusRejected)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status engine.RequestStatus) {
	id := engine.RequestID(chi.URLParam(r, "id"))

	if err := h.Store.SetStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, engine.ErrRequestNotFound) {
			writeError(w, http.StatusNotFound, "Request not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update request", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": string(id), "status": string(status)})
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all configured holiday dates.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	dates, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(dates))
	for i, d := range dates {
		dtos[i] = HolidayDTO{Date: d.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday to the calendar.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	d, err := engine.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	if err := h.Store.AddHoliday(r.Context(), d, req.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, HolidayDTO{Date: d.String(), Name: req.Name})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

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
