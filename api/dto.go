/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the API surface. These decouple the engine's
  domain types from the wire contract; dates travel as YYYY-MM-DD
  strings and are parsed at the boundary.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"time"

	"github.com/worknest/leave-engine/engine"
)

// =============================================================================
// STAFF
// =============================================================================

type StaffDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rank    string `json:"rank"`
	Section string `json:"section,omitempty"`
}

type CreateStaffRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rank    string `json:"rank"`
	Section string `json:"section"`
}

func staffDTO(ref engine.StaffRef) StaffDTO {
	return StaffDTO{ID: string(ref.ID), Name: ref.Name, Rank: ref.Rank, Section: ref.Section}
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

type SubmitLeaveRequest struct {
	StaffID       string `json:"staff_id"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	RequestedDays int    `json:"requested_days"`
	RelieverID    string `json:"reliever_id,omitempty"`
}

type LeaveRequestDTO struct {
	ID          string `json:"id"`
	StaffID     string `json:"staff_id"`
	LeaveType   string `json:"leave_type"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	WorkingDays int    `json:"working_days"`
	RelieverID  string `json:"reliever_id,omitempty"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// DecisionDTO is the validation outcome: accepted with the persisted
// request, or rejected with the first violated rule's reason.
type DecisionDTO struct {
	Accepted bool             `json:"accepted"`
	Request  *LeaveRequestDTO `json:"request,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

func requestDTO(r *engine.LeaveRequest) *LeaveRequestDTO {
	dto := &LeaveRequestDTO{
		ID:          string(r.ID),
		StaffID:     string(r.StaffID),
		LeaveType:   string(r.Type),
		StartDate:   r.Start.String(),
		EndDate:     r.End.String(),
		WorkingDays: r.WorkingDays,
		RelieverID:  string(r.RelieverID),
		Status:      string(r.Status),
		Reason:      r.Reason,
	}
	if !r.CreatedAt.IsZero() {
		dto.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// RELIEVER SELECTION
// =============================================================================

type CandidateDTO struct {
	StaffID  string `json:"staff_id"`
	Name     string `json:"name"`
	Rank     string `json:"rank"`
	Distance int    `json:"rank_distance"`
}

type SelectionDTO struct {
	Window      WindowDTO      `json:"window"`
	WorkingDays int            `json:"working_days"`
	Relaxed     bool           `json:"relaxed"`
	Pool        []CandidateDTO `json:"pool"`
	Nearest     []CandidateDTO `json:"nearest"`
}

type WindowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func candidateDTOs(cands []engine.RelieverCandidate) []CandidateDTO {
	out := make([]CandidateDTO, len(cands))
	for i, c := range cands {
		out[i] = CandidateDTO{
			StaffID:  string(c.StaffID),
			Name:     c.Name,
			Rank:     c.Rank,
			Distance: c.Distance,
		}
	}
	return out
}

// =============================================================================
// BALANCE AND HOLIDAYS
// =============================================================================

type CasualBalanceDTO struct {
	StaffID   string `json:"staff_id"`
	Year      int    `json:"year"`
	Ceiling   string `json:"ceiling"`
	Used      string `json:"used"`
	Remaining string `json:"remaining"`
}

type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
