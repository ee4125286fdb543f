// Package store provides in-memory collaborator implementations for tests
// and the dev server.
package store

import (
	"context"
	"sync"

	"github.com/worknest/leave-engine/engine"
)

// =============================================================================
// MEMORY STORE - Implements StaffDirectory, RequestStore and HolidaySource
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	staff    map[engine.StaffID]engine.StaffRef
	order    []engine.StaffID
	requests []engine.LeaveRequest
	holidays []engine.Date
}

func NewMemory() *Memory {
	return &Memory{staff: make(map[engine.StaffID]engine.StaffRef)}
}

// -----------------------------------------------------------------------------
// StaffDirectory
// -----------------------------------------------------------------------------

func (m *Memory) Get(_ context.Context, id engine.StaffID) (engine.StaffRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.staff[id]
	if !ok {
		return engine.StaffRef{}, engine.ErrStaffNotFound
	}
	return ref, nil
}

func (m *Memory) List(_ context.Context) ([]engine.StaffRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.StaffRef, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.staff[id])
	}
	return out, nil
}

// AddStaff registers a roster member. Insertion order is preserved so
// tests get deterministic pools.
func (m *Memory) AddStaff(refs ...engine.StaffRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ref := range refs {
		if _, exists := m.staff[ref.ID]; !exists {
			m.order = append(m.order, ref.ID)
		}
		m.staff[ref.ID] = ref
	}
}

// -----------------------------------------------------------------------------
// RequestStore
// -----------------------------------------------------------------------------

func (m *Memory) ListForYear(_ context.Context, staffID engine.StaffID, leaveType engine.LeaveType, year int) ([]engine.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.LeaveRequest
	for _, r := range m.requests {
		if r.StaffID == staffID && r.Type == leaveType && r.Start.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) ListActive(_ context.Context) ([]engine.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.LeaveRequest
	for _, r := range m.requests {
		if r.Active() {
			out = append(out, r)
		}
	}
	return out, nil
}

// Persist appends a request after re-verifying the overlap invariant under
// the write lock. The check and the append are atomic here, which is the
// in-memory equivalent of the database exclusion constraint.
func (m *Memory) Persist(_ context.Context, req *engine.LeaveRequest) (engine.RequestID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := req.Window()
	for i := range m.requests {
		r := &m.requests[i]
		if !r.Active() || !w.Overlaps(r.Window()) {
			continue
		}
		if r.StaffID == req.StaffID || r.RelieverID == req.StaffID {
			return "", engine.ErrOverlappingLeave
		}
		if req.RelieverID != "" && (r.StaffID == req.RelieverID || r.RelieverID == req.RelieverID) {
			return "", engine.ErrRelieverConflict
		}
	}

	if req.ID == "" {
		req.ID = engine.NewRequestID()
	}
	if req.Status == "" {
		req.Status = engine.StatusPending
	}
	m.requests = append(m.requests, *req)
	return req.ID, nil
}

// Seed inserts history without the overlap check, for test fixtures.
func (m *Memory) Seed(reqs ...engine.LeaveRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, reqs...)
}

// SetStatus transitions a request, standing in for the external approval
// workflow.
func (m *Memory) SetStatus(id engine.RequestID, status engine.RequestStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.requests {
		if m.requests[i].ID == id {
			m.requests[i].Status = status
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// HolidaySource
// -----------------------------------------------------------------------------

func (m *Memory) ListHolidays(_ context.Context) ([]engine.Date, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Date, len(m.holidays))
	copy(out, m.holidays)
	return out, nil
}

func (m *Memory) AddHoliday(dates ...engine.Date) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays = append(m.holidays, dates...)
}
