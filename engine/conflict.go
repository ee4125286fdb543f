/*
conflict.go - Overlap checks against existing request history

PURPOSE:
  Given a staff member and a date window, determines whether that person
  is already absent or already committed as a reliever for an overlapping
  window. Both checks use the standard inclusive interval-intersection
  test: s <= L.end && L.start <= e.

INVARIANT:
  Rejected requests never conflict - neither as absences nor as reliever
  commitments. Callers load only non-Rejected history, and the index
  filters again regardless.

SCALE:
  A linear scan over the active history is deliberate; the data volumes
  involved do not justify an interval index. If history grows into many
  years, replace the scan with an interval tree keyed by staff id while
  preserving identical overlap semantics.
*/
package engine

// =============================================================================
// CONFLICT INDEX
// =============================================================================

// ConflictIndex answers availability questions over a fixed snapshot of
// request history. Build one per scheduling decision.
type ConflictIndex struct {
	history []LeaveRequest
}

func NewConflictIndex(history []LeaveRequest) *ConflictIndex {
	return &ConflictIndex{history: history}
}

// IsOnLeave reports whether any non-Rejected request for staffID overlaps
// the window.
func (ci *ConflictIndex) IsOnLeave(staffID StaffID, w Window) bool {
	for i := range ci.history {
		r := &ci.history[i]
		if r.StaffID != staffID || !r.Active() {
			continue
		}
		if w.Overlaps(r.Window()) {
			return true
		}
	}
	return false
}

// IsAlreadyRelieving reports whether staffID is committed as the reliever
// on any non-Rejected request overlapping the window.
func (ci *ConflictIndex) IsAlreadyRelieving(staffID StaffID, w Window) bool {
	for i := range ci.history {
		r := &ci.history[i]
		if r.RelieverID != staffID || !r.Active() {
			continue
		}
		if w.Overlaps(r.Window()) {
			return true
		}
	}
	return false
}

// HasConflict reports whether staffID is unavailable for the window for
// either reason.
func (ci *ConflictIndex) HasConflict(staffID StaffID, w Window) bool {
	return ci.IsOnLeave(staffID, w) || ci.IsAlreadyRelieving(staffID, w)
}
