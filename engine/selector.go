/*
selector.go - Reliever candidate selection

PURPOSE:
  Builds the pool of staff eligible to relieve an applicant over a window,
  computes each candidate's rank distance, and determines the nearest
  subset the applicant must pick from.

RELAXED MODE:
  Rank distance is not enforced when the absence starts in a future year
  (the applicant is planning ahead) or when a rank is organizationally
  unclassified. In those cases every affected candidate's effective
  distance is 0, so the nearest subset grows to the whole pool.

OUTCOMES:
  An empty pool is a valid outcome signaling "no reliever available".
  Callers must surface it distinctly from "pool non-empty but no reliever
  picked".
*/
package engine

// =============================================================================
// SELECTION RESULT
// =============================================================================

// Selection is the result of one selector call. Pool is for display and
// manual picking; Nearest is the subset the nearest-in-rank constraint
// accepts.
type Selection struct {
	Pool    []RelieverCandidate
	Nearest []RelieverCandidate
	Relaxed bool
}

// Empty reports whether no candidate is available at all.
func (s Selection) Empty() bool { return len(s.Pool) == 0 }

// NearestContains reports whether the staff member is in the nearest subset.
func (s Selection) NearestContains(id StaffID) bool {
	for _, c := range s.Nearest {
		if c.StaffID == id {
			return true
		}
	}
	return false
}

// PoolContains reports whether the staff member is in the candidate pool.
func (s Selection) PoolContains(id StaffID) bool {
	for _, c := range s.Pool {
		if c.StaffID == id {
			return true
		}
	}
	return false
}

// =============================================================================
// SELECTOR
// =============================================================================

// Selector builds reliever candidate pools against a rank ladder.
type Selector struct {
	Ladder *RankLadder
}

func NewSelector(ladder *RankLadder) *Selector {
	return &Selector{Ladder: ladder}
}

// Select builds the candidate pool for the applicant's absence window.
//
// The pool is the roster minus the applicant and minus anyone already on
// leave or already relieving over the window. Each candidate's effective
// distance is the ladder distance to the applicant's rank, forced to 0
// when relaxed is true or when the pair is unranked. The nearest subset
// is every candidate at the minimum effective distance.
func (s *Selector) Select(applicant StaffRef, w Window, roster []StaffRef, conflicts *ConflictIndex, relaxed bool) Selection {
	sel := Selection{Relaxed: relaxed}

	minDist := -1
	for _, member := range roster {
		if member.ID == applicant.ID {
			continue
		}
		if conflicts.HasConflict(member.ID, w) {
			continue
		}

		dist := 0
		if !relaxed {
			if d, ok := s.Ladder.Distance(member.Rank, applicant.Rank); ok {
				dist = d
			}
			// unranked pairs keep distance 0: rank is not enforced for
			// organizationally unclassified staff
		}

		sel.Pool = append(sel.Pool, RelieverCandidate{
			StaffID:  member.ID,
			Name:     member.Name,
			Rank:     member.Rank,
			Distance: dist,
		})
		if minDist < 0 || dist < minDist {
			minDist = dist
		}
	}

	for _, c := range sel.Pool {
		if c.Distance == minDist {
			sel.Nearest = append(sel.Nearest, c)
		}
	}
	return sel
}
