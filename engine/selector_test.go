package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worknest/leave-engine/engine"
)

func testWindow() engine.Window {
	return engine.Window{Start: engine.NewDate(2025, time.March, 10), End: engine.NewDate(2025, time.March, 14)}
}

func noHistory() *engine.ConflictIndex {
	return engine.NewConflictIndex(nil)
}

func TestSelect_ApplicantExcludedFromPool(t *testing.T) {
	applicant := engine.StaffRef{ID: "s1", Name: "Asha", Rank: "Officer"}
	roster := []engine.StaffRef{
		applicant,
		{ID: "s2", Name: "Ben", Rank: "Officer"},
	}

	sel := engine.NewSelector(engine.DefaultLadder()).Select(applicant, testWindow(), roster, noHistory(), false)
	require.Len(t, sel.Pool, 1)
	assert.False(t, sel.PoolContains("s1"))
}

func TestSelect_ConflictedCandidatesExcluded(t *testing.T) {
	// GIVEN: one candidate with an Approved leave overlapping the window
	// by a single day, and one committed as a reliever
	// THEN: both are excluded from the pool
	applicant := engine.StaffRef{ID: "s1", Rank: "Officer"}
	roster := []engine.StaffRef{
		applicant,
		{ID: "s2", Rank: "Officer"},
		{ID: "s3", Rank: "Officer"},
		{ID: "s4", Rank: "Officer"},
	}
	history := []engine.LeaveRequest{
		leaveOn("s2", "", engine.NewDate(2025, time.March, 14), engine.NewDate(2025, time.March, 20), engine.StatusApproved),
		leaveOn("s9", "s3", engine.NewDate(2025, time.March, 1), engine.NewDate(2025, time.March, 10), engine.StatusPending),
	}

	sel := engine.NewSelector(engine.DefaultLadder()).Select(applicant, testWindow(), roster, engine.NewConflictIndex(history), false)
	assert.False(t, sel.PoolContains("s2"), "overlapping absence excludes")
	assert.False(t, sel.PoolContains("s3"), "overlapping reliever commitment excludes")
	assert.True(t, sel.PoolContains("s4"))
}

func TestSelect_NearestSubset(t *testing.T) {
	// GIVEN: candidates at effective distance 0 and 3 from the applicant
	// THEN: only the distance-0 candidate is in the nearest subset
	applicant := engine.StaffRef{ID: "s1", Rank: "Officer"}
	roster := []engine.StaffRef{
		applicant,
		{ID: "s2", Name: "Ben", Rank: "Officer"},             // distance 0
		{ID: "s3", Name: "Cleo", Rank: "Assistant Director"}, // distance 3
	}

	sel := engine.NewSelector(engine.DefaultLadder()).Select(applicant, testWindow(), roster, noHistory(), false)
	require.Len(t, sel.Pool, 2)
	require.Len(t, sel.Nearest, 1)
	assert.Equal(t, engine.StaffID("s2"), sel.Nearest[0].StaffID)
	assert.True(t, sel.NearestContains("s2"))
	assert.False(t, sel.NearestContains("s3"))
}

func TestSelect_RelaxedNearestEqualsPool(t *testing.T) {
	// Relaxed mode forces every effective distance to 0, so the nearest
	// subset is the whole pool.
	applicant := engine.StaffRef{ID: "s1", Rank: "Officer"}
	roster := []engine.StaffRef{
		applicant,
		{ID: "s2", Rank: "Officer"},
		{ID: "s3", Rank: "Director"},
		{ID: "s4", Rank: "Intern"},
	}

	sel := engine.NewSelector(engine.DefaultLadder()).Select(applicant, testWindow(), roster, noHistory(), true)
	assert.True(t, sel.Relaxed)
	assert.Equal(t, sel.Pool, sel.Nearest)
}

func TestSelect_UnrankedCandidateNotPenalized(t *testing.T) {
	// An organizationally unclassified rank must not block scheduling:
	// the pair's effective distance is 0.
	applicant := engine.StaffRef{ID: "s1", Rank: "Officer"}
	roster := []engine.StaffRef{
		applicant,
		{ID: "s2", Rank: "Consultant"}, // not on the ladder
		{ID: "s3", Rank: "Director"},   // distance 5
	}

	sel := engine.NewSelector(engine.DefaultLadder()).Select(applicant, testWindow(), roster, noHistory(), false)
	require.Len(t, sel.Nearest, 1)
	assert.Equal(t, engine.StaffID("s2"), sel.Nearest[0].StaffID)
}

func TestSelect_EmptyPoolIsValidOutcome(t *testing.T) {
	applicant := engine.StaffRef{ID: "s1", Rank: "Officer"}
	sel := engine.NewSelector(engine.DefaultLadder()).Select(applicant, testWindow(), []engine.StaffRef{applicant}, noHistory(), false)
	assert.True(t, sel.Empty())
	assert.Empty(t, sel.Nearest)
}
