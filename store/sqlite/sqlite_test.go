package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worknest/leave-engine/engine"
	"github.com/worknest/leave-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.AddStaff(ctx, engine.StaffRef{ID: "s1", Name: "Asha", Rank: "Officer"}))
	require.NoError(t, s.AddStaff(ctx, engine.StaffRef{ID: "s2", Name: "Ben", Rank: "Officer"}))
	require.NoError(t, s.AddStaff(ctx, engine.StaffRef{ID: "s3", Name: "Cleo", Rank: "Senior Officer"}))
	return s
}

func request(staff, reliever engine.StaffID, start engine.Date, days int) *engine.LeaveRequest {
	return &engine.LeaveRequest{
		StaffID:     staff,
		Type:        engine.LeaveAnnual,
		Start:       start,
		End:         start.AddDays(days - 1),
		WorkingDays: days,
		RelieverID:  reliever,
		Status:      engine.StatusPending,
	}
}

func TestStaffDirectory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ref, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", ref.Name)

	_, err = s.Get(ctx, "ghost")
	assert.ErrorIs(t, err, engine.ErrStaffNotFound)

	roster, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roster, 3)
}

func TestHolidayRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := engine.NewDate(2025, time.December, 25)
	require.NoError(t, s.AddHoliday(ctx, d, "Christmas Day"))

	holidays, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, d, holidays[0])
}

func TestPersist_RejectsOverlappingReliever(t *testing.T) {
	// GIVEN: a persisted request with s3 as reliever
	// WHEN: a second request books s3 over an overlapping window
	// THEN: the write-time check rejects it
	s := newTestStore(t)
	ctx := context.Background()
	mar10 := engine.NewDate(2025, time.March, 10)

	_, err := s.Persist(ctx, request("s1", "s3", mar10, 5))
	require.NoError(t, err)

	_, err = s.Persist(ctx, request("s2", "s3", mar10.AddDays(3), 5))
	assert.ErrorIs(t, err, engine.ErrRelieverConflict)

	// Non-overlapping window is fine.
	_, err = s.Persist(ctx, request("s2", "s3", mar10.AddDays(30), 5))
	assert.NoError(t, err)
}

func TestPersist_RejectsOverlappingAbsence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mar10 := engine.NewDate(2025, time.March, 10)

	_, err := s.Persist(ctx, request("s1", "s2", mar10, 5))
	require.NoError(t, err)

	_, err = s.Persist(ctx, request("s1", "s3", mar10.AddDays(4), 5))
	assert.ErrorIs(t, err, engine.ErrOverlappingLeave)
}

func TestSetStatus_RejectedLeavesConflictChecks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mar10 := engine.NewDate(2025, time.March, 10)

	req := request("s1", "s3", mar10, 5)
	id, err := s.Persist(ctx, req)
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, id, engine.StatusRejected))

	active, err := s.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active, "rejected requests drop out of the active set")

	// The reliever is bookable again.
	_, err = s.Persist(ctx, request("s2", "s3", mar10, 5))
	assert.NoError(t, err)
}

func TestListForYear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r24 := request("s1", "s2", engine.NewDate(2024, time.June, 3), 3)
	r24.Type = engine.LeaveCasual
	_, err := s.Persist(ctx, r24)
	require.NoError(t, err)

	r25 := request("s1", "s2", engine.NewDate(2025, time.June, 2), 3)
	r25.Type = engine.LeaveCasual
	_, err = s.Persist(ctx, r25)
	require.NoError(t, err)

	got, err := s.ListForYear(ctx, "s1", engine.LeaveCasual, 2025)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2025, got[0].Start.Year())
	assert.Equal(t, 3, got[0].WorkingDays)
}
