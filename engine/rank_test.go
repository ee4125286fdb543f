package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worknest/leave-engine/engine"
)

func TestNewRankLadder_Validation(t *testing.T) {
	_, err := engine.NewRankLadder(nil, nil)
	assert.Error(t, err, "empty ladder rejected")

	_, err = engine.NewRankLadder([]string{"Officer", "Officer"}, nil)
	assert.Error(t, err, "duplicate canonical rank rejected")

	_, err = engine.NewRankLadder([]string{"Officer"}, map[string]string{"Off.": "Clerk"})
	assert.Error(t, err, "alias targeting unknown rank rejected")
}

func TestNormalize(t *testing.T) {
	ladder := engine.DefaultLadder()

	norm, ok := ladder.Normalize("  Snr Officer ")
	require.True(t, ok)
	assert.Equal(t, "Senior Officer", norm, "alias resolves after trimming")

	norm, ok = ladder.Normalize("Officer")
	require.True(t, ok)
	assert.Equal(t, "Officer", norm, "canonical passes through")

	norm, ok = ladder.Normalize("Wizard")
	require.True(t, ok)
	assert.Equal(t, "Wizard", norm, "unknown rank falls through to the raw string")

	_, ok = ladder.Normalize("   ")
	assert.False(t, ok, "blank input has no rank")
}

func TestDistance(t *testing.T) {
	ladder := engine.DefaultLadder()

	// Distance to self is 0 for any known rank.
	for _, r := range ladder.Ranks() {
		d, ok := ladder.Distance(r, r)
		require.True(t, ok, r)
		assert.Equal(t, 0, d, r)
	}

	d, ok := ladder.Distance("Officer", "Senior Officer")
	require.True(t, ok)
	assert.Equal(t, 1, d)

	// Symmetric, and alias spellings measure the same.
	d2, ok := ladder.Distance("Sr. Officer", "Officer")
	require.True(t, ok)
	assert.Equal(t, d, d2)

	d, ok = ladder.Distance("Officer", "Director")
	require.True(t, ok)
	assert.Equal(t, 5, d)
}

func TestDistance_UnknownRankIsNotAnError(t *testing.T) {
	ladder := engine.DefaultLadder()

	_, ok := ladder.Distance("Officer", "Wizard")
	assert.False(t, ok, "unknown rank reports unranked, callers relax the policy")

	_, ok = ladder.Distance("", "Officer")
	assert.False(t, ok, "blank rank is unranked")
}
