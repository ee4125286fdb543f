package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worknest/leave-engine/config"
	"github.com/worknest/leave-engine/engine"
)

func TestParse_EmptyFileKeepsDefaults(t *testing.T) {
	ladder, policies, err := config.Parse([]byte(`{}`))
	require.NoError(t, err)

	d, ok := ladder.Distance("Officer", "Director")
	require.True(t, ok)
	assert.Equal(t, 5, d)

	casual, ok := policies.Lookup(engine.LeaveCasual)
	require.True(t, ok)
	assert.Equal(t, 14, casual.AccrualMax)
}

func TestParse_CustomLadder(t *testing.T) {
	raw := []byte(`{
		"rank_ladder": {
			"ranks": ["Junior", "Senior", "Lead"],
			"aliases": {"Snr": "Senior"}
		}
	}`)

	ladder, _, err := config.Parse(raw)
	require.NoError(t, err)

	name, ok := ladder.Normalize("Snr")
	require.True(t, ok)
	assert.Equal(t, "Senior", name)

	d, ok := ladder.Distance("Junior", "Lead")
	require.True(t, ok)
	assert.Equal(t, 2, d)

	assert.False(t, ladder.Contains("Officer"))
}

func TestParse_PolicyOverride(t *testing.T) {
	raw := []byte(`{
		"policies": [
			{
				"type": "Annual",
				"duration_mode": "bounded",
				"duration_value": 21,
				"caps_at_year_end": true
			}
		]
	}`)

	_, policies, err := config.Parse(raw)
	require.NoError(t, err)

	annual, ok := policies.Lookup(engine.LeaveAnnual)
	require.True(t, ok)
	assert.Equal(t, 21, annual.DurationValue)

	// Untouched types keep their defaults.
	maternity, ok := policies.Lookup(engine.LeaveMaternity)
	require.True(t, ok)
	assert.Equal(t, engine.DurationFixed, maternity.Mode)
	assert.Equal(t, 112, maternity.DurationValue)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bad json", `{`},
		{"unknown leave type", `{"policies": [{"type": "Sabbatical", "duration_mode": "bounded", "duration_value": 5}]}`},
		{"bad duration mode", `{"policies": [{"type": "Annual", "duration_mode": "capped", "duration_value": 5}]}`},
		{"missing duration value", `{"policies": [{"type": "Annual", "duration_mode": "bounded"}]}`},
		{"bad accrual window", `{"policies": [{"type": "Casual", "duration_mode": "bounded", "duration_value": 14, "accrual_window": "quarterly", "accrual_max": 5}]}`},
		{"empty ladder", `{"rank_ladder": {"ranks": []}}`},
		{"alias to unknown rank", `{"rank_ladder": {"ranks": ["Junior"], "aliases": {"J": "Mid"}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := config.Parse([]byte(tc.raw))
			assert.Error(t, err)
		})
	}
}
