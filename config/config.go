/*
Package config provides JSON to Go rule conversion.

PURPOSE:
  Converts a JSON rules file into an engine.RankLadder and
  engine.PolicyTable. This enables rule configuration without code
  changes - HR can adjust the rank hierarchy and leave policies in
  JSON, and the server loads them at startup.

JSON SCHEMA:
  {
    "rank_ladder": {
      "ranks": ["Intern", "Officer", "Director"],
      "aliases": {"Dir": "Director"}
    },
    "policies": [
      {
        "type": "Annual",
        "duration_mode": "bounded",
        "duration_value": 30,
        "caps_at_year_end": true
      },
      {
        "type": "Casual",
        "duration_mode": "bounded",
        "duration_value": 14,
        "caps_at_year_end": true,
        "accrual_window": "calendar_year",
        "accrual_max": 14
      }
    ]
  }

KEY FEATURES:
  - Validates ladder and policy structure
  - Omitted sections fall back to the built-in defaults
  - Policy entries override the default table per leave type

USAGE:
  ladder, policies, err := config.Load("rules.json")

SEE ALSO:
  - engine/rank.go: RankLadder type definition
  - engine/policy.go: PolicyTable and defaults
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/worknest/leave-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// File is the JSON representation of the rules file.
type File struct {
	Ladder   *LadderJSON  `json:"rank_ladder,omitempty"`
	Policies []PolicyJSON `json:"policies,omitempty"`
}

// LadderJSON represents the rank hierarchy, lowest rank first.
type LadderJSON struct {
	Ranks   []string          `json:"ranks"`
	Aliases map[string]string `json:"aliases,omitempty"`
}

// PolicyJSON represents one leave type's ruleset.
type PolicyJSON struct {
	Type          string `json:"type"`
	DurationMode  string `json:"duration_mode"` // unbounded, bounded, fixed
	DurationValue int    `json:"duration_value,omitempty"`
	CapsAtYearEnd bool   `json:"caps_at_year_end,omitempty"`
	AccrualWindow string `json:"accrual_window,omitempty"` // calendar_year
	AccrualMax    int    `json:"accrual_max,omitempty"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads and parses a rules file.
func Load(path string) (*engine.RankLadder, engine.PolicyTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading rules file: %w", err)
	}
	return Parse(raw)
}

// Parse converts raw JSON into a ladder and policy table. Sections the
// file omits keep the built-in defaults.
func Parse(raw []byte) (*engine.RankLadder, engine.PolicyTable, error) {
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse rules JSON: %w", err)
	}

	ladder := engine.DefaultLadder()
	if f.Ladder != nil {
		var err error
		ladder, err = engine.NewRankLadder(f.Ladder.Ranks, f.Ladder.Aliases)
		if err != nil {
			return nil, nil, err
		}
	}

	policies := engine.DefaultPolicies()
	for _, pj := range f.Policies {
		policy, err := parsePolicy(pj)
		if err != nil {
			return nil, nil, err
		}
		policies[policy.Type] = policy
	}

	return ladder, policies, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parsePolicy(pj PolicyJSON) (engine.LeaveTypePolicy, error) {
	lt, ok := engine.ParseLeaveType(pj.Type)
	if !ok {
		return engine.LeaveTypePolicy{}, fmt.Errorf("unknown leave type: %q", pj.Type)
	}

	mode, err := parseDurationMode(pj.DurationMode)
	if err != nil {
		return engine.LeaveTypePolicy{}, fmt.Errorf("policy %s: %w", lt, err)
	}
	if mode != engine.DurationUnbounded && pj.DurationValue < 1 {
		return engine.LeaveTypePolicy{}, fmt.Errorf("policy %s: duration_value must be positive", lt)
	}

	window, err := parseAccrualWindow(pj.AccrualWindow)
	if err != nil {
		return engine.LeaveTypePolicy{}, fmt.Errorf("policy %s: %w", lt, err)
	}
	if window != engine.AccrualNone && pj.AccrualMax < 1 {
		return engine.LeaveTypePolicy{}, fmt.Errorf("policy %s: accrual_max must be positive", lt)
	}

	return engine.LeaveTypePolicy{
		Type:          lt,
		Mode:          mode,
		DurationValue: pj.DurationValue,
		CapsAtYearEnd: pj.CapsAtYearEnd,
		AccrualWindow: window,
		AccrualMax:    pj.AccrualMax,
	}, nil
}

func parseDurationMode(s string) (engine.DurationMode, error) {
	switch s {
	case "unbounded", "":
		return engine.DurationUnbounded, nil
	case "bounded":
		return engine.DurationBounded, nil
	case "fixed":
		return engine.DurationFixed, nil
	default:
		return 0, fmt.Errorf("unknown duration_mode: %q", s)
	}
}

func parseAccrualWindow(s string) (engine.AccrualWindow, error) {
	switch s {
	case "":
		return engine.AccrualNone, nil
	case "calendar_year":
		return engine.AccrualCalendarYear, nil
	default:
		return "", fmt.Errorf("unknown accrual_window: %q", s)
	}
}
