/*
rank.go - Canonical seniority ladder and rank distance

PURPOSE:
  Staff records carry rank as free text imported from the directory, with
  inconsistent spellings ("Snr Officer", "Sr. Officer"). The ladder holds
  the canonical ordering plus an alias table, and produces the distance
  metric the reliever selector ranks candidates by.

UNKNOWN RANKS:
  A rank absent from the ladder is not an error. Distance returns ok=false
  and callers fall back to the permissive policy (rank not enforced) rather
  than failing the request.

LIFECYCLE:
  Configured once at process start, read-only thereafter.
*/
package engine

import (
	"fmt"
	"strings"
)

// =============================================================================
// RANK LADDER
// =============================================================================

// RankLadder is an ordered sequence of canonical rank names, lowest
// seniority first, plus an alias mapping from non-canonical spellings.
type RankLadder struct {
	names   []string
	index   map[string]int
	aliases map[string]string
}

// NewRankLadder validates and builds a ladder. Every canonical name must
// appear exactly once and every alias must resolve to a canonical name.
func NewRankLadder(canonical []string, aliases map[string]string) (*RankLadder, error) {
	if len(canonical) == 0 {
		return nil, fmt.Errorf("rank ladder: no canonical ranks")
	}
	index := make(map[string]int, len(canonical))
	for i, name := range canonical {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("rank ladder: empty canonical rank at position %d", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("rank ladder: duplicate canonical rank %q", name)
		}
		index[name] = i
	}
	resolved := make(map[string]string, len(aliases))
	for alias, target := range aliases {
		if _, ok := index[target]; !ok {
			return nil, fmt.Errorf("rank ladder: alias %q targets unknown rank %q", alias, target)
		}
		resolved[strings.TrimSpace(alias)] = target
	}
	return &RankLadder{names: canonical, index: index, aliases: resolved}, nil
}

// Normalize trims whitespace and resolves aliases, falling through to the
// raw string when no alias matches. ok is false only for empty input.
func (l *RankLadder) Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if target, ok := l.aliases[raw]; ok {
		return target, true
	}
	return raw, true
}

// Contains reports whether the normalized rank is on the ladder.
func (l *RankLadder) Contains(rank string) bool {
	norm, ok := l.Normalize(rank)
	if !ok {
		return false
	}
	_, ok = l.index[norm]
	return ok
}

// Distance returns the absolute difference between two ranks' ladder
// positions. ok is false when either rank is unknown; callers must treat
// that as "unranked" and relax rank enforcement, not as a failure.
func (l *RankLadder) Distance(a, b string) (int, bool) {
	na, okA := l.Normalize(a)
	nb, okB := l.Normalize(b)
	if !okA || !okB {
		return 0, false
	}
	ia, okA := l.index[na]
	ib, okB := l.index[nb]
	if !okA || !okB {
		return 0, false
	}
	if ia > ib {
		return ia - ib, true
	}
	return ib - ia, true
}

// Ranks returns the canonical ordering, lowest seniority first.
func (l *RankLadder) Ranks() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// =============================================================================
// DEFAULT LADDER
// =============================================================================

// DefaultLadder returns the standard office seniority ladder with the alias
// spellings observed in imported staff records.
func DefaultLadder() *RankLadder {
	ladder, err := NewRankLadder(
		[]string{
			"Intern",
			"Assistant Officer",
			"Officer",
			"Senior Officer",
			"Principal Officer",
			"Assistant Director",
			"Deputy Director",
			"Director",
		},
		map[string]string{
			"Asst Officer":   "Assistant Officer",
			"Ass. Officer":   "Assistant Officer",
			"Snr Officer":    "Senior Officer",
			"Sr. Officer":    "Senior Officer",
			"Snr. Officer":   "Senior Officer",
			"Asst Director":  "Assistant Director",
			"Asst. Director": "Assistant Director",
			"Dep Director":   "Deputy Director",
			"Dep. Director":  "Deputy Director",
		},
	)
	if err != nil {
		panic(err) // static configuration
	}
	return ladder
}
