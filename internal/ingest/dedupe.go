package ingest

import (
	"errors"
	"strings"

	"demodash/internal/match"
)

// ErrDuplicateMatch marks an import rejected because the same pairing on the
// same map and date is already stored.
var ErrDuplicateMatch = errors.New("duplicate match")

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsDuplicate reports whether candidate matches an existing match on team
// pair, map, and date. Team order is irrelevant and all comparisons fold
// case, so a re-upload with the teams swapped or recased is still caught.
func IsDuplicate(existing []match.Match, candidate match.Match) bool {
	ca := normalizeName(candidate.TeamA.Name)
	cb := normalizeName(candidate.TeamB.Name)
	cMap := normalizeName(candidate.MapName)
	cDate := strings.TrimSpace(candidate.Date)

	for _, m := range existing {
		if normalizeName(m.MapName) != cMap || strings.TrimSpace(m.Date) != cDate {
			continue
		}
		a := normalizeName(m.TeamA.Name)
		b := normalizeName(m.TeamB.Name)
		if (a == ca && b == cb) || (a == cb && b == ca) {
			return true
		}
	}
	return false
}
