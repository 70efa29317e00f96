// Package combine merges a multi-part demo recording into one match. Parts
// are independent parse results whose round numbers restart at 1; combining
// renumbers the full sequence and recomputes scores from it.
package combine

import (
	"errors"

	"demodash/internal/aggregate"
	"demodash/internal/match"
)

var ErrNoParts = errors.New("combine: no parts")

// Result is a combined match together with the derived half breakdowns and
// the winner. WinnerName is empty on a tie.
type Result struct {
	Match       match.Match
	TeamAHalves aggregate.HalfScore
	TeamBHalves aggregate.HalfScore
	WinnerName  string
}

// Combine merges parts, already sorted by part number, into one match. The
// first part supplies the map, date, and team identities; rounds are
// concatenated in part order and renumbered from 1, and both team scores are
// recomputed from the renumbered sequence. A single part passes through with
// its stored scores intact.
func Combine(parts []match.Match) (Result, error) {
	if len(parts) == 0 {
		return Result{}, ErrNoParts
	}

	combined := parts[0]
	if len(parts) > 1 {
		rounds := make([]match.Round, 0, len(parts[0].Rounds))
		for _, p := range parts {
			rounds = append(rounds, p.Rounds...)
		}
		for i := range rounds {
			rounds[i].Number = i + 1
		}
		combined.Rounds = rounds
		combined.TeamA.Score, combined.TeamB.Score = combined.DerivedScores()
	}

	return Result{
		Match:       combined,
		TeamAHalves: aggregate.SplitHalves(combined.Rounds, combined.TeamA.StartingSide),
		TeamBHalves: aggregate.SplitHalves(combined.Rounds, combined.TeamB.StartingSide),
		WinnerName:  combined.WinnerName(),
	}, nil
}
