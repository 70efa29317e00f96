package aggregate

import "demodash/internal/match"

// HalfScore splits one team's round wins into first half, second half, and
// overtime buckets.
type HalfScore struct {
	FirstHalf  int `json:"firstHalf"`
	SecondHalf int `json:"secondHalf"`
	Overtime   int `json:"overtime"`
}

// Total is the team's full round-win count.
func (h HalfScore) Total() int {
	return h.FirstHalf + h.SecondHalf + h.Overtime
}

// SplitHalves tallies round wins per match segment from the perspective of a
// team that started on startingSide, resolving its side per round with
// match.SideForRound.
func SplitHalves(rounds []match.Round, startingSide match.Side) HalfScore {
	var h HalfScore
	for _, r := range rounds {
		if r.WinnerSide != match.SideForRound(startingSide, r.Number) {
			continue
		}
		switch {
		case r.Number <= match.HalfLength:
			h.FirstHalf++
		case r.Number <= match.RegulationRounds:
			h.SecondHalf++
		default:
			h.Overtime++
		}
	}
	return h
}
