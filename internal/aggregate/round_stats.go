// Package aggregate computes derived statistics over matches and rounds.
// Nothing here is persisted; every consumer recomputes from the stored round
// facts so that score totals and round history can never drift apart.
package aggregate

import (
	"demodash/internal/match"
)

// TeamRoundStats tallies one team's round outcomes. Within a single match it
// is built from that team's perspective; across matches the per-match tallies
// are summed with Add.
type TeamRoundStats struct {
	RoundsPlayed int `json:"roundsPlayed"`
	RoundWins    int `json:"roundWins"`
	PistolRounds int `json:"pistolRounds"`
	PistolWins   int `json:"pistolWins"`
	CTRounds     int `json:"ctRounds"`
	TRounds      int `json:"tRounds"`
	Plants       int `json:"plants"`
	Detonations  int `json:"detonations"`
	Defuses      int `json:"defuses"`
	// TimeOuts counts TargetSaved rounds regardless of the team's side in
	// that round; the metric is match-wide, not side-attributed.
	TimeOuts   int `json:"timeOuts"`
	TotalKills int `json:"totalKills"`
}

// AggregateRounds tallies the rounds of one match from the perspective of a
// team that started on startingSide. The team's side in each round is
// resolved with match.SideForRound; objective counts are conditioned on the
// resolved side (plants and detonations belong to T rounds, defuses to CT
// rounds).
func AggregateRounds(rounds []match.Round, startingSide match.Side) TeamRoundStats {
	var s TeamRoundStats
	for _, r := range rounds {
		side := match.SideForRound(startingSide, r.Number)
		s.RoundsPlayed++
		s.TotalKills += r.TotalKills

		if side == match.SideCT {
			s.CTRounds++
		} else {
			s.TRounds++
		}

		won := r.WinnerSide == side
		if won {
			s.RoundWins++
		}

		if match.IsPistolRound(r.Number) {
			s.PistolRounds++
			if won {
				s.PistolWins++
			}
		}

		if side == match.SideT && r.BombPlanted {
			s.Plants++
		}
		if side == match.SideT && r.EndReason == match.EndTargetBombed {
			s.Detonations++
		}
		if side == match.SideCT && r.EndReason == match.EndBombDefused {
			s.Defuses++
		}
		if r.EndReason == match.EndTargetSaved {
			s.TimeOuts++
		}
	}
	return s
}

// Add accumulates another tally into s.
func (s *TeamRoundStats) Add(o TeamRoundStats) {
	s.RoundsPlayed += o.RoundsPlayed
	s.RoundWins += o.RoundWins
	s.PistolRounds += o.PistolRounds
	s.PistolWins += o.PistolWins
	s.CTRounds += o.CTRounds
	s.TRounds += o.TRounds
	s.Plants += o.Plants
	s.Detonations += o.Detonations
	s.Defuses += o.Defuses
	s.TimeOuts += o.TimeOuts
	s.TotalKills += o.TotalKills
}

// ratio divides with the project-wide zero-denominator policy: an empty
// denominator yields 0, never NaN or a panic.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// percent is ratio scaled to 0-100.
func percent(num, den int) float64 {
	return ratio(num, den) * 100
}

// WinRate is the percentage of played rounds the team won.
func (s TeamRoundStats) WinRate() float64 { return percent(s.RoundWins, s.RoundsPlayed) }

// PistolWinRate is the percentage of pistol rounds the team won.
func (s TeamRoundStats) PistolWinRate() float64 { return percent(s.PistolWins, s.PistolRounds) }

// PlantRate is the percentage of the team's T-side rounds with a plant.
func (s TeamRoundStats) PlantRate() float64 { return percent(s.Plants, s.TRounds) }

// DetonationRate is the percentage of the team's T-side rounds won by detonation.
func (s TeamRoundStats) DetonationRate() float64 { return percent(s.Detonations, s.TRounds) }

// DefuseRate is the percentage of the team's CT-side rounds won by defuse.
func (s TeamRoundStats) DefuseRate() float64 { return percent(s.Defuses, s.CTRounds) }

// AvgKills is the average kill count over the team's played rounds.
func (s TeamRoundStats) AvgKills() float64 { return ratio(s.TotalKills, s.RoundsPlayed) }
