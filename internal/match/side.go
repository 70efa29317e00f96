package match

// Side is the in-game faction a team occupies during a round. Team identity
// is fixed for the whole match; the side a team plays changes with the half.
type Side string

const (
	SideCT Side = "CT"
	SideT  Side = "T"
)

// HalfLength is the number of rounds in one regulation half (MR12).
const HalfLength = 12

// RegulationRounds is the number of rounds in regulation time.
const RegulationRounds = 2 * HalfLength

// otBlock is the length of one overtime block, split 3+3 between sides.
const otBlock = 6

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideCT || s == SideT
}

// Opposite returns the complementary side.
func (s Side) Opposite() Side {
	if s == SideCT {
		return SideT
	}
	return SideCT
}

// SideForRound returns the side a team plays in the given 1-based round,
// given the side it started the match on.
//
// Regulation is MR12: rounds 1-12 on the starting side, rounds 13-24 on the
// opposite side. Overtime is played in 6-round blocks split 3+3: the first
// three rounds of a block continue the second-half side, the next three swap
// back, repeating every six rounds.
//
// Every consumer of per-round sides (score totals, round history, stat
// buckets) must go through this function; the two teams of a match always
// occupy complementary sides, so the opponent's side is Opposite() of the
// result.
func SideForRound(start Side, roundNumber int) Side {
	if roundNumber <= HalfLength {
		return start
	}
	if roundNumber <= RegulationRounds {
		return start.Opposite()
	}
	otIndex := roundNumber - RegulationRounds - 1
	if otIndex%otBlock < otBlock/2 {
		return start.Opposite()
	}
	return start
}

// IsPistolRound reports whether roundNumber is a pistol round (the first
// round of either regulation half).
func IsPistolRound(roundNumber int) bool {
	return roundNumber == 1 || roundNumber == HalfLength+1
}

// IsOvertimeRound reports whether roundNumber is past regulation time.
func IsOvertimeRound(roundNumber int) bool {
	return roundNumber > RegulationRounds
}
