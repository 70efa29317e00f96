// Package match defines the domain model for parsed CS2 demos: matches,
// teams, rounds, and the side-for-round arithmetic every consumer shares.
package match

import (
	"time"

	"github.com/google/uuid"
)

// EndReason enumerates how a round can end.
type EndReason string

const (
	EndTargetBombed          EndReason = "TargetBombed"
	EndBombDefused           EndReason = "BombDefused"
	EndTerroristsEliminated  EndReason = "TerroristsEliminated"
	EndCTsEliminated         EndReason = "CTsEliminated"
	EndTargetSaved           EndReason = "TargetSaved"
)

// Round is one round within a match. Numbers are 1-based and contiguous
// within a match; after a multi-part combination they are reassigned from 1.
type Round struct {
	Number        int       `json:"number"`
	WinnerSide    Side      `json:"winnerSide"`
	EndReason     EndReason `json:"endReason"`
	Duration      string    `json:"duration"`
	BombPlanted   bool      `json:"bombPlanted"`
	TotalKills    int       `json:"totalKills"`
	FirstKillSide Side      `json:"firstKillSide"`
}

// Team is one side of a match. StartingSide is the side the team played in
// round 1 and never changes; per-round sides are derived with SideForRound.
// Score is the stored score, which a manual adjustment may override.
type Team struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	StartingSide Side      `json:"startingSide"`
	Score        int       `json:"score"`
	Logo         string    `json:"logo,omitempty"`
}

// Match is one played game: a map, two teams on opposite starting sides, and
// an ordered round sequence.
type Match struct {
	ID         uuid.UUID `json:"id"`
	MapName    string    `json:"mapName"`
	Date       string    `json:"date"`
	Tournament string    `json:"tournament,omitempty"`
	TeamA      Team      `json:"teamA"`
	TeamB      Team      `json:"teamB"`
	Rounds     []Round   `json:"rounds"`
	Duration   string    `json:"duration"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// TeamUpdate is a manual score/side adjustment. Nil fields are left
// untouched; set fields bypass round-derived computation entirely.
type TeamUpdate struct {
	TeamAScore *int  `json:"teamAScore"`
	TeamBScore *int  `json:"teamBScore"`
	TeamASide  *Side `json:"teamASide"`
	TeamBSide  *Side `json:"teamBSide"`
}

// Empty reports whether the update would change nothing.
func (u TeamUpdate) Empty() bool {
	return u.TeamAScore == nil && u.TeamBScore == nil && u.TeamASide == nil && u.TeamBSide == nil
}

// HasTeam reports whether name is one of the match's teams. Comparison is
// exact against the stored identity.
func (m *Match) HasTeam(name string) bool {
	return m.TeamA.Name == name || m.TeamB.Name == name
}

// StartingSideOf returns the starting side of the named team.
func (m *Match) StartingSideOf(name string) (Side, bool) {
	switch name {
	case m.TeamA.Name:
		return m.TeamA.StartingSide, true
	case m.TeamB.Name:
		return m.TeamB.StartingSide, true
	}
	return "", false
}

// SideOf resolves the side the named team occupied in the given round.
func (m *Match) SideOf(name string, roundNumber int) (Side, bool) {
	start, ok := m.StartingSideOf(name)
	if !ok {
		return "", false
	}
	return SideForRound(start, roundNumber), true
}

// DerivedScores recomputes both teams' scores from the round sequence,
// ignoring any stored override.
func (m *Match) DerivedScores() (teamA, teamB int) {
	for _, r := range m.Rounds {
		if r.WinnerSide == SideForRound(m.TeamA.StartingSide, r.Number) {
			teamA++
		} else {
			teamB++
		}
	}
	return teamA, teamB
}

// WinnerName returns the name of the team with the higher stored score, or
// "" when the scores are equal. A tie is a legitimate no-winner state, not
// an error.
func (m *Match) WinnerName() string {
	switch {
	case m.TeamA.Score > m.TeamB.Score:
		return m.TeamA.Name
	case m.TeamB.Score > m.TeamA.Score:
		return m.TeamB.Name
	}
	return ""
}
