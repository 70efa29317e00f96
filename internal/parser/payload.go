package parser

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"demodash/internal/match"
)

// payload mirrors the JSON the demo parser script prints on stdout.
type payload struct {
	MatchID  string        `json:"matchId"`
	MapName  string        `json:"mapName"`
	Duration string        `json:"duration"`
	TeamA    teamPayload   `json:"teamA"`
	TeamB    teamPayload   `json:"teamB"`
	Rounds   []roundPayload `json:"rounds"`
}

type teamPayload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Side  string `json:"side"`
}

type roundPayload struct {
	Number        int    `json:"number"`
	WinnerSide    string `json:"winnerSide"`
	EndReason     string `json:"endReason"`
	Duration      string `json:"duration"`
	BombPlanted   bool   `json:"bombPlanted"`
	TotalKills    int    `json:"totalKills"`
	FirstKillSide string `json:"firstKillSide"`
}

// endReasons maps the script's labels to canonical reasons. Older script
// versions emit localized labels, newer ones the English tokens; both are
// accepted.
var endReasons = map[string]match.EndReason{
	"TargetBombed":          match.EndTargetBombed,
	"Bomba Detonada":        match.EndTargetBombed,
	"BombDefused":           match.EndBombDefused,
	"Bomba Desarmada":       match.EndBombDefused,
	"TerroristsEliminated":  match.EndTerroristsEliminated,
	"Terroristas Eliminados": match.EndTerroristsEliminated,
	"CTsEliminated":         match.EndCTsEliminated,
	"CTs Eliminados":        match.EndCTsEliminated,
	"TargetSaved":           match.EndTargetSaved,
	"Tempo Esgotado":        match.EndTargetSaved,
}

// decodePayload turns raw parser output into a domain match. The date is not
// in the payload and is filled in by the caller.
func decodePayload(raw []byte) (match.Match, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return match.Match{}, fmt.Errorf("decode parser output: %w", err)
	}

	sideA := match.Side(p.TeamA.Side)
	sideB := match.Side(p.TeamB.Side)
	if !sideA.Valid() || !sideB.Valid() {
		return match.Match{}, fmt.Errorf("invalid starting sides %q / %q", p.TeamA.Side, p.TeamB.Side)
	}
	if sideA == sideB {
		return match.Match{}, fmt.Errorf("both teams start on %s", sideA)
	}
	if p.TeamA.Name == "" || p.TeamB.Name == "" {
		return match.Match{}, fmt.Errorf("missing team name")
	}

	m := match.Match{
		ID:       uuid.New(),
		MapName:  p.MapName,
		Duration: p.Duration,
		TeamA: match.Team{
			ID:           uuid.New(),
			Name:         p.TeamA.Name,
			StartingSide: sideA,
			Score:        p.TeamA.Score,
		},
		TeamB: match.Team{
			ID:           uuid.New(),
			Name:         p.TeamB.Name,
			StartingSide: sideB,
			Score:        p.TeamB.Score,
		},
	}

	for _, r := range p.Rounds {
		reason, ok := endReasons[r.EndReason]
		if !ok {
			return match.Match{}, fmt.Errorf("round %d: unknown end reason %q", r.Number, r.EndReason)
		}
		winner := match.Side(r.WinnerSide)
		if !winner.Valid() {
			return match.Match{}, fmt.Errorf("round %d: invalid winner side %q", r.Number, r.WinnerSide)
		}
		m.Rounds = append(m.Rounds, match.Round{
			Number:        r.Number,
			WinnerSide:    winner,
			EndReason:     reason,
			Duration:      r.Duration,
			BombPlanted:   r.BombPlanted,
			TotalKills:    r.TotalKills,
			FirstKillSide: match.Side(r.FirstKillSide),
		})
	}

	return m, nil
}
