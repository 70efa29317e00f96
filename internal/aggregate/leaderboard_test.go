package aggregate

import (
	"testing"

	"demodash/internal/match"
)

// matchOnMap builds a one-round-per-entry match on the given map.
func matchOnMap(mapName string, rounds []match.Round) match.Match {
	return match.Match{
		MapName: mapName,
		TeamA:   match.Team{Name: "a", StartingSide: match.SideCT},
		TeamB:   match.Team{Name: "b", StartingSide: match.SideT},
		Rounds:  rounds,
	}
}

func detonationRound(number int) match.Round {
	return match.Round{Number: number, WinnerSide: match.SideT, EndReason: match.EndTargetBombed, BombPlanted: true}
}

func TestTopMapsStableTieBreak(t *testing.T) {
	// Three maps with identical detonation ratios; ranking must preserve
	// first-seen order.
	matches := []match.Match{
		matchOnMap("Mirage", []match.Round{detonationRound(1)}),
		matchOnMap("Nuke", []match.Round{detonationRound(1)}),
		matchOnMap("Inferno", []match.Round{detonationRound(1)}),
	}
	lb := TopMaps(matches)
	if len(lb.Detonations) != 3 {
		t.Fatalf("got %d entries, want 3 (no padding to %d)", len(lb.Detonations), TopN)
	}
	want := []string{"Mirage", "Nuke", "Inferno"}
	for i, e := range lb.Detonations {
		if e.Map != want[i] {
			t.Errorf("rank %d = %s, want %s (first-seen order on ties)", i, e.Map, want[i])
		}
	}
}

func TestTopMapsLimit(t *testing.T) {
	maps := []string{"Mirage", "Nuke", "Inferno", "Ancient", "Dust2", "Vertigo", "Anubis"}
	var matches []match.Match
	for i, name := range maps {
		// Descending detonation counts so the order is unambiguous.
		var rounds []match.Round
		for n := 1; n <= len(maps)-i; n++ {
			rounds = append(rounds, detonationRound(n))
		}
		matches = append(matches, matchOnMap(name, rounds))
	}
	lb := TopMaps(matches)
	if len(lb.Detonations) != TopN {
		t.Fatalf("got %d entries, want %d", len(lb.Detonations), TopN)
	}
	if lb.Detonations[0].Map != "Mirage" {
		t.Errorf("rank 0 = %s, want Mirage", lb.Detonations[0].Map)
	}
}

func TestTopRoundsAvgKillsRegulationOnly(t *testing.T) {
	rounds := []match.Round{
		{Number: 5, WinnerSide: match.SideCT, EndReason: match.EndTerroristsEliminated, TotalKills: 6},
		{Number: 24, WinnerSide: match.SideT, EndReason: match.EndCTsEliminated, TotalKills: 8},
		// Overtime round with the highest kill count; must not appear in the
		// avg-kills ranking but still counts for the bomb rankings.
		{Number: 27, WinnerSide: match.SideT, EndReason: match.EndTargetBombed, BombPlanted: true, TotalKills: 10},
	}
	lb := TopRounds([]match.Match{matchOnMap("Mirage", rounds)})

	for _, e := range lb.AvgKills {
		if e.Round > match.RegulationRounds {
			t.Errorf("avg-kills ranking contains overtime round %d", e.Round)
		}
	}
	if len(lb.AvgKills) != 2 {
		t.Fatalf("avg-kills entries = %d, want 2", len(lb.AvgKills))
	}
	if lb.AvgKills[0].Round != 24 {
		t.Errorf("top avg-kills round = %d, want 24", lb.AvgKills[0].Round)
	}
	if len(lb.Detonations) == 0 || lb.Detonations[0].Round != 27 {
		t.Errorf("detonation ranking should include overtime round 27, got %+v", lb.Detonations)
	}
}

func TestOverviewBasics(t *testing.T) {
	rounds := []match.Round{
		{Number: 1, WinnerSide: match.SideCT, EndReason: match.EndBombDefused, BombPlanted: true, TotalKills: 8},
		{Number: 2, WinnerSide: match.SideT, EndReason: match.EndTargetBombed, BombPlanted: true, TotalKills: 6},
		{Number: 13, WinnerSide: match.SideT, EndReason: match.EndCTsEliminated, TotalKills: 9},
	}
	ov := ComputeOverview([]match.Match{matchOnMap("Mirage", rounds)})

	if ov.TotalRounds != 3 || ov.TotalMatches != 1 {
		t.Fatalf("totals = %d rounds / %d matches, want 3 / 1", ov.TotalRounds, ov.TotalMatches)
	}
	if ov.CTWins != 1 || ov.TWins != 2 {
		t.Fatalf("side wins = CT %d / T %d, want 1 / 2", ov.CTWins, ov.TWins)
	}
	if ov.PistolRound1.Count != 1 || ov.PistolRound1.CTWins != 1 {
		t.Errorf("round-1 pistol bucket = %+v", ov.PistolRound1)
	}
	if ov.PistolRound13.Count != 1 || ov.PistolRound13.TWins != 1 {
		t.Errorf("round-13 pistol bucket = %+v", ov.PistolRound13)
	}
	if ov.TotalPlants != 2 || ov.TotalDetonations != 1 || ov.PlantsDefused != 1 {
		t.Errorf("bomb totals = %d/%d/%d, want 2/1/1", ov.TotalPlants, ov.TotalDetonations, ov.PlantsDefused)
	}
	if ov.PlantToDetonationRate != 50 {
		t.Errorf("PlantToDetonationRate = %f, want 50", ov.PlantToDetonationRate)
	}
	if len(ov.RoundTrend) != 3 || ov.RoundTrend[0].Round != 1 || ov.RoundTrend[2].Round != 13 {
		t.Errorf("round trend not sorted by round number: %+v", ov.RoundTrend)
	}
}

func TestOverviewEmpty(t *testing.T) {
	ov := ComputeOverview(nil)
	if ov.CTWinRate != 0 || ov.AvgKillsPerRound != 0 || ov.PlantToDetonationRate != 0 {
		t.Fatalf("empty overview has non-zero rates: %+v", ov)
	}
}
