package aggregate

import "demodash/internal/match"

// TeamStats aggregates a team's performance over a set of matches.
type TeamStats struct {
	TeamName      string `json:"teamName"`
	MatchesPlayed int    `json:"matchesPlayed"`
	MatchWins     int    `json:"matchWins"`
	MatchLosses   int    `json:"matchLosses"`
	TeamRoundStats
}

// ComputeTeamStats sums round tallies for the named team across every match
// it appears in. Name comparison is exact against the stored identity; a
// match where the name resolves to neither team, or where the stored starting
// side is corrupt, is skipped rather than aborting the whole aggregate.
//
// A match counts as won only when the team's round wins strictly exceed the
// opponent's; a tied match lands in the loss bucket.
func ComputeTeamStats(matches []match.Match, teamName string) TeamStats {
	stats := TeamStats{TeamName: teamName}
	if teamName == "" {
		return stats
	}
	for _, m := range matches {
		start, ok := m.StartingSideOf(teamName)
		if !ok || !start.Valid() {
			continue
		}
		rs := AggregateRounds(m.Rounds, start)
		stats.MatchesPlayed++
		stats.TeamRoundStats.Add(rs)

		opponentWins := len(m.Rounds) - rs.RoundWins
		if rs.RoundWins > opponentWins {
			stats.MatchWins++
		} else {
			stats.MatchLosses++
		}
	}
	return stats
}

// MetricPair is one comparison row: the same metric evaluated for both teams.
type MetricPair struct {
	Metric string  `json:"metric"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
}

// Comparison holds two teams' aggregates plus head-to-head metric rows.
type Comparison struct {
	TeamA   TeamStats    `json:"teamA"`
	TeamB   TeamStats    `json:"teamB"`
	Metrics []MetricPair `json:"metrics"`
}

// ComputeComparison builds side-by-side metrics for two teams over the same
// match set.
func ComputeComparison(matches []match.Match, teamA, teamB string) Comparison {
	a := ComputeTeamStats(matches, teamA)
	b := ComputeTeamStats(matches, teamB)
	return Comparison{
		TeamA: a,
		TeamB: b,
		Metrics: []MetricPair{
			{Metric: "Round win rate", A: a.WinRate(), B: b.WinRate()},
			{Metric: "Pistol win rate", A: a.PistolWinRate(), B: b.PistolWinRate()},
			{Metric: "Plant rate (T)", A: a.PlantRate(), B: b.PlantRate()},
			{Metric: "Detonation rate (T)", A: a.DetonationRate(), B: b.DetonationRate()},
			{Metric: "Defuse rate (CT)", A: a.DefuseRate(), B: b.DefuseRate()},
			{Metric: "Avg kills per round", A: a.AvgKills(), B: b.AvgKills()},
		},
	}
}
