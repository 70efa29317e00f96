package aggregate

import (
	"sort"

	"demodash/internal/match"
)

// TopN is the leaderboard size. Rankings return at most this many entries
// and never pad when fewer groups exist.
const TopN = 5

// MapEntry aggregates bomb-objective outcomes for one map.
type MapEntry struct {
	Map         string `json:"map"`
	Rounds      int    `json:"rounds"`
	Plants      int    `json:"plants"`
	Detonations int    `json:"detonations"`
	Defuses     int    `json:"defuses"`
	// plantsConverted counts detonations in rounds where the plant flag was
	// also recorded, for the plant-to-detonation conversion metric.
	PlantsConverted int `json:"plantsConverted"`
}

// PlantRatio is plants per round on the map.
func (e MapEntry) PlantRatio() float64 { return ratio(e.Plants, e.Rounds) }

// DetonationRatio is detonations per round on the map.
func (e MapEntry) DetonationRatio() float64 { return ratio(e.Detonations, e.Rounds) }

// DefuseRatio is defuses per round on the map.
func (e MapEntry) DefuseRatio() float64 { return ratio(e.Defuses, e.Rounds) }

// ConversionRate is the percentage of plants that detonated.
func (e MapEntry) ConversionRate() float64 { return percent(e.PlantsConverted, e.Plants) }

// RoundEntry aggregates outcomes of one round number across the match set.
type RoundEntry struct {
	Round       int     `json:"round"`
	Count       int     `json:"count"`
	Plants      int     `json:"plants"`
	Detonations int     `json:"detonations"`
	Defuses     int     `json:"defuses"`
	AvgKills    float64 `json:"avgKills"`
}

// MapLeaderboards ranks maps by each bomb metric.
type MapLeaderboards struct {
	Detonations []MapEntry `json:"detonations"`
	Defuses     []MapEntry `json:"defuses"`
	Plants      []MapEntry `json:"plants"`
}

// RoundLeaderboards ranks round numbers by each metric. AvgKills covers
// regulation rounds only.
type RoundLeaderboards struct {
	Detonations []RoundEntry `json:"detonations"`
	Defuses     []RoundEntry `json:"defuses"`
	Plants      []RoundEntry `json:"plants"`
	AvgKills    []RoundEntry `json:"avgKills"`
}

// topBy returns the first TopN items sorted descending by metric. The sort
// is stable over the input's first-seen order, so tied groups rank in the
// order they first appeared.
func topBy[T any](items []T, metric func(T) float64) []T {
	ranked := make([]T, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metric(ranked[i]) > metric(ranked[j])
	})
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}

// TopMaps groups the match set by map and ranks the groups by bomb metrics.
func TopMaps(matches []match.Match) MapLeaderboards {
	byMap := make(map[string]*MapEntry)
	var order []string
	for _, m := range matches {
		e := byMap[m.MapName]
		if e == nil {
			e = &MapEntry{Map: m.MapName}
			byMap[m.MapName] = e
			order = append(order, m.MapName)
		}
		for _, r := range m.Rounds {
			e.Rounds++
			if r.BombPlanted {
				e.Plants++
			}
			if r.EndReason == match.EndTargetBombed {
				e.Detonations++
				if r.BombPlanted {
					e.PlantsConverted++
				}
			}
			if r.EndReason == match.EndBombDefused {
				e.Defuses++
			}
		}
	}

	entries := make([]MapEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, *byMap[name])
	}

	return MapLeaderboards{
		Detonations: topBy(entries, MapEntry.DetonationRatio),
		Defuses:     topBy(entries, MapEntry.DefuseRatio),
		Plants:      topBy(entries, MapEntry.PlantRatio),
	}
}

// TopRounds groups the match set by round number and ranks the groups.
func TopRounds(matches []match.Match) RoundLeaderboards {
	type bucket struct {
		plants, detonations, defuses, kills, count int
	}
	byRound := make(map[int]*bucket)
	var order []int
	for _, m := range matches {
		for _, r := range m.Rounds {
			b := byRound[r.Number]
			if b == nil {
				b = &bucket{}
				byRound[r.Number] = b
				order = append(order, r.Number)
			}
			b.count++
			b.kills += r.TotalKills
			if r.BombPlanted {
				b.plants++
			}
			if r.EndReason == match.EndTargetBombed {
				b.detonations++
			}
			if r.EndReason == match.EndBombDefused {
				b.defuses++
			}
		}
	}

	entries := make([]RoundEntry, 0, len(order))
	for _, num := range order {
		b := byRound[num]
		entries = append(entries, RoundEntry{
			Round:       num,
			Count:       b.count,
			Plants:      b.plants,
			Detonations: b.detonations,
			Defuses:     b.defuses,
			AvgKills:    ratio(b.kills, b.count),
		})
	}

	var regulation []RoundEntry
	for _, e := range entries {
		if e.Round >= 1 && e.Round <= match.RegulationRounds {
			regulation = append(regulation, e)
		}
	}

	return RoundLeaderboards{
		Detonations: topBy(entries, func(e RoundEntry) float64 { return float64(e.Detonations) }),
		Defuses:     topBy(entries, func(e RoundEntry) float64 { return float64(e.Defuses) }),
		Plants:      topBy(entries, func(e RoundEntry) float64 { return float64(e.Plants) }),
		AvgKills:    topBy(regulation, func(e RoundEntry) float64 { return e.AvgKills }),
	}
}
