package aggregate

import (
	"sort"

	"demodash/internal/match"
)

// PistolBucket tallies outcomes of one pistol round number (1 or 13) across
// a match set.
type PistolBucket struct {
	Count       int `json:"count"`
	CTWins      int `json:"ctWins"`
	TWins       int `json:"tWins"`
	Plants      int `json:"plants"`
	Detonations int `json:"detonations"`
	Defuses     int `json:"defuses"`
}

// CTWinRate is the CT win percentage within the bucket.
func (b PistolBucket) CTWinRate() float64 { return percent(b.CTWins, b.Count) }

// TWinRate is the T win percentage within the bucket.
func (b PistolBucket) TWinRate() float64 { return percent(b.TWins, b.Count) }

// RoundTrendPoint aggregates every round with the same number across the
// match set.
type RoundTrendPoint struct {
	Round       int     `json:"round"`
	Count       int     `json:"count"`
	AvgKills    float64 `json:"avgKills"`
	Detonations int     `json:"detonations"`
	Defuses     int     `json:"defuses"`
	TimeOuts    int     `json:"timeOuts"`
	Plants      int     `json:"plants"`
}

// RoundHighlight names the round number where a metric peaked. Round 0 means
// no data.
type RoundHighlight struct {
	Round int     `json:"round"`
	Value float64 `json:"value"`
}

// Overview is the map-filterable dashboard summary: side win rates, bomb
// conversion metrics, pistol buckets, and the per-round-number trend.
type Overview struct {
	TotalMatches int `json:"totalMatches"`
	TotalRounds  int `json:"totalRounds"`
	TotalKills   int `json:"totalKills"`

	CTWins int `json:"ctWins"`
	TWins  int `json:"tWins"`

	CTWinRate        float64 `json:"ctWinRate"`
	TWinRate         float64 `json:"tWinRate"`
	AvgKillsPerRound float64 `json:"avgKillsPerRound"`

	TotalPlants      int `json:"totalPlants"`
	TotalDetonations int `json:"totalDetonations"`
	PlantsDefused    int `json:"plantsDefused"`

	PlantRate             float64 `json:"plantRate"`
	DetonationRate        float64 `json:"detonationRate"`
	DefuseRate            float64 `json:"defuseRate"`
	PlantToDetonationRate float64 `json:"plantToDetonationRate"`
	DefuseSuccessRate     float64 `json:"defuseSuccessRate"`

	PistolRound1  PistolBucket `json:"pistolRound1"`
	PistolRound13 PistolBucket `json:"pistolRound13"`

	RoundTrend []RoundTrendPoint `json:"roundTrend"`

	MostDetonations RoundHighlight `json:"mostDetonations"`
	MostDefuses     RoundHighlight `json:"mostDefuses"`
	MostTimeOuts    RoundHighlight `json:"mostTimeOuts"`
	// MostKills considers regulation rounds only (1-24); overtime samples
	// are too small to rank fairly.
	MostKills RoundHighlight `json:"mostKills"`
}

// ComputeOverview builds the dashboard summary over the given matches.
func ComputeOverview(matches []match.Match) Overview {
	ov := Overview{TotalMatches: len(matches)}

	type roundBucket struct {
		kills, detonations, defuses, timeOuts, plants, count int
	}
	byRound := make(map[int]*roundBucket)

	for _, m := range matches {
		for _, r := range m.Rounds {
			ov.TotalRounds++
			ov.TotalKills += r.TotalKills
			if r.WinnerSide == match.SideT {
				ov.TWins++
			} else {
				ov.CTWins++
			}

			if r.BombPlanted {
				ov.TotalPlants++
			}
			if r.EndReason == match.EndTargetBombed {
				ov.TotalDetonations++
			}
			if r.EndReason == match.EndBombDefused {
				ov.PlantsDefused++
			}

			if match.IsPistolRound(r.Number) {
				bucket := &ov.PistolRound1
				if r.Number != 1 {
					bucket = &ov.PistolRound13
				}
				bucket.Count++
				if r.WinnerSide == match.SideCT {
					bucket.CTWins++
				} else {
					bucket.TWins++
				}
				if r.BombPlanted {
					bucket.Plants++
				}
				if r.EndReason == match.EndTargetBombed {
					bucket.Detonations++
				}
				if r.EndReason == match.EndBombDefused {
					bucket.Defuses++
				}
			}

			b := byRound[r.Number]
			if b == nil {
				b = &roundBucket{}
				byRound[r.Number] = b
			}
			b.count++
			b.kills += r.TotalKills
			if r.BombPlanted {
				b.plants++
			}
			switch r.EndReason {
			case match.EndTargetBombed:
				b.detonations++
			case match.EndBombDefused:
				b.defuses++
			case match.EndTargetSaved:
				b.timeOuts++
			}
		}
	}

	ov.CTWinRate = percent(ov.CTWins, ov.TotalRounds)
	ov.TWinRate = percent(ov.TWins, ov.TotalRounds)
	ov.AvgKillsPerRound = ratio(ov.TotalKills, ov.TotalRounds)
	ov.PlantRate = percent(ov.TotalPlants, ov.TotalRounds)
	ov.DetonationRate = percent(ov.TotalDetonations, ov.TotalRounds)
	ov.DefuseRate = percent(ov.PlantsDefused, ov.TotalRounds)
	ov.PlantToDetonationRate = percent(ov.TotalDetonations, ov.TotalPlants)
	ov.DefuseSuccessRate = percent(ov.PlantsDefused, ov.TotalPlants)

	for num, b := range byRound {
		ov.RoundTrend = append(ov.RoundTrend, RoundTrendPoint{
			Round:       num,
			Count:       b.count,
			AvgKills:    ratio(b.kills, b.count),
			Detonations: b.detonations,
			Defuses:     b.defuses,
			TimeOuts:    b.timeOuts,
			Plants:      b.plants,
		})
	}
	sort.Slice(ov.RoundTrend, func(i, j int) bool {
		return ov.RoundTrend[i].Round < ov.RoundTrend[j].Round
	})

	for _, p := range ov.RoundTrend {
		if float64(p.Detonations) > ov.MostDetonations.Value {
			ov.MostDetonations = RoundHighlight{Round: p.Round, Value: float64(p.Detonations)}
		}
		if float64(p.Defuses) > ov.MostDefuses.Value {
			ov.MostDefuses = RoundHighlight{Round: p.Round, Value: float64(p.Defuses)}
		}
		if float64(p.TimeOuts) > ov.MostTimeOuts.Value {
			ov.MostTimeOuts = RoundHighlight{Round: p.Round, Value: float64(p.TimeOuts)}
		}
		if p.Round <= match.RegulationRounds && p.AvgKills > ov.MostKills.Value {
			ov.MostKills = RoundHighlight{Round: p.Round, Value: p.AvgKills}
		}
	}

	return ov
}
