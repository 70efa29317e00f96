// Package report renders the aggregated statistics as a standalone HTML
// page of interactive charts.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"demodash/internal/aggregate"
	"demodash/internal/match"
)

// Write renders a report over matches into an HTML file at outPath. An empty
// mapFilter covers all maps.
func Write(matches []match.Match, mapFilter, outPath string) error {
	if mapFilter != "" {
		matches = aggregate.FilterByMap(matches, mapFilter)
	}
	ov := aggregate.ComputeOverview(matches)
	maps := aggregate.TopMaps(matches)
	rounds := aggregate.TopRounds(matches)

	title := "Round statistics"
	if mapFilter != "" {
		title = fmt.Sprintf("Round statistics: %s", mapFilter)
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		sideWinChart(ov),
		pistolChart(ov),
		bombChart(ov),
		killTrendChart(ov),
		topMapsChart(maps),
		topRoundsChart(rounds),
	)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func newBar(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	return bar
}

func barData(values ...float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	return data
}

func sideWinChart(ov aggregate.Overview) *charts.Bar {
	bar := newBar("Side win rates", fmt.Sprintf("%d rounds over %d matches", ov.TotalRounds, ov.TotalMatches))
	bar.SetXAxis([]string{"CT", "T"}).
		AddSeries("Win rate %", barData(ov.CTWinRate, ov.TWinRate))
	return bar
}

func pistolChart(ov aggregate.Overview) *charts.Bar {
	bar := newBar("Pistol rounds", "CT vs T wins in rounds 1 and 13")
	bar.SetXAxis([]string{"Round 1", "Round 13"}).
		AddSeries("CT win %", barData(ov.PistolRound1.CTWinRate(), ov.PistolRound13.CTWinRate())).
		AddSeries("T win %", barData(ov.PistolRound1.TWinRate(), ov.PistolRound13.TWinRate()))
	return bar
}

func bombChart(ov aggregate.Overview) *charts.Bar {
	bar := newBar("Bomb objectives", "rates per round and per plant")
	bar.SetXAxis([]string{"Plant", "Detonation", "Defuse", "Plant to detonation", "Defuse success"}).
		AddSeries("Rate %", barData(
			ov.PlantRate, ov.DetonationRate, ov.DefuseRate,
			ov.PlantToDetonationRate, ov.DefuseSuccessRate))
	return bar
}

func killTrendChart(ov aggregate.Overview) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Kills by round number"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	labels := make([]string, len(ov.RoundTrend))
	data := make([]opts.LineData, len(ov.RoundTrend))
	for i, p := range ov.RoundTrend {
		labels[i] = fmt.Sprintf("%d", p.Round)
		data[i] = opts.LineData{Value: p.AvgKills}
	}
	line.SetXAxis(labels).
		AddSeries("Avg kills", data).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

func topMapsChart(lb aggregate.MapLeaderboards) *charts.Bar {
	bar := newBar("Top maps by detonation ratio", "")
	labels := make([]string, len(lb.Detonations))
	values := make([]float64, len(lb.Detonations))
	for i, e := range lb.Detonations {
		labels[i] = e.Map
		values[i] = e.DetonationRatio()
	}
	bar.SetXAxis(labels).AddSeries("Detonations per round", barData(values...))
	return bar
}

func topRoundsChart(lb aggregate.RoundLeaderboards) *charts.Bar {
	bar := newBar("Deadliest regulation rounds", "average kills, rounds 1 to 24")
	labels := make([]string, len(lb.AvgKills))
	values := make([]float64, len(lb.AvgKills))
	for i, e := range lb.AvgKills {
		labels[i] = fmt.Sprintf("Round %d", e.Round)
		values[i] = e.AvgKills
	}
	bar.SetXAxis(labels).AddSeries("Avg kills", barData(values...))
	return bar
}
