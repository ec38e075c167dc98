package report

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/courtside/volleymetrics/internal/stats"
)

// trendSeries describes one category line on the trend chart.
var trendSeries = []struct {
	name string
	pick func(*stats.TrendPoint) *stats.CategoryStats
}{
	{"attack", func(p *stats.TrendPoint) *stats.CategoryStats { return &p.Attack }},
	{"serve", func(p *stats.TrendPoint) *stats.CategoryStats { return &p.Serve }},
	{"block", func(p *stats.TrendPoint) *stats.CategoryStats { return &p.Block }},
	{"reception", func(p *stats.TrendPoint) *stats.CategoryStats { return &p.Reception }},
	{"toss", func(p *stats.TrendPoint) *stats.CategoryStats { return &p.Toss }},
}

// RenderTrendChart writes a PNG line chart of per-match efficiency over
// time, one series per category. Matches without data for a category are
// simply absent from that series.
func RenderTrendChart(w io.Writer, playerName string, points []stats.TrendPoint) error {
	var series []chart.Series
	for _, s := range trendSeries {
		var xs []time.Time
		var ys []float64
		for i := range points {
			eff, ok := s.pick(&points[i]).Efficiency()
			if !ok {
				continue
			}
			date, err := time.Parse("2006-01-02", points[i].Date)
			if err != nil {
				continue
			}
			xs = append(xs, date)
			ys = append(ys, eff)
		}
		if len(xs) == 0 {
			continue
		}
		series = append(series, chart.TimeSeries{
			Name:    s.name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 2,
				DotWidth:    4,
			},
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("no datable points to chart")
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s — efficiency by match", playerName),
		Width:  900,
		Height: 450,
		XAxis: chart.XAxis{
			Name:           "match date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name: "efficiency",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 1,
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
