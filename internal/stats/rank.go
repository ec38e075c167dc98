package stats

import "sort"

// Metric names a rankable quantity.
type Metric string

const (
	MetricAttack    Metric = "attack"
	MetricServe     Metric = "serve"
	MetricBlock     Metric = "block"
	MetricReception Metric = "reception"
	MetricToss      Metric = "toss"
	MetricErrors    Metric = "errors"
)

// Metrics lists every rankable metric.
var Metrics = []Metric{MetricAttack, MetricServe, MetricBlock, MetricReception, MetricToss, MetricErrors}

// ValidMetric reports whether m names a known metric.
func ValidMetric(m Metric) bool {
	for _, known := range Metrics {
		if known == m {
			return true
		}
	}
	return false
}

// RankEntry is one player's position for a metric. HasValue is false when
// the player has no data for the metric; such entries sort below every
// numeric value.
type RankEntry struct {
	PlayerID string
	Name     string
	Attempts int
	Value    float64
	HasValue bool
}

// Rank orders players by a metric: efficiency metrics descending, error
// totals ascending (lower is better). Players without data come last, in
// name order. Callers should apply a minimum-attempts floor before
// trusting rate-based positions; that floor is display policy, not part
// of the aggregation.
func Rank(players []PlayerStats, metric Metric) []RankEntry {
	entries := make([]RankEntry, 0, len(players))
	for _, p := range players {
		e := RankEntry{PlayerID: p.PlayerID, Name: p.Name}
		switch metric {
		case MetricErrors:
			e.Attempts = p.TotalEvents
			if p.TotalEvents > 0 {
				e.Value = float64(p.TotalErrors)
				e.HasValue = true
			}
		default:
			c := categoryFor(&p, metric)
			e.Attempts = c.Attempts
			e.Value, e.HasValue = c.Efficiency()
		}
		entries = append(entries, e)
	}

	ascending := metric == MetricErrors
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.HasValue != b.HasValue {
			return a.HasValue
		}
		if !a.HasValue {
			return a.Name < b.Name
		}
		if a.Value != b.Value {
			if ascending {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		}
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		return a.Name < b.Name
	})
	return entries
}

func categoryFor(p *PlayerStats, metric Metric) *CategoryStats {
	switch metric {
	case MetricAttack:
		return &p.Attack
	case MetricServe:
		return &p.Serve
	case MetricBlock:
		return &p.Block
	case MetricReception:
		return &p.Reception
	case MetricToss:
		return &p.Toss
	default:
		return &CategoryStats{}
	}
}
