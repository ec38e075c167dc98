package stats

import (
	"sort"

	"github.com/courtside/volleymetrics/internal/model"
)

// TrendPoint is one player's metrics within a single match. Categories
// with zero events report no data, which consumers render as a gap rather
// than a zero.
type TrendPoint struct {
	MatchID string
	Title   string
	Date    string

	Attack    CategoryStats
	Serve     CategoryStats
	Block     CategoryStats
	Reception CategoryStats
	Toss      CategoryStats
}

// Trend computes the per-match time series for one player, ordered by
// match date ascending. Every match in the store contributes a point so
// that gaps stay visible.
func Trend(store *model.Store, playerID string) []TrendPoint {
	matches := make([]model.Match, len(store.Matches))
	copy(matches, store.Matches)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Date != matches[j].Date {
			return matches[i].Date < matches[j].Date
		}
		return matches[i].Title < matches[j].Title
	})

	points := make([]TrendPoint, 0, len(matches))
	for _, m := range matches {
		acc := map[string]*PlayerStats{playerID: {PlayerID: playerID}}
		accumulateMatch(acc, store, m, nil)
		ps := acc[playerID]
		points = append(points, TrendPoint{
			MatchID:   m.ID,
			Title:     m.Title,
			Date:      m.Date,
			Attack:    ps.Attack,
			Serve:     ps.Serve,
			Block:     ps.Block,
			Reception: ps.Reception,
			Toss:      ps.Toss,
		})
	}
	return points
}
