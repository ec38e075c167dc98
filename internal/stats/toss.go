package stats

import (
	"sort"

	"github.com/courtside/volleymetrics/internal/model"
	"github.com/courtside/volleymetrics/internal/scoring"
)

// TossCell is one cell of the situational toss cross-tab: toss-type counts
// conditioned on the preceding reception quality, the setter's lead state,
// and the match phase at the rally's score-before snapshot. Quality "" is
// the unknown bucket.
type TossCell struct {
	Quality model.Quality
	Lead    scoring.LeadState
	Phase   scoring.Phase
	Total   int
	Counts  map[model.TossType]int
}

// TossShare is one toss type's portion of a cell.
type TossShare struct {
	Toss  model.TossType
	Count int
	Share float64
}

// Top returns the n most frequent toss types in the cell by in-cell share,
// ties broken by declaration order of the toss vocabulary.
func (c *TossCell) Top(n int) []TossShare {
	shares := make([]TossShare, 0, len(c.Counts))
	for _, tt := range model.TossTypes {
		if count := c.Counts[tt]; count > 0 {
			shares = append(shares, TossShare{Toss: tt, Count: count, Share: float64(count) / float64(c.Total)})
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	if len(shares) > n {
		shares = shares[:n]
	}
	return shares
}

// TossDistribution builds the (quality x lead x phase) cross-tab of toss
// types over the whole store, optionally restricted to sets by one player.
// Sets whose setter team cannot be resolved are skipped: without a team
// there is no lead state to condition on. Cells are returned in a fixed
// display order (A, B, C, unknown; lead, tie, behind; early, mid, late)
// with empty cells omitted.
func TossDistribution(store *model.Store, playerID string) []TossCell {
	type cellKey struct {
		quality model.Quality
		lead    scoring.LeadState
		phase   scoring.Phase
	}
	cells := make(map[cellKey]*TossCell)

	for _, m := range store.Matches {
		roster := scoring.RosterFor(m)
		for _, row := range scoring.BuildTimeline(m, store.Rallies) {
			for i, e := range row.Rally.Events {
				if e.Kind != model.KindSet || e.Result != model.ResultOK || e.Toss == "" {
					continue
				}
				if playerID != "" && e.ActorID != playerID {
					continue
				}
				team, ok := scoring.ResolveTeam(e, roster)
				if !ok {
					continue
				}
				key := cellKey{
					quality: scoring.FindReceiveQualityFor(row.Rally, i, team, roster),
					lead:    scoring.ComputeLead(team, row.ScoreBefore),
					phase:   scoring.ComputePhase(row.ScoreBefore),
				}
				cell := cells[key]
				if cell == nil {
					cell = &TossCell{
						Quality: key.quality,
						Lead:    key.lead,
						Phase:   key.phase,
						Counts:  make(map[model.TossType]int),
					}
					cells[key] = cell
				}
				cell.Counts[e.Toss]++
				cell.Total++
			}
		}
	}

	qualities := []model.Quality{model.QualityA, model.QualityB, model.QualityC, ""}
	out := make([]TossCell, 0, len(cells))
	for _, q := range qualities {
		for _, lead := range scoring.LeadStates {
			for _, phase := range scoring.Phases {
				if cell, ok := cells[cellKey{q, lead, phase}]; ok {
					out = append(out, *cell)
				}
			}
		}
	}
	return out
}
