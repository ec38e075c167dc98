// Package stats aggregates per-player efficiency metrics from the event
// log. All functions are pure reducers over a store snapshot.
package stats

import (
	"sort"

	"github.com/courtside/volleymetrics/internal/model"
	"github.com/courtside/volleymetrics/internal/scoring"
)

// Per-result efficiency weights. Each category maps outcomes onto [0,1];
// efficiency is the arithmetic mean over the events observed.
var (
	attackWeight = map[model.Result]float64{
		model.ResultKill:      1.0,
		model.ResultEffective: 0.7,
		model.ResultContinue:  0.3,
		model.ResultError:     0.0,
	}
	serveWeight = map[model.Result]float64{
		model.ResultAce:       1.0,
		model.ResultEffective: 0.7,
		model.ResultIn:        0.3,
		model.ResultError:     0.0,
	}
	blockWeight = map[model.Result]float64{
		model.ResultPoint:     1.0,
		model.ResultEffective: 0.7,
		model.ResultTouch:     0.3,
		model.ResultError:     0.0,
	}
	qualityWeight = map[model.Quality]float64{
		model.QualityA: 1.0,
		model.QualityB: 2.0 / 3.0,
		model.QualityC: 1.0 / 3.0,
	}
)

// CategoryStats accumulates one metric category for one player: counts per
// result bucket plus the running efficiency numerator.
type CategoryStats struct {
	Attempts int            // events contributing to the efficiency denominator
	Counts   map[string]int // per-bucket tallies (result values, or A/B/C/error for reception)
	scoreSum float64
}

func (c *CategoryStats) add(bucket string, score float64) {
	if c.Counts == nil {
		c.Counts = make(map[string]int)
	}
	c.Counts[bucket]++
	c.Attempts++
	c.scoreSum += score
}

// Efficiency returns the mean per-event score. ok is false when no events
// contributed; the category has no data rather than a zero.
func (c *CategoryStats) Efficiency() (eff float64, ok bool) {
	if c.Attempts == 0 {
		return 0, false
	}
	return c.scoreSum / float64(c.Attempts), true
}

// PlayerStats holds every metric category for one player.
type PlayerStats struct {
	PlayerID string
	Name     string
	Matches  int // matches with at least one authored event

	Attack    CategoryStats // spike attacks only
	Serve     CategoryStats
	Block     CategoryStats
	Reception CategoryStats // receive and dig combined
	Toss      CategoryStats // success proxied by the next same-team attack

	TotalErrors int // error-result events of any kind
	TotalEvents int
}

// Collect computes all-time stats for every player in the store, sorted by
// name. Anonymous events carry no actor and are attributed to nobody.
func Collect(store *model.Store) []PlayerStats {
	acc := make(map[string]*PlayerStats, len(store.Players))
	for _, p := range store.Players {
		acc[p.ID] = &PlayerStats{PlayerID: p.ID, Name: p.Name}
	}

	for _, m := range store.Matches {
		touched := make(map[string]bool)
		accumulateMatch(acc, store, m, touched)
		for id := range touched {
			acc[id].Matches++
		}
	}

	out := make([]PlayerStats, 0, len(acc))
	for _, ps := range acc {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// accumulateMatch folds one match's rallies into the per-player
// accumulators. touched collects the ids of players who authored at least
// one event in this match; it may be nil.
func accumulateMatch(acc map[string]*PlayerStats, store *model.Store, m model.Match, touched map[string]bool) {
	roster := scoring.RosterFor(m)
	for _, r := range store.Rallies {
		if r.MatchID != m.ID {
			continue
		}
		for i, e := range r.Events {
			ps := acc[e.ActorID]
			if ps == nil {
				continue
			}
			if touched != nil {
				touched[e.ActorID] = true
			}
			ps.TotalEvents++
			if e.Result == model.ResultError {
				ps.TotalErrors++
			}

			switch e.Kind {
			case model.KindServe:
				ps.Serve.add(string(e.Result), serveWeight[e.Result])
			case model.KindBlock:
				ps.Block.add(string(e.Result), blockWeight[e.Result])
			case model.KindAttack:
				if e.AttackType == model.AttackSpike {
					ps.Attack.add(string(e.Result), attackWeight[e.Result])
				}
			case model.KindReceive, model.KindDig:
				if e.Result == model.ResultError {
					ps.Reception.add(string(model.ResultError), 0)
				} else {
					ps.Reception.add(string(e.Quality), qualityWeight[e.Quality])
				}
			case model.KindSet:
				if e.Result != model.ResultOK {
					continue
				}
				if res, ok := tossOutcome(r, i, roster); ok {
					ps.Toss.add(string(res), attackWeight[res])
				}
			}
		}
	}
}

// tossOutcome finds the first same-team attack after the set at setIdx and
// returns its result. ok is false when the setter's team is unresolvable or
// no such attack follows; that toss is then excluded from the denominator.
func tossOutcome(r model.Rally, setIdx int, roster scoring.RosterMap) (model.Result, bool) {
	setterTeam, ok := scoring.ResolveTeam(r.Events[setIdx], roster)
	if !ok {
		return "", false
	}
	for i := setIdx + 1; i < len(r.Events); i++ {
		e := r.Events[i]
		if e.Kind != model.KindAttack {
			continue
		}
		team, ok := scoring.ResolveTeam(e, roster)
		if !ok || team != setterTeam {
			continue
		}
		return e.Result, true
	}
	return "", false
}
