package scoring

import "github.com/courtside/volleymetrics/internal/model"

// LeadState classifies the score differential from one side's perspective.
type LeadState string

const (
	Lead   LeadState = "lead"
	Tie    LeadState = "tie"
	Behind LeadState = "behind"
)

// LeadStates lists the lead states in display order.
var LeadStates = []LeadState{Lead, Tie, Behind}

// Phase classifies match progress by total points played. The thresholds
// are fixed policy constants; the model is format-agnostic and purely
// descriptive, not tied to any set format.
type Phase string

const (
	Early Phase = "early"
	Mid   Phase = "mid"
	Late  Phase = "late"
)

// Phases lists the phases in display order.
var Phases = []Phase{Early, Mid, Late}

const (
	midStart  = 10
	lateStart = 20
)

// ComputeLead compares a side's score to its opponent's at a point in time.
func ComputeLead(side model.Team, before Score) LeadState {
	own, other := before.For(side), before.For(side.Opponent())
	switch {
	case own > other:
		return Lead
	case own < other:
		return Behind
	default:
		return Tie
	}
}

// ComputePhase buckets a score snapshot by total points played.
func ComputePhase(before Score) Phase {
	switch total := before.Total(); {
	case total < midStart:
		return Early
	case total < lateStart:
		return Mid
	default:
		return Late
	}
}

// FindReceiveQualityFor scans a rally's events backward from just before
// the set at setIdx and returns the quality of the nearest receive or dig
// by the setter's team. The scan stops at the first same-team receive/dig
// regardless: if that event was an error or carries no grade, the result
// is "" (unknown) rather than an earlier event's grade. Opposing-team
// receives and unresolvable events are skipped.
func FindReceiveQualityFor(rally model.Rally, setIdx int, setterTeam model.Team, roster RosterMap) model.Quality {
	for i := setIdx - 1; i >= 0; i-- {
		e := rally.Events[i]
		if e.Kind != model.KindReceive && e.Kind != model.KindDig {
			continue
		}
		team, ok := ResolveTeam(e, roster)
		if !ok || team != setterTeam {
			continue
		}
		if e.Result != model.ResultOK || !e.Quality.Valid() {
			return ""
		}
		return e.Quality
	}
	return ""
}
