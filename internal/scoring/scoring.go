// Package scoring derives rally outcomes and running score purely from the
// chronological event log. Nothing here mutates the store; every function
// recomputes from scratch so derived state can never go stale.
package scoring

import (
	"fmt"
	"sort"

	"github.com/courtside/volleymetrics/internal/model"
)

// RosterMap maps a player id to the side it plays for in one match.
type RosterMap map[string]model.Team

// RosterFor builds the lookup for a match's roster.
func RosterFor(m model.Match) RosterMap {
	roster := make(RosterMap, len(m.Roster))
	for _, e := range m.Roster {
		roster[e.PlayerID] = e.Team
	}
	return roster
}

// ResolveTeam maps an event's actor to a side. A concrete actor is looked
// up on the roster; an anonymous event falls back to its direct team tag.
// false means the side cannot be determined, which callers must treat as a
// first-class outcome, not an error.
func ResolveTeam(e model.RallyEvent, roster RosterMap) (model.Team, bool) {
	if e.ActorID != "" {
		team, ok := roster[e.ActorID]
		return team, ok
	}
	if e.Team.Valid() {
		return e.Team, true
	}
	return "", false
}

// Terminal describes a rally-ending event: who took the point and why.
type Terminal struct {
	Winner model.Team
	Desc   string
}

// TerminalFor decides whether an event ends the rally and, if so, which
// team wins the point. An otherwise-terminal result whose team cannot be
// resolved yields nil: the event is inconclusive, never a guessed point.
func TerminalFor(e model.RallyEvent, roster RosterMap) *Terminal {
	actorWins := false
	switch e.Kind {
	case model.KindServe:
		switch e.Result {
		case model.ResultAce:
			actorWins = true
		case model.ResultError:
		default:
			return nil
		}
	case model.KindAttack:
		switch e.Result {
		case model.ResultKill:
			actorWins = true
		case model.ResultError:
		default:
			return nil
		}
	case model.KindBlock:
		switch e.Result {
		case model.ResultPoint:
			actorWins = true
		case model.ResultError:
		default:
			return nil
		}
	case model.KindReceive, model.KindDig, model.KindSet:
		if e.Result != model.ResultError {
			return nil
		}
	case model.KindOther:
		switch e.Result {
		case model.ResultPoint:
			actorWins = true
		case model.ResultError:
		default:
			return nil
		}
	default:
		return nil
	}

	team, ok := ResolveTeam(e, roster)
	if !ok {
		return nil
	}
	winner := team
	if !actorWins {
		winner = team.Opponent()
	}
	return &Terminal{Winner: winner, Desc: describe(e)}
}

// IsTerminalResult reports whether a kind/result pair ends a rally when its
// team is known. It ignores team resolution entirely, which lets ingestion
// reject an event that would classify as terminal but cannot be attributed.
func IsTerminalResult(kind model.EventKind, result model.Result) bool {
	switch kind {
	case model.KindServe:
		return result == model.ResultAce || result == model.ResultError
	case model.KindAttack:
		return result == model.ResultKill || result == model.ResultError
	case model.KindBlock:
		return result == model.ResultPoint || result == model.ResultError
	case model.KindReceive, model.KindDig, model.KindSet:
		return result == model.ResultError
	case model.KindOther:
		return result == model.ResultPoint || result == model.ResultError
	}
	return false
}

func describe(e model.RallyEvent) string {
	if e.Kind == model.KindOther && e.Label != "" {
		return fmt.Sprintf("%s %s", e.Label, e.Result)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Result)
}

// Score is a running point count.
type Score struct {
	Our int
	Opp int
}

// For returns the count for one side.
func (s Score) For(t model.Team) int {
	if t == model.TeamOur {
		return s.Our
	}
	return s.Opp
}

// Total is the number of points played so far.
func (s Score) Total() int {
	return s.Our + s.Opp
}

// TimelineRow is one rally with the score state around it. Terminal is nil
// for an unfinished rally, in which case ScoreAfter equals ScoreBefore.
type TimelineRow struct {
	Rally       model.Rally
	ScoreBefore Score
	ScoreAfter  Score
	Terminal    *Terminal
}

// BuildTimeline orders a match's rallies chronologically and folds the
// terminal classifier over each one to produce the running score. For each
// rally the events are scanned from the end backward and the most recent
// terminal event wins; a later event in the same rally supersedes an
// earlier terminal-looking one, which is how corrections are modeled.
func BuildTimeline(match model.Match, rallies []model.Rally) []TimelineRow {
	roster := RosterFor(match)

	ordered := make([]model.Rally, 0, len(rallies))
	for _, r := range rallies {
		if r.MatchID == match.ID {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt != ordered[j].CreatedAt {
			return ordered[i].CreatedAt < ordered[j].CreatedAt
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	var score Score
	rows := make([]TimelineRow, 0, len(ordered))
	for _, r := range ordered {
		var term *Terminal
		for i := len(r.Events) - 1; i >= 0; i-- {
			if t := TerminalFor(r.Events[i], roster); t != nil {
				term = t
				break
			}
		}
		row := TimelineRow{Rally: r, ScoreBefore: score, Terminal: term}
		if term != nil {
			if term.Winner == model.TeamOur {
				score.Our++
			} else {
				score.Opp++
			}
		}
		row.ScoreAfter = score
		rows = append(rows, row)
	}
	return rows
}
