package scoring

import (
	"testing"

	"github.com/courtside/volleymetrics/internal/model"
)

// Fixed ids for test actors: p1 plays for us, p2 for the opponent, p9 is on
// no roster at all.
const (
	p1 = "player-our"
	p2 = "player-opp"
	p9 = "player-unknown"
)

func testMatch() model.Match {
	return model.Match{
		ID:    "match-1",
		Title: "vs Riverside",
		Date:  "2026-04-12",
		Roster: []model.RosterEntry{
			{PlayerID: p1, Team: model.TeamOur},
			{PlayerID: p2, Team: model.TeamOpp},
		},
	}
}

func ev(kind model.EventKind, actor string, result model.Result) model.RallyEvent {
	return model.RallyEvent{ID: "e-" + string(kind) + "-" + string(result) + actor, Kind: kind, ActorID: actor, Result: result}
}

func rally(id string, createdAt, seq int64, events ...model.RallyEvent) model.Rally {
	return model.Rally{ID: id, MatchID: "match-1", CreatedAt: createdAt, Seq: seq, Events: events}
}

func TestTerminalFor_DecisionTable(t *testing.T) {
	roster := RosterFor(testMatch())

	cases := []struct {
		name   string
		event  model.RallyEvent
		winner model.Team // "" means not terminal
	}{
		{"serve ace", ev(model.KindServe, p1, model.ResultAce), model.TeamOur},
		{"serve error", ev(model.KindServe, p1, model.ResultError), model.TeamOpp},
		{"serve in", ev(model.KindServe, p1, model.ResultIn), ""},
		{"serve effective", ev(model.KindServe, p1, model.ResultEffective), ""},
		{"attack kill", ev(model.KindAttack, p2, model.ResultKill), model.TeamOpp},
		{"attack error", ev(model.KindAttack, p2, model.ResultError), model.TeamOur},
		{"attack continue", ev(model.KindAttack, p1, model.ResultContinue), ""},
		{"block point", ev(model.KindBlock, p1, model.ResultPoint), model.TeamOur},
		{"block error", ev(model.KindBlock, p1, model.ResultError), model.TeamOpp},
		{"block touch", ev(model.KindBlock, p1, model.ResultTouch), ""},
		{"receive error", ev(model.KindReceive, p1, model.ResultError), model.TeamOpp},
		{"receive ok", ev(model.KindReceive, p1, model.ResultOK), ""},
		{"dig error", ev(model.KindDig, p2, model.ResultError), model.TeamOur},
		{"set error", ev(model.KindSet, p1, model.ResultError), model.TeamOpp},
		{"set ok", ev(model.KindSet, p1, model.ResultOK), ""},
		{"other point", ev(model.KindOther, p2, model.ResultPoint), model.TeamOpp},
		{"other error", ev(model.KindOther, p2, model.ResultError), model.TeamOur},
		{"other continue", ev(model.KindOther, p1, model.ResultContinue), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			term := TerminalFor(tc.event, roster)
			if tc.winner == "" {
				if term != nil {
					t.Fatalf("expected non-terminal, got winner %s", term.Winner)
				}
				return
			}
			if term == nil {
				t.Fatalf("expected terminal with winner %s, got nil", tc.winner)
			}
			if term.Winner != tc.winner {
				t.Errorf("winner = %s, want %s", term.Winner, tc.winner)
			}
		})
	}
}

func TestTerminalFor_UnresolvedTeamIsInconclusive(t *testing.T) {
	roster := RosterFor(testMatch())

	// An ace by a player on no roster cannot award a point to anyone.
	term := TerminalFor(ev(model.KindServe, p9, model.ResultAce), roster)
	if term != nil {
		t.Fatalf("expected nil for unrostered actor, got winner %s", term.Winner)
	}

	// Same event with no actor at all.
	term = TerminalFor(ev(model.KindServe, "", model.ResultAce), roster)
	if term != nil {
		t.Fatalf("expected nil for anonymous untagged event, got winner %s", term.Winner)
	}

	// A direct team tag resolves it.
	e := ev(model.KindServe, "", model.ResultAce)
	e.Team = model.TeamOpp
	term = TerminalFor(e, roster)
	if term == nil || term.Winner != model.TeamOpp {
		t.Fatalf("expected opp ace via team tag, got %+v", term)
	}
}

func TestResolveTeam_ActorWinsOverTag(t *testing.T) {
	roster := RosterFor(testMatch())
	e := ev(model.KindAttack, p1, model.ResultKill)
	e.Team = model.TeamOpp
	team, ok := ResolveTeam(e, roster)
	if !ok || team != model.TeamOur {
		t.Errorf("ResolveTeam = (%s, %v), want (our, true)", team, ok)
	}
}

func TestIsTerminalResult(t *testing.T) {
	if !IsTerminalResult(model.KindServe, model.ResultAce) {
		t.Error("serve ace should be terminal")
	}
	if IsTerminalResult(model.KindServe, model.ResultIn) {
		t.Error("serve in should not be terminal")
	}
	if !IsTerminalResult(model.KindReceive, model.ResultError) {
		t.Error("receive error should be terminal")
	}
	if IsTerminalResult(model.KindReceive, model.ResultOK) {
		t.Error("receive ok should not be terminal")
	}
}

func TestBuildTimeline_ScoreProgression(t *testing.T) {
	m := testMatch()
	rallies := []model.Rally{
		rally("r1", 100, 1, ev(model.KindServe, p1, model.ResultAce)),
		rally("r2", 200, 2,
			ev(model.KindServe, p2, model.ResultIn),
			ev(model.KindAttack, p2, model.ResultError)),
	}

	rows := BuildTimeline(m, rallies)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].ScoreBefore != (Score{0, 0}) || rows[0].ScoreAfter != (Score{1, 0}) {
		t.Errorf("rally 1 score %v -> %v, want 0-0 -> 1-0", rows[0].ScoreBefore, rows[0].ScoreAfter)
	}
	if rows[1].ScoreBefore != (Score{1, 0}) || rows[1].ScoreAfter != (Score{2, 0}) {
		t.Errorf("rally 2 score %v -> %v, want 1-0 -> 2-0", rows[1].ScoreBefore, rows[1].ScoreAfter)
	}
	if rows[1].Terminal == nil || rows[1].Terminal.Winner != model.TeamOur {
		t.Errorf("rally 2 terminal = %+v, want our point off an opponent attack error", rows[1].Terminal)
	}
}

func TestBuildTimeline_MostRecentTerminalWins(t *testing.T) {
	m := testMatch()
	// A kill recorded first, then corrected by a later error: the later
	// event decides the rally.
	rallies := []model.Rally{
		rally("r1", 100, 1,
			ev(model.KindAttack, p1, model.ResultKill),
			ev(model.KindAttack, p1, model.ResultError)),
	}

	rows := BuildTimeline(m, rallies)
	if rows[0].Terminal == nil {
		t.Fatal("expected a terminal rally")
	}
	if rows[0].Terminal.Winner != model.TeamOpp {
		t.Errorf("winner = %s, want opp (later error supersedes the kill)", rows[0].Terminal.Winner)
	}
}

func TestBuildTimeline_UnfinishedRally(t *testing.T) {
	m := testMatch()
	rallies := []model.Rally{
		rally("r1", 100, 1, ev(model.KindServe, p1, model.ResultIn)),
		rally("r2", 200, 2, ev(model.KindServe, p1, model.ResultAce)),
	}

	rows := BuildTimeline(m, rallies)
	if rows[0].Terminal != nil {
		t.Errorf("rally 1 should be unfinished, got winner %s", rows[0].Terminal.Winner)
	}
	if rows[0].ScoreAfter != rows[0].ScoreBefore {
		t.Errorf("unfinished rally moved the score: %v -> %v", rows[0].ScoreBefore, rows[0].ScoreAfter)
	}
	if rows[1].ScoreAfter != (Score{1, 0}) {
		t.Errorf("final score = %v, want 1-0", rows[1].ScoreAfter)
	}
}

func TestBuildTimeline_Ordering(t *testing.T) {
	m := testMatch()
	// Deliberately shuffled input: equal CreatedAt falls back to Seq.
	rallies := []model.Rally{
		rally("r3", 200, 3, ev(model.KindServe, p1, model.ResultAce)),
		rally("r2", 100, 2, ev(model.KindServe, p2, model.ResultAce)),
		rally("r1", 100, 1, ev(model.KindServe, p1, model.ResultAce)),
	}

	rows := BuildTimeline(m, rallies)
	want := []string{"r1", "r2", "r3"}
	for i, id := range want {
		if rows[i].Rally.ID != id {
			t.Fatalf("row %d = %s, want %s", i, rows[i].Rally.ID, id)
		}
	}
	if rows[2].ScoreAfter != (Score{2, 1}) {
		t.Errorf("final score = %v, want 2-1", rows[2].ScoreAfter)
	}
}

func TestBuildTimeline_Idempotent(t *testing.T) {
	m := testMatch()
	rallies := []model.Rally{
		rally("r1", 100, 1, ev(model.KindServe, p1, model.ResultAce)),
		rally("r2", 200, 2, ev(model.KindBlock, p2, model.ResultPoint)),
	}

	first := BuildTimeline(m, rallies)
	second := BuildTimeline(m, rallies)
	if len(first) != len(second) {
		t.Fatalf("row counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ScoreAfter != second[i].ScoreAfter {
			t.Errorf("row %d score differs across runs: %v vs %v", i, first[i].ScoreAfter, second[i].ScoreAfter)
		}
	}
}

func TestBuildTimeline_IgnoresOtherMatches(t *testing.T) {
	m := testMatch()
	other := rally("rX", 50, 1, ev(model.KindServe, p1, model.ResultAce))
	other.MatchID = "match-2"

	rows := BuildTimeline(m, []model.Rally{other})
	if len(rows) != 0 {
		t.Errorf("expected no rows for foreign rallies, got %d", len(rows))
	}
}
