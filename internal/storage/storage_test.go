package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/courtside/volleymetrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testStore() *model.Store {
	return &model.Store{
		Version: model.StoreVersion,
		Players: []model.Player{
			{ID: "p1", Name: "Ana"},
			{ID: "p2", Name: "Bea"},
		},
		Matches: []model.Match{{
			ID:       "m1",
			Title:    "vs Harbor",
			Date:     "2026-03-01",
			Opponent: "Harbor VC",
			Roster: []model.RosterEntry{
				{PlayerID: "p1", Team: model.TeamOur},
				{PlayerID: "p2", Team: model.TeamOpp},
			},
		}},
		Rallies: []model.Rally{{
			ID: "r1", MatchID: "m1", CreatedAt: 1000, Seq: 1,
			Events: []model.RallyEvent{
				{ID: "e1", Kind: model.KindServe, ActorID: "p1", Result: model.ResultAce, Note: "jump serve"},
				{ID: "e2", Kind: model.KindReceive, ActorID: "p2", Result: model.ResultOK, Quality: model.QualityB},
			},
		}},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	db := openMemDB(t)

	if err := db.Save(testStore()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got.Players) != 2 || len(got.Matches) != 1 || len(got.Rallies) != 1 {
		t.Fatalf("loaded %d players, %d matches, %d rallies", len(got.Players), len(got.Matches), len(got.Rallies))
	}
	m := got.Matches[0]
	if m.Title != "vs Harbor" || m.Opponent != "Harbor VC" || len(m.Roster) != 2 {
		t.Errorf("match = %+v", m)
	}
	r := got.Rallies[0]
	if len(r.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(r.Events))
	}
	if r.Events[0].ID != "e1" || r.Events[0].Note != "jump serve" {
		t.Errorf("first event = %+v", r.Events[0])
	}
	if r.Events[1].Quality != model.QualityB {
		t.Errorf("quality = %q, want B", r.Events[1].Quality)
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	db := openMemDB(t)

	if err := db.Save(testStore()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	small := &model.Store{Version: model.StoreVersion, Players: []model.Player{{ID: "p9", Name: "Zoe"}}}
	if err := db.Save(small); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Players) != 1 || got.Players[0].ID != "p9" {
		t.Errorf("players = %v, want only p9", got.Players)
	}
	if len(got.Matches) != 0 || len(got.Rallies) != 0 {
		t.Errorf("stale rows survived: %d matches, %d rallies", len(got.Matches), len(got.Rallies))
	}
}

func TestLoad_DropsMalformedRows(t *testing.T) {
	db := openMemDB(t)
	if err := db.Save(testStore()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Inject a row outside the vocabulary directly.
	if _, err := db.conn.Exec(
		`INSERT INTO events(id, rally_id, seq, kind, actor_id, team, result, quality, toss, attack_type, label, note)
		 VALUES ('bad', 'r1', 99, 'smash', 'p1', '', 'kill', '', '', '', '', '')`); err != nil {
		t.Fatalf("inject: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, e := range got.Rallies[0].Events {
		if e.ID == "bad" {
			t.Error("out-of-vocabulary event survived the load")
		}
	}
}

func TestDeletePlayerCascade(t *testing.T) {
	db := openMemDB(t)
	if err := db.Save(testStore()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := db.DeletePlayer("p1")
	if err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}
	if !ok {
		t.Fatal("expected deletion to report success")
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Players) != 1 || got.Players[0].ID != "p2" {
		t.Errorf("players = %v, want only p2", got.Players)
	}
	for _, e := range got.Matches[0].Roster {
		if e.PlayerID == "p1" {
			t.Error("roster entry survived the cascade")
		}
	}
	// The authored event stays, anonymized.
	e := got.Rallies[0].Events[0]
	if e.ID != "e1" || e.ActorID != "" {
		t.Errorf("event = %+v, want e1 with no actor", e)
	}

	ok, err = db.DeletePlayer("nobody")
	if err != nil {
		t.Fatalf("DeletePlayer(nobody): %v", err)
	}
	if ok {
		t.Error("expected false for an unknown player")
	}
}

func TestInsertRallyAssignsSeq(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertMatch(model.Match{ID: "m1", Title: "A", Date: "2026-03-01"}); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	r1, err := db.InsertRally(model.Rally{ID: "r1", MatchID: "m1", CreatedAt: 10})
	if err != nil {
		t.Fatalf("InsertRally: %v", err)
	}
	r2, err := db.InsertRally(model.Rally{ID: "r2", MatchID: "m1", CreatedAt: 20})
	if err != nil {
		t.Fatalf("InsertRally: %v", err)
	}
	if r1.Seq != 1 || r2.Seq != 2 {
		t.Errorf("seqs = %d, %d, want 1, 2", r1.Seq, r2.Seq)
	}
}

func TestAppendAndDeleteEvent(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertMatch(model.Match{ID: "m1", Title: "A", Date: "2026-03-01"}); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	if _, err := db.InsertRally(model.Rally{ID: "r1", MatchID: "m1", CreatedAt: 10}); err != nil {
		t.Fatalf("InsertRally: %v", err)
	}

	e1 := model.RallyEvent{ID: "e1", Kind: model.KindServe, Team: model.TeamOur, Result: model.ResultIn}
	e2 := model.RallyEvent{ID: "e2", Kind: model.KindServe, Team: model.TeamOur, Result: model.ResultAce}
	if err := db.AppendEvent("r1", e1); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := db.AppendEvent("r1", e2); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	events := got.Rallies[0].Events
	if len(events) != 2 || events[0].ID != "e1" || events[1].ID != "e2" {
		t.Fatalf("events = %v, want e1 then e2", events)
	}

	ok, err := db.DeleteEvent("e1")
	if err != nil || !ok {
		t.Fatalf("DeleteEvent = (%v, %v)", ok, err)
	}
	ok, _ = db.DeleteEvent("e1")
	if ok {
		t.Error("second delete should report absence")
	}
}

func TestPrefixLookups(t *testing.T) {
	db := openMemDB(t)
	if err := db.Save(testStore()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	p, err := db.FindPlayerByPrefix("p1")
	if err != nil {
		t.Fatalf("FindPlayerByPrefix: %v", err)
	}
	if p == nil || p.Name != "Ana" {
		t.Errorf("player = %+v, want Ana", p)
	}
	p, err = db.FindPlayerByPrefix("zz")
	if err != nil || p != nil {
		t.Errorf("missing prefix = (%+v, %v), want (nil, nil)", p, err)
	}

	if id, _ := db.FindMatchIDByPrefix("m"); id != "m1" {
		t.Errorf("match id = %q, want m1", id)
	}
	if id, _ := db.FindRallyIDByPrefix("r1"); id != "r1" {
		t.Errorf("rally id = %q, want r1", id)
	}
	if id, _ := db.FindEventIDByPrefix("e2"); id != "e2" {
		t.Errorf("event id = %q, want e2", id)
	}
	if id, _ := db.FindEventIDByPrefix("zz"); id != "" {
		t.Errorf("missing event id = %q, want empty", id)
	}
}

func TestVersionGate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volley.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.conn.Exec(`UPDATE meta SET value = '999' WHERE key = 'version'`); err != nil {
		t.Fatalf("tamper version: %v", err)
	}
	db.Close()

	_, err = Open(path)
	if err == nil {
		t.Fatal("expected version mismatch to fail the open")
	}
	if !strings.Contains(err.Error(), "unsupported store version") {
		t.Errorf("error = %v", err)
	}
}
