package storage

import (
	"database/sql"
	"fmt"

	"github.com/courtside/volleymetrics/internal/model"
)

// Load reads the whole document into memory and sanitizes it. Malformed
// rows (out-of-vocabulary enums, missing identities) are dropped at the
// smallest enclosing entity instead of failing the load.
func (db *DB) Load() (*model.Store, error) {
	store := model.Store{Version: model.StoreVersion}

	rows, err := db.conn.Query(`SELECT id, name FROM players ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return nil, err
		}
		store.Players = append(store.Players, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.conn.Query(`SELECT id, title, match_date, opponent FROM matches ORDER BY match_date, title`)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.Title, &m.Date, &m.Opponent); err != nil {
			rows.Close()
			return nil, err
		}
		store.Matches = append(store.Matches, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.conn.Query(`SELECT match_id, player_id, team FROM roster`)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	for rows.Next() {
		var matchID string
		var e model.RosterEntry
		if err := rows.Scan(&matchID, &e.PlayerID, &e.Team); err != nil {
			rows.Close()
			return nil, err
		}
		if m := store.MatchByID(matchID); m != nil {
			m.Roster = append(m.Roster, e)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rallyIdx := make(map[string]int)
	rows, err = db.conn.Query(`SELECT id, match_id, created_at, seq FROM rallies ORDER BY created_at, seq`)
	if err != nil {
		return nil, fmt.Errorf("load rallies: %w", err)
	}
	for rows.Next() {
		var r model.Rally
		if err := rows.Scan(&r.ID, &r.MatchID, &r.CreatedAt, &r.Seq); err != nil {
			rows.Close()
			return nil, err
		}
		rallyIdx[r.ID] = len(store.Rallies)
		store.Rallies = append(store.Rallies, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.conn.Query(`
		SELECT id, rally_id, kind, actor_id, team, result, quality, toss, attack_type, label, note
		FROM events ORDER BY rally_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	for rows.Next() {
		var rallyID string
		var e model.RallyEvent
		if err := rows.Scan(&e.ID, &rallyID, &e.Kind, &e.ActorID, &e.Team,
			&e.Result, &e.Quality, &e.Toss, &e.AttackType, &e.Label, &e.Note); err != nil {
			rows.Close()
			return nil, err
		}
		if idx, ok := rallyIdx[rallyID]; ok {
			store.Rallies[idx].Events = append(store.Rallies[idx].Events, e)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	clean := model.Sanitize(store)
	return &clean, nil
}

// Save replaces the whole persisted document with the given store in one
// transaction. Used by import; interactive mutations go through the
// single-entity methods below.
func (db *DB) Save(store *model.Store) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"events", "rallies", "roster", "matches", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, p := range store.Players {
		if _, err := tx.Exec(`INSERT INTO players(id, name) VALUES (?, ?)`, p.ID, p.Name); err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}
	for _, m := range store.Matches {
		if _, err := tx.Exec(`INSERT INTO matches(id, title, match_date, opponent) VALUES (?, ?, ?, ?)`,
			m.ID, m.Title, m.Date, m.Opponent); err != nil {
			return fmt.Errorf("insert match %s: %w", m.ID, err)
		}
		for _, e := range m.Roster {
			if _, err := tx.Exec(`INSERT OR REPLACE INTO roster(match_id, player_id, team) VALUES (?, ?, ?)`,
				m.ID, e.PlayerID, string(e.Team)); err != nil {
				return fmt.Errorf("insert roster %s/%s: %w", m.ID, e.PlayerID, err)
			}
		}
	}
	for _, r := range store.Rallies {
		if _, err := tx.Exec(`INSERT INTO rallies(id, match_id, created_at, seq) VALUES (?, ?, ?, ?)`,
			r.ID, r.MatchID, r.CreatedAt, r.Seq); err != nil {
			return fmt.Errorf("insert rally %s: %w", r.ID, err)
		}
		for i, e := range r.Events {
			if err := insertEvent(tx, r.ID, int64(i+1), e); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func insertEvent(tx *sql.Tx, rallyID string, seq int64, e model.RallyEvent) error {
	_, err := tx.Exec(`
		INSERT INTO events(id, rally_id, seq, kind, actor_id, team, result, quality, toss, attack_type, label, note)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, rallyID, seq, string(e.Kind), e.ActorID, string(e.Team),
		string(e.Result), string(e.Quality), string(e.Toss), string(e.AttackType), e.Label, e.Note)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.ID, err)
	}
	return nil
}

// InsertPlayer stores a new player.
func (db *DB) InsertPlayer(p model.Player) error {
	_, err := db.conn.Exec(`INSERT INTO players(id, name) VALUES (?, ?)`, p.ID, p.Name)
	return err
}

// DeletePlayer removes a player and neutralizes every reference in one
// transaction: roster entries are deleted, authored events become
// anonymous (empty actor, no team tag). Returns false when no such player
// exists.
func (db *DB) DeletePlayer(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if _, err := tx.Exec(`DELETE FROM roster WHERE player_id = ?`, id); err != nil {
		return false, fmt.Errorf("clear roster: %w", err)
	}
	if _, err := tx.Exec(`UPDATE events SET actor_id = '' WHERE actor_id = ?`, id); err != nil {
		return false, fmt.Errorf("clear events: %w", err)
	}
	return true, tx.Commit()
}

// InsertMatch stores a new match (without roster entries).
func (db *DB) InsertMatch(m model.Match) error {
	_, err := db.conn.Exec(`INSERT INTO matches(id, title, match_date, opponent) VALUES (?, ?, ?, ?)`,
		m.ID, m.Title, m.Date, m.Opponent)
	return err
}

// SetRosterEntry assigns a player to a side for a match; a later
// assignment replaces an earlier one.
func (db *DB) SetRosterEntry(matchID, playerID string, team model.Team) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO roster(match_id, player_id, team) VALUES (?, ?, ?)`,
		matchID, playerID, string(team))
	return err
}

// InsertRally stores a new rally, assigning the next insertion sequence.
// The returned rally carries the assigned Seq.
func (db *DB) InsertRally(r model.Rally) (model.Rally, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return r, err
	}
	defer tx.Rollback()

	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq), 0) + 1 FROM rallies`).Scan(&r.Seq); err != nil {
		return r, err
	}
	if _, err := tx.Exec(`INSERT INTO rallies(id, match_id, created_at, seq) VALUES (?, ?, ?, ?)`,
		r.ID, r.MatchID, r.CreatedAt, r.Seq); err != nil {
		return r, err
	}
	return r, tx.Commit()
}

// AppendEvent appends an event to a rally's log.
func (db *DB) AppendEvent(rallyID string, e model.RallyEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE rally_id = ?`, rallyID).Scan(&seq); err != nil {
		return err
	}
	if err := insertEvent(tx, rallyID, seq, e); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteEvent removes one event by id. Returns false when absent.
func (db *DB) DeleteEvent(id string) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// FindPlayerByPrefix returns the first player whose id starts with the
// given prefix, or nil when no player matches.
func (db *DB) FindPlayerByPrefix(prefix string) (*model.Player, error) {
	var p model.Player
	err := db.conn.QueryRow(`SELECT id, name FROM players WHERE id LIKE ? LIMIT 1`, prefix+"%").
		Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindMatchIDByPrefix returns the id of the first match whose id starts
// with the given prefix, or "" when no match matches.
func (db *DB) FindMatchIDByPrefix(prefix string) (string, error) {
	var id string
	err := db.conn.QueryRow(`SELECT id FROM matches WHERE id LIKE ? LIMIT 1`, prefix+"%").Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// FindRallyIDByPrefix returns the id of the first rally whose id starts
// with the given prefix, or "" when no rally matches.
func (db *DB) FindRallyIDByPrefix(prefix string) (string, error) {
	var id string
	err := db.conn.QueryRow(`SELECT id FROM rallies WHERE id LIKE ? LIMIT 1`, prefix+"%").Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// FindEventIDByPrefix returns the id of the first event whose id starts
// with the given prefix, or "" when no event matches.
func (db *DB) FindEventIDByPrefix(prefix string) (string, error) {
	var id string
	err := db.conn.QueryRow(`SELECT id FROM events WHERE id LIKE ? LIMIT 1`, prefix+"%").Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}
