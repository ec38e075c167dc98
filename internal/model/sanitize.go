package model

// Sanitize validates a freshly loaded Store against the closed vocabularies
// and drops malformed entries at the granularity of the smallest enclosing
// entity: a bad event drops that event, a rally without an id or match
// reference drops that rally, and so on. The one lenient exception is the
// quality grade on a successful receive/dig, which is normalized to B when
// missing or out of vocabulary instead of dropping the event.
//
// Sanitize never mutates its input; it returns a new Store.
func Sanitize(in Store) Store {
	out := Store{Version: in.Version}

	seenPlayers := make(map[string]bool)
	for _, p := range in.Players {
		if p.ID == "" || seenPlayers[p.ID] {
			continue
		}
		seenPlayers[p.ID] = true
		out.Players = append(out.Players, p)
	}

	seenMatches := make(map[string]bool)
	for _, m := range in.Matches {
		if m.ID == "" || seenMatches[m.ID] {
			continue
		}
		seenMatches[m.ID] = true
		m.Roster = sanitizeRoster(m.Roster)
		out.Matches = append(out.Matches, m)
	}

	seenRallies := make(map[string]bool)
	for _, r := range in.Rallies {
		if r.ID == "" || r.MatchID == "" || seenRallies[r.ID] {
			continue
		}
		if !seenMatches[r.MatchID] {
			continue // orphaned rally
		}
		seenRallies[r.ID] = true
		var events []RallyEvent
		for _, e := range r.Events {
			if ev, ok := sanitizeEvent(e); ok {
				events = append(events, ev)
			}
		}
		r.Events = events
		out.Rallies = append(out.Rallies, r)
	}

	return out
}

// sanitizeRoster drops entries with a missing player id or an invalid team
// and keeps only the last assignment per player (later assignment wins).
func sanitizeRoster(entries []RosterEntry) []RosterEntry {
	last := make(map[string]int)
	for i, e := range entries {
		if e.PlayerID == "" || !e.Team.Valid() {
			continue
		}
		last[e.PlayerID] = i
	}
	var out []RosterEntry
	for i, e := range entries {
		if idx, ok := last[e.PlayerID]; ok && idx == i {
			out = append(out, e)
		}
	}
	return out
}

// sanitizeEvent validates one event against its kind's vocabulary. The
// returned event has per-kind fields cleared when they are not meaningful
// for its kind/result combination.
func sanitizeEvent(e RallyEvent) (RallyEvent, bool) {
	if e.ID == "" {
		return e, false
	}
	if _, known := kindResults[e.Kind]; !known {
		return e, false
	}
	if !ValidResult(e.Kind, e.Result) {
		return e, false
	}
	if e.Team != "" && !e.Team.Valid() {
		return e, false
	}
	// A direct team tag is the anonymous form; a concrete actor wins when
	// both are present.
	if e.ActorID != "" {
		e.Team = ""
	}

	switch e.Kind {
	case KindReceive, KindDig:
		if e.Result == ResultOK && !e.Quality.Valid() {
			e.Quality = QualityB
		}
		if e.Result == ResultError {
			e.Quality = ""
		}
		e.Toss, e.AttackType, e.Label = "", "", ""
	case KindSet:
		if e.Toss != "" && !e.Toss.Valid() {
			return e, false
		}
		if e.Result == ResultError {
			e.Toss = ""
		}
		e.Quality, e.AttackType, e.Label = "", "", ""
	case KindAttack:
		if !e.AttackType.Valid() {
			return e, false
		}
		e.Quality, e.Toss, e.Label = "", "", ""
	case KindOther:
		e.Quality, e.Toss, e.AttackType = "", "", ""
	default:
		e.Quality, e.Toss, e.AttackType, e.Label = "", "", "", ""
	}
	return e, true
}
