package model

import "github.com/google/uuid"

// StoreVersion is the schema tag written into persisted documents.
// Load paths must reject documents carrying a different version.
const StoreVersion = 3

// Team is the side an actor belongs to: the tracked team or its opponent.
type Team string

const (
	TeamOur Team = "our"
	TeamOpp Team = "opp"
)

func (t Team) Valid() bool {
	return t == TeamOur || t == TeamOpp
}

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamOur {
		return TeamOpp
	}
	return TeamOur
}

func (t Team) String() string {
	switch t {
	case TeamOur:
		return "our"
	case TeamOpp:
		return "opp"
	default:
		return "?"
	}
}

// EventKind discriminates the RallyEvent union.
type EventKind string

const (
	KindServe   EventKind = "serve"
	KindReceive EventKind = "receive"
	KindDig     EventKind = "dig"
	KindSet     EventKind = "set"
	KindAttack  EventKind = "attack"
	KindBlock   EventKind = "block"
	KindOther   EventKind = "other"
)

// Kinds lists every event kind in display order.
var Kinds = []EventKind{KindServe, KindReceive, KindDig, KindSet, KindAttack, KindBlock, KindOther}

// Result is a per-kind outcome value. The valid set depends on the kind;
// see ResultsFor.
type Result string

const (
	ResultIn        Result = "in"
	ResultEffective Result = "effective"
	ResultAce       Result = "ace"
	ResultOK        Result = "ok"
	ResultContinue  Result = "continue"
	ResultKill      Result = "kill"
	ResultTouch     Result = "touch"
	ResultPoint     Result = "point"
	ResultError     Result = "error"
)

// kindResults is the closed result vocabulary per event kind.
var kindResults = map[EventKind][]Result{
	KindServe:   {ResultIn, ResultEffective, ResultAce, ResultError},
	KindReceive: {ResultOK, ResultError},
	KindDig:     {ResultOK, ResultError},
	KindSet:     {ResultOK, ResultError},
	KindAttack:  {ResultContinue, ResultEffective, ResultKill, ResultError},
	KindBlock:   {ResultTouch, ResultEffective, ResultPoint, ResultError},
	KindOther:   {ResultContinue, ResultPoint, ResultError},
}

// ResultsFor returns the valid result vocabulary for a kind.
func ResultsFor(kind EventKind) []Result {
	return kindResults[kind]
}

// ValidResult reports whether result is in kind's vocabulary.
func ValidResult(kind EventKind, result Result) bool {
	for _, r := range kindResults[kind] {
		if r == result {
			return true
		}
	}
	return false
}

// Quality grades a successful receive or dig.
type Quality string

const (
	QualityA Quality = "A"
	QualityB Quality = "B"
	QualityC Quality = "C"
)

func (q Quality) Valid() bool {
	return q == QualityA || q == QualityB || q == QualityC
}

// AttackType distinguishes a full swing from a tip.
type AttackType string

const (
	AttackSpike AttackType = "spike"
	AttackTip   AttackType = "tip"
)

func (a AttackType) Valid() bool {
	return a == AttackSpike || a == AttackTip
}

// TossType names the set pattern. Purely descriptive; no behavioral weight.
type TossType string

const (
	TossOpenLeft   TossType = "openLeft"
	TossOpenRight  TossType = "openRight"
	TossSemiLeft   TossType = "semiLeft"
	TossSemiCenter TossType = "semiCenter"
	TossSemiRight  TossType = "semiRight"
	TossQuickA     TossType = "quickA"
	TossQuickB     TossType = "quickB"
	TossQuickC     TossType = "quickC"
	TossQuickD     TossType = "quickD"
	TossBackOpen   TossType = "backOpen"
	TossBackSemi   TossType = "backSemi"
	TossPipe       TossType = "pipe"
	TossBroad      TossType = "broad"
	TossTwo        TossType = "two"
	TossHighBall   TossType = "highBall"
	TossOverOnTwo  TossType = "overOnTwo"
)

// TossTypes lists every toss pattern in display order.
var TossTypes = []TossType{
	TossOpenLeft, TossOpenRight, TossSemiLeft, TossSemiCenter, TossSemiRight,
	TossQuickA, TossQuickB, TossQuickC, TossQuickD,
	TossBackOpen, TossBackSemi, TossPipe, TossBroad,
	TossTwo, TossHighBall, TossOverOnTwo,
}

func (t TossType) Valid() bool {
	for _, tt := range TossTypes {
		if tt == t {
			return true
		}
	}
	return false
}

// Player is a roster-eligible person. Identity is the id; the name is
// mutable display data.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RosterEntry assigns one player to a side for one match.
type RosterEntry struct {
	PlayerID string `json:"playerId"`
	Team     Team   `json:"team"`
}

// Match is a scored fixture. Rallies reference it by MatchID rather than
// being embedded.
type Match struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Date     string        `json:"date"` // calendar date, YYYY-MM-DD
	Opponent string        `json:"opponent,omitempty"`
	Roster   []RosterEntry `json:"roster"`
}

// RallyEvent is one recorded touch or outcome within a rally. Exactly one
// of ActorID (a specific player) and Team (anonymous attribution) is
// meaningful; both may be empty, in which case the event can never be
// rally-terminal.
type RallyEvent struct {
	ID         string     `json:"id"`
	Kind       EventKind  `json:"kind"`
	ActorID    string     `json:"actorId,omitempty"`
	Team       Team       `json:"team,omitempty"`
	Result     Result     `json:"result"`
	Quality    Quality    `json:"quality,omitempty"`    // receive/dig, result=ok
	Toss       TossType   `json:"toss,omitempty"`       // set, result=ok
	AttackType AttackType `json:"attackType,omitempty"` // attack
	Label      string     `json:"label,omitempty"`      // other
	Note       string     `json:"note,omitempty"`
}

// Rally is one point-in-play. Completion carries no stored flag; it is
// derived by scanning Events for a terminal one.
type Rally struct {
	ID        string       `json:"id"`
	MatchID   string       `json:"matchId"`
	CreatedAt int64        `json:"createdAt"` // unix milliseconds, ordering only
	Seq       int64        `json:"seq"`       // insertion order, tiebreak for equal CreatedAt
	Events    []RallyEvent `json:"events"`
}

// Store is the root aggregate: the whole persisted document.
type Store struct {
	Version int      `json:"version"`
	Players []Player `json:"players"`
	Matches []Match  `json:"matches"`
	Rallies []Rally  `json:"rallies"`
}

// PlayerName returns the display name for a player id, or the id itself
// when unknown.
func (s *Store) PlayerName(id string) string {
	for _, p := range s.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// MatchByID returns the match with the given id, or nil.
func (s *Store) MatchByID(id string) *Match {
	for i := range s.Matches {
		if s.Matches[i].ID == id {
			return &s.Matches[i]
		}
	}
	return nil
}

// NewID generates an identifier unique within a store's lifetime.
func NewID() string {
	return uuid.NewString()
}
