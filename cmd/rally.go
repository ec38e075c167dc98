package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/model"
	"github.com/courtside/volleymetrics/internal/scoring"
)

var rallyCmd = &cobra.Command{
	Use:   "rally",
	Short: "Manage rallies within a match",
}

var rallyAddCmd = &cobra.Command{
	Use:   "add <match-id-prefix>",
	Short: "Open a new rally in a match",
	Args:  cobra.ExactArgs(1),
	RunE:  runRallyAdd,
}

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Record or remove rally events",
}

var (
	eventKind       string
	eventActor      string
	eventTeam       string
	eventResult     string
	eventQuality    string
	eventToss       string
	eventAttackType string
	eventLabel      string
	eventNote       string
)

var eventAddCmd = &cobra.Command{
	Use:   "add <rally-id-prefix>",
	Short: "Append an event to a rally",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventAdd,
}

var eventDeleteCmd = &cobra.Command{
	Use:   "delete <event-id-prefix>",
	Short: "Delete a recorded event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventDelete,
}

func init() {
	eventAddCmd.Flags().StringVar(&eventKind, "kind", "", "event kind: serve|receive|dig|set|attack|block|other (required)")
	eventAddCmd.Flags().StringVar(&eventResult, "result", "", "result within the kind's vocabulary (required)")
	eventAddCmd.Flags().StringVar(&eventActor, "actor", "", "player id prefix of the acting player")
	eventAddCmd.Flags().StringVar(&eventTeam, "team", "", "anonymous attribution: our|opp (ignored when --actor is set)")
	eventAddCmd.Flags().StringVar(&eventQuality, "quality", "", "reception grade A|B|C (receive/dig with result ok)")
	eventAddCmd.Flags().StringVar(&eventToss, "toss", "", "toss pattern (set with result ok)")
	eventAddCmd.Flags().StringVar(&eventAttackType, "attack-type", "spike", "attack form: spike|tip")
	eventAddCmd.Flags().StringVar(&eventLabel, "label", "", "free-form label (kind other)")
	eventAddCmd.Flags().StringVar(&eventNote, "note", "", "free-form note")
	eventAddCmd.MarkFlagRequired("kind")
	eventAddCmd.MarkFlagRequired("result")

	rallyCmd.AddCommand(rallyAddCmd)
	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventDeleteCmd)
}

func runRallyAdd(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	matchID, err := db.FindMatchIDByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	if matchID == "" {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", args[0])
		return nil
	}

	r, err := db.InsertRally(model.Rally{
		ID:        model.NewID(),
		MatchID:   matchID,
		CreatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("insert rally: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Opened rally %s (#%d) in match %s\n", shortID(r.ID), r.Seq, shortID(matchID))
	return nil
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	kind := model.EventKind(eventKind)
	valid := false
	for _, k := range model.Kinds {
		if k == kind {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid kind %q", eventKind)
	}
	result := model.Result(eventResult)
	if !model.ValidResult(kind, result) {
		return fmt.Errorf("invalid result %q for kind %s (want one of %v)", eventResult, kind, model.ResultsFor(kind))
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rallyID, err := db.FindRallyIDByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find rally: %w", err)
	}
	if rallyID == "" {
		fmt.Fprintf(os.Stderr, "No rally found with id prefix %q\n", args[0])
		return nil
	}

	e := model.RallyEvent{
		ID:     model.NewID(),
		Kind:   kind,
		Result: result,
		Note:   eventNote,
	}

	if eventActor != "" {
		p, err := db.FindPlayerByPrefix(eventActor)
		if err != nil {
			return fmt.Errorf("find player: %w", err)
		}
		if p == nil {
			fmt.Fprintf(os.Stderr, "No player found with id prefix %q\n", eventActor)
			return nil
		}
		e.ActorID = p.ID
	} else if eventTeam != "" {
		team := model.Team(eventTeam)
		if !team.Valid() {
			return fmt.Errorf("invalid team %q (want our or opp)", eventTeam)
		}
		e.Team = team
	}

	switch kind {
	case model.KindReceive, model.KindDig:
		if result == model.ResultOK {
			q := model.Quality(eventQuality)
			if eventQuality == "" {
				q = model.QualityB
			} else if !q.Valid() {
				return fmt.Errorf("invalid quality %q (want A, B or C)", eventQuality)
			}
			e.Quality = q
		}
	case model.KindSet:
		if result == model.ResultOK && eventToss != "" {
			toss := model.TossType(eventToss)
			if !toss.Valid() {
				return fmt.Errorf("invalid toss %q", eventToss)
			}
			e.Toss = toss
		}
	case model.KindAttack:
		at := model.AttackType(eventAttackType)
		if !at.Valid() {
			return fmt.Errorf("invalid attack type %q (want spike or tip)", eventAttackType)
		}
		e.AttackType = at
	case model.KindOther:
		e.Label = eventLabel
	}

	// A terminal event awards the point, so its side must be decidable now.
	// Anything else would record a rally whose winner the scorer can never
	// derive.
	if scoring.IsTerminalResult(kind, result) {
		store, err := db.Load()
		if err != nil {
			return fmt.Errorf("load store: %w", err)
		}
		var match *model.Match
		for _, r := range store.Rallies {
			if r.ID == rallyID {
				match = store.MatchByID(r.MatchID)
				break
			}
		}
		if match == nil {
			return fmt.Errorf("rally %s has no match", shortID(rallyID))
		}
		if _, ok := scoring.ResolveTeam(e, scoring.RosterFor(*match)); !ok {
			return fmt.Errorf("%s %s ends the rally but no team can be resolved; add the actor to the roster or pass --team", kind, result)
		}
	}

	if err := db.AppendEvent(rallyID, e); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Recorded %s %s (%s) in rally %s\n", kind, result, shortID(e.ID), shortID(rallyID))
	return nil
}

func runEventDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	eventID, err := db.FindEventIDByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find event: %w", err)
	}
	if eventID == "" {
		fmt.Fprintf(os.Stderr, "No event found with id prefix %q\n", args[0])
		return nil
	}
	ok, err := db.DeleteEvent(eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "No event found with id prefix %q\n", args[0])
		return nil
	}
	fmt.Fprintf(os.Stdout, "Deleted event %s\n", shortID(eventID))
	return nil
}
