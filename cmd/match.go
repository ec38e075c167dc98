package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/model"
	"github.com/courtside/volleymetrics/internal/scoring"
)

var (
	matchTitle    string
	matchDate     string
	matchOpponent string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Manage matches",
}

var matchAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a match",
	Args:  cobra.NoArgs,
	RunE:  runMatchAdd,
}

var matchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all matches with their derived scores",
	Args:  cobra.NoArgs,
	RunE:  runMatchList,
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage match rosters",
}

// rosterSetCmd assigns a player to a side for a match. A later assignment
// for the same player replaces the earlier one.
var rosterSetCmd = &cobra.Command{
	Use:   "set <match-id-prefix> <player-id-prefix> <our|opp>",
	Short: "Assign a player to a team for a match",
	Args:  cobra.ExactArgs(3),
	RunE:  runRosterSet,
}

func init() {
	matchAddCmd.Flags().StringVar(&matchTitle, "title", "", "match title (required)")
	matchAddCmd.Flags().StringVar(&matchDate, "date", time.Now().Format("2006-01-02"), "match date (YYYY-MM-DD)")
	matchAddCmd.Flags().StringVar(&matchOpponent, "opponent", "", "opponent name")
	matchAddCmd.MarkFlagRequired("title")

	matchCmd.AddCommand(matchAddCmd)
	matchCmd.AddCommand(matchListCmd)
	rosterCmd.AddCommand(rosterSetCmd)
}

func runMatchAdd(cmd *cobra.Command, args []string) error {
	if _, err := time.Parse("2006-01-02", matchDate); err != nil {
		return fmt.Errorf("invalid date %q: %w", matchDate, err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m := model.Match{
		ID:       model.NewID(),
		Title:    matchTitle,
		Date:     matchDate,
		Opponent: matchOpponent,
	}
	if err := db.InsertMatch(m); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Added match %s on %s (%s)\n", m.Title, m.Date, shortID(m.ID))
	return nil
}

func runMatchList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.Load()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	if len(store.Matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches yet. Run 'volleymetrics match add --title ...' to add one.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-24s  %-16s  %s\n", "ID", "DATE", "TITLE", "OPPONENT", "SCORE")
	for _, m := range store.Matches {
		rows := scoring.BuildTimeline(m, store.Rallies)
		var final scoring.Score
		if len(rows) > 0 {
			final = rows[len(rows)-1].ScoreAfter
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-24s  %-16s  %d-%d\n",
			shortID(m.ID), m.Date, m.Title, m.Opponent, final.Our, final.Opp)
	}
	return nil
}

func runRosterSet(cmd *cobra.Command, args []string) error {
	team := model.Team(args[2])
	if !team.Valid() {
		return fmt.Errorf("invalid team %q (want our or opp)", args[2])
	}

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
	p, err := db.FindPlayerByPrefix(args[1])
	if err != nil {
		return fmt.Errorf("find player: %w", err)
	}
	if p == nil {
		fmt.Fprintf(os.Stderr, "No player found with id prefix %q\n", args[1])
		return nil
	}
	if err := db.SetRosterEntry(matchID, p.ID, team); err != nil {
		return fmt.Errorf("set roster: %w", err)
	}
	fmt.Fprintf(os.Stdout, "%s plays %s in match %s\n", p.Name, team, shortID(matchID))
	return nil
}
