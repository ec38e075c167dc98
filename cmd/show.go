package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/report"
	"github.com/courtside/volleymetrics/internal/scoring"
)

var showEvents bool

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show a match timeline with the derived score",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showEvents, "events", false, "print the annotated event log per rally")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.Load()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	matchID, err := db.FindMatchIDByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	m := store.MatchByID(matchID)
	if m == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", args[0])
		return nil
	}

	rows := scoring.BuildTimeline(*m, store.Rallies)
	var final scoring.Score
	if len(rows) > 0 {
		final = rows[len(rows)-1].ScoreAfter
	}

	report.PrintMatchSummary(os.Stdout, *m, final)
	report.PrintTimeline(os.Stdout, rows)
	if showEvents {
		report.PrintEventLog(os.Stdout, store, *m, rows)
	}
	return nil
}
