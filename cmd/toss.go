package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/report"
	"github.com/courtside/volleymetrics/internal/stats"
)

var (
	tossPlayer string
	tossTop    int
)

var tossCmd = &cobra.Command{
	Use:   "toss",
	Short: "Show toss choice by reception quality, lead and phase",
	RunE:  runToss,
}

func init() {
	tossCmd.Flags().StringVar(&tossPlayer, "player", "", "restrict to one setter (player id prefix)")
	tossCmd.Flags().IntVar(&tossTop, "top", 3, "toss patterns shown per situation")
}

func runToss(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.Load()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	playerID := ""
	if tossPlayer != "" {
		p, err := db.FindPlayerByPrefix(tossPlayer)
		if err != nil {
			return fmt.Errorf("find player: %w", err)
		}
		if p == nil {
			fmt.Fprintf(os.Stderr, "No player found with id prefix %q\n", tossPlayer)
			return nil
		}
		playerID = p.ID
	}

	cells := stats.TossDistribution(store, playerID)
	if len(cells) == 0 {
		fmt.Fprintln(os.Stdout, "No graded tosses recorded yet.")
		return nil
	}
	report.PrintTossCells(os.Stdout, cells, tossTop)
	return nil
}
