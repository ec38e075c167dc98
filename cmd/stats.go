package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/report"
	"github.com/courtside/volleymetrics/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats [player-id-prefix]",
	Short: "Show all-time player statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.Load()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	all := stats.Collect(store)

	if len(args) == 0 {
		report.PrintPlayerStatsTable(os.Stdout, all)
		return nil
	}

	p, err := db.FindPlayerByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find player: %w", err)
	}
	if p == nil {
		fmt.Fprintf(os.Stderr, "No player found with id prefix %q\n", args[0])
		return nil
	}
	for _, ps := range all {
		if ps.PlayerID == p.ID {
			report.PrintPlayerBreakdown(os.Stdout, ps)
			return nil
		}
	}
	fmt.Fprintf(os.Stderr, "No recorded events for %s\n", p.Name)
	return nil
}
