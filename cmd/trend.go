package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/report"
	"github.com/courtside/volleymetrics/internal/stats"
)

var trendChart string

var trendCmd = &cobra.Command{
	Use:   "trend <player-id-prefix>",
	Short: "Show a player's per-match efficiency trend",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&trendChart, "chart", "", "also render the trend as a PNG at this path")
}

func runTrend(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.Load()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	p, err := db.FindPlayerByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find player: %w", err)
	}
	if p == nil {
		fmt.Fprintf(os.Stderr, "No player found with id prefix %q\n", args[0])
		return nil
	}

	points := stats.Trend(store, p.ID)
	if len(points) == 0 {
		fmt.Fprintln(os.Stderr, "No matches recorded yet.")
		return nil
	}
	report.PrintTrendTable(os.Stdout, points)

	if trendChart != "" {
		f, err := os.Create(trendChart)
		if err != nil {
			return fmt.Errorf("create chart file: %w", err)
		}
		defer f.Close()
		if err := report.RenderTrendChart(f, p.Name, points); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", trendChart)
	}
	return nil
}
