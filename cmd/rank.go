package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/report"
	"github.com/courtside/volleymetrics/internal/stats"
)

var (
	rankMetric      string
	rankMinAttempts int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank players by an efficiency metric",
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankMetric, "metric", "", "metric: attack|serve|block|reception|toss|errors (all when omitted)")
	rankCmd.Flags().IntVar(&rankMinAttempts, "min-attempts", 10, "attempts below this are listed but flagged as small samples")
}

func runRank(cmd *cobra.Command, args []string) error {
	metrics := stats.Metrics
	if rankMetric != "" {
		m := stats.Metric(rankMetric)
		if !stats.ValidMetric(m) {
			return fmt.Errorf("invalid metric %q (want one of %v)", rankMetric, stats.Metrics)
		}
		metrics = []stats.Metric{m}
	}

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

	for _, m := range metrics {
		report.PrintRanking(os.Stdout, m, stats.Rank(all, m), rankMinAttempts)
	}
	return nil
}
