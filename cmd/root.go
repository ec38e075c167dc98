package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/storage"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "volleymetrics",
	Short: "Volleyball match scoring and statistics tool",
	Long:  "Record point-by-point rally events, derive running scores, and compute per-player efficiency statistics and situational toss tables.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".volleymetrics", "volley.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")

	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(rallyCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(tossCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dropCmd)
}

// shortID truncates an id for display. Imported documents may carry ids
// shorter than the generated ones.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// openDB ensures the database directory exists and opens the store.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
