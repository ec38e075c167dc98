package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the local database",
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVar(&dropForce, "force", false, "skip the confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "No database at %s\n", dbPath)
		return nil
	}

	if !dropForce {
		fmt.Fprintf(os.Stdout, "Delete %s and every recorded match? [y/N] ", dbPath)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "y" {
			fmt.Fprintln(os.Stdout, "Aborted.")
			return nil
		}
	}

	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("remove %s: %w", dbPath, err)
	}
	fmt.Fprintf(os.Stdout, "Deleted %s\n", dbPath)
	return nil
}
