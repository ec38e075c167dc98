package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/volleymetrics/internal/model"
)

var playerRemoveForce bool

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Manage players",
}

var playerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerAdd,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all players",
	Args:  cobra.NoArgs,
	RunE:  runPlayerList,
}

// playerRemoveCmd deletes a player and neutralizes every reference:
// roster entries are removed and authored events become anonymous, all in
// one transaction.
var playerRemoveCmd = &cobra.Command{
	Use:   "remove <player-id-prefix>",
	Short: "Remove a player and clear all references",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerRemove,
}

func init() {
	playerRemoveCmd.Flags().BoolVarP(&playerRemoveForce, "force", "f", false, "skip confirmation prompt")
	playerCmd.AddCommand(playerAddCmd)
	playerCmd.AddCommand(playerListCmd)
	playerCmd.AddCommand(playerRemoveCmd)
}

func runPlayerAdd(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	p := model.Player{ID: model.NewID(), Name: args[0]}
	if err := db.InsertPlayer(p); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Added player %s (%s)\n", p.Name, shortID(p.ID))
	return nil
}

func runPlayerList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.Load()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	if len(store.Players) == 0 {
		fmt.Fprintln(os.Stdout, "No players yet. Run 'volleymetrics player add <name>' to add one.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-10s  %s\n", "ID", "NAME")
	for _, p := range store.Players {
		fmt.Fprintf(os.Stdout, "%-10s  %s\n", shortID(p.ID), p.Name)
	}
	return nil
}

func runPlayerRemove(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := db.FindPlayerByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find player: %w", err)
	}
	if p == nil {
		fmt.Fprintf(os.Stderr, "No player found with id prefix %q\n", args[0])
		return nil
	}
	if !playerRemoveForce {
		fmt.Fprintf(os.Stderr, "This will remove %s and anonymize all their events.\n", p.Name)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeletePlayer(p.ID); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Removed %s\n", p.Name)
	return nil
}
