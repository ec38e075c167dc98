// Package main is the entry point for the volleymetrics CLI tool, which
// records volleyball rallies and derives scores and player statistics.
package main

import "github.com/courtside/volleymetrics/cmd"

func main() {
	cmd.Execute()
}
