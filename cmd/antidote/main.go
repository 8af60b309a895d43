// Antidote is a tile-aligned adventure through a three-floor building.
// Usage: antidote [--config file] [--frontend window|tui|script] [--script file] ...
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "antidote",
	Short:   "Find the antidote before the building falls",
	Long:    `Antidote is a single-player adventure: explore three floors, trade with shops, fight the infected and reach the antidote.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	RunE:    runGame,

	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
