package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nathoo/antidote/loader"
)

var checkCmd = &cobra.Command{
	Use:   "check [content_dir]",
	Short: "Validate Lua content without starting the game",
	Long:  `Compile and validate a content directory, or the built-in content when none is given, and print a summary.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	defs, err := loadContent(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d floors, %d characters, %d enemies, %d dialogues\n",
		defs.Game.Title, len(defs.Floors), len(defs.Characters), len(defs.Enemies), len(defs.Dialogues))

	ids := make([]int, 0, len(defs.Floors))
	for id := range defs.Floors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		f := defs.Floors[id]
		fmt.Fprintf(out, "  floor %d %s: %d interactables, %d zones, %d items\n",
			id, f.Name, len(f.Interactables), len(f.Zones), len(f.Items))
	}
	return nil
}
