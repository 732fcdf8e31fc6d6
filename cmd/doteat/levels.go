package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/levels"
	"github.com/vovakirdan/doteat/internal/session"
)

var flagShow string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the available levels",
	Long: `Shows the built-in levels, or the ones in --maps.

With --show, draws the start position of one level.

Examples:
  doteat levels
  doteat levels --maps ./my-levels
  doteat levels --show 01-meadow`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagMaps, "maps", "", "Directory of level YAML files (default: built-in levels)")
	levelsCmd.Flags().StringVar(&flagShow, "show", "", "Level ID to draw")
}

func runLevels(cmd *cobra.Command, args []string) {
	lvls, err := levels.Load(flagMaps)
	if err != nil {
		fail("%v", err)
	}

	if flagShow != "" {
		showLevel(lvls, flagShow)
		return
	}

	maxIDLen := 2 // "ID" header
	for _, lvl := range lvls {
		maxIDLen = max(maxIDLen, len(lvl.ID))
	}

	fmt.Println("Available levels:")
	fmt.Println()
	fmt.Printf("  %-*s  %-7s  %-8s  %-7s  %s\n", maxIDLen, "ID", "Size", "Format", "Wolves", "Name")
	fmt.Printf("  %-*s  %-7s  %-8s  %-7s  %s\n", maxIDLen, "--", "----", "------", "------", "----")

	for _, lvl := range lvls {
		size := "?"
		if g, gridErr := lvl.Grid(); gridErr == nil {
			size = fmt.Sprintf("%dx%d", g.Width(), g.Height())
		}
		wolves := "default"
		if len(lvl.Enemies) > 0 {
			wolves = fmt.Sprint(len(lvl.Enemies))
		}
		fmt.Printf("  %-*s  %-7s  %-8s  %-7s  %s\n", maxIDLen, lvl.ID, size, lvl.Format, wolves, lvl.Title())
	}

	fmt.Println()
	fmt.Println("Run 'doteat play --level <id>' to start on a level.")
}

// showLevel prints the board of a freshly started level.
func showLevel(lvls []levels.Level, id string) {
	opts := doteat.DefaultOptions()
	opts.Levels = lvls

	manager := session.NewManager(opts, flagFPS)
	s, err := manager.Create(session.CreateOptions{Level: id, Seed: flagSeed})
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(s.Board())
}
