package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/doteat/internal/platform/tui"
	"github.com/vovakirdan/doteat/internal/registry"
	"github.com/vovakirdan/doteat/internal/storage"
)

var (
	flagInteractive bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top 10 high scores for a game, or a summary of every
game when none is given.

Games:
  doteat          - Campaign
  doteat_endless  - Endless

Examples:
  doteat scores
  doteat scores doteat
  doteat scores doteat_endless -i
  doteat scores doteat --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a full-screen table")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every score of the game")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Games: doteat, doteat_endless")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	switch {
	case flagInteractive:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, gameID, width, height); err != nil {
			fail("%v", err)
		}
	case flagClear:
		if gameID == "" {
			fail("--clear needs a game")
		}
		if err := store.ClearScores(gameID); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Cleared scores for %s.\n", gameID)
	case gameID == "":
		printSummary(store)
	default:
		printTopScores(store, gameID)
	}
}

func printTopScores(store *storage.Store, gameID string) {
	game, err := registry.Create(gameID)
	if err != nil {
		fail("creating game: %v", err)
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		fail("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'doteat play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-6s  %-16s  %s\n", "Rank", "Score", "Level", "Date")
	fmt.Printf("  %-4s  %-6s  %-16s  %s\n", "----", "-----", "-----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-6d  %-16s  %s\n", i+1, entry.Score, entry.LevelID, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.1f  Flowers picked: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.TotalScore)
	}
}

func printSummary(store *storage.Store) {
	all, err := store.GetAllGamesStats()
	if err != nil {
		fail("retrieving stats: %v", err)
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-16s  %-6s  %-5s  %-8s  %s\n", "Game", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-16s  %-6s  %-5s  %-8s  %s\n", "----", "-----", "----", "-------", "-----------")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-16s  %-6d  %-5d  %-8.1f  %s\n",
			id, s.GamesCount, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
