package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/doteat/internal/core"
	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/levels"
	"github.com/vovakirdan/doteat/internal/platform/tui"
	"github.com/vovakirdan/doteat/internal/registry"
)

var (
	flagLevel   string
	flagEndless bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Doteat in this terminal",
	Long: `Start playing Doteat.

Controls:
  Arrows/WASD/HJKL  - Choose a direction
  Mouse click       - Head towards the click
  Space             - Stop
  P                 - Pause
  R                 - Restart
  Ctrl+S            - Save a screenshot
  Q/Esc/Ctrl+C      - Quit

Difficulty options:
  easy   - One wolf, slow wolves
  normal - Wolves speed up as you score
  hard   - Fast wolves from the start
  fixed  - No progression, stays at config's values

Examples:
  doteat play
  doteat play --level 02-orchard
  doteat play --endless --difficulty hard
  doteat play --maps ./my-levels
  doteat play --config ./my-doteat.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
	playCmd.Flags().StringVar(&flagLevel, "level", "", "Level ID to start from")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Cycle the levels forever with faster wolves")
}

func runPlay(cmd *cobra.Command, args []string) {
	opts, err := gameOptions()
	if err != nil {
		fail("%v", err)
	}
	if flagLevel != "" && levels.Index(opts.Levels, flagLevel) < 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", flagLevel)
		fmt.Fprintln(os.Stderr, "Run 'doteat levels' to see available levels.")
		os.Exit(1)
	}
	doteat.Configure(opts)

	gameID := doteat.IDCampaign
	if flagEndless {
		gameID = doteat.IDEndless
	}
	game, err := registry.Create(gameID)
	if err != nil {
		fail("creating game: %v", err)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Level:    flagLevel,
	}

	// Continue without storage - game still works
	store := openStore(newLogger("doteat"))
	var saver tui.ScoreSaver
	if store != nil {
		saver = store
	}

	runErr := tui.Run(game, saver, cfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
