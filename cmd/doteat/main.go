// doteat is a maze game for the terminal: walk the roads, pick every flower
// and keep away from the wolves.
//
// Usage:
//
//	doteat play              - Play the campaign (or --endless)
//	doteat levels            - List levels, or draw one with --show
//	doteat scores [game]     - Show high scores and stats
//	doteat serve             - Start SSH server for remote play
//	doteat web               - Serve sessions over HTTP and websockets
//	doteat mcp               - Serve sessions to MCP clients over stdio
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path|dsn>      - Set database path or postgres:// DSN (default: ~/.doteat/scores.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/doteat/internal/config"
	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/levels"
	"github.com/vovakirdan/doteat/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	// Game flags, shared by every command that hosts games
	flagConfig     string
	flagDifficulty string
	flagMaps       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "doteat",
	Short:   "Doteat - pick flowers, dodge wolves",
	Version: version,
	Long: `Doteat is a maze game for the terminal. Walk the roads, pick every
flower and keep away from the wolves.

Available commands:
  play     - Play in this terminal
  levels   - Show the available levels
  scores   - View high scores
  serve    - Start SSH server for remote play
  web      - Serve game sessions over HTTP and websockets
  mcp      - Serve game sessions to MCP clients over stdio

Examples:
  doteat play
  doteat play --endless --difficulty hard
  doteat levels --show 02-orchard
  doteat serve --ssh :2222
  doteat scores doteat -i`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q", flagLogLevel)
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.doteat/scores.db", "Scores database path or postgres:// DSN")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
}

// addGameFlags registers the flags that shape a game on cmd.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	cmd.Flags().StringVar(&flagMaps, "maps", "", "Directory of level YAML files (default: built-in levels)")
}

// gameOptions loads the config, difficulty preset and levels named by the
// game flags.
func gameOptions() (doteat.Options, error) {
	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return doteat.Options{}, fmt.Errorf("unknown difficulty %q", flagDifficulty)
	}

	cfg, err := config.LoadDoteat(flagConfig)
	if err != nil {
		return doteat.Options{}, err
	}
	config.ApplyDoteatPreset(&cfg, preset)

	lvls, err := levels.Load(flagMaps)
	if err != nil {
		return doteat.Options{}, err
	}
	return doteat.Options{Config: cfg, Levels: lvls}, nil
}

// newLogger creates the logger of a long-running host.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           log.GetLevel(),
	})
}

// openStore opens the score store. Hosts run without scores when it fails.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		return nil
	}
	return store
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
