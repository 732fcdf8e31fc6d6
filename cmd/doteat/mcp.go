package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/doteat/internal/platform/mcp"
	"github.com/vovakirdan/doteat/internal/session"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve game sessions to MCP clients over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout.

Tools: list_levels, new_game, game_state, set_intent, advance,
render_board, high_scores. Sessions only move when advanced, so every
game is reproducible from its seed. Logs go to stderr.

Example client configuration:
  {"command": "doteat", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	Run:  runMCP,
}

func init() {
	addGameFlags(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) {
	opts, err := gameOptions()
	if err != nil {
		fail("%v", err)
	}

	logger := newLogger("doteat-mcp")
	manager := session.NewManager(opts, flagFPS)

	var scores mcp.ScoreReader
	if store := openStore(logger); store != nil {
		defer store.Close()
		manager.SetScoreSaver(store)
		scores = store
	}

	if err := mcp.NewServer(manager, scores, logger, version).ServeStdio(); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
