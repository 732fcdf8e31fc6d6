// Package mcp exposes Doteat sessions as Model Context Protocol tools so an
// agent can play the maze over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/session"
	"github.com/vovakirdan/doteat/internal/storage"
)

// maxAdvance caps the ticks a single advance call may run.
const maxAdvance = 10000

// ScoreReader lists high scores. *storage.Store satisfies it.
type ScoreReader interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
}

// Server wires the session manager to an MCP server.
type Server struct {
	manager   *session.Manager
	scores    ScoreReader
	logger    *log.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server. scores may be nil.
func NewServer(manager *session.Manager, scores ScoreReader, logger *log.Logger, version string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		manager: manager,
		scores:  scores,
		logger:  logger,
	}

	s.mcpServer = server.NewMCPServer(
		"Doteat",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Doteat - a maze game played through MCP

GOAL:
Steer the player (@) along the roads and pick every flower. Wolves (W) roam
the maze; sharing a tile with one ends the game.

HOW TIME WORKS:
The game only moves when you call advance. Characters keep walking in their
current direction, turn by themselves around corners and stop at dead ends
and junctions. set_intent changes the player's direction; it is rejected
when the neighbouring tile in that direction is not a road.

TOOLS:
- list_levels: available levels
- new_game: start a session (campaign or endless)
- game_state: snapshot of a session
- set_intent: up/down/left/right/stop, or pause/restart
- advance: run the game for a number of ticks
- render_board: text picture of the maze
- high_scores: best finished runs`),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP on stdio", "levels", len(s.manager.Levels()))
	return server.ServeStdio(s.mcpServer, server.WithErrorLogger(s.logger.StandardLog()))
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by new_game",
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List the levels games can start on",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListLevels)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(doteat.ModeCampaign), string(doteat.ModeEndless)},
					"description": "Campaign plays each level once, endless loops them with faster wolves",
				},
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Level ID to start on (optional)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for reproducible wolves (optional)",
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current state of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "set_intent",
		Description: "Set the player's next direction, or pause/restart the game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right", "stop", "pause", "restart"},
					"description": "Direction or game action",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleSetIntent)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "advance",
		Description: "Advance the game by a number of ticks (stops early when the game ends)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"ticks": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Ticks to run, 1 to %d (default 1)", maxAdvance),
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleAdvance)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "render_board",
		Description: "Render the maze as text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleRenderBoard)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "high_scores",
		Description: "List the best finished runs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game": map[string]interface{}{
					"type":        "string",
					"enum":        []string{doteat.IDCampaign, doteat.IDEndless},
					"description": "Game ID (default doteat)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Number of entries (default 10)",
				},
			},
		},
	}, s.handleHighScores)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument.
func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

func (s *Server) session(args map[string]interface{}) (*session.Session, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	return s.manager.Get(id)
}

// Tool handlers

func (s *Server) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	lvls := s.manager.Levels()
	fmt.Fprintf(&b, "Levels (%d):\n\n", len(lvls))
	for _, lvl := range lvls {
		size := "?"
		if g, err := lvl.Grid(); err == nil {
			size = fmt.Sprintf("%dx%d", g.Width(), g.Height())
		}
		fmt.Fprintf(&b, "- %s: %s (%s, %s)\n", lvl.ID, lvl.Title(), size, lvl.Format)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mode, _ := args["mode"].(string)
	level, _ := args["level"].(string)

	sess, err := s.manager.Create(session.CreateOptions{
		Mode:  doteat.Mode(mode),
		Level: level,
		Seed:  int64(intArg(args, "seed", 0)),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("session created", "id", sess.ID, "mode", sess.Mode, "seed", sess.Seed)

	result := fmt.Sprintf("Created session: %s\nSeed: %d\n\n%s", sess.ID, sess.Seed, formatSnapshot(sess.Snapshot()))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSnapshot(sess.Snapshot())), nil
}

func (s *Server) handleSetIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sess, err := s.session(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	direction, _ := args["direction"].(string)
	accepted, err := sess.Command(direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !accepted {
		return mcp.NewToolResultText(fmt.Sprintf("Rejected: cannot turn %s from here.", direction)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Accepted: %s.", direction)), nil
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sess, err := s.session(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ticks := intArg(args, "ticks", 1)
	if ticks < 1 || ticks > maxAdvance {
		return mcp.NewToolResultError(fmt.Sprintf("ticks must be between 1 and %d", maxAdvance)), nil
	}
	return mcp.NewToolResultText(formatSnapshot(sess.Step(ticks))), nil
}

func (s *Server) handleRenderBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sess.Board()), nil
}

func (s *Server) handleHighScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.scores == nil {
		return mcp.NewToolResultError("scores are not available"), nil
	}

	args := arguments(request)
	game, _ := args["game"].(string)
	if game == "" {
		game = doteat.IDCampaign
	}

	entries, err := s.scores.TopScores(game, intArg(args, "limit", 10))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No scores for %s yet.", game)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "High scores for %s:\n\n", game)
	for i, e := range entries {
		fmt.Fprintf(&b, "%2d. %5d  %s  %s\n", i+1, e.Score, e.LevelID, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func formatSnapshot(snap doteat.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "State: %s\n", snap.State)
	fmt.Fprintf(&b, "Tick: %d\n", snap.Tick)
	fmt.Fprintf(&b, "Level %d: %s (%s)\n", snap.Level, snap.LevelName, snap.LevelID)
	fmt.Fprintf(&b, "Score: %d, flowers left: %d\n", snap.Score, snap.FlowersLeft)
	fmt.Fprintf(&b, "Player: (%d,%d) heading %s\n", snap.Player.X, snap.Player.Y, snap.Player.Direction)
	for _, e := range snap.Enemies {
		fmt.Fprintf(&b, "Wolf %d: (%d,%d) heading %s\n", e.ID, e.X, e.Y, e.Direction)
	}
	if len(snap.Flowers) > 0 {
		parts := make([]string, len(snap.Flowers))
		for i, f := range snap.Flowers {
			parts[i] = fmt.Sprintf("(%d,%d)", f.X, f.Y)
		}
		fmt.Fprintf(&b, "Flowers: %s\n", strings.Join(parts, " "))
	}
	return b.String()
}
