package mcp

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vovakirdan/doteat/internal/config"
	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/levels"
	"github.com/vovakirdan/doteat/internal/session"
	"github.com/vovakirdan/doteat/internal/storage"
)

type fakeScores struct{}

func (fakeScores) TopScores(gameID string, limit int) ([]storage.ScoreEntry, error) {
	if gameID != doteat.IDEndless {
		return nil, nil
	}
	return []storage.ScoreEntry{{Score: 9, LevelID: "corridor"}}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultDoteatConfig()
	cfg.Movement.PlayerInterval = 0.1
	cfg.Movement.EnemyInterval = 0.1
	cfg.Enemies.MinInterval = 0.05
	cfg.Difficulty.Enabled = false

	lvl, err := levels.Parse([]byte("id: corridor\nname: Corridor\nenemies: [{x: 4, y: 0}]\nlayout: \"*****\"\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	manager := session.NewManager(doteat.Options{Config: cfg, Levels: []levels.Level{lvl}}, 10)
	return NewServer(manager, fakeScores{}, log.New(io.Discard), "test")
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("result content is %T, expected TextContent", result.Content[0])
	}
	return text.Text, result.IsError
}

var sessionIDPattern = regexp.MustCompile(`Created session: (\S+)`)

func newGame(t *testing.T, s *Server) string {
	t.Helper()
	text, isErr := call(t, s.handleNewGame, map[string]interface{}{"seed": float64(3)})
	if isErr {
		t.Fatalf("new_game failed: %s", text)
	}
	m := sessionIDPattern.FindStringSubmatch(text)
	if m == nil {
		t.Fatalf("no session ID in %q", text)
	}
	return m[1]
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t)
	if s.MCPServer() == nil {
		t.Fatal("MCP server should be initialized")
	}
}

func TestListLevels(t *testing.T) {
	s := newTestServer(t)
	text, _ := call(t, s.handleListLevels, nil)
	if !strings.Contains(text, "corridor: Corridor (5x1, ascii)") {
		t.Errorf("list_levels = %q", text)
	}
}

func TestNewGameErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []map[string]interface{}{
		{"mode": "versus"},
		{"level": "nowhere"},
	}
	for _, args := range tests {
		if text, isErr := call(t, s.handleNewGame, args); !isErr {
			t.Errorf("new_game(%v) = %q, expected an error", args, text)
		}
	}
}

func TestPlayThroughTools(t *testing.T) {
	s := newTestServer(t)
	id := newGame(t, s)

	text, _ := call(t, s.handleGameState, map[string]interface{}{"session_id": id})
	if !strings.Contains(text, "State: playing") || !strings.Contains(text, "Player: (0,0)") {
		t.Errorf("game_state = %q", text)
	}

	if text, _ := call(t, s.handleSetIntent, map[string]interface{}{"session_id": id, "direction": "up"}); !strings.HasPrefix(text, "Rejected") {
		t.Errorf("set_intent up = %q, expected a rejection", text)
	}
	if text, _ := call(t, s.handleSetIntent, map[string]interface{}{"session_id": id, "direction": "right"}); !strings.HasPrefix(text, "Accepted") {
		t.Errorf("set_intent right = %q", text)
	}
	if _, isErr := call(t, s.handleSetIntent, map[string]interface{}{"session_id": id, "direction": "jump"}); !isErr {
		t.Error("set_intent with an unknown direction should fail")
	}

	text, _ = call(t, s.handleAdvance, map[string]interface{}{"session_id": id, "ticks": float64(1)})
	if !strings.Contains(text, "Tick: 1") || !strings.Contains(text, "Player: (1,0) heading right") {
		t.Errorf("advance = %q", text)
	}

	text, _ = call(t, s.handleAdvance, map[string]interface{}{"session_id": id, "ticks": float64(50)})
	if !strings.Contains(text, "State: game_over") {
		t.Errorf("advance into the wolf = %q, expected game over", text)
	}

	board, _ := call(t, s.handleRenderBoard, map[string]interface{}{"session_id": id})
	if !strings.Contains(board, "Caught by a wolf") {
		t.Errorf("render_board = %q", board)
	}
}

func TestAdvanceBounds(t *testing.T) {
	s := newTestServer(t)
	id := newGame(t, s)

	for _, ticks := range []float64{0, -1, maxAdvance + 1} {
		if _, isErr := call(t, s.handleAdvance, map[string]interface{}{"session_id": id, "ticks": ticks}); !isErr {
			t.Errorf("advance(%v) should fail", ticks)
		}
	}
}

func TestMissingSession(t *testing.T) {
	s := newTestServer(t)

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"game_state":   s.handleGameState,
		"set_intent":   s.handleSetIntent,
		"advance":      s.handleAdvance,
		"render_board": s.handleRenderBoard,
	}
	for name, h := range handlers {
		if _, isErr := call(t, h, map[string]interface{}{"session_id": "missing", "direction": "up"}); !isErr {
			t.Errorf("%s on a missing session should fail", name)
		}
		if _, isErr := call(t, h, map[string]interface{}{}); !isErr {
			t.Errorf("%s without session_id should fail", name)
		}
	}
}

func TestHighScores(t *testing.T) {
	s := newTestServer(t)

	text, _ := call(t, s.handleHighScores, map[string]interface{}{"game": doteat.IDEndless})
	if !strings.Contains(text, "9  corridor") {
		t.Errorf("high_scores = %q", text)
	}
	text, _ = call(t, s.handleHighScores, nil)
	if !strings.Contains(text, "No scores for doteat") {
		t.Errorf("high_scores default = %q", text)
	}
}
