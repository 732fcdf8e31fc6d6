package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/doteat/internal/core"
	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/maze"
)

// Session is one running game. All methods are safe for concurrent use.
type Session struct {
	ID        string
	Mode      doteat.Mode
	Seed      int64
	CreatedAt time.Time

	mu      sync.Mutex
	game    *doteat.Game
	screen  *core.Screen
	pending core.InputFrame
	scores  ScoreSaver
	saved   bool
}

// Snapshot returns the current game snapshot.
func (s *Session) Snapshot() doteat.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Step advances the game by n ticks, at least one. Stepping stops early
// once the game has ended.
func (s *Session) Step(n int) doteat.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < max(1, n); i++ {
		input := s.pending
		s.pending = core.NewInputFrame()

		state := s.game.Step(input).State
		if input.Has(core.ActionRestart) {
			s.saved = false
		}
		if state.GameOver {
			s.saveScore(state.Score)
			break
		}
	}
	return s.game.Snapshot()
}

// SetIntent sets the player's next direction immediately. It reports
// whether the direction was accepted.
func (s *Session) SetIntent(d maze.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.SetIntent(d)
}

// Press queues an action for the next tick.
func (s *Session) Press(a core.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Set(a)
}

// ErrUnknownCommand is returned by Command for names it does not know.
var ErrUnknownCommand = errors.New("unknown command")

var commandActions = map[string]core.Action{
	"pause":   core.ActionPause,
	"restart": core.ActionRestart,
}

// Command applies a named input: a direction (up, down, left, right, stop)
// is set immediately, pause and restart are queued for the next tick.
// Queued actions always report true.
func (s *Session) Command(name string) (bool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if d, ok := maze.ParseDirection(name); ok {
		return s.SetIntent(d), nil
	}
	if a, ok := commandActions[name]; ok {
		s.Press(a)
		return true, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Board renders the game as plain text, sized to the current level.
func (s *Session) Board() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.game.BoardSize()
	if s.screen == nil {
		s.screen = core.NewScreen(w, h)
	} else if s.screen.Width() != w || s.screen.Height() != h {
		s.screen.Resize(w, h)
	}
	s.game.Render(s.screen)
	return s.screen.String()
}

// saveScore records the run once per game, skipping empty ones.
func (s *Session) saveScore(score int) {
	if s.saved || s.scores == nil {
		return
	}
	s.saved = true
	if score <= 0 {
		return
	}
	s.scores.SaveScore(s.game.ID(), s.game.Level().ID, score) //nolint:errcheck
}
