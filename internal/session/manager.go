// Package session keeps headless Doteat games alive between requests. The
// web and MCP hosts share it: each session owns one game, advanced either
// by a runner goroutine or on demand.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/doteat/internal/core"
	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/levels"
	"github.com/vovakirdan/doteat/internal/maze"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownLevel    = errors.New("unknown level")
	ErrUnknownMode     = errors.New("unknown mode")
)

// ScoreSaver records finished runs. *storage.Store satisfies it.
type ScoreSaver interface {
	SaveScore(gameID, levelID string, score int) (int64, error)
}

// CreateOptions selects how a new session starts.
type CreateOptions struct {
	Mode  doteat.Mode
	Level string // level ID, empty for the first level
	Seed  int64  // zero picks a time-based seed
}

// Manager handles game session lifecycle.
type Manager struct {
	opts     doteat.Options
	tickRate int
	scores   ScoreSaver

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. tickRate is the number of ticks per
// second sessions are expected to be driven at.
func NewManager(opts doteat.Options, tickRate int) *Manager {
	if len(opts.Levels) == 0 {
		opts.Levels = levels.Builtin()
	}
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	return &Manager{
		opts:     opts,
		tickRate: tickRate,
		sessions: make(map[string]*Session),
	}
}

// SetScoreSaver makes sessions record their score once the game ends.
func (m *Manager) SetScoreSaver(s ScoreSaver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = s
}

// Levels returns the levels sessions are played on.
func (m *Manager) Levels() []levels.Level {
	return m.opts.Levels
}

// TickRate returns the ticks per second sessions are configured for.
func (m *Manager) TickRate() int {
	return m.tickRate
}

// Create starts a new session.
func (m *Manager) Create(opts CreateOptions) (*Session, error) {
	switch opts.Mode {
	case "":
		opts.Mode = doteat.ModeCampaign
	case doteat.ModeCampaign, doteat.ModeEndless:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, opts.Mode)
	}
	if opts.Level != "" {
		if _, ok := levels.Find(m.opts.Levels, opts.Level); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, opts.Level)
		}
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	game := doteat.NewWithOptions(opts.Mode, m.opts)
	game.Reset(core.RuntimeConfig{
		TickRate: m.tickRate,
		Seed:     opts.Seed,
		Level:    opts.Level,
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:        uuid.NewString(),
		Mode:      opts.Mode,
		Seed:      opts.Seed,
		CreatedAt: time.Now(),
		game:      game,
		pending:   core.NewInputFrame(),
		scores:    m.scores,
	}
	m.sessions[s.ID] = s
	return s, nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// List returns all sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Step advances a session by n ticks and returns its snapshot.
func (m *Manager) Step(id string, n int) (doteat.Snapshot, error) {
	s, err := m.Get(id)
	if err != nil {
		return doteat.Snapshot{}, err
	}
	return s.Step(n), nil
}

// SetIntent forwards a direction to a session's player.
func (m *Manager) SetIntent(id string, d maze.Direction) (bool, error) {
	s, err := m.Get(id)
	if err != nil {
		return false, err
	}
	return s.SetIntent(d), nil
}

// Board renders a session as plain text.
func (m *Manager) Board(id string) (string, error) {
	s, err := m.Get(id)
	if err != nil {
		return "", err
	}
	return s.Board(), nil
}
