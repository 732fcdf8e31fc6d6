package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/storage"
)

type fakeScores struct {
	byGame map[string][]storage.ScoreEntry
	err    error
	asked  []string
}

func (f *fakeScores) TopScores(gameID string, limit int) ([]storage.ScoreEntry, error) {
	f.asked = append(f.asked, gameID)
	return f.byGame[gameID], f.err
}

func TestScoreboardSwitchesGames(t *testing.T) {
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src := &fakeScores{byGame: map[string][]storage.ScoreEntry{
		doteat.IDCampaign: {{GameID: doteat.IDCampaign, LevelID: "01-meadow", Score: 42, CreatedAt: when}},
		doteat.IDEndless:  {{GameID: doteat.IDEndless, Score: 7, CreatedAt: when}},
	}}

	m := NewScoreboardModel(src, doteat.IDCampaign, 100, 30)
	if len(m.scores) != 1 || m.scores[0].Score != 42 {
		t.Fatalf("scores = %v, expected the campaign entry", m.scores)
	}
	if !strings.Contains(m.View(), "01-meadow") {
		t.Error("View() should list the level of the entry")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if got := m.games[m.gameCursor].ID; got != doteat.IDEndless {
		t.Errorf("selected game = %q, expected %q", got, doteat.IDEndless)
	}
	if len(m.scores) != 1 || m.scores[0].Score != 7 {
		t.Errorf("scores = %v, expected the endless entry", m.scores)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if got := m.games[m.gameCursor].ID; got != doteat.IDCampaign {
		t.Errorf("selected game = %q, expected %q", got, doteat.IDCampaign)
	}
}

func TestScoreboardEmptyStates(t *testing.T) {
	tests := []struct {
		name  string
		store ScoreSource
		want  string
	}{
		{"no store", nil, "not available"},
		{"no scores", &fakeScores{}, "No scores recorded yet"},
		{"load error", &fakeScores{err: errors.New("disk gone")}, "disk gone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewScoreboardModel(tt.store, doteat.IDCampaign, 100, 30)
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("View() does not contain %q", tt.want)
			}
		})
	}
}

func TestScoreboardQuit(t *testing.T) {
	m := NewScoreboardModel(&fakeScores{}, doteat.IDCampaign, 100, 30)
	next, cmd := m.Update(runeKey('q'))
	m = next.(ScoreboardModel)
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit the scoreboard")
	}
}
