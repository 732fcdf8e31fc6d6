package session

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/vovakirdan/doteat/internal/config"
	"github.com/vovakirdan/doteat/internal/core"
	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/levels"
	"github.com/vovakirdan/doteat/internal/maze"
)

type savedScore struct {
	game, level string
	score       int
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []savedScore
}

func (r *recordingSaver) SaveScore(gameID, levelID string, score int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, savedScore{gameID, levelID, score})
	return int64(len(r.saved)), nil
}

func testOptions(t *testing.T) doteat.Options {
	t.Helper()
	cfg := config.DefaultDoteatConfig()
	cfg.Movement.PlayerInterval = 0.1
	cfg.Movement.EnemyInterval = 0.1
	cfg.Enemies.MinInterval = 0.05
	cfg.Difficulty.Enabled = false

	var lvls []levels.Level
	for _, body := range []string{
		"id: corridor\nenemies: [{x: 4, y: 0}]\nlayout: \"*****\"\n",
		"id: square\nenemies: [{x: 2, y: 2}]\nlayout: |\n  ***\n  * *\n  ***\n",
	} {
		lvl, err := levels.Parse([]byte(body))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		lvls = append(lvls, lvl)
	}
	return doteat.Options{Config: cfg, Levels: lvls}
}

func TestCreateValidation(t *testing.T) {
	m := NewManager(testOptions(t), 10)

	tests := []struct {
		name     string
		opts     CreateOptions
		expected error
	}{
		{"defaults", CreateOptions{}, nil},
		{"endless", CreateOptions{Mode: doteat.ModeEndless}, nil},
		{"level", CreateOptions{Level: "square"}, nil},
		{"bad mode", CreateOptions{Mode: "versus"}, ErrUnknownMode},
		{"bad level", CreateOptions{Level: "nowhere"}, ErrUnknownLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := m.Create(tc.opts)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("Create() error = %v, expected %v", err, tc.expected)
			}
			if err != nil {
				return
			}
			if s.ID == "" || s.Seed == 0 {
				t.Errorf("Create() = %+v, expected an ID and a seed", s)
			}
			if tc.opts.Level != "" && s.Snapshot().LevelID != tc.opts.Level {
				t.Errorf("LevelID = %q, expected %q", s.Snapshot().LevelID, tc.opts.Level)
			}
		})
	}
}

func TestGetListDelete(t *testing.T) {
	m := NewManager(testOptions(t), 10)

	a, _ := m.Create(CreateOptions{Seed: 1})
	b, _ := m.Create(CreateOptions{Seed: 2})

	if got, err := m.Get(a.ID); err != nil || got != a {
		t.Errorf("Get(%s) = %v, %v", a.ID, got, err)
	}

	list := m.List()
	if len(list) != 2 || list[0] != a || list[1] != b {
		t.Errorf("List() returned %d sessions in the wrong order", len(list))
	}

	if err := m.Delete(a.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := m.Get(a.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after delete error = %v, expected ErrSessionNotFound", err)
	}
	if err := m.Delete(a.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete() error = %v, expected ErrSessionNotFound", err)
	}
	if _, err := m.Step("missing", 1); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Step() on missing session error = %v", err)
	}
}

func TestStepIsDeterministic(t *testing.T) {
	m := NewManager(testOptions(t), 10)

	a, _ := m.Create(CreateOptions{Level: "square", Seed: 99})
	b, _ := m.Create(CreateOptions{Level: "square", Seed: 99})

	for i := 0; i < 20; i++ {
		sa := a.Step(1)
		sb := b.Step(1)
		if !reflect.DeepEqual(sa, sb) {
			t.Fatalf("tick %d: snapshots differ\n%+v\n%+v", i, sa, sb)
		}
	}
}

func TestGameOverSavesScoreOnce(t *testing.T) {
	saver := &recordingSaver{}
	m := NewManager(testOptions(t), 10)
	m.SetScoreSaver(saver)

	s, _ := m.Create(CreateOptions{Seed: 5})
	ok, err := m.SetIntent(s.ID, maze.Right)
	if err != nil || !ok {
		t.Fatalf("SetIntent() = %v, %v", ok, err)
	}

	snap, _ := m.Step(s.ID, 10)
	if snap.State != doteat.StateGameOver {
		t.Fatalf("State = %s, expected game_over", snap.State)
	}
	if snap.Tick != 2 {
		t.Errorf("Tick = %d, stepping should stop at the end of the game", snap.Tick)
	}

	if snap.Score <= 0 {
		t.Fatalf("Score = %d, expected the run to collect flowers", snap.Score)
	}

	m.Step(s.ID, 3)
	if len(saver.saved) != 1 {
		t.Fatalf("saved %d scores, expected 1", len(saver.saved))
	}
	got := saver.saved[0]
	if got.game != doteat.IDCampaign || got.level != "corridor" || got.score != snap.Score {
		t.Errorf("saved %+v, expected doteat/corridor/%d", got, snap.Score)
	}

	s.Press(core.ActionRestart)
	if snap := s.Step(1); snap.State != doteat.StatePlaying {
		t.Errorf("State after restart = %s, expected playing", snap.State)
	}
}

func TestGameOverSkipsEmptyScore(t *testing.T) {
	opts := testOptions(t)
	lvl, err := levels.Parse([]byte("id: trap\nenemies: [{x: 1, y: 0}]\nlayout: \"**\"\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	opts.Levels = []levels.Level{lvl}

	saver := &recordingSaver{}
	m := NewManager(opts, 10)
	m.SetScoreSaver(saver)

	s, _ := m.Create(CreateOptions{Seed: 1})
	snap, _ := m.Step(s.ID, 50)
	if snap.State != doteat.StateGameOver {
		t.Fatalf("State = %s, expected game_over", snap.State)
	}
	if snap.Score != 0 {
		t.Fatalf("Score = %d, expected 0", snap.Score)
	}
	if len(saver.saved) != 0 {
		t.Errorf("saved %d scores, expected none for an empty run", len(saver.saved))
	}
}

func TestBoard(t *testing.T) {
	m := NewManager(testOptions(t), 10)
	s, _ := m.Create(CreateOptions{Level: "square", Seed: 3})

	board, err := m.Board(s.ID)
	if err != nil {
		t.Fatalf("Board() error: %v", err)
	}
	lines := strings.Split(board, "\n")
	w, h := 44, 2+3+2
	if len(lines) != h {
		t.Fatalf("Board() has %d lines, expected %d", len(lines), h)
	}
	if n := len([]rune(lines[0])); n != w {
		t.Errorf("Board() width = %d, expected %d", n, w)
	}
	for _, glyph := range []string{"@", "W", "┐", "└"} {
		if !strings.Contains(board, glyph) {
			t.Errorf("Board() missing %q:\n%s", glyph, board)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := NewManager(testOptions(t), 10)
	s, _ := m.Create(CreateOptions{Level: "square", Seed: 7})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				switch j % 3 {
				case 0:
					s.Step(1)
				case 1:
					s.SetIntent(maze.Cardinals[i%len(maze.Cardinals)])
				default:
					s.Board()
				}
			}
		}(i)
	}
	wg.Wait()

	if s.Snapshot().Tick == 0 {
		t.Error("expected the session to have advanced")
	}
}

func TestCommand(t *testing.T) {
	m := NewManager(testOptions(t), 10)
	s, _ := m.Create(CreateOptions{Seed: 1})

	tests := []struct {
		name     string
		accepted bool
		err      error
	}{
		{"up", false, nil},
		{"Right", true, nil},
		{" stop ", true, nil},
		{"pause", true, nil},
		{"jump", false, ErrUnknownCommand},
	}

	for _, tc := range tests {
		accepted, err := s.Command(tc.name)
		if !errors.Is(err, tc.err) {
			t.Errorf("Command(%q) error = %v, expected %v", tc.name, err, tc.err)
		}
		if accepted != tc.accepted {
			t.Errorf("Command(%q) = %v, expected %v", tc.name, accepted, tc.accepted)
		}
	}

	if snap := s.Step(1); snap.State != doteat.StatePaused {
		t.Errorf("State = %s, expected paused after the queued pause", snap.State)
	}
}
