package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if store.Dialect() != DialectSQLite {
		t.Errorf("Dialect() = %q, expected %q", store.Dialect(), DialectSQLite)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	saves := []struct {
		game  string
		level string
		score int
	}{
		{"doteat", "01-meadow", 100},
		{"doteat", "01-meadow", 50},
		{"doteat", "02-orchard", 200},
		{"doteat_endless", "03-thicket", 500},
	}
	for _, s := range saves {
		if _, err := store.SaveScore(s.game, s.level, s.score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("doteat", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	expected := []struct {
		score int
		level string
	}{{200, "02-orchard"}, {100, "01-meadow"}, {50, "01-meadow"}}
	for i, e := range expected {
		if scores[i].Score != e.score || scores[i].LevelID != e.level {
			t.Errorf("scores[%d] = %d on %q, expected %d on %q", i, scores[i].Score, scores[i].LevelID, e.score, e.level)
		}
		if scores[i].CreatedAt.IsZero() {
			t.Errorf("scores[%d].CreatedAt not set", i)
		}
	}

	endless, err := store.TopScores("doteat_endless", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(endless) != 1 {
		t.Errorf("Expected 1 endless score, got %d", len(endless))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", "lvl", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, _ := store.TopScores("test", 0)
	if len(all) != 5 {
		t.Errorf("TopScores(0) returned %d entries, expected the default limit to cover 5", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("doteat")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() = %d for empty game, expected 0", high)
	}

	store.SaveScore("doteat", "a", 100)
	store.SaveScore("doteat", "b", 300)
	store.SaveScore("doteat", "c", 200)

	high, err = store.HighScore("doteat")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("HighScore() = %d, expected 300", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("doteat", "a", 100)
	store.SaveScore("doteat", "a", 200)
	store.SaveScore("doteat_endless", "a", 300)

	if err := store.ClearScores("doteat"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	campaign, _ := store.TopScores("doteat", 10)
	if len(campaign) != 0 {
		t.Errorf("Expected 0 campaign scores after clear, got %d", len(campaign))
	}
	endless, _ := store.TopScores("doteat_endless", 10)
	if len(endless) != 1 {
		t.Errorf("Endless scores should not be affected by clearing the campaign")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		store.SaveScore("test", "lvl", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("doteat")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("GetGameStats() on empty store = %+v", empty)
	}

	store.SaveScore("doteat", "01-meadow", 10)
	store.SaveScore("doteat", "02-orchard", 30)
	store.SaveScore("doteat", "01-meadow", 20)
	store.SaveScore("doteat_endless", "01-meadow", 7)

	stats, err := store.GetGameStats("doteat")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 3 {
		t.Errorf("GamesCount = %d, expected 3", stats.GamesCount)
	}
	if stats.HighScore != 30 {
		t.Errorf("HighScore = %d, expected 30", stats.HighScore)
	}
	if stats.TotalScore != 60 {
		t.Errorf("TotalScore = %d, expected 60", stats.TotalScore)
	}
	if stats.AvgScore != 20 {
		t.Errorf("AvgScore = %v, expected 20", stats.AvgScore)
	}
	if stats.BestLevel != "02-orchard" {
		t.Errorf("BestLevel = %q, expected 02-orchard", stats.BestLevel)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAllGamesStats() returned %d games, expected 2", len(all))
	}
	if all["doteat_endless"].HighScore != 7 {
		t.Errorf("endless HighScore = %d, expected 7", all["doteat_endless"].HighScore)
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"SELECT 1", "SELECT 1"},
		{"WHERE game_id = ?", "WHERE game_id = $1"},
		{"VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
		{"WHERE a = '?' AND b = ?", "WHERE a = '?' AND b = $1"},
	}

	for _, tc := range tests {
		if got := Rebind(tc.in); got != tc.expected {
			t.Errorf("Rebind(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestIsPostgresDSN(t *testing.T) {
	tests := []struct {
		dsn      string
		expected bool
	}{
		{"postgres://user@localhost/doteat", true},
		{"postgresql://localhost/doteat?sslmode=disable", true},
		{"~/.doteat/scores.db", false},
		{"/tmp/postgres.db", false},
	}

	for _, tc := range tests {
		if got := IsPostgresDSN(tc.dsn); got != tc.expected {
			t.Errorf("IsPostgresDSN(%q) = %v, expected %v", tc.dsn, got, tc.expected)
		}
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
	}{
		{"time", want},
		{"sqlite text", "2024-03-01 12:30:00"},
		{"rfc3339", "2024-03-01T12:30:00Z"},
		{"bytes", []byte("2024-03-01 12:30:00")},
	}
	for _, tc := range tests {
		if got := parseTime(tc.in); !got.Equal(want) {
			t.Errorf("parseTime(%s) = %v, expected %v", tc.name, got, want)
		}
	}
	if !parseTime(nil).IsZero() {
		t.Error("parseTime(nil) should be zero")
	}
}

// TestPostgresStore runs against a real server when DOTEAT_TEST_POSTGRES
// holds a DSN.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DOTEAT_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("DOTEAT_TEST_POSTGRES not set")
	}

	store, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	const game = "doteat_pg_test"
	store.ClearScores(game)
	defer store.ClearScores(game)

	id, err := store.SaveScore(game, "01-meadow", 42)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if id == 0 {
		t.Error("SaveScore() returned id 0")
	}

	high, err := store.HighScore(game)
	if err != nil || high != 42 {
		t.Errorf("HighScore() = %d, %v; expected 42", high, err)
	}
}
