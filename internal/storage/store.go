// Package storage persists game scores. A plain path opens a SQLite file
// through the pure-Go modernc.org/sqlite driver; a postgres:// DSN opens a
// PostgreSQL database through lib/pq.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Dialect names the SQL flavour of an open store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Store manages the database connection for score persistence.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the store named by dsn and runs migrations.
func Open(dsn string) (*Store, error) {
	if IsPostgresDSN(dsn) {
		return open(DialectPostgres, "postgres", dsn)
	}

	dbPath, err := expandHome(dsn)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return open(DialectSQLite, "sqlite", dbPath)
}

func open(dialect Dialect, driver, source string) (*Store, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: dialect}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Dialect returns the SQL flavour of the store.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) schema() []string {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	createdAt := "created_at DATETIME DEFAULT CURRENT_TIMESTAMP"
	if s.dialect == DialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		createdAt = "created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS scores (
			` + idColumn + `,
			game_id TEXT NOT NULL,
			level_id TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			` + createdAt + `
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC)`,
	}
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	for _, stmt := range s.schema() {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders for the store's dialect.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	return Rebind(query)
}

// Rebind turns ? placeholders into PostgreSQL's $1, $2, ... form. Question
// marks inside single-quoted literals are left alone.
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseTime normalizes timestamps, which the drivers return either as
// time.Time or as text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTimeText(t)
	case []byte:
		return parseTimeText(string(t))
	}
	return time.Time{}
}

func parseTimeText(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
