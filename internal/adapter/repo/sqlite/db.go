package sqliterepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	player_id TEXT PRIMARY KEY,
	realm_index INTEGER NOT NULL DEFAULT 0,
	experience INTEGER NOT NULL DEFAULT 0,
	level INTEGER NOT NULL DEFAULT 1,
	power INTEGER NOT NULL DEFAULT 0,
	health INTEGER NOT NULL DEFAULT 0,
	max_health INTEGER NOT NULL DEFAULT 0,
	mana INTEGER NOT NULL DEFAULT 0,
	max_mana INTEGER NOT NULL DEFAULT 0,
	spirit INTEGER NOT NULL DEFAULT 0,
	attack INTEGER NOT NULL DEFAULT 0,
	defense INTEGER NOT NULL DEFAULT 0,
	speed INTEGER NOT NULL DEFAULT 0,
	crit_chance REAL NOT NULL DEFAULT 0,
	coins INTEGER NOT NULL DEFAULT 0,
	stones INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL DEFAULT '',
	is_cultivating INTEGER NOT NULL DEFAULT 0,
	cultivation_start_ns INTEGER,
	cultivation_end_ns INTEGER,
	daily_cultivation_sessions INTEGER NOT NULL DEFAULT 0,
	last_cultivation_reset_date TEXT NOT NULL DEFAULT '',
	last_breakthrough_attempt_ns INTEGER,
	history_json TEXT NOT NULL DEFAULT '[]',
	version INTEGER NOT NULL DEFAULT 0,
	created_ns INTEGER NOT NULL,
	updated_ns INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_players_cultivation_end ON players(is_cultivating, cultivation_end_ns);
CREATE INDEX IF NOT EXISTS idx_players_reset_date ON players(last_cultivation_reset_date);

CREATE TABLE IF NOT EXISTS progression_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id TEXT NOT NULL UNIQUE,
	player_id TEXT NOT NULL REFERENCES players(player_id) ON DELETE CASCADE,
	type TEXT NOT NULL,
	occurred_ns INTEGER NOT NULL,
	payload_json TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_progression_events_player ON progression_events(player_id, occurred_ns);
`

// Open opens or creates the database at path and ensures the schema exists.
// ":memory:" is accepted for tests.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serialises writers and keeps ":memory:" on one database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}
