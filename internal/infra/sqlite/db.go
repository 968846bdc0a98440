// Package sqlite provides SQLite-based persistent storage for NutriBot.
// Uses WAL mode for concurrent reads and crash-safe writes. The game state
// is stored as one JSON document per user with last-write-wins semantics;
// meal logs, reward events, and notifications get their own tables.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/nutribot.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "nutribot.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Gamification state: one last-write-wins JSON document per user.
		`CREATE TABLE IF NOT EXISTS game_states (
			user_id    TEXT PRIMARY KEY,
			state      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,

		// Meal diary. The item is stored as JSON; user/day/timestamp are
		// lifted into columns for querying.
		`CREATE TABLE IF NOT EXISTS daily_logs (
			id        TEXT PRIMARY KEY,
			user_id   TEXT NOT NULL,
			day       TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			item      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_user_day ON daily_logs(user_id, day)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_ts ON daily_logs(timestamp)`,

		// Reward event ledger for the history view.
		`CREATE TABLE IF NOT EXISTS reward_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			source      TEXT NOT NULL,
			energy      INTEGER NOT NULL DEFAULT 0,
			balance     INTEGER NOT NULL DEFAULT 0,
			mindfulness INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rewards_user_ts ON reward_events(user_id, timestamp)`,

		// Notification log (policy: max 1/day, quiet hours).
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			day        TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_user_day ON notifications(user_id, day)`,

		// User nutrient goals.
		`CREATE TABLE IF NOT EXISTS user_goals (
			user_id    TEXT PRIMARY KEY,
			goals      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
