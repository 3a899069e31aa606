package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Config holds database connection configuration
type Config struct {
	// Path is the SQLite database file. ":memory:" opens an ephemeral database.
	Path string
}

// Open creates a new SQLite connection with the given configuration.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The store is single-device, single-user: one writer keeps SQLite happy.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitSchema creates all tables used by the store if they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS docs (
		id     TEXT PRIMARY KEY,
		text   TEXT NOT NULL,
		source TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS vectors (
		id   TEXT PRIMARY KEY,
		dim  INTEGER NOT NULL,
		data BLOB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS prompts (
		id         TEXT PRIMARY KEY,
		data_text  TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS threads (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS thread_messages (
		id         TEXT PRIMARY KEY,
		thread_id  TEXT NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_thread_messages_thread
		ON thread_messages (thread_id, created_at);
	CREATE TABLE IF NOT EXISTS thread_seq (
		thread_id TEXT PRIMARY KEY,
		seq       INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS news_posts (
		id           TEXT PRIMARY KEY,
		subreddit    TEXT NOT NULL,
		title        TEXT NOT NULL,
		url          TEXT NOT NULL,
		external_url TEXT,
		image_url    TEXT,
		self_text    TEXT,
		score        INTEGER NOT NULL,
		created_at   INTEGER NOT NULL,
		fetched_at   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_news_posts_fetched
		ON news_posts (fetched_at);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
