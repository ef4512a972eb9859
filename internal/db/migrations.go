package db

import (
	"database/sql"
	"fmt"
)

// Base schema - uses Snowflake IDs (no AUTOINCREMENT)
const baseSchema = `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY,
  output_dir TEXT NOT NULL,
  layout TEXT NOT NULL,
  article_count INTEGER NOT NULL DEFAULT 0,
  failed_feeds INTEGER NOT NULL DEFAULT 0,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS articles (
  id INTEGER PRIMARY KEY,
  run_id INTEGER NOT NULL,
  hash TEXT NOT NULL,
  feed_title TEXT NOT NULL,
  title TEXT NOT NULL,
  link TEXT NOT NULL,
  file_name TEXT NOT NULL,
  published_at TEXT,
  FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_articles_run_id ON articles(run_id);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Indexes (safe to run even if they exist)
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_run_file ON articles(run_id, file_name)`); err != nil {
		return fmt.Errorf("create idx_articles_run_file: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_articles_hash ON articles(hash)`); err != nil {
		return fmt.Errorf("create idx_articles_hash: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`); err != nil {
		return fmt.Errorf("create idx_runs_started_at: %w", err)
	}
	return nil
}
