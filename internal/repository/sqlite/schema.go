package sqlite

import (
	"context"
	"fmt"
)

// InitSchema provisions the tables and indexes: the uniqueness index that
// backs deduplication, the attempt lookup key, and the compound index for
// per-question timestamp-ordered scans. One-time setup, safe to re-run.
func (c *Client) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			attempt_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			answer_value TEXT NOT NULL,
			client_timestamp INTEGER NOT NULL,
			dedupe_key TEXT NOT NULL,
			ingested_at INTEGER NOT NULL,
			UNIQUE (attempt_id, dedupe_key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_attempt_question_ts
			ON events(attempt_id, question_id, client_timestamp DESC);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			attempt_id TEXT PRIMARY KEY,
			total_score INTEGER NOT NULL DEFAULT 0,
			last_updated INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_answers (
			attempt_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			answer_value TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, question_id)
		);`,
	}

	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	c.log.Info("SQLite schema initialized successfully")
	return nil
}
