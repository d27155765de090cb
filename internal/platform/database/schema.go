package database

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables if they do not exist yet. The unique
// constraints here are load-bearing: users_email_key backs duplicate
// sign-up detection and likes unique (submission_id, fingerprint) is the
// sole guard against double-insertion under concurrent like toggles.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			email           TEXT NOT NULL UNIQUE,
			name            TEXT NOT NULL,
			image           TEXT,
			hashed_password TEXT NOT NULL,
			role            TEXT NOT NULL DEFAULT 'USER',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS benchmarks (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			description     TEXT,
			requirement_doc TEXT,
			prototype_url   TEXT,
			user_stories    TEXT,
			is_active       BOOLEAN NOT NULL DEFAULT TRUE,
			created_by_id   TEXT NOT NULL REFERENCES users(id),
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id             TEXT PRIMARY KEY,
			benchmark_id   TEXT NOT NULL REFERENCES benchmarks(id),
			user_id        TEXT NOT NULL REFERENCES users(id),
			status         TEXT NOT NULL DEFAULT 'PENDING',
			repo_url       TEXT NOT NULL,
			base_model     TEXT NOT NULL,
			coding_tool    TEXT NOT NULL,
			plugins        JSONB NOT NULL DEFAULT '[]',
			author_name    TEXT,
			author_email   TEXT,
			chat_log_url   TEXT,
			chat_log_text  TEXT,
			chat_log_files JSONB NOT NULL DEFAULT '[]',
			like_count     INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS submissions_benchmark_id_idx ON submissions(benchmark_id)`,
		`CREATE INDEX IF NOT EXISTS submissions_user_id_idx ON submissions(user_id)`,
		`CREATE TABLE IF NOT EXISTS likes (
			id            TEXT PRIMARY KEY,
			submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
			fingerprint   TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (submission_id, fingerprint)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("database.EnsureSchema: %w", err)
		}
	}
	return nil
}
