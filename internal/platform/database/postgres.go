package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"grindtrack/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

func Connect() error {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		return err
	}

	slog.Info("connected to PostgreSQL database")
	return nil
}

// EnsureSchema creates the tables and indexes the service needs. Idempotent.
func EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			hashed_password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			codeforces_handle TEXT NOT NULL DEFAULT '',
			leetcode_handle TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS solved_records (
			id UUID PRIMARY KEY,
			owner TEXT NOT NULL,
			problem_name TEXT NOT NULL,
			topic TEXT NOT NULL,
			subtopic TEXT,
			difficulty TEXT NOT NULL CHECK (difficulty IN ('Easy', 'Medium', 'Hard')),
			link TEXT NOT NULL DEFAULT '',
			solved_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_solved_records_owner ON solved_records (owner)`,
		// One record per (owner, problem, topic, subtopic, difficulty);
		// re-solves refresh solved_at/link instead of duplicating.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_solved_records_identity
			ON solved_records (owner, problem_name, topic, COALESCE(subtopic, ''), difficulty)`,
	}

	for _, stmt := range statements {
		if _, err := DB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
		slog.Info("database connection closed")
	}
}
