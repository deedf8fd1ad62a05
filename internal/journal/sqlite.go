// Package journal persists a local audit trail of pipeline actions
// in SQLite so `scanflow history` can show what was uploaded,
// dispatched, and submitted from this machine.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/medseg/scanflow/internal/service"
)

// expectedSchemaVersion is the latest schema version the journal expects.
const expectedSchemaVersion = 1

// SQLiteJournal implements service.Journal on a local SQLite file.
type SQLiteJournal struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteJournal opens (creating if needed) the journal database at dbPath.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	return &SQLiteJournal{db: db, dbPath: dbPath}, nil
}

type migration struct {
	up          func(*sql.Tx) error
	description string
	version     int
}

var migrations = []migration{
	{
		version:     1,
		description: "Initial journal schema",
		up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS actions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					recorded_at DATETIME NOT NULL,
					action TEXT NOT NULL,
					detail TEXT,
					scan_ids TEXT
				)`,
				`CREATE INDEX idx_actions_recorded_at ON actions(recorded_at)`,
				`CREATE INDEX idx_actions_action ON actions(action)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending schema migrations.
func (j *SQLiteJournal) Migrate(ctx context.Context) error {
	var currentVersion int
	if err := j.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := j.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}
		if upErr := m.up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, upErr)
		}
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.version, execErr)
		}
		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, commitErr)
		}

		slog.Debug("Applied journal migration",
			"version", m.version,
			"description", m.description)
	}

	var finalVersion int
	if err := j.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if finalVersion != expectedSchemaVersion {
		return fmt.Errorf("journal schema at version %d, expected %d", finalVersion, expectedSchemaVersion)
	}
	return nil
}

// RecordAction appends one action to the journal.
func (j *SQLiteJournal) RecordAction(ctx context.Context, action string, ids []string, detail string) error {
	if action == "" {
		return fmt.Errorf("action cannot be empty")
	}

	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode scan ids: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO actions (recorded_at, action, detail, scan_ids) VALUES (?, ?, ?, ?)`,
		time.Now().UTC(), action, detail, string(encoded))
	if err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}

// ListActions returns the most recent entries, newest first. A limit
// of 0 or less means no limit.
func (j *SQLiteJournal) ListActions(ctx context.Context, limit int) ([]service.JournalEntry, error) {
	query := `SELECT recorded_at, action, detail, scan_ids FROM actions ORDER BY recorded_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []service.JournalEntry
	for rows.Next() {
		var (
			entry   service.JournalEntry
			encoded string
		)
		if err := rows.Scan(&entry.RecordedAt, &entry.Action, &entry.Detail, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		if encoded != "" {
			if err := json.Unmarshal([]byte(encoded), &entry.IDs); err != nil {
				return nil, fmt.Errorf("failed to decode scan ids: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actions: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("failed to close journal database: %w", err)
	}
	return nil
}
