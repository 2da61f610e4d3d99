package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so store
// methods can run standalone or inside a per-group transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id            TEXT PRIMARY KEY,
	service       TEXT NOT NULL,
	client_id     TEXT NOT NULL,
	content_unit  TEXT NOT NULL,
	display_name  TEXT NOT NULL DEFAULT '',
	client_app    TEXT NOT NULL DEFAULT '',
	last_url      TEXT NOT NULL DEFAULT '',
	start_time    TEXT NOT NULL,
	last_activity TEXT NOT NULL,
	hit_bytes     INTEGER NOT NULL DEFAULT 0,
	miss_bytes    INTEGER NOT NULL DEFAULT 0,
	is_active     INTEGER NOT NULL DEFAULT 1,
	status        TEXT NOT NULL DEFAULT 'Downloading'
);
CREATE INDEX IF NOT EXISTS idx_downloads_active_key ON downloads(is_active, service, client_id, content_unit);
CREATE INDEX IF NOT EXISTS idx_downloads_last_activity ON downloads(last_activity);

CREATE TABLE IF NOT EXISTS client_stats (
	client_id     TEXT PRIMARY KEY,
	hit_bytes     INTEGER NOT NULL DEFAULT 0,
	miss_bytes    INTEGER NOT NULL DEFAULT 0,
	last_seen     TEXT NOT NULL,
	session_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS service_stats (
	service       TEXT PRIMARY KEY,
	hit_bytes     INTEGER NOT NULL DEFAULT 0,
	miss_bytes    INTEGER NOT NULL DEFAULT 0,
	last_activity TEXT NOT NULL,
	session_count INTEGER NOT NULL DEFAULT 0
);
`

// Open opens (creating if needed) the SQLite database at path, applies the
// performance pragmas and ensures the schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=60000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// ResetAll truncates every table. Used only by the external bulk-reset
// orchestration; in-flight pipeline writes are the caller's problem.
func ResetAll(ctx context.Context, db DBTX) error {
	for _, table := range []string{"downloads", "client_stats", "service_stats"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Timestamps are stored as fixed-width UTC text so SQL string comparison
// (ORDER BY, MAX in the stats upserts) matches chronological order.
// RFC3339Nano would trim trailing fraction zeroes and break that.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored time %q: %w", s, err)
	}
	return t, nil
}
